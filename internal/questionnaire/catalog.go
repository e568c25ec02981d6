package questionnaire

import (
	"fmt"

	"lungscreen/internal/model"
)

// Catalog variant names
const (
	CatalogBasic    = "basic"
	CatalogEnhanced = "enhanced"
)

// Lexicon topics for binary questions
const (
	TopicSmoking     = "smoking"
	TopicSmokingQuit = "smoking_quit"
	TopicPassive     = "passive_smoking"
	TopicKitchen     = "kitchen_fumes"
	TopicOccupation  = "occupation_exposure"
	TopicHistory     = "medical_history"
	TopicSymptoms    = "recent_symptoms"
	TopicGeneric     = "generic"
)

// Catalog is an immutable ordered question set
type Catalog struct {
	name      string
	questions []model.Question
	byID      map[string]int
}

// NewCatalog builds a catalog from an ordered question list.
// It fails on duplicate IDs or dependencies on unknown or later questions,
// so a loaded catalog can never make the resolver loop.
func NewCatalog(name string, questions []model.Question) (*Catalog, error) {
	byID := make(map[string]int, len(questions))
	for i, q := range questions {
		if _, dup := byID[q.ID]; dup {
			return nil, fmt.Errorf("catalog %s: duplicate question id %s", name, q.ID)
		}
		byID[q.ID] = i
	}
	for i, q := range questions {
		if q.DependsOn == nil {
			continue
		}
		j, ok := byID[q.DependsOn.QuestionID]
		if !ok {
			return nil, fmt.Errorf("catalog %s: question %s depends on unknown id %s", name, q.ID, q.DependsOn.QuestionID)
		}
		if j >= i {
			return nil, fmt.Errorf("catalog %s: question %s depends on later question %s", name, q.ID, q.DependsOn.QuestionID)
		}
	}
	return &Catalog{name: name, questions: questions, byID: byID}, nil
}

// Name returns the variant name
func (c *Catalog) Name() string { return c.name }

// Len returns the number of questions
func (c *Catalog) Len() int { return len(c.questions) }

// At returns the question at index i
func (c *Catalog) At(i int) *model.Question {
	if i < 0 || i >= len(c.questions) {
		return nil
	}
	return &c.questions[i]
}

// ByID returns a question and its index by ID
func (c *Catalog) ByID(id string) (*model.Question, int, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, -1, false
	}
	return &c.questions[i], i, true
}

// Load returns the named catalog variant
func Load(name string) (*Catalog, error) {
	switch name {
	case "", CatalogBasic:
		return NewCatalog(CatalogBasic, basicQuestions())
	case CatalogEnhanced:
		return NewCatalog(CatalogEnhanced, enhancedQuestions())
	default:
		return nil, fmt.Errorf("unknown catalog %q", name)
	}
}

func dep(questionID string, values ...string) *model.Dependency {
	return &model.Dependency{QuestionID: questionID, AcceptedValues: values}
}

// basicQuestions is the canonical 28-question screening set.
// Binary answers are standardized to 是/否 before storage, so dependencies
// accept 是 plus the raw affirmations a passthrough answer may still carry.
func basicQuestions() []model.Question {
	return []model.Question{
		{ID: "name", Text: "姓名", Prompt: "请问怎么称呼您？", Category: model.CategoryIdentity, Required: true},
		{ID: "gender", Text: "性别", Prompt: "您的性别是？", Category: model.CategoryIdentity, Required: true},
		{ID: "birth_year", Text: "出生年份", Prompt: "请问您是哪一年出生的？", Category: model.CategoryNumeric, Required: true, Min: 1900, Max: 2026},
		{ID: "height", Text: "身高", Prompt: "您的身高是多少？", Category: model.CategoryNumeric, Required: true, Min: 100, Max: 250},
		{ID: "weight", Text: "体重", Prompt: "您的体重是多少？", Category: model.CategoryNumeric, Required: true, Min: 30, Max: 200},
		{ID: "smoking_history", Text: "吸烟史", Prompt: "请问您有吸烟的习惯吗？", Category: model.CategoryBinary, Topic: TopicSmoking, Required: true},
		{ID: "smoking_freq", Text: "吸烟频率", Prompt: "您平均每天大概抽多少支烟？", Category: model.CategoryNumeric, Min: 0, Max: 100,
			DependsOn: dep("smoking_history", "是", "有")},
		{ID: "smoking_years", Text: "累计吸烟年数", Prompt: "您总共吸了多少年烟呢？", Category: model.CategoryNumeric, Min: 0, Max: 80,
			DependsOn: dep("smoking_history", "是", "有")},
		{ID: "smoking_quit", Text: "目前是否戒烟", Prompt: "那您现在是否已经戒烟了？", Category: model.CategoryBinary, Topic: TopicSmokingQuit,
			DependsOn: dep("smoking_history", "是", "有")},
		{ID: "smoking_quit_years", Text: "戒烟年数", Prompt: "您戒烟有多少年了？", Category: model.CategoryNumeric, Min: 0, Max: 80,
			DependsOn: dep("smoking_quit", "是", "戒了")},
		{ID: "passive_smoking", Text: "被动吸烟", Prompt: "在您的生活或工作环境中，您会经常吸到二手烟吗？", Category: model.CategoryBinary, Topic: TopicPassive, Required: true},
		{ID: "passive_smoking_freq", Text: "被动吸烟频率", Prompt: "您大概每天会接触二手烟多长时间呢？", Category: model.CategoryText,
			DependsOn: dep("passive_smoking", "是", "有")},
		{ID: "passive_smoking_years", Text: "累计被动吸烟年数", Prompt: "这种情况大概持续多少年了？", Category: model.CategoryNumeric, Min: 0, Max: 80,
			DependsOn: dep("passive_smoking", "是", "有")},
		{ID: "kitchen_fumes", Text: "长期厨房油烟接触", Prompt: "您平时做饭多吗？会经常接触厨房油烟吗？", Category: model.CategoryBinary, Topic: TopicKitchen, Required: true},
		{ID: "kitchen_fumes_years", Text: "累计厨房油烟接触年数", Prompt: "您接触厨房油烟有多少年了？", Category: model.CategoryNumeric, Min: 0, Max: 80,
			DependsOn: dep("kitchen_fumes", "是", "有")},
		{ID: "occupation", Text: "职业", Prompt: "请问您目前从事什么职业？", Category: model.CategoryText, Required: true},
		{ID: "occupation_exposure", Text: "职业致癌物质接触", Prompt: "您的工作中有没有可能接触到石棉、煤焦油、放射性物质等有害物质？", Category: model.CategoryBinary, Topic: TopicOccupation, Required: true},
		{ID: "occupation_exposure_details", Text: "致癌物类型及累计接触年数", Prompt: "具体是哪种物质，大概接触了多少年？", Category: model.CategoryText,
			DependsOn: dep("occupation_exposure", "是", "有")},
		{ID: "personal_tumor_history", Text: "既往个人肿瘤史", Prompt: "请问您以前得过肿瘤吗？", Category: model.CategoryBinary, Topic: TopicHistory, Required: true},
		{ID: "personal_tumor_details", Text: "肿瘤类型及确诊年份", Prompt: "可以具体说说肿瘤的类型和确诊年份吗？", Category: model.CategoryText,
			DependsOn: dep("personal_tumor_history", "是", "有")},
		{ID: "family_cancer_history", Text: "三代以内直系亲属肺癌家族史", Prompt: "您的父母、兄弟姐妹或子女中，有人得过肺癌吗？", Category: model.CategoryBinary, Topic: TopicHistory, Required: true},
		{ID: "family_cancer_details", Text: "肿瘤类型及关系", Prompt: "是哪位亲属，患的是哪种癌症呢？", Category: model.CategoryText,
			DependsOn: dep("family_cancer_history", "是", "有")},
		{ID: "chest_ct_last_year", Text: "一年内胸部CT检查", Prompt: "在过去的一年里，您做过胸部CT检查吗？", Category: model.CategoryBinary, Topic: TopicGeneric, Required: true},
		{ID: "chronic_lung_disease", Text: "慢性肺部疾病史", Prompt: "您是否被诊断出患有慢性支气管炎、肺气肿、肺结核或慢阻肺等肺部疾病？", Category: model.CategoryBinary, Topic: TopicGeneric, Required: true},
		{ID: "recent_weight_loss", Text: "近半年不明原因消瘦", Prompt: "最近半年，您的体重有没有在没刻意减肥的情况下明显下降？", Category: model.CategoryBinary, Topic: TopicGeneric, Required: true},
		{ID: "recent_symptoms", Text: "持续性干咳、痰中带血、声音嘶哑等症状", Prompt: "那最近有没有出现持续干咳、痰里带血、或者声音嘶哑这些情况呢？", Category: model.CategoryBinary, Topic: TopicSymptoms, Required: true},
		{ID: "recent_symptoms_details", Text: "具体症状", Prompt: "能具体描述一下是什么症状吗？", Category: model.CategoryText,
			DependsOn: dep("recent_symptoms", "是", "有")},
		{ID: "self_feeling", Text: "最近自我感觉", Prompt: "总的来说，您感觉最近身体状态怎么样？", Category: model.CategoryText, Required: true},
	}
}

// enhancedQuestions extends the basic set with identity documents used for
// hospital registration. Both may be declined.
func enhancedQuestions() []model.Question {
	base := basicQuestions()
	extra := []model.Question{
		{ID: "id_card", Text: "身份证号", Prompt: "方便提供一下您的身份证号码吗？", Category: model.CategoryIdentity, AllowDecline: true},
		{ID: "med_card", Text: "就诊卡号", Prompt: "请问您有本院的就诊卡号吗？", Category: model.CategoryIdentity, AllowDecline: true},
	}
	// Insert after birth_year
	out := make([]model.Question, 0, len(base)+len(extra))
	for _, q := range base {
		out = append(out, q)
		if q.ID == "birth_year" {
			out = append(out, extra...)
		}
	}
	return out
}
