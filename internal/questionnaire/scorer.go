package questionnaire

import (
	"strconv"
	"strings"

	"lungscreen/internal/model"
)

// SmokingBand maps a pack-years floor to points
type SmokingBand struct {
	MinPackYears float64
	Points       int
}

// BucketThreshold maps a minimum total to a risk level
type BucketThreshold struct {
	MinTotal int
	Level    model.RiskLevel
}

// FactorWeight scores one binary question when it standardized to 是
type FactorWeight struct {
	QuestionID string
	Label      string
	Points     int
}

// WeightTable drives the whole scorer. Swapping tables changes the policy
// without touching the code.
type WeightTable struct {
	SmokingBands    []SmokingBand     // Descending by MinPackYears
	SmokingFallback int               // Used when smoking numbers fail to parse
	Factors         []FactorWeight
	Buckets         []BucketThreshold // Descending by MinTotal
	DefaultLevel    model.RiskLevel
}

// DefaultWeights is the screening policy for the basic catalog
func DefaultWeights() WeightTable {
	return WeightTable{
		SmokingBands: []SmokingBand{
			{MinPackYears: 30, Points: 3},
			{MinPackYears: 20, Points: 2},
			{MinPackYears: 0, Points: 1},
		},
		SmokingFallback: 2,
		Factors: []FactorWeight{
			{QuestionID: "passive_smoking", Label: "被动吸烟：存在被动吸烟情况", Points: 1},
			{QuestionID: "occupation_exposure", Label: "职业暴露：存在职业致癌物质接触", Points: 2},
			{QuestionID: "family_cancer_history", Label: "家族史：存在肺癌家族史，遗传风险增加", Points: 2},
			{QuestionID: "recent_symptoms", Label: "症状：存在可疑症状，建议及时就医", Points: 3},
		},
		Buckets: []BucketThreshold{
			{MinTotal: 6, Level: model.RiskHigh},
			{MinTotal: 3, Level: model.RiskMedium},
		},
		DefaultLevel: model.RiskLow,
	}
}

// EnhancedWeights extends the default policy with the extra factors the
// enhanced catalog collects
func EnhancedWeights() WeightTable {
	t := DefaultWeights()
	t.Factors = append(t.Factors,
		FactorWeight{QuestionID: "personal_tumor_history", Label: "既往史：存在个人肿瘤史", Points: 3},
		FactorWeight{QuestionID: "chronic_lung_disease", Label: "肺部疾病：存在慢性肺部疾病史", Points: 1},
		FactorWeight{QuestionID: "recent_weight_loss", Label: "体重：近期不明原因消瘦", Points: 2},
	)
	return t
}

// WeightsFor picks the policy matching a catalog variant
func WeightsFor(catalogName string) WeightTable {
	if catalogName == CatalogEnhanced {
		return EnhancedWeights()
	}
	return DefaultWeights()
}

// Score computes the risk total from standardized answers. Identical input
// always yields an identical result.
func (t WeightTable) Score(answers map[string]string) model.RiskScore {
	score := model.RiskScore{Factors: []model.RiskFactor{}}

	if isAffirmative(answers["smoking_history"]) {
		points, packYears, parsed := t.smokingPoints(answers)
		score.Total += points
		score.PackYears = packYears
		label := "吸烟史：有吸烟史，增加肺癌风险"
		if parsed {
			label += "（吸烟指数 " + strconv.FormatFloat(packYears, 'f', 1, 64) + " 包年）"
		}
		score.Factors = append(score.Factors, model.RiskFactor{
			QuestionID: "smoking_history",
			Label:      label,
			Points:     points,
		})
	}

	for _, f := range t.Factors {
		if isAffirmative(answers[f.QuestionID]) {
			score.Total += f.Points
			score.Factors = append(score.Factors, model.RiskFactor{
				QuestionID: f.QuestionID,
				Label:      f.Label,
				Points:     f.Points,
			})
		}
	}

	score.Level = t.DefaultLevel
	for _, b := range t.Buckets {
		if score.Total >= b.MinTotal {
			score.Level = b.Level
			break
		}
	}
	return score
}

// smokingPoints computes pack-years = years x cigarettes per day / 20 and
// looks up the band. Unparsable numbers fall back to a fixed middle weight.
func (t WeightTable) smokingPoints(answers map[string]string) (points int, packYears float64, parsed bool) {
	years, errY := parseNumber(answers["smoking_years"])
	daily, errD := parseNumber(answers["smoking_freq"])
	if errY != nil || errD != nil {
		return t.SmokingFallback, 0, false
	}
	packYears = years * daily / 20
	for _, b := range t.SmokingBands {
		if packYears >= b.MinPackYears {
			return b.Points, packYears, true
		}
	}
	return 0, packYears, true
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func isAffirmative(answer string) bool {
	return strings.TrimSpace(answer) == "是"
}
