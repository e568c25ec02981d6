package questionnaire

import "strings"

// YesNo is the outcome of binary answer classification
type YesNo int

const (
	AnswerUnknown YesNo = iota
	AnswerYes
	AnswerNo
)

type lexicon struct {
	negative    []string
	affirmative []string
}

// Per-topic phrase lists. Negatives are always checked first: colloquial
// refusals like 不抽 or 没接触 embed affirmative substrings, so the order
// is load-bearing. Longer, topic-specific phrases sit in the topic lists,
// bare particles only in the generic fallback.
var topicLexicons = map[string]lexicon{
	TopicSmoking: {
		negative:    []string{"不吸", "不抽", "没吸", "没抽", "从不", "没有", "否", "不会"},
		affirmative: []string{"我吸", "我抽", "有吸", "有抽", "会吸", "会抽", "吸过", "抽过", "以前抽", "曾经抽", "戒", "确实", "是", "有"},
	},
	TopicSmokingQuit: {
		negative:    []string{"没戒", "还没", "没有戒", "还在抽", "仍在抽", "戒不掉"},
		affirmative: []string{"戒了", "已经戒", "戒掉", "现在不抽", "早就不抽", "是", "有"},
	},
	TopicPassive: {
		negative:    []string{"不会", "不吸", "没吸", "不接触", "没接触", "从不", "很少", "没有", "否"},
		affirmative: []string{"经常", "接触", "吸到", "二手烟", "会", "是", "有"},
	},
	TopicKitchen: {
		negative:    []string{"不会", "不接触", "没接触", "从不", "很少", "不做饭", "不炒菜", "没有", "否"},
		affirmative: []string{"做饭", "炒菜", "油烟", "经常", "接触", "会", "是", "有"},
	},
	TopicOccupation: {
		negative:    []string{"不会", "不接触", "没接触", "不可能", "从不", "很少", "没有", "否"},
		affirmative: []string{"接触", "可能", "石棉", "煤焦油", "放射", "经常", "会", "是", "有"},
	},
	TopicHistory: {
		negative:    []string{"没得过", "没患过", "从没", "没有", "否", "无"},
		affirmative: []string{"得过", "患过", "有过", "查出", "确诊", "是", "有"},
	},
	TopicSymptoms: {
		negative:    []string{"没出现", "不咳", "没咳", "没有", "否", "无"},
		affirmative: []string{"咳", "带血", "咯血", "嘶哑", "出现", "是", "有"},
	},
}

var genericLexicon = lexicon{
	negative:    []string{"没有", "没做", "不是", "从不", "否", "没", "无"},
	affirmative: []string{"做过", "出现", "有", "是", "对"},
}

// ClassifyYesNo standardizes a binary answer through the topic lexicon,
// falling back to generic particles when the topic list stays silent.
func ClassifyYesNo(topic, text string) YesNo {
	if lex, ok := topicLexicons[topic]; ok {
		if v := lex.classify(text); v != AnswerUnknown {
			return v
		}
	}
	return genericLexicon.classify(text)
}

func (l lexicon) classify(text string) YesNo {
	for _, p := range l.negative {
		if strings.Contains(text, p) {
			return AnswerNo
		}
	}
	for _, p := range l.affirmative {
		if strings.Contains(text, p) {
			return AnswerYes
		}
	}
	return AnswerUnknown
}
