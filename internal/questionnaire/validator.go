package questionnaire

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"lungscreen/internal/model"
)

// Verdict classifies a raw answer
type Verdict int

const (
	VerdictOK Verdict = iota
	VerdictEmpty
	VerdictTooShort
	VerdictNonAnswer
	VerdictEchoed
	VerdictAmbiguous
	VerdictDeclined
)

func (v Verdict) String() string {
	switch v {
	case VerdictOK:
		return "ok"
	case VerdictEmpty:
		return "empty"
	case VerdictTooShort:
		return "too_short"
	case VerdictNonAnswer:
		return "non_answer"
	case VerdictEchoed:
		return "echoed"
	case VerdictAmbiguous:
		return "ambiguous"
	case VerdictDeclined:
		return "declined"
	}
	return "unknown"
}

// Accepted reports whether the answer should be stored and the flow advanced
func (v Verdict) Accepted() bool {
	return v == VerdictOK || v == VerdictDeclined
}

// ValidationResult carries the verdict, the standardized value when accepted,
// and fixed guidance text for a re-ask otherwise.
type ValidationResult struct {
	Verdict  Verdict
	Value    string
	Guidance string
}

// Bare acknowledgements that carry no usable content. Matched exactly
// against the trimmed answer, never by substring.
var nonAnswerPhrases = []string{
	"不知道", "不知道呢", "不清楚", "随便", "无", "没了", "没有",
	"嗯", "啊", "ok", "OK", "好的", "还行", "记不清", "忘了",
}

// Uncertainty subset safe to reject on binary questions. 没有 and 无 are
// excluded because they are legitimate negative answers there.
var uncertainPhrases = []string{
	"不知道", "不知道呢", "不清楚", "随便", "嗯", "啊", "ok", "OK", "好的", "还行", "记不清", "忘了",
}

var declinePhrases = []string{"不方便", "不想说", "不想透露", "保密", "无可奉告"}

var numberPattern = regexp.MustCompile(`[0-9]+(\.[0-9]+)?`)

// Validate classifies a raw answer against a question and standardizes the
// value for storage. Binary questions are normalized to 是/否 through the
// topic lexicons before any generic rejection applies, so a bare 否 is a
// valid answer and never a non-answer.
func Validate(q *model.Question, raw string) ValidationResult {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ValidationResult{Verdict: VerdictEmpty, Guidance: "未识别到有效内容，请再说一遍。"}
	}

	if isDecline(text) {
		if q.AllowDecline {
			return ValidationResult{Verdict: VerdictDeclined, Value: model.DeclinedAnswer}
		}
		return ValidationResult{Verdict: VerdictNonAnswer, Guidance: "这个问题对评估很重要，请尽量回答。"}
	}

	if q.Category == model.CategoryBinary {
		// Uncertainty phrases would otherwise classify as 否 through the
		// bare particle fallback, so they are screened out first.
		if isUncertain(text) {
			return ValidationResult{Verdict: VerdictNonAnswer, Guidance: "回答不够具体，请补充说明。"}
		}
		switch ClassifyYesNo(q.Topic, text) {
		case AnswerYes:
			return ValidationResult{Verdict: VerdictOK, Value: "是"}
		case AnswerNo:
			return ValidationResult{Verdict: VerdictOK, Value: "否"}
		}
		if isNonAnswer(text) {
			return ValidationResult{Verdict: VerdictNonAnswer, Guidance: "回答不够具体，请补充说明。"}
		}
		return ValidationResult{Verdict: VerdictAmbiguous, Guidance: "没听清您的意思，请明确回答是或否。"}
	}

	// Identity questions accept single-rune answers such as 男 and 女
	if utf8.RuneCountInString(text) < 2 && !isDigits(text) && q.Category != model.CategoryIdentity {
		return ValidationResult{Verdict: VerdictTooShort, Guidance: "回答过短，请提供更完整的信息。"}
	}

	if isNonAnswer(text) {
		return ValidationResult{Verdict: VerdictNonAnswer, Guidance: "回答不够具体，请补充说明。"}
	}

	if isEcho(q, text) {
		return ValidationResult{Verdict: VerdictEchoed, Guidance: "疑似复述问题而非作答，请直接回答问题。"}
	}

	if q.Category == model.CategoryNumeric {
		return validateNumeric(q, text)
	}

	return ValidationResult{Verdict: VerdictOK, Value: text}
}

// validateNumeric extracts the first number so "每天20支" stores as "20".
// Answers without digits pass through untouched.
func validateNumeric(q *model.Question, text string) ValidationResult {
	match := numberPattern.FindString(text)
	if match == "" {
		return ValidationResult{Verdict: VerdictOK, Value: text}
	}
	if q.HasRange() {
		var n float64
		fmt.Sscanf(match, "%g", &n)
		if n < q.Min || n > q.Max {
			return ValidationResult{
				Verdict:  VerdictAmbiguous,
				Guidance: fmt.Sprintf("这个数字看起来不太对，请提供 %g 到 %g 之间的数值。", q.Min, q.Max),
			}
		}
	}
	return ValidationResult{Verdict: VerdictOK, Value: match}
}

func isUncertain(text string) bool {
	for _, p := range uncertainPhrases {
		if text == p {
			return true
		}
	}
	return false
}

func isNonAnswer(text string) bool {
	for _, p := range nonAnswerPhrases {
		if text == p {
			return true
		}
	}
	return false
}

func isDecline(text string) bool {
	for _, p := range declinePhrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// isEcho flags answers that merely repeat the question. Very short prompts
// are exempt so a legitimate one-word overlap does not trigger it.
func isEcho(q *model.Question, text string) bool {
	for _, source := range []string{q.Text, q.Prompt} {
		if utf8.RuneCountInString(source) >= 6 && strings.Contains(source, text) {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
