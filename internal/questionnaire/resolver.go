package questionnaire

import (
	"strings"

	"lungscreen/internal/model"
)

// negationTokens invalidate a substring match on a free-text answer,
// so "没有吸烟" never satisfies a dependency on "有".
var negationTokens = []string{"没有", "从不", "不会", "不", "没", "无", "否"}

// NextIndex returns the index of the next askable question after from.
// Questions whose dependency is unmet are skipped and auto-filled so the
// final report has a value for every entry. Returns -1 when no question
// remains. The scan visits each question at most once.
func NextIndex(cat *Catalog, sess *model.Session, from int) int {
	for i := from + 1; i < cat.Len(); i++ {
		q := cat.At(i)
		if q.DependsOn == nil || DependencyMet(sess, q.DependsOn) {
			return i
		}
		fill := q.DependsOn.AutoFill
		if fill == "" {
			fill = "0"
		}
		if _, answered := sess.Answers[q.ID]; !answered {
			sess.SetAnswer(q.ID, fill)
		}
	}
	return -1
}

// FirstIndex returns the first askable question for a fresh session
func FirstIndex(cat *Catalog, sess *model.Session) int {
	return NextIndex(cat, sess, -1)
}

// DependencyMet reports whether the stored answer for the gating question
// satisfies the dependency. A missing answer never satisfies it. Exact
// matches against accepted values win; otherwise a free-text answer counts
// when it contains an accepted value and carries no negation token.
func DependencyMet(sess *model.Session, d *model.Dependency) bool {
	answer, ok := sess.Answers[d.QuestionID]
	if !ok {
		return false
	}
	answer = strings.TrimSpace(answer)
	for _, v := range d.AcceptedValues {
		if answer == v {
			return true
		}
	}
	if containsNegation(answer) {
		return false
	}
	for _, v := range d.AcceptedValues {
		if strings.Contains(answer, v) {
			return true
		}
	}
	return false
}

func containsNegation(s string) bool {
	for _, tok := range negationTokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

// Progress counts stored answers against the catalog size.
// Auto-filled entries count as answered.
func Progress(cat *Catalog, sess *model.Session) (answered, total int) {
	total = cat.Len()
	for id := range sess.Answers {
		if _, _, ok := cat.ByID(id); ok {
			answered++
		}
	}
	return answered, total
}
