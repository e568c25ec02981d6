package questionnaire

import (
	"regexp"
	"strconv"
)

// IntentKind tags a recognized navigation command
type IntentKind int

const (
	IntentNone IntentKind = iota
	IntentGoToIndex
	IntentGoToPrevious
	IntentRestart
	IntentSkip
)

func (k IntentKind) String() string {
	switch k {
	case IntentNone:
		return "none"
	case IntentGoToIndex:
		return "go_to_index"
	case IntentGoToPrevious:
		return "go_to_previous"
	case IntentRestart:
		return "restart"
	case IntentSkip:
		return "skip"
	}
	return "unknown"
}

// Intent is the detector output. TargetIndex is only meaningful for
// IntentGoToIndex and IntentGoToPrevious.
type Intent struct {
	Kind        IntentKind
	TargetIndex int
}

var (
	gotoPatterns = []*regexp.Regexp{
		regexp.MustCompile(`回到第(\d+)题`),
		regexp.MustCompile(`重新回答第(\d+)题`),
		regexp.MustCompile(`跳到第(\d+)题`),
		regexp.MustCompile(`第(\d+)道题`),
		regexp.MustCompile(`第(\d+)个问题`),
		regexp.MustCompile(`第(\d+)题`),
	}
	previousPattern = regexp.MustCompile(`上一题|上一道题|上一个问题|前面一题|回到上题|回到前面|返回|回去`)
	restartPattern  = regexp.MustCompile(`重新开始|重新来过|重新来|重新填写|重新回答|重新做|从头开始|从头来`)
	skipPattern     = regexp.MustCompile(`跳过|下一题|下一道题|下一个问题|不想回答|不回答|不填|^过$`)
)

// DetectIntent scans a raw utterance for navigation commands before any
// validation runs. Numbered jumps are matched first so 重新回答第3题 lands
// on the numbered rule rather than the restart rule. Questions are numbered
// from 1 in speech; targets outside the catalog clamp to its bounds.
func DetectIntent(text string, currentIndex, total int) Intent {
	for _, p := range gotoPatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		target := n - 1
		if target < 0 {
			target = 0
		}
		if target > total-1 {
			target = total - 1
		}
		return Intent{Kind: IntentGoToIndex, TargetIndex: target}
	}

	if previousPattern.MatchString(text) {
		target := currentIndex - 1
		if target < 0 {
			target = 0
		}
		return Intent{Kind: IntentGoToPrevious, TargetIndex: target}
	}

	if restartPattern.MatchString(text) {
		return Intent{Kind: IntentRestart}
	}

	if skipPattern.MatchString(text) {
		return Intent{Kind: IntentSkip}
	}

	return Intent{Kind: IntentNone}
}
