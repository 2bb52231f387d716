package agent

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// PreferenceWrite is a statement to persist under an identity.
type PreferenceWrite struct {
	UserID    string
	Statement string
}

// PreferencePolicy decides whether an utterance introduces an identity and
// what to persist for it.
type PreferencePolicy interface {
	Evaluate(utterance, userID string) (PreferenceWrite, bool)
}

// PreferencePolicyFunc adapts a function to PreferencePolicy.
type PreferencePolicyFunc func(utterance, userID string) (PreferenceWrite, bool)

// Evaluate implements PreferencePolicy.
func (f PreferencePolicyFunc) Evaluate(utterance, userID string) (PreferenceWrite, bool) {
	return f(utterance, userID)
}

// NoPreferencePolicy never persists anything on its own; the model may still
// store preferences through the mem0_memory tool.
type NoPreferencePolicy struct{}

// Evaluate implements PreferencePolicy.
func (NoPreferencePolicy) Evaluate(string, string) (PreferenceWrite, bool) {
	return PreferenceWrite{}, false
}

var introductionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`我(?:是|叫)\s*([A-Za-z][A-Za-z0-9_'-]*)`),
	// A Han name after 我是 must be followed by punctuation, whitespace or the
	// end of the utterance; "我是說…" and "我是想…" are not introductions.
	regexp.MustCompile(`我是\s*(\p{Han}{1,4})(?:[，,。.！!？?～~、\s]|$)`),
	regexp.MustCompile(`我叫\s*(\p{Han}{1,4})`),
	regexp.MustCompile(`(?i:my name is)\s+([A-Za-z][A-Za-z0-9_'-]*)`),
	regexp.MustCompile(`(?:^|\s)(?i:i'm|i’m|i am)\s+([A-Z][A-Za-z0-9_'-]*)`),
}

// Words that describe rather than name the speaker.
var notNames = map[string]bool{
	"學生": true, "大學生": true, "研究生": true, "老師": true, "上班族": true,
	"新手": true, "男生": true, "女生": true, "客人": true, "媽媽": true,
	"爸爸": true, "工程師": true, "設計師": true, "誰": true, "自己": true,
}

// Leading characters that start a clause rather than a name.
const notNameLeads = "說想要在不很也都會能來去從因覺問第個一這那他她你它有沒只剛"

func isName(s string) bool {
	if s == "" || notNames[s] {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return !strings.ContainsRune(notNameLeads, r)
}

// IntroductionPolicy persists the whole utterance under the introduced name
// for "我是 X", "我叫 X", "my name is X" and "I'm X" / "I am X" (capitalized X).
// Descriptions such as "我是學生" are not treated as names.
type IntroductionPolicy struct{}

// Evaluate implements PreferencePolicy.
func (IntroductionPolicy) Evaluate(utterance, _ string) (PreferenceWrite, bool) {
	name := DetectIdentity(utterance)
	if name == "" {
		return PreferenceWrite{}, false
	}
	return PreferenceWrite{UserID: name, Statement: strings.TrimSpace(utterance)}, true
}

// DetectIdentity returns the name introduced in utterance, or "".
func DetectIdentity(utterance string) string {
	for _, re := range introductionPatterns {
		if m := re.FindStringSubmatch(utterance); len(m) > 1 {
			if name := strings.TrimSpace(m[1]); isName(name) {
				return name
			}
		}
	}
	return ""
}
