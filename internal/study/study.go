// Package study holds the canonical chat message and study bundle shapes.
package study

import "strings"

// Role of a chat transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn of a chat transcript. Timestamp is epoch millis.
type ChatMessage struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// BundleQuestion is a study-bundle quiz item. CorrectAnswer is an option
// letter, "A" for Options[0].
type BundleQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// OptionIndex maps the answer letter to an option index, or -1.
func (q BundleQuestion) OptionIndex() int {
	l := strings.TrimSpace(q.CorrectAnswer)
	if len(l) != 1 {
		return -1
	}
	i := int(strings.ToUpper(l)[0]) - 'A'
	if i < 0 || i >= len(q.Options) {
		return -1
	}
	return i
}

// Bundle is the combined summary, quiz and plain-language explanation.
type Bundle struct {
	Summary     []string         `json:"summary"`
	Quiz        []BundleQuestion `json:"quiz"`
	Explanation string           `json:"explanation"`
}

// Complete reports whether all three fields are populated.
func (b Bundle) Complete() bool {
	return len(b.Summary) > 0 && len(b.Quiz) > 0 && strings.TrimSpace(b.Explanation) != ""
}
