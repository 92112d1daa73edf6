package quiz

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestIsCorrect_MultipleChoice(t *testing.T) {
	q := Question{ID: 1, Type: MultipleChoice, Question: "Q?", Options: []string{"a", "b", "c"}, CorrectAnswer: IndexAnswer(2)}
	cases := []struct {
		in   string
		want bool
	}{
		{"2", true},
		{" 2 ", true},
		{"1", false},
		{"-1", false},
		{"two", false},
		{"", false},
	}
	for _, c := range cases {
		if got := IsCorrect(q, c.in); got != c.want {
			t.Fatalf("IsCorrect(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestIsCorrect_TrueFalse(t *testing.T) {
	q := Question{ID: 1, Type: TrueFalse, Question: "Water is wet?", CorrectAnswer: BoolAnswer(true)}
	if !IsCorrect(q, "true") {
		t.Fatalf("expected true to match")
	}
	if IsCorrect(q, "True") {
		t.Fatalf("true/false compares the stringified answer exactly")
	}
	if IsCorrect(q, "false") {
		t.Fatalf("false must not match")
	}
}

func TestIsCorrect_ShortAnswer(t *testing.T) {
	q := Question{ID: 1, Type: ShortAnswer, Question: "Which gas?", CorrectAnswer: TextAnswer("oxygen")}
	if !IsCorrect(q, "Oxygen gas") {
		t.Fatalf("case-insensitive substring should match")
	}
	if IsCorrect(q, "nitrogen") {
		t.Fatalf("nitrogen must not match")
	}
	if IsCorrect(q, "") || IsCorrect(q, "   ") {
		t.Fatalf("empty submission must never match")
	}
}

func TestIsCorrect_ShortAnswerSkipsNullEntries(t *testing.T) {
	var q Question
	raw := `{"id":1,"type":"short_answer","question":"Name a noble gas","correct_answer":[null,"Neon",""],"explanation":""}`
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !IsCorrect(q, "it is neon") {
		t.Fatalf("expected match against non-null entry")
	}
	if IsCorrect(q, "argon") {
		t.Fatalf("null/empty entries must not match everything")
	}
}

func TestIsCorrect_UnknownTypeOrShapeMismatch(t *testing.T) {
	if IsCorrect(Question{Type: "essay", CorrectAnswer: TextAnswer("x")}, "x") {
		t.Fatalf("unknown type must be false")
	}
	if IsCorrect(Question{Type: MultipleChoice, CorrectAnswer: BoolAnswer(true)}, "1") {
		t.Fatalf("shape mismatch must be false")
	}
}

func TestAnswerJSON(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{`3`, `3`},
		{`-1`, `-1`},
		{`true`, `true`},
		{`"oxygen"`, `["oxygen"]`},
		{`["a","b"]`, `["a","b"]`},
		{`null`, `null`},
	}
	for _, c := range cases {
		var a Answer
		if err := json.Unmarshal([]byte(c.raw), &a); err != nil {
			t.Fatalf("unmarshal %s: %v", c.raw, err)
		}
		b, err := json.Marshal(a)
		if err != nil {
			t.Fatalf("marshal %s: %v", c.raw, err)
		}
		if string(b) != c.want {
			t.Fatalf("%s re-encoded as %s, want %s", c.raw, b, c.want)
		}
	}
	var a Answer
	if err := json.Unmarshal([]byte(`1.5`), &a); err == nil {
		t.Fatalf("fractional index should be rejected")
	}
}

func TestValidate(t *testing.T) {
	mc := Question{ID: 1, Type: MultipleChoice, Question: "Q", Options: []string{"a", "b"}, CorrectAnswer: IndexAnswer(1)}
	if err := Validate(mc, ValidateOptions{}); err != nil {
		t.Fatalf("valid mc: %v", err)
	}
	bad := mc
	bad.CorrectAnswer = IndexAnswer(2)
	if err := Validate(bad, ValidateOptions{}); !errors.Is(err, ErrAnswerRange) {
		t.Fatalf("want ErrAnswerRange, got %v", err)
	}
	unresolved := mc
	unresolved.CorrectAnswer = IndexAnswer(Unresolved)
	if err := Validate(unresolved, ValidateOptions{}); err == nil {
		t.Fatalf("unresolved index should fail strict validation")
	}
	if err := Validate(unresolved, ValidateOptions{AllowUnresolved: true}); err != nil {
		t.Fatalf("unresolved index tolerated: %v", err)
	}
	sa := Question{ID: 2, Type: ShortAnswer, Question: "Q", CorrectAnswer: TextAnswer("")}
	if err := Validate(sa, ValidateOptions{}); !errors.Is(err, ErrEmptyAccepted) {
		t.Fatalf("want ErrEmptyAccepted, got %v", err)
	}
	if err := Validate(Question{ID: 0, Type: TrueFalse, Question: "Q", CorrectAnswer: BoolAnswer(false)}, ValidateOptions{}); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("want ErrInvalidID, got %v", err)
	}
	if err := Validate(Question{ID: 1, Type: "essay", Question: "Q"}, ValidateOptions{}); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("want ErrUnknownType, got %v", err)
	}
}
