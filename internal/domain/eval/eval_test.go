package eval

import (
	"encoding/json"
	"errors"
	"testing"

	"classquiz-service/internal/domain"
)

func TestEvaluateRegular(t *testing.T) {
	q := domain.Question{Type: domain.QuestionRegular, AnswerPattern: "paris"}

	for _, text := range []string{"paris", "Paris", "  PARIS  "} {
		ok, err := Evaluate(q, TextAnswer{Text: text})
		if err != nil {
			t.Fatalf("evaluate %q: %v", text, err)
		}
		if !ok {
			t.Fatalf("expected %q to match case-insensitively", text)
		}
	}

	ok, err := Evaluate(q, TextAnswer{Text: "london"})
	if err != nil || ok {
		t.Fatalf("expected incorrect, got ok=%v err=%v", ok, err)
	}
}

func TestEvaluateRegularCaseSensitive(t *testing.T) {
	q := domain.Question{Type: domain.QuestionRegular, AnswerPattern: "Paris", CaseSensitive: true}

	if ok, _ := Evaluate(q, TextAnswer{Text: "paris"}); ok {
		t.Fatalf("case-sensitive question matched wrong case")
	}
	if ok, _ := Evaluate(q, TextAnswer{Text: "Paris"}); !ok {
		t.Fatalf("expected exact case to match")
	}
}

func TestEvaluateRegularRegexPattern(t *testing.T) {
	q := domain.Question{Type: domain.QuestionRegular, AnswerPattern: `colou?r`}

	for _, text := range []string{"color", "colour"} {
		if ok, _ := Evaluate(q, TextAnswer{Text: text}); !ok {
			t.Fatalf("expected %q to match pattern", text)
		}
	}
	// The pattern is anchored: a match inside a longer answer is not enough.
	if ok, _ := Evaluate(q, TextAnswer{Text: "discolored"}); ok {
		t.Fatalf("unanchored substring should not match")
	}
}

func TestEvaluateRegularInvalidPatternFallsBackToLiteral(t *testing.T) {
	q := domain.Question{Type: domain.QuestionRegular, AnswerPattern: "a(b"}

	if ok, _ := Evaluate(q, TextAnswer{Text: "a(b"}); !ok {
		t.Fatalf("expected literal comparison for invalid pattern")
	}
	if ok, _ := Evaluate(q, TextAnswer{Text: "ab"}); ok {
		t.Fatalf("expected literal mismatch")
	}
}

func TestEvaluateChoice(t *testing.T) {
	q := domain.Question{Type: domain.QuestionMultipleChoice, CorrectOption: "o2"}

	if ok, _ := Evaluate(q, ChoiceAnswer{OptionID: "o2"}); !ok {
		t.Fatalf("expected o2 to be correct")
	}
	if ok, _ := Evaluate(q, ChoiceAnswer{OptionID: "o1"}); ok {
		t.Fatalf("expected o1 to be incorrect")
	}

	tf := domain.Question{Type: domain.QuestionTrueFalse, CorrectOption: "true"}
	if ok, _ := Evaluate(tf, ChoiceAnswer{OptionID: "true"}); !ok {
		t.Fatalf("expected true to be correct")
	}
}

func TestEvaluateChooseAllRejectsSubset(t *testing.T) {
	q := domain.Question{Type: domain.QuestionChooseAll, CorrectOptions: []string{"a", "b", "c"}}

	// Every submitted option is individually correct, but the set is
	// incomplete.
	if ok, _ := Evaluate(q, MultiChoiceAnswer{OptionIDs: []string{"a", "b"}}); ok {
		t.Fatalf("proper subset must be incorrect")
	}
	if ok, _ := Evaluate(q, MultiChoiceAnswer{OptionIDs: []string{"a", "b", "c", "d"}}); ok {
		t.Fatalf("superset must be incorrect")
	}
	if ok, _ := Evaluate(q, MultiChoiceAnswer{OptionIDs: []string{"c", "a", "b"}}); !ok {
		t.Fatalf("order must not matter for choose-all")
	}
}

func TestEvaluateMatchingOrderIndependent(t *testing.T) {
	q := domain.Question{Type: domain.QuestionMatching, CorrectPairs: []domain.MatchPair{
		{Left: "fr", Right: "paris"},
		{Left: "de", Right: "berlin"},
	}}

	ok, _ := Evaluate(q, MatchingAnswer{Pairs: []domain.MatchPair{
		{Left: "de", Right: "berlin"},
		{Left: "fr", Right: "paris"},
	}})
	if !ok {
		t.Fatalf("pair order must not matter")
	}

	ok, _ = Evaluate(q, MatchingAnswer{Pairs: []domain.MatchPair{
		{Left: "fr", Right: "berlin"},
		{Left: "de", Right: "paris"},
	}})
	if ok {
		t.Fatalf("swapped pairing must be incorrect")
	}
}

func TestEvaluateOrderingOrderDependent(t *testing.T) {
	q := domain.Question{Type: domain.QuestionOrdering, CorrectOrder: []string{"1", "2", "3"}}

	if ok, _ := Evaluate(q, OrderingAnswer{Order: []string{"1", "2", "3"}}); !ok {
		t.Fatalf("exact sequence must be correct")
	}
	if ok, _ := Evaluate(q, OrderingAnswer{Order: []string{"2", "1", "3"}}); ok {
		t.Fatalf("reordered sequence must be incorrect")
	}
	if ok, _ := Evaluate(q, OrderingAnswer{Order: []string{"1", "2"}}); ok {
		t.Fatalf("truncated sequence must be incorrect")
	}
}

func TestEvaluateShapeMismatch(t *testing.T) {
	q := domain.Question{Type: domain.QuestionChooseAll, CorrectOptions: []string{"a"}}
	if _, err := Evaluate(q, TextAnswer{Text: "a"}); !errors.Is(err, domain.ErrMalformedAnswer) {
		t.Fatalf("expected ErrMalformedAnswer, got %v", err)
	}
}

func TestParseAnswer(t *testing.T) {
	ans, err := ParseAnswer(domain.QuestionRegular, json.RawMessage(`"paris"`))
	if err != nil {
		t.Fatalf("parse text answer: %v", err)
	}
	if ans.(TextAnswer).Text != "paris" {
		t.Fatalf("unexpected text answer: %+v", ans)
	}

	ans, err = ParseAnswer(domain.QuestionChooseAll, json.RawMessage(`["a","b"]`))
	if err != nil {
		t.Fatalf("parse choose-all answer: %v", err)
	}
	if len(ans.(MultiChoiceAnswer).OptionIDs) != 2 {
		t.Fatalf("unexpected choose-all answer: %+v", ans)
	}

	ans, err = ParseAnswer(domain.QuestionMatching, json.RawMessage(`[{"left":"fr","right":"paris"}]`))
	if err != nil {
		t.Fatalf("parse matching answer: %v", err)
	}
	if ans.(MatchingAnswer).Pairs[0].Left != "fr" {
		t.Fatalf("unexpected matching answer: %+v", ans)
	}

	if _, err := ParseAnswer(domain.QuestionOrdering, json.RawMessage(`"not-a-list"`)); !errors.Is(err, domain.ErrMalformedAnswer) {
		t.Fatalf("expected ErrMalformedAnswer, got %v", err)
	}
	if _, err := ParseAnswer(domain.QuestionType("bogus"), json.RawMessage(`"x"`)); !errors.Is(err, domain.ErrMalformedAnswer) {
		t.Fatalf("expected ErrMalformedAnswer for unknown type, got %v", err)
	}
}
