// Package eval decides whether a submitted answer is correct for a
// question. Evaluation is pure: no state is read or written beyond the
// arguments.
package eval

import (
	"encoding/json"
	"regexp"
	"strings"

	"classquiz-service/internal/domain"
)

// Answer is the tagged union of submitted answer shapes, one variant per
// question type.
type Answer interface {
	isAnswer()
}

// TextAnswer answers a regular question.
type TextAnswer struct {
	Text string
}

// ChoiceAnswer answers a multiple-choice or true-false question.
type ChoiceAnswer struct {
	OptionID string
}

// MultiChoiceAnswer answers a choose-all question.
type MultiChoiceAnswer struct {
	OptionIDs []string
}

// MatchingAnswer answers a matching question. Pair order is irrelevant.
type MatchingAnswer struct {
	Pairs []domain.MatchPair
}

// OrderingAnswer answers an ordering question. Element order is the answer.
type OrderingAnswer struct {
	Order []string
}

func (TextAnswer) isAnswer()        {}
func (ChoiceAnswer) isAnswer()      {}
func (MultiChoiceAnswer) isAnswer() {}
func (MatchingAnswer) isAnswer()    {}
func (OrderingAnswer) isAnswer()    {}

// ParseAnswer decodes a raw submission into the answer variant the
// question type expects. Returns domain.ErrMalformedAnswer if the payload
// does not decode into that shape.
func ParseAnswer(t domain.QuestionType, raw json.RawMessage) (Answer, error) {
	switch t {
	case domain.QuestionRegular:
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, domain.ErrMalformedAnswer
		}
		return TextAnswer{Text: text}, nil
	case domain.QuestionMultipleChoice, domain.QuestionTrueFalse:
		var option string
		if err := json.Unmarshal(raw, &option); err != nil {
			return nil, domain.ErrMalformedAnswer
		}
		return ChoiceAnswer{OptionID: option}, nil
	case domain.QuestionChooseAll:
		var options []string
		if err := json.Unmarshal(raw, &options); err != nil {
			return nil, domain.ErrMalformedAnswer
		}
		return MultiChoiceAnswer{OptionIDs: options}, nil
	case domain.QuestionMatching:
		var pairs []domain.MatchPair
		if err := json.Unmarshal(raw, &pairs); err != nil {
			return nil, domain.ErrMalformedAnswer
		}
		return MatchingAnswer{Pairs: pairs}, nil
	case domain.QuestionOrdering:
		var order []string
		if err := json.Unmarshal(raw, &order); err != nil {
			return nil, domain.ErrMalformedAnswer
		}
		return OrderingAnswer{Order: order}, nil
	default:
		return nil, domain.ErrMalformedAnswer
	}
}

// Evaluate classifies a submitted answer against the question's canonical
// answer. Returns domain.ErrMalformedAnswer when the answer variant does
// not match the question type.
func Evaluate(q domain.Question, answer Answer) (bool, error) {
	switch q.Type {
	case domain.QuestionRegular:
		a, ok := answer.(TextAnswer)
		if !ok {
			return false, domain.ErrMalformedAnswer
		}
		return matchText(q, a.Text), nil
	case domain.QuestionMultipleChoice, domain.QuestionTrueFalse:
		a, ok := answer.(ChoiceAnswer)
		if !ok {
			return false, domain.ErrMalformedAnswer
		}
		return a.OptionID == q.CorrectOption, nil
	case domain.QuestionChooseAll:
		a, ok := answer.(MultiChoiceAnswer)
		if !ok {
			return false, domain.ErrMalformedAnswer
		}
		return sameSet(a.OptionIDs, q.CorrectOptions), nil
	case domain.QuestionMatching:
		a, ok := answer.(MatchingAnswer)
		if !ok {
			return false, domain.ErrMalformedAnswer
		}
		return samePairs(a.Pairs, q.CorrectPairs), nil
	case domain.QuestionOrdering:
		a, ok := answer.(OrderingAnswer)
		if !ok {
			return false, domain.ErrMalformedAnswer
		}
		return sameSequence(a.Order, q.CorrectOrder), nil
	default:
		return false, domain.ErrMalformedAnswer
	}
}

// matchText matches trimmed input against the canonical pattern, treated
// as an anchored regular expression. A pattern that does not compile is
// compared literally instead.
func matchText(q domain.Question, text string) bool {
	text = strings.TrimSpace(text)
	pattern := q.AnswerPattern

	expr := "^(?:" + pattern + ")$"
	if !q.CaseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		if q.CaseSensitive {
			return text == pattern
		}
		return strings.EqualFold(text, pattern)
	}
	return re.MatchString(text)
}

// sameSet requires exact set equality: a proper subset of the canonical
// options is incorrect even if every submitted option is individually right.
func sameSet(submitted, canonical []string) bool {
	if len(submitted) != len(canonical) {
		return false
	}
	seen := make(map[string]int, len(canonical))
	for _, id := range canonical {
		seen[id]++
	}
	for _, id := range submitted {
		if seen[id] == 0 {
			return false
		}
		seen[id]--
	}
	return true
}

func samePairs(submitted, canonical []domain.MatchPair) bool {
	if len(submitted) != len(canonical) {
		return false
	}
	want := make(map[string]string, len(canonical))
	for _, p := range canonical {
		want[p.Left] = p.Right
	}
	for _, p := range submitted {
		right, ok := want[p.Left]
		if !ok || right != p.Right {
			return false
		}
		delete(want, p.Left)
	}
	return len(want) == 0
}

func sameSequence(submitted, canonical []string) bool {
	if len(submitted) != len(canonical) {
		return false
	}
	for i := range canonical {
		if submitted[i] != canonical[i] {
			return false
		}
	}
	return true
}
