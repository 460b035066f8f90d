package input

import (
	"errors"
	"fmt"
	"strings"
)

// ErrScriptExhausted is returned when a Scripted prompter runs out of answers.
var ErrScriptExhausted = errors.New("no scripted answer left")

// Scripted is a Prompter that replays fixed answers in order. An empty
// answer selects the question's default. Unlike Terminal it never re-asks:
// an answer that fails validation is returned as an error.
type Scripted struct {
	answers   []string
	Questions []string // every question asked, in order
}

// NewScripted creates a Prompter returning answers in order.
func NewScripted(answers ...string) *Scripted {
	return &Scripted{answers: answers}
}

// Remaining reports how many answers have not been consumed.
func (s *Scripted) Remaining() int {
	return len(s.answers)
}

func (s *Scripted) next(question string) (string, error) {
	s.Questions = append(s.Questions, question)
	if len(s.answers) == 0 {
		return "", fmt.Errorf("%w for %q", ErrScriptExhausted, question)
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	return answer, nil
}

func (s *Scripted) Ask(question, defaultValue string, validate func(string) error) (string, error) {
	answer, err := s.next(question)
	if err != nil {
		return "", err
	}
	if answer == "" {
		answer = defaultValue
	}
	if validate != nil {
		if err := validate(answer); err != nil {
			return "", err
		}
	}
	return answer, nil
}

func (s *Scripted) Choose(question string, options []Option, defaultValue string) (string, error) {
	answer, err := s.next(question)
	if err != nil {
		return "", err
	}
	if answer == "" {
		answer = defaultValue
	}
	for _, o := range options {
		if o.Value == answer {
			return answer, nil
		}
	}
	return "", fmt.Errorf("invalid choice %q for %q", answer, question)
}

func (s *Scripted) Confirm(question string, defaultYes bool) (bool, error) {
	answer, err := s.next(question)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
