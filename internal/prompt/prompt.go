// Package prompt asks the user for single-line input.
package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/bethropolis/reflow/internal/types"
	"github.com/gdamore/tcell/v2"
)

// Request describes one question.
type Request struct {
	Label string
	// Completions are offered with Tab.
	Completions []string
}

// Reply is the user's answer.
type Reply struct {
	Text string
	// Words is Text split on whitespace.
	Words []string
	// Modifiers held when the answer was confirmed.
	Modifiers tcell.ModMask
}

// NewReply builds a Reply from raw text.
func NewReply(text string, mods tcell.ModMask) Reply {
	return Reply{Text: text, Words: strings.Fields(text), Modifiers: mods}
}

// Prompter suspends the caller until the user answers. A dismissed prompt
// returns an error wrapping types.ErrUserCancelled.
type Prompter interface {
	Prompt(ctx context.Context, req Request) (Reply, error)
}

func cancelled(req Request) error {
	return types.Failf(types.ErrUserCancelled, "Cancelled at %q", strings.TrimSpace(req.Label))
}

// Scripted answers prompts from a fixed list, for non-interactive runs and
// tests. Once the answers run out every prompt is cancelled.
type Scripted struct {
	answers []string
	// Asked records every request in order.
	Asked []Request
}

// NewScripted returns a prompter replaying answers in order.
func NewScripted(answers ...string) *Scripted {
	return &Scripted{answers: answers}
}

func (s *Scripted) Prompt(ctx context.Context, req Request) (Reply, error) {
	s.Asked = append(s.Asked, req)
	if err := ctx.Err(); err != nil {
		return Reply{}, fmt.Errorf("%w: %v", types.ErrUserCancelled, err)
	}
	if len(s.answers) == 0 {
		return Reply{}, cancelled(req)
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	return NewReply(answer, tcell.ModNone), nil
}

// Remaining returns the number of unused answers.
func (s *Scripted) Remaining() int { return len(s.answers) }

// Complete extends the last word of input using candidates. With one match
// the word is replaced; with several it grows to their common prefix. It
// also returns the matching candidates.
func Complete(input string, candidates []string) (string, []string) {
	cut := strings.LastIndexAny(input, " \t") + 1
	word := input[cut:]

	var matches []string
	for _, c := range candidates {
		if strings.HasPrefix(c, word) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return input, nil
	case 1:
		return input[:cut] + matches[0], matches
	}

	prefix := matches[0]
	for _, m := range matches[1:] {
		for !strings.HasPrefix(m, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return input[:cut] + prefix, matches
}
