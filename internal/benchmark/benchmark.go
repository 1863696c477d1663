// Package benchmark holds the immutable question set evaluations run
// against.
package benchmark

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hydroworks/hydrobench/internal/answer"
)

// ErrNotFound marks a lookup of a question id the benchmark does not hold.
var ErrNotFound = errors.New("benchmark: question not found")

const (
	DefaultName     = "benchmark"
	DefaultCategory = "UNSPECIFIED"
	DefaultLevel    = "UNSPECIFIED"

	TypeSingle   = "single"
	TypeMultiple = "multiple"
)

// Question is one benchmark item. Expected holds the canonical answer as
// uppercase option letters, deduplicated, in source order.
type Question struct {
	ID       string
	Text     string
	Expected []string
	Category string
	Level    string
	Type     string
}

// Benchmark is an ordered, immutable collection of Questions keyed by id.
type Benchmark struct {
	name        string
	description string
	questions   []Question
	byID        map[string]int
}

// New validates and assembles a Benchmark. Questions without an id get one
// assigned from their category and position. Construction fails on
// duplicate ids and on questions whose expected answer is empty after
// normalization.
func New(name, description string, questions []Question) (*Benchmark, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	if len(questions) == 0 {
		return nil, errors.New("benchmark: no questions")
	}

	b := &Benchmark{
		name:        name,
		description: strings.TrimSpace(description),
		questions:   make([]Question, 0, len(questions)),
		byID:        make(map[string]int, len(questions)),
	}

	for i, q := range questions {
		expected, err := answer.Normalize(q.Expected)
		if err != nil {
			return nil, fmt.Errorf("benchmark: question %d: %w", i, err)
		}
		if len(expected) == 0 {
			return nil, fmt.Errorf("benchmark: question %d (%s): empty expected answer", i, q.ID)
		}

		category := strings.TrimSpace(q.Category)
		if category == "" {
			category = DefaultCategory
		}

		id := strings.TrimSpace(q.ID)
		if id == "" {
			id = fmt.Sprintf("%s-%04d", category, i+1)
		}
		if _, ok := b.byID[id]; ok {
			return nil, fmt.Errorf("benchmark: duplicate question id %q", id)
		}
		level := strings.TrimSpace(q.Level)
		if level == "" {
			level = DefaultLevel
		}
		qType := normalizeType(q.Type)
		if qType == "" {
			qType = TypeSingle
			if len(expected) > 1 {
				qType = TypeMultiple
			}
		}

		b.byID[id] = len(b.questions)
		b.questions = append(b.questions, Question{
			ID:       id,
			Text:     strings.TrimSpace(q.Text),
			Expected: expected,
			Category: category,
			Level:    level,
			Type:     qType,
		})
	}

	return b, nil
}

func (b *Benchmark) Name() string        { return b.name }
func (b *Benchmark) Description() string { return b.description }
func (b *Benchmark) Len() int            { return len(b.questions) }

// Questions returns the benchmark items in order. The slice is shared;
// callers must not mutate it.
func (b *Benchmark) Questions() []Question {
	if b == nil {
		return nil
	}
	return b.questions
}

// Get looks a question up by id.
func (b *Benchmark) Get(id string) (Question, error) {
	if b == nil {
		return Question{}, ErrNotFound
	}
	idx, ok := b.byID[strings.TrimSpace(id)]
	if !ok {
		return Question{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return b.questions[idx], nil
}

// Has reports whether the benchmark holds the given id.
func (b *Benchmark) Has(id string) bool {
	if b == nil {
		return false
	}
	_, ok := b.byID[strings.TrimSpace(id)]
	return ok
}

func normalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	switch t {
	case "", "unknown":
		return ""
	case TypeSingle, "single choice", "single-choice":
		return TypeSingle
	case TypeMultiple, "multiple choice", "multiple-choice", "multi":
		return TypeMultiple
	default:
		return t
	}
}
