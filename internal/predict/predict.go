// Package predict collects model answers for benchmark questions by
// prompting an LLM provider, producing a prediction set the scorer can
// evaluate.
package predict

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hydroworks/hydrobench/internal/benchmark"
	"github.com/hydroworks/hydrobench/internal/llm"
)

const systemPrompt = "You are an expert in water supply and drainage engineering " +
	"answering multiple-choice exam questions. Reply with only the letter or " +
	"letters of the correct option(s), separated by commas. Do not explain."

type Options struct {
	Concurrency int
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// Runner prompts a provider once per question.
type Runner struct {
	provider llm.Provider
	opts     Options

	sem chan struct{}
}

// Result is the outcome of a prediction run. Predictions holds one
// normalized answer string per question id; questions whose completion
// failed are absent and counted in Failed.
type Result struct {
	Model        string            `json:"model"`
	Predictions  map[string]string `json:"predictions"`
	Answered     int               `json:"answered"`
	Failed       int               `json:"failed"`
	InputTokens  int               `json:"input_tokens"`
	OutputTokens int               `json:"output_tokens"`
}

func NewRunner(provider llm.Provider, opts Options) *Runner {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 256
	}
	return &Runner{
		provider: provider,
		opts:     opts,
		sem:      make(chan struct{}, opts.Concurrency),
	}
}

// Run asks the provider every question of the benchmark. A failed
// completion skips that question; the run keeps going and the first
// failure is reported alongside the partial result.
func (r *Runner) Run(ctx context.Context, b *benchmark.Benchmark) (*Result, error) {
	if r == nil || r.provider == nil {
		return nil, errors.New("predict: nil provider")
	}
	if ctx == nil {
		return nil, errors.New("predict: nil context")
	}
	if b == nil {
		return nil, errors.New("predict: nil benchmark")
	}

	out := &Result{
		Model:       r.provider.Name(),
		Predictions: make(map[string]string, b.Len()),
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)

	for _, q := range b.Questions() {
		if err := ctx.Err(); err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			break
		}

		select {
		case r.sem <- struct{}{}:
		case <-ctx.Done():
			mu.Lock()
			if firstErr == nil {
				firstErr = ctx.Err()
			}
			mu.Unlock()
		}
		if ctx.Err() != nil {
			break
		}

		q := q
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-r.sem }()

			letters, usage, err := r.ask(ctx, q)

			mu.Lock()
			defer mu.Unlock()
			out.InputTokens += usage.InputTokens
			out.OutputTokens += usage.OutputTokens
			if err != nil {
				out.Failed++
				if firstErr == nil {
					firstErr = fmt.Errorf("predict: question %s: %w", q.ID, err)
				}
				return
			}
			out.Predictions[q.ID] = strings.Join(letters, ",")
			out.Answered++
		}()
	}
	wg.Wait()

	return out, firstErr
}

func (r *Runner) ask(ctx context.Context, q benchmark.Question) ([]string, llm.Usage, error) {
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	resp, err := r.provider.Complete(ctx, &llm.Request{
		System:      systemPrompt,
		Prompt:      buildPrompt(q),
		MaxTokens:   r.opts.MaxTokens,
		Temperature: r.opts.Temperature,
	})
	if err != nil {
		return nil, llm.Usage{}, err
	}
	if resp == nil {
		return nil, llm.Usage{}, errors.New("nil response")
	}

	letters := optionLetters(llm.CleanText(resp.Text))
	if len(letters) == 0 {
		return nil, resp.Usage, fmt.Errorf("no option letters in reply %q", resp.Text)
	}
	return letters, resp.Usage, nil
}

// maxOptionLetter bounds which letters count as options. Questions carry
// at most eight choices, so I in "I think" or V in "IV" never qualify.
const maxOptionLetter = 'H'

// optionLetters pulls the chosen option letters out of a model reply.
// Only standalone letter tokens count, so a verbose reply like "The
// correct answer is C" yields C. A reply that is a single compact run of
// distinct option letters ("AB") is split character-wise. When the reply
// ends in an "Answer: ..." line only that tail is considered.
func optionLetters(s string) []string {
	if i := strings.LastIndex(strings.ToLower(s), "answer:"); i >= 0 {
		s = s[i+len("answer:"):]
	}

	runs := alnumRuns(s)
	var out []string
	for _, run := range runs {
		if len(run) == 1 && isOptionLetter(run[0]) {
			out = append(out, strings.ToUpper(run))
		}
	}
	if len(out) == 0 && len(runs) == 1 {
		out = compactLetters(runs[0])
	}
	return dedupLetters(out)
}

// alnumRuns splits s into maximal runs of ASCII letters and digits.
func alnumRuns(s string) []string {
	var runs []string
	start := -1
	for i := 0; i < len(s); i++ {
		if isAlphaNum(s[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, s[start:i])
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, s[start:])
	}
	return runs
}

// compactLetters splits a terse all-letter reply like "AB" into option
// letters. Anything long or with repeats reads as a word, not a choice.
func compactLetters(run string) []string {
	if len(run) > 6 {
		return nil
	}
	seen := make(map[byte]struct{}, len(run))
	out := make([]string, 0, len(run))
	for i := 0; i < len(run); i++ {
		c := run[i]
		if !isOptionLetter(c) {
			return nil
		}
		u := upperByte(c)
		if _, ok := seen[u]; ok {
			return nil
		}
		seen[u] = struct{}{}
		out = append(out, string(u))
	}
	return out
}

func dedupLetters(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func isOptionLetter(c byte) bool {
	u := upperByte(c)
	return u >= 'A' && u <= maxOptionLetter
}

func upperByte(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func isAlphaNum(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func buildPrompt(q benchmark.Question) string {
	var sb strings.Builder
	sb.WriteString(q.Text)
	sb.WriteString("\n\n")
	if q.Type == benchmark.TypeMultiple {
		sb.WriteString("This question has more than one correct option. ")
	}
	sb.WriteString("Answer:")
	return sb.String()
}
