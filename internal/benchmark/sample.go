package benchmark

import (
	"fmt"
	"math/rand"
	"sort"
)

// SampleByCategory draws up to per questions from every category without
// replacement and returns them as a new Benchmark. Selection is driven by
// seed, so a fixed seed always yields the same sample; emission preserves
// the source benchmark's question order. The receiver is left untouched.
func (b *Benchmark) SampleByCategory(per int, seed int64) (*Benchmark, error) {
	if b == nil || len(b.questions) == 0 {
		return nil, fmt.Errorf("benchmark: nothing to sample")
	}
	if per <= 0 {
		return nil, fmt.Errorf("benchmark: per-category sample size must be > 0 (got %d)", per)
	}

	groups := make(map[string][]int)
	for i, q := range b.questions {
		groups[q.Category] = append(groups[q.Category], i)
	}

	categories := make([]string, 0, len(groups))
	for c := range groups {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	rng := rand.New(rand.NewSource(seed))
	var picked []int
	for _, c := range categories {
		pool := groups[c]
		n := per
		if n > len(pool) {
			n = len(pool)
		}
		for _, j := range rng.Perm(len(pool))[:n] {
			picked = append(picked, pool[j])
		}
	}
	sort.Ints(picked)

	questions := make([]Question, 0, len(picked))
	for _, i := range picked {
		questions = append(questions, b.questions[i])
	}

	desc := b.description
	if desc == "" {
		desc = b.name
	}
	return New(
		b.name+"-sampled",
		fmt.Sprintf("%s (sampled %d per category)", desc, per),
		questions,
	)
}
