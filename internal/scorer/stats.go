package scorer

// Group aggregates correctness over one slice of the results.
type Group struct {
	Count    int     `json:"count"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

func (g Group) add(correct bool) Group {
	g.Count++
	if correct {
		g.Correct++
	}
	return g
}

func (g Group) finish() Group {
	if g.Count > 0 {
		g.Accuracy = float64(g.Correct) / float64(g.Count)
	}
	return g
}

// Statistics aggregates results overall and by category, level, and
// question type. An empty group reports accuracy 0.
type Statistics struct {
	Overall    Group            `json:"overall"`
	Missing    int              `json:"missing"`
	ByCategory map[string]Group `json:"by_category"`
	ByLevel    map[string]Group `json:"by_level"`
	ByType     map[string]Group `json:"by_type"`
}

// Compute builds statistics from per-question results.
func Compute(results []Result) Statistics {
	s := Statistics{
		ByCategory: make(map[string]Group),
		ByLevel:    make(map[string]Group),
		ByType:     make(map[string]Group),
	}
	for _, r := range results {
		s.Overall = s.Overall.add(r.Correct)
		s.ByCategory[r.Category] = s.ByCategory[r.Category].add(r.Correct)
		s.ByLevel[r.Level] = s.ByLevel[r.Level].add(r.Correct)
		s.ByType[r.Type] = s.ByType[r.Type].add(r.Correct)
		if r.Missing {
			s.Missing++
		}
	}

	s.Overall = s.Overall.finish()
	for k, g := range s.ByCategory {
		s.ByCategory[k] = g.finish()
	}
	for k, g := range s.ByLevel {
		s.ByLevel[k] = g.finish()
	}
	for k, g := range s.ByType {
		s.ByType[k] = g.finish()
	}
	return s
}
