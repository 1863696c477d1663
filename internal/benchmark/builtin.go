package benchmark

import (
	"os"
	"strings"
)

const (
	// BuiltinName identifies the bundled water-engineering benchmark.
	BuiltinName = "hydrobench"

	defaultDataPath = "data/hydrobench.json"
)

// LoadBuiltin loads the bundled benchmark from its data file. The path can
// be overridden with HYDROBENCH_DATA_PATH; when the file is missing a small
// in-code sample is returned so the tool stays usable without the dataset.
func LoadBuiltin() (*Benchmark, error) {
	path := strings.TrimSpace(os.Getenv("HYDROBENCH_DATA_PATH"))
	if path == "" {
		path = defaultDataPath
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return builtinSample()
		}
		return nil, err
	}
	return FromJSON(b, BuiltinName)
}

func builtinSample() (*Benchmark, error) {
	return New(BuiltinName, "built-in sample (full dataset not installed)", []Question{
		{
			ID:       "BK-0001",
			Text:     "Which process removes suspended solids by gravity in a treatment plant? A. Sedimentation B. Chlorination C. Aeration D. Fluoridation",
			Expected: []string{"A"},
			Category: "BK",
			Level:    "basic conceptual knowledge",
		},
		{
			ID:       "BK-0002",
			Text:     "Which of the following are common coagulants in water treatment? A. Alum B. Ferric chloride C. Sodium chloride D. Activated carbon",
			Expected: []string{"A", "B"},
			Category: "BK",
			Level:    "basic conceptual knowledge",
		},
		{
			ID:       "EA-0001",
			Text:     "A pipe carries 0.5 m^3/s at 2 m/s. What is its cross-sectional area? A. 0.10 m^2 B. 0.25 m^2 C. 0.50 m^2 D. 1.00 m^2",
			Expected: []string{"B"},
			Category: "EA",
			Level:    "engineering applications",
		},
		{
			ID:       "RC-0001",
			Text:     "For steady open-channel flow, which equations apply? A. Manning B. Darcy-Weisbach C. Bernoulli D. Nernst",
			Expected: []string{"A", "C"},
			Category: "RC",
			Level:    "reasoning and calculation",
		},
	})
}
