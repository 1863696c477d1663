package predict

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hydroworks/hydrobench/internal/tabular"
)

// Save writes the predictions to path: a JSON object keyed by question
// id when the extension is .json, a flat ID/Answer table otherwise.
// Both forms load back as a prediction source.
func Save(res *Result, path string) error {
	if res == nil {
		return errors.New("predict: nil result")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("predict: empty output path")
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := json.MarshalIndent(res.Predictions, "", "  ")
		if err != nil {
			return fmt.Errorf("predict: marshal: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("predict: write %q: %w", path, err)
		}
		return nil
	}

	ids := make([]string, 0, len(res.Predictions))
	for id := range res.Predictions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	t := &tabular.Table{
		Header: []string{"ID", "Answer"},
		Rows:   make([][]string, 0, len(ids)),
	}
	for _, id := range ids {
		t.Rows = append(t.Rows, []string{id, res.Predictions[id]})
	}
	return tabular.WriteFile(t, path)
}
