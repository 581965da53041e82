// Package coverage narrows a parsed coverage model to a set of in-scope
// files and recomputes the aggregate statistics for the reduced view.
package coverage

import "github.com/Dammyololade/smart-coverage-sub001/internal/model"

// Filter returns a new model containing only the files whose path matches
// the in-scope set. A nil or empty set means "no filter": the input model is
// returned unchanged. The input model is never mutated, so one parsed model
// can back several filtered views in the same run.
//
// A non-empty set that matches nothing yields a model with zero files and a
// zeroed summary; that is a legitimate result, distinct from the no-filter
// case, and the fall-back decision belongs to the caller.
func Filter(m *model.CoverageModel, inScope *PathSet) *model.CoverageModel {
	if inScope.Len() == 0 {
		return m
	}

	filtered := &model.CoverageModel{}
	for _, f := range m.Files {
		if inScope.Matches(f.Path) {
			filtered.Files = append(filtered.Files, f)
		}
	}
	filtered.Summary = filtered.TotalSummary()
	return filtered
}
