// Package gap evaluates an applicant record against the active tier policy
// and reports what is missing. Evaluation is pure domain logic: no I/O, no
// side effects, byte-identical output for an unchanged record.
package gap

import "rirekisho/pkg/domain"

// Gap is one missing, empty, or insufficient field relative to the active
// tier's requirements.
type Gap struct {
	Field      string            `json:"field"`
	Section    string            `json:"section"`
	Importance domain.Importance `json:"importance"`
	Question   string            `json:"question"`
}

// Report is the result of one completeness evaluation. It is derived data:
// recomputed on demand, never persisted or mutated in place.
type Report struct {
	MissingFields []Gap    `json:"missingFields"`
	Suggestions   []string `json:"suggestions"`
	IsComplete    bool     `json:"isComplete"`
}
