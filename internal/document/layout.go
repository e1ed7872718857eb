// Package document maps an applicant record onto one of two fixed paper-form
// layouts: the JIS Rirekisho for ENGINEER and SSW applications and the
// Bio-Data form for TITP. Rendering is pure and total over any structurally
// valid record; schema validation happens before a record reaches here.
package document

// Kind selects which paper form a layout represents.
type Kind string

const (
	KindRirekisho Kind = "rirekisho"
	KindBioData   Kind = "bio_data"
)

// Layout is a print-ready document structure handed to the external
// rendering collaborator. It is derived data: recomputed on demand, never
// persisted.
type Layout struct {
	Kind     Kind      `json:"kind"`
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// Section is one labeled block: either key-value rows or a table.
type Section struct {
	Label string `json:"label"`
	Rows  []Row  `json:"rows,omitempty"`
	Table *Table `json:"table,omitempty"`
}

// Row is one labeled value line.
type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Table is a fixed-header table.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}
