package httptransport

import (
	"time"

	"rirekisho/internal/document"
	"rirekisho/internal/gap"
	"rirekisho/internal/record"
	"rirekisho/internal/resume"
)

// ApplicationResponse is the envelope returned by every mutation and read.
type ApplicationResponse struct {
	ID        string                 `json:"id"`
	Revision  int64                  `json:"revision"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
	Record    resume.ApplicantRecord `json:"record"`
}

func fromApplication(app *record.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:        app.ID.String(),
		Revision:  app.Revision,
		CreatedAt: app.CreatedAt,
		UpdatedAt: app.UpdatedAt,
		Record:    app.Record,
	}
}

// DocumentResponse is a rendered layout with its issue date. Rirekisho dates
// are in the Japanese era calendar, Bio-Data dates in ISO form.
type DocumentResponse struct {
	Document   document.Layout `json:"document"`
	IssuedDate string          `json:"issuedDate"`
}

func newDocumentResponse(layout document.Layout, now time.Time) DocumentResponse {
	issued := now.Format("2006-01-02")
	if layout.Kind == document.KindRirekisho {
		issued = document.JapaneseDate(now)
	}
	return DocumentResponse{Document: layout, IssuedDate: issued}
}

// ExportResponse bundles the local gap report with the rendered document.
type ExportResponse struct {
	Gaps     gap.Report       `json:"gaps"`
	Document DocumentResponse `json:"document"`
}

// ValidationErrorResponse lists the schema violations blocking rendering.
type ValidationErrorResponse struct {
	Error  string              `json:"error"`
	Fields []resume.FieldError `json:"fields"`
}

// MergedCVResponse pairs the updated application with extraction confidence.
type MergedCVResponse struct {
	Application ApplicationResponse `json:"application"`
	Confidence  map[string]float64  `json:"confidence"`
}
