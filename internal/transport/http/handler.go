package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"rirekisho/internal/assistant"
	"rirekisho/internal/document"
	"rirekisho/internal/gap"
	gapmetrics "rirekisho/internal/gap/metrics"
	"rirekisho/internal/record"
	"rirekisho/pkg/domain"
	dErrors "rirekisho/pkg/domain-errors"
	"rirekisho/pkg/platform/httputil"
	"rirekisho/pkg/requestcontext"
)

// HealthCheck probes one backing dependency.
type HealthCheck func(ctx context.Context) error

// Handler is the thin HTTP layer over the record container, the local
// evaluator, the document mapper and the assistant.
type Handler struct {
	records    *record.Service
	assistant  *assistant.Service
	gapMetrics *gapmetrics.Metrics
	logger     *slog.Logger
	health     map[string]HealthCheck
}

// New constructs the handler with its dependencies. Health checks and gap
// metrics may be nil.
func New(records *record.Service, assistantSvc *assistant.Service, gapMetrics *gapmetrics.Metrics, logger *slog.Logger, health map[string]HealthCheck) *Handler {
	return &Handler{
		records:    records,
		assistant:  assistantSvc,
		gapMetrics: gapMetrics,
		logger:     logger,
		health:     health,
	}
}

// Register mounts all application endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/applications", h.HandleCreate)
	r.Route("/applications/{id}", func(r chi.Router) {
		r.Get("/", h.HandleGet)
		r.Put("/", h.HandleReplace)
		r.Delete("/", h.HandleDelete)
		r.Put("/tier", h.HandleSetTier)
		r.Patch("/personal-info", h.HandlePatchPersonalInfo)
		r.Patch("/skills", h.HandlePatchSkills)
		r.Patch("/motivation", h.HandlePatchMotivation)
		r.Post("/reset", h.HandleReset)
		r.Post("/{list}", h.HandleListAppend)
		r.Patch("/{list}/{index}", h.HandleListUpdate)
		r.Delete("/{list}/{index}", h.HandleListRemove)
		r.Get("/gaps", h.HandleGaps)
		r.Post("/analyze", h.HandleAnalyze)
		r.Get("/document", h.HandleDocument)
		r.Get("/export", h.HandleExport)
		r.Post("/cv", h.HandleParseCV)
		r.Post("/chat", h.HandleChat)
	})
	r.Post("/transliterate", h.HandleTransliterate)
	r.Get("/healthz", h.HandleHealthz)
}

func (h *Handler) applicationID(w http.ResponseWriter, r *http.Request) (domain.ApplicationID, bool) {
	id, err := domain.ParseApplicationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return domain.ApplicationID{}, false
	}
	return id, true
}

// HandleCreate handles POST /applications. The body is optional; an empty
// one yields the default record.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req := &CreateApplicationRequest{}
	if r.Body != nil && r.ContentLength != 0 {
		var ok bool
		req, ok = httputil.DecodeAndPrepare[CreateApplicationRequest](w, r, h.logger, ctx, requestID)
		if !ok {
			return
		}
	}

	app, err := h.records.Create(ctx, req.Record)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, fromApplication(app))
}

// HandleGet handles GET /applications/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	app, err := h.records.Snapshot(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromApplication(app))
}

// HandleReplace handles PUT /applications/{id}.
func (h *Handler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ReplaceApplicationRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	app, err := h.records.Replace(ctx, id, req.Record)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromApplication(app))
}

// HandleDelete handles DELETE /applications/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	if err := h.records.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleReset handles POST /applications/{id}/reset.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	id, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	app, err := h.records.Reset(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromApplication(app))
}

// HandleSetTier handles PUT /applications/{id}/tier.
func (h *Handler) HandleSetTier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[SetTierRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	app, err := h.records.SetTier(ctx, id, req.ParsedTier())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromApplication(app))
}

// HandlePatchPersonalInfo handles PATCH /applications/{id}/personal-info.
func (h *Handler) HandlePatchPersonalInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[PatchPersonalInfoRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	app, err := h.records.UpdatePersonalInfo(ctx, id, req.ToPatch())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromApplication(app))
}

// HandlePatchSkills handles PATCH /applications/{id}/skills.
func (h *Handler) HandlePatchSkills(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[PatchSkillsRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	app, err := h.records.UpdateSkills(ctx, id, req.ToPatch())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromApplication(app))
}

// HandlePatchMotivation handles PATCH /applications/{id}/motivation.
func (h *Handler) HandlePatchMotivation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[PatchMotivationRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	app, err := h.records.UpdateMotivation(ctx, id, req.ToPatch())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromApplication(app))
}

// List path segments for the five managed lists.
const (
	listEducation       = "education"
	listWorkHistory     = "work-history"
	listFamilyDetails   = "family-details"
	listSSWCertificates = "ssw-certificates"
	listTechnicalSkills = "technical-skills"
)

// HandleListAppend handles POST /applications/{id}/{list}.
func (h *Handler) HandleListAppend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	id, ok := h.applicationID(w, r)
	if !ok {
		return
	}

	var app *record.Application
	var err error
	switch chi.URLParam(r, "list") {
	case listEducation:
		req, ok := httputil.DecodeAndPrepare[EducationEntryRequest](w, r, h.logger, ctx, requestID)
		if !ok {
			return
		}
		app, err = h.records.AppendEducation(ctx, id, req.Entry())
	case listWorkHistory:
		req, ok := httputil.DecodeAndPrepare[WorkEntryRequest](w, r, h.logger, ctx, requestID)
		if !ok {
			return
		}
		app, err = h.records.AppendWork(ctx, id, req.Entry())
	case listFamilyDetails:
		req, ok := httputil.DecodeAndPrepare[FamilyMemberRequest](w, r, h.logger, ctx, requestID)
		if !ok {
			return
		}
		app, err = h.records.AppendFamilyMember(ctx, id, req.Entry())
	case listSSWCertificates:
		req, ok := httputil.DecodeAndPrepare[StringEntryRequest](w, r, h.logger, ctx, requestID)
		if !ok {
			return
		}
		app, err = h.records.AppendSSWCertificate(ctx, id, req.Value)
	case listTechnicalSkills:
		req, ok := httputil.DecodeAndPrepare[StringEntryRequest](w, r, h.logger, ctx, requestID)
		if !ok {
			return
		}
		app, err = h.records.AppendTechnicalSkill(ctx, id, req.Value)
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "unknown list"))
		return
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromApplication(app))
}

func (h *Handler) listIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "list index must be an integer"))
		return 0, false
	}
	return index, true
}

// HandleListUpdate handles PATCH /applications/{id}/{list}/{index}.
// Structured entries are merged field by field; plain string lists replace
// the value whole.
func (h *Handler) HandleListUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	id, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	index, ok := h.listIndex(w, r)
	if !ok {
		return
	}

	var app *record.Application
	var err error
	switch chi.URLParam(r, "list") {
	case listEducation:
		req, ok := httputil.DecodeAndPrepare[EducationEntryPatchRequest](w, r, h.logger, ctx, requestID)
		if !ok {
			return
		}
		app, err = h.records.UpdateEducation(ctx, id, index, req.ToPatch())
	case listWorkHistory:
		req, ok := httputil.DecodeAndPrepare[WorkEntryPatchRequest](w, r, h.logger, ctx, requestID)
		if !ok {
			return
		}
		app, err = h.records.UpdateWork(ctx, id, index, req.ToPatch())
	case listFamilyDetails:
		req, ok := httputil.DecodeAndPrepare[FamilyMemberPatchRequest](w, r, h.logger, ctx, requestID)
		if !ok {
			return
		}
		app, err = h.records.UpdateFamilyMember(ctx, id, index, req.ToPatch())
	case listSSWCertificates:
		req, ok := httputil.DecodeAndPrepare[StringEntryRequest](w, r, h.logger, ctx, requestID)
		if !ok {
			return
		}
		app, err = h.records.UpdateSSWCertificate(ctx, id, index, req.Value)
	case listTechnicalSkills:
		req, ok := httputil.DecodeAndPrepare[StringEntryRequest](w, r, h.logger, ctx, requestID)
		if !ok {
			return
		}
		app, err = h.records.UpdateTechnicalSkill(ctx, id, index, req.Value)
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "unknown list"))
		return
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromApplication(app))
}

// HandleListRemove handles DELETE /applications/{id}/{list}/{index}.
func (h *Handler) HandleListRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	index, ok := h.listIndex(w, r)
	if !ok {
		return
	}

	var app *record.Application
	var err error
	switch chi.URLParam(r, "list") {
	case listEducation:
		app, err = h.records.RemoveEducation(ctx, id, index)
	case listWorkHistory:
		app, err = h.records.RemoveWork(ctx, id, index)
	case listFamilyDetails:
		app, err = h.records.RemoveFamilyMember(ctx, id, index)
	case listSSWCertificates:
		app, err = h.records.RemoveSSWCertificate(ctx, id, index)
	case listTechnicalSkills:
		app, err = h.records.RemoveTechnicalSkill(ctx, id, index)
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "unknown list"))
		return
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromApplication(app))
}

// HandleGaps handles GET /applications/{id}/gaps with the local evaluator.
func (h *Handler) HandleGaps(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	app, err := h.records.Snapshot(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	start := time.Now()
	report := gap.Evaluate(app.Record)
	h.observeReport(report, app.Record.Tier.String(), time.Since(start))
	httputil.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) observeReport(report gap.Report, tier string, d time.Duration) {
	importances := make([]string, len(report.MissingFields))
	for i, g := range report.MissingFields {
		importances[i] = g.Importance.String()
	}
	h.gapMetrics.ObserveReport(report.IsComplete, tier, importances, d)
}

// HandleAnalyze handles POST /applications/{id}/analyze. Collaborator
// failures degrade to a 503 with an explicit unavailable payload; a missing
// credential stays a distinct 401.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	report, err := h.assistant.AnalyzeGaps(ctx, id)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeUnavailable {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"analysis": "unavailable"})
			return
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

// HandleDocument handles GET /applications/{id}/document. A schema-invalid
// record blocks rendering with the full field list.
func (h *Handler) HandleDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	app, err := h.records.Snapshot(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if fields := app.Record.Validate(); len(fields) > 0 {
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{
			Error:  string(dErrors.CodeValidation),
			Fields: fields,
		})
		return
	}
	layout := document.Render(app.Record)
	httputil.WriteJSON(w, http.StatusOK, newDocumentResponse(layout, requestcontext.Now(ctx)))
}

// HandleExport handles GET /applications/{id}/export: gap report and
// document produced in parallel over the same snapshot.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	app, err := h.records.Snapshot(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if fields := app.Record.Validate(); len(fields) > 0 {
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{
			Error:  string(dErrors.CodeValidation),
			Fields: fields,
		})
		return
	}

	var report gap.Report
	var layout document.Layout
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := time.Now()
		report = gap.Evaluate(app.Record)
		h.observeReport(report, app.Record.Tier.String(), time.Since(start))
		return nil
	})
	g.Go(func() error {
		layout = document.Render(app.Record)
		return nil
	})
	if err := g.Wait(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ExportResponse{
		Gaps:     report,
		Document: newDocumentResponse(layout, requestcontext.Now(ctx)),
	})
}

// HandleParseCV handles POST /applications/{id}/cv: extract structure from
// pre-extracted CV text and merge it into the record.
func (h *Handler) HandleParseCV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ParseCVRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	cv, err := h.assistant.ParseCV(ctx, req.Text)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	app, err := h.records.MergeParsedCV(ctx, id, cv)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, MergedCVResponse{
		Application: fromApplication(app),
		Confidence:  cv.Confidence,
	})
}

// HandleTransliterate handles POST /transliterate.
func (h *Handler) HandleTransliterate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[TransliterateRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	result, err := h.assistant.Transliterate(ctx, req.Name, req.SourceLanguage)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleChat handles POST /applications/{id}/chat as a plain-text stream.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ChatRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	flusher, _ := w.(http.Flusher)
	wrote := false
	err := h.assistant.Chat(ctx, id, req.Messages, func(delta string) {
		if !wrote {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			wrote = true
		}
		_, _ = w.Write([]byte(delta))
		if flusher != nil {
			flusher.Flush()
		}
	})
	if err != nil {
		if !wrote {
			httputil.WriteError(w, err)
			return
		}
		// Headers are gone; the truncated stream is all we can signal.
		h.logger.ErrorContext(ctx, "chat stream aborted",
			"request_id", requestcontext.RequestID(ctx), "error", err)
	}
}

// HandleHealthz handles GET /healthz.
func (h *Handler) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	for name, check := range h.health {
		if err := check(ctx); err != nil {
			h.logger.WarnContext(ctx, "health check failed", "dependency", name, "error", err)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"failed": name,
			})
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
