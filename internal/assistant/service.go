package assistant

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"rirekisho/internal/assistant/metrics"
	"rirekisho/internal/gap"
	"rirekisho/internal/record"
	"rirekisho/internal/resume"
	"rirekisho/pkg/domain"
	dErrors "rirekisho/pkg/domain-errors"
)

// Transliteration is the katakana rendering of a foreign name.
type Transliteration struct {
	Katakana      string `json:"katakana"`
	Pronunciation string `json:"pronunciation"`
	Notes         string `json:"notes,omitempty"`
}

// Service runs the model-backed operations. Every structured response is
// validated before anything downstream trusts it; a malformed response is a
// recoverable collaborator failure, never a crash.
type Service struct {
	completer Completer
	records   *record.Service
	cache     *redis.Client
	cacheTTL  time.Duration
	logger    *slog.Logger
	met       *metrics.Metrics
}

// NewService constructs the assistant service. Cache and metrics may be nil.
func NewService(completer Completer, records *record.Service, cache *redis.Client, cacheTTL time.Duration, logger *slog.Logger, met *metrics.Metrics) *Service {
	return &Service{
		completer: completer,
		records:   records,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger,
		met:       met,
	}
}

// gapAnalysisResponse is the raw shape the model must return for AnalyzeGaps.
type gapAnalysisResponse struct {
	MissingFields []struct {
		Field      string `json:"field"`
		Section    string `json:"section"`
		Importance string `json:"importance"`
		Question   string `json:"question"`
	} `json:"missingFields"`
	Suggestions []string `json:"suggestions"`
	IsComplete  bool     `json:"isComplete"`
}

// AnalyzeGaps asks the model for a completeness review of the current
// record. Identical record states are served from cache. A result computed
// against a revision that has since moved on is discarded.
func (s *Service) AnalyzeGaps(ctx context.Context, id domain.ApplicationID) (gap.Report, error) {
	const op = "analyze_gaps"
	start := time.Now()

	snap, err := s.records.Snapshot(ctx, id)
	if err != nil {
		return gap.Report{}, err
	}
	key, err := s.gapCacheKey(snap.Record)
	if err == nil {
		if report, ok := s.cachedReport(ctx, key); ok {
			s.met.ObserveCacheHit()
			return report, nil
		}
	}

	out, err := s.completer.Complete(ctx, CompletionRequest{
		System: gapAnalysisSystem,
		User:   gapAnalysisPrompt(snap.Record),
		JSON:   true,
	})
	if err != nil {
		return gap.Report{}, s.fail(ctx, op, err)
	}

	var raw gapAnalysisResponse
	if err := decodeJSON(out, &raw); err != nil {
		return gap.Report{}, s.fail(ctx, op, NewError(CategoryBadData, op, "undecodable analysis response", err))
	}
	report := gap.Report{
		MissingFields: make([]gap.Gap, 0, len(raw.MissingFields)),
		Suggestions:   raw.Suggestions,
		IsComplete:    raw.IsComplete,
	}
	if report.Suggestions == nil {
		report.Suggestions = []string{}
	}
	for _, mf := range raw.MissingFields {
		importance, err := domain.ParseImportance(mf.Importance)
		if err != nil || mf.Field == "" {
			return gap.Report{}, s.fail(ctx, op, NewError(CategoryBadData, op, "malformed analysis entry", err))
		}
		report.MissingFields = append(report.MissingFields, gap.Gap{
			Field:      mf.Field,
			Section:    mf.Section,
			Importance: importance,
			Question:   mf.Question,
		})
	}

	// The record may have moved on while the model was thinking; a result
	// for a stale revision must not be presented as current.
	current, err := s.records.Snapshot(ctx, id)
	if err != nil {
		return gap.Report{}, err
	}
	if current.Revision != snap.Revision {
		s.met.Observe(op, string(CategoryInternal), 0)
		return gap.Report{}, dErrors.New(dErrors.CodeConflict, "record changed during analysis")
	}

	s.storeReport(ctx, key, report)
	s.met.Observe(op, "", time.Since(start).Seconds())
	return report, nil
}

// parsedCVResponse is the raw shape the model must return for ParseCV.
type parsedCVResponse struct {
	PersonalInfo struct {
		FullName       string `json:"fullName"`
		Email          string `json:"email"`
		Phone          string `json:"phone"`
		CurrentAddress string `json:"currentAddress"`
	} `json:"personalInfo"`
	Education []struct {
		SchoolName string `json:"schoolName"`
		StartDate  string `json:"startDate"`
		EndDate    string `json:"endDate"`
		Status     string `json:"status"`
	} `json:"education"`
	WorkHistory []struct {
		CompanyName string `json:"companyName"`
		StartDate   string `json:"startDate"`
		EndDate     string `json:"endDate"`
		Role        string `json:"role"`
		Description string `json:"description"`
	} `json:"workHistory"`
	Skills     []string           `json:"skills"`
	Confidence map[string]float64 `json:"confidence"`
}

// ParseCV extracts structured resume data from pre-extracted CV text.
func (s *Service) ParseCV(ctx context.Context, text string) (resume.ParsedCV, error) {
	const op = "parse_cv"
	start := time.Now()

	if strings.TrimSpace(text) == "" {
		return resume.ParsedCV{}, dErrors.New(dErrors.CodeBadRequest, "cv text is required")
	}

	out, err := s.completer.Complete(ctx, CompletionRequest{
		System: parseCVSystem,
		User:   parseCVPrompt(text),
		JSON:   true,
	})
	if err != nil {
		return resume.ParsedCV{}, s.fail(ctx, op, err)
	}

	var raw parsedCVResponse
	if err := decodeJSON(out, &raw); err != nil {
		return resume.ParsedCV{}, s.fail(ctx, op, NewError(CategoryBadData, op, "undecodable extraction response", err))
	}
	for section, score := range raw.Confidence {
		if score < 0 || score > 1 {
			return resume.ParsedCV{}, s.fail(ctx, op, NewError(CategoryBadData, op,
				fmt.Sprintf("confidence for %s out of range", section), nil))
		}
	}

	cv := resume.ParsedCV{
		PersonalInfo: &resume.PersonalInfo{
			FullName:       raw.PersonalInfo.FullName,
			Email:          raw.PersonalInfo.Email,
			Phone:          raw.PersonalInfo.Phone,
			CurrentAddress: raw.PersonalInfo.CurrentAddress,
		},
		Confidence: raw.Confidence,
	}
	for _, e := range raw.Education {
		status, err := domain.ParseEducationStatus(e.Status)
		if err != nil {
			return resume.ParsedCV{}, s.fail(ctx, op, NewError(CategoryBadData, op, "invalid education status", err))
		}
		cv.Education = append(cv.Education, resume.EducationEntry{
			SchoolName: e.SchoolName,
			StartDate:  e.StartDate,
			EndDate:    e.EndDate,
			Status:     status,
		})
	}
	for _, w := range raw.WorkHistory {
		cv.WorkHistory = append(cv.WorkHistory, resume.WorkEntry{
			CompanyName: w.CompanyName,
			StartDate:   w.StartDate,
			EndDate:     w.EndDate,
			Role:        w.Role,
			Description: w.Description,
		})
	}
	if len(raw.Skills) > 0 {
		cv.Skills = &resume.Skills{TechnicalSkills: raw.Skills}
	}

	s.met.Observe(op, "", time.Since(start).Seconds())
	return cv, nil
}

// Transliterate renders a foreign name in katakana.
func (s *Service) Transliterate(ctx context.Context, name, sourceLanguage string) (Transliteration, error) {
	const op = "transliterate"
	start := time.Now()

	if strings.TrimSpace(name) == "" {
		return Transliteration{}, dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	if sourceLanguage == "" {
		sourceLanguage = "English"
	}

	out, err := s.completer.Complete(ctx, CompletionRequest{
		System: transliterateSystem,
		User:   transliteratePrompt(name, sourceLanguage),
		JSON:   true,
	})
	if err != nil {
		return Transliteration{}, s.fail(ctx, op, err)
	}

	var result Transliteration
	if err := decodeJSON(out, &result); err != nil {
		return Transliteration{}, s.fail(ctx, op, NewError(CategoryBadData, op, "undecodable transliteration response", err))
	}
	if result.Katakana == "" {
		return Transliteration{}, s.fail(ctx, op, NewError(CategoryBadData, op, "transliteration missing katakana", nil))
	}

	s.met.Observe(op, "", time.Since(start).Seconds())
	return result, nil
}

// Chat streams an assistant conversation grounded on the current record.
// Chunks are forwarded to onDelta as they arrive; the response is free text
// and never parsed.
func (s *Service) Chat(ctx context.Context, id domain.ApplicationID, messages []Message, onDelta func(string)) error {
	const op = "chat"
	start := time.Now()

	if len(messages) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "messages are required")
	}
	snap, err := s.records.Snapshot(ctx, id)
	if err != nil {
		return err
	}

	err = s.completer.Stream(ctx, CompletionRequest{
		System:   chatSystemPrompt(snap.Record),
		Messages: messages,
	}, onDelta)
	if err != nil {
		return s.fail(ctx, op, err)
	}

	s.met.Observe(op, "", time.Since(start).Seconds())
	return nil
}

// fail records the failure and converts it to a coded error.
func (s *Service) fail(ctx context.Context, op string, err error) error {
	category := GetCategory(err)
	s.met.Observe(op, string(category), 0)
	s.logger.WarnContext(ctx, "assistant operation failed",
		"operation", op, "category", string(category), "error", err)
	return toDomainError(err)
}

func (s *Service) gapCacheKey(rec resume.ApplicantRecord) (string, error) {
	blob, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(blob)
	return "gap-analysis:" + hex.EncodeToString(sum[:]), nil
}

func (s *Service) cachedReport(ctx context.Context, key string) (gap.Report, bool) {
	if s.cache == nil {
		return gap.Report{}, false
	}
	blob, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.WarnContext(ctx, "analysis cache read failed", "error", err)
		}
		return gap.Report{}, false
	}
	var report gap.Report
	if err := json.Unmarshal(blob, &report); err != nil {
		return gap.Report{}, false
	}
	return report, true
}

func (s *Service) storeReport(ctx context.Context, key string, report gap.Report) {
	if s.cache == nil || key == "" {
		return
	}
	blob, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, blob, s.cacheTTL).Err(); err != nil {
		s.logger.WarnContext(ctx, "analysis cache write failed", "error", err)
	}
}

// decodeJSON unmarshals a model response, tolerating markdown code fences
// around the JSON object.
func decodeJSON(out string, target any) error {
	trimmed := strings.TrimSpace(out)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return json.Unmarshal([]byte(strings.TrimSpace(trimmed)), target)
}
