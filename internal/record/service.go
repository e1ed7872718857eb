package record

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"rirekisho/internal/record/metrics"
	"rirekisho/internal/resume"
	"rirekisho/pkg/domain"
	dErrors "rirekisho/pkg/domain-errors"
	"rirekisho/pkg/platform/sentinel"
	"rirekisho/pkg/requestcontext"
)

// Mutation action names, used for metrics labels and audit events.
const (
	ActionCreate          = "create"
	ActionReplace         = "replace"
	ActionReset           = "reset"
	ActionDelete          = "delete"
	ActionSetTier         = "set_tier"
	ActionPatchPersonal   = "patch_personal_info"
	ActionPatchSkills     = "patch_skills"
	ActionPatchMotivation = "patch_motivation"
	ActionListAppend      = "list_append"
	ActionListUpdate      = "list_update"
	ActionListRemove      = "list_remove"
	ActionMergeCV         = "merge_cv"
)

// Update describes one committed mutation. Published to subscribers after the
// new revision is persisted.
type Update struct {
	ApplicationID domain.ApplicationID
	Action        string
	Field         string
	Revision      int64
	Timestamp     time.Time
}

// Service is the single writer for application state. Every mutation runs
// against a deep-copied snapshot, persists the result, bumps the revision,
// and notifies subscribers. Reads hand out clones, never shared state.
type Service struct {
	store  Store
	logger *slog.Logger
	met    *metrics.Metrics

	mu         sync.Mutex
	containers map[domain.ApplicationID]*container

	subMu       sync.RWMutex
	subscribers []func(Update)
}

// container serializes mutations for one application.
type container struct {
	mu  sync.Mutex
	app *Application
}

// NewService constructs the record service. Metrics may be nil.
func NewService(store Store, logger *slog.Logger, met *metrics.Metrics) *Service {
	return &Service{
		store:      store,
		logger:     logger,
		met:        met,
		containers: make(map[domain.ApplicationID]*container),
	}
}

// Subscribe registers a callback invoked once per committed mutation.
// Callbacks run on the commit path so they observe updates in commit order;
// they must return quickly and must not call back into the service.
func (s *Service) Subscribe(fn func(Update)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// publish delivers synchronously. The per-application mutex serializes
// commits, so delivery order is commit order.
func (s *Service) publish(update Update) {
	s.subMu.RLock()
	subs := make([]func(Update), len(s.subscribers))
	copy(subs, s.subscribers)
	s.subMu.RUnlock()

	for _, fn := range subs {
		fn(update)
	}
}

// Create starts a new application. A nil seed record yields the default
// record (ENGINEER tier, empty sections).
func (s *Service) Create(ctx context.Context, seed *resume.ApplicantRecord) (*Application, error) {
	now := requestcontext.Now(ctx)
	rec := resume.Default()
	if seed != nil {
		rec = seed.Clone()
	}
	app := &Application{
		ID:        domain.NewApplicationID(),
		Revision:  1,
		CreatedAt: now,
		UpdatedAt: now,
		Record:    rec,
	}
	if err := s.store.Save(ctx, app); err != nil {
		s.met.ObserveMutation(ActionCreate, err, 0)
		return nil, dErrors.Wrap(dErrors.CodeInternal, "create application", err)
	}

	s.mu.Lock()
	s.containers[app.ID] = &container{app: app.Clone()}
	s.mu.Unlock()

	s.met.ObserveMutation(ActionCreate, nil, 0)
	s.logger.InfoContext(ctx, "application created", "application_id", app.ID.String())
	s.publish(Update{ApplicationID: app.ID, Action: ActionCreate, Revision: app.Revision, Timestamp: now})
	return app, nil
}

// Snapshot returns a deep copy of the current state.
func (s *Service) Snapshot(ctx context.Context, id domain.ApplicationID) (*Application, error) {
	c, err := s.container(ctx, id)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.app.Clone(), nil
}

// Delete removes the application from the store and drops its container.
func (s *Service) Delete(ctx context.Context, id domain.ApplicationID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if err == sentinel.ErrNotFound {
			return dErrors.New(dErrors.CodeNotFound, "application not found")
		}
		return dErrors.Wrap(dErrors.CodeInternal, "delete application", err)
	}
	s.mu.Lock()
	delete(s.containers, id)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "application deleted", "application_id", id.String())
	s.publish(Update{ApplicationID: id, Action: ActionDelete, Timestamp: requestcontext.Now(ctx)})
	return nil
}

// SetTier switches the visa tier. Tier-specific data entered under the
// previous tier is retained; only evaluation changes.
func (s *Service) SetTier(ctx context.Context, id domain.ApplicationID, tier domain.VisaTier) (*Application, error) {
	return s.mutate(ctx, id, ActionSetTier, "tier", func(rec *resume.ApplicantRecord) error {
		rec.Tier = tier
		return nil
	})
}

// UpdatePersonalInfo applies a partial personal-info update.
func (s *Service) UpdatePersonalInfo(ctx context.Context, id domain.ApplicationID, patch PersonalInfoPatch) (*Application, error) {
	return s.mutate(ctx, id, ActionPatchPersonal, "personalInfo", func(rec *resume.ApplicantRecord) error {
		patch.apply(&rec.PersonalInfo)
		return nil
	})
}

// UpdateSkills applies a partial skills update.
func (s *Service) UpdateSkills(ctx context.Context, id domain.ApplicationID, patch SkillsPatch) (*Application, error) {
	return s.mutate(ctx, id, ActionPatchSkills, "skills", func(rec *resume.ApplicantRecord) error {
		patch.apply(&rec.Skills)
		return nil
	})
}

// UpdateMotivation applies a partial motivation update.
func (s *Service) UpdateMotivation(ctx context.Context, id domain.ApplicationID, patch MotivationPatch) (*Application, error) {
	return s.mutate(ctx, id, ActionPatchMotivation, "motivation", func(rec *resume.ApplicantRecord) error {
		patch.apply(&rec.Motivation)
		return nil
	})
}

// Replace swaps in a whole new record, keeping ID and revision history.
func (s *Service) Replace(ctx context.Context, id domain.ApplicationID, rec resume.ApplicantRecord) (*Application, error) {
	return s.mutate(ctx, id, ActionReplace, "", func(current *resume.ApplicantRecord) error {
		*current = rec.Clone()
		return nil
	})
}

// Reset restores the default record.
func (s *Service) Reset(ctx context.Context, id domain.ApplicationID) (*Application, error) {
	return s.mutate(ctx, id, ActionReset, "", func(current *resume.ApplicantRecord) error {
		*current = resume.Default()
		return nil
	})
}

// MergeParsedCV folds an extracted CV into the record: append lists, fill
// empty scalars, never overwrite user-entered values.
func (s *Service) MergeParsedCV(ctx context.Context, id domain.ApplicationID, cv resume.ParsedCV) (*Application, error) {
	return s.mutate(ctx, id, ActionMergeCV, "", func(rec *resume.ApplicantRecord) error {
		*rec = resume.MergeParsed(*rec, cv)
		return nil
	})
}

func (s *Service) AppendEducation(ctx context.Context, id domain.ApplicationID, entry resume.EducationEntry) (*Application, error) {
	return s.mutate(ctx, id, ActionListAppend, "education", func(rec *resume.ApplicantRecord) error {
		rec.Education = append(rec.Education, entry)
		return nil
	})
}

// UpdateEducation merges a partial entry into the entry at index. Absent
// patch fields leave the existing values in place.
func (s *Service) UpdateEducation(ctx context.Context, id domain.ApplicationID, index int, patch EducationEntryPatch) (*Application, error) {
	return s.mutate(ctx, id, ActionListUpdate, "education", func(rec *resume.ApplicantRecord) error {
		return patchEntry(rec.Education, index, patch.apply)
	})
}

func (s *Service) RemoveEducation(ctx context.Context, id domain.ApplicationID, index int) (*Application, error) {
	return s.mutate(ctx, id, ActionListRemove, "education", func(rec *resume.ApplicantRecord) error {
		return removeEntry(&rec.Education, index)
	})
}

func (s *Service) AppendWork(ctx context.Context, id domain.ApplicationID, entry resume.WorkEntry) (*Application, error) {
	return s.mutate(ctx, id, ActionListAppend, "workHistory", func(rec *resume.ApplicantRecord) error {
		rec.WorkHistory = append(rec.WorkHistory, entry)
		return nil
	})
}

func (s *Service) UpdateWork(ctx context.Context, id domain.ApplicationID, index int, patch WorkEntryPatch) (*Application, error) {
	return s.mutate(ctx, id, ActionListUpdate, "workHistory", func(rec *resume.ApplicantRecord) error {
		return patchEntry(rec.WorkHistory, index, patch.apply)
	})
}

func (s *Service) RemoveWork(ctx context.Context, id domain.ApplicationID, index int) (*Application, error) {
	return s.mutate(ctx, id, ActionListRemove, "workHistory", func(rec *resume.ApplicantRecord) error {
		return removeEntry(&rec.WorkHistory, index)
	})
}

func (s *Service) AppendFamilyMember(ctx context.Context, id domain.ApplicationID, member resume.FamilyMember) (*Application, error) {
	return s.mutate(ctx, id, ActionListAppend, "familyDetails", func(rec *resume.ApplicantRecord) error {
		rec.PersonalInfo.FamilyDetails = append(rec.PersonalInfo.FamilyDetails, member)
		return nil
	})
}

func (s *Service) UpdateFamilyMember(ctx context.Context, id domain.ApplicationID, index int, patch FamilyMemberPatch) (*Application, error) {
	return s.mutate(ctx, id, ActionListUpdate, "familyDetails", func(rec *resume.ApplicantRecord) error {
		return patchEntry(rec.PersonalInfo.FamilyDetails, index, patch.apply)
	})
}

func (s *Service) RemoveFamilyMember(ctx context.Context, id domain.ApplicationID, index int) (*Application, error) {
	return s.mutate(ctx, id, ActionListRemove, "familyDetails", func(rec *resume.ApplicantRecord) error {
		return removeEntry(&rec.PersonalInfo.FamilyDetails, index)
	})
}

func (s *Service) AppendSSWCertificate(ctx context.Context, id domain.ApplicationID, cert string) (*Application, error) {
	return s.mutate(ctx, id, ActionListAppend, "sswCertificates", func(rec *resume.ApplicantRecord) error {
		rec.Skills.SSWCertificates = append(rec.Skills.SSWCertificates, cert)
		return nil
	})
}

func (s *Service) UpdateSSWCertificate(ctx context.Context, id domain.ApplicationID, index int, cert string) (*Application, error) {
	return s.mutate(ctx, id, ActionListUpdate, "sswCertificates", func(rec *resume.ApplicantRecord) error {
		return replaceEntry(rec.Skills.SSWCertificates, index, cert)
	})
}

func (s *Service) RemoveSSWCertificate(ctx context.Context, id domain.ApplicationID, index int) (*Application, error) {
	return s.mutate(ctx, id, ActionListRemove, "sswCertificates", func(rec *resume.ApplicantRecord) error {
		return removeEntry(&rec.Skills.SSWCertificates, index)
	})
}

func (s *Service) AppendTechnicalSkill(ctx context.Context, id domain.ApplicationID, skill string) (*Application, error) {
	return s.mutate(ctx, id, ActionListAppend, "technicalSkills", func(rec *resume.ApplicantRecord) error {
		rec.Skills.TechnicalSkills = append(rec.Skills.TechnicalSkills, skill)
		return nil
	})
}

func (s *Service) UpdateTechnicalSkill(ctx context.Context, id domain.ApplicationID, index int, skill string) (*Application, error) {
	return s.mutate(ctx, id, ActionListUpdate, "technicalSkills", func(rec *resume.ApplicantRecord) error {
		return replaceEntry(rec.Skills.TechnicalSkills, index, skill)
	})
}

func (s *Service) RemoveTechnicalSkill(ctx context.Context, id domain.ApplicationID, index int) (*Application, error) {
	return s.mutate(ctx, id, ActionListRemove, "technicalSkills", func(rec *resume.ApplicantRecord) error {
		return removeEntry(&rec.Skills.TechnicalSkills, index)
	})
}

// container returns the per-application container, loading it from the store
// on first access.
func (s *Service) container(ctx context.Context, id domain.ApplicationID) (*container, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.containers[id]; ok {
		return c, nil
	}
	app, err := s.store.Find(ctx, id)
	if err != nil {
		if err == sentinel.ErrNotFound {
			return nil, dErrors.New(dErrors.CodeNotFound, "application not found")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load application", err)
	}
	c := &container{app: app}
	s.containers[id] = c
	return c, nil
}

// mutate is the single commit path: clone, apply, persist, bump revision,
// publish. A failed apply or save leaves the container untouched.
func (s *Service) mutate(ctx context.Context, id domain.ApplicationID, action, field string, apply func(*resume.ApplicantRecord) error) (*Application, error) {
	start := time.Now()
	c, err := s.container(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.app.Record.Clone()
	if err := apply(&next); err != nil {
		s.met.ObserveMutation(action, err, 0)
		return nil, err
	}

	updated := &Application{
		ID:        c.app.ID,
		Revision:  c.app.Revision + 1,
		CreatedAt: c.app.CreatedAt,
		UpdatedAt: requestcontext.Now(ctx),
		Record:    next,
	}
	if err := s.store.Save(ctx, updated); err != nil {
		wrapped := dErrors.Wrap(dErrors.CodeInternal, "persist application", err)
		s.met.ObserveMutation(action, wrapped, 0)
		s.logger.ErrorContext(ctx, "mutation persist failed",
			"application_id", id.String(), "action", action, "error", err)
		return nil, wrapped
	}
	c.app = updated

	s.met.ObserveMutation(action, nil, time.Since(start).Seconds())
	s.publish(Update{
		ApplicationID: id,
		Action:        action,
		Field:         field,
		Revision:      updated.Revision,
		Timestamp:     updated.UpdatedAt,
	})
	return updated.Clone(), nil
}

// patchEntry merges a partial update into the entry at index in place.
func patchEntry[T any](list []T, index int, apply func(*T)) error {
	if index < 0 || index >= len(list) {
		return outOfRange(index)
	}
	apply(&list[index])
	return nil
}

// replaceEntry swaps the whole entry; used for the plain string lists,
// where the value itself is the entry.
func replaceEntry[T any](list []T, index int, entry T) error {
	if index < 0 || index >= len(list) {
		return outOfRange(index)
	}
	list[index] = entry
	return nil
}

func removeEntry[T any](list *[]T, index int) error {
	if index < 0 || index >= len(*list) {
		return outOfRange(index)
	}
	*list = append((*list)[:index], (*list)[index+1:]...)
	return nil
}

func outOfRange(index int) error {
	return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("list index %d out of range", index))
}
