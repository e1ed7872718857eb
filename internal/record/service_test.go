package record

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rirekisho/internal/resume"
	"rirekisho/pkg/domain"
	dErrors "rirekisho/pkg/domain-errors"
)

func newTestService() *Service {
	return NewService(NewMemoryStore(), slog.New(slog.DiscardHandler), nil)
}

func createApplication(t *testing.T, s *Service) *Application {
	t.Helper()
	app, err := s.Create(context.Background(), nil)
	require.NoError(t, err)
	return app
}

func strPtr(s string) *string { return &s }

func TestCreateStartsWithDefaultRecord(t *testing.T) {
	s := newTestService()
	app := createApplication(t, s)

	assert.False(t, app.ID.IsZero())
	assert.Equal(t, int64(1), app.Revision)
	assert.Equal(t, domain.TierEngineer, app.Record.Tier)
	assert.Empty(t, app.Record.Education)
	assert.Empty(t, app.Record.WorkHistory)
}

func TestEveryMutationBumpsRevision(t *testing.T) {
	s := newTestService()
	app := createApplication(t, s)
	ctx := context.Background()

	after, err := s.SetTier(ctx, app.ID, domain.TierSSW)
	require.NoError(t, err)
	assert.Equal(t, int64(2), after.Revision)

	after, err = s.UpdateMotivation(ctx, app.ID, MotivationPatch{SelfPR: strPtr("Hard worker.")})
	require.NoError(t, err)
	assert.Equal(t, int64(3), after.Revision)

	after, err = s.AppendTechnicalSkill(ctx, app.ID, "Go")
	require.NoError(t, err)
	assert.Equal(t, int64(4), after.Revision)
}

func TestPatchOnlyTouchesProvidedFields(t *testing.T) {
	s := newTestService()
	app := createApplication(t, s)
	ctx := context.Background()

	_, err := s.UpdatePersonalInfo(ctx, app.ID, PersonalInfoPatch{
		FullName: strPtr("Nguyen Van An"),
		Email:    strPtr("an@example.com"),
	})
	require.NoError(t, err)

	after, err := s.UpdatePersonalInfo(ctx, app.ID, PersonalInfoPatch{
		Phone: strPtr("+84901234567"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Nguyen Van An", after.Record.PersonalInfo.FullName)
	assert.Equal(t, "an@example.com", after.Record.PersonalInfo.Email)
	assert.Equal(t, "+84901234567", after.Record.PersonalInfo.Phone)
}

func TestListEntryRoundTrip(t *testing.T) {
	s := newTestService()
	app := createApplication(t, s)
	ctx := context.Background()

	entry := resume.EducationEntry{
		SchoolName: "Hanoi University",
		StartDate:  "2013-09-01",
		EndDate:    "2017-06-30",
		Status:     domain.EducationGraduated,
	}
	after, err := s.AppendEducation(ctx, app.ID, entry)
	require.NoError(t, err)
	require.Len(t, after.Record.Education, 1)
	assert.Equal(t, entry, after.Record.Education[0])

	dropout := domain.EducationDropout
	after, err = s.UpdateEducation(ctx, app.ID, 0, EducationEntryPatch{Status: &dropout})
	require.NoError(t, err)
	assert.Equal(t, domain.EducationDropout, after.Record.Education[0].Status)
	// Fields absent from the patch keep their values.
	assert.Equal(t, "Hanoi University", after.Record.Education[0].SchoolName)
	assert.Equal(t, "2013-09-01", after.Record.Education[0].StartDate)

	after, err = s.RemoveEducation(ctx, app.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, after.Record.Education)
}

func TestEmptyPartialUpdateLeavesEntryUnchanged(t *testing.T) {
	s := newTestService()
	app := createApplication(t, s)
	ctx := context.Background()

	entry := resume.EducationEntry{
		SchoolName: "Hanoi University",
		StartDate:  "2013-09-01",
		EndDate:    "2017-06-30",
		Status:     domain.EducationGraduated,
	}
	_, err := s.AppendEducation(ctx, app.ID, entry)
	require.NoError(t, err)

	after, err := s.UpdateEducation(ctx, app.ID, 0, EducationEntryPatch{})
	require.NoError(t, err)
	assert.Equal(t, entry, after.Record.Education[0])

	work := resume.WorkEntry{
		CompanyName: "Acme Software",
		StartDate:   "2017-05-01",
		EndDate:     resume.CurrentJob,
		Role:        "Backend Engineer",
	}
	_, err = s.AppendWork(ctx, app.ID, work)
	require.NoError(t, err)

	after, err = s.UpdateWork(ctx, app.ID, 0, WorkEntryPatch{})
	require.NoError(t, err)
	assert.Equal(t, work, after.Record.WorkHistory[0])

	member := resume.FamilyMember{Name: "Hana", Relationship: "Spouse", Age: 28, Occupation: "Teacher"}
	_, err = s.AppendFamilyMember(ctx, app.ID, member)
	require.NoError(t, err)

	after, err = s.UpdateFamilyMember(ctx, app.ID, 0, FamilyMemberPatch{})
	require.NoError(t, err)
	assert.Equal(t, member, after.Record.PersonalInfo.FamilyDetails[0])
}

func TestPartialListUpdateMergesFields(t *testing.T) {
	s := newTestService()
	app := createApplication(t, s)
	ctx := context.Background()

	_, err := s.AppendWork(ctx, app.ID, resume.WorkEntry{
		CompanyName: "Acme Software",
		StartDate:   "2017-05-01",
		EndDate:     resume.CurrentJob,
		Role:        "Backend Engineer",
	})
	require.NoError(t, err)

	after, err := s.UpdateWork(ctx, app.ID, 0, WorkEntryPatch{
		EndDate:     strPtr("2024-03-31"),
		Description: strPtr("Operated Go microservices."),
	})
	require.NoError(t, err)
	got := after.Record.WorkHistory[0]
	assert.Equal(t, "Acme Software", got.CompanyName)
	assert.Equal(t, "Backend Engineer", got.Role)
	assert.Equal(t, "2024-03-31", got.EndDate)
	assert.Equal(t, "Operated Go microservices.", got.Description)
}

func TestRemoveShiftsSubsequentIndices(t *testing.T) {
	s := newTestService()
	app := createApplication(t, s)
	ctx := context.Background()

	for _, skill := range []string{"Go", "Python", "Rust"} {
		_, err := s.AppendTechnicalSkill(ctx, app.ID, skill)
		require.NoError(t, err)
	}

	after, err := s.RemoveTechnicalSkill(ctx, app.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Rust"}, after.Record.Skills.TechnicalSkills)
}

func TestOutOfRangeIndexIsReportedError(t *testing.T) {
	s := newTestService()
	app := createApplication(t, s)
	ctx := context.Background()

	before, err := s.Snapshot(ctx, app.ID)
	require.NoError(t, err)

	_, err = s.RemoveEducation(ctx, app.ID, 0)
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeInvalidInput, dErrors.CodeOf(err))

	_, err = s.UpdateWork(ctx, app.ID, 5, WorkEntryPatch{CompanyName: strPtr("X")})
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeInvalidInput, dErrors.CodeOf(err))

	_, err = s.RemoveTechnicalSkill(ctx, app.ID, -1)
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeInvalidInput, dErrors.CodeOf(err))

	// Record and revision are untouched by rejected mutations.
	after, err := s.Snapshot(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Revision, after.Revision)
	assert.Equal(t, before.Record, after.Record)
}

func TestTierSwitchRetainsOrphanedData(t *testing.T) {
	s := newTestService()
	app := createApplication(t, s)
	ctx := context.Background()

	_, err := s.SetTier(ctx, app.ID, domain.TierTITP)
	require.NoError(t, err)
	_, err = s.AppendFamilyMember(ctx, app.ID, resume.FamilyMember{
		Name: "Nguyen Thi Hoa", Relationship: "Mother", Age: 52, Occupation: "Farmer",
	})
	require.NoError(t, err)

	after, err := s.SetTier(ctx, app.ID, domain.TierEngineer)
	require.NoError(t, err)
	assert.Equal(t, domain.TierEngineer, after.Record.Tier)
	require.Len(t, after.Record.PersonalInfo.FamilyDetails, 1)
	assert.Equal(t, "Nguyen Thi Hoa", after.Record.PersonalInfo.FamilyDetails[0].Name)
}

func TestSnapshotIsIsolatedFromContainer(t *testing.T) {
	s := newTestService()
	app := createApplication(t, s)
	ctx := context.Background()

	_, err := s.AppendTechnicalSkill(ctx, app.ID, "Go")
	require.NoError(t, err)

	snap, err := s.Snapshot(ctx, app.ID)
	require.NoError(t, err)
	snap.Record.Skills.TechnicalSkills[0] = "mutated"
	snap.Record.PersonalInfo.FullName = "mutated"

	after, err := s.Snapshot(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go", after.Record.Skills.TechnicalSkills[0])
	assert.Empty(t, after.Record.PersonalInfo.FullName)
}

func TestUnknownApplicationIsNotFound(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	_, err := s.Snapshot(ctx, domain.NewApplicationID())
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))

	err = s.Delete(ctx, domain.NewApplicationID())
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
}

func TestSubscriberReceivesOneEventPerCommit(t *testing.T) {
	s := newTestService()
	updates := make(chan Update, 8)
	s.Subscribe(func(u Update) { updates <- u })

	app := createApplication(t, s)
	ctx := context.Background()
	_, err := s.SetTier(ctx, app.ID, domain.TierSSW)
	require.NoError(t, err)

	// Rejected mutations publish nothing.
	_, err = s.RemoveEducation(ctx, app.ID, 0)
	require.Error(t, err)

	first := waitForUpdate(t, updates)
	assert.Equal(t, ActionCreate, first.Action)
	assert.Equal(t, app.ID, first.ApplicationID)

	second := waitForUpdate(t, updates)
	assert.Equal(t, ActionSetTier, second.Action)
	assert.Equal(t, "tier", second.Field)
	assert.Equal(t, int64(2), second.Revision)

	select {
	case u := <-updates:
		t.Fatalf("unexpected extra update: %+v", u)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscriberObservesCommitOrder(t *testing.T) {
	s := newTestService()
	var actions []string
	var revisions []int64
	s.Subscribe(func(u Update) {
		actions = append(actions, u.Action)
		revisions = append(revisions, u.Revision)
	})

	app := createApplication(t, s)
	ctx := context.Background()
	for _, skill := range []string{"Go", "PostgreSQL", "Redis"} {
		_, err := s.AppendTechnicalSkill(ctx, app.ID, skill)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{ActionCreate, ActionListAppend, ActionListAppend, ActionListAppend}, actions)
	assert.Equal(t, []int64{1, 2, 3, 4}, revisions)
}

func waitForUpdate(t *testing.T, ch <-chan Update) Update {
	t.Helper()
	select {
	case u := <-ch:
		return u
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for update")
		return Update{}
	}
}

func TestMergeParsedCVFillsWithoutOverwriting(t *testing.T) {
	s := newTestService()
	app := createApplication(t, s)
	ctx := context.Background()

	_, err := s.UpdatePersonalInfo(ctx, app.ID, PersonalInfoPatch{
		FullName: strPtr("Nguyen Van An"),
	})
	require.NoError(t, err)
	_, err = s.AppendTechnicalSkill(ctx, app.ID, "Go")
	require.NoError(t, err)

	after, err := s.MergeParsedCV(ctx, app.ID, resume.ParsedCV{
		PersonalInfo: &resume.PersonalInfo{
			FullName: "Different Name",
			Email:    "an@example.com",
		},
		WorkHistory: []resume.WorkEntry{
			{CompanyName: "FPT Software", StartDate: "2017-07-01", EndDate: resume.CurrentJob, Role: "Engineer"},
		},
		Skills: &resume.Skills{TechnicalSkills: []string{"PostgreSQL"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Nguyen Van An", after.Record.PersonalInfo.FullName)
	assert.Equal(t, "an@example.com", after.Record.PersonalInfo.Email)
	require.Len(t, after.Record.WorkHistory, 1)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, after.Record.Skills.TechnicalSkills)
}

func TestReplaceAndReset(t *testing.T) {
	s := newTestService()
	app := createApplication(t, s)
	ctx := context.Background()

	rec := resume.Default()
	rec.Tier = domain.TierSSW
	rec.PersonalInfo.FullName = "Replaced"
	after, err := s.Replace(ctx, app.ID, rec)
	require.NoError(t, err)
	assert.Equal(t, domain.TierSSW, after.Record.Tier)
	assert.Equal(t, "Replaced", after.Record.PersonalInfo.FullName)

	after, err = s.Reset(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TierEngineer, after.Record.Tier)
	assert.Empty(t, after.Record.PersonalInfo.FullName)
	assert.Equal(t, int64(3), after.Revision)
}

func TestServiceReloadsFromStore(t *testing.T) {
	store := NewMemoryStore()
	first := NewService(store, slog.New(slog.DiscardHandler), nil)
	app, err := first.Create(context.Background(), nil)
	require.NoError(t, err)
	_, err = first.SetTier(context.Background(), app.ID, domain.TierTITP)
	require.NoError(t, err)

	// A fresh service over the same store picks up persisted state.
	second := NewService(store, slog.New(slog.DiscardHandler), nil)
	snap, err := second.Snapshot(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TierTITP, snap.Record.Tier)
	assert.Equal(t, int64(2), snap.Revision)
}
