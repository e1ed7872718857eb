package gap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rirekisho/internal/resume"
	"rirekisho/pkg/domain"
)

func completeRecord(tier domain.VisaTier) resume.ApplicantRecord {
	rec := resume.ApplicantRecord{
		Tier: tier,
		PersonalInfo: resume.PersonalInfo{
			FullName:       "山田 太郎",
			KatakanaName:   "ヤマダ タロウ",
			Gender:         domain.GenderMale,
			BirthDate:      "1990-01-01",
			CurrentAddress: "東京都渋谷区1-2-3",
			Email:          "taro@example.com",
			Phone:          "9012345678",
		},
		Education: []resume.EducationEntry{
			{SchoolName: "Test University", StartDate: "2010-04-01", EndDate: "2014-03-31", Status: domain.EducationGraduated},
		},
		WorkHistory: []resume.WorkEntry{
			{CompanyName: "Tech Company", StartDate: "2014-04-01", EndDate: resume.CurrentJob, Role: "Developer", Description: "Frontend development"},
		},
		Skills: resume.Skills{
			JLPTLevel:       domain.JLPTN2,
			SSWCertificates: []string{"Caregiving"},
			TechnicalSkills: []string{"React", "TypeScript"},
		},
		Motivation: resume.Motivation{
			ReasonForApplying: "I admire the company vision and want to grow there.",
			SelfPR:            "I am persistent and detail oriented.",
		},
	}
	if tier == domain.TierSSW || tier == domain.TierTITP {
		rec.PersonalInfo.PhysicalStats = &resume.PhysicalStats{HeightCm: 170, WeightKg: 60, BloodType: "A", Hand: domain.HandRight}
	}
	if tier == domain.TierTITP {
		rec.PersonalInfo.FamilyDetails = []resume.FamilyMember{
			{Name: "Hana", Relationship: "Spouse", Age: 28, Occupation: "Teacher"},
		}
	}
	return rec
}

func fields(report Report) []string {
	out := make([]string, len(report.MissingFields))
	for i, g := range report.MissingFields {
		out[i] = g.Field
	}
	return out
}

func findGap(t *testing.T, report Report, field string) Gap {
	t.Helper()
	for _, g := range report.MissingFields {
		if g.Field == field {
			return g
		}
	}
	t.Fatalf("no gap for field %q in %v", field, fields(report))
	return Gap{}
}

func TestCompleteRecordsAreComplete(t *testing.T) {
	for _, tier := range []domain.VisaTier{domain.TierEngineer, domain.TierSSW, domain.TierTITP} {
		t.Run(tier.String(), func(t *testing.T) {
			report := Evaluate(completeRecord(tier))
			assert.Empty(t, report.MissingFields)
			assert.True(t, report.IsComplete)
		})
	}
}

// Removing any single tier-critical field must surface a gap with the
// importance the static table assigns.
func TestRemovingRequiredFieldYieldsGap(t *testing.T) {
	clear := map[string]func(*resume.ApplicantRecord){
		"skills.technicalSkills":       func(r *resume.ApplicantRecord) { r.Skills.TechnicalSkills = nil },
		"skills.jlptLevel":             func(r *resume.ApplicantRecord) { r.Skills.JLPTLevel = "" },
		"skills.sswCertificates":       func(r *resume.ApplicantRecord) { r.Skills.SSWCertificates = nil },
		"personalInfo.physicalStats":   func(r *resume.ApplicantRecord) { r.PersonalInfo.PhysicalStats = nil },
		"personalInfo.familyDetails":   func(r *resume.ApplicantRecord) { r.PersonalInfo.FamilyDetails = nil },
		"motivation.reasonForApplying": func(r *resume.ApplicantRecord) { r.Motivation.ReasonForApplying = "" },
		"motivation.selfPR":            func(r *resume.ApplicantRecord) { r.Motivation.SelfPR = "" },
	}

	for _, tier := range []domain.VisaTier{domain.TierEngineer, domain.TierSSW, domain.TierTITP} {
		for _, field := range requiredFieldsOf(tier) {
			t.Run(tier.String()+"/"+field, func(t *testing.T) {
				rec := completeRecord(tier)
				clear[field](&rec)

				report := Evaluate(rec)
				assert.False(t, report.IsComplete)
				gap := findGap(t, report, field)
				assert.NotEmpty(t, gap.Section)
				assert.NotEmpty(t, gap.Question)
				assert.True(t, gap.Importance.IsValid())
			})
		}
	}
}

func requiredFieldsOf(tier domain.VisaTier) []string {
	switch tier {
	case domain.TierEngineer:
		return []string{"skills.technicalSkills", "skills.jlptLevel", "motivation.reasonForApplying"}
	case domain.TierSSW:
		return []string{"skills.sswCertificates", "skills.technicalSkills", "personalInfo.physicalStats"}
	default:
		return []string{"personalInfo.familyDetails", "personalInfo.physicalStats", "motivation.reasonForApplying", "motivation.selfPR"}
	}
}

// Concrete scenario from the requirements: ENGINEER with empty jlptLevel and
// technicalSkills and a 9-character reason gets two high gaps and one
// medium "too short" gap.
func TestEngineerScenario(t *testing.T) {
	rec := completeRecord(domain.TierEngineer)
	rec.Skills.JLPTLevel = ""
	rec.Skills.TechnicalSkills = nil
	rec.Motivation.ReasonForApplying = "ok, sure!"

	report := Evaluate(rec)
	assert.False(t, report.IsComplete)

	assert.Equal(t, domain.ImportanceHigh, findGap(t, report, "skills.jlptLevel").Importance)
	assert.Equal(t, domain.ImportanceHigh, findGap(t, report, "skills.technicalSkills").Importance)

	short := findGap(t, report, "motivation.reasonForApplying")
	assert.Equal(t, domain.ImportanceMedium, short.Importance)
	assert.Contains(t, short.Question, "short")
}

// Length is measured in characters, so a five-character Japanese reason is
// short even though it is fifteen bytes, and a ten-character one is not.
func TestShortJapaneseMotivationIsAGap(t *testing.T) {
	rec := completeRecord(domain.TierEngineer)
	rec.Motivation.ReasonForApplying = "頑張ります"

	report := Evaluate(rec)
	assert.False(t, report.IsComplete)
	short := findGap(t, report, "motivation.reasonForApplying")
	assert.Equal(t, domain.ImportanceMedium, short.Importance)

	rec.Motivation.ReasonForApplying = "日本で技術者として働きたい"
	report = Evaluate(rec)
	for _, g := range report.MissingFields {
		assert.NotEqual(t, "motivation.reasonForApplying", g.Field)
	}
}

func TestTITPEmptyFamilyDetails(t *testing.T) {
	rec := completeRecord(domain.TierTITP)
	rec.PersonalInfo.FamilyDetails = []resume.FamilyMember{}

	report := Evaluate(rec)
	assert.False(t, report.IsComplete)
	gap := findGap(t, report, "personalInfo.familyDetails")
	assert.Equal(t, domain.ImportanceHigh, gap.Importance)
	assert.Equal(t, "Family Details", gap.Section)
}

func TestMissingWorkDescriptionIsLowImportance(t *testing.T) {
	rec := completeRecord(domain.TierEngineer)
	rec.WorkHistory = append(rec.WorkHistory, resume.WorkEntry{
		CompanyName: "Old Corp", StartDate: "2012-01-01", EndDate: "2014-03-31", Role: "Clerk",
	})

	report := Evaluate(rec)
	gap := findGap(t, report, "workHistory[1].description")
	assert.Equal(t, domain.ImportanceLow, gap.Importance)
	assert.Contains(t, gap.Question, "Old Corp")
}

func TestEmptyListsAreGaps(t *testing.T) {
	rec := completeRecord(domain.TierEngineer)
	rec.Education = nil
	rec.WorkHistory = nil

	report := Evaluate(rec)
	findGap(t, report, "education")
	findGap(t, report, "workHistory")
}

// Tier-specific data left behind by a tier switch is retained but never
// scored: an ENGINEER record with orphaned TITP sections evaluates on
// ENGINEER policy alone.
func TestOrphanedTierDataIgnored(t *testing.T) {
	rec := completeRecord(domain.TierTITP)
	rec.Tier = domain.TierEngineer

	report := Evaluate(rec)
	assert.True(t, report.IsComplete)
}

// JLPT "None" is an answer, not a gap.
func TestJLPTNoneCountsAsProvided(t *testing.T) {
	rec := completeRecord(domain.TierEngineer)
	rec.Skills.JLPTLevel = domain.JLPTNone

	report := Evaluate(rec)
	for _, g := range report.MissingFields {
		assert.NotEqual(t, "skills.jlptLevel", g.Field)
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	rec := completeRecord(domain.TierTITP)
	rec.PersonalInfo.Email = ""
	rec.PersonalInfo.FamilyDetails = nil
	rec.Skills.SSWCertificates = nil
	rec.WorkHistory[0].Description = ""
	rec.Motivation.SelfPR = "brief"

	first := Evaluate(rec)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Evaluate(rec))
	}

	// Section ordering: personal before family, family before work,
	// work before motivation.
	got := fields(first)
	require.Equal(t, []string{
		"personalInfo.email",
		"personalInfo.familyDetails",
		"workHistory[0].description",
		"motivation.selfPR",
	}, got)
}

func TestWhitespaceOnlyValuesAreGaps(t *testing.T) {
	rec := completeRecord(domain.TierEngineer)
	rec.PersonalInfo.FullName = "   "

	report := Evaluate(rec)
	findGap(t, report, "personalInfo.fullName")
}
