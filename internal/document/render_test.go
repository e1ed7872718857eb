package document

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rirekisho/internal/resume"
	"rirekisho/pkg/domain"
)

func sampleRecord(tier domain.VisaTier) resume.ApplicantRecord {
	rec := resume.Default()
	rec.Tier = tier
	rec.PersonalInfo = resume.PersonalInfo{
		FullName:       "Nguyen Van An",
		KatakanaName:   "グエン・ヴァン・アン",
		Gender:         domain.GenderMale,
		BirthDate:      "1995-03-12",
		CurrentAddress: "Hanoi, Vietnam",
		Email:          "an.nguyen@example.com",
		Phone:          "+84901234567",
	}
	rec.Education = []resume.EducationEntry{
		{SchoolName: "Hanoi University of Science and Technology", StartDate: "2013-09-01", EndDate: "2017-06-30", Status: domain.EducationGraduated},
	}
	rec.WorkHistory = []resume.WorkEntry{
		{CompanyName: "FPT Software", StartDate: "2017-07-01", EndDate: resume.CurrentJob, Role: "Backend Engineer", Description: "Built payment integrations."},
	}
	rec.Skills = resume.Skills{
		JLPTLevel:       domain.JLPTN3,
		TechnicalSkills: []string{"Go", "PostgreSQL"},
	}
	rec.Motivation = resume.Motivation{
		ReasonForApplying: "I want to grow as an engineer in Japan.",
		SelfPR:            "Reliable and detail oriented.",
	}
	return rec
}

func findSection(t *testing.T, l Layout, label string) Section {
	t.Helper()
	for _, s := range l.Sections {
		if s.Label == label {
			return s
		}
	}
	t.Fatalf("layout has no section %q", label)
	return Section{}
}

func rowValue(t *testing.T, s Section, label string) string {
	t.Helper()
	for _, r := range s.Rows {
		if r.Label == label {
			return r.Value
		}
	}
	t.Fatalf("section %q has no row %q", s.Label, label)
	return ""
}

func TestTierSelectsLayout(t *testing.T) {
	assert.Equal(t, KindRirekisho, Render(sampleRecord(domain.TierEngineer)).Kind)
	assert.Equal(t, KindRirekisho, Render(sampleRecord(domain.TierSSW)).Kind)
	assert.Equal(t, KindBioData, Render(sampleRecord(domain.TierTITP)).Kind)
}

func TestRenderIsDeterministic(t *testing.T) {
	rec := sampleRecord(domain.TierEngineer)
	assert.Equal(t, Render(rec), Render(rec))

	rec = sampleRecord(domain.TierTITP)
	assert.Equal(t, Render(rec), Render(rec))
}

func TestRirekishoGenderLabels(t *testing.T) {
	rec := sampleRecord(domain.TierEngineer)
	layout := Render(rec)
	assert.Equal(t, "男", rowValue(t, findSection(t, layout, "基本情報"), "性別"))

	rec.PersonalInfo.Gender = domain.GenderFemale
	layout = Render(rec)
	assert.Equal(t, "女", rowValue(t, findSection(t, layout, "基本情報"), "性別"))
}

func TestBioDataGenderLabels(t *testing.T) {
	rec := sampleRecord(domain.TierTITP)
	layout := Render(rec)
	assert.Equal(t, "Male", rowValue(t, findSection(t, layout, "1. PERSONAL DETAILS"), "Gender"))

	rec.PersonalInfo.Gender = domain.GenderFemale
	layout = Render(rec)
	assert.Equal(t, "Female", rowValue(t, findSection(t, layout, "1. PERSONAL DETAILS"), "Gender"))
}

func TestCurrentJobRendersVerbatim(t *testing.T) {
	rec := sampleRecord(domain.TierEngineer)
	work := findSection(t, Render(rec), "職歴")
	require.NotNil(t, work.Table)
	require.Len(t, work.Table.Rows, 1)
	assert.Equal(t, "2017-07-01 - Current", work.Table.Rows[0][0])

	rec = sampleRecord(domain.TierTITP)
	employment := findSection(t, Render(rec), "4. EMPLOYMENT HISTORY")
	require.NotNil(t, employment.Table)
	assert.Equal(t, "2017-07-01 - Current", employment.Table.Rows[0][0])
}

func TestRoleAndDescriptionConcatenation(t *testing.T) {
	rec := sampleRecord(domain.TierEngineer)
	work := findSection(t, Render(rec), "職歴")
	assert.Equal(t, "Backend Engineer\nBuilt payment integrations.", work.Table.Rows[0][2])

	rec.WorkHistory[0].Description = ""
	work = findSection(t, Render(rec), "職歴")
	assert.Equal(t, "Backend Engineer", work.Table.Rows[0][2])
}

func TestRirekishoEmptyHistoryPlaceholders(t *testing.T) {
	rec := sampleRecord(domain.TierEngineer)
	rec.Education = nil
	rec.WorkHistory = nil
	layout := Render(rec)

	edu := findSection(t, layout, "学歴")
	require.NotNil(t, edu.Table)
	assert.Equal(t, [][]string{{"", "学歴なし"}}, edu.Table.Rows)

	work := findSection(t, layout, "職歴")
	require.NotNil(t, work.Table)
	assert.Equal(t, [][]string{{"", "職歴なし", ""}}, work.Table.Rows)
}

func TestBioDataEmptyHistoryPlaceholders(t *testing.T) {
	rec := sampleRecord(domain.TierTITP)
	rec.Education = nil
	rec.WorkHistory = nil
	layout := Render(rec)

	edu := findSection(t, layout, "3. EDUCATIONAL BACKGROUND")
	assert.Equal(t, "No education history provided.", edu.Table.Rows[0][1])

	work := findSection(t, layout, "4. EMPLOYMENT HISTORY")
	assert.Equal(t, "No work history provided.", work.Table.Rows[0][1])
}

func TestEducationStatusLabels(t *testing.T) {
	rec := sampleRecord(domain.TierEngineer)
	edu := findSection(t, Render(rec), "学歴")
	assert.Contains(t, edu.Table.Rows[0][1], "卒業")

	rec.Education[0].Status = domain.EducationDropout
	edu = findSection(t, Render(rec), "学歴")
	assert.Contains(t, edu.Table.Rows[0][1], "中退")

	rec.Tier = domain.TierTITP
	eduEn := findSection(t, Render(rec), "3. EDUCATIONAL BACKGROUND")
	assert.Equal(t, "Dropout", eduEn.Table.Rows[0][2])
}

func TestFamilySectionOmittedWhenEmptyNumberingFixed(t *testing.T) {
	rec := sampleRecord(domain.TierTITP)
	layout := Render(rec)

	labels := make([]string, len(layout.Sections))
	for i, s := range layout.Sections {
		labels[i] = s.Label
	}
	assert.Equal(t, []string{
		"1. PERSONAL DETAILS",
		"3. EDUCATIONAL BACKGROUND",
		"4. EMPLOYMENT HISTORY",
		"5. SKILLS & QUALIFICATIONS",
		"6. MOTIVATION",
	}, labels)

	rec.PersonalInfo.FamilyDetails = []resume.FamilyMember{
		{Name: "Nguyen Thi Hoa", Relationship: "Mother", Age: 52, Occupation: "Farmer"},
	}
	layout = Render(rec)
	family := findSection(t, layout, "2. FAMILY DETAILS")
	require.NotNil(t, family.Table)
	assert.Equal(t, []string{"Mother", "Nguyen Thi Hoa", "52", "Farmer"}, family.Table.Rows[0])
}

func TestPhysicalStatsRows(t *testing.T) {
	rec := sampleRecord(domain.TierTITP)
	rec.PersonalInfo.PhysicalStats = &resume.PhysicalStats{
		HeightCm: 172.5,
		WeightKg: 64,
		Hand:     domain.HandRight,
	}
	personal := findSection(t, Render(rec), "1. PERSONAL DETAILS")
	assert.Equal(t, "172.5 cm / 64 kg", rowValue(t, personal, "Height / Weight"))
	assert.Equal(t, "N/A", rowValue(t, personal, "Blood Type"))
	assert.Equal(t, "Right", rowValue(t, personal, "Dominant Hand"))

	rec.PersonalInfo.PhysicalStats.BloodType = "O"
	personal = findSection(t, Render(rec), "1. PERSONAL DETAILS")
	assert.Equal(t, "O", rowValue(t, personal, "Blood Type"))
}

func TestSkillRowsDefaultsAndOmissions(t *testing.T) {
	rec := sampleRecord(domain.TierEngineer)
	rec.Skills = resume.Skills{}
	skills := findSection(t, Render(rec), "技能・資格")
	require.Len(t, skills.Rows, 1)
	assert.Equal(t, "None", skills.Rows[0].Value)

	rec.Skills = resume.Skills{
		JLPTLevel:       domain.JLPTN2,
		TechnicalSkills: []string{"Go", "Kubernetes"},
		SSWCertificates: []string{"Caregiving Skill Evaluation"},
	}
	skills = findSection(t, Render(rec), "技能・資格")
	assert.Equal(t, "N2", rowValue(t, skills, "日本語能力試験"))
	assert.Equal(t, "Go, Kubernetes", rowValue(t, skills, "技術スキル"))
	assert.Equal(t, "Caregiving Skill Evaluation", rowValue(t, skills, "SSW資格"))
}

func TestJapaneseDate(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"reiwa", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), "令和6年4月1日"},
		{"reiwa first year", time.Date(2019, 12, 25, 0, 0, 0, 0, time.UTC), "令和元年12月25日"},
		{"heisei", time.Date(2000, 1, 2, 0, 0, 0, 0, time.UTC), "平成12年1月2日"},
		{"heisei first year", time.Date(1989, 6, 1, 0, 0, 0, 0, time.UTC), "平成元年6月1日"},
		{"showa", time.Date(1970, 8, 15, 0, 0, 0, 0, time.UTC), "昭和45年8月15日"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, JapaneseDate(tc.in))
		})
	}
}
