package document

import (
	"fmt"
	"strings"

	"rirekisho/internal/resume"
	"rirekisho/pkg/domain"
)

// listDelimiter joins certificate and skill lists in both layouts.
const listDelimiter = ", "

// Render maps a record onto the layout its tier prescribes. TITP uses the
// Bio-Data form; ENGINEER and SSW use the JIS Rirekisho.
//
// Render is a pure function of the record: identical input yields identical
// output, section order included.
func Render(rec resume.ApplicantRecord) Layout {
	if rec.Tier == domain.TierTITP {
		return renderBioData(rec)
	}
	return renderRirekisho(rec)
}

// renderRirekisho builds the Standard layout with Japanese labels.
func renderRirekisho(rec resume.ApplicantRecord) Layout {
	p := rec.PersonalInfo

	personal := Section{
		Label: "基本情報",
		Rows: []Row{
			{Label: "氏名", Value: p.FullName},
			{Label: "フリガナ", Value: p.KatakanaName},
			{Label: "生年月日", Value: p.BirthDate},
			{Label: "性別", Value: genderJa(p.Gender)},
			{Label: "住所", Value: p.CurrentAddress},
		},
	}

	education := Section{
		Label: "学歴",
		Table: &Table{
			Header: []string{"年月", "学校名"},
			Rows:   rirekishoEducationRows(rec.Education),
		},
	}

	work := Section{
		Label: "職歴",
		Table: &Table{
			Header: []string{"年月", "会社名", "職務"},
			Rows:   rirekishoWorkRows(rec.WorkHistory),
		},
	}

	skills := Section{Label: "技能・資格", Rows: skillRows(rec.Skills, "日本語能力試験", "技術スキル", "SSW資格")}

	motivation := Section{
		Label: "志望動機・自己PR",
		Rows: []Row{
			{Label: "志望動機", Value: rec.Motivation.ReasonForApplying},
			{Label: "自己PR", Value: rec.Motivation.SelfPR},
		},
	}

	return Layout{
		Kind:     KindRirekisho,
		Title:    "履歴書",
		Sections: []Section{personal, education, work, skills, motivation},
	}
}

func rirekishoEducationRows(entries []resume.EducationEntry) [][]string {
	if len(entries) == 0 {
		return [][]string{{"", "学歴なし"}}
	}
	rows := make([][]string, len(entries))
	for i, e := range entries {
		status := "卒業"
		if e.Status == domain.EducationDropout {
			status = "中退"
		}
		rows[i] = []string{
			period(e.StartDate, e.EndDate),
			strings.TrimSpace(e.SchoolName + " " + status),
		}
	}
	return rows
}

func rirekishoWorkRows(entries []resume.WorkEntry) [][]string {
	if len(entries) == 0 {
		return [][]string{{"", "職歴なし", ""}}
	}
	rows := make([][]string, len(entries))
	for i, w := range entries {
		rows[i] = []string{
			period(w.StartDate, w.EndDate),
			w.CompanyName,
			roleWithDescription(w),
		}
	}
	return rows
}

// renderBioData builds the Extended layout with English labels. Section
// numbers are fixed even when the family section is omitted, matching the
// paper form.
func renderBioData(rec resume.ApplicantRecord) Layout {
	sections := []Section{bioDataPersonal(rec.PersonalInfo)}

	if len(rec.PersonalInfo.FamilyDetails) > 0 {
		sections = append(sections, bioDataFamily(rec.PersonalInfo.FamilyDetails))
	}

	sections = append(sections,
		bioDataEducation(rec.Education),
		bioDataWork(rec.WorkHistory),
		Section{Label: "5. SKILLS & QUALIFICATIONS", Rows: skillRows(rec.Skills, "Japanese Level", "Technical Skills", "SSW Certificates")},
		Section{
			Label: "6. MOTIVATION",
			Rows: []Row{
				{Label: "Reason for Applying", Value: rec.Motivation.ReasonForApplying},
				{Label: "Self PR", Value: rec.Motivation.SelfPR},
			},
		},
	)

	return Layout{
		Kind:     KindBioData,
		Title:    "BIO-DATA",
		Sections: sections,
	}
}

func bioDataPersonal(p resume.PersonalInfo) Section {
	rows := []Row{
		{Label: "Full Name", Value: p.FullName},
		{Label: "Katakana Name", Value: p.KatakanaName},
		{Label: "Gender", Value: genderEn(p.Gender)},
		{Label: "Date of Birth", Value: p.BirthDate},
		{Label: "Current Address", Value: p.CurrentAddress},
		{Label: "Email", Value: p.Email},
		{Label: "Phone", Value: p.Phone},
	}
	if stats := p.PhysicalStats; stats != nil {
		blood := stats.BloodType
		if blood == "" {
			blood = "N/A"
		}
		rows = append(rows,
			Row{Label: "Height / Weight", Value: fmt.Sprintf("%g cm / %g kg", stats.HeightCm, stats.WeightKg)},
			Row{Label: "Blood Type", Value: blood},
			Row{Label: "Dominant Hand", Value: stats.Hand.String()},
		)
	}
	return Section{Label: "1. PERSONAL DETAILS", Rows: rows}
}

func bioDataFamily(members []resume.FamilyMember) Section {
	rows := make([][]string, len(members))
	for i, m := range members {
		rows[i] = []string{m.Relationship, m.Name, fmt.Sprintf("%d", m.Age), m.Occupation}
	}
	return Section{
		Label: "2. FAMILY DETAILS",
		Table: &Table{
			Header: []string{"Relationship", "Name", "Age", "Occupation"},
			Rows:   rows,
		},
	}
}

func bioDataEducation(entries []resume.EducationEntry) Section {
	table := &Table{Header: []string{"Period", "School Name", "Status"}}
	if len(entries) == 0 {
		table.Rows = [][]string{{"", "No education history provided.", ""}}
	} else {
		table.Rows = make([][]string, len(entries))
		for i, e := range entries {
			table.Rows[i] = []string{period(e.StartDate, e.EndDate), e.SchoolName, e.Status.String()}
		}
	}
	return Section{Label: "3. EDUCATIONAL BACKGROUND", Table: table}
}

func bioDataWork(entries []resume.WorkEntry) Section {
	table := &Table{Header: []string{"Period", "Company", "Role & Description"}}
	if len(entries) == 0 {
		table.Rows = [][]string{{"", "No work history provided.", ""}}
	} else {
		table.Rows = make([][]string, len(entries))
		for i, w := range entries {
			table.Rows[i] = []string{period(w.StartDate, w.EndDate), w.CompanyName, roleWithDescription(w)}
		}
	}
	return Section{Label: "4. EMPLOYMENT HISTORY", Table: table}
}

// skillRows builds the skills block shared by both layouts. The JLPT row is
// always present; the two list rows are omitted entirely when empty.
func skillRows(s resume.Skills, jlptLabel, techLabel, sswLabel string) []Row {
	level := s.JLPTLevel
	if level == "" {
		level = domain.JLPTNone
	}
	rows := []Row{{Label: jlptLabel, Value: level.String()}}
	if len(s.TechnicalSkills) > 0 {
		rows = append(rows, Row{Label: techLabel, Value: strings.Join(s.TechnicalSkills, listDelimiter)})
	}
	if len(s.SSWCertificates) > 0 {
		rows = append(rows, Row{Label: sswLabel, Value: strings.Join(s.SSWCertificates, listDelimiter)})
	}
	return rows
}

// period formats a date range. The end side passes the CurrentJob sentinel
// through verbatim; it is never parsed or reformatted.
func period(start, end string) string {
	return start + " - " + end
}

// roleWithDescription concatenates role and description with a newline when a
// description is present.
func roleWithDescription(w resume.WorkEntry) string {
	if w.Description == "" {
		return w.Role
	}
	return w.Role + "\n" + w.Description
}

// genderJa maps the binary gender enum to the Rirekisho label vocabulary.
// The mapping is exhaustive over the two values; records reach the mapper
// already validated.
func genderJa(g domain.Gender) string {
	if g == domain.GenderFemale {
		return "女"
	}
	return "男"
}

// genderEn maps the binary gender enum to the Bio-Data label vocabulary.
func genderEn(g domain.Gender) string {
	if g == domain.GenderFemale {
		return "Female"
	}
	return "Male"
}
