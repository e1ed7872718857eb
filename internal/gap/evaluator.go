package gap

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"rirekisho/internal/policy"
	"rirekisho/internal/resume"
	"rirekisho/pkg/domain"
)

// Evaluate walks the record against the active tier policy and produces an
// ordered gap report.
//
// Gap emission order is fixed (personal, family, physical, education, work
// history, skills, motivation) so repeated evaluation of an unchanged record
// is byte-identical. Rule priority within each section:
//  1. Tier-critical required fields (from the tier policy table)
//  2. Always-expected lists (education, work history)
//  3. Minimum-length rule on motivation statements - a distinct "too short"
//     gap even when the value is present
//  4. Missing work-history descriptions - low-importance context gaps
func Evaluate(rec resume.ApplicantRecord) Report {
	var gaps []Gap

	gaps = append(gaps, personalGaps(rec)...)
	gaps = append(gaps, requiredSectionGaps(rec, policy.SectionFamily)...)
	gaps = append(gaps, requiredSectionGaps(rec, policy.SectionPhysical)...)
	gaps = append(gaps, educationGaps(rec)...)
	gaps = append(gaps, workGaps(rec)...)
	gaps = append(gaps, requiredSectionGaps(rec, policy.SectionSkills)...)
	gaps = append(gaps, motivationGaps(rec)...)

	return Report{
		MissingFields: gaps,
		Suggestions:   []string{},
		IsComplete:    len(gaps) == 0,
	}
}

// identityFields are expected for every tier regardless of policy.
var identityFields = []policy.FieldPath{
	policy.FieldFullName,
	policy.FieldKatakanaName,
	policy.FieldBirthDate,
	policy.FieldCurrentAddress,
	policy.FieldEmail,
	policy.FieldPhone,
}

func personalGaps(rec resume.ApplicantRecord) []Gap {
	var gaps []Gap
	for _, field := range identityFields {
		if fieldMissing(rec, field) {
			gaps = append(gaps, gapFor(field))
		}
	}
	return gaps
}

// requiredSectionGaps emits gaps for the tier-critical fields of one section,
// in the tier policy's order.
func requiredSectionGaps(rec resume.ApplicantRecord, section policy.Section) []Gap {
	var gaps []Gap
	for _, field := range policy.RequiredFields(rec.Tier) {
		if policy.FieldSection(field) != section {
			continue
		}
		if fieldMissing(rec, field) {
			gaps = append(gaps, gapFor(field))
		}
	}
	return gaps
}

func educationGaps(rec resume.ApplicantRecord) []Gap {
	if len(rec.Education) == 0 {
		return []Gap{gapFor(policy.FieldEducation)}
	}
	return nil
}

func workGaps(rec resume.ApplicantRecord) []Gap {
	if len(rec.WorkHistory) == 0 {
		return []Gap{gapFor(policy.FieldWorkHistory)}
	}
	var gaps []Gap
	for i, entry := range rec.WorkHistory {
		if strings.TrimSpace(entry.Description) != "" {
			continue
		}
		company := strings.TrimSpace(entry.CompanyName)
		if company == "" {
			company = "this position"
		}
		gaps = append(gaps, Gap{
			Field:      fmt.Sprintf("workHistory[%d].description", i),
			Section:    string(policy.SectionWork),
			Importance: domain.ImportanceLow,
			Question:   fmt.Sprintf("Can you describe your responsibilities at %s?", company),
		})
	}
	return gaps
}

func motivationGaps(rec resume.ApplicantRecord) []Gap {
	var gaps []Gap
	for _, field := range policy.RequiredFields(rec.Tier) {
		if policy.FieldSection(field) != policy.SectionMotivation {
			continue
		}
		if fieldMissing(rec, field) {
			gaps = append(gaps, gapFor(field))
		}
	}
	// "Too short" is a distinct gap type: the value is present but
	// insufficient, so it is reported even for tiers that do not list the
	// field as critical.
	gaps = append(gaps, tooShortGaps(rec.Motivation)...)
	return gaps
}

func tooShortGaps(m resume.Motivation) []Gap {
	var gaps []Gap
	if tooShort(m.ReasonForApplying) {
		gaps = append(gaps, Gap{
			Field:      string(policy.FieldReason),
			Section:    string(policy.SectionMotivation),
			Importance: domain.ImportanceMedium,
			Question:   "Your reason for applying is very short. Can you expand on why you want this position?",
		})
	}
	if tooShort(m.SelfPR) {
		gaps = append(gaps, Gap{
			Field:      string(policy.FieldSelfPR),
			Section:    string(policy.SectionMotivation),
			Importance: domain.ImportanceMedium,
			Question:   "Your self-PR is very short. Can you expand on your strengths?",
		})
	}
	return gaps
}

// tooShort counts characters, not bytes, so Japanese text is measured the
// same as Latin text.
func tooShort(s string) bool {
	trimmed := strings.TrimSpace(s)
	return trimmed != "" && utf8.RuneCountInString(trimmed) < resume.MinMotivationLength
}

// fieldMissing reports whether a field counts as a gap: null, empty, or
// whitespace-only values, empty lists, and absent optional subsections.
func fieldMissing(rec resume.ApplicantRecord, field policy.FieldPath) bool {
	switch field {
	case policy.FieldFullName:
		return blank(rec.PersonalInfo.FullName)
	case policy.FieldKatakanaName:
		return blank(rec.PersonalInfo.KatakanaName)
	case policy.FieldBirthDate:
		return blank(rec.PersonalInfo.BirthDate)
	case policy.FieldCurrentAddress:
		return blank(rec.PersonalInfo.CurrentAddress)
	case policy.FieldEmail:
		return blank(rec.PersonalInfo.Email)
	case policy.FieldPhone:
		return blank(rec.PersonalInfo.Phone)
	case policy.FieldFamilyDetails:
		return len(rec.PersonalInfo.FamilyDetails) == 0
	case policy.FieldPhysicalStats:
		return rec.PersonalInfo.PhysicalStats == nil
	case policy.FieldJLPTLevel:
		return rec.Skills.JLPTLevel == ""
	case policy.FieldSSWCerts:
		return len(rec.Skills.SSWCertificates) == 0
	case policy.FieldTechSkills:
		return len(rec.Skills.TechnicalSkills) == 0
	case policy.FieldReason:
		return blank(rec.Motivation.ReasonForApplying)
	case policy.FieldSelfPR:
		return blank(rec.Motivation.SelfPR)
	default:
		return false
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func gapFor(field policy.FieldPath) Gap {
	return Gap{
		Field:      string(field),
		Section:    string(policy.FieldSection(field)),
		Importance: policy.FieldImportance(field),
		Question:   policy.FieldQuestion(field),
	}
}
