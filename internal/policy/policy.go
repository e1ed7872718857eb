// Package policy is the lookup table mapping each visa tier to its
// required-field set and tier-specific sections. It is static data plus
// accessors; the gap evaluator consumes it, nothing here does I/O.
package policy

import "rirekisho/pkg/domain"

// FieldPath addresses a record field in JSON-path form, e.g.
// "skills.jlptLevel" or "personalInfo.familyDetails".
type FieldPath string

// Field paths referenced by tier policy and the gap evaluator.
const (
	FieldFullName       FieldPath = "personalInfo.fullName"
	FieldKatakanaName   FieldPath = "personalInfo.katakanaName"
	FieldBirthDate      FieldPath = "personalInfo.birthDate"
	FieldCurrentAddress FieldPath = "personalInfo.currentAddress"
	FieldEmail          FieldPath = "personalInfo.email"
	FieldPhone          FieldPath = "personalInfo.phone"
	FieldFamilyDetails  FieldPath = "personalInfo.familyDetails"
	FieldPhysicalStats  FieldPath = "personalInfo.physicalStats"
	FieldEducation      FieldPath = "education"
	FieldWorkHistory    FieldPath = "workHistory"
	FieldJLPTLevel      FieldPath = "skills.jlptLevel"
	FieldSSWCerts       FieldPath = "skills.sswCertificates"
	FieldTechSkills     FieldPath = "skills.technicalSkills"
	FieldReason         FieldPath = "motivation.reasonForApplying"
	FieldSelfPR         FieldPath = "motivation.selfPR"
)

// Section is a display grouping for gaps and documents.
type Section string

const (
	SectionPersonal   Section = "Personal Information"
	SectionFamily     Section = "Family Details"
	SectionPhysical   Section = "Physical Stats"
	SectionEducation  Section = "Education"
	SectionWork       Section = "Work History"
	SectionSkills     Section = "Skills"
	SectionMotivation Section = "Motivation"
)

// requiredByTier is the tier-critical field table. Order within each slice is
// the evaluator's emission order for that tier, so it must stay stable.
var requiredByTier = map[domain.VisaTier][]FieldPath{
	domain.TierEngineer: {
		FieldTechSkills,
		FieldJLPTLevel,
		FieldReason,
	},
	domain.TierSSW: {
		FieldSSWCerts,
		FieldTechSkills,
		FieldPhysicalStats,
	},
	domain.TierTITP: {
		FieldFamilyDetails,
		FieldPhysicalStats,
		FieldReason,
		FieldSelfPR,
	},
}

// RequiredFields returns the tier-critical field paths for a tier, in stable
// order. The returned slice must not be mutated.
func RequiredFields(tier domain.VisaTier) []FieldPath {
	return requiredByTier[tier]
}

// IsRequired reports whether a field is tier-critical for the given tier.
func IsRequired(tier domain.VisaTier, field FieldPath) bool {
	for _, f := range requiredByTier[tier] {
		if f == field {
			return true
		}
	}
	return false
}

// tierSections lists the sections a tier adds beyond the common set.
var tierSections = map[domain.VisaTier][]Section{
	domain.TierEngineer: {},
	domain.TierSSW:      {SectionPhysical},
	domain.TierTITP:     {SectionFamily, SectionPhysical},
}

// TierSections returns the tier-specific sections for a tier.
func TierSections(tier domain.VisaTier) []Section {
	return tierSections[tier]
}

// HasSection reports whether a tier includes a tier-specific section.
func HasSection(tier domain.VisaTier, section Section) bool {
	for _, s := range tierSections[tier] {
		if s == section {
			return true
		}
	}
	return false
}

// fieldMeta is the static per-field table driving gap construction: which
// section a field belongs to, how much a gap matters, and the question the
// editing flow should ask the user.
type fieldMeta struct {
	Section    Section
	Importance domain.Importance
	Question   string
}

var fieldTable = map[FieldPath]fieldMeta{
	FieldFullName:       {SectionPersonal, domain.ImportanceHigh, "What is your full legal name?"},
	FieldKatakanaName:   {SectionPersonal, domain.ImportanceHigh, "How is your name written in Katakana?"},
	FieldBirthDate:      {SectionPersonal, domain.ImportanceHigh, "What is your date of birth?"},
	FieldCurrentAddress: {SectionPersonal, domain.ImportanceHigh, "What is your current address?"},
	FieldEmail:          {SectionPersonal, domain.ImportanceHigh, "What email address can employers reach you at?"},
	FieldPhone:          {SectionPersonal, domain.ImportanceHigh, "What phone number can employers reach you at?"},
	FieldFamilyDetails:  {SectionFamily, domain.ImportanceHigh, "Please list your family members with their relationship, age, and occupation."},
	FieldPhysicalStats:  {SectionPhysical, domain.ImportanceHigh, "What are your height, weight, and dominant hand?"},
	FieldEducation:      {SectionEducation, domain.ImportanceMedium, "Please add at least one education entry with school name and dates."},
	FieldWorkHistory:    {SectionWork, domain.ImportanceMedium, "Please add your work history with company names and dates."},
	FieldJLPTLevel:      {SectionSkills, domain.ImportanceHigh, "What is your JLPT level? Select None if you have not taken the test."},
	FieldSSWCerts:       {SectionSkills, domain.ImportanceHigh, "Which SSW skill certificates do you hold?"},
	FieldTechSkills:     {SectionSkills, domain.ImportanceHigh, "What technical skills should we list for you?"},
	FieldReason:         {SectionMotivation, domain.ImportanceHigh, "Why are you applying for this position?"},
	FieldSelfPR:         {SectionMotivation, domain.ImportanceMedium, "What are your personal strengths? Write a short self-PR."},
}

// FieldSection returns the display section for a field path.
func FieldSection(field FieldPath) Section {
	return fieldTable[field].Section
}

// FieldImportance returns the static importance for a field path. Unknown
// fields rank low so a typo never inflates severity.
func FieldImportance(field FieldPath) domain.Importance {
	if m, ok := fieldTable[field]; ok {
		return m.Importance
	}
	return domain.ImportanceLow
}

// FieldQuestion returns the templated prompt question for a field path.
func FieldQuestion(field FieldPath) string {
	return fieldTable[field].Question
}
