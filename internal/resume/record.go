// Package resume defines the applicant record: the canonical shape of one
// application's data across all three visa tiers. The record is a plain value
// type; evaluation and rendering elsewhere operate on deep-copied snapshots.
package resume

import (
	"rirekisho/pkg/domain"
)

// CurrentJob is the literal end-date sentinel for an ongoing job. It is a
// special value, not a parseable date, and must be checked before any date
// parsing.
const CurrentJob = "Current"

// ApplicantRecord is the aggregate root for one application. Optional
// subsections are pointers so a versionless persisted blob with any subset of
// fields absent loads as "not yet provided", never as an error.
type ApplicantRecord struct {
	Tier         domain.VisaTier  `json:"tier"`
	PersonalInfo PersonalInfo     `json:"personalInfo"`
	Education    []EducationEntry `json:"education"`
	WorkHistory  []WorkEntry      `json:"workHistory"`
	Skills       Skills           `json:"skills"`
	Motivation   Motivation       `json:"motivation"`
}

// PersonalInfo covers identity and contact fields plus the TITP-only
// subsections. FamilyDetails and PhysicalStats are only meaningful when the
// record's tier is TITP (or SSW for physical stats); they are retained, not
// cleared, if the tier is switched away.
type PersonalInfo struct {
	FullName       string         `json:"fullName"`
	KatakanaName   string         `json:"katakanaName"`
	Gender         domain.Gender  `json:"gender"`
	BirthDate      string         `json:"birthDate"`
	CurrentAddress string         `json:"currentAddress"`
	JapanAddress   string         `json:"japanAddress,omitempty"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	PhotoURL       string         `json:"photoUrl,omitempty"`
	FamilyDetails  []FamilyMember `json:"familyDetails,omitempty"`
	PhysicalStats  *PhysicalStats `json:"physicalStats,omitempty"`
}

// FamilyMember is one row of the TITP family-details table. List order is
// display order, not semantically meaningful.
type FamilyMember struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Age          int    `json:"age"`
	Occupation   string `json:"occupation"`
}

// PhysicalStats is the TITP/SSW physical subsection.
type PhysicalStats struct {
	HeightCm  float64             `json:"heightCm"`
	WeightKg  float64             `json:"weightKg"`
	BloodType string              `json:"bloodType,omitempty"`
	Hand      domain.DominantHand `json:"dominantHand"`
}

// EducationEntry is one row of the education list. List order is entry order
// as input by the user; entries are never auto-sorted.
type EducationEntry struct {
	SchoolName string                 `json:"schoolName"`
	StartDate  string                 `json:"startDate"`
	EndDate    string                 `json:"endDate"`
	Status     domain.EducationStatus `json:"status"`
}

// WorkEntry is one row of the work-history list. EndDate holds either a date
// string or the CurrentJob sentinel; it is never empty for a finished job.
type WorkEntry struct {
	CompanyName string `json:"companyName"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Role        string `json:"role"`
	Description string `json:"description,omitempty"`
}

// IsCurrent reports whether the job is ongoing. Callers must check this
// before attempting to parse EndDate as a date.
func (w WorkEntry) IsCurrent() bool {
	return w.EndDate == CurrentJob
}

// Skills holds language level plus the two tier-relevant string lists.
type Skills struct {
	JLPTLevel       domain.JLPTLevel `json:"jlptLevel,omitempty"`
	SSWCertificates []string         `json:"sswCertificates,omitempty"`
	TechnicalSkills []string         `json:"technicalSkills,omitempty"`
}

// Motivation holds the two free-text statements.
type Motivation struct {
	ReasonForApplying string `json:"reasonForApplying"`
	SelfPR            string `json:"selfPR"`
}

// Default returns the initial record for a new application: ENGINEER tier,
// empty sections.
func Default() ApplicantRecord {
	return ApplicantRecord{
		Tier: domain.TierEngineer,
		PersonalInfo: PersonalInfo{
			Gender: domain.GenderMale,
		},
		Education:   []EducationEntry{},
		WorkHistory: []WorkEntry{},
	}
}

// Clone returns a deep copy. Mutation commits and snapshot reads both go
// through here so no caller ever shares slice or pointer state with the
// container.
func (r ApplicantRecord) Clone() ApplicantRecord {
	out := r
	out.PersonalInfo.FamilyDetails = cloneSlice(r.PersonalInfo.FamilyDetails)
	if r.PersonalInfo.PhysicalStats != nil {
		stats := *r.PersonalInfo.PhysicalStats
		out.PersonalInfo.PhysicalStats = &stats
	}
	out.Education = cloneSlice(r.Education)
	out.WorkHistory = cloneSlice(r.WorkHistory)
	out.Skills.SSWCertificates = cloneSlice(r.Skills.SSWCertificates)
	out.Skills.TechnicalSkills = cloneSlice(r.Skills.TechnicalSkills)
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
