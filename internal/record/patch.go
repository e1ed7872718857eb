package record

import (
	"rirekisho/internal/resume"
	"rirekisho/pkg/domain"
)

// PersonalInfoPatch carries a partial update: nil fields are left untouched,
// non-nil fields replace the current value. Family details are list-managed
// and have no patch field here.
type PersonalInfoPatch struct {
	FullName       *string               `json:"fullName,omitempty"`
	KatakanaName   *string               `json:"katakanaName,omitempty"`
	Gender         *domain.Gender        `json:"gender,omitempty"`
	BirthDate      *string               `json:"birthDate,omitempty"`
	CurrentAddress *string               `json:"currentAddress,omitempty"`
	JapanAddress   *string               `json:"japanAddress,omitempty"`
	Email          *string               `json:"email,omitempty"`
	Phone          *string               `json:"phone,omitempty"`
	PhotoURL       *string               `json:"photoUrl,omitempty"`
	PhysicalStats  *resume.PhysicalStats `json:"physicalStats,omitempty"`
}

func (p PersonalInfoPatch) apply(info *resume.PersonalInfo) {
	setString(&info.FullName, p.FullName)
	setString(&info.KatakanaName, p.KatakanaName)
	if p.Gender != nil {
		info.Gender = *p.Gender
	}
	setString(&info.BirthDate, p.BirthDate)
	setString(&info.CurrentAddress, p.CurrentAddress)
	setString(&info.JapanAddress, p.JapanAddress)
	setString(&info.Email, p.Email)
	setString(&info.Phone, p.Phone)
	setString(&info.PhotoURL, p.PhotoURL)
	if p.PhysicalStats != nil {
		stats := *p.PhysicalStats
		info.PhysicalStats = &stats
	}
}

// SkillsPatch carries a partial skills update. The two list fields replace
// the whole list when present; per-entry edits go through the list API.
type SkillsPatch struct {
	JLPTLevel       *domain.JLPTLevel `json:"jlptLevel,omitempty"`
	SSWCertificates *[]string         `json:"sswCertificates,omitempty"`
	TechnicalSkills *[]string         `json:"technicalSkills,omitempty"`
}

func (p SkillsPatch) apply(skills *resume.Skills) {
	if p.JLPTLevel != nil {
		skills.JLPTLevel = *p.JLPTLevel
	}
	if p.SSWCertificates != nil {
		skills.SSWCertificates = append([]string(nil), *p.SSWCertificates...)
	}
	if p.TechnicalSkills != nil {
		skills.TechnicalSkills = append([]string(nil), *p.TechnicalSkills...)
	}
}

// MotivationPatch carries a partial motivation update.
type MotivationPatch struct {
	ReasonForApplying *string `json:"reasonForApplying,omitempty"`
	SelfPR            *string `json:"selfPR,omitempty"`
}

func (p MotivationPatch) apply(m *resume.Motivation) {
	setString(&m.ReasonForApplying, p.ReasonForApplying)
	setString(&m.SelfPR, p.SelfPR)
}

// EducationEntryPatch carries a partial update of one education entry.
type EducationEntryPatch struct {
	SchoolName *string                 `json:"schoolName,omitempty"`
	StartDate  *string                 `json:"startDate,omitempty"`
	EndDate    *string                 `json:"endDate,omitempty"`
	Status     *domain.EducationStatus `json:"status,omitempty"`
}

func (p EducationEntryPatch) apply(e *resume.EducationEntry) {
	setString(&e.SchoolName, p.SchoolName)
	setString(&e.StartDate, p.StartDate)
	setString(&e.EndDate, p.EndDate)
	if p.Status != nil {
		e.Status = *p.Status
	}
}

// WorkEntryPatch carries a partial update of one work-history entry.
type WorkEntryPatch struct {
	CompanyName *string `json:"companyName,omitempty"`
	StartDate   *string `json:"startDate,omitempty"`
	EndDate     *string `json:"endDate,omitempty"`
	Role        *string `json:"role,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (p WorkEntryPatch) apply(w *resume.WorkEntry) {
	setString(&w.CompanyName, p.CompanyName)
	setString(&w.StartDate, p.StartDate)
	setString(&w.EndDate, p.EndDate)
	setString(&w.Role, p.Role)
	setString(&w.Description, p.Description)
}

// FamilyMemberPatch carries a partial update of one family-details entry.
type FamilyMemberPatch struct {
	Name         *string `json:"name,omitempty"`
	Relationship *string `json:"relationship,omitempty"`
	Age          *int    `json:"age,omitempty"`
	Occupation   *string `json:"occupation,omitempty"`
}

func (p FamilyMemberPatch) apply(m *resume.FamilyMember) {
	setString(&m.Name, p.Name)
	setString(&m.Relationship, p.Relationship)
	if p.Age != nil {
		m.Age = *p.Age
	}
	setString(&m.Occupation, p.Occupation)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
