package httptransport

import (
	"strings"

	"rirekisho/internal/assistant"
	"rirekisho/internal/record"
	"rirekisho/internal/resume"
	"rirekisho/pkg/domain"
	dErrors "rirekisho/pkg/domain-errors"
)

// Request DTOs parse enum strings into domain types during Validate so
// handlers only ever see well-formed values. Schema-level rules (email
// format, date shapes) deliberately do not gate mutations; they gate
// document rendering instead.

// CreateApplicationRequest optionally seeds a new application.
type CreateApplicationRequest struct {
	Record *resume.ApplicantRecord `json:"record,omitempty"`
}

func (r *CreateApplicationRequest) Validate() error {
	if r.Record != nil {
		return validateRecordEnums(*r.Record)
	}
	return nil
}

// ReplaceApplicationRequest swaps in a whole record.
type ReplaceApplicationRequest struct {
	Record resume.ApplicantRecord `json:"record"`
}

func (r *ReplaceApplicationRequest) Validate() error {
	return validateRecordEnums(r.Record)
}

// validateRecordEnums rejects records whose enum-typed fields hold values
// outside the closed sets. JLPT level may be empty (not yet provided).
func validateRecordEnums(rec resume.ApplicantRecord) error {
	if !rec.Tier.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid visa tier")
	}
	if !rec.PersonalInfo.Gender.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid gender")
	}
	if stats := rec.PersonalInfo.PhysicalStats; stats != nil && !stats.Hand.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid dominant hand")
	}
	for _, e := range rec.Education {
		if !e.Status.IsValid() {
			return dErrors.New(dErrors.CodeInvalidInput, "invalid education status")
		}
	}
	if rec.Skills.JLPTLevel != "" && !rec.Skills.JLPTLevel.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid jlpt level")
	}
	return nil
}

// SetTierRequest switches the visa tier.
type SetTierRequest struct {
	Tier string `json:"tier"`

	parsed domain.VisaTier
}

func (r *SetTierRequest) Validate() error {
	tier, err := domain.ParseVisaTier(r.Tier)
	if err != nil {
		return err
	}
	r.parsed = tier
	return nil
}

func (r *SetTierRequest) ParsedTier() domain.VisaTier { return r.parsed }

// PatchPersonalInfoRequest carries a partial personal-info update with enum
// fields as strings.
type PatchPersonalInfoRequest struct {
	FullName       *string               `json:"fullName,omitempty"`
	KatakanaName   *string               `json:"katakanaName,omitempty"`
	Gender         *string               `json:"gender,omitempty"`
	BirthDate      *string               `json:"birthDate,omitempty"`
	CurrentAddress *string               `json:"currentAddress,omitempty"`
	JapanAddress   *string               `json:"japanAddress,omitempty"`
	Email          *string               `json:"email,omitempty"`
	Phone          *string               `json:"phone,omitempty"`
	PhotoURL       *string               `json:"photoUrl,omitempty"`
	PhysicalStats  *physicalStatsRequest `json:"physicalStats,omitempty"`

	parsedGender *domain.Gender
	parsedStats  *resume.PhysicalStats
}

type physicalStatsRequest struct {
	HeightCm  float64 `json:"heightCm"`
	WeightKg  float64 `json:"weightKg"`
	BloodType string  `json:"bloodType,omitempty"`
	Hand      string  `json:"dominantHand"`
}

func (r *PatchPersonalInfoRequest) Validate() error {
	if r.Gender != nil {
		gender, err := domain.ParseGender(*r.Gender)
		if err != nil {
			return err
		}
		r.parsedGender = &gender
	}
	if r.PhysicalStats != nil {
		hand, err := domain.ParseDominantHand(r.PhysicalStats.Hand)
		if err != nil {
			return err
		}
		r.parsedStats = &resume.PhysicalStats{
			HeightCm:  r.PhysicalStats.HeightCm,
			WeightKg:  r.PhysicalStats.WeightKg,
			BloodType: r.PhysicalStats.BloodType,
			Hand:      hand,
		}
	}
	return nil
}

func (r *PatchPersonalInfoRequest) ToPatch() record.PersonalInfoPatch {
	return record.PersonalInfoPatch{
		FullName:       r.FullName,
		KatakanaName:   r.KatakanaName,
		Gender:         r.parsedGender,
		BirthDate:      r.BirthDate,
		CurrentAddress: r.CurrentAddress,
		JapanAddress:   r.JapanAddress,
		Email:          r.Email,
		Phone:          r.Phone,
		PhotoURL:       r.PhotoURL,
		PhysicalStats:  r.parsedStats,
	}
}

// PatchSkillsRequest carries a partial skills update.
type PatchSkillsRequest struct {
	JLPTLevel       *string   `json:"jlptLevel,omitempty"`
	SSWCertificates *[]string `json:"sswCertificates,omitempty"`
	TechnicalSkills *[]string `json:"technicalSkills,omitempty"`

	parsedLevel *domain.JLPTLevel
}

func (r *PatchSkillsRequest) Validate() error {
	if r.JLPTLevel != nil {
		level, err := domain.ParseJLPTLevel(*r.JLPTLevel)
		if err != nil {
			return err
		}
		r.parsedLevel = &level
	}
	return nil
}

func (r *PatchSkillsRequest) ToPatch() record.SkillsPatch {
	return record.SkillsPatch{
		JLPTLevel:       r.parsedLevel,
		SSWCertificates: r.SSWCertificates,
		TechnicalSkills: r.TechnicalSkills,
	}
}

// PatchMotivationRequest carries a partial motivation update.
type PatchMotivationRequest struct {
	ReasonForApplying *string `json:"reasonForApplying,omitempty"`
	SelfPR            *string `json:"selfPR,omitempty"`
}

func (r *PatchMotivationRequest) Validate() error { return nil }

func (r *PatchMotivationRequest) ToPatch() record.MotivationPatch {
	return record.MotivationPatch{
		ReasonForApplying: r.ReasonForApplying,
		SelfPR:            r.SelfPR,
	}
}

// EducationEntryRequest is one education list entry.
type EducationEntryRequest struct {
	SchoolName string `json:"schoolName"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Status     string `json:"status"`

	parsed resume.EducationEntry
}

func (r *EducationEntryRequest) Validate() error {
	status, err := domain.ParseEducationStatus(r.Status)
	if err != nil {
		return err
	}
	r.parsed = resume.EducationEntry{
		SchoolName: r.SchoolName,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		Status:     status,
	}
	return nil
}

func (r *EducationEntryRequest) Entry() resume.EducationEntry { return r.parsed }

// WorkEntryRequest is one work-history list entry.
type WorkEntryRequest struct {
	CompanyName string `json:"companyName"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Role        string `json:"role"`
	Description string `json:"description,omitempty"`
}

func (r *WorkEntryRequest) Validate() error { return nil }

func (r *WorkEntryRequest) Entry() resume.WorkEntry {
	return resume.WorkEntry{
		CompanyName: r.CompanyName,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Role:        r.Role,
		Description: r.Description,
	}
}

// FamilyMemberRequest is one family-details list entry.
type FamilyMemberRequest struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Age          int    `json:"age"`
	Occupation   string `json:"occupation"`
}

func (r *FamilyMemberRequest) Validate() error {
	if r.Age < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "age cannot be negative")
	}
	return nil
}

func (r *FamilyMemberRequest) Entry() resume.FamilyMember {
	return resume.FamilyMember{
		Name:         r.Name,
		Relationship: r.Relationship,
		Age:          r.Age,
		Occupation:   r.Occupation,
	}
}

// EducationEntryPatchRequest is a partial update of one education entry.
type EducationEntryPatchRequest struct {
	SchoolName *string `json:"schoolName,omitempty"`
	StartDate  *string `json:"startDate,omitempty"`
	EndDate    *string `json:"endDate,omitempty"`
	Status     *string `json:"status,omitempty"`

	parsedStatus *domain.EducationStatus
}

func (r *EducationEntryPatchRequest) Validate() error {
	if r.Status != nil {
		status, err := domain.ParseEducationStatus(*r.Status)
		if err != nil {
			return err
		}
		r.parsedStatus = &status
	}
	return nil
}

func (r *EducationEntryPatchRequest) ToPatch() record.EducationEntryPatch {
	return record.EducationEntryPatch{
		SchoolName: r.SchoolName,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		Status:     r.parsedStatus,
	}
}

// WorkEntryPatchRequest is a partial update of one work-history entry.
type WorkEntryPatchRequest struct {
	CompanyName *string `json:"companyName,omitempty"`
	StartDate   *string `json:"startDate,omitempty"`
	EndDate     *string `json:"endDate,omitempty"`
	Role        *string `json:"role,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (r *WorkEntryPatchRequest) Validate() error { return nil }

func (r *WorkEntryPatchRequest) ToPatch() record.WorkEntryPatch {
	return record.WorkEntryPatch{
		CompanyName: r.CompanyName,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Role:        r.Role,
		Description: r.Description,
	}
}

// FamilyMemberPatchRequest is a partial update of one family-details entry.
type FamilyMemberPatchRequest struct {
	Name         *string `json:"name,omitempty"`
	Relationship *string `json:"relationship,omitempty"`
	Age          *int    `json:"age,omitempty"`
	Occupation   *string `json:"occupation,omitempty"`
}

func (r *FamilyMemberPatchRequest) Validate() error {
	if r.Age != nil && *r.Age < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "age cannot be negative")
	}
	return nil
}

func (r *FamilyMemberPatchRequest) ToPatch() record.FamilyMemberPatch {
	return record.FamilyMemberPatch{
		Name:         r.Name,
		Relationship: r.Relationship,
		Age:          r.Age,
		Occupation:   r.Occupation,
	}
}

// StringEntryRequest is one entry of a plain string list (certificates,
// technical skills).
type StringEntryRequest struct {
	Value string `json:"value"`
}

func (r *StringEntryRequest) Validate() error {
	if strings.TrimSpace(r.Value) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "value is required")
	}
	return nil
}

// ParseCVRequest carries pre-extracted CV text.
type ParseCVRequest struct {
	Text string `json:"text"`
}

func (r *ParseCVRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "text is required")
	}
	return nil
}

// TransliterateRequest asks for a katakana rendering of a name.
type TransliterateRequest struct {
	Name           string `json:"name"`
	SourceLanguage string `json:"sourceLanguage,omitempty"`
}

func (r *TransliterateRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	return nil
}

// ChatRequest carries the conversation so far.
type ChatRequest struct {
	Messages []assistant.Message `json:"messages"`
}

func (r *ChatRequest) Validate() error {
	if len(r.Messages) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "messages are required")
	}
	for _, m := range r.Messages {
		if m.Role != "user" && m.Role != "assistant" {
			return dErrors.New(dErrors.CodeInvalidInput, "message role must be user or assistant")
		}
	}
	return nil
}
