package resume

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	dErrors "rirekisho/pkg/domain-errors"
)

// Schema validation mirrors the rules the editing flow enforces field by
// field. A record that fails validation must never reach the document mapper;
// it may keep being edited.
var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[\+]?[1-9][\d]{0,15}$`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// MinMotivationLength is the minimum length, in characters, of each
// motivation statement.
const MinMotivationLength = 10

// FieldError is a field-level validation failure, addressed by JSON path.
type FieldError struct {
	Path    string `json:"field"`
	Message string `json:"message"`
}

// Validate checks the record against the schema and returns every violation.
// An empty slice means the record is structurally valid (which says nothing
// about tier completeness; that is the gap evaluator's concern).
func (r ApplicantRecord) Validate() []FieldError {
	var errs []FieldError
	add := func(path, message string) {
		errs = append(errs, FieldError{Path: path, Message: message})
	}

	if !r.Tier.IsValid() {
		add("tier", "invalid tier")
	}

	p := r.PersonalInfo
	if strings.TrimSpace(p.FullName) == "" {
		add("personalInfo.fullName", "full name is required")
	}
	if strings.TrimSpace(p.KatakanaName) == "" {
		add("personalInfo.katakanaName", "katakana name is required")
	}
	if !p.Gender.IsValid() {
		add("personalInfo.gender", "invalid gender")
	}
	if !datePattern.MatchString(p.BirthDate) {
		add("personalInfo.birthDate", "birth date must be YYYY-MM-DD")
	}
	if strings.TrimSpace(p.CurrentAddress) == "" {
		add("personalInfo.currentAddress", "current address is required")
	}
	if !emailPattern.MatchString(p.Email) {
		add("personalInfo.email", "invalid email format")
	}
	if !phonePattern.MatchString(p.Phone) {
		add("personalInfo.phone", "invalid phone format")
	}
	for i, f := range p.FamilyDetails {
		if strings.TrimSpace(f.Name) == "" {
			add(fmt.Sprintf("personalInfo.familyDetails[%d].name", i), "name is required")
		}
		if strings.TrimSpace(f.Relationship) == "" {
			add(fmt.Sprintf("personalInfo.familyDetails[%d].relationship", i), "relationship is required")
		}
		if f.Age < 0 {
			add(fmt.Sprintf("personalInfo.familyDetails[%d].age", i), "age must not be negative")
		}
		if strings.TrimSpace(f.Occupation) == "" {
			add(fmt.Sprintf("personalInfo.familyDetails[%d].occupation", i), "occupation is required")
		}
	}
	if stats := p.PhysicalStats; stats != nil {
		if stats.HeightCm <= 0 {
			add("personalInfo.physicalStats.heightCm", "height must be positive")
		}
		if stats.WeightKg <= 0 {
			add("personalInfo.physicalStats.weightKg", "weight must be positive")
		}
		if !stats.Hand.IsValid() {
			add("personalInfo.physicalStats.dominantHand", "invalid dominant hand")
		}
	}

	for i, e := range r.Education {
		if strings.TrimSpace(e.SchoolName) == "" {
			add(fmt.Sprintf("education[%d].schoolName", i), "school name is required")
		}
		if !datePattern.MatchString(e.StartDate) {
			add(fmt.Sprintf("education[%d].startDate", i), "start date must be YYYY-MM-DD")
		}
		if !datePattern.MatchString(e.EndDate) {
			add(fmt.Sprintf("education[%d].endDate", i), "end date must be YYYY-MM-DD")
		}
		if !e.Status.IsValid() {
			add(fmt.Sprintf("education[%d].status", i), "invalid education status")
		}
	}

	for i, w := range r.WorkHistory {
		if strings.TrimSpace(w.CompanyName) == "" {
			add(fmt.Sprintf("workHistory[%d].companyName", i), "company name is required")
		}
		if !datePattern.MatchString(w.StartDate) {
			add(fmt.Sprintf("workHistory[%d].startDate", i), "start date must be YYYY-MM-DD")
		}
		// The sentinel is checked before any date interpretation.
		if !w.IsCurrent() && !datePattern.MatchString(w.EndDate) {
			add(fmt.Sprintf("workHistory[%d].endDate", i), `end date must be YYYY-MM-DD or "Current"`)
		}
		if strings.TrimSpace(w.Role) == "" {
			add(fmt.Sprintf("workHistory[%d].role", i), "role is required")
		}
	}

	if r.Skills.JLPTLevel != "" && !r.Skills.JLPTLevel.IsValid() {
		add("skills.jlptLevel", "invalid jlpt level")
	}

	if utf8.RuneCountInString(strings.TrimSpace(r.Motivation.ReasonForApplying)) < MinMotivationLength {
		add("motivation.reasonForApplying", fmt.Sprintf("reason must be at least %d characters", MinMotivationLength))
	}
	if utf8.RuneCountInString(strings.TrimSpace(r.Motivation.SelfPR)) < MinMotivationLength {
		add("motivation.selfPR", fmt.Sprintf("self-PR must be at least %d characters", MinMotivationLength))
	}

	return errs
}

// ValidationError folds field errors into a single coded error for transport.
func ValidationError(errs []FieldError) error {
	if len(errs) == 0 {
		return nil
	}
	paths := make([]string, len(errs))
	for i, e := range errs {
		paths[i] = e.Path
	}
	return dErrors.New(dErrors.CodeValidation, "record failed validation: "+strings.Join(paths, ", "))
}
