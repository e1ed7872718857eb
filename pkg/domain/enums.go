package domain

import dErrors "rirekisho/pkg/domain-errors"

// Gender is the binary gender field of the paper forms. The document layouts
// map it to layout-specific label tokens; the mapping is total over the two
// values with no fallback string.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

var validGenders = map[Gender]bool{
	GenderMale:   true,
	GenderFemale: true,
}

// ParseGender constructs a Gender from external input.
func ParseGender(s string) (Gender, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "gender cannot be empty")
	}
	g := Gender(s)
	if !g.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid gender")
	}
	return g, nil
}

func (g Gender) IsValid() bool {
	return validGenders[g]
}

func (g Gender) String() string {
	return string(g)
}

// JLPTLevel is a Japanese Language Proficiency Test level, N5 (basic) through
// N1 (advanced), or None when the applicant has not taken the test.
type JLPTLevel string

const (
	JLPTN1   JLPTLevel = "N1"
	JLPTN2   JLPTLevel = "N2"
	JLPTN3   JLPTLevel = "N3"
	JLPTN4   JLPTLevel = "N4"
	JLPTN5   JLPTLevel = "N5"
	JLPTNone JLPTLevel = "None"
)

var validJLPTLevels = map[JLPTLevel]bool{
	JLPTN1:   true,
	JLPTN2:   true,
	JLPTN3:   true,
	JLPTN4:   true,
	JLPTN5:   true,
	JLPTNone: true,
}

// ParseJLPTLevel constructs a JLPTLevel from external input.
func ParseJLPTLevel(s string) (JLPTLevel, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "jlpt level cannot be empty")
	}
	l := JLPTLevel(s)
	if !l.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid jlpt level")
	}
	return l, nil
}

func (l JLPTLevel) IsValid() bool {
	return validJLPTLevels[l]
}

func (l JLPTLevel) String() string {
	return string(l)
}

// EducationStatus records how an education entry ended.
type EducationStatus string

const (
	EducationGraduated EducationStatus = "Graduated"
	EducationDropout   EducationStatus = "Dropout"
)

var validEducationStatuses = map[EducationStatus]bool{
	EducationGraduated: true,
	EducationDropout:   true,
}

// ParseEducationStatus constructs an EducationStatus from external input.
func ParseEducationStatus(s string) (EducationStatus, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "education status cannot be empty")
	}
	st := EducationStatus(s)
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid education status")
	}
	return st, nil
}

func (s EducationStatus) IsValid() bool {
	return validEducationStatuses[s]
}

func (s EducationStatus) String() string {
	return string(s)
}

// DominantHand is part of the TITP physical-stats subsection.
type DominantHand string

const (
	HandRight DominantHand = "Right"
	HandLeft  DominantHand = "Left"
)

var validDominantHands = map[DominantHand]bool{
	HandRight: true,
	HandLeft:  true,
}

// ParseDominantHand constructs a DominantHand from external input.
func ParseDominantHand(s string) (DominantHand, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "dominant hand cannot be empty")
	}
	h := DominantHand(s)
	if !h.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid dominant hand")
	}
	return h, nil
}

func (h DominantHand) IsValid() bool {
	return validDominantHands[h]
}

func (h DominantHand) String() string {
	return string(h)
}

// Importance ranks how much a gap matters for the active tier.
type Importance string

const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

var validImportances = map[Importance]bool{
	ImportanceHigh:   true,
	ImportanceMedium: true,
	ImportanceLow:    true,
}

// ParseImportance constructs an Importance from external input. External
// analysis responses must parse through here before being trusted.
func ParseImportance(s string) (Importance, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "importance cannot be empty")
	}
	i := Importance(s)
	if !i.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid importance")
	}
	return i, nil
}

func (i Importance) IsValid() bool {
	return validImportances[i]
}

func (i Importance) String() string {
	return string(i)
}
