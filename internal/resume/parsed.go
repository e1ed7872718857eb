package resume

// ParsedCV is the structured extraction of a free-text CV. Sections are
// pointers or slices so the extractor can omit anything it could not find.
// Confidence is keyed by section name with values in [0, 1].
type ParsedCV struct {
	PersonalInfo *PersonalInfo      `json:"personalInfo,omitempty"`
	Education    []EducationEntry   `json:"education,omitempty"`
	WorkHistory  []WorkEntry        `json:"workHistory,omitempty"`
	Skills       *Skills            `json:"skills,omitempty"`
	Motivation   *Motivation        `json:"motivation,omitempty"`
	Confidence   map[string]float64 `json:"confidence"`
}

// MergeParsed folds an extracted CV into a record. Lists are appended to,
// never replaced; scalar fields are filled only when currently empty, so
// user-entered data always wins over extraction.
func MergeParsed(rec ApplicantRecord, cv ParsedCV) ApplicantRecord {
	out := rec.Clone()

	if p := cv.PersonalInfo; p != nil {
		fillString(&out.PersonalInfo.FullName, p.FullName)
		fillString(&out.PersonalInfo.KatakanaName, p.KatakanaName)
		fillString(&out.PersonalInfo.BirthDate, p.BirthDate)
		fillString(&out.PersonalInfo.CurrentAddress, p.CurrentAddress)
		fillString(&out.PersonalInfo.JapanAddress, p.JapanAddress)
		fillString(&out.PersonalInfo.Email, p.Email)
		fillString(&out.PersonalInfo.Phone, p.Phone)
		out.PersonalInfo.FamilyDetails = append(out.PersonalInfo.FamilyDetails, p.FamilyDetails...)
		if out.PersonalInfo.PhysicalStats == nil && p.PhysicalStats != nil {
			stats := *p.PhysicalStats
			out.PersonalInfo.PhysicalStats = &stats
		}
	}

	out.Education = append(out.Education, cv.Education...)
	out.WorkHistory = append(out.WorkHistory, cv.WorkHistory...)

	if s := cv.Skills; s != nil {
		if out.Skills.JLPTLevel == "" && s.JLPTLevel.IsValid() {
			out.Skills.JLPTLevel = s.JLPTLevel
		}
		out.Skills.SSWCertificates = append(out.Skills.SSWCertificates, s.SSWCertificates...)
		out.Skills.TechnicalSkills = append(out.Skills.TechnicalSkills, s.TechnicalSkills...)
	}

	if m := cv.Motivation; m != nil {
		fillString(&out.Motivation.ReasonForApplying, m.ReasonForApplying)
		fillString(&out.Motivation.SelfPR, m.SelfPR)
	}

	return out
}

func fillString(dst *string, candidate string) {
	if *dst == "" && candidate != "" {
		*dst = candidate
	}
}
