package assistant

import (
	"encoding/json"
	"fmt"

	"rirekisho/internal/resume"
)

// Prompt builders are fixed per operation. Each one states the exact JSON
// shape expected back so responses can be validated strictly.

const gapAnalysisSystem = `You are an assistant reviewing Japanese job-application documents. Respond only with a JSON object matching the requested schema.`

func gapAnalysisPrompt(rec resume.ApplicantRecord) string {
	blob, _ := json.MarshalIndent(rec, "", "  ")
	return fmt.Sprintf(`Analyze this resume data for a Japanese job application and identify missing information.

Resume Data:
%s

For each visa tier, these fields are critical:
- ENGINEER: technicalSkills, jlptLevel, motivation.reasonForApplying
- SSW: sswCertificates, technicalSkills, physicalStats
- TITP: familyDetails, physicalStats, motivation fields

Identify:
1. Any null/empty fields
2. Fields that should be expanded (too short descriptions)
3. Missing context for work history

Respond with a JSON object:
{"missingFields":[{"field":"...","section":"...","importance":"high|medium|low","question":"..."}],"suggestions":["..."],"isComplete":true|false}`, blob)
}

const parseCVSystem = `You extract structured resume data from CV text. Respond only with a JSON object matching the requested schema.`

func parseCVPrompt(text string) string {
	return fmt.Sprintf(`Extract structured resume information from this CV text.

CV Text:
"""
%s
"""

Extract:
1. Personal information (name, email, phone, address)
2. Education history with dates
3. Work history with company names, dates, roles, descriptions
4. Skills and certifications

Also provide confidence scores (0-1) for each section based on data quality.

Respond with a JSON object:
{"personalInfo":{"fullName":"...","email":"...","phone":"...","currentAddress":"..."},
"education":[{"schoolName":"...","startDate":"...","endDate":"...","status":"Graduated|Dropout"}],
"workHistory":[{"companyName":"...","startDate":"...","endDate":"...","role":"...","description":"..."}],
"skills":["..."],
"confidence":{"personalInfo":0.0,"education":0.0,"workHistory":0.0,"skills":0.0}}`, text)
}

const transliterateSystem = `You transliterate names into Japanese Katakana for formal documents. Respond only with a JSON object matching the requested schema.`

func transliteratePrompt(name, sourceLanguage string) string {
	return fmt.Sprintf(`Transliterate this name from %s to Japanese Katakana for a formal job application (履歴書).

Name: %s
Source Language: %s

Guidelines:
- Use proper Japanese phonetics suitable for formal documents
- Apply Hepburn romanization principles adapted to Katakana
- Use interpuncts (・) between name components
- Ensure the result sounds natural to Japanese speakers
- Consider the speaker's likely pronunciation, not just strict letter-by-letter conversion

Respond with a JSON object:
{"katakana":"...","pronunciation":"...","notes":"..."}`, sourceLanguage, name, sourceLanguage)
}

func chatSystemPrompt(rec resume.ApplicantRecord) string {
	blob, _ := json.MarshalIndent(rec, "", "  ")
	return fmt.Sprintf(`You are a Japanese resume assistant. Help users fill out their Rirekisho (履歴書) form.

Current resume context:
%s

Guidelines:
- Be professional and helpful
- Ask questions when information is missing
- Provide suggestions in business Japanese
- Keep responses concise (2-3 sentences max)
- When the user provides information, acknowledge it and ask if they want to update their resume`, blob)
}
