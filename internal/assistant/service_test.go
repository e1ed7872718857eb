package assistant

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rirekisho/internal/record"
	"rirekisho/pkg/domain"
	dErrors "rirekisho/pkg/domain-errors"
)

// fakeCompleter returns canned responses and records the requests it saw.
type fakeCompleter struct {
	response string
	err      error
	chunks   []string
	requests []CompletionRequest
	onCall   func()
}

func (f *fakeCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	f.requests = append(f.requests, req)
	if f.onCall != nil {
		f.onCall()
	}
	return f.response, f.err
}

func (f *fakeCompleter) Stream(ctx context.Context, req CompletionRequest, onDelta func(string)) error {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return f.err
	}
	for _, chunk := range f.chunks {
		onDelta(chunk)
	}
	return nil
}

func newFixture(t *testing.T, completer Completer) (*Service, *record.Service, domain.ApplicationID) {
	t.Helper()
	records := record.NewService(record.NewMemoryStore(), slog.New(slog.DiscardHandler), nil)
	app, err := records.Create(context.Background(), nil)
	require.NoError(t, err)
	svc := NewService(completer, records, nil, 0, slog.New(slog.DiscardHandler), nil)
	return svc, records, app.ID
}

const validAnalysis = `{
	"missingFields": [
		{"field": "skills.jlptLevel", "section": "Skills", "importance": "high", "question": "What is your JLPT level?"}
	],
	"suggestions": ["Add a JLPT level."],
	"isComplete": false
}`

func TestAnalyzeGapsDecodesValidResponse(t *testing.T) {
	fake := &fakeCompleter{response: validAnalysis}
	svc, _, id := newFixture(t, fake)

	report, err := svc.AnalyzeGaps(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, report.MissingFields, 1)
	assert.Equal(t, "skills.jlptLevel", report.MissingFields[0].Field)
	assert.Equal(t, domain.ImportanceHigh, report.MissingFields[0].Importance)
	assert.False(t, report.IsComplete)

	require.Len(t, fake.requests, 1)
	assert.True(t, fake.requests[0].JSON)
	assert.Contains(t, fake.requests[0].User, "ENGINEER: technicalSkills")
}

func TestAnalyzeGapsToleratesCodeFences(t *testing.T) {
	fake := &fakeCompleter{response: "```json\n" + validAnalysis + "\n```"}
	svc, _, id := newFixture(t, fake)

	report, err := svc.AnalyzeGaps(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, report.MissingFields, 1)
}

func TestAnalyzeGapsMalformedResponseIsUnavailable(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not json", "I could not analyze this resume."},
		{"bad importance", `{"missingFields":[{"field":"x","section":"y","importance":"critical","question":"?"}],"suggestions":[],"isComplete":false}`},
		{"missing field name", `{"missingFields":[{"field":"","section":"y","importance":"high","question":"?"}],"suggestions":[],"isComplete":false}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, id := newFixture(t, &fakeCompleter{response: tc.response})
			_, err := svc.AnalyzeGaps(context.Background(), id)
			require.Error(t, err)
			assert.Equal(t, dErrors.CodeUnavailable, dErrors.CodeOf(err))
		})
	}
}

func TestAnalyzeGapsAuthenticationIsCredentialRequired(t *testing.T) {
	fake := &fakeCompleter{err: NewError(CategoryAuthentication, "complete", "no API key configured", nil)}
	svc, _, id := newFixture(t, fake)

	_, err := svc.AnalyzeGaps(context.Background(), id)
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeCredentialRequired, dErrors.CodeOf(err))
}

func TestAnalyzeGapsDiscardsStaleResult(t *testing.T) {
	fake := &fakeCompleter{response: validAnalysis}
	svc, records, id := newFixture(t, fake)

	// The record moves on while the model is thinking.
	fake.onCall = func() {
		_, err := records.SetTier(context.Background(), id, domain.TierSSW)
		require.NoError(t, err)
	}

	_, err := svc.AnalyzeGaps(context.Background(), id)
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeConflict, dErrors.CodeOf(err))
}

func TestParseCVMapsAllSections(t *testing.T) {
	fake := &fakeCompleter{response: `{
		"personalInfo": {"fullName": "Nguyen Van An", "email": "an@example.com", "phone": "+84901234567", "currentAddress": "Hanoi"},
		"education": [{"schoolName": "Hanoi University", "startDate": "2013-09-01", "endDate": "2017-06-30", "status": "Graduated"}],
		"workHistory": [{"companyName": "FPT", "startDate": "2017-07-01", "endDate": "Current", "role": "Engineer", "description": "Backend work"}],
		"skills": ["Go", "PostgreSQL"],
		"confidence": {"personalInfo": 0.9, "education": 0.8, "workHistory": 0.7, "skills": 0.95}
	}`}
	svc, _, _ := newFixture(t, fake)

	cv, err := svc.ParseCV(context.Background(), "some extracted cv text")
	require.NoError(t, err)
	require.NotNil(t, cv.PersonalInfo)
	assert.Equal(t, "Nguyen Van An", cv.PersonalInfo.FullName)
	require.Len(t, cv.Education, 1)
	assert.Equal(t, domain.EducationGraduated, cv.Education[0].Status)
	require.Len(t, cv.WorkHistory, 1)
	assert.Equal(t, "Current", cv.WorkHistory[0].EndDate)
	require.NotNil(t, cv.Skills)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, cv.Skills.TechnicalSkills)
	assert.InDelta(t, 0.9, cv.Confidence["personalInfo"], 0.001)
}

func TestParseCVRejectsEmptyText(t *testing.T) {
	svc, _, _ := newFixture(t, &fakeCompleter{})
	_, err := svc.ParseCV(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeBadRequest, dErrors.CodeOf(err))
}

func TestParseCVRejectsBadResponses(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"confidence out of range", `{"personalInfo":{"fullName":"X"},"education":[],"workHistory":[],"skills":[],"confidence":{"personalInfo":1.4}}`},
		{"bad education status", `{"personalInfo":{"fullName":"X"},"education":[{"schoolName":"Y","status":"Enrolled"}],"workHistory":[],"skills":[],"confidence":{}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, _ := newFixture(t, &fakeCompleter{response: tc.response})
			_, err := svc.ParseCV(context.Background(), "cv text")
			require.Error(t, err)
			assert.Equal(t, dErrors.CodeUnavailable, dErrors.CodeOf(err))
		})
	}
}

func TestTransliterate(t *testing.T) {
	fake := &fakeCompleter{response: `{"katakana": "グエン・ヴァン・アン", "pronunciation": "guen van an", "notes": "Vietnamese name"}`}
	svc, _, _ := newFixture(t, fake)

	result, err := svc.Transliterate(context.Background(), "Nguyen Van An", "Vietnamese")
	require.NoError(t, err)
	assert.Equal(t, "グエン・ヴァン・アン", result.Katakana)
	assert.Equal(t, "guen van an", result.Pronunciation)

	require.Len(t, fake.requests, 1)
	assert.Contains(t, fake.requests[0].User, "Vietnamese")
	assert.Contains(t, fake.requests[0].User, "interpuncts")
}

func TestTransliterateRejectsEmptyName(t *testing.T) {
	svc, _, _ := newFixture(t, &fakeCompleter{})
	_, err := svc.Transliterate(context.Background(), "", "English")
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeBadRequest, dErrors.CodeOf(err))
}

func TestTransliterateMissingKatakanaIsUnavailable(t *testing.T) {
	svc, _, _ := newFixture(t, &fakeCompleter{response: `{"pronunciation": "guen van an"}`})
	_, err := svc.Transliterate(context.Background(), "Nguyen Van An", "Vietnamese")
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeUnavailable, dErrors.CodeOf(err))
}

func TestChatStreamsChunks(t *testing.T) {
	fake := &fakeCompleter{chunks: []string{"こんにちは。", "学歴を教えてください。"}}
	svc, _, id := newFixture(t, fake)

	var got strings.Builder
	err := svc.Chat(context.Background(), id, []Message{{Role: "user", Content: "Help me"}}, func(delta string) {
		got.WriteString(delta)
	})
	require.NoError(t, err)
	assert.Equal(t, "こんにちは。学歴を教えてください。", got.String())

	require.Len(t, fake.requests, 1)
	assert.Contains(t, fake.requests[0].System, "Rirekisho")
	require.Len(t, fake.requests[0].Messages, 1)
}

func TestChatRequiresMessages(t *testing.T) {
	svc, _, id := newFixture(t, &fakeCompleter{})
	err := svc.Chat(context.Background(), id, nil, func(string) {})
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeBadRequest, dErrors.CodeOf(err))
}
