package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/faceofmind/server/internal/domain"
	"github.com/faceofmind/server/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmotionColor(t *testing.T) {
	svc := NewWellnessService(newFakeSessionRepo(), newFakeDetectionRepo(), &fakeGenerator{})

	assert.Equal(t, "#FFD700", svc.EmotionColor("happy"))
	assert.Equal(t, "#FFD700", svc.EmotionColor(" HAPPY "))
	assert.Equal(t, "#DC143C", svc.EmotionColor("angry"))
	assert.Equal(t, "#778899", svc.EmotionColor("melancholic"), "unknown labels use the default")
}

func TestSplitSuggestion(t *testing.T) {
	svc := NewWellnessService(newFakeSessionRepo(), newFakeDetectionRepo(), &fakeGenerator{})

	ack, tips := svc.SplitSuggestion("I hear you • Take a walk • Call a friend • Rest")
	assert.Equal(t, "I hear you", ack)
	assert.Equal(t, []string{"Take a walk", "Call a friend", "Rest"}, tips)

	ack, tips = svc.SplitSuggestion("Just an acknowledgment")
	assert.Equal(t, "Just an acknowledgment", ack)
	assert.Empty(t, tips)
}

func TestNormalizeSuggestionConvertsBullets(t *testing.T) {
	out := normalizeSuggestion("It helps to pause * Breathe deeply * Stretch", "sad")
	assert.Contains(t, out, "•")
	assert.NotContains(t, out, "*")
}

func TestNormalizeSuggestionPrependsAcknowledgment(t *testing.T) {
	out := normalizeSuggestion("• Take a break • Drink water", "sad")
	assert.True(t, strings.HasPrefix(out, "I hear this sadness is difficult."), "got %q", out)

	out = normalizeSuggestion("• Keep going", "confused")
	assert.True(t, strings.HasPrefix(out, "I want to support you."), "got %q", out)

	// Responses that already open with an acknowledgment stay untouched.
	out = normalizeSuggestion("You are doing great • Keep going", "happy")
	assert.Equal(t, "You are doing great • Keep going", out)
}

func TestEmotionIntensityDeterministic(t *testing.T) {
	assert.Equal(t, "mild", EmotionIntensity("happy"))
	assert.Equal(t, "mild", EmotionIntensity("NEUTRAL"))
	assert.Equal(t, "severe", EmotionIntensity("angry"))
	assert.Equal(t, "severe", EmotionIntensity("depressed"))
	assert.Equal(t, "moderate", EmotionIntensity("stressed"))
	assert.Equal(t, "moderate", EmotionIntensity("surprised"))

	// Same label always maps to the same tier.
	for i := 0; i < 5; i++ {
		assert.Equal(t, "severe", EmotionIntensity("anxious"))
	}
}

func TestBuildWellnessPromptSelection(t *testing.T) {
	assert.Contains(t, buildWellnessPrompt("happy", "great day"), "positivity coach")
	assert.Contains(t, buildWellnessPrompt("lonely", "no one around"), "compassionate listener")
	assert.Contains(t, buildWellnessPrompt("furious", "so unfair"), "emotional regulation coach")
	assert.Contains(t, buildWellnessPrompt("anxious", "big exam"), "calming presence")
	assert.Contains(t, buildWellnessPrompt("surprised", "unexpected news"), "compassionate mental health assistant")

	// Crisis keywords override the emotion cluster.
	prompt := buildWellnessPrompt("happy", "sometimes I want to end my life")
	assert.Contains(t, prompt, "crisis-aware")
}

func TestFallbackSuggestionAlwaysBulleted(t *testing.T) {
	for _, emotion := range []string{"happy", "excited", "content", "sad", "angry", "anxious", "shocked", "disgusted", "tired", "stressed", "unknown"} {
		out := fallbackSuggestion(emotion, "")
		assert.NotEmpty(t, out)
		assert.Contains(t, out, "•", "emotion %s", emotion)
	}
}

func TestFallbackSuggestionContentKeyed(t *testing.T) {
	assert.Contains(t, fallbackSuggestion("confused", "my partner cheated on me"), "Betrayal")
	assert.Contains(t, fallbackSuggestion("confused", "my boss hates me"), "Work stress")
	assert.Contains(t, fallbackSuggestion("confused", "I feel so alone"), "Loneliness")
	assert.Contains(t, fallbackSuggestion("confused", "nothing specific"), "Your feelings matter")
}

func TestRecordDetectionPersistsAndParses(t *testing.T) {
	sessions := newFakeSessionRepo()
	detections := newFakeDetectionRepo()
	gen := &fakeGenerator{reply: "I hear you • Walk outside • Call someone • Breathe"}
	svc := NewWellnessService(sessions, detections, gen)

	session, err := sessions.CreateSession(&domain.Session{UserID: 1, StartTime: time.Now()})
	require.NoError(t, err)

	resp, err := svc.RecordDetection(context.Background(), 1, session.ID, dto.RecordDetectionRequest{
		Emotion:      "sad",
		VoiceContent: "rough week",
	})
	require.NoError(t, err)

	assert.Equal(t, "I hear you", resp.Acknowledgment)
	assert.Equal(t, []string{"Walk outside", "Call someone", "Breathe"}, resp.Suggestions)
	assert.Equal(t, "#4682B4", resp.EmotionColor)

	stored, err := detections.ListBySession(session.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.NotNil(t, stored[0].FacialData)
	assert.Equal(t, "sad", stored[0].FacialData.Emotion)
	require.NotNil(t, stored[0].WellnessSuggestion)
}

func TestRecordDetectionFallsBackWhenProvidersFail(t *testing.T) {
	sessions := newFakeSessionRepo()
	detections := newFakeDetectionRepo()
	gen := &fakeGenerator{err: errors.New("provider down")}
	svc := NewWellnessService(sessions, detections, gen)

	session, err := sessions.CreateSession(&domain.Session{UserID: 1, StartTime: time.Now()})
	require.NoError(t, err)

	resp, err := svc.RecordDetection(context.Background(), 1, session.ID, dto.RecordDetectionRequest{
		Emotion:      "anxious",
		VoiceContent: "exam tomorrow",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Acknowledgment)
	assert.NotEmpty(t, resp.Suggestions)
}

func TestRecordDetectionRejectsEndedSession(t *testing.T) {
	sessions := newFakeSessionRepo()
	detections := newFakeDetectionRepo()
	svc := NewWellnessService(sessions, detections, &fakeGenerator{reply: "I hear you • rest"})

	now := time.Now()
	session, err := sessions.CreateSession(&domain.Session{UserID: 1, StartTime: now, EndTime: &now})
	require.NoError(t, err)

	_, err = svc.RecordDetection(context.Background(), 1, session.ID, dto.RecordDetectionRequest{Emotion: "happy"})
	assert.ErrorIs(t, err, ErrSessionEnded)
}

func TestRecordDetectionOwnership(t *testing.T) {
	sessions := newFakeSessionRepo()
	svc := NewWellnessService(sessions, newFakeDetectionRepo(), &fakeGenerator{reply: "ok"})

	session, err := sessions.CreateSession(&domain.Session{UserID: 1, StartTime: time.Now()})
	require.NoError(t, err)

	_, err = svc.RecordDetection(context.Background(), 2, session.ID, dto.RecordDetectionRequest{Emotion: "happy"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetDiagnosisAggregates(t *testing.T) {
	sessions := newFakeSessionRepo()
	detections := newFakeDetectionRepo()
	detections.owners[1] = 1

	now := time.Now().UTC()
	seed := []struct {
		emotion string
		voice   string
	}{
		{"happy", "good day"},
		{"happy", "still good"},
		{"sad", "bad news"},
		{"stressed", "deadlines"},
	}
	for _, s := range seed {
		det, err := detections.CreateDetection(&domain.EmotionDetection{SessionID: 1, Timestamp: now})
		require.NoError(t, err)
		require.NoError(t, detections.CreateFacialData(&domain.FacialData{DetectionID: det.ID, Emotion: s.emotion}))
		require.NoError(t, detections.CreateVoiceData(&domain.VoiceData{DetectionID: det.ID, Content: s.voice}))
	}

	svc := NewWellnessService(sessions, detections, &fakeGenerator{reply: "A calm reflection."})
	diag, err := svc.GetDiagnosis(context.Background(), 1, 7)
	require.NoError(t, err)

	assert.Equal(t, 4, diag.DetectionCount)
	assert.Equal(t, 2, diag.Tally["happy"])
	assert.Equal(t, 1, diag.Tally["sad"])
	assert.Equal(t, 2, diag.IntensityBreakdown["mild"])
	assert.Equal(t, 1, diag.IntensityBreakdown["severe"])
	assert.Equal(t, 1, diag.IntensityBreakdown["moderate"])
	assert.False(t, diag.CrisisDetected)
	assert.Equal(t, "A calm reflection.", diag.Summary)
}

func TestGetDiagnosisDetectsCrisisAndFallsBack(t *testing.T) {
	sessions := newFakeSessionRepo()
	detections := newFakeDetectionRepo()
	detections.owners[1] = 1

	det, err := detections.CreateDetection(&domain.EmotionDetection{SessionID: 1, Timestamp: time.Now().UTC()})
	require.NoError(t, err)
	require.NoError(t, detections.CreateFacialData(&domain.FacialData{DetectionID: det.ID, Emotion: "depressed"}))
	require.NoError(t, detections.CreateVoiceData(&domain.VoiceData{DetectionID: det.ID, Content: "I want to hurt myself"}))

	svc := NewWellnessService(sessions, detections, &fakeGenerator{err: errors.New("down")})
	diag, err := svc.GetDiagnosis(context.Background(), 1, 7)
	require.NoError(t, err)

	assert.True(t, diag.CrisisDetected)
	assert.NotEmpty(t, diag.Summary)
	assert.Contains(t, diag.Summary, "support line")
}

func TestGetDiagnosisEmptyWindow(t *testing.T) {
	svc := NewWellnessService(newFakeSessionRepo(), newFakeDetectionRepo(), &fakeGenerator{})

	diag, err := svc.GetDiagnosis(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, 0, diag.DetectionCount)
	assert.NotEmpty(t, diag.Summary)
}
