package services

import (
	"testing"
	"time"

	"github.com/faceofmind/server/internal/domain"
	"github.com/faceofmind/server/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionService(t *testing.T) (SessionService, *fakeSessionRepo, *fakeDetectionRepo) {
	t.Helper()
	sessions := newFakeSessionRepo()
	detections := newFakeDetectionRepo()
	wellness := NewWellnessService(sessions, detections, &fakeGenerator{reply: "I hear you • Rest • Walk • Call"})
	return NewSessionService(sessions, detections, wellness), sessions, detections
}

func TestStartAndListSessions(t *testing.T) {
	svc, _, _ := newTestSessionService(t)

	s1, err := svc.StartSession(1)
	require.NoError(t, err)
	assert.NotZero(t, s1.ID)
	assert.Nil(t, s1.EndTime)

	_, err = svc.StartSession(2)
	require.NoError(t, err)

	mine, err := svc.ListSessions(1, 100, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestEndSessionTwice(t *testing.T) {
	svc, _, _ := newTestSessionService(t)

	s, err := svc.StartSession(1)
	require.NoError(t, err)

	require.NoError(t, svc.EndSession(1, s.ID))
	assert.ErrorIs(t, svc.EndSession(1, s.ID), ErrSessionEnded)
}

func TestSessionOwnership(t *testing.T) {
	svc, _, _ := newTestSessionService(t)

	s, err := svc.StartSession(1)
	require.NoError(t, err)

	_, err = svc.GetSession(2, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.EndSession(2, s.ID), ErrNotFound)
	assert.ErrorIs(t, svc.DeleteSession(2, s.ID), ErrNotFound)
}

func TestDeleteSession(t *testing.T) {
	svc, _, _ := newTestSessionService(t)

	s, err := svc.StartSession(1)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteSession(1, s.ID))

	_, err = svc.GetSession(1, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFeedbackRequiresEndedSession(t *testing.T) {
	svc, _, _ := newTestSessionService(t)

	s, err := svc.StartSession(1)
	require.NoError(t, err)

	_, err = svc.SubmitFeedback(1, s.ID, dto.FeedbackRequest{Comment: "nice", Rating: 5})
	assert.ErrorIs(t, err, ErrSessionNotEnded)

	require.NoError(t, svc.EndSession(1, s.ID))

	fb, err := svc.SubmitFeedback(1, s.ID, dto.FeedbackRequest{Comment: "nice", Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, fb.Rating)

	_, err = svc.SubmitFeedback(1, s.ID, dto.FeedbackRequest{Comment: "again", Rating: 4})
	assert.ErrorIs(t, err, ErrFeedbackExists)
}

func TestFeedbackRatingBounds(t *testing.T) {
	svc, _, _ := newTestSessionService(t)

	s, err := svc.StartSession(1)
	require.NoError(t, err)
	require.NoError(t, svc.EndSession(1, s.ID))

	_, err = svc.SubmitFeedback(1, s.ID, dto.FeedbackRequest{Comment: "x", Rating: 0})
	assert.Error(t, err)
	_, err = svc.SubmitFeedback(1, s.ID, dto.FeedbackRequest{Comment: "x", Rating: 6})
	assert.Error(t, err)
}

func TestGetHistoryAssemblesDetections(t *testing.T) {
	svc, sessions, detections := newTestSessionService(t)

	s, err := sessions.CreateSession(&domain.Session{UserID: 1, StartTime: time.Now().UTC()})
	require.NoError(t, err)

	det, err := detections.CreateDetection(&domain.EmotionDetection{SessionID: s.ID, Timestamp: time.Now().UTC()})
	require.NoError(t, err)
	require.NoError(t, detections.CreateFacialData(&domain.FacialData{DetectionID: det.ID, Emotion: "happy"}))
	require.NoError(t, detections.CreateVoiceData(&domain.VoiceData{DetectionID: det.ID, Content: "good times"}))
	require.NoError(t, detections.CreateSuggestion(&domain.WellnessSuggestion{
		DetectionID: det.ID,
		Suggestion:  "It's wonderful! • Savor it • Share it • Note it",
	}))

	history, err := svc.GetHistory(1, s.ID)
	require.NoError(t, err)

	require.Len(t, history.Detections, 1)
	item := history.Detections[0]
	assert.Equal(t, "happy", item.Emotion)
	assert.Equal(t, "#FFD700", item.EmotionColor)
	assert.Equal(t, "good times", item.VoiceContent)
	assert.Equal(t, "It's wonderful!", item.Acknowledgment)
	assert.Equal(t, []string{"Savor it", "Share it", "Note it"}, item.Suggestions)
}

func TestListFeedbackForAdmin(t *testing.T) {
	svc, _, _ := newTestSessionService(t)

	s, err := svc.StartSession(1)
	require.NoError(t, err)
	require.NoError(t, svc.EndSession(1, s.ID))
	_, err = svc.SubmitFeedback(1, s.ID, dto.FeedbackRequest{Comment: "helpful", Rating: 4})
	require.NoError(t, err)

	all, err := svc.ListFeedback(100, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
