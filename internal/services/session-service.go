package services

import (
	"errors"
	"time"

	"github.com/faceofmind/server/internal/domain"
	"github.com/faceofmind/server/internal/dto"
	"github.com/faceofmind/server/internal/repository"
	"gorm.io/gorm"
)

type SessionService interface {
	StartSession(userID uint) (*domain.Session, error)
	ListSessions(userID uint, limit, offset int) ([]domain.Session, error)
	GetSession(userID, sessionID uint) (*domain.Session, error)
	EndSession(userID, sessionID uint) error
	DeleteSession(userID, sessionID uint) error
	GetHistory(userID, sessionID uint) (*dto.SessionHistory, error)

	SubmitFeedback(userID, sessionID uint, input dto.FeedbackRequest) (*domain.Feedback, error)
	ListFeedback(limit, offset int) ([]domain.Feedback, error)
}

type sessionService struct {
	sessions   repository.SessionRepository
	detections repository.DetectionRepository
	wellness   WellnessService
}

func NewSessionService(sessions repository.SessionRepository, detections repository.DetectionRepository, wellness WellnessService) SessionService {
	return &sessionService{
		sessions:   sessions,
		detections: detections,
		wellness:   wellness,
	}
}

func (s *sessionService) StartSession(userID uint) (*domain.Session, error) {
	if userID == 0 {
		return nil, errors.New("invalid user id")
	}
	return s.sessions.CreateSession(&domain.Session{
		UserID:    userID,
		StartTime: time.Now().UTC(),
	})
}

func (s *sessionService) ListSessions(userID uint, limit, offset int) ([]domain.Session, error) {
	if limit < 1 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.sessions.ListSessionsByUser(userID, limit, offset)
}

func (s *sessionService) GetSession(userID, sessionID uint) (*domain.Session, error) {
	session, err := s.sessions.FindSessionForUser(sessionID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return session, nil
}

func (s *sessionService) EndSession(userID, sessionID uint) error {
	session, err := s.GetSession(userID, sessionID)
	if err != nil {
		return err
	}
	if session.EndTime != nil {
		return ErrSessionEnded
	}
	now := time.Now().UTC()
	session.EndTime = &now
	return s.sessions.SaveSession(session)
}

func (s *sessionService) DeleteSession(userID, sessionID uint) error {
	session, err := s.GetSession(userID, sessionID)
	if err != nil {
		return err
	}
	return s.sessions.DeleteSession(session)
}

func (s *sessionService) GetHistory(userID, sessionID uint) (*dto.SessionHistory, error) {
	session, err := s.GetSession(userID, sessionID)
	if err != nil {
		return nil, err
	}

	detections, err := s.detections.ListBySession(sessionID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.DetectionHistory, 0, len(detections))
	for _, det := range detections {
		item := dto.DetectionHistory{
			ID:        det.ID,
			Timestamp: det.Timestamp,
		}
		if det.FacialData != nil {
			item.Emotion = det.FacialData.Emotion
			item.EmotionColor = s.wellness.EmotionColor(det.FacialData.Emotion)
		}
		if det.VoiceData != nil {
			item.VoiceContent = det.VoiceData.Content
		}
		if det.WellnessSuggestion != nil {
			ack, tips := s.wellness.SplitSuggestion(det.WellnessSuggestion.Suggestion)
			item.Suggestion = det.WellnessSuggestion.Suggestion
			item.Acknowledgment = ack
			item.Suggestions = tips
		}
		items = append(items, item)
	}

	return &dto.SessionHistory{
		ID:         session.ID,
		UserID:     session.UserID,
		StartTime:  session.StartTime,
		EndTime:    session.EndTime,
		Detections: items,
	}, nil
}

func (s *sessionService) SubmitFeedback(userID, sessionID uint, input dto.FeedbackRequest) (*domain.Feedback, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, errors.New("rating must be between 1 and 5")
	}

	session, err := s.GetSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.EndTime == nil {
		return nil, ErrSessionNotEnded
	}

	existing, err := s.sessions.FindFeedbackBySession(sessionID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil && existing.ID != 0 {
		return nil, ErrFeedbackExists
	}

	feedback := &domain.Feedback{
		SessionID: sessionID,
		Comment:   input.Comment,
		Rating:    input.Rating,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessions.CreateFeedback(feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

func (s *sessionService) ListFeedback(limit, offset int) ([]domain.Feedback, error) {
	if limit < 1 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.sessions.ListFeedback(limit, offset)
}
