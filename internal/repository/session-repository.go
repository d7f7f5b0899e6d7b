package repository

import (
	"errors"
	"log"

	"github.com/faceofmind/server/internal/domain"
	"gorm.io/gorm"
)

type SessionRepository interface {
	CreateSession(session *domain.Session) (*domain.Session, error)
	FindSessionForUser(sessionID, userID uint) (*domain.Session, error)
	ListSessionsByUser(userID uint, limit, offset int) ([]domain.Session, error)
	SaveSession(session *domain.Session) error
	DeleteSession(session *domain.Session) error

	CreateFeedback(feedback *domain.Feedback) error
	FindFeedbackBySession(sessionID uint) (*domain.Feedback, error)
	ListFeedback(limit, offset int) ([]domain.Feedback, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) CreateSession(session *domain.Session) (*domain.Session, error) {
	if session == nil {
		return nil, errors.New("nil session")
	}

	if err := r.db.Create(session).Error; err != nil {
		log.Printf("create session error: %v", err)
		return nil, errors.New("failed to create session")
	}
	return session, nil
}

func (r *sessionRepository) FindSessionForUser(sessionID, userID uint) (*domain.Session, error) {
	session := &domain.Session{}

	err := r.db.Where("id = ? AND user_id = ?", sessionID, userID).First(session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		log.Printf("find session error: %v", err)
		return nil, errors.New("failed to find session")
	}
	return session, nil
}

func (r *sessionRepository) ListSessionsByUser(userID uint, limit, offset int) ([]domain.Session, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	var sessions []domain.Session
	err := r.db.Where("user_id = ?", userID).
		Order("start_time DESC").
		Offset(offset).
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		log.Printf("list sessions error: %v", err)
		return nil, errors.New("failed to list sessions")
	}
	return sessions, nil
}

func (r *sessionRepository) SaveSession(session *domain.Session) error {
	if session == nil {
		return errors.New("nil session")
	}

	if err := r.db.Save(session).Error; err != nil {
		log.Printf("save session error: %v", err)
		return errors.New("failed to save session")
	}
	return nil
}

func (r *sessionRepository) DeleteSession(session *domain.Session) error {
	if session == nil {
		return errors.New("nil session")
	}

	if err := r.db.Delete(session).Error; err != nil {
		log.Printf("delete session error: %v", err)
		return errors.New("failed to delete session")
	}
	return nil
}

func (r *sessionRepository) CreateFeedback(feedback *domain.Feedback) error {
	if feedback == nil {
		return errors.New("nil feedback")
	}

	if err := r.db.Create(feedback).Error; err != nil {
		log.Printf("create feedback error: %v", err)
		return errors.New("failed to create feedback")
	}
	return nil
}

func (r *sessionRepository) FindFeedbackBySession(sessionID uint) (*domain.Feedback, error) {
	feedback := &domain.Feedback{}

	err := r.db.Where("session_id = ?", sessionID).First(feedback).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		log.Printf("find feedback error: %v", err)
		return nil, errors.New("failed to find feedback")
	}
	return feedback, nil
}

func (r *sessionRepository) ListFeedback(limit, offset int) ([]domain.Feedback, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	var out []domain.Feedback
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&out).Error
	if err != nil {
		log.Printf("list feedback error: %v", err)
		return nil, errors.New("failed to list feedback")
	}
	return out, nil
}
