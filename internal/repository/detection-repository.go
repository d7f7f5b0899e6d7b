package repository

import (
	"errors"
	"log"
	"time"

	"github.com/faceofmind/server/internal/domain"
	"gorm.io/gorm"
)

type DetectionRepository interface {
	CreateDetection(detection *domain.EmotionDetection) (*domain.EmotionDetection, error)
	CreateFacialData(data *domain.FacialData) error
	CreateVoiceData(data *domain.VoiceData) error
	CreateSuggestion(suggestion *domain.WellnessSuggestion) error

	// ListBySession returns detections in chronological order with their
	// facial, voice and suggestion rows preloaded.
	ListBySession(sessionID uint) ([]domain.EmotionDetection, error)

	// ListByUserSince returns all of a user's detections (across sessions)
	// recorded after the given time, preloaded like ListBySession.
	ListByUserSince(userID uint, since time.Time) ([]domain.EmotionDetection, error)
}

type detectionRepository struct {
	db *gorm.DB
}

func NewDetectionRepository(db *gorm.DB) DetectionRepository {
	return &detectionRepository{db: db}
}

func (r *detectionRepository) CreateDetection(detection *domain.EmotionDetection) (*domain.EmotionDetection, error) {
	if detection == nil {
		return nil, errors.New("nil detection")
	}

	if err := r.db.Create(detection).Error; err != nil {
		log.Printf("create detection error: %v", err)
		return nil, errors.New("failed to create detection")
	}
	return detection, nil
}

func (r *detectionRepository) CreateFacialData(data *domain.FacialData) error {
	if err := r.db.Create(data).Error; err != nil {
		log.Printf("create facial data error: %v", err)
		return errors.New("failed to create facial data")
	}
	return nil
}

func (r *detectionRepository) CreateVoiceData(data *domain.VoiceData) error {
	if err := r.db.Create(data).Error; err != nil {
		log.Printf("create voice data error: %v", err)
		return errors.New("failed to create voice data")
	}
	return nil
}

func (r *detectionRepository) CreateSuggestion(suggestion *domain.WellnessSuggestion) error {
	if err := r.db.Create(suggestion).Error; err != nil {
		log.Printf("create suggestion error: %v", err)
		return errors.New("failed to create suggestion")
	}
	return nil
}

func (r *detectionRepository) ListBySession(sessionID uint) ([]domain.EmotionDetection, error) {
	var detections []domain.EmotionDetection
	err := r.db.
		Preload("FacialData").
		Preload("VoiceData").
		Preload("WellnessSuggestion").
		Where("session_id = ?", sessionID).
		Order("timestamp ASC").
		Find(&detections).Error
	if err != nil {
		log.Printf("list detections error: %v", err)
		return nil, errors.New("failed to list detections")
	}
	return detections, nil
}

func (r *detectionRepository) ListByUserSince(userID uint, since time.Time) ([]domain.EmotionDetection, error) {
	var detections []domain.EmotionDetection
	err := r.db.
		Preload("FacialData").
		Preload("VoiceData").
		Preload("WellnessSuggestion").
		Joins("JOIN sessions ON sessions.id = emotion_detections.session_id").
		Where("sessions.user_id = ? AND emotion_detections.timestamp >= ?", userID, since).
		Order("emotion_detections.timestamp ASC").
		Find(&detections).Error
	if err != nil {
		log.Printf("list detections by user error: %v", err)
		return nil, errors.New("failed to list detections")
	}
	return detections, nil
}
