package domain

import "time"

type Session struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	StartTime time.Time  `gorm:"not null" json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

type EmotionDetection struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID uint      `gorm:"index;not null" json:"session_id"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`

	// Logically 1:1 per detection.
	FacialData         *FacialData         `gorm:"foreignKey:DetectionID" json:"facial_data,omitempty"`
	VoiceData          *VoiceData          `gorm:"foreignKey:DetectionID" json:"voice_data,omitempty"`
	WellnessSuggestion *WellnessSuggestion `gorm:"foreignKey:DetectionID" json:"wellness_suggestion,omitempty"`
}

type FacialData struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	DetectionID uint   `gorm:"index;not null" json:"detection_id"`
	Emotion     string `gorm:"not null" json:"emotion"`
}

type VoiceData struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	DetectionID uint   `gorm:"index;not null" json:"detection_id"`
	Content     string `gorm:"not null" json:"content"`
}

type WellnessSuggestion struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	DetectionID uint   `gorm:"index;not null" json:"detection_id"`
	Suggestion  string `gorm:"not null" json:"suggestion"`
}

type Feedback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID uint      `gorm:"index;not null" json:"session_id"`
	Comment   string    `gorm:"not null" json:"comment"`
	Rating    int       `gorm:"not null" json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}
