package dto

import "time"

type RecordDetectionRequest struct {
	Emotion      string `json:"emotion"`
	VoiceContent string `json:"voice_content"`
}

type DetectionResponse struct {
	SessionID      uint     `json:"session_id"`
	Emotion        string   `json:"emotion"`
	VoiceContent   string   `json:"voice_content"`
	Acknowledgment string   `json:"acknowledgment"`
	Suggestions    []string `json:"suggestions"`
	EmotionColor   string   `json:"emotion_color"`
}

type FeedbackRequest struct {
	Comment string `json:"comment"`
	Rating  int    `json:"rating"`
}

type DetectionHistory struct {
	ID             uint      `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	Emotion        string    `json:"emotion,omitempty"`
	EmotionColor   string    `json:"emotion_color,omitempty"`
	VoiceContent   string    `json:"voice_content,omitempty"`
	Suggestion     string    `json:"suggestion,omitempty"`
	Acknowledgment string    `json:"acknowledgment,omitempty"`
	Suggestions    []string  `json:"suggestions,omitempty"`
}

type SessionHistory struct {
	ID         uint               `json:"id"`
	UserID     uint               `json:"user_id"`
	StartTime  time.Time          `json:"start_time"`
	EndTime    *time.Time         `json:"end_time,omitempty"`
	Detections []DetectionHistory `json:"emotion_detections"`
}

type DiagnosisResponse struct {
	Summary            string         `json:"summary"`
	Tally              map[string]int `json:"tally"`
	IntensityBreakdown map[string]int `json:"intensity_breakdown"`
	CrisisDetected     bool           `json:"crisis_detected"`
	WindowDays         int            `json:"window_days"`
	DetectionCount     int            `json:"detection_count"`
}
