package dto

type PostRequest struct {
	Content string `json:"content"`
}

type CommentRequest struct {
	Content string `json:"content"`
}

type ReminderRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ReminderTime string `json:"reminder_time"`
	IsActive     *bool  `json:"is_active,omitempty"`
}
