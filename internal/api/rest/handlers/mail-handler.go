package handlers

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/faceofmind/server/internal/dto"
	"github.com/faceofmind/server/internal/services"
)

// MailHandler consumes mail events off the queue and hands them to the SMTP
// sender. The event key selects the template.
type MailHandler struct {
	MailService *services.MailService
}

func NewMailHandler(ms *services.MailService) *MailHandler {
	return &MailHandler{MailService: ms}
}

func (h *MailHandler) HandleMessage(key, value string) error {
	var event dto.MailCodeEvent

	if err := json.Unmarshal([]byte(value), &event); err != nil {
		log.Printf("invalid event payload: %s\n", value)
		return err
	}

	log.Printf("Mail event received: key=%s user_id=%d email=%s",
		key, event.UserID, event.Email)

	var err error
	switch key {
	case dto.EventVerifyEmail:
		err = h.MailService.SendVerifyCode(event.Email, event.Code, event.ExpiresAt)
	case dto.EventResetPassword:
		err = h.MailService.SendResetCode(event.Email, event.Code, event.ExpiresAt)
	default:
		log.Printf("unknown event key: %s", key)
		return fmt.Errorf("unknown event key: %s", key)
	}

	log.Println("[MAIL] send finished, err =", err)
	return err
}
