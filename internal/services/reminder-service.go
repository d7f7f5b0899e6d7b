package services

import (
	"errors"
	"strings"
	"time"

	"github.com/faceofmind/server/internal/domain"
	"github.com/faceofmind/server/internal/dto"
	"github.com/faceofmind/server/internal/repository"
	"gorm.io/gorm"
)

type ReminderService interface {
	CreateReminder(userID uint, input dto.ReminderRequest) (*domain.Reminder, error)
	ListReminders(userID uint) ([]domain.Reminder, error)
	GetReminder(userID, reminderID uint) (*domain.Reminder, error)
	UpdateReminder(userID, reminderID uint, input dto.ReminderRequest) (*domain.Reminder, error)
	DeleteReminder(userID, reminderID uint) error
}

type reminderService struct {
	repo repository.ReminderRepository
}

func NewReminderService(repo repository.ReminderRepository) ReminderService {
	return &reminderService{repo: repo}
}

func parseReminderTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("reminder_time is required")
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, errors.New("reminder_time must be RFC3339")
	}
	return t.UTC(), nil
}

func (r *reminderService) CreateReminder(userID uint, input dto.ReminderRequest) (*domain.Reminder, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.New("title is required")
	}
	when, err := parseReminderTime(input.ReminderTime)
	if err != nil {
		return nil, err
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	return r.repo.CreateReminder(&domain.Reminder{
		UserID:       userID,
		Title:        title,
		Description:  strings.TrimSpace(input.Description),
		ReminderTime: when,
		IsActive:     active,
		CreatedAt:    time.Now().UTC(),
	})
}

func (r *reminderService) ListReminders(userID uint) ([]domain.Reminder, error) {
	return r.repo.ListRemindersByUser(userID)
}

func (r *reminderService) GetReminder(userID, reminderID uint) (*domain.Reminder, error) {
	reminder, err := r.repo.FindReminderForUser(reminderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return reminder, nil
}

func (r *reminderService) UpdateReminder(userID, reminderID uint, input dto.ReminderRequest) (*domain.Reminder, error) {
	reminder, err := r.GetReminder(userID, reminderID)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		reminder.Title = title
	}
	if desc := strings.TrimSpace(input.Description); desc != "" {
		reminder.Description = desc
	}
	if strings.TrimSpace(input.ReminderTime) != "" {
		when, err := parseReminderTime(input.ReminderTime)
		if err != nil {
			return nil, err
		}
		reminder.ReminderTime = when
	}
	if input.IsActive != nil {
		reminder.IsActive = *input.IsActive
	}

	if err := r.repo.SaveReminder(reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

func (r *reminderService) DeleteReminder(userID, reminderID uint) error {
	reminder, err := r.GetReminder(userID, reminderID)
	if err != nil {
		return err
	}
	return r.repo.DeleteReminder(reminder)
}
