package repository

import (
	"errors"
	"log"

	"github.com/faceofmind/server/internal/domain"
	"gorm.io/gorm"
)

type ReminderRepository interface {
	CreateReminder(reminder *domain.Reminder) (*domain.Reminder, error)
	FindReminderForUser(reminderID, userID uint) (*domain.Reminder, error)
	ListRemindersByUser(userID uint) ([]domain.Reminder, error)
	SaveReminder(reminder *domain.Reminder) error
	DeleteReminder(reminder *domain.Reminder) error
}

type reminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) ReminderRepository {
	return &reminderRepository{db: db}
}

func (r *reminderRepository) CreateReminder(reminder *domain.Reminder) (*domain.Reminder, error) {
	if reminder == nil {
		return nil, errors.New("nil reminder")
	}

	if err := r.db.Create(reminder).Error; err != nil {
		log.Printf("create reminder error: %v", err)
		return nil, errors.New("failed to create reminder")
	}
	return reminder, nil
}

func (r *reminderRepository) FindReminderForUser(reminderID, userID uint) (*domain.Reminder, error) {
	reminder := &domain.Reminder{}

	err := r.db.Where("id = ? AND user_id = ?", reminderID, userID).First(reminder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		log.Printf("find reminder error: %v", err)
		return nil, errors.New("failed to find reminder")
	}
	return reminder, nil
}

func (r *reminderRepository) ListRemindersByUser(userID uint) ([]domain.Reminder, error) {
	var reminders []domain.Reminder
	err := r.db.Where("user_id = ?", userID).Order("reminder_time ASC").Find(&reminders).Error
	if err != nil {
		log.Printf("list reminders error: %v", err)
		return nil, errors.New("failed to list reminders")
	}
	return reminders, nil
}

func (r *reminderRepository) SaveReminder(reminder *domain.Reminder) error {
	if reminder == nil {
		return errors.New("nil reminder")
	}

	if err := r.db.Save(reminder).Error; err != nil {
		log.Printf("save reminder error: %v", err)
		return errors.New("failed to save reminder")
	}
	return nil
}

func (r *reminderRepository) DeleteReminder(reminder *domain.Reminder) error {
	if reminder == nil {
		return errors.New("nil reminder")
	}

	if err := r.db.Delete(reminder).Error; err != nil {
		log.Printf("delete reminder error: %v", err)
		return errors.New("failed to delete reminder")
	}
	return nil
}
