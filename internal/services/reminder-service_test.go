package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/faceofmind/server/internal/domain"
	"github.com/faceofmind/server/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeReminderRepo struct {
	mu        sync.Mutex
	reminders []*domain.Reminder
	nextID    uint
}

func newFakeReminderRepo() *fakeReminderRepo {
	return &fakeReminderRepo{nextID: 1}
}

func (f *fakeReminderRepo) CreateReminder(reminder *domain.Reminder) (*domain.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reminder.ID = f.nextID
	f.nextID++
	f.reminders = append(f.reminders, reminder)
	return reminder, nil
}

func (f *fakeReminderRepo) FindReminderForUser(reminderID, userID uint) (*domain.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reminders {
		if r.ID == reminderID && r.UserID == userID {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReminderRepo) ListRemindersByUser(userID uint) ([]domain.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Reminder
	for _, r := range f.reminders {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReminderRepo) SaveReminder(reminder *domain.Reminder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.reminders {
		if r.ID == reminder.ID {
			f.reminders[i] = reminder
			return nil
		}
	}
	return errors.New("reminder not found")
}

func (f *fakeReminderRepo) DeleteReminder(reminder *domain.Reminder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.reminders {
		if r.ID == reminder.ID {
			f.reminders = append(f.reminders[:i], f.reminders[i+1:]...)
			return nil
		}
	}
	return errors.New("reminder not found")
}

func TestReminderLifecycle(t *testing.T) {
	svc := NewReminderService(newFakeReminderRepo())
	when := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)

	reminder, err := svc.CreateReminder(1, dto.ReminderRequest{
		Title:        "Evening check-in",
		Description:  "Record how the day went",
		ReminderTime: when,
	})
	require.NoError(t, err)
	assert.True(t, reminder.IsActive, "active by default")

	inactive := false
	updated, err := svc.UpdateReminder(1, reminder.ID, dto.ReminderRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Evening check-in", updated.Title, "unset fields stay put")

	mine, err := svc.ListReminders(1)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	require.NoError(t, svc.DeleteReminder(1, reminder.ID))
	_, err = svc.GetReminder(1, reminder.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReminderValidation(t *testing.T) {
	svc := NewReminderService(newFakeReminderRepo())

	_, err := svc.CreateReminder(1, dto.ReminderRequest{Title: "", ReminderTime: time.Now().Format(time.RFC3339)})
	assert.Error(t, err)

	_, err = svc.CreateReminder(1, dto.ReminderRequest{Title: "x", ReminderTime: "tomorrow at noon"})
	assert.Error(t, err)
}

func TestReminderOwnership(t *testing.T) {
	svc := NewReminderService(newFakeReminderRepo())

	reminder, err := svc.CreateReminder(1, dto.ReminderRequest{
		Title:        "Private",
		ReminderTime: time.Now().Format(time.RFC3339),
	})
	require.NoError(t, err)

	_, err = svc.GetReminder(2, reminder.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeleteReminder(2, reminder.ID), ErrNotFound)
}
