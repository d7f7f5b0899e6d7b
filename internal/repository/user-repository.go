package repository

import (
	"errors"
	"log"
	"time"

	"github.com/faceofmind/server/internal/domain"
	"github.com/faceofmind/server/internal/dto"
	"gorm.io/gorm"
)

type UserRepository interface {
	CreateUser(user *domain.User) (*domain.User, error)
	FindUserByEmail(email string) (*domain.User, error)
	FindUserByID(userID uint) (*domain.User, error)
	SaveUser(user *domain.User) error
	ListUsers(filter dto.UserListFilter) ([]domain.User, int64, error)

	// Analytics counts over the users table.
	CountAll() (int64, error)
	CountByRole(role string) (int64, error)
	CountCreatedBetween(start, end time.Time, role string) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("nil user")
	}

	if err := r.db.Create(user).Error; err != nil {
		log.Printf("create user error: %v", err)
		return nil, errors.New("failed to create user")
	}
	return user, nil
}

func (r *userRepository) FindUserByEmail(email string) (*domain.User, error) {
	user := &domain.User{}

	if err := r.db.First(user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		log.Printf("find user by email error: %v", err)
		return nil, errors.New("failed to find user by email")
	}
	return user, nil
}

func (r *userRepository) FindUserByID(userID uint) (*domain.User, error) {
	user := &domain.User{}

	if err := r.db.First(user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		log.Printf("find user by id error: %v", err)
		return nil, errors.New("failed to find user by ID")
	}
	return user, nil
}

func (r *userRepository) SaveUser(user *domain.User) error {
	if user == nil {
		return errors.New("nil user")
	}

	if err := r.db.Save(user).Error; err != nil {
		log.Printf("save user error: %v", err)
		return errors.New("failed to save user")
	}
	return nil
}

func (r *userRepository) ListUsers(filter dto.UserListFilter) ([]domain.User, int64, error) {
	q := r.db.Model(&domain.User{})

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		q = q.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("count users error: %v", err)
		return nil, 0, errors.New("failed to count users")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 15
	}

	var users []domain.User
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error
	if err != nil {
		log.Printf("list users error: %v", err)
		return nil, 0, errors.New("failed to list users")
	}
	return users, total, nil
}

func (r *userRepository) CountAll() (int64, error) {
	var n int64
	if err := r.db.Model(&domain.User{}).Count(&n).Error; err != nil {
		log.Printf("count all users error: %v", err)
		return 0, errors.New("failed to count users")
	}
	return n, nil
}

func (r *userRepository) CountByRole(role string) (int64, error) {
	var n int64
	if err := r.db.Model(&domain.User{}).Where("role = ?", role).Count(&n).Error; err != nil {
		log.Printf("count users by role error: %v", err)
		return 0, errors.New("failed to count users")
	}
	return n, nil
}

func (r *userRepository) CountCreatedBetween(start, end time.Time, role string) (int64, error) {
	q := r.db.Model(&domain.User{}).Where("created_at >= ? AND created_at < ?", start, end)
	if role != "" {
		q = q.Where("role = ?", role)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		log.Printf("count users created between error: %v", err)
		return 0, errors.New("failed to count users")
	}
	return n, nil
}
