package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/faceofmind/server/internal/domain"
	"github.com/faceofmind/server/internal/dto"
	"github.com/faceofmind/server/internal/helper"
	"github.com/faceofmind/server/internal/helper/utils"
	"github.com/faceofmind/server/internal/interfaces"
	"github.com/faceofmind/server/internal/repository"
	"gorm.io/gorm"
)

type UserService interface {
	// Auth
	Register(ctx context.Context, input dto.RegisterRequest) error
	VerifyOTP(ctx context.Context, input dto.VerifyOTPRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, input dto.LoginRequest) (*dto.TokenResponse, *domain.User, error)
	AdminLogin(ctx context.Context, input dto.LoginRequest) (*dto.TokenResponse, *domain.User, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, claims dto.AuthClaims) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, input dto.ResetPasswordRequest) error

	// Profile
	GetProfile(userID uint) (*domain.User, error)

	// Admin
	ListUsers(ctx context.Context, filter dto.UserListFilter) (*dto.UserListResponse, error)
	SetStatus(ctx context.Context, userID uint, status string) error
}

type userService struct {
	repo      repository.UserRepository
	auth      helper.Auth
	liveness  LivenessService
	producer  interfaces.ProducerHandler
	notifier  interfaces.Notifier
	analytics AnalyticsService
}

func NewUserService(
	repo repository.UserRepository,
	auth helper.Auth,
	liveness LivenessService,
	producer interfaces.ProducerHandler,
	notifier interfaces.Notifier,
	analytics AnalyticsService,
) UserService {
	return &userService{
		repo:      repo,
		auth:      auth,
		liveness:  liveness,
		producer:  producer,
		notifier:  notifier,
		analytics: analytics,
	}
}

func (u *userService) Register(ctx context.Context, input dto.RegisterRequest) error {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	role := strings.TrimSpace(strings.ToLower(input.Role))

	if role == "" {
		role = domain.RoleUser
	}
	if email == "" || strings.TrimSpace(input.Password) == "" || firstName == "" || lastName == "" {
		return errors.New("invalid inputs")
	}
	if role != domain.RoleUser && role != domain.RoleProfessional {
		return errors.New("invalid role")
	}
	if len(input.Password) < 6 {
		return errors.New("password must be at least 6 characters")
	}

	existing, err := u.repo.FindUserByEmail(email)
	if err == nil && existing != nil && existing.ID != 0 {
		return ErrEmailExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := u.auth.HashPassword(input.Password)
	if err != nil {
		return err
	}

	newUser := &domain.User{
		Email:        email,
		PasswordHash: hashed,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         role,
		Status:       domain.StatusInactive,
	}

	usr, err := u.repo.CreateUser(newUser)
	if err != nil {
		return err
	}
	if usr == nil || usr.ID == 0 {
		return errors.New("failed to create user")
	}

	u.analytics.InvalidateCache(ctx)

	return u.sendCode(ctx, usr, dto.EventVerifyEmail)
}

// sendCode generates an OTP, stores it in the liveness store, and publishes
// a mail event for the worker. Kafka being down must not fail registration.
func (u *userService) sendCode(ctx context.Context, usr *domain.User, event string) error {
	code, err := utils.GenerateOTP(6)
	if err != nil {
		return err
	}

	if err := u.liveness.StoreOTP(ctx, usr.Email, code); err != nil {
		log.Printf("store otp error: %v", err)
		return errors.New("failed to store verification code")
	}

	if u.producer != nil {
		payload, _ := json.Marshal(dto.MailCodeEvent{
			UserID:    usr.ID,
			Email:     usr.Email,
			Code:      code,
			ExpiresAt: time.Now().Add(otpTTL).Format(time.RFC3339),
		})
		if err := u.producer.PublishMessage([]byte(event), payload); err != nil {
			log.Printf("publish %s error: %v", event, err)
		}
	}
	return nil
}

func (u *userService) VerifyOTP(ctx context.Context, input dto.VerifyOTPRequest) (*dto.TokenResponse, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	if !u.liveness.VerifyOTP(ctx, email, strings.TrimSpace(input.OTP)) {
		return nil, ErrInvalidOTP
	}

	user, err := u.repo.FindUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	user.Status = domain.StatusActive
	if err := u.repo.SaveUser(user); err != nil {
		return nil, err
	}

	u.analytics.InvalidateCache(ctx)

	return u.issueTokens(ctx, user)
}

func (u *userService) Login(ctx context.Context, input dto.LoginRequest) (*dto.TokenResponse, *domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)

	if email == "" || password == "" {
		return nil, nil, ErrInvalidCredentials
	}

	user, err := u.repo.FindUserByEmail(email)
	if err != nil || user == nil || user.ID == 0 {
		log.Printf("failed login attempt for email: %s", email)
		return nil, nil, ErrInvalidCredentials
	}

	if err := u.auth.VerifyPassword(password, user.PasswordHash); err != nil {
		log.Printf("failed login attempt for user: %s - incorrect password", email)
		return nil, nil, ErrInvalidCredentials
	}

	switch user.Status {
	case domain.StatusActive:
	case domain.StatusSuspended:
		return nil, nil, ErrAccountSuspended
	default:
		return nil, nil, ErrAccountNotActive
	}

	tokens, err := u.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return tokens, user, nil
}

// AdminLogin rejects non-admin accounts before any token is issued.
func (u *userService) AdminLogin(ctx context.Context, input dto.LoginRequest) (*dto.TokenResponse, *domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)

	if email == "" || password == "" {
		return nil, nil, ErrInvalidCredentials
	}

	user, err := u.repo.FindUserByEmail(email)
	if err != nil || user == nil || user.ID == 0 {
		return nil, nil, ErrInvalidCredentials
	}
	if err := u.auth.VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if user.Role != domain.RoleAdmin {
		return nil, nil, ErrAdminOnly
	}
	if user.Status != domain.StatusActive {
		return nil, nil, ErrAccountNotActive
	}

	tokens, err := u.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return tokens, user, nil
}

// issueTokens creates the access/refresh pair and records the access token
// in the liveness store so logout can revoke it before natural expiry.
func (u *userService) issueTokens(ctx context.Context, user *domain.User) (*dto.TokenResponse, error) {
	access, err := u.auth.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := u.auth.GenerateRefreshToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	if err := u.liveness.StoreSessionToken(ctx, user.Role, user.ID, access, u.auth.AccessTTL); err != nil {
		log.Printf("store session token error: %v", err)
		return nil, errors.New("failed to store session token")
	}

	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int(u.auth.AccessTTL.Seconds()),
	}, nil
}

func (u *userService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := u.auth.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := u.repo.FindUserByID(claims.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Status != domain.StatusActive {
		return nil, ErrAccountNotActive
	}

	access, err := u.auth.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	if err := u.liveness.StoreSessionToken(ctx, user.Role, user.ID, access, u.auth.AccessTTL); err != nil {
		log.Printf("store session token error: %v", err)
		return nil, errors.New("failed to store session token")
	}

	return &dto.TokenResponse{
		AccessToken: access,
		TokenType:   "bearer",
		ExpiresIn:   int(u.auth.AccessTTL.Seconds()),
	}, nil
}

func (u *userService) Logout(ctx context.Context, claims dto.AuthClaims) error {
	return u.liveness.RevokeSessionToken(ctx, claims.Role, claims.UserID, claims.Token)
}

func (u *userService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := u.repo.FindUserByEmail(email)
	if err != nil || user == nil {
		// Same outward behavior whether or not the account exists.
		log.Printf("password reset requested for unknown email: %s", email)
		return nil
	}

	return u.sendCode(ctx, user, dto.EventResetPassword)
}

func (u *userService) ResetPassword(ctx context.Context, input dto.ResetPasswordRequest) error {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	newPassword := strings.TrimSpace(input.NewPassword)

	if email == "" || newPassword == "" {
		return errors.New("invalid input")
	}
	if len(newPassword) < 6 {
		return errors.New("password must be at least 6 characters")
	}

	if !u.liveness.VerifyOTP(ctx, email, strings.TrimSpace(input.OTP)) {
		return ErrInvalidOTP
	}

	user, err := u.repo.FindUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	hashed, err := u.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hashed
	return u.repo.SaveUser(user)
}

func (u *userService) GetProfile(userID uint) (*domain.User, error) {
	if userID == 0 {
		return nil, errors.New("invalid user id")
	}

	user, err := u.repo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (u *userService) ListUsers(ctx context.Context, filter dto.UserListFilter) (*dto.UserListResponse, error) {
	users, total, err := u.repo.ListUsers(filter)
	if err != nil {
		return nil, err
	}

	active := u.liveness.ListActiveUserIDs(ctx)

	results := make([]dto.UserListItem, 0, len(users))
	for _, usr := range users {
		results = append(results, dto.UserListItem{
			User:     usr,
			IsOnline: active[usr.ID],
		})
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 15
	}

	return &dto.UserListResponse{
		Results:          results,
		Total:            total,
		Page:             page,
		PageSize:         pageSize,
		ActiveUsersCount: len(active),
	}, nil
}

func (u *userService) SetStatus(ctx context.Context, userID uint, status string) error {
	status = strings.TrimSpace(strings.ToLower(status))
	if userID == 0 || !domain.ValidStatus(status) {
		return errors.New("invalid user id or status")
	}

	user, err := u.repo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	oldStatus := user.Status
	user.Status = status
	if err := u.repo.SaveUser(user); err != nil {
		return err
	}

	u.analytics.InvalidateCache(ctx)

	if u.notifier != nil {
		u.notifier.Broadcast("analytics_notification", map[string]interface{}{
			"message":    fmt.Sprintf("User %s status changed from %s to %s", user.Email, oldStatus, status),
			"user_id":    userID,
			"old_status": oldStatus,
			"new_status": status,
			"action":     "status_update",
		})
	}
	return nil
}
