package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/faceofmind/server/internal/interfaces"
)

const (
	otpTTL       = 5 * time.Minute
	otpKeyPrefix = "otp:"
	jwtKeyPrefix = "jwt:"
)

// LivenessService tracks which issued access tokens are still considered
// valid server-side, and holds short-lived one-time codes. Cache outages
// degrade: auth checks fail closed, listings come back empty.
type LivenessService interface {
	StoreOTP(ctx context.Context, email, code string) error
	// VerifyOTP compares the stored code and deletes it on success, making
	// each code single-use within its TTL.
	VerifyOTP(ctx context.Context, email, code string) bool

	StoreSessionToken(ctx context.Context, role string, userID uint, token string, ttl time.Duration) error
	RevokeSessionToken(ctx context.Context, role string, userID uint, token string) error
	IsSessionTokenLive(ctx context.Context, role string, userID uint, token string) bool

	// ListActiveUserIDs scans every liveness key and extracts the embedded
	// user id. O(active tokens) — fine at this system's scale.
	ListActiveUserIDs(ctx context.Context) map[uint]bool
}

type livenessService struct {
	store interfaces.KeyValueStore
}

func NewLivenessService(store interfaces.KeyValueStore) LivenessService {
	return &livenessService{store: store}
}

func (s *livenessService) StoreOTP(ctx context.Context, email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || code == "" {
		return errors.New("email and code are required")
	}
	return s.store.Put(ctx, otpKeyPrefix+email, code, otpTTL)
}

func (s *livenessService) VerifyOTP(ctx context.Context, email, code string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || code == "" {
		return false
	}

	key := otpKeyPrefix + email
	stored, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, interfaces.ErrCacheMiss) {
			log.Printf("otp lookup error: %v", err)
		}
		return false
	}
	if stored != code {
		return false
	}

	if err := s.store.Delete(ctx, key); err != nil {
		log.Printf("otp delete error: %v", err)
	}
	return true
}

func sessionTokenKey(role string, userID uint, token string) string {
	return fmt.Sprintf("%s%s:%d:%s", jwtKeyPrefix, role, userID, token)
}

func (s *livenessService) StoreSessionToken(ctx context.Context, role string, userID uint, token string, ttl time.Duration) error {
	if userID == 0 || token == "" {
		return errors.New("invalid session token inputs")
	}
	return s.store.Put(ctx, sessionTokenKey(role, userID, token), "1", ttl)
}

func (s *livenessService) RevokeSessionToken(ctx context.Context, role string, userID uint, token string) error {
	return s.store.Delete(ctx, sessionTokenKey(role, userID, token))
}

func (s *livenessService) IsSessionTokenLive(ctx context.Context, role string, userID uint, token string) bool {
	_, err := s.store.Get(ctx, sessionTokenKey(role, userID, token))
	if err != nil {
		if !errors.Is(err, interfaces.ErrCacheMiss) {
			log.Printf("liveness lookup error: %v", err)
		}
		return false
	}
	return true
}

func (s *livenessService) ListActiveUserIDs(ctx context.Context) map[uint]bool {
	keys, err := s.store.Keys(ctx, jwtKeyPrefix+"*")
	if err != nil {
		log.Printf("liveness scan error: %v", err)
		return map[uint]bool{}
	}

	active := make(map[uint]bool, len(keys))
	for _, key := range keys {
		// jwt:<role>:<userID>:<token>
		parts := strings.SplitN(key, ":", 4)
		if len(parts) != 4 {
			continue
		}
		id, err := strconv.ParseUint(parts[2], 10, 64)
		if err != nil || id == 0 {
			continue
		}
		active[uint(id)] = true
	}
	return active
}
