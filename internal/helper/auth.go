package helper

import (
	"errors"
	"strings"
	"time"

	"github.com/faceofmind/server/internal/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type Auth struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
}

func SetupAuth(accessSecret, refreshSecret string, accessTTLMinutes int) Auth {
	return Auth{
		AccessSecret:  accessSecret,
		RefreshSecret: refreshSecret,
		AccessTTL:     time.Duration(accessTTLMinutes) * time.Minute,
	}
}

const refreshTTL = 7 * 24 * time.Hour

func (a Auth) GenerateAccessToken(userID uint, email, role string) (string, error) {
	return a.generate(userID, email, role, a.AccessSecret, a.AccessTTL)
}

func (a Auth) GenerateRefreshToken(userID uint, email, role string) (string, error) {
	return a.generate(userID, email, role, a.RefreshSecret, refreshTTL)
}

func (a Auth) generate(userID uint, email, role, secret string, ttl time.Duration) (string, error) {
	if userID == 0 || email == "" {
		return "", errors.New("required inputs are missing to generate token")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   float64(userID),
		"email": email,
		"role":  role,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	})

	tokenStr, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", errors.New("unable to sign the token")
	}
	return tokenStr, nil
}

// VerifyToken validates an access token. It accepts both "Bearer <token>"
// and a bare token string.
func (a Auth) VerifyToken(tokenString string) (dto.AuthClaims, error) {
	return a.verify(tokenString, a.AccessSecret)
}

func (a Auth) VerifyRefreshToken(tokenString string) (dto.AuthClaims, error) {
	return a.verify(tokenString, a.RefreshSecret)
}

func (a Auth) verify(tokenString, secret string) (dto.AuthClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return dto.AuthClaims{}, errors.New("missing token")
	}

	if strings.HasPrefix(strings.ToLower(tokenString), "bearer ") {
		parts := strings.SplitN(tokenString, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[1]) == "" {
			return dto.AuthClaims{}, errors.New("invalid token format")
		}
		tokenString = strings.TrimSpace(parts[1])
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return dto.AuthClaims{}, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return dto.AuthClaims{}, errors.New("invalid token claims")
	}

	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return dto.AuthClaims{}, errors.New("invalid subject claim")
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return dto.AuthClaims{
		UserID: uint(sub),
		Email:  email,
		Role:   role,
		Token:  tokenString,
	}, nil
}

func (a Auth) GetCurrentUser(ctx *fiber.Ctx) (dto.AuthClaims, error) {
	u := ctx.Locals("user")
	claims, ok := u.(dto.AuthClaims)
	if !ok {
		return dto.AuthClaims{}, errors.New("missing auth user in context")
	}
	return claims, nil
}

func (a Auth) HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.New("failed to hash password")
	}
	return string(hashed), nil
}

func (a Auth) VerifyPassword(plain, hashed string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)); err != nil {
		return errors.New("invalid email or password")
	}
	return nil
}
