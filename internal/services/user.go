package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"table-for-two-backend/internal/apperr"
	"table-for-two-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	jwtExpDays = 365

	// placeholderName stands in for a member whose profile cannot be
	// resolved; summary reads must not fail on a missing profile.
	placeholderName = "Partner"
)

// UserService handles user-related business logic
type UserService struct {
	userStore UserStore
	jwtSecret string
}

// NewUserService creates a new user service
func NewUserService(userStore UserStore, jwtSecret string) *UserService {
	return &UserService{
		userStore: userStore,
		jwtSecret: jwtSecret,
	}
}

// GenerateJWT generates a JWT token for a user
func (s *UserService) GenerateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().AddDate(0, 0, jwtExpDays).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT validates a JWT token and returns the user ID
func (s *UserService) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", fmt.Errorf("user_id not found in token")
	}

	return userID, nil
}

// CreateUser creates a new user and issues a token for it
func (s *UserService) CreateUser(ctx context.Context, displayName, email string) (*models.User, string, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = "Guest"
	}

	userID := uuid.New().String()

	token, err := s.GenerateJWT(userID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:          userID,
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if email = strings.TrimSpace(email); email != "" {
		user.Email = &email
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	return user, token, nil
}

// Get retrieves a user by id
func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	return s.userStore.GetByID(ctx, userID)
}

// Profile resolves a user id to a display profile. A missing user degrades
// to a placeholder name rather than an error.
func (s *UserService) Profile(ctx context.Context, userID string) (models.MemberProfile, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if apperr.KindOf(err) == apperr.NotFound {
			return models.MemberProfile{ID: userID, DisplayName: placeholderName}, nil
		}
		return models.MemberProfile{}, err
	}

	profile := models.MemberProfile{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		PhotoURL:    user.PhotoURL,
	}
	if profile.DisplayName == "" {
		profile.DisplayName = placeholderName
	}
	return profile, nil
}
