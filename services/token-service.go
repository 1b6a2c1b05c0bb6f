package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Muhammad-Huzaifa24/backend-PMS/models"
	"github.com/Muhammad-Huzaifa24/backend-PMS/repositories"
)

// AccessClaims is embedded in the short-lived access token.
type AccessClaims struct {
	ID    string      `json:"_id"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  models.Role `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims carries only the user identity.
type RefreshClaims struct {
	ID string `json:"_id"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

type TokenService struct {
	users         repositories.UserRepository
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(users repositories.UserRepository, accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		users:         users,
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// Issue generates a fresh access/refresh pair for the user and persists the
// refresh token on the user record. Only the stored refresh token is valid
// for rotation, so issuing revokes any previously issued one.
func (s *TokenService) Issue(ctx context.Context, userID primitive.ObjectID) (*TokenPair, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, models.WrapError(models.ErrCodeStorage, "failed to load user for token generation", err)
	}

	now := time.Now()

	accessClaims := &AccessClaims{
		ID:    user.ID.Hex(),
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(s.accessSecret)
	if err != nil {
		return nil, models.WrapError(models.ErrCodeStorage, "failed to sign access token", err)
	}

	refreshClaims := &RefreshClaims{
		ID: user.ID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			// jti keeps back-to-back tokens distinct so rotation can
			// tell the old one from the new.
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
		},
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(s.refreshSecret)
	if err != nil {
		return nil, models.WrapError(models.ErrCodeStorage, "failed to sign refresh token", err)
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, models.WrapError(models.ErrCodeStorage, "failed to persist refresh token", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// VerifyAccess parses and validates an access token.
func (s *TokenService) VerifyAccess(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.accessSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, models.ErrInvalidToken
	}
	return claims, nil
}

// Refresh exchanges a valid refresh token for a new pair. The incoming token
// must match the one stored on the user record; a mismatch means it was
// rotated or revoked.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims := &RefreshClaims{}
	parsed, err := jwt.ParseWithClaims(refreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		return s.refreshSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, models.ErrInvalidToken
	}

	userID, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return nil, models.ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if models.IsCode(err, models.ErrCodeNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}

	if user.RefreshToken != refreshToken {
		return nil, models.NewError(models.ErrCodeInvalidToken, "refresh token has been revoked")
	}

	return s.Issue(ctx, user.ID)
}
