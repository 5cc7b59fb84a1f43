package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Dosada05/clubhub/models"
	"github.com/golang-jwt/jwt/v4"
)

const (
	tokenPurposeSession = "session"
	tokenPurposeReset   = "password_reset"

	PasswordResetTTL = 30 * time.Minute
)

var ErrInvalidToken = errors.New("token is invalid or expired")

type TokenService interface {
	IssueSession(identity models.Identity) (string, time.Time, error)
	ParseSession(token string) (*models.Identity, error)
	IssuePasswordReset(userID int) (string, error)
	ParsePasswordReset(token string) (int, error)
}

type tokenClaims struct {
	Username string `json:"username,omitempty"`
	Purpose  string `json:"purpose"`
	jwt.RegisteredClaims
}

type tokenService struct {
	secret     []byte
	sessionTTL time.Duration
	now        func() time.Time
}

func NewTokenService(secret string, sessionTTL time.Duration) TokenService {
	return &tokenService{
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

func (s *tokenService) IssueSession(identity models.Identity) (string, time.Time, error) {
	expiresAt := s.now().Add(s.sessionTTL)
	token, err := s.sign(identity.UserID, identity.Username, tokenPurposeSession, expiresAt)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (s *tokenService) ParseSession(token string) (*models.Identity, error) {
	claims, err := s.parse(token, tokenPurposeSession)
	if err != nil {
		return nil, err
	}
	userID, err := strconv.Atoi(claims.Subject)
	if err != nil || userID <= 0 {
		return nil, ErrInvalidToken
	}
	return &models.Identity{UserID: userID, Username: claims.Username}, nil
}

func (s *tokenService) IssuePasswordReset(userID int) (string, error) {
	return s.sign(userID, "", tokenPurposeReset, s.now().Add(PasswordResetTTL))
}

func (s *tokenService) ParsePasswordReset(token string) (int, error) {
	claims, err := s.parse(token, tokenPurposeReset)
	if err != nil {
		return 0, err
	}
	userID, err := strconv.Atoi(claims.Subject)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

func (s *tokenService) sign(userID int, username, purpose string, expiresAt time.Time) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Username: username,
		Purpose:  purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *tokenService) parse(token, purpose string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != purpose {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
