package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/clubhub/models"
	"github.com/Dosada05/clubhub/repositories"
	"github.com/Dosada05/clubhub/storage"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	// ResolveIdentity maps a session token to the caller. A token for a
	// user that no longer exists yields ErrUserNotFound.
	ResolveIdentity(ctx context.Context, token string) (*models.Identity, error)
	ChangePassword(ctx context.Context, identity *models.Identity, input ChangePasswordInput) error
	DeleteAccount(ctx context.Context, identity *models.Identity, input DeleteAccountInput) error
	ForgotPassword(ctx context.Context, input ForgotPasswordInput) error
	ResetPassword(ctx context.Context, input ResetPasswordInput) error
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=120"`
	Username string `json:"username" validate:"required,alphanum,max=12"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordInput struct {
	OldPassword     string `json:"old_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type DeleteAccountInput struct {
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordInput struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginResult struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type authService struct {
	userRepo     repositories.UserRepository
	mediaRepo    repositories.MediaRepository
	badges       BadgeService
	tokens       TokenService
	emailService *EmailService
	uploader     storage.FileUploader
	logger       *slog.Logger
	bcryptCost   int
}

func NewAuthService(
	userRepo repositories.UserRepository,
	mediaRepo repositories.MediaRepository,
	badges BadgeService,
	tokens TokenService,
	emailService *EmailService,
	uploader storage.FileUploader,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		mediaRepo:    mediaRepo,
		badges:       badges,
		tokens:       tokens,
		emailService: emailService,
		uploader:     uploader,
		logger:       logger,
		bcryptCost:   bcrypt.DefaultCost,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.Username = strings.TrimSpace(input.Username)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrUserEmailConflict):
			return nil, ErrUserEmailConflict
		case errors.Is(err, repositories.ErrUserUsernameConflict):
			return nil, ErrUserUsernameConflict
		default:
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	s.badges.OnRegistered(ctx, user.ID)
	s.logger.InfoContext(ctx, "user registered", slog.Int("user_id", user.ID), slog.String("username", user.Username))

	user.PasswordHash = ""
	return user, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}

	if err := s.checkPassword(user, input.Password); err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.IssueSession(models.Identity{UserID: user.ID, Username: user.Username})
	if err != nil {
		return nil, err
	}

	populateUserDetails(user, s.uploader)
	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *authService) ResolveIdentity(ctx context.Context, token string) (*models.Identity, error) {
	identity, err := s.tokens.ParseSession(token)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %d: %w", identity.UserID, err)
	}
	return &models.Identity{UserID: user.ID, Username: user.Username}, nil
}

func (s *authService) ChangePassword(ctx context.Context, identity *models.Identity, input ChangePasswordInput) error {
	if identity == nil {
		return ErrUnauthenticated
	}
	if err := validateInput(input); err != nil {
		return err
	}

	user, err := s.loadUser(ctx, identity.UserID)
	if err != nil {
		return err
	}
	if err := s.checkPassword(user, input.OldPassword); err != nil {
		return err
	}
	if input.NewPassword != input.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return s.setPassword(ctx, user.ID, input.NewPassword)
}

func (s *authService) DeleteAccount(ctx context.Context, identity *models.Identity, input DeleteAccountInput) error {
	if identity == nil {
		return ErrUnauthenticated
	}
	if err := validateInput(input); err != nil {
		return err
	}

	user, err := s.loadUser(ctx, identity.UserID)
	if err != nil {
		return err
	}
	if err := s.checkPassword(user, input.Password); err != nil {
		return err
	}

	// Ключи файлов собираем до удаления: строки club_media уйдут каскадом.
	blobKeys, err := s.mediaRepo.ListFilenamesByUploader(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to list media of user %d: %w", user.ID, err)
	}
	if user.AvatarKey != nil && *user.AvatarKey != "" {
		blobKeys = append(blobKeys, *user.AvatarKey)
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user %d: %w", user.ID, err)
	}

	deleteBlobs(ctx, s.uploader, s.logger, blobKeys)
	s.logger.InfoContext(ctx, "account deleted", slog.Int("user_id", user.ID))
	return nil
}

// ForgotPassword answers the same way whether or not the email is known.
func (s *authService) ForgotPassword(ctx context.Context, input ForgotPasswordInput) error {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if err := validateInput(input); err != nil {
		return err
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("failed to find user by email: %w", err)
	}

	token, err := s.tokens.IssuePasswordReset(user.ID)
	if err != nil {
		return err
	}

	if err := s.emailService.SendPasswordResetEmail(ctx, user.Email, user.Username, token); err != nil {
		s.logger.ErrorContext(ctx, "failed to send password reset email", slog.Int("user_id", user.ID), slog.Any("error", err))
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	if err := validateInput(input); err != nil {
		return err
	}
	userID, err := s.tokens.ParsePasswordReset(input.Token)
	if err != nil {
		return ErrInvalidResetToken
	}
	if err := s.setPassword(ctx, userID, input.Password); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	return nil
}

func (s *authService) loadUser(ctx context.Context, userID int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	return user, nil
}

func (s *authService) checkPassword(user *models.User, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrBadCredentials
		}
		return fmt.Errorf("failed to compare password hash: %w", err)
	}
	return nil
}

func (s *authService) setPassword(ctx context.Context, userID int, password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, string(hashedPassword)); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update password for user %d: %w", userID, err)
	}
	return nil
}
