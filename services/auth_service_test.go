package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/clubhub/mail"
	"github.com/Dosada05/clubhub/models"
	"github.com/Dosada05/clubhub/repositories"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	users    *FakeUserRepository
	media    *FakeMediaRepository
	badges   *FakeBadgeService
	uploader *FakeUploader
	sender   *mail.LogSender
	tokens   TokenService
	svc      *authService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		users:    &FakeUserRepository{},
		media:    &FakeMediaRepository{},
		badges:   &FakeBadgeService{},
		uploader: &FakeUploader{},
		sender:   mail.NewLogSender(discardLogger()),
		tokens:   NewTokenService("test-secret", time.Hour),
	}
	emailService, err := NewEmailService(f.sender, "http://clubhub.test")
	require.NoError(t, err)

	svc := NewAuthService(f.users, f.media, f.badges, f.tokens, emailService, f.uploader, discardLogger()).(*authService)
	svc.bcryptCost = bcrypt.MinCost
	f.svc = svc
	return f
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthService_Register(t *testing.T) {
	t.Run("creates user and fires registration hook", func(t *testing.T) {
		f := newAuthFixture(t)
		var stored *models.User
		f.users.CreateFunc = func(ctx context.Context, user *models.User) error {
			user.ID = 7
			stored = user
			return nil
		}

		user, err := f.svc.Register(context.Background(), RegisterInput{
			Email:    "  Aluno@IFPB.edu.br ",
			Username: "202511110001",
			Password: "123456",
		})
		require.NoError(t, err)

		assert.Equal(t, 7, user.ID)
		assert.Equal(t, "aluno@ifpb.edu.br", user.Email)
		assert.Empty(t, user.PasswordHash, "hash must not leave the service")
		require.NotNil(t, stored)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("123456")))
		assert.Equal(t, []string{"OnRegistered"}, f.badges.Trace())
	})

	t.Run("maps conflicts", func(t *testing.T) {
		for repoErr, want := range map[error]error{
			repositories.ErrUserEmailConflict:    ErrUserEmailConflict,
			repositories.ErrUserUsernameConflict: ErrUserUsernameConflict,
		} {
			f := newAuthFixture(t)
			f.users.CreateFunc = func(ctx context.Context, user *models.User) error { return repoErr }

			_, err := f.svc.Register(context.Background(), RegisterInput{
				Email:    gofakeit.Email(),
				Username: "aluno01",
				Password: "123456",
			})
			assert.ErrorIs(t, err, want)
			assert.ErrorIs(t, err, ErrAlreadyExists)
			assert.Empty(t, f.badges.Trace())
		}
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.svc.Register(context.Background(), RegisterInput{
			Email:    "not-an-email",
			Username: "way_too_long_username",
			Password: "123",
		})

		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Contains(t, vErr.Fields, "email")
		assert.Contains(t, vErr.Fields, "username")
		assert.Contains(t, vErr.Fields, "password")
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Empty(t, f.users.Trace())
	})
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture(t)
	f.users.GetByUsernameFunc = func(ctx context.Context, username string) (*models.User, error) {
		if username != "membro" {
			return nil, repositories.ErrUserNotFound
		}
		return &models.User{ID: 3, Username: "membro", PasswordHash: hashed(t, "123456")}, nil
	}

	t.Run("issues a session token", func(t *testing.T) {
		res, err := f.svc.Login(context.Background(), LoginInput{Username: "membro", Password: "123456"})
		require.NoError(t, err)
		assert.Empty(t, res.User.PasswordHash)

		identity, err := f.tokens.ParseSession(res.Token)
		require.NoError(t, err)
		assert.Equal(t, models.Identity{UserID: 3, Username: "membro"}, *identity)
		assert.True(t, res.ExpiresAt.After(time.Now()))
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.svc.Login(context.Background(), LoginInput{Username: "membro", Password: "654321"})
		assert.ErrorIs(t, err, ErrBadCredentials)
	})

	t.Run("unknown user looks the same as wrong password", func(t *testing.T) {
		_, err := f.svc.Login(context.Background(), LoginInput{Username: "ghost", Password: "123456"})
		assert.ErrorIs(t, err, ErrBadCredentials)
	})
}

func TestAuthService_ResolveIdentity(t *testing.T) {
	f := newAuthFixture(t)
	token, _, err := f.tokens.IssueSession(models.Identity{UserID: 9, Username: "old-name"})
	require.NoError(t, err)

	t.Run("reloads the username", func(t *testing.T) {
		f.users.GetByIDFunc = func(ctx context.Context, id int) (*models.User, error) {
			return &models.User{ID: id, Username: "new-name"}, nil
		}
		identity, err := f.svc.ResolveIdentity(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, "new-name", identity.Username)
	})

	t.Run("deleted user", func(t *testing.T) {
		f.users.GetByIDFunc = nil
		_, err := f.svc.ResolveIdentity(context.Background(), token)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := f.svc.ResolveIdentity(context.Background(), "not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	identity := &models.Identity{UserID: 4, Username: "aluno"}

	tests := []struct {
		name    string
		input   ChangePasswordInput
		wantErr error
	}{
		{
			name:  "success",
			input: ChangePasswordInput{OldPassword: "123456", NewPassword: "abcdef", ConfirmPassword: "abcdef"},
		},
		{
			name:    "wrong old password",
			input:   ChangePasswordInput{OldPassword: "000000", NewPassword: "abcdef", ConfirmPassword: "abcdef"},
			wantErr: ErrBadCredentials,
		},
		{
			name:    "confirmation mismatch",
			input:   ChangePasswordInput{OldPassword: "123456", NewPassword: "abcdef", ConfirmPassword: "abcdeg"},
			wantErr: ErrPasswordMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			f.users.GetByIDFunc = func(ctx context.Context, id int) (*models.User, error) {
				return &models.User{ID: id, PasswordHash: hashed(t, "123456")}, nil
			}
			var newHash string
			f.users.UpdatePasswordFunc = func(ctx context.Context, id int, passwordHash string) error {
				newHash = passwordHash
				return nil
			}

			err := f.svc.ChangePassword(context.Background(), identity, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, newHash)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(newHash), []byte(tt.input.NewPassword)))
		})
	}

	t.Run("guest", func(t *testing.T) {
		f := newAuthFixture(t)
		err := f.svc.ChangePassword(context.Background(), nil, ChangePasswordInput{})
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestAuthService_DeleteAccount(t *testing.T) {
	f := newAuthFixture(t)
	avatar := "avatars/aluno.png"
	f.users.GetByIDFunc = func(ctx context.Context, id int) (*models.User, error) {
		return &models.User{ID: id, PasswordHash: hashed(t, "123456"), AvatarKey: &avatar}, nil
	}
	f.media.ListFilenamesByUploaderFunc = func(ctx context.Context, userID int) ([]string, error) {
		return []string{"clubs/1/a.jpg", "clubs/2/b.mp4"}, nil
	}

	err := f.svc.DeleteAccount(context.Background(), &models.Identity{UserID: 5}, DeleteAccountInput{Password: "123456"})
	require.NoError(t, err)

	assert.Equal(t, []string{"GetByID", "Delete"}, f.users.Trace())
	assert.ElementsMatch(t, []string{"clubs/1/a.jpg", "clubs/2/b.mp4", avatar}, f.uploader.Deleted())
}

func TestAuthService_DeleteAccount_WrongPasswordKeepsEverything(t *testing.T) {
	f := newAuthFixture(t)
	f.users.GetByIDFunc = func(ctx context.Context, id int) (*models.User, error) {
		return &models.User{ID: id, PasswordHash: hashed(t, "123456")}, nil
	}

	err := f.svc.DeleteAccount(context.Background(), &models.Identity{UserID: 5}, DeleteAccountInput{Password: "nope"})
	assert.ErrorIs(t, err, ErrBadCredentials)
	assert.Equal(t, []string{"GetByID"}, f.users.Trace())
	assert.Empty(t, f.uploader.Deleted())
}

func TestAuthService_PasswordReset(t *testing.T) {
	f := newAuthFixture(t)
	f.users.GetByEmailFunc = func(ctx context.Context, email string) (*models.User, error) {
		if email != "lider.prog@ifpb.edu.br" {
			return nil, repositories.ErrUserNotFound
		}
		return &models.User{ID: 11, Email: email, Username: "lider"}, nil
	}
	var updatedFor int
	f.users.UpdatePasswordFunc = func(ctx context.Context, id int, passwordHash string) error {
		updatedFor = id
		return nil
	}

	require.NoError(t, f.svc.ForgotPassword(context.Background(), ForgotPasswordInput{Email: "nobody@ifpb.edu.br"}))
	assert.Empty(t, f.sender.Sent(), "unknown email must not send anything")

	require.NoError(t, f.svc.ForgotPassword(context.Background(), ForgotPasswordInput{Email: "Lider.Prog@ifpb.edu.br"}))
	sent := f.sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "lider.prog@ifpb.edu.br", sent[0].To)

	link := "http://clubhub.test/reset-password?token="
	idx := strings.Index(sent[0].HTML, link)
	require.GreaterOrEqual(t, idx, 0, "email must carry the reset link")
	token := sent[0].HTML[idx+len(link):]
	token = token[:strings.IndexAny(token, `"<& `)]

	require.NoError(t, f.svc.ResetPassword(context.Background(), ResetPasswordInput{Token: token, Password: "novasenha"}))
	assert.Equal(t, 11, updatedFor)

	err := f.svc.ResetPassword(context.Background(), ResetPasswordInput{Token: "forged", Password: "novasenha"})
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestAuthService_ResetPassword_SessionTokenRejected(t *testing.T) {
	f := newAuthFixture(t)
	session, _, err := f.tokens.IssueSession(models.Identity{UserID: 1, Username: "x"})
	require.NoError(t, err)

	err = f.svc.ResetPassword(context.Background(), ResetPasswordInput{Token: session, Password: "novasenha"})
	assert.ErrorIs(t, err, ErrInvalidResetToken)
	assert.Empty(t, f.users.Trace())
}
