package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/mentorlink/sphere-api/internal/core/domain"
	"github.com/mentorlink/sphere-api/internal/core/ports"
)

// Mailer abstracts the outbound mail transport (SMTP in production).
type Mailer interface {
	SendVerificationLink(ctx context.Context, to, token string) error
	SendPasswordResetLink(ctx context.Context, to, token string) error
}

// AuthService implements registration, login, email verification, and
// password reset. It is the only component enforcing invariants beyond
// field presence.
type AuthService struct {
	repo   ports.UserRepository
	tokens *TokenIssuer
	mailer Mailer
	log    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens *TokenIssuer, mailer Mailer, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, mailer: mailer, log: log}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.Username == "" || input.Password == "" || input.Email == "" {
		return nil, domain.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:       input.Username,
		Email:          input.Email,
		PasswordHash:   string(hash),
		IsMentor:       input.IsMentor,
		IsStudent:      input.IsStudent,
		IsVerified:     false,
		ProfilePicture: input.ProfilePicture,
		Bio:            input.Bio,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Mint(Claims{UserID: created.ID, Email: created.Email}, PurposeVerifyEmail, VerifyTokenTTL)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", created.ID).Msg("failed to mint verification token")
		return created, nil
	}

	// Registration has already succeeded at this point; a failed mail send
	// is logged but does not roll back the created user.
	if err := s.mailer.SendVerificationLink(ctx, created.Email, token); err != nil {
		s.log.Warn().Err(err).Str("user_id", created.ID).Msg("failed to send verification mail")
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidInput
	}

	// Unknown username and wrong password are deliberately indistinguishable
	// to the caller. Storage faults are not: they surface as 500, not 401.
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Mint(Claims{
		UserID:     user.ID,
		Username:   user.Username,
		Email:      user.Email,
		IsMentor:   user.IsMentor,
		IsStudent:  user.IsStudent,
		IsVerified: user.IsVerified,
	}, PurposeLogin, LoginTokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("mint login token: %w", err)
	}

	return token, user, nil
}

// VerifyEmail flips the verification flag for the user embedded in token.
// Re-applying a still-valid token is harmless.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.tokens.Verify(token, PurposeVerifyEmail)
	if err != nil {
		return err
	}
	return s.repo.SetVerified(ctx, claims.UserID, true)
}

func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return domain.ErrInvalidInput
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := s.tokens.Mint(Claims{UserID: user.ID, Email: user.Email}, PurposePasswordReset, ResetTokenTTL)
	if err != nil {
		return fmt.Errorf("mint reset token: %w", err)
	}

	return s.mailer.SendPasswordResetLink(ctx, user.Email, token)
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return domain.ErrInvalidInput
	}

	claims, err := s.tokens.Verify(token, PurposePasswordReset)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.repo.UpdatePasswordHash(ctx, claims.UserID, string(hash))
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}
