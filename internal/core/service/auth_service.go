package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/newsnotify/notification-system/internal/core/domain"
	"github.com/newsnotify/notification-system/internal/core/ports"
	"github.com/newsnotify/notification-system/internal/token"
)

const (
	defaultResetTTL = time.Hour
	resetTokenBytes = 32
)

// AuthConfig carries the immutable settings the auth flows need to build
// email links. Loaded once at startup and passed in, never read from globals.
type AuthConfig struct {
	// BaseURL is the public backend URL; verification links point here.
	BaseURL string
	// FrontendURL is where reset-password links send the user.
	FrontendURL string
	// ResetTTL is how long a password-reset token stays valid.
	ResetTTL time.Duration
}

// AuthService implements the account lifecycle: registration, login,
// email verification and password reset.
type AuthService struct {
	users         ports.UserRepository
	mailer        ports.Mailer
	limiter       ports.RateLimiter
	sessionTokens ports.TokenIssuer
	actionTokens  ports.TokenIssuer
	cfg           AuthConfig
	log           zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	mailer ports.Mailer,
	limiter ports.RateLimiter,
	sessionTokens, actionTokens ports.TokenIssuer,
	cfg AuthConfig,
	log zerolog.Logger,
) *AuthService {
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = defaultResetTTL
	}
	return &AuthService{
		users:         users,
		mailer:        mailer,
		limiter:       limiter,
		sessionTokens: sessionTokens,
		actionTokens:  actionTokens,
		cfg:           cfg,
		log:           log,
	}
}

// Register creates an unverified account and emails a verification link.
// The account is kept even when the email cannot be delivered; the caller
// sees a dependency error and can use resend-verification.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) error {
	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("register: hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         in.Name,
		Surname:      in.Surname,
		Email:        in.Email,
		PasswordHash: string(hash),
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	if err := s.sendVerificationEmail(ctx, created); err != nil {
		s.log.Error().Err(err).Str("user_id", created.ID).Msg("verification email failed")
		return domain.ErrEmailDelivery
	}

	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	return nil
}

// Login authenticates a verified account and returns a session token.
// Unknown email and wrong password produce the same error so the response
// does not reveal which field was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}

	if !user.IsVerified {
		return "", domain.ErrNotVerified
	}

	return s.sessionTokens.Issue(user.ID)
}

// RequestPasswordReset stores a hashed single-use token on the account and
// emails the plaintext token embedded in a reset link. Unknown emails
// return success so the endpoint cannot be used to enumerate accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if !s.allow(ctx, "pwreset:"+email) {
		return domain.ErrTooManyRequests
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Debug().Msg("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("request password reset: %w", err)
	}

	raw := make([]byte, resetTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}
	plaintext := hex.EncodeToString(raw)

	expires := time.Now().UTC().Add(s.cfg.ResetTTL)
	if err := s.users.SetResetToken(ctx, user.ID, hashResetToken(plaintext), expires); err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}

	link := s.cfg.FrontendURL + "/reset-password/" + plaintext
	body := "Click the link to reset your password: " + link
	if err := s.mailer.Send(ctx, []string{user.Email}, "Recover Your Password", body); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("password recovery email failed")
		return domain.ErrEmailDelivery
	}

	s.log.Info().Str("user_id", user.ID).Msg("password reset requested")
	return nil
}

// ResetPassword consumes a reset token. The stored token is matched by its
// hash and must be unexpired; success clears both reset fields so the token
// cannot be replayed.
func (s *AuthService) ResetPassword(ctx context.Context, plaintext, newPassword string) error {
	user, err := s.users.FindByResetToken(ctx, hashResetToken(plaintext), time.Now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidResetToken
		}
		return fmt.Errorf("reset password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("reset password: hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("password reset")
	return nil
}

// VerifyEmail consumes an action token, flips the account to verified and
// returns a fresh session token. Expired and malformed tokens map to
// distinct errors so the client can offer a resend only when it helps.
func (s *AuthService) VerifyEmail(ctx context.Context, actionToken string) (string, error) {
	subjectID, err := s.actionTokens.Verify(actionToken)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return "", domain.ErrVerificationExpired
		}
		return "", domain.ErrTokenInvalid
	}

	user, err := s.users.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrUserNotFound
		}
		return "", fmt.Errorf("verify email: %w", err)
	}

	if user.IsVerified {
		return "", domain.ErrAlreadyVerified
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		return "", fmt.Errorf("verify email: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("email verified")
	return s.sessionTokens.Issue(user.ID)
}

// ResendVerification re-sends the verification email for an unverified account.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	if !s.allow(ctx, "resend:"+email) {
		return domain.ErrTooManyRequests
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("resend verification: %w", err)
	}

	if user.IsVerified {
		return domain.ErrAlreadyVerified
	}

	if err := s.sendVerificationEmail(ctx, user); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("verification email failed")
		return domain.ErrEmailDelivery
	}
	return nil
}

func (s *AuthService) sendVerificationEmail(ctx context.Context, user *domain.User) error {
	actionToken, err := s.actionTokens.Issue(user.ID)
	if err != nil {
		return err
	}
	link := s.cfg.BaseURL + "/api/users/verify-email/" + actionToken
	body := "Click the link to verify your email: " + link
	return s.mailer.Send(ctx, []string{user.Email}, "Confirm Your Email", body)
}

// allow consults the rate limiter, failing open when it is absent or errors.
func (s *AuthService) allow(ctx context.Context, key string) bool {
	if s.limiter == nil {
		return true
	}
	ok, err := s.limiter.Allow(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
		return true
	}
	return ok
}

// hashResetToken is the one-way transform applied before a reset token is
// stored or looked up; the plaintext never touches the database.
func hashResetToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
