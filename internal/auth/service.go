package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/foodshare/foodshare/internal/shared"
)

// ValidateOptions selects how strictly a presented token is checked.
type ValidateOptions struct {
	// RequireFreshSignature verifies signature and expiry before the store
	// lookup. When false only table membership is checked.
	RequireFreshSignature bool
}

var (
	// FullCheck verifies signature, expiry and store membership.
	FullCheck = ValidateOptions{RequireFreshSignature: true}
	// StoreOnly verifies store membership only.
	StoreOnly = ValidateOptions{RequireFreshSignature: false}
)

// Service wraps authentication business rules.
type Service struct {
	repo     Repository
	hasher   PasswordHasher
	signer   *TokenSigner
	throttle Throttle
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs a new Service.
func NewService(repo Repository, hasher PasswordHasher, signer *TokenSigner, throttle Throttle, logger *slog.Logger) *Service {
	if throttle == nil {
		throttle = NewMemoryThrottle(DefaultThrottleWindow)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		hasher:   hasher,
		signer:   signer,
		throttle: throttle,
		logger:   logger,
		now:      time.Now,
	}
}

// SessionLifetime exposes the configured token lifetime.
func (s *Service) SessionLifetime() time.Duration {
	return s.signer.Lifetime()
}

// Register hashes the password and stores a new user.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	in.Normalize()
	if err := in.Check(); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	user, err := s.repo.CreateUser(ctx, in.Username, in.Email, hash)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", slog.Int64("user_id", user.ID))
	return user, nil
}

// Login verifies credentials and issues a stored session token. The throttle
// is consulted once the user is known and before the password is checked.
func (s *Service) Login(ctx context.Context, in LoginInput) (string, error) {
	now := s.now()

	user, err := s.repo.FindByUsername(ctx, NormalizeUsername(in.Username))
	if err != nil {
		return "", err
	}

	key := ThrottleKey(user.ID)
	allowed, err := s.throttle.Allow(ctx, key, now)
	if err != nil {
		s.logger.Warn("login throttle unavailable", slog.Any("error", err))
	} else if !allowed {
		return "", shared.ErrThrottled
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return "", shared.ErrInvalidCredentials
	}

	token, err := s.signer.Sign(shared.Identity{ID: user.ID, Username: user.Username}, now)
	if err != nil {
		return "", err
	}
	if err := s.repo.CreateToken(ctx, user.ID, token, now); err != nil {
		return "", err
	}

	if err := s.throttle.Record(ctx, key, now); err != nil {
		s.logger.Warn("record login throttle", slog.Any("error", err))
	}
	return token, nil
}

// Logout revokes token. A token without a stored row yields shared.ErrNotFound.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return shared.ErrTokenMissing
	}
	removed, err := s.repo.DeleteToken(ctx, token)
	if err != nil {
		return err
	}
	if !removed {
		return shared.ErrNotFound
	}
	return nil
}

// Authenticate validates a presented token according to opts.
func (s *Service) Authenticate(ctx context.Context, token string, opts ValidateOptions) (shared.Identity, error) {
	if token == "" {
		return shared.Identity{}, shared.ErrTokenMissing
	}

	var identity shared.Identity
	if opts.RequireFreshSignature {
		var err error
		identity, err = s.signer.Parse(token)
		if err != nil {
			return shared.Identity{}, err
		}
	}

	row, err := s.repo.FindToken(ctx, token)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.Identity{}, fmt.Errorf("%w: revoked", shared.ErrTokenInvalid)
		}
		return shared.Identity{}, err
	}

	if !opts.RequireFreshSignature {
		return shared.Identity{ID: row.UserID}, nil
	}
	if row.UserID != identity.ID {
		return shared.Identity{}, shared.ErrTokenInvalid
	}
	return identity, nil
}

// SweepExpired deletes every token row older than one session lifetime.
func (s *Service) SweepExpired(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.signer.Lifetime())
	return s.repo.DeleteTokensBefore(ctx, cutoff)
}
