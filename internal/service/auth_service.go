package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/bus-complaint-service/internal/auth"
	"github.com/spec-kit/bus-complaint-service/internal/config"
	"github.com/spec-kit/bus-complaint-service/internal/domain"
	"github.com/spec-kit/bus-complaint-service/internal/events"
	"github.com/spec-kit/bus-complaint-service/internal/notify"
	"github.com/spec-kit/bus-complaint-service/internal/repository"
	apperrors "github.com/spec-kit/bus-complaint-service/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	sink       notify.Sink
	revoked    auth.Revoker
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Sink       notify.Sink
	Revoker    auth.Revoker
	Dispatcher events.Dispatcher
}

// RegisterResult carries the created account plus the best-effort welcome
// mail outcome; a failed send never fails the registration.
type RegisterResult struct {
	User        *domain.User
	Token       string
	ExpiresAt   time.Time
	WelcomeSent bool
}

// LoginResult carries the authenticated account and its session token. The
// role lets the client route to the right dashboard.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		sink:       deps.Sink,
		revoked:    deps.Revoker,
		dispatcher: deps.Dispatcher,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new account. Email uniqueness is enforced here; only
// the bcrypt hash of the password is ever stored.
func (s *AuthService) Register(ctx context.Context, name, email, password string, role domain.Role) (*RegisterResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password required", nil)
	}
	if role == "" {
		role = domain.RoleStudent
	}
	if !domain.KnownRole(role) {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": role})
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Losing a registration race trips users_email_idx rather than the
		// check above; both cases are the same conflict to the caller.
		if isUniqueViolation(err) {
			return nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	welcomeSent := s.sink.Send(ctx, notify.SubjectWelcome, user.Email, notify.WelcomeBody(user.Email))

	s.publish(ctx, events.Event{
		Type:    events.EventUserRegistered,
		ActorID: user.ID,
		Payload: events.UserRegisteredPayload{
			UserID:      user.ID,
			Email:       user.Email,
			Role:        user.Role,
			WelcomeSent: welcomeSent,
		},
	})

	return &RegisterResult{User: user, Token: token, ExpiresAt: exp, WelcomeSent: welcomeSent}, nil
}

// Login authenticates an account. Unknown emails and bad passwords are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewUnauthorized("invalid email or password")
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid email or password")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token, ExpiresAt: exp}, nil
}

// ListStudents returns every student account, for the admin dashboard.
func (s *AuthService) ListStudents(ctx context.Context) ([]domain.User, error) {
	return s.users.ListByRole(ctx, domain.RoleStudent)
}

// Logout revokes the presented token for the remainder of its lifetime.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if s.revoked == nil || claims == nil || claims.ID == "" {
		return nil
	}
	expiresAt := time.Now()
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return s.revoked.Revoke(ctx, claims.ID, expiresAt)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// isUniqueViolation reports whether err is a Postgres unique-index violation
// (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
