package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/bus-complaint-service/internal/auth"
	"github.com/spec-kit/bus-complaint-service/internal/config"
	"github.com/spec-kit/bus-complaint-service/internal/domain"
	"github.com/spec-kit/bus-complaint-service/internal/events"
)

type authFixture struct {
	svc     *AuthService
	users   *memUserRepo
	sink    *recordingSink
	revoker *memRevoker
}

func newAuthFixture(t *testing.T, sinkSucceeds bool) *authFixture {
	t.Helper()

	users := &memUserRepo{}
	sink := newRecordingSink(sinkSucceeds)
	revoker := newMemRevoker()

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 15,
			BcryptCost:            4, // MinCost keeps the suite fast
		},
	}

	svc := NewAuthService(cfg, AuthDependencies{
		UserRepo:   users,
		Sink:       sink,
		Revoker:    revoker,
		Dispatcher: events.NewInMemoryDispatcher(),
	})
	return &authFixture{svc: svc, users: users, sink: sink, revoker: revoker}
}

func TestRegisterStoresHashNotPlaintext(t *testing.T) {
	f := newAuthFixture(t, true)

	result, err := f.svc.Register(context.Background(), "Ann", "a@x.com", "secret-pass", domain.RoleStudent)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if result.User.PasswordHash == "secret-pass" {
		t.Fatalf("plaintext password stored")
	}
	if err := auth.ComparePassword(result.User.PasswordHash, "secret-pass"); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected session token")
	}
	if !result.WelcomeSent {
		t.Fatalf("expected welcome mail to be sent")
	}
	mail, ok := f.sink.last()
	if !ok || mail.recipient != "a@x.com" {
		t.Fatalf("expected welcome mail to a@x.com, got %+v", mail)
	}
}

func TestRegisterDuplicateEmailRejected(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, "Ann", "a@x.com", "pw-one", domain.RoleStudent); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := f.svc.Register(ctx, "Ann Again", "a@x.com", "pw-two", domain.RoleStudent)
	if err == nil {
		t.Fatalf("expected conflict on duplicate email")
	}
}

// uniqueViolationUserRepo simulates losing an insert race: the email passes
// the pre-insert lookup but the unique index rejects the write.
type uniqueViolationUserRepo struct {
	*memUserRepo
}

func (r *uniqueViolationUserRepo) Create(context.Context, *domain.User) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_idx"}
}

func TestRegisterInsertRaceSurfacesConflict(t *testing.T) {
	f := newAuthFixture(t, true)
	f.svc.users = &uniqueViolationUserRepo{memUserRepo: f.users}

	_, err := f.svc.Register(context.Background(), "Ann", "a@x.com", "pw", domain.RoleStudent)
	if code := domainCode(t, err); code != "CONFLICT" {
		t.Fatalf("expected CONFLICT on unique violation, got %s", code)
	}
}

func TestListStudents(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, "Ann", "a@x.com", "pw", domain.RoleStudent); err != nil {
		t.Fatalf("register student: %v", err)
	}
	if _, err := f.svc.Register(ctx, "Root", "admin@x.com", "pw", domain.RoleAdmin); err != nil {
		t.Fatalf("register admin: %v", err)
	}

	students, err := f.svc.ListStudents(ctx)
	if err != nil {
		t.Fatalf("ListStudents: %v", err)
	}
	if len(students) != 1 {
		t.Fatalf("expected 1 student, got %d", len(students))
	}
	if students[0].Email != "a@x.com" || students[0].Role != domain.RoleStudent {
		t.Fatalf("unexpected student entry: %+v", students[0])
	}
}

func TestRegisterUnknownRoleRejected(t *testing.T) {
	f := newAuthFixture(t, true)

	_, err := f.svc.Register(context.Background(), "Ann", "a@x.com", "pw", domain.Role("superuser"))
	if err == nil {
		t.Fatalf("expected validation error for unknown role")
	}
}

func TestRegisterDefaultsToStudentRole(t *testing.T) {
	f := newAuthFixture(t, true)

	result, err := f.svc.Register(context.Background(), "Ann", "a@x.com", "pw", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if result.User.Role != domain.RoleStudent {
		t.Fatalf("expected student role, got %s", result.User.Role)
	}
}

func TestRegisterSucceedsWhenWelcomeMailFails(t *testing.T) {
	f := newAuthFixture(t, false)

	result, err := f.svc.Register(context.Background(), "Ann", "a@x.com", "pw", domain.RoleStudent)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if result.WelcomeSent {
		t.Fatalf("expected welcome mail failure to be reported")
	}
	if result.User.ID == "" {
		t.Fatalf("account must be created despite mail failure")
	}
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, "Ann", "a@x.com", "secret-pass", domain.RoleAdmin); err != nil {
		t.Fatalf("Register: %v", err)
	}

	result, err := f.svc.Login(ctx, "a@x.com", "secret-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.User.Role != domain.RoleAdmin {
		t.Fatalf("expected role in login result, got %s", result.User.Role)
	}
	if result.Token == "" {
		t.Fatalf("expected session token")
	}

	if _, err := f.svc.Login(ctx, "a@x.com", "wrong"); err == nil {
		t.Fatalf("expected rejection for wrong password")
	}
	if _, err := f.svc.Login(ctx, "nobody@x.com", "secret-pass"); err == nil {
		t.Fatalf("expected rejection for unknown email")
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, "Ann", "a@x.com", "pw", domain.RoleStudent)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	claims, err := f.svc.TokenManager().ParseToken(reg.Token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if err := f.svc.Logout(ctx, claims); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	revoked, err := f.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if !revoked {
		t.Fatalf("expected token jti %s to be revoked", claims.ID)
	}
}
