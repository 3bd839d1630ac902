package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yourorg/freehold/internal/domain"
	"github.com/yourorg/freehold/internal/domain/mocks"
	"github.com/yourorg/freehold/internal/identity"
	"github.com/yourorg/freehold/internal/mail"
)

type fakeVerifier struct {
	claims *identity.Claims
	err    error
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (*identity.Claims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

type fakeAdmin struct {
	claims map[string]bool
	err    error
}

func (f *fakeAdmin) SetLandlordClaim(_ context.Context, uid string, landlord bool) error {
	if f.err != nil {
		return f.err
	}
	if f.claims == nil {
		f.claims = map[string]bool{}
	}
	f.claims[uid] = landlord
	return nil
}

type fakeMailer struct {
	sent chan mail.Message
	err  error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan mail.Message, 1)}
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	f.sent <- msg
	return f.err
}

func waitForMail(t *testing.T, m *fakeMailer) mail.Message {
	t.Helper()
	select {
	case msg := <-m.sent:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for welcome mail")
		return mail.Message{}
	}
}

func TestRegisterCreatesUserAndSetsClaim(t *testing.T) {
	store := mocks.NewMemStore()
	admin := &fakeAdmin{}
	mailer := newFakeMailer()

	svc := NewAuthService(store.Users(), &fakeVerifier{}, admin, mailer, "noreply@freehold.test", nil)

	principal := &identity.Claims{UID: "uid-1", Email: "owner@example.com"}
	result, err := svc.Register(context.Background(), principal, RegisterInput{
		FirstName: "Olive",
		LastName:  "Owner",
		Role:      domain.RoleLandlord,
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if result.UID != "uid-1" {
		t.Errorf("expected uid uid-1, got %s", result.UID)
	}
	if result.User.Email != "owner@example.com" || result.User.Role != domain.RoleLandlord {
		t.Errorf("unexpected user echo: %+v", result.User)
	}

	user, err := store.Users().FindByEmail(context.Background(), "owner@example.com")
	if err != nil {
		t.Fatalf("user record not created: %v", err)
	}
	if user.Role != domain.RoleLandlord {
		t.Errorf("expected landlord role, got %s", user.Role)
	}

	if !admin.claims["uid-1"] {
		t.Error("expected landlord claim to be set on the identity record")
	}

	msg := waitForMail(t, mailer)
	if msg.To != "owner@example.com" {
		t.Errorf("welcome mail went to %s", msg.To)
	}
	if msg.Subject != "Thank you for Registering at FreeHold!" {
		t.Errorf("unexpected mail subject: %q", msg.Subject)
	}
}

func TestRegisterDefaultsToTenantRole(t *testing.T) {
	store := mocks.NewMemStore()
	admin := &fakeAdmin{}
	mailer := newFakeMailer()

	svc := NewAuthService(store.Users(), &fakeVerifier{}, admin, mailer, "noreply@freehold.test", nil)

	result, err := svc.Register(context.Background(), &identity.Claims{UID: "uid-2", Email: "t@example.com"}, RegisterInput{
		Role: domain.Role("admin"),
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if result.User.Role != domain.RoleTenant {
		t.Errorf("expected unknown role to default to tenant, got %s", result.User.Role)
	}
	if admin.claims["uid-2"] {
		t.Error("tenant registration must not set the landlord claim")
	}
	waitForMail(t, mailer)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := mocks.NewMemStore()
	store.SeedLandlord("owner@example.com")
	admin := &fakeAdmin{}

	svc := NewAuthService(store.Users(), &fakeVerifier{}, admin, newFakeMailer(), "noreply@freehold.test", nil)

	_, err := svc.Register(context.Background(), &identity.Claims{UID: "uid-3", Email: "owner@example.com"}, RegisterInput{})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if len(admin.claims) != 0 {
		t.Error("claim must not be set when the user record was not created")
	}
}

func TestRegisterClaimFailureSurfaces(t *testing.T) {
	store := mocks.NewMemStore()
	admin := &fakeAdmin{err: errors.New("identity provider unavailable")}

	svc := NewAuthService(store.Users(), &fakeVerifier{}, admin, newFakeMailer(), "noreply@freehold.test", nil)

	_, err := svc.Register(context.Background(), &identity.Claims{UID: "uid-4", Email: "x@example.com"}, RegisterInput{Role: domain.RoleLandlord})
	if err == nil {
		t.Fatal("expected registration to fail when the claim cannot be set")
	}
}

func TestRegisterMailFailureIsSwallowed(t *testing.T) {
	store := mocks.NewMemStore()
	mailer := newFakeMailer()
	mailer.err = errors.New("mail api down")

	svc := NewAuthService(store.Users(), &fakeVerifier{}, &fakeAdmin{}, mailer, "noreply@freehold.test", nil)

	_, err := svc.Register(context.Background(), &identity.Claims{UID: "uid-5", Email: "y@example.com"}, RegisterInput{})
	if err != nil {
		t.Fatalf("mail failure must not fail registration: %v", err)
	}
	waitForMail(t, mailer)
}

func TestLoginLandlordClaim(t *testing.T) {
	store := mocks.NewMemStore()
	store.SeedLandlord("owner@example.com")
	verifier := &fakeVerifier{claims: &identity.Claims{UID: "uid-1", Email: "owner@example.com", Landlord: true}}

	svc := NewAuthService(store.Users(), verifier, &fakeAdmin{}, newFakeMailer(), "noreply@freehold.test", nil)

	result, err := svc.Login(context.Background(), "owner@example.com", "credential")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.Role != domain.RoleLandlord {
		t.Errorf("expected landlord role, got %s", result.Role)
	}
	if result.Token != "credential" {
		t.Errorf("expected the credential to be echoed, got %q", result.Token)
	}
	if result.User.Email != "owner@example.com" {
		t.Errorf("unexpected user echo: %+v", result.User)
	}
}

func TestLoginTenantClaim(t *testing.T) {
	store := mocks.NewMemStore()
	landlord := store.SeedLandlord("owner@example.com")
	property := store.SeedProperty(landlord.ID)
	store.SeedTenant("t@example.com", landlord.ID, property.ID)
	verifier := &fakeVerifier{claims: &identity.Claims{UID: "uid-2", Email: "t@example.com", Landlord: false}}

	svc := NewAuthService(store.Users(), verifier, &fakeAdmin{}, newFakeMailer(), "noreply@freehold.test", nil)

	result, err := svc.Login(context.Background(), "t@example.com", "credential")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.Role != domain.RoleTenant {
		t.Errorf("expected tenant role, got %s", result.Role)
	}
}

func TestLoginBadCredential(t *testing.T) {
	store := mocks.NewMemStore()
	store.SeedLandlord("owner@example.com")
	verifier := &fakeVerifier{err: domain.ErrUnauthenticated}

	svc := NewAuthService(store.Users(), verifier, &fakeAdmin{}, newFakeMailer(), "noreply@freehold.test", nil)

	if _, err := svc.Login(context.Background(), "owner@example.com", "bad"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestLoginEmailMismatch(t *testing.T) {
	store := mocks.NewMemStore()
	store.SeedLandlord("owner@example.com")
	verifier := &fakeVerifier{claims: &identity.Claims{UID: "uid-1", Email: "someone-else@example.com"}}

	svc := NewAuthService(store.Users(), verifier, &fakeAdmin{}, newFakeMailer(), "noreply@freehold.test", nil)

	if _, err := svc.Login(context.Background(), "owner@example.com", "credential"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestLoginUnknownUserRecord(t *testing.T) {
	store := mocks.NewMemStore()
	verifier := &fakeVerifier{claims: &identity.Claims{UID: "uid-1", Email: "ghost@example.com"}}

	svc := NewAuthService(store.Users(), verifier, &fakeAdmin{}, newFakeMailer(), "noreply@freehold.test", nil)

	if _, err := svc.Login(context.Background(), "ghost@example.com", "credential"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
