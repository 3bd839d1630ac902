package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/yourorg/freehold/internal/domain"
	"github.com/yourorg/freehold/internal/identity"
	"github.com/yourorg/freehold/internal/mail"
)

// mailSendTimeout bounds the detached welcome-mail delivery.
const mailSendTimeout = 10 * time.Second

// AuthService handles registration and login. Credentials themselves live in
// the external identity provider; this service keeps the user record and the
// landlord authorization claim in sync with it.
type AuthService struct {
	users    domain.UserRepository
	verifier identity.Verifier
	admin    identity.Admin
	mailer   mail.Mailer
	mailFrom string
	logger   *slog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users domain.UserRepository,
	verifier identity.Verifier,
	admin identity.Admin,
	mailer mail.Mailer,
	mailFrom string,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthService{
		users:    users,
		verifier: verifier,
		admin:    admin,
		mailer:   mailer,
		mailFrom: mailFrom,
		logger:   logger,
	}
}

// RegisterInput carries the profile fields of a registration request. The
// identity itself (uid, email) comes from the verified credential.
type RegisterInput struct {
	FirstName string
	LastName  string
	Role      domain.Role
}

// RegisterResult is the registration response.
type RegisterResult struct {
	UID  string       `json:"uid"`
	User RegisterUser `json:"user"`
}

// RegisterUser echoes the registered identity.
type RegisterUser struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"type"`
}

// LoginResult is the login response.
type LoginResult struct {
	Token string      `json:"token"`
	User  LoginUser   `json:"user"`
	Role  domain.Role `json:"type"`
}

// LoginUser echoes the matched user record.
type LoginUser struct {
	Email string `json:"email"`
}

// Register creates the user record for a freshly provisioned identity, sets
// the landlord claim on the identity record, and sends a welcome mail.
//
// The mail send is fire-and-forget: it runs detached and a failure is logged,
// never surfaced to the caller.
func (s *AuthService) Register(ctx context.Context, principal *identity.Claims, input RegisterInput) (*RegisterResult, error) {
	role := input.Role
	if role != domain.RoleLandlord {
		role = domain.RoleTenant
	}

	user := &domain.User{
		Email:     principal.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      role,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.ErrAlreadyExists
		}
		s.logger.Error("failed to create user record",
			slog.String("email", principal.Email),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if err := s.admin.SetLandlordClaim(ctx, principal.UID, role == domain.RoleLandlord); err != nil {
		s.logger.Error("failed to set landlord claim",
			slog.String("uid", principal.UID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	msg := mail.WelcomeMessage(principal.Email, s.mailFrom)
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), mailSendTimeout)
		defer cancel()
		if err := s.mailer.Send(sendCtx, msg); err != nil {
			s.logger.Error("failed to send welcome mail",
				slog.String("to", msg.To),
				slog.String("error", err.Error()),
			)
		}
	}()

	s.logger.Info("user registered",
		slog.String("uid", principal.UID),
		slog.String("email", principal.Email),
		slog.String("role", string(role)),
	)

	return &RegisterResult{
		UID: principal.UID,
		User: RegisterUser{
			Email: principal.Email,
			Role:  role,
		},
	}, nil
}

// Login verifies the credential through the identity provider's signing keys
// and returns a role-tagged response. The landlord claim is read only after
// signature and issuer verification. Every failure collapses to
// ErrUnauthenticated.
func (s *AuthService) Login(ctx context.Context, email, credential string) (*LoginResult, error) {
	claims, err := s.verifier.Verify(ctx, credential)
	if err != nil {
		s.logger.Info("login with unverifiable credential", slog.String("email", email))
		return nil, domain.ErrUnauthenticated
	}

	// The credential must belong to the account being logged into.
	if !strings.EqualFold(claims.Email, email) {
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Info("login for unknown user record", slog.String("email", email))
		return nil, domain.ErrUnauthenticated
	}

	role := domain.RoleTenant
	if claims.Landlord {
		role = domain.RoleLandlord
	}

	s.logger.Info("user logged in",
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email),
		slog.String("role", string(role)),
	)

	return &LoginResult{
		Token: credential,
		User:  LoginUser{Email: user.Email},
		Role:  role,
	}, nil
}
