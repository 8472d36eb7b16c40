package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"storefront_client/internal/api"
	"storefront_client/internal/domain"
	"storefront_client/internal/session"
)

type Credentials struct {
	Email    string `json:"email_address" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignupRequest struct {
	Email                string      `json:"email_address" validate:"required,email"`
	Password             string      `json:"password" validate:"required,min=8"`
	PasswordConfirmation string      `json:"password_confirmation" validate:"required,eqfield=Password"`
	OrgID                int         `json:"org_id"`
	Role                 domain.Role `json:"role"`
}

type signupEnvelope struct {
	User SignupRequest `json:"user"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type passwordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Signup(ctx context.Context, req SignupRequest) (*domain.User, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*domain.User, error)
	UpdateMe(ctx context.Context, updates map[string]interface{}) (*domain.User, error)
	ChangePassword(ctx context.Context, current, newPassword string) error
}

type authService struct {
	client   *api.Client
	session  *session.Manager
	validate *validator.Validate
	log      *logrus.Logger
}

func NewAuthService(client *api.Client, sess *session.Manager, logger *logrus.Logger) AuthService {
	return &authService{
		client:   client,
		session:  sess,
		validate: validator.New(),
		log:      logger,
	}
}

// Login authenticates and stores the returned token and profile in the
// session manager.
func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	creds := Credentials{Email: email, Password: password}
	if err := s.validate.Struct(creds); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", err)
	}

	s.log.Infof("AuthService: logging in as %s", email)
	var resp authResponse
	if err := s.client.Post(ctx, "/login", creds, &resp); err != nil {
		s.log.Warnf("AuthService: login failed for %s: %v", email, err)
		return nil, err
	}

	s.session.SetToken(resp.Token)
	s.session.SetUser(&resp.User)
	s.log.Infof("AuthService: logged in as %s (role %s)", resp.User.Email, resp.User.Role)
	return &resp.User, nil
}

// Signup registers a new account and, like Login, establishes the session.
func (s *authService) Signup(ctx context.Context, req SignupRequest) (*domain.User, error) {
	if req.Role == "" {
		req.Role = domain.RoleCustomer
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid signup request: %w", err)
	}

	s.log.Infof("AuthService: signing up %s", req.Email)
	var resp authResponse
	if err := s.client.Post(ctx, "/signup", signupEnvelope{User: req}, &resp); err != nil {
		s.log.Warnf("AuthService: signup failed for %s: %v", req.Email, err)
		return nil, err
	}

	s.session.SetToken(resp.Token)
	s.session.SetUser(&resp.User)
	return &resp.User, nil
}

// Logout tells the server to revoke the token, then tears the session down
// locally regardless of the server's answer.
func (s *authService) Logout(ctx context.Context) error {
	err := s.client.Delete(ctx, "/logout", nil)
	if err != nil {
		s.log.Warnf("AuthService: server logout failed (clearing session anyway): %v", err)
	}
	s.session.ForceLogout()
	return err
}

// Me fetches the current profile. When the fetch fails but a token still
// exists, the cached projection is returned as a fallback.
func (s *authService) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := s.client.Get(ctx, "/me", &user); err != nil {
		if cached := s.session.User(); cached != nil && s.session.HasValidToken() {
			s.log.Warnf("AuthService: profile fetch failed, using cached profile: %v", err)
			return cached, nil
		}
		return nil, err
	}
	s.session.SetUser(&user)
	return &user, nil
}

func (s *authService) UpdateMe(ctx context.Context, updates map[string]interface{}) (*domain.User, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields provided for update")
	}
	var user domain.User
	if err := s.client.Put(ctx, "/me", updates, &user); err != nil {
		return nil, err
	}
	s.session.SetUser(&user)
	return &user, nil
}

func (s *authService) ChangePassword(ctx context.Context, current, newPassword string) error {
	change := passwordChange{CurrentPassword: current, NewPassword: newPassword}
	if err := s.validate.Struct(change); err != nil {
		return fmt.Errorf("invalid password change: %w", err)
	}
	return s.client.Put(ctx, "/me/password", change, nil)
}
