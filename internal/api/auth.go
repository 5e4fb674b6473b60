package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/nhle/trainadmin/internal/model"
)

// AuthService signs users in and up against the backend.
type AuthService struct {
	client *Client
}

// NewAuthService creates an auth service on top of client.
func NewAuthService(client *Client) *AuthService {
	return &AuthService{client: client}
}

// SignIn exchanges email and password for a token pair. On success the
// access token is installed on the client.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (model.Tokens, error) {
	return s.authenticate(ctx, "/auth/signin",
		model.Credentials{Email: email, Password: password},
		"Sign-in failed", "Failed to sign in")
}

// SignUp registers a new account and returns its token pair. Name is optional.
func (s *AuthService) SignUp(ctx context.Context, creds model.Credentials) (model.Tokens, error) {
	return s.authenticate(ctx, "/auth/signup", creds,
		"Sign-up failed", "Failed to sign up")
}

// authenticate posts creds to path. Every failure is an *AuthError: the
// server's message when it sent one, rejected otherwise, unreachable for
// transport failures.
func (s *AuthService) authenticate(
	ctx context.Context,
	path string,
	creds model.Credentials,
	rejected, unreachable string,
) (model.Tokens, error) {
	var tokens model.Tokens
	err := s.client.do(ctx, request{
		method:   http.MethodPost,
		path:     path,
		body:     creds,
		result:   &tokens,
		public:   true,
		fallback: rejected,
	})
	if err != nil {
		var netErr *NetworkError
		if errors.As(err, &netErr) || errors.Is(err, context.Canceled) ||
			errors.Is(err, context.DeadlineExceeded) {
			return model.Tokens{}, &AuthError{Message: unreachable, Err: err}
		}
		return model.Tokens{}, &AuthError{Message: Message(err), Err: err}
	}

	s.client.SetToken(tokens.AccessToken)
	return tokens, nil
}
