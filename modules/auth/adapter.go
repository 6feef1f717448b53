package auth

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/todo-api/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort is the contract other modules program against to reach
// authentication. Consumers depend on this interface, never on the auth
// module's internals, so tests can substitute their own implementation.
type AuthPort interface {
	ValidateToken(ctx context.Context, token string) (*domain.Claims, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
}

// AuthAdapter satisfies AuthPort by calling the services the auth module
// registered in its container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

// NewAuthAdapter creates an adapter over the auth service container.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{container: container}
}

// call performs one request-reply round trip against a named auth service.
func call[Req any, Resp any](ctx context.Context, a *AuthAdapter, service string, req Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	return nil
}

// ValidateToken verifies an access token and returns the identity it
// carries. Any failure comes back as one opaque error; callers must not
// distinguish between malformed, expired and forged tokens.
func (a *AuthAdapter) ValidateToken(ctx context.Context, token string) (*domain.Claims, error) {
	var resp ValidateTokenResponse
	if err := call(ctx, a, "validate-token", &ValidateTokenRequest{Token: token}, &resp); err != nil {
		return nil, err
	}
	if !resp.Valid {
		return nil, fmt.Errorf("token validation failed: %s", resp.Error)
	}
	return &domain.Claims{
		UserID: resp.UserID,
		Email:  resp.Email,
	}, nil
}

// GetUser loads the profile for a verified user id.
func (a *AuthAdapter) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	var resp GetUserResponse
	if err := call(ctx, a, "get-user", &GetUserRequest{UserID: userID}, &resp); err != nil {
		return nil, err
	}
	return &domain.User{
		ID:        resp.ID,
		Email:     resp.Email,
		Name:      resp.Name,
		CreatedAt: resp.CreatedAt,
	}, nil
}
