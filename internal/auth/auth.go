// Package auth handles account login and token persistence.
package auth

import (
	"context"
	"fmt"

	"budgetchat/internal/config"
	"budgetchat/internal/gateway"
)

// Service authenticates against the gateway and persists the access
// token to the config file for later sessions.
type Service struct {
	gw gateway.Client
}

// NewService creates an auth service over the given gateway client.
func NewService(gw gateway.Client) *Service {
	return &Service{gw: gw}
}

// Login authenticates and stores the returned access token.
func (s *Service) Login(ctx context.Context, email, password string) (*gateway.User, error) {
	res, err := s.gw.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := config.SetAuthToken(res.AccessToken); err != nil {
		return nil, fmt.Errorf("saving token: %w", err)
	}
	return &res.User, nil
}

// Register creates an account and stores the returned access token.
func (s *Service) Register(ctx context.Context, name, email, password string) (*gateway.User, error) {
	res, err := s.gw.Register(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	if err := config.SetAuthToken(res.AccessToken); err != nil {
		return nil, fmt.Errorf("saving token: %w", err)
	}
	return &res.User, nil
}

// Logout clears the stored access token.
func (s *Service) Logout() error {
	return config.SetAuthToken("")
}
