package auth

import (
	"context"
	"strings"
)

// StubService authenticates a fixed set of demo users keyed by token.
type StubService struct {
	users map[string]User
}

// DemoUsers are the accounts served by NewStubService.
var DemoUsers = map[string]User{
	"demo-entrepreneur": {ID: "user-entrepreneur", Email: "founder@example.com", Name: "Demo Founder", Role: RoleEntrepreneur},
	"demo-mentor":       {ID: "user-mentor", Email: "mentor@example.com", Name: "Demo Mentor", Role: RoleMentor},
	"demo-admin":        {ID: "user-admin", Email: "admin@example.com", Name: "Demo Admin", Role: RoleAdmin},
}

// NewStubService returns a StubService over DemoUsers plus any extra tokens.
func NewStubService(extra map[string]User) *StubService {
	users := make(map[string]User, len(DemoUsers)+len(extra))
	for k, v := range DemoUsers {
		users[k] = v
	}
	for k, v := range extra {
		users[k] = v
	}
	return &StubService{users: users}
}

func (s *StubService) Authenticate(ctx context.Context, token string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	u, ok := s.users[strings.TrimSpace(token)]
	if !ok {
		return User{}, ErrInvalidToken
	}
	return u, nil
}
