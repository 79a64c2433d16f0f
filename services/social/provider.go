package social

import (
	"context"
	"errors"
	"fmt"
)

// Provider is the contract every social login provider implements.
type Provider interface {
	// Name returns the provider identifier (e.g. "google", "instagram").
	Name() string

	// AuthCodeURL returns the provider's consent screen URL for the
	// given anti-replay state value.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for a normalized identity.
	// redirectURI overrides the configured redirect when the frontend
	// supplies its own (it must match the one used for the consent URL).
	Exchange(ctx context.Context, code, redirectURI string) (*Identity, error)
}

// Registry holds the configured providers keyed by name.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry(list ...Provider) *Registry {
	m := make(map[string]Provider)
	for _, p := range list {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("Unsupported provider: %s", name)
	}
	return p, nil
}

// FromUserInfo builds an identity from a client-resolved userinfo payload
// (the NextAuth flow, where the frontend SDK already talked to the
// provider). Only Google supports this path.
func FromUserInfo(provider string, info map[string]interface{}) (*Identity, error) {
	if provider != "google" {
		return nil, fmt.Errorf("user_info is not supported for provider %s", provider)
	}

	id, _ := info["id"].(string)
	if id == "" {
		return nil, errors.New("user_info is missing the provider user id")
	}

	email, _ := info["email"].(string)
	name, _ := info["name"].(string)
	picture, _ := info["picture"].(string)

	return &Identity{
		Provider: provider,
		ID:       id,
		Email:    email,
		Name:     name,
		Picture:  picture,
	}, nil
}
