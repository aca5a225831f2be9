package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/atelierhq/atelier-api/internal/config"
	"golang.org/x/oauth2"
)

// Identity is the verified result of a completed sign-in at the identity
// service.
type Identity struct {
	GoogleID string
	Email    string
	Name     string
	Picture  string
	// Claims is the full verified payload, kept opaque for storage.
	Claims json.RawMessage
}

// IdentityProvider drives the delegated sign-in flow: redirect to the
// identity service, exchange the returned code, verify the issued ID token.
type IdentityProvider struct {
	config *oauth2.Config
	keys   *KeySet
}

func NewIdentityProvider(cfg config.AuthServiceConfig, redirectURL string) *IdentityProvider {
	base := strings.TrimRight(cfg.URL, "/")
	return &IdentityProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  base + "/auth/google",
				TokenURL: base + "/auth/token",
			},
		},
		keys: NewKeySet(base+"/.well-known/jwks.json", http.DefaultClient),
	}
}

// ConsentURL is where the browser is sent to start the sign-in.
func (p *IdentityProvider) ConsentURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Exchange trades the authorization code for tokens and verifies the ID
// token before trusting any of its claims.
func (p *IdentityProvider) Exchange(ctx context.Context, code string) (*Identity, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, fmt.Errorf("token response missing id_token")
	}

	claims, payload, err := p.keys.VerifyIDToken(rawIDToken)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, fmt.Errorf("id token missing subject or email")
	}

	return &Identity{
		GoogleID: claims.Subject,
		Email:    claims.Email,
		Name:     claims.Name,
		Picture:  claims.Picture,
		Claims:   payload,
	}, nil
}

// State round-trips the originating request domain through the sign-in flow
// alongside a CSRF nonce.
type State struct {
	Nonce  string `json:"nonce"`
	Domain string `json:"domain,omitempty"`
}

func EncodeState(domain string) (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	raw, err := json.Marshal(State{
		Nonce:  base64.RawURLEncoding.EncodeToString(nonce),
		Domain: domain,
	})
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func DecodeState(encoded string) (*State, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode state: %w", err)
	}
	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state: %w", err)
	}
	return &state, nil
}
