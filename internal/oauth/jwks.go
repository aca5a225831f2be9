package oauth

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims are the verified claims of an ID token issued by the
// identity service. The subject is the user's Google id.
type IdentityClaims struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	Picture      string `json:"picture,omitempty"`
	TokenVersion int    `json:"tokenVersion,omitempty"`
	jwt.RegisteredClaims
}

type jwk struct {
	Kty string `json:"kty"`
	Use string `json:"use"`
	Kid string `json:"kid"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwks struct {
	Keys []jwk `json:"keys"`
}

// KeySet caches the identity service's published signing keys by key id and
// refetches when a token references an unknown kid.
type KeySet struct {
	url    string
	client *http.Client

	mu   sync.RWMutex
	keys map[string]*rsa.PublicKey
}

func NewKeySet(url string, client *http.Client) *KeySet {
	if client == nil {
		client = http.DefaultClient
	}
	return &KeySet{
		url:    url,
		client: client,
		keys:   make(map[string]*rsa.PublicKey),
	}
}

// VerifyIDToken checks the token's RS256 signature against the published key
// set and its registered claims (expiry included). It returns the typed
// claims plus the raw payload for callers that persist the full claim bag.
func (k *KeySet) VerifyIDToken(tokenString string) (*IdentityClaims, json.RawMessage, error) {
	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, k.keyfunc,
		jwt.WithValidMethods([]string{"RS256"}))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to verify id token: %w", err)
	}

	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		return nil, nil, fmt.Errorf("invalid id token")
	}

	// The signature covers the payload, so decoding it here is safe.
	parts := strings.Split(tokenString, ".")
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode token payload: %w", err)
	}

	return claims, payload, nil
}

func (k *KeySet) keyfunc(token *jwt.Token) (any, error) {
	kid, _ := token.Header["kid"].(string)
	if kid == "" {
		return nil, fmt.Errorf("id token missing kid header")
	}
	return k.key(kid)
}

func (k *KeySet) key(kid string) (*rsa.PublicKey, error) {
	k.mu.RLock()
	key, ok := k.keys[kid]
	k.mu.RUnlock()
	if ok {
		return key, nil
	}

	if err := k.refresh(); err != nil {
		return nil, err
	}

	k.mu.RLock()
	key, ok = k.keys[kid]
	k.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no published key with id %q", kid)
	}
	return key, nil
}

func (k *KeySet) refresh() error {
	resp, err := k.client.Get(k.url)
	if err != nil {
		return fmt.Errorf("failed to fetch jwks: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jwks endpoint returned status %d", resp.StatusCode)
	}

	var set jwks
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("failed to decode jwks: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, key := range set.Keys {
		if key.Kty != "RSA" {
			continue
		}
		pub, err := parseRSAKey(key)
		if err != nil {
			return fmt.Errorf("failed to parse jwk %q: %w", key.Kid, err)
		}
		keys[key.Kid] = pub
	}

	k.mu.Lock()
	k.keys = keys
	k.mu.Unlock()
	return nil
}

func parseRSAKey(key jwk) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(key.N)
	if err != nil {
		return nil, fmt.Errorf("bad modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(key.E)
	if err != nil {
		return nil, fmt.Errorf("bad exponent: %w", err)
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(new(big.Int).SetBytes(eBytes).Int64()),
	}, nil
}
