package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/atelierhq/atelier-api/internal/middleware"
	"github.com/atelierhq/atelier-api/internal/models"
	"github.com/atelierhq/atelier-api/internal/services"
	"github.com/google/uuid"
)

// TestJWTService creates a JWTService with test configuration
func TestJWTService() *services.JWTService {
	return services.NewJWTService("test-secret-key-for-testing-only", 7*24*time.Hour)
}

// GenerateTestToken generates a valid session token for testing
func GenerateTestToken(t *testing.T, userID uuid.UUID, role models.Role, tenantID *uuid.UUID) string {
	t.Helper()
	token, err := TestJWTService().Generate(userID, role, tenantID)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}
	return token
}

// SessionCookie builds the auth cookie a signed-in browser would send
func SessionCookie(token string) *http.Cookie {
	return &http.Cookie{Name: middleware.CookieName, Value: token}
}

// HTTPTestClient provides helper methods for HTTP testing
type HTTPTestClient struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
	headers map[string]string
}

// NewHTTPTestClient creates a new HTTP test client
func NewHTTPTestClient(t *testing.T, handler http.Handler) *HTTPTestClient {
	return &HTTPTestClient{t: t, handler: handler, headers: map[string]string{}}
}

// WithCookie attaches a cookie to every subsequent request
func (c *HTTPTestClient) WithCookie(cookie *http.Cookie) *HTTPTestClient {
	c.cookies = append(c.cookies, cookie)
	return c
}

// WithHeader attaches a header to every subsequent request
func (c *HTTPTestClient) WithHeader(key, value string) *HTTPTestClient {
	c.headers[key] = value
	return c
}

// Request makes an HTTP request and returns the response
func (c *HTTPTestClient) Request(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("failed to marshal request body: %v", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

func (c *HTTPTestClient) Get(path string) *httptest.ResponseRecorder {
	return c.Request(http.MethodGet, path, nil)
}

func (c *HTTPTestClient) Post(path string, body any) *httptest.ResponseRecorder {
	return c.Request(http.MethodPost, path, body)
}

func (c *HTTPTestClient) Patch(path string, body any) *httptest.ResponseRecorder {
	return c.Request(http.MethodPatch, path, body)
}

func (c *HTTPTestClient) Delete(path string, body any) *httptest.ResponseRecorder {
	return c.Request(http.MethodDelete, path, body)
}

// DecodeJSON unmarshals a recorded response body
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response body %q: %v", rec.Body.String(), err)
	}
}
