// Package identity wraps the Firebase Identity Toolkit REST API behind a
// uniform result contract. A Client holds at most one current session;
// observers are notified synchronously, in registration order, on every
// session transition (login, logout, token refresh).
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultEndpoint      = "https://identitytoolkit.googleapis.com/v1"
	defaultTokenEndpoint = "https://securetoken.googleapis.com/v1"

	// refreshSkew forces a refresh slightly before the token actually
	// expires so callers never hand out a token mid-expiry.
	refreshSkew = 30 * time.Second

	requestTimeout = 15 * time.Second
)

// Session is the authenticated identity context for a caller.
type Session struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

// Result is the uniform outcome of register/login/logout. Provider failures
// never escape as errors; they are normalized into a failed Result.
type Result struct {
	Success bool     `json:"success"`
	Session *Session `json:"session,omitempty"`
	Error   string   `json:"error,omitempty"`
	Message string   `json:"message"`
}

// Listener observes session transitions. It receives the new session, or nil
// when the session was cleared.
type Listener func(*Session)

type listenerEntry struct {
	id int
	fn Listener
}

// Client is the identity gateway. The zero value is not usable; construct
// with NewClient.
type Client struct {
	apiKey        string
	endpoint      string
	tokenEndpoint string
	httpClient    *http.Client

	mu           sync.Mutex
	session      *Session
	idToken      string
	refreshToken string
	expiresAt    time.Time
	listeners    []listenerEntry
	nextID       int
}

// Option customizes a Client.
type Option func(*Client)

// WithEndpoint overrides the Identity Toolkit base URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = strings.TrimRight(endpoint, "/") }
}

// WithTokenEndpoint overrides the secure-token base URL.
func WithTokenEndpoint(endpoint string) Option {
	return func(c *Client) { c.tokenEndpoint = strings.TrimRight(endpoint, "/") }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient creates an identity gateway for the given web API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:        apiKey,
		endpoint:      defaultEndpoint,
		tokenEndpoint: defaultTokenEndpoint,
		httpClient:    &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

type authPayload struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
}

// Register creates a new account, optionally setting a display name, and
// establishes the session on success.
func (c *Client) Register(ctx context.Context, email, password, displayName string) Result {
	var payload authPayload
	if code, ok := c.call(ctx, c.endpoint+"/accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &payload); !ok {
		return failure(code)
	}

	if displayName != "" {
		var updated authPayload
		if code, ok := c.call(ctx, c.endpoint+"/accounts:update", map[string]any{
			"idToken":           payload.IDToken,
			"displayName":       displayName,
			"returnSecureToken": false,
		}, &updated); !ok {
			return failure(code)
		}
		payload.DisplayName = displayName
	}

	session := c.establish(&payload)

	return Result{Success: true, Session: session, Message: "Account created successfully!"}
}

// Login signs in an existing account and establishes the session on success.
func (c *Client) Login(ctx context.Context, email, password string) Result {
	var payload authPayload
	if code, ok := c.call(ctx, c.endpoint+"/accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &payload); !ok {
		return failure(code)
	}

	session := c.establish(&payload)

	return Result{Success: true, Session: session, Message: "Signed in successfully!"}
}

// Logout clears the current session. Tokens are discarded locally; the
// provider keeps no server-side session to revoke for password sign-in.
func (c *Client) Logout() Result {
	c.mu.Lock()
	c.session = nil
	c.idToken = ""
	c.refreshToken = ""
	c.expiresAt = time.Time{}
	listeners := c.snapshotListeners()
	c.mu.Unlock()

	for _, entry := range listeners {
		entry.fn(nil)
	}

	return Result{Success: true, Message: "Signed out successfully!"}
}

// CurrentSession returns the current session, or nil when unauthenticated.
func (c *Client) CurrentSession() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session
}

// IsAuthenticated reports whether a session is active.
func (c *Client) IsAuthenticated() bool {
	return c.CurrentSession() != nil
}

// SessionToken returns a bearer ID token for the current session, refreshing
// it through the secure-token endpoint when it is about to expire. It returns
// the empty string when unauthenticated or when refresh fails; it never
// returns an error.
func (c *Client) SessionToken(ctx context.Context) string {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()

		return ""
	}
	token := c.idToken
	fresh := time.Now().Add(refreshSkew).Before(c.expiresAt)
	refreshToken := c.refreshToken
	c.mu.Unlock()

	if fresh {
		return token
	}

	return c.refresh(ctx, refreshToken)
}

// Subscribe registers a listener for session transitions and returns an
// idempotent unsubscribe closure.
func (c *Client) Subscribe(fn Listener) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners = append(c.listeners, listenerEntry{id: id, fn: fn})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, entry := range c.listeners {
			if entry.id == id {
				c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)

				break
			}
		}
	}
}

// establish stores the session and notifies listeners outside the lock so a
// listener may call back into the client.
func (c *Client) establish(payload *authPayload) *Session {
	session := &Session{
		UID:         payload.LocalID,
		Email:       payload.Email,
		DisplayName: payload.DisplayName,
	}

	c.mu.Lock()
	c.session = session
	c.idToken = payload.IDToken
	c.refreshToken = payload.RefreshToken
	c.expiresAt = tokenExpiry(payload.IDToken, payload.ExpiresIn)
	listeners := c.snapshotListeners()
	c.mu.Unlock()

	for _, entry := range listeners {
		entry.fn(session)
	}

	return session
}

type refreshPayload struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
}

func (c *Client) refresh(ctx context.Context, refreshToken string) string {
	if refreshToken == "" {
		return ""
	}

	var payload refreshPayload
	if _, ok := c.call(ctx, c.tokenEndpoint+"/token", map[string]any{
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
	}, &payload); !ok {
		return ""
	}

	c.mu.Lock()
	c.idToken = payload.IDToken
	c.refreshToken = payload.RefreshToken
	c.expiresAt = tokenExpiry(payload.IDToken, payload.ExpiresIn)
	session := c.session
	listeners := c.snapshotListeners()
	c.mu.Unlock()

	// A token refresh is a session transition: same identity, new credential.
	for _, entry := range listeners {
		entry.fn(session)
	}

	return payload.IDToken
}

func (c *Client) snapshotListeners() []listenerEntry {
	snapshot := make([]listenerEntry, len(c.listeners))
	copy(snapshot, c.listeners)

	return snapshot
}

type providerError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// call posts a JSON body and decodes the response. On failure it returns the
// provider error code (or ErrCodeNetwork for transport failures) and false.
func (c *Client) call(ctx context.Context, endpoint string, body map[string]any, target any) (string, bool) {
	raw, err := json.Marshal(body)
	if err != nil {
		return ErrCodeNetwork, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?key="+c.apiKey, bytes.NewReader(raw))
	if err != nil {
		return ErrCodeNetwork, false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ErrCodeNetwork, false
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return ErrCodeNetwork, false
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var provider providerError
		if err := json.Unmarshal(respBody, &provider); err != nil || provider.Error.Message == "" {
			return ErrCodeUnknown, false
		}

		// The provider may append detail after the code, e.g.
		// "WEAK_PASSWORD : Password should be at least 6 characters".
		code, _, _ := strings.Cut(provider.Error.Message, " ")

		return code, false
	}

	if err := json.Unmarshal(respBody, target); err != nil {
		return ErrCodeUnknown, false
	}

	return "", true
}

func failure(code string) Result {
	return Result{Success: false, Error: code, Message: ErrorMessage(code)}
}

// tokenExpiry reads the exp claim from the unverified ID token, falling back
// to the provider-reported lifetime. Verification is the server's job; here
// the claim only schedules the refresh.
func tokenExpiry(idToken, expiresIn string) time.Time {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(idToken, jwt.MapClaims{})
	if err == nil {
		if exp, err := token.Claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}

	seconds, err := strconv.Atoi(expiresIn)
	if err != nil || seconds <= 0 {
		seconds = 3600
	}

	return time.Now().Add(time.Duration(seconds) * time.Second)
}
