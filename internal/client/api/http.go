package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/passguard/passguardctl/internal/client/models"
	"github.com/passguard/passguardctl/internal/common"
	"github.com/passguard/passguardctl/internal/logging"
)

const requestIDHeader = "X-Request-Id"

// HTTPClient talks JSON over REST to the PassGuard backend.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     logging.Logger
}

var _ Client = (*HTTPClient)(nil)

// New builds an HTTPClient for the given base URL, e.g.
// "http://localhost:8080/api". The per-request timeout applies to every
// call; callers may still pass a shorter-lived context.
func New(baseURL string, timeout time.Duration, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// SetTokenSource wires the session controller in after construction.
// The controller itself depends on this client for sign-in, so the two
// are linked in a second step.
func (c *HTTPClient) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// newRequest builds a request with a fresh request id and, when a trusted
// token is available, the bearer Authorization header.
func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(requestIDHeader, uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// doJSON sends body (optional) as JSON and decodes the response into out
// (optional). Non-2xx responses are turned into taxonomy errors.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &common.RequestError{Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// doText sends a request with no body and returns the raw response body as
// a string. Used for endpoints that answer in plain text (decrypt, QR URL).
func (c *HTTPClient) doText(ctx context.Context, method, path string) (string, error) {
	req, err := c.newRequest(ctx, method, path, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return "", err
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &common.RequestError{Err: fmt.Errorf("reading response: %w", err)}
	}
	return string(b), nil
}

// doForm posts values as application/x-www-form-urlencoded.
func (c *HTTPClient) doForm(ctx context.Context, path string, values url.Values) (*http.Response, error) {
	req, err := c.newRequest(ctx, http.MethodPost, path, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *HTTPClient) do(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(req.Context(), "request failed",
			"method", req.Method, "path", req.URL.Path,
			"request_id", req.Header.Get(requestIDHeader), "error", err)
		return nil, &common.RequestError{Err: err}
	}
	return resp, nil
}

// checkStatus maps a non-2xx response to the shared error taxonomy,
// surfacing the server's message when it provides one.
func (c *HTTPClient) checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	msg := readServerMessage(resp.Body)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return common.ErrUnauthorized
	case http.StatusForbidden:
		return common.ErrForbidden
	case http.StatusNotFound:
		return common.ErrNotFound
	default:
		err := errors.New(msg)
		if msg == "" {
			err = errors.New(http.StatusText(resp.StatusCode))
		}
		return &common.RequestError{Status: resp.StatusCode, Err: err}
	}
}

// readServerMessage extracts a human-readable message from an error body.
// The backend is inconsistent about casing ("message" vs "Message"), and
// some endpoints answer in plain text.
func readServerMessage(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(b) == 0 {
		return ""
	}
	var body struct {
		Message      string `json:"message"`
		MessageUpper string `json:"Message"`
	}
	if err := json.Unmarshal(b, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.MessageUpper != "" {
			return body.MessageUpper
		}
	}
	s := strings.TrimSpace(string(b))
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return ""
	}
	return s
}

// --- authentication ---

func (c *HTTPClient) SignIn(ctx context.Context, username, password string) (*SignInResult, error) {
	body := map[string]string{"username": username, "password": password}

	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/signin", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Sign-in has its own status mapping: 401 means bad credentials, not a
	// dead session, and 429 carries the lockout guidance.
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, common.ErrInvalidCredentials
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &common.AccountLockedError{Message: readServerMessage(resp.Body)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, c.checkStatus(resp)
	}

	var result SignInResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &common.RequestError{Err: fmt.Errorf("decoding sign-in response: %w", err)}
	}
	return &result, nil
}

func (c *HTTPClient) VerifyMfaLogin(ctx context.Context, code, pendingToken string) error {
	values := url.Values{}
	values.Set("code", code)
	values.Set("jwtToken", pendingToken)

	resp, err := c.doForm(ctx, "/auth/verify-mfa-login", values)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return common.ErrInvalidMfaCode
	}
	return c.checkStatus(resp)
}

func (c *HTTPClient) SignUp(ctx context.Context, username, email, password string) error {
	body := map[string]string{"username": username, "email": email, "password": password}
	return c.doJSON(ctx, http.MethodPost, "/auth/signup", body, nil)
}

// --- account self-service ---

func (c *HTTPClient) UserProfile(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	if err := c.doJSON(ctx, http.MethodGet, "/auth/user", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) EnableMfa(ctx context.Context) (string, error) {
	return c.doText(ctx, http.MethodPost, "/auth/enable-mfa")
}

func (c *HTTPClient) VerifyMfa(ctx context.Context, code string) error {
	path := "/auth/verify-mfa?code=" + url.QueryEscape(code)
	req, err := c.newRequest(ctx, http.MethodPost, path, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return common.ErrInvalidMfaCode
	}
	return c.checkStatus(resp)
}

func (c *HTTPClient) DisableMfa(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/disable-mfa", nil, nil)
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) error {
	path := "/auth/forgot-password?email=" + url.QueryEscape(email)
	return c.doJSON(ctx, http.MethodPost, path, nil, nil)
}

func (c *HTTPClient) ResetPassword(ctx context.Context, token, newPassword string) error {
	values := url.Values{}
	values.Set("token", token)
	values.Set("newPassword", newPassword)
	return c.doJSON(ctx, http.MethodPost, "/auth/reset-password?"+values.Encode(), nil, nil)
}

// --- vault ---

func (c *HTTPClient) ListPasswords(ctx context.Context) ([]models.CredentialEntry, error) {
	var entries []models.CredentialEntry
	if err := c.doJSON(ctx, http.MethodGet, "/passwords", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *HTTPClient) CreatePassword(ctx context.Context, nc models.NewCredential) (*models.CredentialEntry, error) {
	var entry models.CredentialEntry
	if err := c.doJSON(ctx, http.MethodPost, "/passwords", nc, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *HTTPClient) UpdatePassword(ctx context.Context, id int64, patch models.CredentialPatch) (*models.CredentialEntry, error) {
	var entry models.CredentialEntry
	path := "/passwords/" + strconv.FormatInt(id, 10)
	if err := c.doJSON(ctx, http.MethodPut, path, patch, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *HTTPClient) DeletePassword(ctx context.Context, id int64) error {
	path := "/passwords/" + strconv.FormatInt(id, 10)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *HTTPClient) DecryptPassword(ctx context.Context, id int64) (string, error) {
	path := "/passwords/decrypt/" + strconv.FormatInt(id, 10)
	return c.doText(ctx, http.MethodGet, path)
}

// --- audit ---

func (c *HTTPClient) AuditLogs(ctx context.Context) ([]models.AuditRecord, error) {
	var records []models.AuditRecord
	if err := c.doJSON(ctx, http.MethodGet, "/audit", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *HTTPClient) AuditLogsForCredential(ctx context.Context, id int64) ([]models.AuditRecord, error) {
	var records []models.AuditRecord
	path := "/audit/password/" + strconv.FormatInt(id, 10)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// --- admin ---

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.doJSON(ctx, http.MethodGet, "/admin/getusers", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *HTTPClient) GetUser(ctx context.Context, id int64) (*models.UserDetail, error) {
	var user models.UserDetail
	path := "/admin/user/" + strconv.FormatInt(id, 10)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) UpdateUserRole(ctx context.Context, id int64, roleName string) error {
	values := url.Values{}
	values.Set("userId", strconv.FormatInt(id, 10))
	values.Set("roleName", roleName)
	return c.doJSON(ctx, http.MethodPut, "/admin/update-role?"+values.Encode(), nil, nil)
}

func (c *HTTPClient) SetUserEnabled(ctx context.Context, id int64, enabled bool) error {
	values := url.Values{}
	values.Set("userId", strconv.FormatInt(id, 10))
	values.Set("enabled", strconv.FormatBool(enabled))
	return c.doJSON(ctx, http.MethodPut, "/admin/update-enabled-status?"+values.Encode(), nil, nil)
}
