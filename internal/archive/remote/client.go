package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"

	"puzzlearchive/internal/archive/models"
	"puzzlearchive/internal/common"
)

// Client speaks JSON over HTTP to catalogd and implements every collaborator
// interface.
//
// The underlying http.Client deliberately carries no timeout: the sync
// engine's contract is atomicity, not latency bounding. Callers that need
// bounded latency pass a deadline context.
type Client struct {
	baseURL    string
	httpClient *http.Client

	accessToken  string
	refreshToken string
}

var (
	_ Catalog     = (*Client)(nil)
	_ Grants      = (*Client)(nil)
	_ Entitlement = (*Client)(nil)
	_ AttemptSink = (*Client)(nil)
	_ Content     = (*Client)(nil)
)

// NewClient returns a Client for the catalogd at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// SetTokens installs a previously issued token pair, e.g. from a restored
// session. Call it before issuing requests, not concurrently with them.
func (c *Client) SetTokens(access, refresh string) {
	c.accessToken = access
	c.refreshToken = refresh
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenPair is one issued access/refresh pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Register creates an account and stores the issued tokens on the client.
func (c *Client) Register(ctx context.Context, username, password string) (*TokenPair, error) {
	return c.obtainTokens(ctx, "/api/register", credentialsRequest{Username: username, Password: password})
}

// Login authenticates and stores the issued tokens on the client.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	return c.obtainTokens(ctx, "/api/login", credentialsRequest{Username: username, Password: password})
}

// RefreshTokens rotates the token pair using the stored refresh token.
func (c *Client) RefreshTokens(ctx context.Context) (*TokenPair, error) {
	if c.refreshToken == "" {
		return nil, common.ErrUnauthorized
	}
	return c.obtainTokens(ctx, "/api/token/refresh",
		map[string]string{"refresh_token": c.refreshToken})
}

func (c *Client) obtainTokens(ctx context.Context, path string, reqBody any) (*TokenPair, error) {
	var pair TokenPair
	if err := c.do(ctx, http.MethodPost, path, reqBody, &pair, false); err != nil {
		return nil, err
	}
	c.accessToken = pair.AccessToken
	c.refreshToken = pair.RefreshToken
	return &pair, nil
}

// FetchCatalog implements Catalog against the public snapshot endpoint.
func (c *Client) FetchCatalog(ctx context.Context) ([]CatalogRecord, error) {
	var resp struct {
		Entries []CatalogRecord `json:"entries"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/catalog", nil, &resp, false); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

// ListActiveGrants implements Grants.
func (c *Client) ListActiveGrants(ctx context.Context) ([]models.AdUnlockGrant, error) {
	var resp struct {
		Grants []GrantRecord `json:"grants"`
	}
	if err := c.doAuthed(ctx, http.MethodGet, "/api/grants", nil, &resp); err != nil {
		return nil, err
	}

	grants := make([]models.AdUnlockGrant, 0, len(resp.Grants))
	for _, g := range resp.Grants {
		grants = append(grants, models.AdUnlockGrant{PuzzleID: g.PuzzleID, GrantedAt: g.GrantedAt})
	}
	return grants, nil
}

// Entitled implements Entitlement.
func (c *Client) Entitled(ctx context.Context) (bool, error) {
	var resp struct {
		Username string `json:"username"`
		Entitled bool   `json:"entitled"`
	}
	if err := c.doAuthed(ctx, http.MethodGet, "/api/me", nil, &resp); err != nil {
		return false, err
	}
	return resp.Entitled, nil
}

type pushAttemptsRequest struct {
	Attempts []AttemptRecord `json:"attempts"`
}

// PushAttempts implements AttemptSink.
func (c *Client) PushAttempts(ctx context.Context, attempts []models.Attempt) error {
	records := make([]AttemptRecord, 0, len(attempts))
	for _, a := range attempts {
		rec := AttemptRecord{
			ID:        a.ID,
			PuzzleID:  a.PuzzleID,
			Completed: a.Completed,
			Score:     a.Score,
			StartedAt: a.StartedAt,
			Metadata:  a.Metadata,
		}
		if !a.CompletedAt.IsZero() {
			t := a.CompletedAt
			rec.CompletedAt = &t
		}
		records = append(records, rec)
	}

	return c.doAuthed(ctx, http.MethodPost, "/api/attempts", pushAttemptsRequest{Attempts: records}, nil)
}

// ContentURL implements Content. A locked item surfaces as
// common.ErrContentLocked.
func (c *Client) ContentURL(ctx context.Context, puzzleID string) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	if err := c.doAuthed(ctx, http.MethodGet, "/api/content/"+url.PathEscape(puzzleID), nil, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// doAuthed performs an authorized request, rotating the token pair and
// retrying once when the access token has expired.
func (c *Client) doAuthed(ctx context.Context, method, path string, reqBody, out any) error {
	err := c.do(ctx, method, path, reqBody, out, true)
	if errors.Is(err, common.ErrTokenExpired) && c.refreshToken != "" {
		if _, rerr := c.RefreshTokens(ctx); rerr != nil {
			return err
		}
		return c.do(ctx, method, path, reqBody, out, true)
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, reqBody, out any, authed bool) error {
	var body io.Reader
	if reqBody != nil {
		b, err := json.Marshal(reqBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorFromResponse maps catalogd's {"error": "..."} payloads onto the shared
// sentinels so callers can branch with errors.Is.
func errorFromResponse(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if body.Error == common.ErrTokenExpired.Error() {
			return common.ErrTokenExpired
		}
		return common.ErrUnauthorized
	case http.StatusForbidden:
		return common.ErrContentLocked
	case http.StatusNotFound:
		return common.ErrNotFound
	case http.StatusConflict:
		return common.ErrUsernameTaken
	}

	if body.Error != "" {
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, body.Error)
	}
	return fmt.Errorf("request failed with status: %d", resp.StatusCode)
}
