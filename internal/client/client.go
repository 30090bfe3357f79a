// Package client is a typed HTTP client for the archive server's REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"chessarchive/internal/core"
)

// APIError is a non-2xx response decoded from the server's error body
type APIError struct {
	Status  int
	Code    string
	Message string
	Details string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}
	return msg
}

// ErrorCode extracts the server error code from err, or "" when err is not an *APIError
func ErrorCode(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Time    int64  `json:"time"`
	Storage string `json:"storage"`
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errResp core.ErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil {
			apiErr.Code = errResp.Code
			apiErr.Details = errResp.Details
			if errResp.Error != "" {
				apiErr.Message = errResp.Error
			}
		}
		return apiErr
	}

	switch out := result.(type) {
	case nil:
		return nil
	case *[]byte:
		*out = respBody
		return nil
	default:
		if len(respBody) == 0 {
			return nil
		}
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
		return nil
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(data)
	}
	return c.do(ctx, method, path, r, result)
}

func gamePath(gameID string, rest ...string) string {
	return "/api/v1/games/" + gameID + strings.Join(rest, "")
}

func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	err := c.doJSON(ctx, http.MethodGet, "/health", nil, &resp)
	return &resp, err
}

func (c *Client) CreateGame(ctx context.Context) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/games", nil, &resp)
	return &resp, err
}

func (c *Client) GetGame(ctx context.Context, gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doJSON(ctx, http.MethodGet, gamePath(gameID), nil, &resp)
	return &resp, err
}

func (c *Client) DeleteGame(ctx context.Context, gameID string) error {
	return c.doJSON(ctx, http.MethodDelete, gamePath(gameID), nil, nil)
}

// MakeMove sends from/to in algebraic notation, e.g. "e2", "e4"
func (c *Client) MakeMove(ctx context.Context, gameID, from, to string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doJSON(ctx, http.MethodPost, gamePath(gameID, "/moves"), &core.MoveRequest{From: from, To: to}, &resp)
	return &resp, err
}

func (c *Client) Undo(ctx context.Context, gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doJSON(ctx, http.MethodPost, gamePath(gameID, "/undo"), nil, &resp)
	return &resp, err
}

func (c *Client) GetBoard(ctx context.Context, gameID string) (*core.BoardResponse, error) {
	var resp core.BoardResponse
	err := c.doJSON(ctx, http.MethodGet, gamePath(gameID, "/board"), nil, &resp)
	return &resp, err
}

// Archive returns the raw archive document for the game
func (c *Client) Archive(ctx context.Context, gameID string) ([]byte, error) {
	var data []byte
	err := c.doJSON(ctx, http.MethodGet, gamePath(gameID, "/archive"), nil, &data)
	return data, err
}

func (c *Client) Save(ctx context.Context, gameID, location string) (*core.SaveResponse, error) {
	var resp core.SaveResponse
	err := c.doJSON(ctx, http.MethodPost, gamePath(gameID, "/save"), &core.SaveRequest{Location: location}, &resp)
	return &resp, err
}

func (c *Client) Load(ctx context.Context, location string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/games/load", &core.LoadRequest{Location: location}, &resp)
	return &resp, err
}

// Import uploads a raw archive document and returns the new game
func (c *Client) Import(ctx context.Context, document []byte) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/games/import", bytes.NewReader(document), &resp)
	return &resp, err
}

func (c *Client) ListArchives(ctx context.Context) ([]core.ArchiveInfo, error) {
	var resp []core.ArchiveInfo
	err := c.doJSON(ctx, http.MethodGet, "/api/v1/archives", nil, &resp)
	return resp, err
}
