package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ashureev/healthdash/internal/domain"
)

// DefaultChatPath is the agent endpoint path.
const DefaultChatPath = "/ag-ui-agent"

const maxErrorBody = 4 << 10

// ErrProfileNotFound is returned when the backend has no profile for the id.
var ErrProfileNotFound = errors.New("user profile not found")

var (
	errNotFound         = errors.New("not found")
	errUnexpectedStatus = errors.New("unexpected status from backend")
)

// Service is the backend surface used by the conversation coordinator.
type Service interface {
	// Chat sends one user message to the agent and returns its reply.
	Chat(ctx context.Context, req ChatRequest) (ChatReply, error)

	// GetProfile fetches the profile bound to a numeric user id.
	GetProfile(ctx context.Context, userID int64) (domain.UserProfile, error)

	// ListLogs returns every raw log record for a user, in backend order.
	ListLogs(ctx context.Context, userID int64) ([]domain.RawLogRecord, error)
}

// Ensure Client implements Service.
var _ Service = (*Client)(nil)

// Config holds client configuration.
type Config struct {
	BaseURL  string
	ChatPath string
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration
}

// Client talks to the backend over HTTP/JSON.
type Client struct {
	baseURL  string
	chatPath string
	http     *http.Client
	logger   *slog.Logger
}

// NewClient creates a backend client.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("backend base URL is required")
	}
	chatPath := cfg.ChatPath
	if chatPath == "" {
		chatPath = DefaultChatPath
	}
	if !strings.HasPrefix(chatPath, "/") {
		chatPath = "/" + chatPath
	}

	return &Client{
		baseURL:  base,
		chatPath: chatPath,
		http:     &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
	}, nil
}

// Chat posts a message to the agent endpoint.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (ChatReply, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return ChatReply{}, fmt.Errorf("encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.chatPath, bytes.NewReader(body))
	if err != nil {
		return ChatReply{}, fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var reply ChatReply
	if err := c.do(httpReq, &reply); err != nil {
		return ChatReply{}, fmt.Errorf("chat request failed: %w", err)
	}
	c.logger.Debug("Agent reply received", "session_id", req.SessionID, "status", reply.Status, "length", len(reply.Text))
	return reply, nil
}

// GetProfile fetches GET /users/{id}.
func (c *Client) GetProfile(ctx context.Context, userID int64) (domain.UserProfile, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userURL(userID), nil)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("build profile request: %w", err)
	}

	var profile domain.UserProfile
	if err := c.do(httpReq, &profile); err != nil {
		if errors.Is(err, errNotFound) {
			return domain.UserProfile{}, fmt.Errorf("user %d: %w", userID, ErrProfileNotFound)
		}
		return domain.UserProfile{}, fmt.Errorf("get profile for user %d: %w", userID, err)
	}
	return profile, nil
}

// ListLogs fetches GET /users/{id}/logs. An empty list is valid.
func (c *Client) ListLogs(ctx context.Context, userID int64) ([]domain.RawLogRecord, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userURL(userID)+"/logs", nil)
	if err != nil {
		return nil, fmt.Errorf("build logs request: %w", err)
	}

	var records []domain.RawLogRecord
	if err := c.do(httpReq, &records); err != nil {
		return nil, fmt.Errorf("list logs for user %d: %w", userID, err)
	}
	if records == nil {
		records = []domain.RawLogRecord{}
	}
	return records, nil
}

func (c *Client) userURL(userID int64) string {
	return c.baseURL + "/users/" + strconv.FormatInt(userID, 10)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %d %s", errUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
