package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/frahmantamala/expenses-tracker/internal"
	"github.com/frahmantamala/expenses-tracker/internal/expense"
)

const (
	pathLogin       = "/api/auth/login"
	pathRegister    = "/api/auth/register"
	pathListAll     = "/api/expenses/all"
	pathAddExpense  = "/api/expenses/add"
	pathDeleteFmt   = "/api/expenses/delete/%d"
	defaultTimeout  = 15 * time.Second
	maxErrorPayload = 64 << 10
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the remote expense service. It never retries; every
// failure is mapped onto the internal error taxonomy and returned.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(config Config, logger *slog.Logger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return "", internal.NewInternalError("failed to marshal login request", err)
	}

	resp, err := c.do(ctx, http.MethodPost, pathLogin, "", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, nil); err != nil {
		return "", err
	}

	var payload loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", internal.NewNetworkError("failed to decode login response", err)
	}
	if payload.Token == "" {
		return "", internal.NewUnauthorizedError("token not returned from server", internal.ErrCodeAuthenticationFailed)
	}

	c.logger.Info("login succeeded", "email", email)
	return payload.Token, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) error {
	body, err := json.Marshal(registerRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return internal.NewInternalError("failed to marshal register request", err)
	}

	resp, err := c.do(ctx, http.MethodPost, pathRegister, "", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, nil); err != nil {
		return err
	}

	c.logger.Info("registration succeeded", "email", email)
	return nil
}

func (c *Client) ListAll(ctx context.Context, token string) ([]expense.Expense, error) {
	resp, err := c.do(ctx, http.MethodGet, pathListAll, token, "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, nil); err != nil {
		return nil, err
	}

	var records []expense.Expense
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, internal.NewNetworkError("failed to decode expense list", err)
	}

	c.logger.Debug("fetched expenses", "count", len(records))
	return records, nil
}

func (c *Client) Add(ctx context.Context, token string, dto expense.CreateExpenseDTO) (*expense.Expense, error) {
	body, contentType, err := encodeExpenseForm(dto)
	if err != nil {
		return nil, internal.NewInternalError("failed to build expense form", err)
	}

	resp, err := c.do(ctx, http.MethodPost, pathAddExpense, token, contentType, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, nil); err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, internal.NewNetworkError("failed to read add expense response", err)
	}

	created := decodeCreated(raw)
	if created == nil {
		// The server acknowledged without echoing the record.
		amount, _ := dto.ParsedAmount()
		created = &expense.Expense{Reason: dto.Reason, Amount: amount, Date: dto.Date}
	}
	return created, nil
}

func (c *Client) Delete(ctx context.Context, token string, id int64) error {
	resp, err := c.do(ctx, http.MethodDelete, fmt.Sprintf(pathDeleteFmt, id), token, "", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.checkStatus(resp, internal.ErrExpenseNotFound)
}

// Ping reports whether the remote service answers at all.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/", "", "", nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) do(ctx context.Context, method, path, token, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, internal.NewInternalError("failed to create HTTP request", err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("remote request failed",
			"method", method,
			"path", path,
			"error", err)
		return nil, internal.NewNetworkError("HTTP request failed", err)
	}

	c.logger.Debug("remote request completed",
		"method", method,
		"path", path,
		"status_code", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	return resp, nil
}

// checkStatus maps non-2xx responses. notFound, when non-nil, is returned
// for 404 instead of a generic upstream error.
func (c *Client) checkStatus(resp *http.Response, notFound *internal.AppError) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	message := upstreamMessage(resp)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		if message == "" {
			message = "authentication failed"
		}
		return internal.NewUnauthorizedError(message, internal.ErrCodeAuthenticationFailed)
	case resp.StatusCode == http.StatusNotFound && notFound != nil:
		return notFound
	}

	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	return internal.NewNetworkError("remote service error",
		fmt.Errorf("status %d: %s", resp.StatusCode, message))
}

func upstreamMessage(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorPayload))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload errorResponse
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
		return ""
	}
	return strings.TrimSpace(string(raw))
}

func encodeExpenseForm(dto expense.CreateExpenseDTO) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := [][2]string{
		{"reason", dto.Reason},
		{"amount", dto.Amount},
		{"date", dto.Date},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	if a := dto.Attachment; a != nil && a.Content != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="bill_img"; filename="%s"`, escapeQuotes(a.FileName)))
		header.Set("Content-Type", a.ContentType)
		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, a.Content); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

// decodeCreated accepts either a bare record or {"expense": record}. It
// returns nil when neither carries an id.
func decodeCreated(raw []byte) *expense.Expense {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var wrapped struct {
		Expense *expense.Expense `json:"expense"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Expense != nil && wrapped.Expense.ID != 0 {
		return wrapped.Expense
	}

	var bare expense.Expense
	if err := json.Unmarshal(raw, &bare); err == nil && bare.ID != 0 {
		return &bare
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

var _ expense.Gateway = (*Client)(nil)

// IsNetworkError reports whether err came from a failed or rejected remote call.
func IsNetworkError(err error) bool {
	return errors.Is(err, internal.ErrNetwork)
}
