// Package gmail sends notification email through the Gmail REST API using an
// already-authorized OAuth token.
package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"minutes/internal/mail"
	"minutes/internal/services"
)

const (
	defaultBaseURL = "https://gmail.googleapis.com"
	sendPath       = "gmail/v1/users/me/messages/send"
	defaultTimeout = 30 * time.Second
)

// Config describes how to reach Gmail.
type Config struct {
	TokenFile string
	BaseURL   string
	From      string
	Timeout   time.Duration
}

// Client posts raw RFC 5322 messages to users/me/messages/send.
type Client struct {
	baseURL    string
	from       string
	httpClient *http.Client
}

// tokenFile accepts both the oauth2 field names and the authorized-user
// layout written by Google's Python and Node client libraries.
type tokenFile struct {
	AccessToken  string    `json:"access_token"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	Expiry       time.Time `json:"expiry"`
	TokenURI     string    `json:"token_uri"`
	ClientID     string    `json:"client_id"`
	ClientSecret string    `json:"client_secret"`
}

// LoadTokenSource reads a token file. When refresh credentials are present
// the returned source refreshes expired tokens; otherwise it is static.
func LoadTokenSource(ctx context.Context, path string) (oauth2.TokenSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrConfiguration, "gmail", "load token", fmt.Sprintf("token file %q not found", path), nil)
		}
		return nil, fmt.Errorf("gmail: read token file: %w", err)
	}
	var raw tokenFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "gmail", "load token", "token file is not valid JSON", err)
	}
	token := &oauth2.Token{
		AccessToken:  strings.TrimSpace(raw.AccessToken),
		RefreshToken: strings.TrimSpace(raw.RefreshToken),
		TokenType:    strings.TrimSpace(raw.TokenType),
		Expiry:       raw.Expiry,
	}
	if token.AccessToken == "" {
		token.AccessToken = strings.TrimSpace(raw.Token)
	}
	if token.AccessToken == "" && token.RefreshToken == "" {
		return nil, services.Wrap(services.ErrConfiguration, "gmail", "load token", "token file has neither access_token nor refresh_token", nil)
	}
	if token.RefreshToken != "" && raw.ClientID != "" && raw.TokenURI != "" {
		conf := &oauth2.Config{
			ClientID:     raw.ClientID,
			ClientSecret: raw.ClientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: raw.TokenURI},
		}
		return conf.TokenSource(ctx, token), nil
	}
	return oauth2.StaticTokenSource(token), nil
}

// New builds a Client from the configured token file.
func New(ctx context.Context, cfg Config) (*Client, error) {
	path := strings.TrimSpace(cfg.TokenFile)
	if path == "" {
		return nil, services.Wrap(services.ErrConfiguration, "gmail", "init", "token file required", nil)
	}
	ts, err := LoadTokenSource(ctx, path)
	if err != nil {
		return nil, err
	}
	return NewWithTokenSource(ctx, ts, cfg), nil
}

// NewWithTokenSource builds a Client around an existing token source.
func NewWithTokenSource(ctx context.Context, ts oauth2.TokenSource, cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	base := &http.Client{Timeout: timeout}
	httpClient := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, base), ts)
	httpClient.Timeout = timeout

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		from:       strings.TrimSpace(cfg.From),
		httpClient: httpClient,
	}
}

type sendRequest struct {
	Raw string `json:"raw"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Send delivers one HTML message. Errors are tagged services.ErrService.
func (c *Client) Send(ctx context.Context, to, subject, html string) error {
	raw, err := mail.Build(mail.Message{From: c.from, To: to, Subject: subject, HTML: html})
	if err != nil {
		return services.Wrap(services.ErrValidation, "gmail", "build message", "", err)
	}
	body, err := json.Marshal(sendRequest{Raw: base64.URLEncoding.EncodeToString(raw)})
	if err != nil {
		return fmt.Errorf("gmail: encode request: %w", err)
	}
	endpoint, err := url.JoinPath(c.baseURL, sendPath)
	if err != nil {
		return fmt.Errorf("gmail: build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("gmail: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrService, "gmail", "send", "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return services.Wrap(services.ErrService, "gmail", "send", describeFailure(resp.StatusCode, payload), nil)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func describeFailure(status int, payload []byte) string {
	var parsed apiError
	if err := json.Unmarshal(payload, &parsed); err == nil && parsed.Error.Message != "" {
		return fmt.Sprintf("http %d: %s", status, parsed.Error.Message)
	}
	text := strings.TrimSpace(string(payload))
	if text == "" {
		text = http.StatusText(status)
	}
	return fmt.Sprintf("http %d: %s", status, text)
}
