package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	netmail "net/mail"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"minutes/internal/services"
)

func TestSendPostsRawMessage(t *testing.T) {
	var (
		gotAuth string
		gotPath string
		gotRaw  []byte
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		var payload sendRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		decoded, err := base64.URLEncoding.DecodeString(payload.Raw)
		assert.NoError(t, err)
		gotRaw = decoded
		_, _ = w.Write([]byte(`{"id":"abc","threadId":"abc"}`))
	}))
	defer server.Close()

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok-123"})
	client := NewWithTokenSource(context.Background(), ts, Config{BaseURL: server.URL, From: "bot@example.com"})

	require.NoError(t, client.Send(context.Background(), "ana@example.com", "Meeting Summary", "<p>hi</p>"))
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "/gmail/v1/users/me/messages/send", gotPath)

	msg, err := netmail.ReadMessage(bytes.NewReader(gotRaw))
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", msg.Header.Get("To"))
	assert.Equal(t, "Meeting Summary", msg.Header.Get("Subject"))
}

func TestSendReportsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":401,"message":"Invalid Credentials","status":"UNAUTHENTICATED"}}`))
	}))
	defer server.Close()

	client := NewWithTokenSource(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "expired"}), Config{BaseURL: server.URL})
	err := client.Send(context.Background(), "ana@example.com", "Meeting Summary", "<p>hi</p>")
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrService)
	assert.Contains(t, err.Error(), "http 401: Invalid Credentials")
}

func TestSendRejectsInvalidRecipient(t *testing.T) {
	client := NewWithTokenSource(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "t"}), Config{BaseURL: "http://127.0.0.1:1"})
	err := client.Send(context.Background(), "", "Meeting Summary", "<p>hi</p>")
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestLoadTokenSource(t *testing.T) {
	dir := t.TempDir()

	authorizedUser := filepath.Join(dir, "authorized.json")
	require.NoError(t, os.WriteFile(authorizedUser, []byte(`{"token":"python-style"}`), 0o600))
	ts, err := LoadTokenSource(context.Background(), authorizedUser)
	require.NoError(t, err)
	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "python-style", tok.AccessToken)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{}`), 0o600))
	_, err = LoadTokenSource(context.Background(), empty)
	assert.ErrorIs(t, err, services.ErrConfiguration)

	_, err = LoadTokenSource(context.Background(), filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, services.ErrConfiguration)

	_, err = New(context.Background(), Config{})
	assert.ErrorIs(t, err, services.ErrConfiguration)
}
