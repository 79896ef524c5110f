package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenServer(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"access_token":"token%d","token_type":"bearer","expires_in":3600}`, n)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestGetTokenAndSetAuthHeader(t *testing.T) {
	srv, calls := tokenServer(t)
	client := NewClientCred(Conf{ClientID: "id", ClientSecret: "secret", AuthURL: srv.URL})

	token, err := client.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token1", token)

	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	require.NoError(t, client.SetAuthHeader(req))
	assert.Equal(t, "Bearer token1", req.Header.Get("Authorization"))
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestForceRefresh(t *testing.T) {
	srv, calls := tokenServer(t)
	client := NewClientCred(Conf{ClientID: "id", ClientSecret: "secret", AuthURL: srv.URL})
	_, err := client.GetToken(context.Background())
	require.NoError(t, err)
	tok, err := client.ForceRefresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token2", tok)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestGetToken_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusUnauthorized)
	}))
	defer srv.Close()
	client := NewClientCred(Conf{ClientID: "id", AuthURL: srv.URL})
	_, err := client.GetToken(context.Background())
	assert.Error(t, err)
}

func TestConfEnabled(t *testing.T) {
	assert.False(t, Conf{}.Enabled())
	assert.True(t, Conf{ClientID: "id", AuthURL: "http://x"}.Enabled())
}
