package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/apprestrictions/pkg/config"
	"github.com/umputun/apprestrictions/pkg/domain"
	"github.com/umputun/apprestrictions/server/mocks"
)

// testConfig makes a config provider with all defaults and the given listen address
func testConfig(listen string) *mocks.ConfigProviderMock {
	cfg := config.Default()
	cfg.Server.Listen = listen
	return &mocks.ConfigProviderMock{
		GetServerConfigFunc: func() (string, time.Duration) { return cfg.Server.Listen, cfg.Server.Timeout },
		GetFullConfigFunc:   func() *config.Config { return cfg },
	}
}

// memStore is a store mock keeping values in a map
func memStore(initial map[string]domain.Restrictions) *mocks.StoreMock {
	data := map[string]domain.Restrictions{}
	for k, v := range initial {
		data[k] = v
	}
	return &mocks.StoreMock{
		GetRestrictionsFunc: func(_ context.Context, profile string) (domain.Restrictions, error) {
			return data[profile], nil
		},
		SetRestrictionsFunc: func(_ context.Context, profile string, values domain.Restrictions) error {
			data[profile] = values
			return nil
		},
		DeleteRestrictionsFunc: func(_ context.Context, profile string) error {
			delete(data, profile)
			return nil
		},
		ListProfilesFunc: func(context.Context) ([]domain.Profile, error) {
			res := []domain.Profile{}
			for k := range data {
				res = append(res, domain.Profile{ID: k})
			}
			return res, nil
		},
	}
}

// flagSettings is a setting store mock with a fixed custom config flag
func flagSettings(custom bool) *mocks.SettingStoreMock {
	return &mocks.SettingStoreMock{
		GetBoolFunc: func(context.Context, string) (bool, error) { return custom, nil },
		SetBoolFunc: func(context.Context, string, bool) error { return nil },
	}
}

func testServer(t *testing.T, store Store, settings SettingStore) *Server {
	t.Helper()
	return New(testConfig(":8080"), store, settings, "test", false)
}

// do sends the request through the full router
func do(srv *Server, method, path string, body io.Reader, hdrs ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	for i := 0; i+1 < len(hdrs); i += 2 {
		req.Header.Set(hdrs[i], hdrs[i+1])
	}
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

// postForm sends an url-encoded form through the full router
func postForm(srv *Server, path string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	hdrs := []string{"Content-Type", "application/x-www-form-urlencoded"}
	if htmx {
		hdrs = append(hdrs, "HX-Request", "true")
	}
	return do(srv, http.MethodPost, path, strings.NewReader(form.Encode()), hdrs...)
}

func TestServer_New(t *testing.T) {
	srv := New(testConfig(":8080"), memStore(nil), flagSettings(false), "1.0.0", false)
	require.NotNil(t, srv)
	assert.Equal(t, "1.0.0", srv.version)
	assert.False(t, srv.debug)
	assert.NotNil(t, srv.templates.Lookup("status.html"))
	assert.NotNil(t, srv.templates.Lookup("custom-form.html"))
	assert.NotNil(t, srv.templates.Lookup("standard-form.html"))
	assert.NotNil(t, srv.templates.Lookup("pending-result"))
	assert.Equal(t, "N/A", srv.resources.NotAvailable)
}

func TestServer_Middleware(t *testing.T) {
	srv := testServer(t, memStore(nil), flagSettings(false))

	w := do(srv, http.MethodGet, "/ping", http.NoBody)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, "apprestrictions", w.Header().Get("App-Name"))

	w = do(srv, http.MethodGet, "/no-such-page", http.NoBody)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_Run(t *testing.T) {
	// find free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	srv := New(testConfig(fmt.Sprintf("127.0.0.1:%d", port)), memStore(nil), flagSettings(false), "1.0.0", false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(ctx) }()

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(baseURL + "/ping")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get(baseURL + "/api/v1/status")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"version":"1.0.0"`)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
