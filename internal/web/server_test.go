package web_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendlasvegas/SelfCheck/internal/types"
	"github.com/vendlasvegas/SelfCheck/internal/web"
	"github.com/vendlasvegas/SelfCheck/log2"
)

type fakePoster struct {
	mu      sync.Mutex
	events  []types.Event
	view    types.View
	stopped bool
}

func (p *fakePoster) Post(e types.Event) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return false
	}
	p.events = append(p.events, e)
	return true
}

func (p *fakePoster) View() types.View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view
}

func (p *fakePoster) last(t testing.TB) types.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	require.NotEmpty(t, p.events)
	return p.events[len(p.events)-1]
}

func newTestServer(t testing.TB, config web.Config) (*fakePoster, *web.Hub, http.Handler) {
	log := log2.NewTest(t, log2.LDebug)
	poster := &fakePoster{view: types.View{Mode: "idle", Screen: "slideshow", Seq: 3}}
	hub := web.NewHub(log)
	srv := web.NewServer(config, poster, hub, log)
	return poster, hub, srv.Router()
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthStatus(t *testing.T) {
	t.Parallel()

	_, _, h := newTestServer(t, web.Config{})
	w := do(h, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(h, "GET", "/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	var v types.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, "slideshow", v.Screen)
	assert.Equal(t, uint64(3), v.Seq)
}

func TestInputPosts(t *testing.T) {
	t.Parallel()

	poster, _, h := newTestServer(t, web.Config{})
	cases := []struct {
		name   string
		path   string
		body   string
		code   int
		expect types.Event
	}{
		{"touch", "/input/touch", `{"x":10,"y":20}`, http.StatusAccepted,
			types.Event{Kind: types.EventTouch, X: 10, Y: 20, Source: web.EventSource}},
		{"scan", "/input/scan", `{"code":"012345678905"}`, http.StatusAccepted,
			types.Event{Kind: types.EventScan, Code: "012345678905", Source: web.EventSource}},
		{"login", "/admin/login", `{"user":"admin","password":"secret"}`, http.StatusAccepted,
			types.Event{Kind: types.EventAdminLogin, User: "admin", Password: "secret", Source: web.EventSource}},
		{"cancel", "/admin/cancel", ``, http.StatusAccepted,
			types.Event{Kind: types.EventAdminCancel, Source: web.EventSource}},
	}
	for _, c := range cases {
		w := do(h, "POST", c.path, c.body)
		require.Equal(t, c.code, w.Code, c.name)
		assert.Equal(t, c.expect, poster.last(t), c.name)
	}
}

func TestInputInvalid(t *testing.T) {
	t.Parallel()

	poster, _, h := newTestServer(t, web.Config{})
	assert.Equal(t, http.StatusBadRequest, do(h, "POST", "/input/touch", `{"x":10}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(h, "POST", "/input/touch", `{"x":-1,"y":2}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(h, "POST", "/input/scan", `not json`).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(h, "GET", "/input/scan", ``).Code)
	assert.Empty(t, poster.events)

	poster.stopped = true
	assert.Equal(t, http.StatusServiceUnavailable, do(h, "POST", "/input/scan", `{"code":"1"}`).Code)
}

func TestCORS(t *testing.T) {
	t.Parallel()

	_, _, h := newTestServer(t, web.Config{AllowedOrigins: []string{"http://renderer.local"}})
	req := httptest.NewRequest("OPTIONS", "/input/scan", nil)
	req.Header.Set("Origin", "http://renderer.local")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "http://renderer.local", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("OPTIONS", "/input/scan", nil)
	req.Header.Set("Origin", "http://evil.local")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestWebsocketViews(t *testing.T) {
	t.Parallel()

	_, hub, h := newTestServer(t, web.Config{})
	hub.Render(types.View{Mode: "idle", Screen: "slideshow", Seq: 1})
	ts := httptest.NewServer(h)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() types.View {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var v types.View
		require.NoError(t, conn.ReadJSON(&v))
		return v
	}
	// last view first
	assert.Equal(t, uint64(1), read().Seq)
	require.Eventually(t, func() bool { return hub.Len() == 1 }, 2*time.Second, 5*time.Millisecond)

	hub.Render(types.View{Mode: "cart", Screen: "cart", Seq: 2, Cart: &types.CartView{Total: "$1.00"}})
	v := read()
	assert.Equal(t, "cart", v.Screen)
	require.NotNil(t, v.Cart)
	assert.Equal(t, "$1.00", v.Cart.Total)

	hub.Close()
	assert.Equal(t, 0, hub.Len())
}

func TestWebsocketOriginRejected(t *testing.T) {
	t.Parallel()

	_, _, h := newTestServer(t, web.Config{AllowedOrigins: []string{"http://renderer.local"}})
	ts := httptest.NewServer(h)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"http://evil.local"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestServeShutdown(t *testing.T) {
	t.Parallel()

	log := log2.NewTest(t, log2.LDebug)
	poster := &fakePoster{}
	srv := web.NewServer(web.Config{}, poster, web.NewHub(log), log)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}
