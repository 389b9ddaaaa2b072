package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/pkg/config"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestPeerAddr(t *testing.T) {
	tests := []struct {
		addr    string
		want    string
		wantErr bool
	}{
		{addr: "192.168.1.1:54321", want: "192.168.1.1"},
		{addr: "[2001:db8::1]:8080", want: "2001:db8::1"},
		{addr: "[::ffff:10.0.0.1]:80", want: "10.0.0.1"},
		{addr: "127.0.0.1", want: "127.0.0.1"},
		{addr: "not-an-ip", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			got, err := peerAddr(tt.addr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNewClientResolver(t *testing.T) {
	res, err := NewClientResolver("10.0.0.0/8, 192.168.1.1 ,2001:db8::1")
	require.NoError(t, err)
	assert.True(t, res.Proxied())
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.168.1.1/32"),
		netip.MustParsePrefix("2001:db8::1/128"),
	}, res.Trusted)

	res, err = NewClientResolver("")
	require.NoError(t, err)
	assert.False(t, res.Proxied())

	_, err = NewClientResolver("10.0.0.0/8,nope")
	assert.Error(t, err)
}

func TestClientResolver_Resolve(t *testing.T) {
	res, err := NewClientResolver("10.0.0.0/8")
	require.NoError(t, err)

	tests := []struct {
		name   string
		remote string
		xff    string
		xri    string
		want   string
	}{
		{name: "trusted proxy uses XFF client", remote: "10.1.2.3:80", xff: "203.0.113.9, 10.1.2.3", want: "203.0.113.9"},
		{name: "spoofed left entry is skipped", remote: "10.1.2.3:80", xff: "6.6.6.6, 203.0.113.9", want: "203.0.113.9"},
		{name: "trusted proxy uses X-Real-IP", remote: "10.1.2.3:80", xri: "203.0.113.7", want: "203.0.113.7"},
		{name: "untrusted peer ignores headers", remote: "198.51.100.4:80", xff: "1.2.3.4", want: "198.51.100.4"},
		{name: "garbage XFF falls back", remote: "10.1.2.3:80", xff: "garbage", want: "10.1.2.3"},
		{name: "all hops trusted", remote: "10.1.2.3:80", xff: "10.9.9.9", want: "10.1.2.3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			got, err := res.Resolve(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestClientIP_StoresInContext(t *testing.T) {
	var got string
	h := ClientIP(ClientResolver{})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = RequestIP(r)
	}))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.5:9999"
	r.Header.Set("X-Forwarded-For", "1.2.3.4")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "203.0.113.5", got)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter("test", config.RateLimitConfig{RPS: 1, Burst: 2, IdleTTL: time.Minute})
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	h := rl.Middleware(okHandler)
	call := func(ip string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/subscribe", nil)
		r.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	assert.Equal(t, http.StatusOK, call("1.1.1.1").Code)
	assert.Equal(t, http.StatusOK, call("1.1.1.1").Code)
	w := call("1.1.1.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), `"error":true`)

	assert.Equal(t, http.StatusOK, call("2.2.2.2").Code, "buckets are per IP")

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, call("1.1.1.1").Code, "token refilled")

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 2, rl.CleanupExpired())
	assert.Zero(t, rl.Size())
}

func TestCORS(t *testing.T) {
	h := CORS(CORSConfig{
		AllowedOrigins: []string{"https://blog.example.com"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Authorization"},
		MaxAge:         600,
	})(okHandler)

	t.Run("preflight", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodOptions, "/api/articles", nil)
		r.Header.Set("Origin", "https://blog.example.com")
		r.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://blog.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("disallowed origin", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
		r.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("disabled without origins", func(t *testing.T) {
		off := CORS(CORSConfig{})(okHandler)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Origin", "https://blog.example.com")
		w := httptest.NewRecorder()
		off.ServeHTTP(w, r)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(DefaultCSP, map[string]string{"/swagger/": SwaggerCSP})(okHandler)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/articles", nil))
	assert.Equal(t, DefaultCSP, w.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Equal(t, SwaggerCSP, w.Header().Get("Content-Security-Policy"))
}
