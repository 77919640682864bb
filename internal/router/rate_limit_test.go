package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/undangan-next/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func newRateLimitedEngine(client *redis.Client, rule RateLimitRule) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/invitations/slug/:slug/comments", RateLimitMiddleware(client, rule, KeyByIP), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	})
	return r
}

func TestNewRateLimitRuleCopiesConfig(t *testing.T) {
	rule := NewRateLimitRule("undangan:rate:login", config.RateLimitConfig{WindowSeconds: 300, MaxRequests: 10})
	if rule.Prefix != "undangan:rate:login" {
		t.Fatalf("prefix mismatch: %s", rule.Prefix)
	}
	if rule.WindowSeconds != 300 || rule.MaxRequests != 10 {
		t.Fatalf("window/max want 300/10 got %d/%d", rule.WindowSeconds, rule.MaxRequests)
	}
}

func TestRateLimitMiddlewareFailsOpenWhenRedisUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	r := newRateLimitedEngine(client, NewRateLimitRule("undangan:rate:comment", config.RateLimitConfig{WindowSeconds: 60, MaxRequests: 1}))
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/invitations/slug/rama-sinta/comments", strings.NewReader(`{}`))
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d want 200 while redis is down, got %d body=%s", i+1, w.Code, w.Body.String())
		}
		if w.Header().Get("Retry-After") != "" {
			t.Fatalf("retry-after should not be set when the limiter is bypassed")
		}
	}
}

func TestRateLimitMiddlewareDisabledRule(t *testing.T) {
	cases := []struct {
		name string
		rule RateLimitRule
	}{
		{name: "zero window", rule: RateLimitRule{Prefix: "undangan:rate:webhook", MaxRequests: 1}},
		{name: "zero max", rule: RateLimitRule{Prefix: "undangan:rate:webhook", WindowSeconds: 60}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRateLimitedEngine(nil, tc.rule)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/invitations/slug/rama-sinta/comments", nil))
			if w.Code != http.StatusOK {
				t.Fatalf("status want 200 got %d", w.Code)
			}
		})
	}
}

func TestKeyByIPAndJSONField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "email normalized", body: `{"email":" Rama@Example.com "}`, want: "rama@example.com|1.2.3.4"},
		{name: "missing field falls back to ip", body: `{"password":"secret123"}`, want: "1.2.3.4"},
		{name: "invalid json falls back to ip", body: `not-json`, want: "1.2.3.4"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(tc.body))
			c.Request.Header.Set("Content-Type", "application/json")
			c.Request.RemoteAddr = "1.2.3.4:5678"

			if key := KeyByIPAndJSONField("email")(c); key != tc.want {
				t.Fatalf("key want %s got %s", tc.want, key)
			}
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				t.Fatalf("read body after key extraction failed: %v", err)
			}
			if string(body) != tc.body {
				t.Fatalf("request body should be restored, got %s", string(body))
			}
		})
	}
}
