package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/slabmarket-next/internal/constants"

	"github.com/gin-gonic/gin"
)

func TestKeyByIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// 登录用户优先
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/checkout", nil)
	c.Request.Header.Set(constants.CartSessionHeader, "sess-1")
	c.Set("user_id", uint(42))
	if key := KeyByIdentity(c); key != "user:42" {
		t.Fatalf("key want user:42 got %s", key)
	}

	// 匿名会话
	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Request = httptest.NewRequest(http.MethodPost, "/checkout", nil)
	c2.Request.Header.Set(constants.CartSessionHeader, "sess-1")
	if key := KeyByIdentity(c2); key != "session:sess-1" {
		t.Fatalf("key want session:sess-1 got %s", key)
	}

	// 兜底 IP
	w3 := httptest.NewRecorder()
	c3, _ := gin.CreateTestContext(w3)
	c3.Request = httptest.NewRequest(http.MethodPost, "/checkout", nil)
	c3.Request.RemoteAddr = "1.2.3.4:5678"
	if key := KeyByIdentity(c3); key != "1.2.3.4" {
		t.Fatalf("key want 1.2.3.4 got %s", key)
	}
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Fatalf("expected handler response body, got %s", w.Body.String())
	}
}

func TestToInt64(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  int64
		ok    bool
	}{
		{name: "int64", input: int64(10), want: 10, ok: true},
		{name: "int", input: int(11), want: 11, ok: true},
		{name: "uint8", input: uint8(12), want: 12, ok: true},
		{name: "float64", input: float64(13.9), want: 13, ok: true},
		{name: "string", input: "bad", want: 0, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := toInt64(tc.input)
			if ok != tc.ok {
				t.Fatalf("ok want %v got %v", tc.ok, ok)
			}
			if got != tc.want {
				t.Fatalf("value want %d got %d", tc.want, got)
			}
		})
	}
}
