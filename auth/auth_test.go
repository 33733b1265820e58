package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"facecheck/verifier"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRouter(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		header   string
		query    string
		wantCode int
	}{
		{"disabled", "", "secret", "", http.StatusNotFound},
		{"missing", "secret", "", "", http.StatusUnauthorized},
		{"wrong", "secret", "nope", "", http.StatusUnauthorized},
		{"header", "secret", "secret", "", http.StatusOK},
		{"query", "secret", "", "?token=secret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			r := &Router{Base: engine, Token: tt.token}
			r.GET("/admin", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
			req := httptest.NewRequest(http.MethodGet, "/admin"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set(tokenHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}

func TestSession_LastStatus(t *testing.T) {
	engine := gin.New()
	engine.Use(sessions.Sessions("facecheck", cookie.NewStore([]byte("test key"))))
	engine.POST("/set", func(c *gin.Context) {
		if err := LoadSession(c).SetLastStatus(verifier.Status{Kind: verifier.KindSuccess, Message: "It's Person X!"}); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})
	engine.GET("/get", func(c *gin.Context) {
		last := LoadSession(c).LastStatus()
		if last == nil {
			c.String(http.StatusOK, "none")
			return
		}
		c.String(http.StatusOK, string(last.Kind)+":"+last.Message)
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get", nil))
	if rec.Body.String() != "none" {
		t.Errorf("fresh session = %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/set", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("set code = %d", rec.Code)
	}
	req := httptest.NewRequest(http.MethodGet, "/get", nil)
	for _, ck := range rec.Result().Cookies() {
		req.AddCookie(ck)
	}
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Body.String() != "success:It's Person X!" {
		t.Errorf("last status = %q", rec.Body.String())
	}
}
