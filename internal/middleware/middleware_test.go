package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func newRouter(j *JWT) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(EnableCORS())
	r.POST("/write", j.RequireAuthWithRole("dispatcher", "admin"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint("user_id")})
	})
	return r
}

func do(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/write", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestRequireAuthNoToken(t *testing.T) {
	r := newRouter(NewJWT("test-secret", time.Hour))
	if resp := do(r, ""); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestRequireAuthRoles(t *testing.T) {
	j := NewJWT("test-secret", time.Hour)
	r := newRouter(j)

	viewer, err := j.GenerateToken(1, "viewer")
	if err != nil {
		t.Fatal(err)
	}
	if resp := do(r, viewer); resp.Code != http.StatusForbidden {
		t.Fatalf("viewer: expected 403, got %d", resp.Code)
	}

	dispatcher, _ := j.GenerateToken(2, "dispatcher")
	if resp := do(r, dispatcher); resp.Code != http.StatusOK {
		t.Fatalf("dispatcher: expected 200, got %d", resp.Code)
	}
}

func TestRejectsForeignAndExpiredTokens(t *testing.T) {
	j := NewJWT("test-secret", time.Hour)
	r := newRouter(j)

	other, _ := NewJWT("other-secret", time.Hour).GenerateToken(1, "admin")
	if resp := do(r, other); resp.Code != http.StatusUnauthorized {
		t.Fatalf("foreign secret: expected 401, got %d", resp.Code)
	}

	expired, _ := NewJWT("test-secret", -time.Minute).GenerateToken(1, "admin")
	if resp := do(r, expired); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expired: expected 401, got %d", resp.Code)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1, Role: "admin"})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if resp := do(r, unsigned); resp.Code != http.StatusUnauthorized {
		t.Fatalf("alg none: expected 401, got %d", resp.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newRouter(NewJWT("test-secret", time.Hour))
	req := httptest.NewRequest(http.MethodOptions, "/write", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("origin not echoed: %q", got)
	}
}

func TestRequireAuthAnyRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	j := NewJWT("test-secret", time.Hour)
	r := gin.New()
	r.GET("/me", j.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint("user_id"), "role": c.GetString("role")})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", resp.Code)
	}

	viewer, _ := j.GenerateToken(9, "viewer")
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+viewer)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("viewer: expected 200, got %d", resp.Code)
	}
	if body := resp.Body.String(); body != `{"role":"viewer","user_id":9}` {
		t.Fatalf("unexpected body %s", body)
	}
}
