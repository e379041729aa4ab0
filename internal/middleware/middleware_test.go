package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kval-tools/assessment_backend/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// mockTokenService implements auth.TokenService for testing
type mockTokenService struct {
	ValidToken   string
	ValidClaims  *auth.SessionClaims
	ExpiredError bool
}

func (m *mockTokenService) GenerateSessionToken(sessionID string) (*auth.IssuedToken, error) {
	return &auth.IssuedToken{
		Token:     m.ValidToken,
		ExpiresAt: time.Now().Add(time.Hour),
		ExpiresIn: 3600,
	}, nil
}

func (m *mockTokenService) ValidateSessionToken(tokenString string) (*auth.SessionClaims, error) {
	if m.ExpiredError {
		return nil, auth.ErrTokenExpired
	}
	if tokenString == m.ValidToken && m.ValidClaims != nil {
		return m.ValidClaims, nil
	}
	return nil, auth.ErrInvalidToken
}

func TestSessionAuth_ValidToken(t *testing.T) {
	mockTokens := &mockTokenService{
		ValidToken:  "valid-token",
		ValidClaims: &auth.SessionClaims{SessionID: "session-123"},
	}

	var capturedSessionID string
	router := gin.New()
	router.Use(SessionAuth(mockTokens))
	router.GET("/test", func(c *gin.Context) {
		capturedSessionID, _ = GetSessionID(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	if capturedSessionID != "session-123" {
		t.Errorf("Expected session ID session-123, got %q", capturedSessionID)
	}
}

func TestSessionAuth_MissingHeader(t *testing.T) {
	router := gin.New()
	router.Use(SessionAuth(&mockTokenService{}))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestSessionAuth_InvalidFormat(t *testing.T) {
	router := gin.New()
	router.Use(SessionAuth(&mockTokenService{}))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name   string
		header string
	}{
		{"Missing Bearer prefix", "token-only"},
		{"Wrong prefix", "Basic token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Authorization", tt.header)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
			}
		})
	}
}

func TestSessionAuth_InvalidToken(t *testing.T) {
	mockTokens := &mockTokenService{ValidToken: "valid-token"}

	router := gin.New()
	router.Use(SessionAuth(mockTokens))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestSessionAuth_ExpiredToken(t *testing.T) {
	mockTokens := &mockTokenService{ExpiredError: true}

	router := gin.New()
	router.Use(SessionAuth(mockTokens))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestRequestID_GeneratesNew(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())

	var capturedID string
	router.GET("/test", func(c *gin.Context) {
		capturedID = GetRequestID(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if capturedID == "" {
		t.Error("Expected request ID to be generated")
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header to be set")
	}
}

func TestRequestID_UsesExisting(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())

	existingID := "existing-request-id"
	var capturedID string
	router.GET("/test", func(c *gin.Context) {
		capturedID = GetRequestID(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Request-ID", existingID)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if capturedID != existingID {
		t.Errorf("Expected request ID %s, got %s", existingID, capturedID)
	}
}

func TestCORS_AllowedOrigin(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"http://localhost:3000"}))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Error("Expected CORS header to be set for allowed origin")
	}
}

func TestCORS_Preflight(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"*"}))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("OPTIONS", "/test", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status %d for OPTIONS, got %d", http.StatusNoContent, w.Code)
	}
}

func TestSecureHeaders(t *testing.T) {
	router := gin.New()
	router.Use(SecureHeaders())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	expectedHeaders := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	}

	for header, expected := range expectedHeaders {
		if w.Header().Get(header) != expected {
			t.Errorf("Expected %s to be %s, got %s", header, expected, w.Header().Get(header))
		}
	}
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.Use(Recovery())
	router.GET("/test", func(c *gin.Context) {
		panic("test panic")
	})

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)

	router := gin.New()
	router.Use(limiter.RateLimit())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "192.168.1.1:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("Request %d: expected %d, got %d", i+1, http.StatusOK, w.Code)
		}
	}

	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "192.168.1.1:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Third request: expected %d, got %d", http.StatusTooManyRequests, w.Code)
	}
}

func TestRateLimiter_ConcurrentRequests(t *testing.T) {
	limiter := NewRateLimiter(50, time.Minute)

	router := gin.New()
	router.Use(limiter.RateLimit())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// Hammer the limiter from many goroutines and client IPs at once; run
	// with -race to catch unsynchronized access to the request map
	var allowed, limited int64
	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				req := httptest.NewRequest("GET", "/test", nil)
				req.RemoteAddr = fmt.Sprintf("192.168.1.%d:1234", g%3+1)
				w := httptest.NewRecorder()
				router.ServeHTTP(w, req)
				switch w.Code {
				case http.StatusOK:
					atomic.AddInt64(&allowed, 1)
				case http.StatusTooManyRequests:
					atomic.AddInt64(&limited, 1)
				default:
					t.Errorf("Unexpected status %d", w.Code)
				}
			}
		}(g)
	}
	wg.Wait()

	if allowed+limited != 200 {
		t.Fatalf("Expected 200 responses, got %d", allowed+limited)
	}
	// 3 distinct IPs at 50 requests each fit the limit; the rest must be cut
	if allowed != 150 {
		t.Errorf("Expected 150 allowed requests, got %d", allowed)
	}
	if limited != 50 {
		t.Errorf("Expected 50 limited requests, got %d", limited)
	}
}

func TestGetSessionID_NotSet(t *testing.T) {
	router := gin.New()

	var ok bool
	router.GET("/test", func(c *gin.Context) {
		_, ok = GetSessionID(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if ok {
		t.Error("Expected GetSessionID to return false when not set")
	}
}
