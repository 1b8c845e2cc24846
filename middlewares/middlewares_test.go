package middlewares

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/CPU-commits/Intranet_BXams/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ok(ctx *gin.Context) {
	ctx.String(http.StatusOK, "ok")
}

func withClaims(userType string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set(services.CLAIMS_CONTEXT_KEY, &services.Claims{
			ID:       primitive.NewObjectID().Hex(),
			UserType: userType,
		})
		ctx.Next()
	}
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRolesMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		userType string
		status   int
	}{
		{"allowed", models.INSTRUCTOR, http.StatusOK},
		{"denied", models.STUDENT, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/", withClaims(tt.userType), RolesMiddleware([]string{models.INSTRUCTOR}), ok)
			w := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}

	router := gin.New()
	router.GET("/", RolesMiddleware([]string{models.INSTRUCTOR}), ok)
	w := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMiddleware(t *testing.T) {
	user := &models.User{
		ID:       primitive.NewObjectID(),
		Kind:     models.STUDENT,
		Username: "ana",
	}
	pair, err := services.NewTokenPair(user, time.Now())
	require.NoError(t, err)

	var got *services.Claims
	router := gin.New()
	router.GET("/", JWTMiddleware(), func(ctx *gin.Context) {
		got, _ = services.NewClaimsFromContext(ctx)
		ok(ctx)
	})

	t.Run("bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		w := serve(router, req)
		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, got)
		assert.Equal(t, user.ID.Hex(), got.ID)
	})
	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: ACCESS_COOKIE, Value: pair.AccessToken})
		w := serve(router, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
	t.Run("missing", func(t *testing.T) {
		w := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
	t.Run("refresh token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
		w := serve(router, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestDetectThreat(t *testing.T) {
	tests := []struct {
		input string
		rule  string
	}{
		{"1' OR 1=1", "sql_injection"},
		{"x UNION ALL SELECT password FROM users", "sql_injection"},
		{"a'; DROP TABLE users", "sql_injection"},
		{"<script>alert(1)</script>", "xss"},
		{"<img src=x onerror=alert(1)>", "xss"},
		{"javascript:alert(1)", "xss"},
		{"../../etc/passwd", "path_traversal"},
		{"%2e%2e%2fetc", "path_traversal"},
		{`{"username": {"$ne": null}}`, "nosql_injection"},
		{"username[$ne]=x", "nosql_injection"},
		{"file; rm -rf /", "command_injection"},
		{"x | bash", "command_injection"},
		{"$(whoami)", "command_injection"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			rule, found := DetectThreat(tt.input)
			assert.True(t, found)
			assert.Equal(t, tt.rule, rule)
		})
	}

	clean := []string{
		"",
		"/api/exam-attempt/637d5de216f58bc8ec7f7f51/answer",
		"course=637d5de216f58bc8ec7f7f51&q=algebra",
		`{"text": "The mitochondria is the powerhouse of the cell"}`,
		`{"choices": [0, 2]}`,
		"It's a select group -- of students",
	}
	for _, input := range clean {
		_, found := DetectThreat(input)
		assert.False(t, found, input)
	}
}

func TestThreatsMiddleware(t *testing.T) {
	var body string
	router := gin.New()
	router.Use(ThreatsMiddleware())
	router.Any("/*path", func(ctx *gin.Context) {
		data, _ := io.ReadAll(ctx.Request.Body)
		body = string(data)
		ok(ctx)
	})

	t.Run("query", func(t *testing.T) {
		w := serve(router, httptest.NewRequest(http.MethodGet, "/search?q=%3Cscript%3E", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
	t.Run("json body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":{"$gt":""}}`))
		req.Header.Set("Content-Type", "application/json")
		w := serve(router, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
	t.Run("clean body is kept", func(t *testing.T) {
		payload := `{"text":"photosynthesis"}`
		req := httptest.NewRequest(http.MethodPut, "/answer", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := serve(router, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, payload, body)
	})
	t.Run("past the scan limit", func(t *testing.T) {
		payload := `{"text":"` + strings.Repeat("a", MAX_SCANNED_BODY) + `<script>"}`
		req := httptest.NewRequest(http.MethodPut, "/answer", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := serve(router, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, len(payload), len(body))
	})
}

func TestMetricsMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(MetricsMiddleware("test"))
	router.GET("/course/:idCourse", ok)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/course/abc", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	w = serve(router, httptest.NewRequest(http.MethodGet, "/nothing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecovery(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
	}{
		{"string", "boom"},
		{"error", io.ErrUnexpectedEOF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(Recovery())
			router.GET("/", func(ctx *gin.Context) {
				panic(tt.value)
			})
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
			// One JSON document, nothing written before it
			assert.JSONEq(t, `{"success":false,"message":"Server Internal Error"}`, w.Body.String())
		})
	}
}
