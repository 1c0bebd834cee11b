package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"deployhub/internal/database"
	"deployhub/internal/middleware"
	jwtsvc "deployhub/internal/pkg/jwt"
	"deployhub/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*gin.Engine, *EventHub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	userRepo := repository.NewUserRepository(db)
	j := jwtsvc.New("test-secret", time.Hour)
	hub := NewEventHub()
	t.Cleanup(hub.Close)

	service := NewService(userRepo, j, hub)
	handler := NewHandler(service, hub)

	router := gin.New()
	v1 := router.Group("/api/v1")
	handler.RegisterPublicRoutes(v1)

	protected := v1.Group("/")
	protected.Use(middleware.JWTAuth(j))
	handler.RegisterProtectedRoutes(protected)

	return router, hub
}

func performJSON(router *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

type authPayload struct {
	Data struct {
		User  UserPublic `json:"user"`
		Token string     `json:"token"`
	} `json:"data"`
}

func TestRegisterLoginSessionFlow(t *testing.T) {
	router, _ := setupRouter(t)

	resp := performJSON(router, http.MethodPost, "/api/v1/auth/register", RegisterRequest{
		Name:     "Ops",
		Email:    "ops@example.com",
		Password: "securepass",
	}, "")
	require.Equal(t, http.StatusCreated, resp.Code)

	var registered authPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&registered))
	require.NotEmpty(t, registered.Data.Token)
	require.Equal(t, "ops@example.com", registered.Data.User.Email)

	// Duplicate registration conflicts.
	resp = performJSON(router, http.MethodPost, "/api/v1/auth/register", RegisterRequest{
		Name:     "Ops Again",
		Email:    "ops@example.com",
		Password: "securepass",
	}, "")
	require.Equal(t, http.StatusConflict, resp.Code)

	resp = performJSON(router, http.MethodPost, "/api/v1/auth/login", LoginRequest{
		Email:    "ops@example.com",
		Password: "securepass",
	}, "")
	require.Equal(t, http.StatusOK, resp.Code)

	var loggedIn authPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loggedIn))
	token := loggedIn.Data.Token
	require.NotEmpty(t, token)

	// One-shot session check.
	resp = performJSON(router, http.MethodGet, "/api/v1/auth/session", nil, token)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "ops@example.com")

	resp = performJSON(router, http.MethodGet, "/api/v1/users/me", nil, token)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"name":"Ops"`)

	// Without a token the gate stays closed.
	resp = performJSON(router, http.MethodGet, "/api/v1/auth/session", nil, "")
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLoginBadCredentials(t *testing.T) {
	router, _ := setupRouter(t)

	resp := performJSON(router, http.MethodPost, "/api/v1/auth/register", RegisterRequest{
		Name:     "Ops",
		Email:    "ops@example.com",
		Password: "securepass",
	}, "")
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = performJSON(router, http.MethodPost, "/api/v1/auth/login", LoginRequest{
		Email:    "ops@example.com",
		Password: "wrong",
	}, "")
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestSessionEventsStream(t *testing.T) {
	router, hub := setupRouter(t)

	resp := performJSON(router, http.MethodPost, "/api/v1/auth/register", RegisterRequest{
		Name:     "Ops",
		Email:    "ops@example.com",
		Password: "securepass",
	}, "")
	require.Equal(t, http.StatusCreated, resp.Code)

	var registered authPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&registered))
	token := registered.Data.Token
	userID := registered.Data.User.ID

	server := httptest.NewServer(router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/auth/events"
	header := http.Header{"Authorization": {"Bearer " + token}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()

	// The stream confirms the live session on connect.
	var connected SessionEvent
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&connected))
	require.Equal(t, EventSignedIn, connected.Event)
	require.Equal(t, "ops@example.com", connected.Email)

	// A sign-out elsewhere is pushed to the connected client.
	logoutResp := performJSON(router, http.MethodPost, "/api/v1/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, logoutResp.Code)

	var signedOut SessionEvent
	require.NoError(t, conn.ReadJSON(&signedOut))
	require.Equal(t, EventSignedOut, signedOut.Event)

	require.True(t, hub.IsConnected(userID))
}
