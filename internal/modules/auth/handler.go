package auth

import (
	"errors"
	"log"
	"net/http"
	"time"

	"deployhub/internal/pkg/response"
	"deployhub/internal/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced by the CORS middleware on the rest of the API;
	// the events socket carries no sensitive payloads.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
	hub     *EventHub
}

func NewHandler(service *Service, hub *EventHub) *Handler {
	return &Handler{
		service: service,
		hub:     hub,
	}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	authGroup := protected.Group("/auth")
	{
		authGroup.GET("/session", h.Session)
		authGroup.POST("/logout", h.Logout)
		authGroup.GET("/events", h.Events)
	}
	userGroup := protected.Group("/users")
	{
		userGroup.GET("/me", h.GetMe)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", details)
		return
	}

	user, token, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
			return
		}
		response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"user":  UserPublic{ID: user.ID, Email: user.Email, Name: user.Name},
		"token": token,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Email or password is incorrect")
			return
		}
		response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to login")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":  UserPublic{ID: user.ID, Email: user.Email, Name: user.Name},
		"token": token,
	})
}

// Session is the one-shot session check: a valid token reached this point
// through the auth middleware, so the claims on the context are the session.
func (h *Handler) Session(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"session": SessionResponse{
			UserID: c.GetInt64("user_id"),
			Email:  c.GetString("email"),
		},
	})
}

func (h *Handler) Logout(c *gin.Context) {
	h.service.Logout(c.GetInt64("user_id"), c.GetString("email"))
	response.Success(c, http.StatusOK, gin.H{"message": "signed out"})
}

func (h *Handler) GetMe(c *gin.Context) {
	userID := c.GetInt64("user_id")

	user, err := h.service.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user": UserPublic{ID: user.ID, Email: user.Email, Name: user.Name},
	})
}

// Events upgrades to a websocket and streams session-change notifications
// until the client goes away. One connection per user.
func (h *Handler) Events(c *gin.Context) {
	userID := c.GetInt64("user_id")
	email := c.GetString("email")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("session events upgrade failed user_id=%d: %v", userID, err)
		return
	}

	h.hub.Register(userID, conn)
	defer h.hub.Unregister(userID)

	// Confirm the current session state on connect.
	h.hub.Publish(userID, SessionEvent{Event: EventSignedIn, Email: email, At: time.Now()})

	// Read loop only drains control frames; the hub owns all writes.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
