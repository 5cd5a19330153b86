// Package httpapi exposes the metadata service over HTTP/JSON: a write
// endpoint the sync worker posts documents to, an owner-scoped listing, and
// a health probe.
package httpapi

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/voicevault/internal/common"
	"github.com/dmitrijs2005/voicevault/internal/logging"
	"github.com/dmitrijs2005/voicevault/internal/server/auth"
	"github.com/dmitrijs2005/voicevault/internal/server/models"
	"github.com/dmitrijs2005/voicevault/internal/server/repositories/recordings"
	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

// Handler serves the metadata API.
type Handler struct {
	repo      recordings.Repository
	logger    logging.Logger
	jwtSecret []byte
}

// NewHandler binds the API to its repository.
func NewHandler(repo recordings.Repository, logger logging.Logger, jwtSecret []byte) *Handler {
	return &Handler{repo: repo, logger: logger, jwtSecret: jwtSecret}
}

// Router builds the gin engine with auth on the API routes.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", h.Health)

	api := r.Group("/api", h.deviceTokenRequired())
	api.POST("/recordings", h.CreateRecording)
	api.GET("/recordings", h.ListRecordings)

	return r
}

// deviceTokenRequired validates the bearer token and stores the owner id on
// the request context.
func (h *Handler) deviceTokenRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		userID, err := auth.GetUserIDFromToken(token, h.jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

type createRecordingRequest struct {
	StorageKey     string `json:"storageKey" binding:"required"`
	Prompt         string `json:"prompt"`
	Transcript     string `json:"transcript"`
	Notes          string `json:"notes"`
	Duration       int    `json:"duration"`
	RecorderType   string `json:"recorderType" binding:"required"`
	RemoteAudioRef string `json:"remoteAudioRef" binding:"required"`
}

// CreateRecording upserts a metadata document for the authenticated owner.
// The owner id always comes from the token, never the body.
func (h *Handler) CreateRecording(c *gin.Context) {
	var req createRecordingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec := &models.Recording{
		UserID:       c.GetString(userIDKey),
		StorageKey:   req.StorageKey,
		Prompt:       req.Prompt,
		Transcript:   req.Transcript,
		Notes:        req.Notes,
		Duration:     req.Duration,
		RecorderType: req.RecorderType,
		AudioURL:     req.RemoteAudioRef,
	}

	if err := h.repo.CreateOrUpdate(c.Request.Context(), rec); err != nil {
		h.logger.Error(c.Request.Context(), "metadata write failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "write failed"})
		return
	}

	c.JSON(http.StatusCreated, rec)
}

// ListRecordings returns the authenticated owner's documents, newest first.
func (h *Handler) ListRecordings(c *gin.Context) {
	rows, err := h.repo.GetByOwner(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		h.logger.Error(c.Request.Context(), "metadata read failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "read failed"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Health reports process liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
