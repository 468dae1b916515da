package assistant

import (
	"context"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"bookhub/internal/logging"
	"bookhub/internal/validation"
	"bookhub/pkg/models"
)

// Reloader refreshes the in-memory catalog. *catalog.Live implements it.
type Reloader interface {
	Reload(ctx context.Context) (int, error)
}

type Handler struct {
	Assistant *Assistant
	Hub       *Hub
	Catalog   Reloader
}

func NewHandler(a *Assistant, hub *Hub, catalog Reloader) *Handler {
	return &Handler{Assistant: a, Hub: hub, Catalog: catalog}
}

// RegisterRoutes mounts the public routes. chatMW runs before POST /chat
// and the websocket upgrade, typically a rate limiter.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, chatMW ...gin.HandlerFunc) {
	chatMW = slices.Clip(chatMW)
	rg.POST("/chat", append(chatMW, h.chat)...)                          // POST /chat
	rg.GET("/ws/chat", append(chatMW, WSHandler(h.Assistant, h.Hub))...) // GET /ws/chat
	rg.GET("/ai/stats", h.stats)                                         // GET /ai/stats
	rg.GET("/ai/test-processing/:message", h.testProcessing)             // GET /ai/test-processing/:message
}

// RegisterAdminRoutes expects rg to be guarded by admin authentication.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/ai/configure", h.configure)      // POST /ai/configure
	rg.POST("/ai/stats/reset", h.resetStats)   // POST /ai/stats/reset
	rg.POST("/admin/catalog/reload", h.reload) // POST /admin/catalog/reload
}

func (h *Handler) chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if err := validation.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.Assistant.Respond(c.Request.Context(), req))
}

func (h *Handler) stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.Assistant.Stats())
}

func (h *Handler) testProcessing(c *gin.Context) {
	c.JSON(http.StatusOK, h.Assistant.TestProcessing(c.Param("message")))
}

type configureReq struct {
	ConfidenceThreshold *float64 `json:"confidence_threshold"`
	AdvancedProcessing  *bool    `json:"advanced_processing"`
}

// configure accepts the values as JSON body fields or query parameters;
// query parameters win.
func (h *Handler) configure(c *gin.Context) {
	var req configureReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
	}
	if s := c.Query("confidence_threshold"); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "confidence_threshold must be a number"})
			return
		}
		req.ConfidenceThreshold = &f
	}
	if s := c.Query("advanced_processing"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "advanced_processing must be true or false"})
			return
		}
		req.AdvancedProcessing = &b
	}

	current := h.Assistant.Configure(req.ConfidenceThreshold, req.AdvancedProcessing)
	logging.Ctx(c.Request.Context()).Info().
		Float64("confidence_threshold", current.ConfidenceThreshold).
		Bool("advanced_processing", current.AdvancedProcessing).
		Msg("nlp settings updated")

	c.JSON(http.StatusOK, gin.H{
		"message":          msgConfigured,
		"current_settings": current,
	})
}

func (h *Handler) resetStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": h.Assistant.ResetStats()})
}

func (h *Handler) reload(c *gin.Context) {
	if h.Catalog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog reload unavailable"})
		return
	}
	n, err := h.Catalog.Reload(c.Request.Context())
	if err != nil {
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("catalog reload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reload failed"})
		return
	}
	if h.Hub != nil {
		h.Hub.Broadcast(Event{Type: EventNotice, Text: "Catálogo atualizado: " + strconv.Itoa(n) + " livros disponíveis."})
	}
	c.JSON(http.StatusOK, gin.H{"books": n})
}
