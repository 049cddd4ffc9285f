package promotion

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.POST("/students/promote", h.PromoteAll)
}

// PromoteAll is an owner-triggered annual action; the route group
// guarding it keeps it off any automated trigger.
func (h *Handler) PromoteAll(c *gin.Context) {
	h.logger.InfoContext(c.Request.Context(), "starting promotion sweep")

	summary, err := h.service.PromoteAll(c.Request.Context())
	if err != nil {
		h.logger.Error("promotion sweep failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
