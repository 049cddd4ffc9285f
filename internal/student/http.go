package student

import (
	"errors"
	"log/slog"
	"net/http"

	"transport-service/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo   Repository
	logger *slog.Logger
}

func NewHandler(repo Repository, logger *slog.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/students/:id", h.GetStudent)
	router.GET("/guardian/students", h.GetMyChildren)
}

func (h *Handler) GetStudent(c *gin.Context) {
	student, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, student)
}

// GetMyChildren lists the authenticated guardian's students, the entry
// point for the guardian-facing balance view.
func (h *Handler) GetMyChildren(c *gin.Context) {
	userID, ok := auth.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	students, err := h.repo.FindByGuardian(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	if errors.Is(err, ErrStudentNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}
	h.logger.Error("student store failure", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
