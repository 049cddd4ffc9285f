package attendance

import (
	"errors"
	"log/slog"
	"net/http"

	"transport-service/internal/auth"
	"transport-service/internal/fleet"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/attendance/summary", h.DailySummary)
	router.GET("/attendance/roster", h.RosterForToday)
	router.POST("/attendance/batch", h.SubmitBatch)
	router.GET("/attendance/history", h.History)
}

type SubmitBatchRequest struct {
	Entries []BatchEntry `json:"entries" validate:"required,min=1,dive"`
}

func (h *Handler) DailySummary(c *gin.Context) {
	recorderID, ok := auth.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	summary, err := h.service.DailySummary(c.Request.Context(), recorderID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) RosterForToday(c *gin.Context) {
	recorderID, ok := auth.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	roster, err := h.service.RosterForToday(c.Request.Context(), recorderID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, roster)
}

func (h *Handler) SubmitBatch(c *gin.Context) {
	recorderID, ok := auth.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req SubmitBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil || h.validate.Struct(&req) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	h.logger.InfoContext(c.Request.Context(), "submitting attendance batch",
		"recorder_id", recorderID, "entries", len(req.Entries))
	records, err := h.service.SubmitBatch(c.Request.Context(), recorderID, req.Entries)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, records)
}

func (h *Handler) History(c *gin.Context) {
	recorderID, ok := auth.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	month := c.Query("month")
	history, err := h.service.History(c.Request.Context(), recorderID, month)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *Handler) handleServiceError(c *gin.Context, err error) {
	var notSchoolDay *NotSchoolDayError
	switch {
	case errors.As(err, &notSchoolDay):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "not a school day",
			"reason": notSchoolDay.Reason,
		})
	case errors.Is(err, ErrAlreadySubmitted):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, ErrDuplicateRecord):
		// Concurrent double submission lost the unique-index race.
		c.JSON(http.StatusConflict, gin.H{"error": "attendance already submitted today"})
	case errors.Is(err, ErrEmptyBatch), errors.Is(err, ErrInvalidMonth):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, fleet.ErrRecorderNotFound), errors.Is(err, fleet.ErrNoVehicleAssigned):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error("attendance internal error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
