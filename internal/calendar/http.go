package calendar

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	repo     Repository
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(repo Repository, logger *slog.Logger) *Handler {
	return &Handler{
		repo:     repo,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/calendar/config", h.GetConfig)
	router.PUT("/calendar/config", h.UpdateConfig)
	router.GET("/calendar/non-school-days", h.ListNonSchoolDays)
	router.POST("/calendar/non-school-days", h.CreateNonSchoolDay)
	router.DELETE("/calendar/non-school-days/:id", h.DeleteNonSchoolDay)
}

type UpdateConfigRequest struct {
	SchoolYearStart   string `json:"schoolYearStart" validate:"omitempty,datetime=2006-01-02"`
	SchoolYearEnd     string `json:"schoolYearEnd" validate:"omitempty,datetime=2006-01-02"`
	MidYearBreakStart string `json:"midYearBreakStart" validate:"omitempty,datetime=2006-01-02"`
	MidYearBreakEnd   string `json:"midYearBreakEnd" validate:"omitempty,datetime=2006-01-02"`
}

func (h *Handler) GetConfig(c *gin.Context) {
	cfg, err := h.repo.GetConfig(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *Handler) UpdateConfig(c *gin.Context) {
	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil || h.validate.Struct(&req) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	cfg, err := h.repo.GetConfig(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	cfg.SchoolYearStart = req.SchoolYearStart
	cfg.SchoolYearEnd = req.SchoolYearEnd
	cfg.MidYearBreakStart = req.MidYearBreakStart
	cfg.MidYearBreakEnd = req.MidYearBreakEnd

	h.logger.InfoContext(c.Request.Context(), "updating school calendar config")
	if err := h.repo.UpdateConfig(c.Request.Context(), cfg); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *Handler) ListNonSchoolDays(c *gin.Context) {
	days, err := h.repo.ListNonSchoolDays(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, days)
}

func (h *Handler) CreateNonSchoolDay(c *gin.Context) {
	var day NonSchoolDay
	if err := c.ShouldBindJSON(&day); err != nil || h.validate.Struct(&day) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	h.logger.InfoContext(c.Request.Context(), "registering non-school day", "date", day.Date)
	if err := h.repo.CreateNonSchoolDay(c.Request.Context(), &day); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, day)
}

func (h *Handler) DeleteNonSchoolDay(c *gin.Context) {
	if err := h.repo.DeleteNonSchoolDay(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrDayNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Non-school day not found"})
	case errors.Is(err, ErrDayExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ErrConfigAbsent):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "school config not initialized"})
	default:
		h.logger.Error("calendar store failure", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
