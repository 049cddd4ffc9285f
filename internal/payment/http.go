package payment

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"transport-service/internal/student"

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
	router.POST("/payments", h.CreateSingle)
	router.POST("/payments/batch", h.CreateBatch)
	router.GET("/payments", h.FindByStudents)
}

type CreateSingleRequest struct {
	StudentID string  `json:"studentId" validate:"required,uuid"`
	Month     string  `json:"month" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
}

type CreateBatchRequest struct {
	StudentID      string   `json:"studentId" validate:"required,uuid"`
	Months         []string `json:"months" validate:"required,min=1,dive,required"`
	AmountPerMonth float64  `json:"amountPerMonth" validate:"required,gt=0"`
	Date           string   `json:"date" validate:"required,datetime=2006-01-02"`
}

func (h *Handler) CreateSingle(c *gin.Context) {
	var req CreateSingleRequest
	if err := c.ShouldBindJSON(&req); err != nil || h.validate.Struct(&req) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	h.logger.InfoContext(c.Request.Context(), "recording payment",
		"student_id", req.StudentID, "month", req.Month)
	payment, err := h.service.CreateSingle(c.Request.Context(), req.StudentID, req.Month, req.Amount)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (h *Handler) CreateBatch(c *gin.Context) {
	var req CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil || h.validate.Struct(&req) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	h.logger.InfoContext(c.Request.Context(), "recording batch settlement",
		"student_id", req.StudentID, "months", len(req.Months))
	payments, err := h.service.CreateBatch(c.Request.Context(), req.StudentID, req.Months, req.AmountPerMonth, req.Date)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payments)
}

// FindByStudents backs the guardian balance view:
// GET /payments?studentIds=id1,id2
func (h *Handler) FindByStudents(c *gin.Context) {
	var ids []string
	if raw := c.Query("studentIds"); raw != "" {
		ids = strings.Split(raw, ",")
	}

	payments, err := h.service.FindByStudents(c.Request.Context(), ids)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (h *Handler) handleServiceError(c *gin.Context, err error) {
	var balanceErr *BalanceExceededError
	var mismatchErr *AmountMismatchError
	switch {
	case errors.Is(err, student.ErrStudentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
	case errors.Is(err, ErrDuplicateMonth):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &balanceErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     "amount exceeds remaining balance",
			"remaining": balanceErr.Remaining,
		})
	case errors.As(err, &mismatchErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":    "amount must equal full tuition",
			"expected": mismatchErr.Expected,
		})
	default:
		h.logger.Error("payment internal error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
