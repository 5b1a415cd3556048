package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/expense-approvals/internal/application/service"
	"github.com/garyjia/expense-approvals/internal/voucher"
)

// RootBanner is the plain-text body of GET /
const RootBanner = "Expense Approvals Workflow Service - OK"

// Handlers contains all HTTP request handlers
type Handlers struct {
	services Services
	version  string
	now      func() time.Time
	logger   Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services Services, version string, logger Logger) *Handlers {
	return &Handlers{
		services: services,
		version:  version,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger,
	}
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

type submitResponse struct {
	Success bool `json:"success"`
	*service.SubmitResult
}

type validateResponse struct {
	Success bool `json:"success"`
	*service.ValidationOutcome
}

type approveResponse struct {
	Success bool `json:"success"`
	*service.ApprovalOutcome
}

type payResponse struct {
	Success bool `json:"success"`
	*service.PaymentOutcome
}

type statusResponse struct {
	Success bool `json:"success"`
	*service.StatusView
}

type listResponse struct {
	Success bool `json:"success"`
	*service.ListResult
}

// Root handles GET /
func (h *Handlers) Root(c *gin.Context) {
	c.String(http.StatusOK, RootBanner)
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: h.now().Format(time.RFC3339),
		Version:   h.version,
	})
}

// SubmitExpense handles POST /api/expenses/submit
func (h *Handlers) SubmitExpense(c *gin.Context) {
	var req service.SubmitExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badBody(c, "Invalid expense report", err)
		return
	}

	result, err := h.services.Expenses.Submit(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, "submit", "", err)
		return
	}

	c.JSON(http.StatusOK, submitResponse{Success: true, SubmitResult: result})
}

// ValidateExpense handles POST /api/expenses/:reportId/validate
func (h *Handlers) ValidateExpense(c *gin.Context) {
	reportID := c.Param("reportId")

	result, err := h.services.Expenses.Validate(c.Request.Context(), reportID)
	if err != nil {
		h.respondError(c, "validate", reportID, err)
		return
	}

	c.JSON(http.StatusOK, validateResponse{Success: true, ValidationOutcome: result})
}

// ApproveExpense handles POST /api/expenses/:reportId/approve
func (h *Handlers) ApproveExpense(c *gin.Context) {
	reportID := c.Param("reportId")

	var req service.ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badBody(c, "Invalid approval request", err)
		return
	}

	result, err := h.services.Expenses.Approve(c.Request.Context(), reportID, &req)
	if err != nil {
		h.respondError(c, "approve", reportID, err)
		return
	}

	c.JSON(http.StatusOK, approveResponse{Success: true, ApprovalOutcome: result})
}

// PayExpense handles POST /api/expenses/:reportId/pay. The body is optional.
func (h *Handlers) PayExpense(c *gin.Context) {
	reportID := c.Param("reportId")

	var req service.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.badBody(c, "Invalid payment request", err)
		return
	}

	result, err := h.services.Payments.Pay(c.Request.Context(), reportID, &req)
	if err != nil {
		h.respondError(c, "pay", reportID, err)
		return
	}

	c.JSON(http.StatusOK, payResponse{Success: true, PaymentOutcome: result})
}

// GetStatus handles GET /api/expenses/:reportId/status
func (h *Handlers) GetStatus(c *gin.Context) {
	reportID := c.Param("reportId")

	view, err := h.services.Queries.GetStatus(c.Request.Context(), reportID)
	if err != nil {
		h.respondError(c, "status", reportID, err)
		return
	}

	c.JSON(http.StatusOK, statusResponse{Success: true, StatusView: view})
}

// ListExpenses handles GET /api/expenses?status=&employeeId=
func (h *Handlers) ListExpenses(c *gin.Context) {
	filter := service.ListFilter{
		Status:     c.Query("status"),
		EmployeeID: c.Query("employeeId"),
	}

	result, err := h.services.Queries.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, "list", "", err)
		return
	}

	c.JSON(http.StatusOK, listResponse{Success: true, ListResult: result})
}

// DownloadVoucher handles GET /api/expenses/:reportId/voucher
func (h *Handlers) DownloadVoucher(c *gin.Context) {
	reportID := c.Param("reportId")

	if h.services.Vouchers == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "voucher export is not enabled"})
		return
	}

	doc, err := h.services.Vouchers.Export(c.Request.Context(), reportID)
	if err != nil {
		h.respondError(c, "voucher", reportID, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Data(http.StatusOK, voucher.ContentType, doc.Content)
}

func (h *Handlers) badBody(c *gin.Context, prefix string, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("%s: %s", prefix, err.Error())})
}

// respondError maps service errors onto status codes
func (h *Handlers) respondError(c *gin.Context, op, reportID string, err error) {
	status := StatusCode(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", "op", op, "report_id", reportID, "error", err)
	}
	c.JSON(status, ErrorResponse{Error: service.PublicMessage(err)})
}

// StatusCode returns the HTTP status for a service error
func StatusCode(err error) int {
	switch {
	case service.IsValidation(err), errors.Is(err, service.ErrPrecondition):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
