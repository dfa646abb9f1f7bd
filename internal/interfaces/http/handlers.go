package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/luxegem-ledger/internal/application/service"
	"github.com/garyjia/luxegem-ledger/internal/domain/entity"
	"github.com/garyjia/luxegem-ledger/internal/domain/lifecycle"
	"github.com/garyjia/luxegem-ledger/internal/domain/money"
	"github.com/garyjia/luxegem-ledger/internal/domain/reconcile"
)

// Version is reported by the health endpoint.
var Version = "dev"

// Handlers contains all HTTP request handlers
type Handlers struct {
	customerService service.CustomerService
	billingService  service.BillingService
	health          HealthCheck
	logger          Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	customerService service.CustomerService,
	billingService service.BillingService,
	health HealthCheck,
	logger Logger,
) *Handlers {
	return &Handlers{
		customerService: customerService,
		billingService:  billingService,
		health:          health,
		logger:          logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Field   string      `json:"field,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// ListCustomersRequest represents query parameters for listing customers
type ListCustomersRequest struct {
	Search   string `form:"q"`
	Filter   string `form:"filter"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// QuoteRequest is the body of POST /api/invoices/quote
type QuoteRequest struct {
	Items    []entity.LineItem `json:"items"`
	Discount money.Money       `json:"discount"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   Version,
	}

	if h.health != nil {
		if err := h.health(c.Request.Context()); err != nil {
			h.logger.Error("Health check failed", "error", err)
			response.Status = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, Response{
				Success: false,
				Data:    response,
				Error:   err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// ListCustomers handles GET /api/customers
func (h *Handlers) ListCustomers(c *gin.Context) {
	var req ListCustomersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid query parameters",
		})
		return
	}

	filter, err := reconcile.ParseFilter(req.Filter)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	page, err := h.customerService.ListCustomers(c.Request.Context(), reconcile.Query{
		Search:   req.Search,
		Filter:   filter,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    page,
	})
}

// GetCustomer handles GET /api/customers/:id
func (h *Handlers) GetCustomer(c *gin.Context) {
	profile, err := h.customerService.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    profile,
	})
}

// AddCustomer handles POST /api/customers
func (h *Handlers) AddCustomer(c *gin.Context) {
	var fields entity.CustomerFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		h.badBody(c, err)
		return
	}

	profile, err := h.customerService.AddCustomer(c.Request.Context(), fields)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    profile,
	})
}

// UpdateCustomer handles PUT /api/customers/:id
func (h *Handlers) UpdateCustomer(c *gin.Context) {
	var fields entity.CustomerFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		h.badBody(c, err)
		return
	}

	result, err := h.customerService.UpdateCustomer(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

// DeleteCustomer handles DELETE /api/customers/:id
func (h *Handlers) DeleteCustomer(c *gin.Context) {
	if err := h.customerService.DeleteCustomer(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
	})
}

// QuoteInvoice handles POST /api/invoices/quote
func (h *Handlers) QuoteInvoice(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badBody(c, err)
		return
	}

	totals, err := h.billingService.Quote(req.Items, req.Discount)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    totals,
	})
}

// BillingStats handles GET /api/billing/stats
func (h *Handlers) BillingStats(c *gin.Context) {
	stats, err := h.billingService.Stats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    stats,
	})
}

func (h *Handlers) badBody(c *gin.Context, err error) {
	h.logger.Error("Invalid request body", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error:   "invalid request body",
	})
}

// writeError maps service errors onto status codes. Internal failures are
// logged and reported without detail.
func (h *Handlers) writeError(c *gin.Context, err error) {
	var (
		vErr   *entity.ValidationError
		dupErr *service.DuplicateNameError
		depErr *service.HasDependentInvoicesError
		srcErr *service.SourceError
	)

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error(), Field: vErr.Field})
	case service.IsNotFound(err):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: err.Error()})
	case errors.As(err, &dupErr), errors.As(err, &depErr), errors.Is(err, lifecycle.ErrInvalidTransition):
		c.JSON(http.StatusConflict, Response{Success: false, Error: err.Error()})
	case errors.As(err, &srcErr):
		h.logger.Error("Invoice source failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusBadGateway, Response{Success: false, Error: "invoice source unavailable"})
	default:
		h.logger.Error("Request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "internal error"})
	}
}
