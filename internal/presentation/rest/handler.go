package rest

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/application/dto"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/application/usecase"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/model"
)

// Handler serves the credit API over HTTP.
type Handler struct {
	uc     usecase.Set
	logger *slog.Logger
}

func NewHandler(uc usecase.Set, logger *slog.Logger) *Handler {
	return &Handler{uc: uc, logger: logger}
}

func (h *Handler) register(r gin.IRoutes, writeGuard ...gin.HandlerFunc) {
	guarded := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(slices.Clip(writeGuard), fn)
	}

	r.POST("/register", guarded(h.RegisterCustomer)...)
	r.POST("/check-eligibility", h.CheckEligibility)
	r.POST("/create-loan", guarded(h.CreateLoan)...)
	r.GET("/view-loan/:loan_id", h.ViewLoan)
	r.GET("/view-loans/:customer_id", h.ViewLoans)
	r.GET("/score/:customer_id", h.ScoreCustomer)
}

func (h *Handler) RegisterCustomer(c *gin.Context) {
	var req dto.RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	resp, err := h.uc.RegisterCustomer.Execute(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) CheckEligibility(c *gin.Context) {
	var req dto.LoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	resp, err := h.uc.CheckEligibility.Execute(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateLoan answers 201 with the new loan, or 200 with loan_id null and the
// rejection reason.
func (h *Handler) CreateLoan(c *gin.Context) {
	var req dto.LoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	resp, err := h.uc.CreateLoan.Execute(c.Request.Context(), req)
	if errors.Is(err, model.ErrCustomerNotFound) {
		c.JSON(http.StatusNotFound, dto.CreateLoanResponse{
			CustomerID:         req.CustomerID,
			Message:            "Customer not found",
			MonthlyInstallment: decimal.Zero,
		})
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}

	status := http.StatusOK
	if resp.LoanApproved {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}

func (h *Handler) ViewLoan(c *gin.Context) {
	var req dto.ViewLoanRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	resp, err := h.uc.ViewLoan.Execute(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) ViewLoans(c *gin.Context) {
	var req dto.ViewLoansRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	resp, err := h.uc.ViewLoans.Execute(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) ScoreCustomer(c *gin.Context) {
	var req dto.ScoreRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	resp, err := h.uc.ScoreCustomer.Execute(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

func (h *Handler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrCustomerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
	case errors.Is(err, model.ErrLoanNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
	default:
		h.logger.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// bindingMessage flattens validator errors into "field: rule" pairs.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request: " + err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return "invalid request: " + strings.Join(parts, ", ")
}
