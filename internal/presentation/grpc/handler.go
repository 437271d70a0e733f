package grpc

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/application/dto"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/application/usecase"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/model"
)

// CreditHandler serves credit.v1.CreditService over the application use cases.
type CreditHandler struct {
	UnimplementedCreditServiceServer

	uc       usecase.Set
	validate *validator.Validate
	logger   *slog.Logger
}

func NewCreditHandler(uc usecase.Set, logger *slog.Logger) *CreditHandler {
	return &CreditHandler{uc: uc, validate: newValidator(), logger: logger}
}

func (h *CreditHandler) RegisterCustomer(ctx context.Context, req *dto.RegisterCustomerRequest) (*dto.CustomerResponse, error) {
	if err := h.validate.Struct(req); err != nil {
		return nil, status.Error(codes.InvalidArgument, validationMessage(err))
	}
	resp, err := h.uc.RegisterCustomer.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, MethodRegisterCustomer, err)
	}
	return &resp, nil
}

func (h *CreditHandler) CheckEligibility(ctx context.Context, req *dto.LoanRequest) (*dto.EligibilityResponse, error) {
	if err := h.validate.Struct(req); err != nil {
		return nil, status.Error(codes.InvalidArgument, validationMessage(err))
	}
	resp, err := h.uc.CheckEligibility.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, MethodCheckEligibility, err)
	}
	return &resp, nil
}

// CreateLoan returns the rejection reason in the response rather than as an
// error; only unknown customers and bad input fail the call.
func (h *CreditHandler) CreateLoan(ctx context.Context, req *dto.LoanRequest) (*dto.CreateLoanResponse, error) {
	if err := h.validate.Struct(req); err != nil {
		return nil, status.Error(codes.InvalidArgument, validationMessage(err))
	}
	resp, err := h.uc.CreateLoan.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, MethodCreateLoan, err)
	}
	return &resp, nil
}

func (h *CreditHandler) ViewLoan(ctx context.Context, req *dto.ViewLoanRequest) (*dto.LoanDetailResponse, error) {
	if err := h.validate.Struct(req); err != nil {
		return nil, status.Error(codes.InvalidArgument, validationMessage(err))
	}
	resp, err := h.uc.ViewLoan.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, MethodViewLoan, err)
	}
	return &resp, nil
}

func (h *CreditHandler) ViewLoans(ctx context.Context, req *dto.ViewLoansRequest) (*ViewLoansResponse, error) {
	if err := h.validate.Struct(req); err != nil {
		return nil, status.Error(codes.InvalidArgument, validationMessage(err))
	}
	loans, err := h.uc.ViewLoans.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, MethodViewLoans, err)
	}
	if loans == nil {
		loans = []dto.LoanItemResponse{}
	}
	return &ViewLoansResponse{Loans: loans}, nil
}

func (h *CreditHandler) ScoreCustomer(ctx context.Context, req *dto.ScoreRequest) (*dto.ScoreResponse, error) {
	if err := h.validate.Struct(req); err != nil {
		return nil, status.Error(codes.InvalidArgument, validationMessage(err))
	}
	resp, err := h.uc.ScoreCustomer.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, MethodScoreCustomer, err)
	}
	return &resp, nil
}

func (h *CreditHandler) toStatus(ctx context.Context, method string, err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrCustomerNotFound):
		return status.Error(codes.NotFound, "Customer not found")
	case errors.Is(err, model.ErrLoanNotFound):
		return status.Error(codes.NotFound, "Loan not found")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		h.logger.ErrorContext(ctx, "rpc failed", "method", method, "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
