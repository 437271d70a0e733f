package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/application/dto"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/event"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/model"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/port"
)

// RegisterCustomerUseCase creates a customer with an approved limit derived
// from the monthly income.
type RegisterCustomerUseCase struct {
	customerRepo port.CustomerRepository
	publisher    port.EventPublisher
	logger       *slog.Logger
}

// NewRegisterCustomerUseCase wires dependencies.
func NewRegisterCustomerUseCase(
	customerRepo port.CustomerRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *RegisterCustomerUseCase {
	return &RegisterCustomerUseCase{
		customerRepo: customerRepo,
		publisher:    publisher,
		logger:       loggerOrDefault(logger),
	}
}

// Execute validates and persists a new customer.
func (uc *RegisterCustomerUseCase) Execute(
	ctx context.Context,
	req dto.RegisterCustomerRequest,
) (_ dto.CustomerResponse, err error) {
	ctx, span := startSpan(ctx, "RegisterCustomer")
	defer func() { endSpan(span, err) }()

	customer, err := model.NewCustomer(req.FirstName, req.LastName, req.Age, req.MonthlyIncome, req.PhoneNumber)
	if err != nil {
		return dto.CustomerResponse{}, fmt.Errorf("create customer: %w", err)
	}

	customer, err = uc.customerRepo.Create(ctx, customer)
	if err != nil {
		return dto.CustomerResponse{}, fmt.Errorf("save customer: %w", err)
	}
	span.SetAttributes(customerAttr(customer.ID()))

	evt := event.NewCustomerRegistered(customer.ID(), customer.MonthlySalary(), customer.ApprovedLimit())
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		uc.logger.WarnContext(ctx, "publish customer registered", "customer_id", customer.ID(), "error", err)
	}

	uc.logger.InfoContext(ctx, "customer registered",
		"customer_id", customer.ID(),
		"approved_limit", customer.ApprovedLimit().String(),
	)
	return toCustomerResponse(customer), nil
}
