package usecase_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/event"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/model"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/port"
)

// --- Mock implementations ---

type mockCustomerRepository struct {
	customers map[int64]model.Customer
	nextID    int64
	createErr error
	findErr   error
	debtCalls int
}

func newMockCustomerRepository(customers ...model.Customer) *mockCustomerRepository {
	m := &mockCustomerRepository{customers: make(map[int64]model.Customer), nextID: 1}
	for _, c := range customers {
		m.customers[c.ID()] = c
		if c.ID() >= m.nextID {
			m.nextID = c.ID() + 1
		}
	}
	return m
}

func (m *mockCustomerRepository) Create(_ context.Context, c model.Customer) (model.Customer, error) {
	if m.createErr != nil {
		return model.Customer{}, m.createErr
	}
	c = c.WithID(m.nextID)
	m.nextID++
	m.customers[c.ID()] = c
	return c, nil
}

func (m *mockCustomerRepository) Import(_ context.Context, customers []model.Customer) (int, error) {
	for _, c := range customers {
		if _, taken := m.customers[c.ID()]; taken {
			return 0, fmt.Errorf("%w: customer id %d already exists", model.ErrInvalidArgument, c.ID())
		}
	}
	for _, c := range customers {
		if c.ID() == 0 {
			c = c.WithID(m.nextID)
		}
		if c.ID() >= m.nextID {
			m.nextID = c.ID() + 1
		}
		m.customers[c.ID()] = c
	}
	return len(customers), nil
}

func (m *mockCustomerRepository) FindByID(_ context.Context, id int64) (model.Customer, error) {
	if m.findErr != nil {
		return model.Customer{}, m.findErr
	}
	c, ok := m.customers[id]
	if !ok {
		return model.Customer{}, model.ErrCustomerNotFound
	}
	return c, nil
}

func (m *mockCustomerRepository) ListIDs(_ context.Context) ([]int64, error) {
	ids := make([]int64, 0, len(m.customers))
	for id := range m.customers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *mockCustomerRepository) UpdateCurrentDebt(_ context.Context, id int64, debt decimal.Decimal) error {
	c, ok := m.customers[id]
	if !ok {
		return model.ErrCustomerNotFound
	}
	m.debtCalls++
	m.customers[id] = c.WithCurrentDebt(debt)
	return nil
}

func (m *mockCustomerRepository) UpdateCurrentDebts(ctx context.Context, debts map[int64]decimal.Decimal) error {
	for id, d := range debts {
		if err := m.UpdateCurrentDebt(ctx, id, d); err != nil {
			return err
		}
	}
	return nil
}

type mockLoanRepository struct {
	loans     []model.Loan
	nextID    int64
	createErr error
	findCalls int
	// onFind runs inside FindByCustomerID after the history is copied.
	onFind func()
}

func newMockLoanRepository(loans ...model.Loan) *mockLoanRepository {
	m := &mockLoanRepository{nextID: 1}
	for _, l := range loans {
		m.loans = append(m.loans, l)
		if l.ID() >= m.nextID {
			m.nextID = l.ID() + 1
		}
	}
	return m
}

func (m *mockLoanRepository) Create(_ context.Context, l model.Loan) (model.Loan, error) {
	if m.createErr != nil {
		return model.Loan{}, m.createErr
	}
	l = l.WithID(m.nextID)
	m.nextID++
	m.loans = append(m.loans, l)
	return l, nil
}

func (m *mockLoanRepository) Import(_ context.Context, loans []model.Loan) (int, error) {
	for _, l := range loans {
		m.loans = append(m.loans, l.WithID(m.nextID))
		m.nextID++
	}
	return len(loans), nil
}

func (m *mockLoanRepository) FindByID(_ context.Context, id int64) (model.Loan, error) {
	for _, l := range m.loans {
		if l.ID() == id {
			return l, nil
		}
	}
	return model.Loan{}, model.ErrLoanNotFound
}

func (m *mockLoanRepository) FindByCustomerID(_ context.Context, customerID int64) ([]model.Loan, error) {
	m.findCalls++
	var out []model.Loan
	for _, l := range m.loans {
		if l.CustomerID() == customerID {
			out = append(out, l)
		}
	}
	if m.onFind != nil {
		m.onFind()
	}
	return out, nil
}

func (m *mockLoanRepository) ListRecords(_ context.Context) ([]model.LoanRecord, error) {
	return model.Records(m.loans), nil
}

// mockTransactor runs fn inline and reports unknown customers the way the
// postgres implementation does.
type mockTransactor struct {
	customers *mockCustomerRepository
	calls     int
}

func (m *mockTransactor) WithCustomerLock(ctx context.Context, customerID int64, fn func(ctx context.Context) error) error {
	m.calls++
	if _, ok := m.customers.customers[customerID]; !ok {
		return model.ErrCustomerNotFound
	}
	return fn(ctx)
}

type mockEventPublisher struct {
	publishErr      error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(_ context.Context, evts ...event.DomainEvent) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

type cacheKey struct {
	customerID int64
	generation string
	day        civil.Date
}

// mockScoreCache mirrors the Redis cache: entries are keyed by generation
// and invalidation bumps it.
type mockScoreCache struct {
	entries     map[cacheKey]port.ScoreSnapshot
	generations map[int64]int
	epoch       int
	getErr      error
	genErr      error
	invalidated []int64
	flushed     int
}

func newMockScoreCache() *mockScoreCache {
	return &mockScoreCache{
		entries:     make(map[cacheKey]port.ScoreSnapshot),
		generations: make(map[int64]int),
	}
}

func (m *mockScoreCache) Generation(_ context.Context, customerID int64) (string, error) {
	if m.genErr != nil {
		return "", m.genErr
	}
	return fmt.Sprintf("%d.%d", m.epoch, m.generations[customerID]), nil
}

func (m *mockScoreCache) Get(_ context.Context, customerID int64, generation string, day civil.Date) (port.ScoreSnapshot, bool, error) {
	if m.getErr != nil {
		return port.ScoreSnapshot{}, false, m.getErr
	}
	s, ok := m.entries[cacheKey{customerID, generation, day}]
	return s, ok, nil
}

func (m *mockScoreCache) Set(_ context.Context, customerID int64, generation string, day civil.Date, s port.ScoreSnapshot) error {
	m.entries[cacheKey{customerID, generation, day}] = s
	return nil
}

func (m *mockScoreCache) Invalidate(_ context.Context, customerIDs ...int64) error {
	m.invalidated = append(m.invalidated, customerIDs...)
	for _, id := range customerIDs {
		m.generations[id]++
	}
	return nil
}

func (m *mockScoreCache) InvalidateAll(_ context.Context) error {
	m.flushed++
	m.epoch++
	return nil
}

type fixedClock struct {
	today civil.Date
}

func (c fixedClock) Today() civil.Date { return c.today }

type mockSheetReader struct {
	customers []port.CustomerRow
	loans     []port.LoanRow
	err       error
}

func (m *mockSheetReader) ReadCustomers(_ context.Context, _ string) ([]port.CustomerRow, error) {
	return m.customers, m.err
}

func (m *mockSheetReader) ReadLoans(_ context.Context, _ string) ([]port.LoanRow, error) {
	return m.loans, m.err
}

// --- Fixtures ---

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y, m, d int) civil.Date {
	return civil.Date{Year: y, Month: time.Month(m), Day: d}
}

var today = date(2025, 3, 10)

// primeCustomer has a history that scores 70, with four loans still
// running (1,020,000 outstanding, 4,000 a month).
func primeCustomer() (model.Customer, []model.Loan) {
	c := model.ReconstructCustomer(1, "Prime", "Borrower", 40, dec("100000"), "9999999999", dec("3600000"), dec("0"))
	var loans []model.Loan
	for i := int64(1); i <= 10; i++ {
		start, end := date(2020, 1, 1), date(2021, 1, 1)
		if i <= 4 {
			start, end = date(2025, 1, 1), date(2026, 1, 1)
		}
		loans = append(loans, model.ReconstructLoan(
			i, 1, dec("255000"), 12, dec("10"), dec("1000"), 6,
			start, end,
		))
	}
	return c, loans
}

// nearPrimeCustomer has one closed loan and scores 40.
func nearPrimeCustomer() (model.Customer, []model.Loan) {
	c := model.ReconstructCustomer(2, "Near", "Prime", 35, dec("80000"), "8888888888", dec("2900000"), dec("0"))
	loans := []model.Loan{
		model.ReconstructLoan(20, 2, dec("500000"), 24, dec("11"), dec("23000"), 37, date(2021, 1, 1), date(2023, 1, 1)),
	}
	return c, loans
}

// newCustomer has no history and scores 0.
func newCustomer() model.Customer {
	return model.ReconstructCustomer(3, "New", "Customer", 25, dec("50000"), "7777777777", dec("1800000"), dec("0"))
}
