package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/sebdah/goldie/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/application/dto"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/application/usecase"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/model"
	"github.com/sanjanarawald/CreditApprovalSystem/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type registerFunc func(context.Context, dto.RegisterCustomerRequest) (dto.CustomerResponse, error)

func (f registerFunc) Execute(ctx context.Context, req dto.RegisterCustomerRequest) (dto.CustomerResponse, error) {
	return f(ctx, req)
}

type eligibilityFunc func(context.Context, dto.LoanRequest) (dto.EligibilityResponse, error)

func (f eligibilityFunc) Execute(ctx context.Context, req dto.LoanRequest) (dto.EligibilityResponse, error) {
	return f(ctx, req)
}

type createLoanFunc func(context.Context, dto.LoanRequest) (dto.CreateLoanResponse, error)

func (f createLoanFunc) Execute(ctx context.Context, req dto.LoanRequest) (dto.CreateLoanResponse, error) {
	return f(ctx, req)
}

type viewLoanFunc func(context.Context, dto.ViewLoanRequest) (dto.LoanDetailResponse, error)

func (f viewLoanFunc) Execute(ctx context.Context, req dto.ViewLoanRequest) (dto.LoanDetailResponse, error) {
	return f(ctx, req)
}

type viewLoansFunc func(context.Context, dto.ViewLoansRequest) ([]dto.LoanItemResponse, error)

func (f viewLoansFunc) Execute(ctx context.Context, req dto.ViewLoansRequest) ([]dto.LoanItemResponse, error) {
	return f(ctx, req)
}

type scoreFunc func(context.Context, dto.ScoreRequest) (dto.ScoreResponse, error)

func (f scoreFunc) Execute(ctx context.Context, req dto.ScoreRequest) (dto.ScoreResponse, error) {
	return f(ctx, req)
}

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loanID(id int64) *int64 { return &id }

// defaultUseCases answers every call with the fixtures used by the golden files.
func defaultUseCases() usecase.Set {
	return usecase.Set{
		RegisterCustomer: registerFunc(func(_ context.Context, req dto.RegisterCustomerRequest) (dto.CustomerResponse, error) {
			return dto.CustomerResponse{
				CustomerID:    1,
				Name:          req.FirstName + " " + req.LastName,
				Age:           req.Age,
				MonthlyIncome: req.MonthlyIncome,
				ApprovedLimit: dec("1800000"),
				PhoneNumber:   req.PhoneNumber,
			}, nil
		}),
		CheckEligibility: eligibilityFunc(func(_ context.Context, req dto.LoanRequest) (dto.EligibilityResponse, error) {
			return dto.EligibilityResponse{
				CustomerID:            req.CustomerID,
				Approval:              false,
				InterestRate:          req.InterestRate,
				CorrectedInterestRate: dec("12"),
				Tenure:                req.Tenure,
				MonthlyInstallment:    dec("17769.76"),
			}, nil
		}),
		CreateLoan: createLoanFunc(func(_ context.Context, req dto.LoanRequest) (dto.CreateLoanResponse, error) {
			switch req.CustomerID {
			case 1:
				return dto.CreateLoanResponse{
					LoanID:             loanID(11),
					CustomerID:         1,
					LoanApproved:       true,
					Message:            "Loan approved and created.",
					MonthlyInstallment: dec("17957.42"),
				}, nil
			case 2:
				return dto.CreateLoanResponse{
					CustomerID:         2,
					Message:            "Interest rate too low for credit score. Minimum required: 12%.",
					MonthlyInstallment: dec("17769.76"),
				}, nil
			default:
				return dto.CreateLoanResponse{}, fmt.Errorf("lock customer: %w", model.ErrCustomerNotFound)
			}
		}),
		ViewLoan: viewLoanFunc(func(_ context.Context, req dto.ViewLoanRequest) (dto.LoanDetailResponse, error) {
			if req.LoanID != 11 {
				return dto.LoanDetailResponse{}, fmt.Errorf("find loan: %w", model.ErrLoanNotFound)
			}
			return dto.LoanDetailResponse{
				LoanID: 11,
				Customer: dto.CustomerSummary{
					ID: 1, FirstName: "Asha", LastName: "Rao", PhoneNumber: "9876543210", Age: 31,
				},
				LoanAmount:         dec("200000"),
				InterestRate:       dec("14"),
				MonthlyInstallment: dec("17957.42"),
				Tenure:             12,
			}, nil
		}),
		ViewLoans: viewLoansFunc(func(_ context.Context, req dto.ViewLoansRequest) ([]dto.LoanItemResponse, error) {
			switch req.CustomerID {
			case 1:
				return []dto.LoanItemResponse{{
					LoanID: 11, LoanAmount: dec("200000"), InterestRate: dec("14"),
					MonthlyInstallment: dec("17957.42"), RepaymentsLeft: 12,
				}}, nil
			case 3:
				return []dto.LoanItemResponse{}, nil
			default:
				return nil, fmt.Errorf("find customer: %w", model.ErrCustomerNotFound)
			}
		}),
		ScoreCustomer: scoreFunc(func(_ context.Context, req dto.ScoreRequest) (dto.ScoreResponse, error) {
			return dto.ScoreResponse{
				CustomerID:       req.CustomerID,
				CreditScore:      70,
				ApprovedLimit:    dec("3600000"),
				CurrentDebt:      dec("1020000"),
				SumOfCurrentEMIs: dec("4000"),
			}, nil
		}),
	}
}

func newTestRouter(uc usecase.Set) *gin.Engine {
	return NewRouter(RouterConfig{
		Handler:     NewHandler(uc, discardLogger()),
		Logger:      discardLogger(),
		ServiceName: "credit-service",
	})
}

func do(r http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

// ---------------------------------------------------------------------------
// Golden responses
// ---------------------------------------------------------------------------

func TestHandler_GoldenResponses(t *testing.T) {
	r := newTestRouter(defaultUseCases())
	g := goldie.New(t, goldie.WithFixtureDir("testdata"), goldie.WithNameSuffix(".golden"))

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{
			name: "register", method: http.MethodPost, path: "/register",
			body:       `{"first_name":"Asha","last_name":"Rao","age":31,"monthly_income":50000,"phone_number":"9876543210"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name: "check_eligibility", method: http.MethodPost, path: "/check-eligibility",
			body:       `{"customer_id":2,"loan_amount":200000,"interest_rate":8,"tenure":12}`,
			wantStatus: http.StatusOK,
		},
		{
			name: "create_loan_approved", method: http.MethodPost, path: "/create-loan",
			body:       `{"customer_id":1,"loan_amount":200000,"interest_rate":14,"tenure":12}`,
			wantStatus: http.StatusCreated,
		},
		{
			name: "create_loan_rejected", method: http.MethodPost, path: "/create-loan",
			body:       `{"customer_id":2,"loan_amount":200000,"interest_rate":8,"tenure":12}`,
			wantStatus: http.StatusOK,
		},
		{
			name: "create_loan_unknown_customer", method: http.MethodPost, path: "/api/v1/create-loan",
			body:       `{"customer_id":99,"loan_amount":200000,"interest_rate":8,"tenure":12}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name: "view_loan", method: http.MethodGet, path: "/view-loan/11",
			wantStatus: http.StatusOK,
		},
		{
			name: "view_loans", method: http.MethodGet, path: "/api/v1/view-loans/1",
			wantStatus: http.StatusOK,
		},
		{
			name: "score", method: http.MethodGet, path: "/score/1",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(r, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			g.Assert(t, tt.name, rec.Body.Bytes())
		})
	}
}

// ---------------------------------------------------------------------------
// Errors and validation
// ---------------------------------------------------------------------------

func TestHandler_ViewLoans_EmptyList(t *testing.T) {
	rec := do(newTestRouter(defaultUseCases()), http.MethodGet, "/view-loans/3", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())
}

func TestHandler_NotFound(t *testing.T) {
	r := newTestRouter(defaultUseCases())

	rec := do(r, http.MethodGet, "/view-loan/404", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Loan not found", errorBody(t, rec))

	rec = do(r, http.MethodGet, "/view-loans/404", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Customer not found", errorBody(t, rec))
}

func TestHandler_Validation(t *testing.T) {
	r := newTestRouter(defaultUseCases())

	tests := []struct {
		name    string
		method  string
		path    string
		body    string
		wantMsg string
	}{
		{
			name: "malformed json", method: http.MethodPost, path: "/register",
			body: `{"first_name":`, wantMsg: "invalid request",
		},
		{
			name: "bad phone", method: http.MethodPost, path: "/register",
			body:    `{"first_name":"A","last_name":"B","age":30,"monthly_income":1000,"phone_number":"12ab"}`,
			wantMsg: "phone_number: phone",
		},
		{
			name: "missing tenure", method: http.MethodPost, path: "/check-eligibility",
			body:    `{"customer_id":1,"loan_amount":1000,"interest_rate":10}`,
			wantMsg: "tenure: required",
		},
		{
			name: "non-numeric loan id", method: http.MethodGet, path: "/view-loan/abc",
			wantMsg: "invalid request",
		},
		{
			name: "zero customer id", method: http.MethodGet, path: "/view-loans/0",
			wantMsg: "customer_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(r, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, errorBody(t, rec), tt.wantMsg)
		})
	}
}

func TestHandler_DomainErrors(t *testing.T) {
	uc := defaultUseCases()
	uc.CheckEligibility = eligibilityFunc(func(context.Context, dto.LoanRequest) (dto.EligibilityResponse, error) {
		return dto.EligibilityResponse{}, fmt.Errorf("loan amount must be positive: %w", model.ErrInvalidArgument)
	})
	uc.RegisterCustomer = registerFunc(func(context.Context, dto.RegisterCustomerRequest) (dto.CustomerResponse, error) {
		return dto.CustomerResponse{}, errors.New("connection reset")
	})
	r := newTestRouter(uc)

	rec := do(r, http.MethodPost, "/check-eligibility", `{"customer_id":1,"loan_amount":0,"interest_rate":10,"tenure":12}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorBody(t, rec), "loan amount must be positive")

	rec = do(r, http.MethodPost, "/register", `{"first_name":"A","last_name":"B","age":30,"monthly_income":1000,"phone_number":"9876543210"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", errorBody(t, rec), "internal details are not leaked")
}

// ---------------------------------------------------------------------------
// Router concerns
// ---------------------------------------------------------------------------

func TestRouter_Health(t *testing.T) {
	down := errors.New("db down")
	healthy := true
	r := NewRouter(RouterConfig{
		Handler: NewHandler(defaultUseCases(), discardLogger()),
		Logger:  discardLogger(),
		Ready: pingFunc(func(context.Context) error {
			if healthy {
				return nil
			}
			return down
		}),
		Metrics:     http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "# metrics") }),
		ServiceName: "credit-service",
	})

	rec := do(r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"credit-service"}`, rec.Body.String())

	rec = do(r, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	healthy = false
	rec = do(r, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, "# metrics", rec.Body.String())
}

func TestRouter_RequestID(t *testing.T) {
	r := newTestRouter(defaultUseCases())

	rec := do(r, http.MethodGet, "/healthz", "")
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	rec = do(r, http.MethodGet, "/healthz", "", requestIDHeader, "req-123")
	assert.Equal(t, "req-123", rec.Header().Get(requestIDHeader))
}

func TestRouter_Auth(t *testing.T) {
	jwt, err := auth.NewJWTService(auth.JWTConfig{Secret: "test-secret", Issuer: "credit-test"})
	require.NoError(t, err)

	var subject string
	uc := defaultUseCases()
	uc.ScoreCustomer = scoreFunc(func(ctx context.Context, req dto.ScoreRequest) (dto.ScoreResponse, error) {
		if claims, ok := auth.ClaimsFromContext(ctx); ok {
			subject = claims.Subject
		}
		return dto.ScoreResponse{CustomerID: req.CustomerID}, nil
	})
	r := NewRouter(RouterConfig{
		Handler: NewHandler(uc, discardLogger()),
		Logger:  discardLogger(),
		JWT:     jwt,
	})

	rec := do(r, http.MethodGet, "/score/1", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(r, http.MethodGet, "/score/1", "", "Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := jwt.GenerateToken("underwriter-7", []string{auth.RoleUnderwriter})
	require.NoError(t, err)
	rec = do(r, http.MethodGet, "/api/v1/score/1", "", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "underwriter-7", subject)

	rec = do(r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code, "probes stay open")
}

func TestRouter_WriteRoles(t *testing.T) {
	jwt, err := auth.NewJWTService(auth.JWTConfig{Secret: "test-secret", Issuer: "credit-test"})
	require.NoError(t, err)
	r := NewRouter(RouterConfig{
		Handler: NewHandler(defaultUseCases(), discardLogger()),
		Logger:  discardLogger(),
		JWT:     jwt,
	})

	body := `{"customer_id": 1, "loan_amount": 200000, "interest_rate": 14, "tenure": 12}`

	viewer, err := jwt.GenerateToken("ops-1", []string{auth.RoleOperator})
	require.NoError(t, err)
	rec := do(r, http.MethodPost, "/create-loan", body, "Authorization", "Bearer "+viewer)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(r, http.MethodPost, "/check-eligibility", body, "Authorization", "Bearer "+viewer)
	assert.Equal(t, http.StatusOK, rec.Code, "eligibility is read-only")

	writer, err := jwt.GenerateToken("partner-9", []string{auth.RoleAPIClient})
	require.NoError(t, err)
	rec = do(r, http.MethodPost, "/api/v1/create-loan", body, "Authorization", "Bearer "+writer)
	assert.Equal(t, http.StatusCreated, rec.Code)
}
