package cli

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/application/dto"
)

// NewIngestCommand creates the ingest command.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	var req dto.IngestRequest

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load customers and loans from spreadsheets",
		Long: `Load customer and loan workbooks into the database, then recompute every
customer's current debt. Loan rows whose customer is unknown are skipped and
counted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			resp, err := app.Ingest.Execute(commandContext(cmd), req)
			if err != nil {
				return WrapExitError(ExitFailure, "ingest", err)
			}
			return rootOpts.formatter(cmd).Print(resp, func(w io.Writer) {
				fmt.Fprintf(w, "customers ingested: %d\n", resp.CustomersIngested)
				fmt.Fprintf(w, "loans ingested:     %d\n", resp.LoansIngested)
				fmt.Fprintf(w, "loans skipped:      %d\n", resp.LoansSkipped)
				fmt.Fprintf(w, "debts recomputed:   %d\n", resp.CustomersUpdated)
			})
		},
	}
	cmd.Flags().StringVar(&req.CustomersPath, "customers", "", "customer workbook (.xlsx)")
	cmd.Flags().StringVar(&req.LoansPath, "loans", "", "loan workbook (.xlsx)")
	cmd.MarkFlagsOneRequired("customers", "loans")

	return cmd
}

// NewRecomputeDebtCommand creates the recompute-debt command.
func NewRecomputeDebtCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recompute-debt",
		Short: "Recompute every customer's current debt from their loans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			resp, err := app.Recompute.Execute(commandContext(cmd))
			if err != nil {
				return WrapExitError(ExitFailure, "recompute debt", err)
			}
			return rootOpts.formatter(cmd).Print(resp, func(w io.Writer) {
				fmt.Fprintf(w, "current debt recomputed for %d customers as of %s\n", resp.CustomersUpdated, app.Clock.Today())
			})
		},
	}
}

// NewScoreCommand creates the score command.
func NewScoreCommand(rootOpts *RootOptions) *cobra.Command {
	var req dto.ScoreRequest

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Print a customer's credit score",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.CustomerID <= 0 {
				return NewExitError(ExitUsage, "--customer-id must be positive")
			}
			app, err := rootOpts.openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			resp, err := app.API.ScoreCustomer.Execute(commandContext(cmd), req)
			if err != nil {
				return WrapExitError(ExitFailure, "score", err)
			}
			return rootOpts.formatter(cmd).Print(resp, func(w io.Writer) {
				fmt.Fprintf(w, "customer %d\n", resp.CustomerID)
				fmt.Fprintf(w, "  credit score:        %d\n", resp.CreditScore)
				fmt.Fprintf(w, "  approved limit:      %s\n", resp.ApprovedLimit.StringFixed(2))
				fmt.Fprintf(w, "  current debt:        %s\n", resp.CurrentDebt.StringFixed(2))
				fmt.Fprintf(w, "  sum of current EMIs: %s\n", resp.SumOfCurrentEMIs.StringFixed(2))
			})
		},
	}
	cmd.Flags().Int64Var(&req.CustomerID, "customer-id", 0, "customer to score")
	_ = cmd.MarkFlagRequired("customer-id")

	return cmd
}

type loanFlags struct {
	customerID int64
	amount     string
	rate       string
	tenure     int
}

func (f loanFlags) request() (dto.LoanRequest, error) {
	amount, err := decimal.NewFromString(f.amount)
	if err != nil {
		return dto.LoanRequest{}, NewExitError(ExitUsage, fmt.Sprintf("invalid --amount %q", f.amount))
	}
	rate, err := decimal.NewFromString(f.rate)
	if err != nil {
		return dto.LoanRequest{}, NewExitError(ExitUsage, fmt.Sprintf("invalid --rate %q", f.rate))
	}
	return dto.LoanRequest{CustomerID: f.customerID, LoanAmount: amount, InterestRate: rate, Tenure: f.tenure}, nil
}

// NewCheckCommand creates the check command, a dry run of check-eligibility.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	var flags loanFlags

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check loan eligibility for a customer without creating a loan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}
			app, err := rootOpts.openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			resp, err := app.API.CheckEligibility.Execute(commandContext(cmd), req)
			if err != nil {
				return WrapExitError(ExitFailure, "check eligibility", err)
			}
			return rootOpts.formatter(cmd).Print(resp, func(w io.Writer) {
				verdict := "not approved"
				if resp.Approval {
					verdict = "approved"
				}
				fmt.Fprintf(w, "customer %d: %s\n", resp.CustomerID, verdict)
				fmt.Fprintf(w, "  requested rate:      %s%%\n", resp.InterestRate)
				fmt.Fprintf(w, "  corrected rate:      %s%%\n", resp.CorrectedInterestRate)
				fmt.Fprintf(w, "  tenure:              %d months\n", resp.Tenure)
				fmt.Fprintf(w, "  monthly installment: %s\n", resp.MonthlyInstallment.StringFixed(2))
			})
		},
	}
	cmd.Flags().Int64Var(&flags.customerID, "customer-id", 0, "customer applying")
	cmd.Flags().StringVar(&flags.amount, "amount", "", "loan amount")
	cmd.Flags().StringVar(&flags.rate, "rate", "", "annual interest rate in percent")
	cmd.Flags().IntVar(&flags.tenure, "tenure", 0, "tenure in months")
	for _, name := range []string{"customer-id", "amount", "rate", "tenure"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
