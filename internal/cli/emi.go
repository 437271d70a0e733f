package cli

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/model"
)

// EMIQuote is the output of the emi command.
type EMIQuote struct {
	Principal          decimal.Decimal `json:"principal"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	Tenure             int             `json:"tenure"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	TotalPayable       decimal.Decimal `json:"total_payable"`
	TotalInterest      decimal.Decimal `json:"total_interest"`
}

// NewEMICommand creates the emi command. It needs no backend.
func NewEMICommand(rootOpts *RootOptions) *cobra.Command {
	var flags loanFlags

	cmd := &cobra.Command{
		Use:   "emi",
		Short: "Compute the monthly installment for a loan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}
			emi, err := model.CalculateEMI(req.LoanAmount, req.InterestRate, req.Tenure)
			if err != nil {
				return WrapExitError(ExitUsage, "emi", err)
			}

			total := emi.Mul(decimal.NewFromInt(int64(req.Tenure)))
			quote := EMIQuote{
				Principal:          req.LoanAmount,
				InterestRate:       req.InterestRate,
				Tenure:             req.Tenure,
				MonthlyInstallment: emi,
				TotalPayable:       total,
				TotalInterest:      total.Sub(req.LoanAmount),
			}
			return rootOpts.formatter(cmd).Print(quote, func(w io.Writer) {
				fmt.Fprintf(w, "monthly installment: %s\n", quote.MonthlyInstallment.StringFixed(2))
				fmt.Fprintf(w, "total payable:       %s\n", quote.TotalPayable.StringFixed(2))
				fmt.Fprintf(w, "total interest:      %s\n", quote.TotalInterest.StringFixed(2))
			})
		},
	}
	cmd.Flags().StringVar(&flags.amount, "principal", "", "loan amount")
	cmd.Flags().StringVar(&flags.rate, "rate", "", "annual interest rate in percent")
	cmd.Flags().IntVar(&flags.tenure, "tenure", 0, "tenure in months")
	for _, name := range []string{"principal", "rate", "tenure"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
