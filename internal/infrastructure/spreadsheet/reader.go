// Package spreadsheet reads the customer and loan workbooks used for bulk
// ingestion. Columns are located by header name, so column order is free.
package spreadsheet

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/model"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/port"
)

// Header names, matched after case folding and NFKC normalisation.
const (
	colCustomerID     = "customer id"
	colFirstName      = "first name"
	colLastName       = "last name"
	colAge            = "age"
	colPhoneNumber    = "phone number"
	colMonthlySalary  = "monthly salary"
	colApprovedLimit  = "approved limit"
	colLoanID         = "loan id"
	colLoanAmount     = "loan amount"
	colTenure         = "tenure"
	colInterestRate   = "interest rate"
	colMonthlyPayment = "monthly payment"
	colEMIsPaidOnTime = "emis paid on time"
	colStartDate      = "date of approval"
	colEndDate        = "end date"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"02/01/2006",
	"1/2/06",
}

// ExcelReader implements port.SheetReader with excelize. Only the first
// sheet of each workbook is read.
type ExcelReader struct{}

func NewExcelReader() *ExcelReader {
	return &ExcelReader{}
}

func (r *ExcelReader) ReadCustomers(ctx context.Context, path string) ([]port.CustomerRow, error) {
	s, err := openSheet(ctx, path, colFirstName, colLastName, colAge, colPhoneNumber, colMonthlySalary)
	if err != nil {
		return nil, err
	}

	out := make([]port.CustomerRow, 0, len(s.rows))
	for i, raw := range s.rows {
		line := i + 2
		row := s.row(raw)
		if row.blank() {
			continue
		}

		var c port.CustomerRow
		if c.CustomerID, err = row.optionalInt64(colCustomerID); err != nil {
			return nil, rowErr(path, line, err)
		}
		c.FirstName = row.text(colFirstName)
		c.LastName = row.text(colLastName)
		c.PhoneNumber = row.text(colPhoneNumber)
		if c.Age, err = row.integer(colAge); err != nil {
			return nil, rowErr(path, line, err)
		}
		if c.MonthlySalary, err = row.decimal(colMonthlySalary); err != nil {
			return nil, rowErr(path, line, err)
		}
		if row.text(colApprovedLimit) != "" {
			if c.ApprovedLimit, err = row.decimal(colApprovedLimit); err != nil {
				return nil, rowErr(path, line, err)
			}
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *ExcelReader) ReadLoans(ctx context.Context, path string) ([]port.LoanRow, error) {
	s, err := openSheet(ctx, path,
		colCustomerID, colLoanID, colLoanAmount, colTenure, colInterestRate,
		colMonthlyPayment, colEMIsPaidOnTime, colStartDate, colEndDate,
	)
	if err != nil {
		return nil, err
	}

	out := make([]port.LoanRow, 0, len(s.rows))
	for i, raw := range s.rows {
		line := i + 2
		row := s.row(raw)
		if row.blank() {
			continue
		}

		l, err := parseLoanRow(row)
		if err != nil {
			return nil, rowErr(path, line, err)
		}
		out = append(out, l)
	}
	return out, nil
}

func parseLoanRow(row row) (port.LoanRow, error) {
	var (
		l   port.LoanRow
		err error
	)
	if l.CustomerID, err = row.int64(colCustomerID); err != nil {
		return l, err
	}
	if l.LoanID, err = row.int64(colLoanID); err != nil {
		return l, err
	}
	if l.LoanAmount, err = row.decimal(colLoanAmount); err != nil {
		return l, err
	}
	if l.TenureMonths, err = row.integer(colTenure); err != nil {
		return l, err
	}
	if l.InterestRate, err = row.decimal(colInterestRate); err != nil {
		return l, err
	}
	if l.MonthlyRepayment, err = row.decimal(colMonthlyPayment); err != nil {
		return l, err
	}
	if l.EMIsPaidOnTime, err = row.integer(colEMIsPaidOnTime); err != nil {
		return l, err
	}
	if l.StartDate, err = row.date(colStartDate); err != nil {
		return l, err
	}
	if l.EndDate, err = row.date(colEndDate); err != nil {
		return l, err
	}
	return l, nil
}

func rowErr(path string, line int, err error) error {
	return fmt.Errorf("%s row %d: %w", path, line, err)
}

// ---------------------------------------------------------------------------
// Sheet access
// ---------------------------------------------------------------------------

type sheet struct {
	columns map[string]int
	rows    [][]string
}

func openSheet(ctx context.Context, path string, required ...string) (*sheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read workbook %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("workbook %s has no header row: %w", path, model.ErrInvalidArgument)
	}

	columns := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		columns[normalizeHeader(h)] = i
	}
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("workbook %s is missing column %q: %w", path, name, model.ErrInvalidArgument)
		}
	}
	return &sheet{columns: columns, rows: rows[1:]}, nil
}

func normalizeHeader(h string) string {
	return strings.Join(strings.Fields(cases.Fold().String(norm.NFKC.String(h))), " ")
}

func (s *sheet) row(cells []string) row {
	return row{columns: s.columns, cells: cells}
}

type row struct {
	columns map[string]int
	cells   []string
}

func (r row) blank() bool {
	for _, c := range r.cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (r row) text(col string) string {
	i, ok := r.columns[col]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(norm.NFC.String(r.cells[i]))
}

func (r row) decimal(col string) (decimal.Decimal, error) {
	v := r.text(col)
	if v == "" {
		return decimal.Zero, fmt.Errorf("%s is empty: %w", col, model.ErrInvalidArgument)
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %q is not a number: %w", col, v, model.ErrInvalidArgument)
	}
	return d, nil
}

// integer accepts whole numbers written with a fraction, such as "12.0".
func (r row) integer(col string) (int, error) {
	d, err := r.decimal(col)
	if err != nil {
		return 0, err
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("%s %s is not a whole number: %w", col, d, model.ErrInvalidArgument)
	}
	return int(d.IntPart()), nil
}

func (r row) int64(col string) (int64, error) {
	n, err := r.integer(col)
	return int64(n), err
}

func (r row) optionalInt64(col string) (int64, error) {
	if r.text(col) == "" {
		return 0, nil
	}
	return r.int64(col)
}

// date reads an Excel serial date or one of dateLayouts.
func (r row) date(col string) (civil.Date, error) {
	v := r.text(col)
	if v == "" {
		return civil.Date{}, fmt.Errorf("%s is empty: %w", col, model.ErrInvalidArgument)
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return civil.Date{}, fmt.Errorf("%s %q: %w", col, v, model.ErrInvalidArgument)
		}
		return civil.DateOf(t), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return civil.DateOf(t), nil
		}
	}
	return civil.Date{}, fmt.Errorf("%s %q is not a date: %w", col, v, model.ErrInvalidArgument)
}
