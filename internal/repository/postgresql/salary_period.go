package postgresql

import (
	"context"
	"fmt"

	"github.com/gajihub/payroll-tax-backend-go/internal/domain/tax"
	"github.com/gajihub/payroll-tax-backend-go/internal/pkg/database"
)

type salaryPeriodRepository struct {
	db *database.DB
}

func NewSalaryPeriodRepository(db *database.DB) tax.PeriodSource {
	return &salaryPeriodRepository{db: db}
}

func (r *salaryPeriodRepository) ListFinalized(ctx context.Context, employeeID string, year int) ([]tax.SalaryPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, tax_status, year, month, gross_pay, is_closing_period
		FROM salary_periods
		WHERE employee_id = $1 AND year = $2 AND status = 'finalized'
		ORDER BY month ASC
	`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list finalized salary periods: %w", err)
	}
	defer rows.Close()

	var periods []tax.SalaryPeriod
	var ids []string
	for rows.Next() {
		var (
			id string
			p  tax.SalaryPeriod
		)
		if err := rows.Scan(&id, &p.EmployeeID, &p.TaxStatus, &p.Year, &p.Month, &p.GrossPay, &p.IsClosingPeriod); err != nil {
			return nil, fmt.Errorf("failed to scan salary period: %w", err)
		}
		periods = append(periods, p)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read salary periods: %w", err)
	}

	for i, id := range ids {
		earnings, deductions, err := r.listComponents(ctx, id)
		if err != nil {
			return nil, err
		}
		periods[i].Earnings = earnings
		periods[i].Deductions = deductions
	}

	return periods, nil
}

func (r *salaryPeriodRepository) listComponents(ctx context.Context, periodID string) (earnings, deductions []tax.SalaryComponentLine, err error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT name, kind, amount, is_tax_applicable, is_income_tax_component,
			   variable_based_on_taxable_salary, statistical_component,
			   do_not_include_in_total, exempted_from_income_tax,
			   remove_if_zero, is_natura
		FROM salary_period_components
		WHERE period_id = $1
		ORDER BY kind, name
	`

	rows, err := q.Query(ctx, query, periodID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list salary period components: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line tax.SalaryComponentLine
		if err := rows.Scan(
			&line.Name, &line.Kind, &line.Amount, &line.IsTaxApplicable, &line.IsIncomeTaxComponent,
			&line.VariableBasedOnTaxableSalary, &line.StatisticalComponent,
			&line.DoNotIncludeInTotal, &line.ExemptedFromIncomeTax,
			&line.RemoveIfZero, &line.IsNatura,
		); err != nil {
			return nil, nil, fmt.Errorf("failed to scan salary period component: %w", err)
		}
		if line.Kind == tax.ComponentKindDeduction {
			deductions = append(deductions, line)
		} else {
			earnings = append(earnings, line)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read salary period components: %w", err)
	}

	return earnings, deductions, nil
}

// WithheldTaxTotal sums the tax figures stamped on finalized periods when
// they ran through the engine. It backs the closing-period reconciliation
// when no ledger row exists for the year.
func (r *salaryPeriodRepository) WithheldTaxTotal(ctx context.Context, employeeID string, year int, beforeMonth int) (tax.WithheldTotals, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(tax_amount), 0),
			   COALESCE(SUM(taxable_bruto), 0),
			   COALESCE(SUM(netto_reducers), 0),
			   COALESCE(ARRAY_AGG(month ORDER BY month) FILTER (WHERE month IS NOT NULL), '{}')
		FROM salary_periods
		WHERE employee_id = $1 AND year = $2 AND month < $3 AND status = 'finalized'
	`

	var totals tax.WithheldTotals
	err := q.QueryRow(ctx, query, employeeID, year, beforeMonth).Scan(
		&totals.TaxWithheld, &totals.Bruto, &totals.NettoReducers, &totals.MonthsPresent,
	)
	if err != nil {
		return tax.WithheldTotals{}, fmt.Errorf("failed to sum withheld tax: %w", err)
	}

	return totals, nil
}
