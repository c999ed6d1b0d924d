package postgresql

import (
	"context"
	"fmt"

	"github.com/gajihub/payroll-tax-backend-go/internal/domain/tax"
	"github.com/gajihub/payroll-tax-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type taxSummaryRepository struct {
	db *database.DB
}

func NewTaxSummaryRepository(db *database.DB) tax.SummaryRepository {
	return &taxSummaryRepository{db: db}
}

func (r *taxSummaryRepository) GetByEmployeeYear(ctx context.Context, employeeID string, year int) (tax.EmployeeTaxYearSummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, year, ytd_gross, ytd_tax, ytd_bpjs,
			   ytd_tax_correction, ytd_tax_with_correction,
			   is_using_ter, ter_rate, has_december_correction,
			   created_at, updated_at
		FROM employee_tax_year_summaries
		WHERE employee_id = $1 AND year = $2
	`

	var s tax.EmployeeTaxYearSummary
	err := q.QueryRow(ctx, query, employeeID, year).Scan(
		&s.ID, &s.EmployeeID, &s.Year, &s.YTDGross, &s.YTDTax, &s.YTDBPJS,
		&s.YTDTaxCorrection, &s.YTDTaxWithCorrection,
		&s.IsUsingTER, &s.TERRate, &s.HasDecemberCorrection,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return tax.EmployeeTaxYearSummary{}, tax.ErrSummaryNotFound
		}
		return tax.EmployeeTaxYearSummary{}, fmt.Errorf("failed to get tax year summary: %w", err)
	}

	details, err := r.listDetails(ctx, s.ID)
	if err != nil {
		return tax.EmployeeTaxYearSummary{}, err
	}
	s.MonthlyDetails = details

	return s, nil
}

func (r *taxSummaryRepository) listDetails(ctx context.Context, summaryID string) ([]tax.MonthlyTaxRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT month, taxable_bruto, bpjs_employee_deduction, other_deductions,
			   tax_amount, method, ter_rate
		FROM employee_tax_monthly_details
		WHERE summary_id = $1
		ORDER BY month ASC
	`

	rows, err := q.Query(ctx, query, summaryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list monthly tax details: %w", err)
	}
	defer rows.Close()

	var details []tax.MonthlyTaxRecord
	for rows.Next() {
		var d tax.MonthlyTaxRecord
		if err := rows.Scan(
			&d.Month, &d.TaxableBruto, &d.BPJSEmployeeDeduction, &d.OtherDeductions,
			&d.TaxAmount, &d.Method, &d.TERRate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan monthly tax detail: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read monthly tax details: %w", err)
	}

	return details, nil
}

// Upsert writes the summary row and replaces its monthly details in one
// transaction, so readers never observe a half-updated year.
func (r *taxSummaryRepository) Upsert(ctx context.Context, summary tax.EmployeeTaxYearSummary) (tax.EmployeeTaxYearSummary, error) {
	saved := summary

	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO employee_tax_year_summaries (
				id, employee_id, year, ytd_gross, ytd_tax, ytd_bpjs,
				ytd_tax_correction, ytd_tax_with_correction,
				is_using_ter, ter_rate, has_december_correction,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			ON CONFLICT (employee_id, year) DO UPDATE SET
				ytd_gross = EXCLUDED.ytd_gross,
				ytd_tax = EXCLUDED.ytd_tax,
				ytd_bpjs = EXCLUDED.ytd_bpjs,
				ytd_tax_correction = EXCLUDED.ytd_tax_correction,
				ytd_tax_with_correction = EXCLUDED.ytd_tax_with_correction,
				is_using_ter = EXCLUDED.is_using_ter,
				ter_rate = EXCLUDED.ter_rate,
				has_december_correction = EXCLUDED.has_december_correction,
				updated_at = EXCLUDED.updated_at
			RETURNING id, created_at, updated_at
		`

		err := tx.QueryRow(ctx, query,
			summary.ID, summary.EmployeeID, summary.Year,
			summary.YTDGross, summary.YTDTax, summary.YTDBPJS,
			summary.YTDTaxCorrection, summary.YTDTaxWithCorrection,
			summary.IsUsingTER, summary.TERRate, summary.HasDecemberCorrection,
			summary.CreatedAt, summary.UpdatedAt,
		).Scan(&saved.ID, &saved.CreatedAt, &saved.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to upsert tax year summary: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`DELETE FROM employee_tax_monthly_details WHERE summary_id = $1`,
			saved.ID,
		); err != nil {
			return fmt.Errorf("failed to clear monthly tax details: %w", err)
		}

		for _, d := range summary.MonthlyDetails {
			if _, err := tx.Exec(ctx, `
				INSERT INTO employee_tax_monthly_details (
					summary_id, month, taxable_bruto, bpjs_employee_deduction,
					other_deductions, tax_amount, method, ter_rate
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`,
				saved.ID, d.Month, d.TaxableBruto, d.BPJSEmployeeDeduction,
				d.OtherDeductions, d.TaxAmount, d.Method, d.TERRate,
			); err != nil {
				return fmt.Errorf("failed to insert monthly tax detail for month %d: %w", d.Month, err)
			}
		}

		return nil
	})
	if err != nil {
		return tax.EmployeeTaxYearSummary{}, err
	}

	return saved, nil
}

func (r *taxSummaryRepository) Delete(ctx context.Context, employeeID string, year int) error {
	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			DELETE FROM employee_tax_monthly_details
			WHERE summary_id IN (
				SELECT id FROM employee_tax_year_summaries
				WHERE employee_id = $1 AND year = $2
			)
		`, employeeID, year); err != nil {
			return fmt.Errorf("failed to delete monthly tax details: %w", err)
		}

		tag, err := tx.Exec(ctx,
			`DELETE FROM employee_tax_year_summaries WHERE employee_id = $1 AND year = $2`,
			employeeID, year,
		)
		if err != nil {
			return fmt.Errorf("failed to delete tax year summary: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return tax.ErrSummaryNotFound
		}

		return nil
	})
}
