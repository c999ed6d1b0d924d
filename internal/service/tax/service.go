package tax

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gajihub/payroll-tax-backend-go/internal/domain/tax"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// batchConcurrency bounds the number of employees processed in parallel
// during a batch run.
const batchConcurrency = 8

type TaxServiceImpl struct {
	summaryRepo tax.SummaryRepository
	periods     tax.PeriodSource
	settings    *tax.Settings

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewTaxService(
	summaryRepo tax.SummaryRepository,
	periods tax.PeriodSource,
	settings *tax.Settings,
) tax.TaxService {
	return &TaxServiceImpl{
		summaryRepo: summaryRepo,
		periods:     periods,
		settings:    settings,
		locks:       make(map[string]*sync.Mutex),
	}
}

// lockFor returns the mutex owning the (employee, year) ledger key. All
// reads and writes of a summary happen under this lock so concurrent
// calculations for the same employee serialize instead of clobbering
// each other.
func (s *TaxServiceImpl) lockFor(employeeID string, year int) *sync.Mutex {
	key := fmt.Sprintf("%s|%d", employeeID, year)
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

// ========== CALCULATION ==========

func (s *TaxServiceImpl) Calculate(ctx context.Context, req tax.CalculateRequest) (tax.CalculateResponse, error) {
	if err := req.Validate(); err != nil {
		return tax.CalculateResponse{}, err
	}

	period := req.Period
	lock := s.lockFor(period.EmployeeID, period.Year)
	lock.Lock()
	defer lock.Unlock()

	summary, fresh, err := s.loadOrInitSummary(ctx, period.EmployeeID, period.Year)
	if err != nil {
		return tax.CalculateResponse{}, err
	}

	result, err := s.applyPeriod(ctx, &summary, fresh, period, req.AllowMissingMonths)
	if err != nil {
		return tax.CalculateResponse{}, err
	}

	summary.UpdatedAt = time.Now()
	if err := summary.CheckConsistency(); err != nil {
		return tax.CalculateResponse{}, err
	}

	saved, err := s.summaryRepo.Upsert(ctx, summary)
	if err != nil {
		return tax.CalculateResponse{}, fmt.Errorf("persist tax year summary: %w", err)
	}

	return tax.CalculateResponse{Result: result, Summary: saved}, nil
}

func (s *TaxServiceImpl) CalculateBatch(ctx context.Context, req tax.BatchCalculateRequest) (tax.BatchCalculateResponse, error) {
	if err := req.Validate(); err != nil {
		return tax.BatchCalculateResponse{}, err
	}

	// Months of one employee depend on each other through the ledger, so
	// parallelism runs across employees and stays sequential within one.
	byEmployee := make(map[string][]tax.SalaryPeriod)
	var order []string
	for _, p := range req.Periods {
		if _, ok := byEmployee[p.EmployeeID]; !ok {
			order = append(order, p.EmployeeID)
		}
		byEmployee[p.EmployeeID] = append(byEmployee[p.EmployeeID], p)
	}

	var (
		outMu    sync.Mutex
		response = tax.BatchCalculateResponse{Processed: len(req.Periods)}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for _, employeeID := range order {
		periods := byEmployee[employeeID]
		sort.Slice(periods, func(i, j int) bool { return periods[i].Month < periods[j].Month })

		g.Go(func() error {
			for i, period := range periods {
				resp, err := s.Calculate(gctx, tax.CalculateRequest{
					Period:             period,
					AllowMissingMonths: req.AllowMissingMonths,
				})

				outMu.Lock()
				if err != nil {
					response.Failed += len(periods) - i
					response.Failures = append(response.Failures, tax.BatchFailure{
						EmployeeID: period.EmployeeID,
						Month:      period.Month,
						Error:      err.Error(),
					})
					for _, skipped := range periods[i+1:] {
						response.Failures = append(response.Failures, tax.BatchFailure{
							EmployeeID: skipped.EmployeeID,
							Month:      skipped.Month,
							Error:      fmt.Sprintf("skipped after failure in month %d", period.Month),
						})
					}
					outMu.Unlock()
					return nil
				}
				response.Succeeded++
				response.Results = append(response.Results, resp.Result)
				outMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return tax.BatchCalculateResponse{}, err
	}

	sort.Slice(response.Results, func(i, j int) bool {
		if response.Results[i].EmployeeID != response.Results[j].EmployeeID {
			return response.Results[i].EmployeeID < response.Results[j].EmployeeID
		}
		return response.Results[i].Month < response.Results[j].Month
	})
	return response, nil
}

func (s *TaxServiceImpl) RebuildYear(ctx context.Context, req tax.RebuildYearRequest) (tax.RebuildYearResponse, error) {
	if err := req.Validate(); err != nil {
		return tax.RebuildYearResponse{}, err
	}

	lock := s.lockFor(req.EmployeeID, req.Year)
	lock.Lock()
	defer lock.Unlock()

	_, err := s.summaryRepo.GetByEmployeeYear(ctx, req.EmployeeID, req.Year)
	switch {
	case err == nil:
		if !req.Force {
			return tax.RebuildYearResponse{}, tax.ErrRebuildNeedsForce
		}
		if err := s.summaryRepo.Delete(ctx, req.EmployeeID, req.Year); err != nil {
			return tax.RebuildYearResponse{}, fmt.Errorf("drop stale tax year summary: %w", err)
		}
	case errors.Is(err, tax.ErrSummaryNotFound):
		// Nothing to drop.
	default:
		return tax.RebuildYearResponse{}, fmt.Errorf("load tax year summary: %w", err)
	}

	periods, err := s.periods.ListFinalized(ctx, req.EmployeeID, req.Year)
	if err != nil {
		return tax.RebuildYearResponse{}, fmt.Errorf("list finalized periods: %w", err)
	}
	if len(periods) == 0 {
		return tax.RebuildYearResponse{}, tax.ErrPeriodNotFound
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Month < periods[j].Month })

	summary := newSummary(req.EmployeeID, req.Year)
	response := tax.RebuildYearResponse{
		EmployeeID: req.EmployeeID,
		Year:       req.Year,
		Total:      len(periods),
	}

	for _, period := range periods {
		if _, err := s.applyPeriod(ctx, &summary, false, period, req.AllowMissingMonths); err != nil {
			// Persist the months that replayed cleanly so a fixed re-run
			// can resume instead of starting over.
			if response.Processed > 0 {
				summary.UpdatedAt = time.Now()
				if _, saveErr := s.summaryRepo.Upsert(ctx, summary); saveErr != nil {
					return tax.RebuildYearResponse{}, fmt.Errorf("persist partial rebuild: %w", saveErr)
				}
			}
			return tax.RebuildYearResponse{}, fmt.Errorf("rebuild month %d: %w", period.Month, err)
		}
		response.Processed++
	}

	summary.UpdatedAt = time.Now()
	if err := summary.CheckConsistency(); err != nil {
		return tax.RebuildYearResponse{}, err
	}
	saved, err := s.summaryRepo.Upsert(ctx, summary)
	if err != nil {
		return tax.RebuildYearResponse{}, fmt.Errorf("persist tax year summary: %w", err)
	}
	response.Summary = &saved
	return response, nil
}

// applyPeriod computes one period against the in-memory summary and writes
// the resulting monthly record into it. The caller holds the ledger lock
// and persists afterwards.
func (s *TaxServiceImpl) applyPeriod(ctx context.Context, summary *tax.EmployeeTaxYearSummary, emptyLedger bool, period tax.SalaryPeriod, allowMissing bool) (tax.Result, error) {
	var (
		result tax.Result
		err    error
	)
	if period.Closing() {
		result, err = s.reconcile(ctx, summary, emptyLedger, period, allowMissing)
	} else {
		result, err = s.calculateMonthly(summary, period)
	}
	if err != nil {
		return tax.Result{}, err
	}

	// Correction state must be set before PutDetail: the YTD totals it
	// recomputes depend on it.
	if result.CorrectionAmount != nil {
		summary.HasDecemberCorrection = true
		summary.YTDTaxCorrection = *result.CorrectionAmount
	}
	if result.MethodUsed == tax.MethodTER {
		summary.IsUsingTER = true
		summary.TERRate = result.TERRate
	}

	agg := aggregate(period)
	summary.PutDetail(tax.MonthlyTaxRecord{
		Month:                 period.Month,
		TaxableBruto:          agg.Bruto,
		BPJSEmployeeDeduction: agg.BPJSReducers,
		OtherDeductions:       agg.NettoReducers.Sub(agg.BPJSReducers),
		TaxAmount:             result.TaxAmount,
		Method:                result.MethodUsed,
		TERRate:               result.TERRate,
	})
	return result, nil
}

func (s *TaxServiceImpl) calculateMonthly(summary *tax.EmployeeTaxYearSummary, period tax.SalaryPeriod) (tax.Result, error) {
	switch s.settings.Method {
	case tax.MethodTER:
		priorGross, priorMonths := priorGrossBefore(summary, period.Month)
		return CalculateTER(period, priorGross, priorMonths, s.settings)
	case tax.MethodProgressive:
		return CalculateProgressiveMonthly(period, s.settings)
	default:
		return tax.Result{}, fmt.Errorf("%w: %s", tax.ErrUnsupportedTaxMethod, s.settings.Method)
	}
}

func (s *TaxServiceImpl) reconcile(ctx context.Context, summary *tax.EmployeeTaxYearSummary, emptyLedger bool, period tax.SalaryPeriod, allowMissing bool) (tax.Result, error) {
	var prior tax.WithheldTotals
	if emptyLedger {
		// No ledger was ever built for this year; reconstruct the withheld
		// totals straight from the finalized periods.
		totals, err := s.periods.WithheldTaxTotal(ctx, period.EmployeeID, period.Year, period.Month)
		if err != nil {
			return tax.Result{}, fmt.Errorf("reconstruct withheld totals: %w", err)
		}
		prior = totals
	} else {
		prior = priorTotalsFromSummary(summary, period.Month)
	}
	return CalculateAnnual(period, prior, allowMissing, s.settings)
}

func (s *TaxServiceImpl) loadOrInitSummary(ctx context.Context, employeeID string, year int) (tax.EmployeeTaxYearSummary, bool, error) {
	summary, err := s.summaryRepo.GetByEmployeeYear(ctx, employeeID, year)
	if err != nil {
		if errors.Is(err, tax.ErrSummaryNotFound) {
			return newSummary(employeeID, year), true, nil
		}
		return tax.EmployeeTaxYearSummary{}, false, fmt.Errorf("load tax year summary: %w", err)
	}
	return summary, false, nil
}

// ========== LEDGER ==========

func (s *TaxServiceImpl) GetSummary(ctx context.Context, employeeID string, year int) (tax.EmployeeTaxYearSummary, error) {
	return s.summaryRepo.GetByEmployeeYear(ctx, employeeID, year)
}

// ========== CONFIGURATION ==========

func (s *TaxServiceImpl) Settings() *tax.Settings {
	return s.settings
}

// ========== BPJS ==========

func (s *TaxServiceImpl) CalculateBPJS(_ context.Context, req tax.BPJSCalculateRequest) (tax.BPJSResult, error) {
	if err := req.Validate(); err != nil {
		return tax.BPJSResult{}, err
	}
	return CalculateBPJS(req.BaseSalary, s.settings.BPJS)
}

func newSummary(employeeID string, year int) tax.EmployeeTaxYearSummary {
	now := time.Now()
	return tax.EmployeeTaxYearSummary{
		ID:         uuid.New().String(),
		EmployeeID: employeeID,
		Year:       year,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// priorGrossBefore sums and counts the ledger months recorded before the
// given month. The count feeds the TER projection, which must not depend on
// the order the months were computed in.
func priorGrossBefore(summary *tax.EmployeeTaxYearSummary, month int) (decimal.Decimal, int) {
	total := decimal.Zero
	count := 0
	for _, d := range summary.MonthlyDetails {
		if d.Month < month {
			total = total.Add(d.TaxableBruto)
			count++
		}
	}
	return total, count
}
