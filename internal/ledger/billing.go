package ledger

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/mealledger/internal/calculator"
	"github.com/mmynk/mealledger/internal/events"
	"github.com/mmynk/mealledger/internal/metrics"
	"github.com/mmynk/mealledger/internal/models"
	"github.com/mmynk/mealledger/internal/storage"
)

// BillingResult is the outcome of one billing run.
type BillingResult struct {
	Month models.Month

	// Snapshots are the successfully written snapshots ordered by member ID.
	Snapshots []models.BillingSnapshot

	// FailedMemberIDs lists members whose snapshot could not be written, sorted.
	FailedMemberIDs []string

	// Errors maps each failed member ID to its error message.
	Errors map[string]string
}

// ProcessMonth closes out a billing month for every member that was active or
// had activity in it.
//
// The month is marked closed before its tracking and deposit rows are read, so
// edits racing the run are rejected instead of slipping past the snapshots. If
// the rows cannot be read the previous month status is restored.
//
// Members are processed in parallel; one member's failure does not stop the
// others. When any member fails the result still carries every success and a
// *models.PartialBatchFailure is returned alongside it. Reprocessing recomputes
// from source rows, overwrites the previous snapshots and removes those of
// members that are no longer billable.
func (l *Ledger) ProcessMonth(ctx context.Context, month models.Month) (*BillingResult, error) {
	if month.IsZero() {
		return nil, &models.ValidationError{Field: "month", Reason: "must be set"}
	}
	start := time.Now()
	processedAt := l.now().Unix()

	prev, err := l.closeBillingMonth(ctx, month, processedAt)
	if err != nil {
		return nil, err
	}

	src, err := l.loadBillingSource(ctx, month)
	if err == nil {
		err = l.pruneSnapshots(ctx, month, src.memberIDs)
	}
	if err != nil {
		l.restoreBillingMonth(ctx, month, prev)
		return nil, err
	}

	var (
		mu       sync.Mutex
		snaps    []models.BillingSnapshot
		failures = make(map[string]error)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for _, memberID := range src.memberIDs {
		g.Go(func() error {
			snap, err := l.closeMember(gctx, memberID, month, src.received[memberID], src.consumption[memberID], processedAt)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures[memberID] = err
				metrics.BillingMembers.WithLabelValues(metrics.OutcomeError).Inc()
				slog.ErrorContext(ctx, "Billing failed for member",
					"member_id", memberID,
					"month", month.String(),
					"error", err,
				)
				return nil
			}
			snaps = append(snaps, *snap)
			metrics.BillingMembers.WithLabelValues(metrics.OutcomeOK).Inc()
			return nil
		})
	}
	// Workers never return errors, so Wait only waits.
	_ = g.Wait()

	sort.Slice(snaps, func(i, j int) bool { return snaps[i].MemberID < snaps[j].MemberID })
	result := &BillingResult{Month: month, Snapshots: snaps, Errors: make(map[string]string)}

	var batchErr error
	if len(failures) > 0 {
		pbf := &models.PartialBatchFailure{Operation: "billing " + month.String(), Failed: failures}
		result.FailedMemberIDs = pbf.FailedIDs()
		for id, err := range failures {
			result.Errors[id] = err.Error()
		}
		batchErr = pbf
	}

	metrics.BillingRunDuration.Observe(time.Since(start).Seconds())
	slog.InfoContext(ctx, "Billing month processed",
		"month", month.String(),
		"processed", len(snaps),
		"failed", len(result.FailedMemberIDs),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	l.publish(ctx, &events.MonthProcessed{
		Month:           month.String(),
		Processed:       len(snaps),
		FailedMemberIDs: result.FailedMemberIDs,
		Timestamp:       time.Unix(processedAt, 0).UTC(),
	})

	return result, batchErr
}

// billingSource is what one billing run reads from the month's rows.
type billingSource struct {
	memberIDs   []string
	consumption map[string]decimal.Decimal
	received    map[string]decimal.Decimal
}

func (l *Ledger) loadBillingSource(ctx context.Context, month models.Month) (*billingSource, error) {
	members, err := l.store.ListMembers(ctx)
	if err != nil {
		return nil, err
	}
	records, err := l.store.ListTracking(ctx, storage.TrackingFilter{Window: models.MonthWindow(month)})
	if err != nil {
		return nil, err
	}
	deposits, err := l.store.ListDeposits(ctx, storage.DepositFilter{From: month, To: month})
	if err != nil {
		return nil, err
	}

	src := &billingSource{
		consumption: make(map[string]decimal.Decimal),
		received:    make(map[string]decimal.Decimal),
	}
	for _, r := range records {
		src.consumption[r.MemberID] = src.consumption[r.MemberID].Add(r.TotalCost)
	}
	depositors := make(map[string]bool)
	for _, d := range deposits {
		depositors[d.MemberID] = true
		if d.Status == models.DepositReceived {
			src.received[d.MemberID] = src.received[d.MemberID].Add(d.Amount)
		}
	}
	src.memberIDs = billableMembers(members, src.consumption, depositors)
	return src, nil
}

// closeBillingMonth marks the month closed and returns its previous record,
// nil if the month was never processed.
func (l *Ledger) closeBillingMonth(ctx context.Context, month models.Month, processedAt int64) (*models.BillingMonth, error) {
	prev, err := l.store.GetBillingMonth(ctx, month)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	if err := l.store.SetBillingMonth(ctx, &models.BillingMonth{
		Month:       month,
		Status:      models.BillingMonthClosed,
		ProcessedAt: processedAt,
	}); err != nil {
		return nil, err
	}
	return prev, nil
}

// restoreBillingMonth puts back the status a failed run replaced. A month that
// was never processed is left open.
func (l *Ledger) restoreBillingMonth(ctx context.Context, month models.Month, prev *models.BillingMonth) {
	if prev == nil {
		prev = &models.BillingMonth{Month: month, Status: models.BillingMonthOpen}
	}
	if err := l.store.SetBillingMonth(ctx, prev); err != nil {
		slog.ErrorContext(ctx, "Failed to restore billing month status",
			"month", month.String(),
			"status", prev.Status,
			"error", err,
		)
	}
}

// pruneSnapshots deletes snapshots of the month whose member is not billed
// by this run.
func (l *Ledger) pruneSnapshots(ctx context.Context, month models.Month, memberIDs []string) error {
	existing, err := l.store.ListSnapshots(ctx, month)
	if err != nil {
		return err
	}
	billed := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		billed[id] = true
	}
	for _, snap := range existing {
		if billed[snap.MemberID] {
			continue
		}
		if err := l.store.DeleteSnapshot(ctx, snap.MemberID, month); err != nil {
			return err
		}
		slog.InfoContext(ctx, "Removed stale billing snapshot", "member_id", snap.MemberID, "month", month.String())
	}
	return nil
}

// closeMember computes and writes one member's snapshot. Writes for the same
// (member, month) are serialized.
func (l *Ledger) closeMember(ctx context.Context, memberID string, month models.Month, deposit, consumption decimal.Decimal, processedAt int64) (*models.BillingSnapshot, error) {
	unlock := l.locks.Lock(memberID + "/" + month.String())
	defer unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opening := decimal.Zero
	prev, err := l.store.GetSnapshot(ctx, memberID, month.Prev())
	switch {
	case errors.Is(err, models.ErrNotFound):
	case err != nil:
		return nil, err
	default:
		opening = prev.ClosingBalance
	}

	mc := calculator.CloseMonth(opening, deposit, consumption)
	snap := &models.BillingSnapshot{
		MemberID:         memberID,
		Month:            month,
		OpeningBalance:   mc.OpeningBalance,
		MonthlyDeposit:   mc.MonthlyDeposit,
		TotalConsumption: mc.TotalConsumption,
		ClosingBalance:   mc.ClosingBalance,
		DueAmount:        mc.DueAmount,
		PaymentStatus:    mc.PaymentStatus,
		Processed:        true,
		ProcessedAt:      processedAt,
	}
	if err := l.store.UpsertSnapshot(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// ReopenMonth unlocks a processed month so its dates can be edited again.
// Existing snapshots are kept until the month is reprocessed.
func (l *Ledger) ReopenMonth(ctx context.Context, month models.Month) (*models.BillingMonth, error) {
	if month.IsZero() {
		return nil, &models.ValidationError{Field: "month", Reason: "must be set"}
	}
	bm, err := l.store.GetBillingMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	bm.Status = models.BillingMonthOpen
	if err := l.store.SetBillingMonth(ctx, bm); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Billing month reopened", "month", month.String())
	return bm, nil
}

// Snapshots returns the snapshots written for a month and its billing status.
// The status is nil when the month was never processed.
func (l *Ledger) Snapshots(ctx context.Context, month models.Month) ([]models.BillingSnapshot, *models.BillingMonth, error) {
	if month.IsZero() {
		return nil, nil, &models.ValidationError{Field: "month", Reason: "must be set"}
	}
	snaps, err := l.store.ListSnapshots(ctx, month)
	if err != nil {
		return nil, nil, err
	}
	bm, err := l.store.GetBillingMonth(ctx, month)
	if errors.Is(err, models.ErrNotFound) {
		return snaps, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return snaps, bm, nil
}

// billableMembers returns active members plus anyone with consumption or deposits, sorted.
func billableMembers(members []models.Member, consumption map[string]decimal.Decimal, depositors map[string]bool) []string {
	set := make(map[string]bool)
	for _, m := range members {
		if m.IsActive() {
			set[m.ID] = true
		}
	}
	for id := range consumption {
		set[id] = true
	}
	for id := range depositors {
		set[id] = true
	}

	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
