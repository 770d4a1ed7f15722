package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/mealledger/internal/models"
)

const snapshotColumns = `id, member_id, month, opening_balance, monthly_deposit, total_consumption,
	closing_balance, due_amount, payment_status, processed, processed_at`

// GetSnapshot retrieves the snapshot of a member for a month.
func (s *SQLiteStore) GetSnapshot(ctx context.Context, memberID string, month models.Month) (*models.BillingSnapshot, error) {
	snap, err := scanSnapshot(s.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM billing_snapshots WHERE member_id = ? AND month = ?`,
		memberID, month.String(),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Kind: "billing snapshot", ID: memberID + "/" + month.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return snap, nil
}

// UpsertSnapshot writes the snapshot for (member, month), replacing any previous one.
// The ID of an existing snapshot is kept and scanned back into snap.
func (s *SQLiteStore) UpsertSnapshot(ctx context.Context, snap *models.BillingSnapshot) error {
	id := snap.ID
	if id == "" {
		id = uuid.New().String()
	}

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO billing_snapshots (id, member_id, month, opening_balance, monthly_deposit,
			total_consumption, closing_balance, due_amount, payment_status, processed, processed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (member_id, month) DO UPDATE SET
			opening_balance = excluded.opening_balance,
			monthly_deposit = excluded.monthly_deposit,
			total_consumption = excluded.total_consumption,
			closing_balance = excluded.closing_balance,
			due_amount = excluded.due_amount,
			payment_status = excluded.payment_status,
			processed = excluded.processed,
			processed_at = excluded.processed_at
		 RETURNING id`,
		id, snap.MemberID, snap.Month.String(),
		snap.OpeningBalance, snap.MonthlyDeposit, snap.TotalConsumption,
		snap.ClosingBalance, snap.DueAmount, string(snap.PaymentStatus),
		boolToInt(snap.Processed), snap.ProcessedAt,
	).Scan(&snap.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}
	return nil
}

// DeleteSnapshot removes the snapshot of a member for a month. Deleting a
// missing snapshot is not an error.
func (s *SQLiteStore) DeleteSnapshot(ctx context.Context, memberID string, month models.Month) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM billing_snapshots WHERE member_id = ? AND month = ?`,
		memberID, month.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// ListSnapshots returns the snapshots of a month ordered by member.
func (s *SQLiteStore) ListSnapshots(ctx context.Context, month models.Month) ([]models.BillingSnapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+snapshotColumns+` FROM billing_snapshots WHERE month = ? ORDER BY member_id`,
		month.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []models.BillingSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snaps = append(snaps, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}
	return snaps, nil
}

// GetBillingMonth returns the billing month record.
func (s *SQLiteStore) GetBillingMonth(ctx context.Context, month models.Month) (*models.BillingMonth, error) {
	bm := &models.BillingMonth{Month: month}
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT status, processed_at FROM billing_months WHERE month = ?`,
		month.String(),
	).Scan(&status, &bm.ProcessedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Kind: "billing month", ID: month.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get billing month: %w", err)
	}
	bm.Status = models.BillingMonthStatus(status)
	return bm, nil
}

// SetBillingMonth inserts or updates a billing month record.
func (s *SQLiteStore) SetBillingMonth(ctx context.Context, bm *models.BillingMonth) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO billing_months (month, status, processed_at) VALUES (?, ?, ?)
		 ON CONFLICT (month) DO UPDATE SET status = excluded.status, processed_at = excluded.processed_at`,
		bm.Month.String(), string(bm.Status), bm.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to set billing month: %w", err)
	}
	return nil
}

// checkMonthOpen returns a ConflictError when month is a closed billing month.
func checkMonthOpen(ctx context.Context, q queryer, month models.Month, what string) error {
	var status string
	err := q.QueryRowContext(ctx,
		`SELECT status FROM billing_months WHERE month = ?`, month.String(),
	).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get billing month: %w", err)
	}
	if models.BillingMonthStatus(status) == models.BillingMonthClosed {
		return &models.ConflictError{Reason: fmt.Sprintf("billing month %s is closed, reopen it to change %s", month, what)}
	}
	return nil
}

func scanSnapshot(row rowScanner) (*models.BillingSnapshot, error) {
	var (
		snap      models.BillingSnapshot
		month     string
		status    string
		processed int
	)
	if err := row.Scan(
		&snap.ID, &snap.MemberID, &month,
		&snap.OpeningBalance, &snap.MonthlyDeposit, &snap.TotalConsumption,
		&snap.ClosingBalance, &snap.DueAmount, &status, &processed, &snap.ProcessedAt,
	); err != nil {
		return nil, err
	}
	m, err := models.ParseMonth(month)
	if err != nil {
		return nil, err
	}
	snap.Month = m
	snap.PaymentStatus = models.PaymentStatus(status)
	snap.Processed = processed != 0
	return &snap, nil
}
