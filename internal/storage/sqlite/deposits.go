package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/mealledger/internal/models"
	"github.com/mmynk/mealledger/internal/storage"
)

const depositColumns = `id, member_id, month, amount, status, notes, created_at`

// CreateDeposit persists a new deposit to the database.
func (s *SQLiteStore) CreateDeposit(ctx context.Context, deposit *models.MonthlyDeposit) error {
	if deposit.ID == "" {
		deposit.ID = uuid.New().String()
	}
	if deposit.CreatedAt == 0 {
		deposit.CreatedAt = time.Now().Unix()
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := checkMonthOpen(ctx, tx, deposit.Month, "its deposits"); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO monthly_deposits (id, member_id, month, amount, status, notes, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			deposit.ID, deposit.MemberID, deposit.Month.String(), deposit.Amount,
			string(deposit.Status), deposit.Notes, deposit.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert deposit: %w", err)
		}
		return nil
	})
}

// SetDepositStatus updates a deposit's status and returns the stored row.
func (s *SQLiteStore) SetDepositStatus(ctx context.Context, depositID string, status models.DepositStatus) (*models.MonthlyDeposit, error) {
	var deposit *models.MonthlyDeposit
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		current, err := scanDeposit(tx.QueryRowContext(ctx,
			`SELECT `+depositColumns+` FROM monthly_deposits WHERE id = ?`, depositID))
		if errors.Is(err, sql.ErrNoRows) {
			return &models.NotFoundError{Kind: "deposit", ID: depositID}
		}
		if err != nil {
			return fmt.Errorf("failed to read deposit: %w", err)
		}
		if err := checkMonthOpen(ctx, tx, current.Month, "its deposits"); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `UPDATE monthly_deposits SET status = ? WHERE id = ?`, string(status), depositID)
		if err != nil {
			return fmt.Errorf("failed to update deposit: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("failed to check update result: %w", err)
		} else if n == 0 {
			return &models.NotFoundError{Kind: "deposit", ID: depositID}
		}

		deposit, err = scanDeposit(tx.QueryRowContext(ctx,
			`SELECT `+depositColumns+` FROM monthly_deposits WHERE id = ?`, depositID))
		if err != nil {
			return fmt.Errorf("failed to read deposit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deposit, nil
}

// ListDeposits returns deposits matching the filter.
func (s *SQLiteStore) ListDeposits(ctx context.Context, filter storage.DepositFilter) ([]models.MonthlyDeposit, error) {
	var (
		where []string
		args  []any
	)
	if filter.MemberID != "" {
		where = append(where, "member_id = ?")
		args = append(args, filter.MemberID)
	}
	// YYYY-MM sorts lexically.
	if !filter.From.IsZero() {
		where = append(where, "month >= ?")
		args = append(args, filter.From.String())
	}
	if !filter.To.IsZero() {
		where = append(where, "month <= ?")
		args = append(args, filter.To.String())
	}

	query := `SELECT ` + depositColumns + ` FROM monthly_deposits`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY month, created_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list deposits: %w", err)
	}
	defer rows.Close()

	var deposits []models.MonthlyDeposit
	for rows.Next() {
		d, err := scanDeposit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deposit: %w", err)
		}
		deposits = append(deposits, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deposits: %w", err)
	}
	return deposits, nil
}

func scanDeposit(row rowScanner) (*models.MonthlyDeposit, error) {
	var (
		d      models.MonthlyDeposit
		month  string
		status string
	)
	if err := row.Scan(&d.ID, &d.MemberID, &month, &d.Amount, &status, &d.Notes, &d.CreatedAt); err != nil {
		return nil, err
	}
	m, err := models.ParseMonth(month)
	if err != nil {
		return nil, err
	}
	d.Month = m
	d.Status = models.DepositStatus(status)
	return &d, nil
}
