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

const costColumns = `date, lunch_cost, dinner_cost, lunch_participants, dinner_participants,
	lunch_cost_per_unit, dinner_cost_per_unit, version, updated_at, updated_by`

const trackingColumns = `id, member_id, date, lunch_count, dinner_count, lunch_cost, dinner_cost,
	total_cost, paid, notes, updated_at, updated_by`

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// GetDay reads a date's cost row and records in one transaction.
func (s *SQLiteStore) GetDay(ctx context.Context, date time.Time) (*models.DayLedger, error) {
	date = models.TruncateDate(date)

	var day *models.DayLedger
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		day, err = loadDay(ctx, tx, date)
		return err
	})
	if err != nil {
		return nil, err
	}
	return day, nil
}

// MutateDay loads the date, applies fn and writes the whole allocation unit back
// with the version bumped. Nothing is written if fn or any write fails.
func (s *SQLiteStore) MutateDay(ctx context.Context, date time.Time, fn storage.DayMutator) (*models.DayLedger, error) {
	date = models.TruncateDate(date)

	var day *models.DayLedger
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		day, err = loadDay(ctx, tx, date)
		if err != nil {
			return err
		}

		if err := fn(day); err != nil {
			return err
		}

		day.Cost.Date = date
		day.Cost.Version++
		if err := writeCost(ctx, tx, &day.Cost); err != nil {
			return err
		}

		for i := range day.Records {
			rec := &day.Records[i]
			rec.Date = date
			if rec.ID == "" {
				rec.ID = uuid.New().String()
			}
			if err := writeRecord(ctx, tx, rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return day, nil
}

// ListTracking returns tracking records matching the filter.
func (s *SQLiteStore) ListTracking(ctx context.Context, filter storage.TrackingFilter) ([]models.MemberMealTracking, error) {
	var (
		where []string
		args  []any
	)
	if filter.MemberID != "" {
		where = append(where, "member_id = ?")
		args = append(args, filter.MemberID)
	}
	if !filter.Window.From.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, models.FormatDate(filter.Window.From))
	}
	if !filter.Window.To.IsZero() {
		where = append(where, "date <= ?")
		args = append(args, models.FormatDate(filter.Window.To))
	}

	query := `SELECT ` + trackingColumns + ` FROM member_meal_tracking`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date, member_id"

	return queryRecords(ctx, s.db, query, args...)
}

// ListDailyCosts returns the cost rows of dates within the window.
func (s *SQLiteStore) ListDailyCosts(ctx context.Context, window models.Window) ([]models.DailyMealCost, error) {
	var (
		where []string
		args  []any
	)
	if !window.From.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, models.FormatDate(window.From))
	}
	if !window.To.IsZero() {
		where = append(where, "date <= ?")
		args = append(args, models.FormatDate(window.To))
	}

	query := `SELECT ` + costColumns + ` FROM daily_meal_costs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily costs: %w", err)
	}
	defer rows.Close()

	var costs []models.DailyMealCost
	for rows.Next() {
		c, err := scanCost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily cost: %w", err)
		}
		costs = append(costs, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily costs: %w", err)
	}
	return costs, nil
}

func loadDay(ctx context.Context, q queryer, date time.Time) (*models.DayLedger, error) {
	day := &models.DayLedger{Cost: models.DailyMealCost{Date: date}}
	key := models.FormatDate(date)

	cost, err := scanCost(q.QueryRowContext(ctx,
		`SELECT `+costColumns+` FROM daily_meal_costs WHERE date = ?`, key))
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("failed to get daily cost: %w", err)
	default:
		day.Cost = *cost
	}

	day.Records, err = queryRecords(ctx, q,
		`SELECT `+trackingColumns+` FROM member_meal_tracking WHERE date = ? ORDER BY member_id`,
		key,
	)
	if err != nil {
		return nil, err
	}

	var status string
	err = q.QueryRowContext(ctx,
		`SELECT status FROM billing_months WHERE month = ?`,
		models.MonthOf(date).String(),
	).Scan(&status)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("failed to get billing month: %w", err)
	default:
		day.MonthClosed = models.BillingMonthStatus(status) == models.BillingMonthClosed
	}

	return day, nil
}

func writeCost(ctx context.Context, tx *sql.Tx, cost *models.DailyMealCost) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO daily_meal_costs (date, lunch_cost, dinner_cost, lunch_participants, dinner_participants,
			lunch_cost_per_unit, dinner_cost_per_unit, version, updated_at, updated_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (date) DO UPDATE SET
			lunch_cost = excluded.lunch_cost,
			dinner_cost = excluded.dinner_cost,
			lunch_participants = excluded.lunch_participants,
			dinner_participants = excluded.dinner_participants,
			lunch_cost_per_unit = excluded.lunch_cost_per_unit,
			dinner_cost_per_unit = excluded.dinner_cost_per_unit,
			version = excluded.version,
			updated_at = excluded.updated_at,
			updated_by = excluded.updated_by`,
		models.FormatDate(cost.Date),
		cost.LunchCost,
		cost.DinnerCost,
		cost.LunchParticipants,
		cost.DinnerParticipants,
		cost.LunchCostPerUnit,
		cost.DinnerCostPerUnit,
		cost.Version,
		cost.UpdatedAt,
		cost.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to write daily cost: %w", err)
	}
	return nil
}

func writeRecord(ctx context.Context, tx *sql.Tx, rec *models.MemberMealTracking) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO member_meal_tracking (id, member_id, date, lunch_count, dinner_count,
			lunch_cost, dinner_cost, total_cost, paid, notes, updated_at, updated_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (member_id, date) DO UPDATE SET
			lunch_count = excluded.lunch_count,
			dinner_count = excluded.dinner_count,
			lunch_cost = excluded.lunch_cost,
			dinner_cost = excluded.dinner_cost,
			total_cost = excluded.total_cost,
			paid = excluded.paid,
			notes = excluded.notes,
			updated_at = excluded.updated_at,
			updated_by = excluded.updated_by`,
		rec.ID,
		rec.MemberID,
		models.FormatDate(rec.Date),
		rec.LunchCount,
		rec.DinnerCount,
		rec.LunchCost,
		rec.DinnerCost,
		rec.TotalCost,
		boolToInt(rec.Paid),
		rec.Notes,
		rec.UpdatedAt,
		rec.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to write tracking for member %s: %w", rec.MemberID, err)
	}
	return nil
}

func scanCost(row rowScanner) (*models.DailyMealCost, error) {
	var (
		c    models.DailyMealCost
		date string
	)
	if err := row.Scan(
		&date,
		&c.LunchCost,
		&c.DinnerCost,
		&c.LunchParticipants,
		&c.DinnerParticipants,
		&c.LunchCostPerUnit,
		&c.DinnerCostPerUnit,
		&c.Version,
		&c.UpdatedAt,
		&c.UpdatedBy,
	); err != nil {
		return nil, err
	}
	d, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cost date %q: %w", date, err)
	}
	c.Date = d
	return &c, nil
}

func queryRecords(ctx context.Context, q queryer, query string, args ...any) ([]models.MemberMealTracking, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracking: %w", err)
	}
	defer rows.Close()

	var records []models.MemberMealTracking
	for rows.Next() {
		var (
			rec  models.MemberMealTracking
			date string
			paid int
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.MemberID,
			&date,
			&rec.LunchCount,
			&rec.DinnerCount,
			&rec.LunchCost,
			&rec.DinnerCost,
			&rec.TotalCost,
			&paid,
			&rec.Notes,
			&rec.UpdatedAt,
			&rec.UpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tracking: %w", err)
		}
		rec.Date, err = time.Parse(models.DateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse tracking date %q: %w", date, err)
		}
		rec.Paid = paid != 0
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tracking: %w", err)
	}
	return records, nil
}
