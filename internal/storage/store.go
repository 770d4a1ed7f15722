// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"time"

	"github.com/mmynk/mealledger/internal/models"
)

// DayMutator edits a loaded DayLedger in place. Returning an error aborts the
// mutation and nothing is written.
type DayMutator func(day *models.DayLedger) error

// TrackingFilter selects tracking records. Empty fields are unbounded.
type TrackingFilter struct {
	MemberID string
	Window   models.Window
}

// DepositFilter selects deposits. A zero From or To month is unbounded.
type DepositFilter struct {
	MemberID string
	From     models.Month
	To       models.Month
}

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the ledger or service layer.
type Store interface {
	// CreateMember persists a new member. ID and CreatedAt are populated when empty.
	CreateMember(ctx context.Context, member *models.Member) error

	// GetMember retrieves a member by ID. Returns a NotFoundError if unknown.
	GetMember(ctx context.Context, memberID string) (*models.Member, error)

	// ListMembers returns all members ordered by name.
	ListMembers(ctx context.Context) ([]models.Member, error)

	// SetMemberStatus changes a member's lifecycle state.
	SetMemberStatus(ctx context.Context, memberID string, status models.MemberStatus) error

	// GetDay reads the day's cost row and all tracking records of the date in one
	// transaction. A date without a cost row comes back with Cost.Version == 0.
	GetDay(ctx context.Context, date time.Time) (*models.DayLedger, error)

	// MutateDay loads the day inside one immediate transaction, hands it to fn,
	// then writes the cost row and every record back and bumps the version.
	// Any error, from fn or from a write, rolls the whole day back.
	MutateDay(ctx context.Context, date time.Time, fn DayMutator) (*models.DayLedger, error)

	// ListDailyCosts returns the cost rows of every date in the window ordered by date.
	ListDailyCosts(ctx context.Context, window models.Window) ([]models.DailyMealCost, error)

	// ListTracking returns tracking records matching the filter ordered by date then member.
	ListTracking(ctx context.Context, filter TrackingFilter) ([]models.MemberMealTracking, error)

	// CreateDeposit persists a new deposit. ID and CreatedAt are populated when empty.
	// Returns a ConflictError if the deposit's month is a closed billing month.
	CreateDeposit(ctx context.Context, deposit *models.MonthlyDeposit) error

	// SetDepositStatus changes a deposit's status and returns the updated deposit.
	// Returns a ConflictError if the deposit's month is a closed billing month.
	SetDepositStatus(ctx context.Context, depositID string, status models.DepositStatus) (*models.MonthlyDeposit, error)

	// ListDeposits returns deposits matching the filter ordered by month.
	ListDeposits(ctx context.Context, filter DepositFilter) ([]models.MonthlyDeposit, error)

	// GetSnapshot returns the snapshot for (member, month), or a NotFoundError.
	GetSnapshot(ctx context.Context, memberID string, month models.Month) (*models.BillingSnapshot, error)

	// UpsertSnapshot inserts or overwrites the snapshot for (member, month) and
	// sets snapshot.ID to the ID of the stored row.
	UpsertSnapshot(ctx context.Context, snapshot *models.BillingSnapshot) error

	// DeleteSnapshot removes the snapshot for (member, month) if there is one.
	DeleteSnapshot(ctx context.Context, memberID string, month models.Month) error

	// ListSnapshots returns all snapshots of a month.
	ListSnapshots(ctx context.Context, month models.Month) ([]models.BillingSnapshot, error)

	// GetBillingMonth returns the billing month record, or a NotFoundError if the
	// month was never processed.
	GetBillingMonth(ctx context.Context, month models.Month) (*models.BillingMonth, error)

	// SetBillingMonth inserts or updates a billing month record.
	SetBillingMonth(ctx context.Context, bm *models.BillingMonth) error

	// Close releases any resources held by the store.
	Close() error
}
