package ledger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/mealledger/internal/events"
	"github.com/mmynk/mealledger/internal/models"
	"github.com/mmynk/mealledger/internal/storage"
	"github.com/mmynk/mealledger/internal/storage/sqlite"
)

var fixedNow = time.Date(2024, 3, 31, 18, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestLedger(t *testing.T, opts ...Option) (*Ledger, *sqlite.SQLiteStore) {
	t.Helper()
	store := newTestStore(t)
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(store, opts...), store
}

func addMembers(t *testing.T, store storage.Store, n int) []*models.Member {
	t.Helper()
	members := make([]*models.Member, n)
	for i := range members {
		m := &models.Member{
			// Zero-padded so ID order and name order agree in assertions.
			ID:   fmt.Sprintf("member-%02d", i+1),
			Name: fmt.Sprintf("Member %02d", i+1),
			Type: models.MemberTypeEmployee,
		}
		if err := store.CreateMember(context.Background(), m); err != nil {
			t.Fatalf("CreateMember failed: %v", err)
		}
		members[i] = m
	}
	return members
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func march() models.Month {
	return models.Month{Year: 2024, Month: time.March}
}

func setCost(t *testing.T, l *Ledger, day time.Time, lunch, dinner string) *models.DayLedger {
	t.Helper()
	got, err := l.SetDailyCost(context.Background(), SetDailyCostInput{Date: day, LunchCost: dec(lunch), DinnerCost: dec(dinner)})
	if err != nil {
		t.Fatalf("SetDailyCost failed: %v", err)
	}
	return got
}

func deposit(t *testing.T, l *Ledger, memberID string, month models.Month, amount string, status models.DepositStatus) *models.MonthlyDeposit {
	t.Helper()
	d, err := l.RecordDeposit(context.Background(), RecordDepositInput{MemberID: memberID, Month: month, Amount: dec(amount), Status: status})
	if err != nil {
		t.Fatalf("RecordDeposit failed: %v", err)
	}
	return d
}

func sumShares(records []models.MemberMealTracking) (lunch, dinner decimal.Decimal) {
	for _, r := range records {
		lunch = lunch.Add(r.LunchCost)
		dinner = dinner.Add(r.DinnerCost)
	}
	return lunch, dinner
}

// recordingPublisher keeps every published message.
type recordingPublisher struct {
	mu   sync.Mutex
	msgs []events.Message
}

func (p *recordingPublisher) Publish(_ context.Context, msg events.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, len(p.msgs))
	for i, m := range p.msgs {
		keys[i] = m.RoutingKey()
	}
	return keys
}

// faultyStore injects failures into a real store.
type faultyStore struct {
	storage.Store

	// failSnapshotFor makes UpsertSnapshot fail for these member IDs.
	failSnapshotFor map[string]bool

	// poisonDay appends a record for an unknown member to every mutated day,
	// so the final write violates a foreign key.
	poisonDay bool

	// failListTracking makes ListTracking fail.
	failListTracking bool
}

func (f *faultyStore) ListTracking(ctx context.Context, filter storage.TrackingFilter) ([]models.MemberMealTracking, error) {
	if f.failListTracking {
		return nil, errors.New("database is locked")
	}
	return f.Store.ListTracking(ctx, filter)
}

func (f *faultyStore) UpsertSnapshot(ctx context.Context, snap *models.BillingSnapshot) error {
	if f.failSnapshotFor[snap.MemberID] {
		return fmt.Errorf("disk full writing snapshot for %s", snap.MemberID)
	}
	return f.Store.UpsertSnapshot(ctx, snap)
}

func (f *faultyStore) MutateDay(ctx context.Context, d time.Time, fn storage.DayMutator) (*models.DayLedger, error) {
	if !f.poisonDay {
		return f.Store.MutateDay(ctx, d, fn)
	}
	return f.Store.MutateDay(ctx, d, func(day *models.DayLedger) error {
		if err := fn(day); err != nil {
			return err
		}
		day.Records = append(day.Records, models.MemberMealTracking{MemberID: "ghost"})
		return nil
	})
}

// closeHookStore runs callbacks around the first write that closes a billing
// month, the point where a billing run starts reading source rows.
type closeHookStore struct {
	storage.Store

	beforeClose func(ctx context.Context)
	afterClose  func(ctx context.Context)
	fired       bool
}

func (h *closeHookStore) SetBillingMonth(ctx context.Context, bm *models.BillingMonth) error {
	if bm.Status != models.BillingMonthClosed || h.fired {
		return h.Store.SetBillingMonth(ctx, bm)
	}
	h.fired = true
	if h.beforeClose != nil {
		h.beforeClose(ctx)
	}
	if err := h.Store.SetBillingMonth(ctx, bm); err != nil {
		return err
	}
	if h.afterClose != nil {
		h.afterClose(ctx)
	}
	return nil
}
