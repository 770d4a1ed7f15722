package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/mealledger/internal/models"
	"github.com/mmynk/mealledger/internal/storage"
)

func TestProcessMonth(t *testing.T) {
	l, store := newTestLedger(t, WithBillingWorkers(2))
	ctx := context.Background()
	members := addMembers(t, store, 4)
	saver, spender, idle, leaver := members[0].ID, members[1].ID, members[2].ID, members[3].ID

	// saver: deposit 500, costs 50. spender: deposit 100, costs 150.
	deposit(t, l, saver, march(), "500", models.DepositReceived)
	deposit(t, l, spender, march(), "100", models.DepositReceived)
	deposit(t, l, spender, march(), "900", models.DepositPending)

	setCost(t, l, date(t, "2024-03-04"), "100", "0")
	if _, err := l.BulkUpsert(ctx, BulkUpsertInput{Date: date(t, "2024-03-04"), Entries: []TrackingEntry{
		{MemberID: saver, LunchCount: 1},
		{MemberID: spender, LunchCount: 1},
	}}); err != nil {
		t.Fatalf("BulkUpsert failed: %v", err)
	}
	setCost(t, l, date(t, "2024-03-05"), "0", "100")
	if _, _, err := l.Upsert(ctx, UpsertInput{Date: date(t, "2024-03-05"), TrackingEntry: TrackingEntry{MemberID: spender, DinnerCount: 1}}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	// The leaver ate in March and left before billing; they still get a snapshot.
	setCost(t, l, date(t, "2024-03-06"), "0", "0")
	if _, _, err := l.Upsert(ctx, UpsertInput{Date: date(t, "2024-03-06"), TrackingEntry: TrackingEntry{MemberID: leaver, LunchCount: 1}}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := store.SetMemberStatus(ctx, leaver, models.MemberStatusInactive); err != nil {
		t.Fatalf("SetMemberStatus failed: %v", err)
	}
	// An inactive member with no activity is skipped.
	ghost := &models.Member{ID: "member-99", Name: "Gone", Type: models.MemberTypeGuest, Status: models.MemberStatusInactive}
	if err := store.CreateMember(ctx, ghost); err != nil {
		t.Fatalf("CreateMember failed: %v", err)
	}

	result, err := l.ProcessMonth(ctx, march())
	if err != nil {
		t.Fatalf("ProcessMonth failed: %v", err)
	}
	if len(result.Snapshots) != 4 {
		t.Fatalf("Expected 4 snapshots, got %d", len(result.Snapshots))
	}
	if len(result.FailedMemberIDs) != 0 {
		t.Errorf("Unexpected failures: %v", result.FailedMemberIDs)
	}

	byMember := make(map[string]models.BillingSnapshot)
	for _, s := range result.Snapshots {
		byMember[s.MemberID] = s
	}

	tests := []struct {
		memberID    string
		deposit     string
		consumption string
		closing     string
		due         string
		status      models.PaymentStatus
	}{
		{saver, "500", "50", "450", "0", models.PaymentPaid},
		{spender, "100", "150", "-50", "50", models.PaymentPending},
		{idle, "0", "0", "0", "0", models.PaymentPaid},
		{leaver, "0", "0", "0", "0", models.PaymentPaid},
	}
	for _, tt := range tests {
		s, ok := byMember[tt.memberID]
		if !ok {
			t.Errorf("no snapshot for %s", tt.memberID)
			continue
		}
		if !s.OpeningBalance.IsZero() {
			t.Errorf("%s opening = %s, want 0", tt.memberID, s.OpeningBalance)
		}
		if !s.MonthlyDeposit.Equal(dec(tt.deposit)) {
			t.Errorf("%s deposit = %s, want %s", tt.memberID, s.MonthlyDeposit, tt.deposit)
		}
		if !s.TotalConsumption.Equal(dec(tt.consumption)) {
			t.Errorf("%s consumption = %s, want %s", tt.memberID, s.TotalConsumption, tt.consumption)
		}
		if !s.ClosingBalance.Equal(dec(tt.closing)) {
			t.Errorf("%s closing = %s, want %s", tt.memberID, s.ClosingBalance, tt.closing)
		}
		if !s.DueAmount.Equal(dec(tt.due)) {
			t.Errorf("%s due = %s, want %s", tt.memberID, s.DueAmount, tt.due)
		}
		if s.PaymentStatus != tt.status || !s.Processed || s.ProcessedAt != fixedNow.Unix() {
			t.Errorf("%s status/processed = %s/%v/%d", tt.memberID, s.PaymentStatus, s.Processed, s.ProcessedAt)
		}
	}

	snaps, bm, err := l.Snapshots(ctx, march())
	if err != nil {
		t.Fatalf("Snapshots failed: %v", err)
	}
	if len(snaps) != 4 || bm == nil || bm.Status != models.BillingMonthClosed {
		t.Errorf("Snapshots = %d rows, month %+v", len(snaps), bm)
	}
}

func TestProcessMonth_IdempotentAndCarriesForward(t *testing.T) {
	l, store := newTestLedger(t)
	ctx := context.Background()
	members := addMembers(t, store, 1)
	m := members[0].ID

	deposit(t, l, m, march(), "500", models.DepositReceived)
	setCost(t, l, date(t, "2024-03-20"), "50", "0")
	if _, _, err := l.Upsert(ctx, UpsertInput{Date: date(t, "2024-03-20"), TrackingEntry: TrackingEntry{MemberID: m, LunchCount: 1}}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	first, err := l.ProcessMonth(ctx, march())
	if err != nil {
		t.Fatalf("ProcessMonth failed: %v", err)
	}
	second, err := l.ProcessMonth(ctx, march())
	if err != nil {
		t.Fatalf("reprocess failed: %v", err)
	}

	a, b := first.Snapshots[0], second.Snapshots[0]
	if !a.ClosingBalance.Equal(dec("450")) {
		t.Errorf("closing = %s, want 450", a.ClosingBalance)
	}
	if !a.ClosingBalance.Equal(b.ClosingBalance) || !a.DueAmount.Equal(b.DueAmount) || a.PaymentStatus != b.PaymentStatus {
		t.Errorf("reprocessing changed the snapshot: %+v vs %+v", a, b)
	}
	snaps, _, _ := l.Snapshots(ctx, march())
	if len(snaps) != 1 {
		t.Fatalf("Expected 1 stored snapshot after reprocessing, got %d", len(snaps))
	}
	if b.ID != a.ID || snaps[0].ID != b.ID {
		t.Errorf("snapshot IDs differ: first %s, second %s, stored %s", a.ID, b.ID, snaps[0].ID)
	}

	// April opens with March's closing balance.
	april := march().Next()
	setCost(t, l, date(t, "2024-04-02"), "0", "600")
	if _, _, err := l.Upsert(ctx, UpsertInput{Date: date(t, "2024-04-02"), TrackingEntry: TrackingEntry{MemberID: m, DinnerCount: 1}}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	res, err := l.ProcessMonth(ctx, april)
	if err != nil {
		t.Fatalf("ProcessMonth(april) failed: %v", err)
	}
	s := res.Snapshots[0]
	if !s.OpeningBalance.Equal(dec("450")) {
		t.Errorf("April opening = %s, want 450", s.OpeningBalance)
	}
	if !s.ClosingBalance.Equal(dec("-150")) || !s.DueAmount.Equal(dec("150")) || s.PaymentStatus != models.PaymentPending {
		t.Errorf("Unexpected April snapshot: %+v", s)
	}
}

func TestProcessMonth_PartialFailure(t *testing.T) {
	store := newTestStore(t)
	members := addMembers(t, store, 3)
	ctx := context.Background()
	broken := members[1].ID

	l := New(&faultyStore{Store: store, failSnapshotFor: map[string]bool{broken: true}})

	result, err := l.ProcessMonth(ctx, march())
	var pbf *models.PartialBatchFailure
	if !errors.As(err, &pbf) {
		t.Fatalf("Expected PartialBatchFailure, got %v", err)
	}
	if ids := pbf.FailedIDs(); len(ids) != 1 || ids[0] != broken {
		t.Errorf("FailedIDs = %v, want [%s]", ids, broken)
	}

	if result == nil {
		t.Fatal("Expected a result alongside the batch error")
	}
	if len(result.Snapshots) != 2 {
		t.Errorf("Expected 2 successful snapshots, got %d", len(result.Snapshots))
	}
	if len(result.FailedMemberIDs) != 1 || result.FailedMemberIDs[0] != broken {
		t.Errorf("FailedMemberIDs = %v", result.FailedMemberIDs)
	}
	if result.Errors[broken] == "" {
		t.Error("Expected an error message for the failed member")
	}

	stored, _ := store.ListSnapshots(ctx, march())
	if len(stored) != 2 {
		t.Errorf("Expected successes to be persisted, got %d rows", len(stored))
	}
}

func TestProcessMonth_RejectsEditsDuringRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	m := addMembers(t, store, 1)[0].ID
	day := date(t, "2024-03-04")

	// A second ledger on the same store plays a concurrent client.
	other := New(store)
	setCost(t, other, day, "100", "0")
	if _, _, err := other.Upsert(ctx, UpsertInput{Date: day, TrackingEntry: TrackingEntry{MemberID: m, LunchCount: 1}}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	var costErr, depositErr error
	hooked := &closeHookStore{Store: store, afterClose: func(ctx context.Context) {
		_, costErr = other.SetDailyCost(ctx, SetDailyCostInput{Date: day, LunchCost: dec("300")})
		_, depositErr = other.RecordDeposit(ctx, RecordDepositInput{MemberID: m, Month: march(), Amount: dec("50"), Status: models.DepositReceived})
	}}
	l := New(hooked, WithClock(func() time.Time { return fixedNow }))

	result, err := l.ProcessMonth(ctx, march())
	if err != nil {
		t.Fatalf("ProcessMonth failed: %v", err)
	}
	if !errors.Is(costErr, models.ErrConflict) {
		t.Errorf("SetDailyCost during billing error = %v, want ErrConflict", costErr)
	}
	if !errors.Is(depositErr, models.ErrConflict) {
		t.Errorf("RecordDeposit during billing error = %v, want ErrConflict", depositErr)
	}

	if len(result.Snapshots) != 1 {
		t.Fatalf("Expected 1 snapshot, got %d", len(result.Snapshots))
	}
	snap := result.Snapshots[0]
	if !snap.TotalConsumption.Equal(dec("100")) || !snap.MonthlyDeposit.IsZero() {
		t.Errorf("snapshot consumption/deposit = %s/%s, want 100/0", snap.TotalConsumption, snap.MonthlyDeposit)
	}

	// The closed month's rows still match its snapshot.
	records, err := store.ListTracking(ctx, storage.TrackingFilter{Window: models.MonthWindow(march())})
	if err != nil {
		t.Fatalf("ListTracking failed: %v", err)
	}
	tracked := decimal.Zero
	for _, r := range records {
		tracked = tracked.Add(r.TotalCost)
	}
	if !tracked.Equal(snap.TotalConsumption) {
		t.Errorf("tracked consumption = %s, snapshot says %s", tracked, snap.TotalConsumption)
	}
}

func TestProcessMonth_SeesEditsCommittedBeforeClose(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	m := addMembers(t, store, 1)[0].ID
	day := date(t, "2024-03-04")

	other := New(store)
	setCost(t, other, day, "100", "0")
	if _, _, err := other.Upsert(ctx, UpsertInput{Date: day, TrackingEntry: TrackingEntry{MemberID: m, LunchCount: 1}}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	var costErr error
	hooked := &closeHookStore{Store: store, beforeClose: func(ctx context.Context) {
		_, costErr = other.SetDailyCost(ctx, SetDailyCostInput{Date: day, LunchCost: dec("300")})
	}}
	l := New(hooked, WithClock(func() time.Time { return fixedNow }))

	result, err := l.ProcessMonth(ctx, march())
	if err != nil {
		t.Fatalf("ProcessMonth failed: %v", err)
	}
	if costErr != nil {
		t.Fatalf("SetDailyCost before close failed: %v", costErr)
	}
	if got := result.Snapshots[0].TotalConsumption; !got.Equal(dec("300")) {
		t.Errorf("snapshot consumption = %s, want 300", got)
	}
}

func TestProcessMonth_RestoresStatusWhenReadsFail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	m := addMembers(t, store, 1)[0].ID
	faulty := &faultyStore{Store: store, failListTracking: true}
	l := New(faulty, WithClock(func() time.Time { return fixedNow }))

	// Never processed: the month ends up open and editable.
	if _, err := l.ProcessMonth(ctx, march()); err == nil {
		t.Fatal("Expected ProcessMonth to fail")
	}
	bm, err := store.GetBillingMonth(ctx, march())
	if err != nil {
		t.Fatalf("GetBillingMonth failed: %v", err)
	}
	if bm.Status != models.BillingMonthOpen {
		t.Errorf("status after failed first run = %s, want open", bm.Status)
	}
	if _, _, err := l.Upsert(ctx, UpsertInput{Date: date(t, "2024-03-04"), TrackingEntry: TrackingEntry{MemberID: m, LunchCount: 1}}); err != nil {
		t.Errorf("Upsert after failed run: %v", err)
	}

	// Previously closed: the earlier record is put back.
	faulty.failListTracking = false
	earlier := fixedNow.Add(-time.Hour).Unix()
	if err := store.SetBillingMonth(ctx, &models.BillingMonth{Month: march(), Status: models.BillingMonthClosed, ProcessedAt: earlier}); err != nil {
		t.Fatalf("SetBillingMonth failed: %v", err)
	}
	faulty.failListTracking = true
	if _, err := l.ProcessMonth(ctx, march()); err == nil {
		t.Fatal("Expected ProcessMonth to fail")
	}
	bm, err = store.GetBillingMonth(ctx, march())
	if err != nil {
		t.Fatalf("GetBillingMonth failed: %v", err)
	}
	if bm.Status != models.BillingMonthClosed || bm.ProcessedAt != earlier {
		t.Errorf("billing month after failed rerun = %+v, want closed at %d", bm, earlier)
	}
}

func TestProcessMonth_RemovesSnapshotsOfUnbilledMembers(t *testing.T) {
	l, store := newTestLedger(t)
	ctx := context.Background()
	members := addMembers(t, store, 2)

	if _, err := l.ProcessMonth(ctx, march()); err != nil {
		t.Fatalf("ProcessMonth failed: %v", err)
	}
	if err := store.SetMemberStatus(ctx, members[1].ID, models.MemberStatusInactive); err != nil {
		t.Fatalf("SetMemberStatus failed: %v", err)
	}

	result, err := l.ProcessMonth(ctx, march())
	if err != nil {
		t.Fatalf("reprocess failed: %v", err)
	}
	if len(result.Snapshots) != 1 || result.Snapshots[0].MemberID != members[0].ID {
		t.Errorf("Unexpected snapshots: %+v", result.Snapshots)
	}
	stored, err := store.ListSnapshots(ctx, march())
	if err != nil {
		t.Fatalf("ListSnapshots failed: %v", err)
	}
	if len(stored) != 1 || stored[0].MemberID != members[0].ID {
		t.Errorf("Expected only %s to keep a snapshot, got %+v", members[0].ID, stored)
	}
}

func TestReopenMonth(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.ReopenMonth(ctx, march()); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("reopening an unprocessed month error = %v, want ErrNotFound", err)
	}
	if _, err := l.ProcessMonth(ctx, march()); err != nil {
		t.Fatalf("ProcessMonth failed: %v", err)
	}
	bm, err := l.ReopenMonth(ctx, march())
	if err != nil {
		t.Fatalf("ReopenMonth failed: %v", err)
	}
	if bm.Status != models.BillingMonthOpen || bm.ProcessedAt != fixedNow.Unix() {
		t.Errorf("Unexpected billing month: %+v", bm)
	}
	if _, err := l.ProcessMonth(ctx, models.Month{}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("zero month error = %v, want ErrValidation", err)
	}
}

func TestKeyedMutex(t *testing.T) {
	k := newKeyedMutex()
	unlockA := k.Lock("a")
	unlockB := k.Lock("b")

	done := make(chan struct{})
	go func() {
		unlock := k.Lock("a")
		unlock()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("second Lock(a) did not block")
	default:
	}
	unlockA()
	<-done
	unlockB()

	if len(k.locks) != 0 {
		t.Errorf("Expected all keys released, %d left", len(k.locks))
	}
}
