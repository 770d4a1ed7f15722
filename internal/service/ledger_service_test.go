package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/mealledger/internal/auth"
	"github.com/mmynk/mealledger/internal/ledger"
	"github.com/mmynk/mealledger/internal/middleware"
	"github.com/mmynk/mealledger/internal/models"
	"github.com/mmynk/mealledger/internal/storage/sqlite"
	"github.com/mmynk/mealledger/pkg/api"
	"github.com/mmynk/mealledger/pkg/api/apiconnect"
)

// setupTestServer creates a test server with the LedgerService and n members.
func setupTestServer(t *testing.T, n int, opts ...connect.HandlerOption) (apiconnect.LedgerServiceClient, func()) {
	t.Helper()

	// Create temp database
	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	for i := 1; i <= n; i++ {
		m := &models.Member{
			ID:   fmt.Sprintf("member-%02d", i),
			Name: fmt.Sprintf("Member %02d", i),
			Type: models.MemberTypeEmployee,
		}
		if err := store.CreateMember(context.Background(), m); err != nil {
			t.Fatalf("CreateMember failed: %v", err)
		}
	}

	svc := NewLedgerService(ledger.New(store))
	path, handler := apiconnect.NewLedgerServiceHandler(svc, opts...)

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)

	client := apiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL)

	cleanup := func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	}

	return client, cleanup
}

func memberID(i int) string {
	return fmt.Sprintf("member-%02d", i)
}

func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("expected %v, got %v (%v)", want, got, err)
	}
}

func TestSetDailyCostAndUpsert(t *testing.T) {
	client, cleanup := setupTestServer(t, 8)
	defer cleanup()
	ctx := context.Background()

	costResp, err := client.SetDailyCost(ctx, connect.NewRequest(&api.SetDailyCostRequest{
		Date:      "2024-03-04",
		LunchCost: "150.00",
	}))
	if err != nil {
		t.Fatalf("SetDailyCost failed: %v", err)
	}
	if costResp.Msg.DailyCost.Version != 1 {
		t.Errorf("version: expected 1, got %d", costResp.Msg.DailyCost.Version)
	}

	for i := 1; i <= 8; i++ {
		_, err := client.UpsertTracking(ctx, connect.NewRequest(&api.UpsertTrackingRequest{
			Date:          "2024-03-04",
			TrackingEntry: api.TrackingEntry{MemberID: memberID(i), LunchCount: 1},
		}))
		if err != nil {
			t.Fatalf("UpsertTracking %d failed: %v", i, err)
		}
	}

	getResp, err := client.GetTrackingByDate(ctx, connect.NewRequest(&api.GetTrackingByDateRequest{Date: "2024-03-04"}))
	if err != nil {
		t.Fatalf("GetTrackingByDate failed: %v", err)
	}
	if getResp.Msg.DailyCost == nil {
		t.Fatal("expected daily cost in response")
	}
	if getResp.Msg.DailyCost.LunchParticipants != 8 {
		t.Errorf("lunch participants: expected 8, got %d", getResp.Msg.DailyCost.LunchParticipants)
	}
	if getResp.Msg.DailyCost.LunchCostPerUnit != "18.75" {
		t.Errorf("per unit: expected 18.75, got %s", getResp.Msg.DailyCost.LunchCostPerUnit)
	}
	if getResp.Msg.DailyCost.Version != 9 {
		t.Errorf("version: expected 9, got %d", getResp.Msg.DailyCost.Version)
	}
	if len(getResp.Msg.Records) != 8 {
		t.Fatalf("records: expected 8, got %d", len(getResp.Msg.Records))
	}
	for _, r := range getResp.Msg.Records {
		if r.TotalCost != "18.75" {
			t.Errorf("%s total: expected 18.75, got %s", r.MemberID, r.TotalCost)
		}
	}
}

func TestBulkUpsertTracking(t *testing.T) {
	client, cleanup := setupTestServer(t, 5)
	defer cleanup()
	ctx := context.Background()

	_, err := client.SetDailyCost(ctx, connect.NewRequest(&api.SetDailyCostRequest{
		Date:       "2024-03-05",
		DinnerCost: "120",
	}))
	if err != nil {
		t.Fatalf("SetDailyCost failed: %v", err)
	}

	counts := []int{0, 1, 2, 1, 2}
	entries := make([]api.TrackingEntry, len(counts))
	for i, c := range counts {
		entries[i] = api.TrackingEntry{MemberID: memberID(i + 1), DinnerCount: c}
	}

	resp, err := client.BulkUpsertTracking(ctx, connect.NewRequest(&api.BulkUpsertTrackingRequest{
		Date:            "2024-03-05",
		Entries:         entries,
		ExpectedVersion: 1,
	}))
	if err != nil {
		t.Fatalf("BulkUpsertTracking failed: %v", err)
	}

	if resp.Msg.DailyCost.DinnerParticipants != 6 {
		t.Errorf("dinner participants: expected 6, got %d", resp.Msg.DailyCost.DinnerParticipants)
	}
	if resp.Msg.DailyCost.DinnerCostPerUnit != "20.00" {
		t.Errorf("per unit: expected 20.00, got %s", resp.Msg.DailyCost.DinnerCostPerUnit)
	}

	want := map[string]string{
		memberID(1): "0.00",
		memberID(2): "20.00",
		memberID(3): "40.00",
		memberID(4): "20.00",
		memberID(5): "40.00",
	}
	for _, r := range resp.Msg.Records {
		if r.DinnerCost != want[r.MemberID] {
			t.Errorf("%s dinner: expected %s, got %s", r.MemberID, want[r.MemberID], r.DinnerCost)
		}
	}
}

func TestBulkUpsertTracking_Atomic(t *testing.T) {
	client, cleanup := setupTestServer(t, 2)
	defer cleanup()
	ctx := context.Background()

	_, err := client.BulkUpsertTracking(ctx, connect.NewRequest(&api.BulkUpsertTrackingRequest{
		Date: "2024-03-06",
		Entries: []api.TrackingEntry{
			{MemberID: memberID(1), LunchCount: 1},
			{MemberID: "nonexistent-id", LunchCount: 1},
		},
	}))
	expectCode(t, err, connect.CodeNotFound)

	resp, err := client.GetTrackingByDate(ctx, connect.NewRequest(&api.GetTrackingByDateRequest{Date: "2024-03-06"}))
	if err != nil {
		t.Fatalf("GetTrackingByDate failed: %v", err)
	}
	if resp.Msg.DailyCost != nil || len(resp.Msg.Records) != 0 {
		t.Errorf("expected nothing stored, got cost %v and %d records", resp.Msg.DailyCost, len(resp.Msg.Records))
	}
}

func TestUpsertTracking_Errors(t *testing.T) {
	client, cleanup := setupTestServer(t, 1)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		name string
		req  *api.UpsertTrackingRequest
		want connect.Code
	}{
		{
			name: "count above two",
			req:  &api.UpsertTrackingRequest{Date: "2024-03-04", TrackingEntry: api.TrackingEntry{MemberID: memberID(1), LunchCount: 3}},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "negative count",
			req:  &api.UpsertTrackingRequest{Date: "2024-03-04", TrackingEntry: api.TrackingEntry{MemberID: memberID(1), DinnerCount: -1}},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "bad date",
			req:  &api.UpsertTrackingRequest{Date: "04/03/2024", TrackingEntry: api.TrackingEntry{MemberID: memberID(1)}},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "unknown member",
			req:  &api.UpsertTrackingRequest{Date: "2024-03-04", TrackingEntry: api.TrackingEntry{MemberID: "nonexistent-id", LunchCount: 1}},
			want: connect.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.UpsertTracking(ctx, connect.NewRequest(tt.req))
			expectCode(t, err, tt.want)
		})
	}
}

func TestSetDailyCost_Errors(t *testing.T) {
	client, cleanup := setupTestServer(t, 1)
	defer cleanup()
	ctx := context.Background()

	_, err := client.SetDailyCost(ctx, connect.NewRequest(&api.SetDailyCostRequest{Date: "2024-03-04", LunchCost: "10"}))
	if err != nil {
		t.Fatalf("SetDailyCost failed: %v", err)
	}
	_, err = client.UpsertTracking(ctx, connect.NewRequest(&api.UpsertTrackingRequest{
		Date:            "2024-03-04",
		TrackingEntry:   api.TrackingEntry{MemberID: memberID(1), LunchCount: 1},
		ExpectedVersion: 1,
	}))
	if err != nil {
		t.Fatalf("UpsertTracking failed: %v", err)
	}

	tests := []struct {
		name string
		req  *api.SetDailyCostRequest
		want connect.Code
	}{
		{"stale version", &api.SetDailyCostRequest{Date: "2024-03-04", LunchCost: "20", ExpectedVersion: 1}, connect.CodeAborted},
		{"negative cost", &api.SetDailyCostRequest{Date: "2024-03-04", LunchCost: "-5"}, connect.CodeInvalidArgument},
		{"sub-cent cost", &api.SetDailyCostRequest{Date: "2024-03-04", DinnerCost: "1.005"}, connect.CodeInvalidArgument},
		{"not a number", &api.SetDailyCostRequest{Date: "2024-03-04", LunchCost: "ten"}, connect.CodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.SetDailyCost(ctx, connect.NewRequest(tt.req))
			expectCode(t, err, tt.want)
		})
	}

	costResp, err := client.GetDailyCost(ctx, connect.NewRequest(&api.GetDailyCostRequest{Date: "2024-03-04"}))
	if err != nil {
		t.Fatalf("GetDailyCost failed: %v", err)
	}
	if costResp.Msg.DailyCost.LunchCost != "10.00" || costResp.Msg.DailyCost.Version != 2 {
		t.Errorf("expected untouched cost 10.00 at version 2, got %s at %d",
			costResp.Msg.DailyCost.LunchCost, costResp.Msg.DailyCost.Version)
	}
}

func TestGetDailyCost_NotFound(t *testing.T) {
	client, cleanup := setupTestServer(t, 0)
	defer cleanup()

	_, err := client.GetDailyCost(context.Background(), connect.NewRequest(&api.GetDailyCostRequest{Date: "2024-03-04"}))
	expectCode(t, err, connect.CodeNotFound)
}

// seedMonth posts 50.00 of lunch for member 1 on 2024-03-04 and a received
// deposit of 500.00 for March.
func seedMonth(t *testing.T, client apiconnect.LedgerServiceClient) {
	t.Helper()
	ctx := context.Background()

	if _, err := client.SetDailyCost(ctx, connect.NewRequest(&api.SetDailyCostRequest{
		Date:      "2024-03-04",
		LunchCost: "50",
	})); err != nil {
		t.Fatalf("SetDailyCost failed: %v", err)
	}
	if _, err := client.UpsertTracking(ctx, connect.NewRequest(&api.UpsertTrackingRequest{
		Date:          "2024-03-04",
		TrackingEntry: api.TrackingEntry{MemberID: memberID(1), LunchCount: 1},
	})); err != nil {
		t.Fatalf("UpsertTracking failed: %v", err)
	}
	if _, err := client.RecordDeposit(ctx, connect.NewRequest(&api.RecordDepositRequest{
		MemberID: memberID(1),
		Month:    "2024-03",
		Amount:   "500",
		Status:   "received",
	})); err != nil {
		t.Fatalf("RecordDeposit failed: %v", err)
	}
}

func TestGetBalance(t *testing.T) {
	client, cleanup := setupTestServer(t, 2)
	defer cleanup()
	ctx := context.Background()
	seedMonth(t, client)

	resp, err := client.GetBalance(ctx, connect.NewRequest(&api.GetBalanceRequest{MemberID: memberID(1)}))
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if resp.Msg.Balance.CurrentBalance != "450.00" {
		t.Errorf("balance: expected 450.00, got %s", resp.Msg.Balance.CurrentBalance)
	}
	if resp.Msg.Balance.ConsumedAmount != "50.00" {
		t.Errorf("consumed: expected 50.00, got %s", resp.Msg.Balance.ConsumedAmount)
	}

	// A window before any activity sees nothing.
	resp, err = client.GetBalance(ctx, connect.NewRequest(&api.GetBalanceRequest{
		MemberID: memberID(1),
		From:     "2024-01-01",
		To:       "2024-01-31",
	}))
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if resp.Msg.Balance.CurrentBalance != "0.00" {
		t.Errorf("january balance: expected 0.00, got %s", resp.Msg.Balance.CurrentBalance)
	}

	_, err = client.GetBalance(ctx, connect.NewRequest(&api.GetBalanceRequest{
		MemberID: memberID(1),
		From:     "2024-03-31",
		To:       "2024-03-01",
	}))
	expectCode(t, err, connect.CodeInvalidArgument)

	_, err = client.GetBalance(ctx, connect.NewRequest(&api.GetBalanceRequest{MemberID: "nonexistent-id"}))
	expectCode(t, err, connect.CodeNotFound)
}

func TestProcessBillingMonth(t *testing.T) {
	client, cleanup := setupTestServer(t, 2)
	defer cleanup()
	ctx := context.Background()
	seedMonth(t, client)

	resp, err := client.ProcessBillingMonth(ctx, connect.NewRequest(&api.ProcessBillingMonthRequest{Month: "2024-03"}))
	if err != nil {
		t.Fatalf("ProcessBillingMonth failed: %v", err)
	}
	if len(resp.Msg.FailedMemberIDs) != 0 {
		t.Errorf("expected no failures, got %v", resp.Msg.FailedMemberIDs)
	}
	if len(resp.Msg.Snapshots) != 2 {
		t.Fatalf("snapshots: expected 2, got %d", len(resp.Msg.Snapshots))
	}
	first := resp.Msg.Snapshots[0]
	if first.MemberID != memberID(1) || first.ClosingBalance != "450.00" || first.PaymentStatus != "paid" {
		t.Errorf("unexpected snapshot for member 1: %+v", first)
	}

	// The closed month rejects edits until reopened.
	_, err = client.SetDailyCost(ctx, connect.NewRequest(&api.SetDailyCostRequest{Date: "2024-03-04", LunchCost: "60"}))
	expectCode(t, err, connect.CodeAborted)
	_, err = client.RecordDeposit(ctx, connect.NewRequest(&api.RecordDepositRequest{MemberID: memberID(2), Month: "2024-03", Amount: "100"}))
	expectCode(t, err, connect.CodeAborted)

	snapResp, err := client.GetBillingSnapshots(ctx, connect.NewRequest(&api.GetBillingSnapshotsRequest{Month: "2024-03"}))
	if err != nil {
		t.Fatalf("GetBillingSnapshots failed: %v", err)
	}
	if snapResp.Msg.BillingMonth == nil || snapResp.Msg.BillingMonth.Status != "closed" {
		t.Errorf("expected closed billing month, got %+v", snapResp.Msg.BillingMonth)
	}

	reopenResp, err := client.ReopenBillingMonth(ctx, connect.NewRequest(&api.ReopenBillingMonthRequest{Month: "2024-03"}))
	if err != nil {
		t.Fatalf("ReopenBillingMonth failed: %v", err)
	}
	if reopenResp.Msg.BillingMonth.Status != "open" {
		t.Errorf("status: expected open, got %s", reopenResp.Msg.BillingMonth.Status)
	}

	if _, err := client.SetDailyCost(ctx, connect.NewRequest(&api.SetDailyCostRequest{Date: "2024-03-04", LunchCost: "60"})); err != nil {
		t.Fatalf("SetDailyCost after reopen failed: %v", err)
	}

	// Reprocessing keeps the stored snapshot IDs.
	again, err := client.ProcessBillingMonth(ctx, connect.NewRequest(&api.ProcessBillingMonthRequest{Month: "2024-03"}))
	if err != nil {
		t.Fatalf("reprocess failed: %v", err)
	}
	stored, err := client.GetBillingSnapshots(ctx, connect.NewRequest(&api.GetBillingSnapshotsRequest{Month: "2024-03"}))
	if err != nil {
		t.Fatalf("GetBillingSnapshots failed: %v", err)
	}
	if len(again.Msg.Snapshots) != len(stored.Msg.Snapshots) {
		t.Fatalf("snapshots: reprocess returned %d, stored %d", len(again.Msg.Snapshots), len(stored.Msg.Snapshots))
	}
	for i, snap := range again.Msg.Snapshots {
		if snap.ID != stored.Msg.Snapshots[i].ID || snap.ID != resp.Msg.Snapshots[i].ID {
			t.Errorf("snapshot %d ID: reprocess %s, stored %s, first run %s", i, snap.ID, stored.Msg.Snapshots[i].ID, resp.Msg.Snapshots[i].ID)
		}
	}
	if again.Msg.Snapshots[0].TotalConsumption != "60.00" {
		t.Errorf("consumption after edit: expected 60.00, got %s", again.Msg.Snapshots[0].TotalConsumption)
	}
}

func TestBillingMonth_Errors(t *testing.T) {
	client, cleanup := setupTestServer(t, 0)
	defer cleanup()
	ctx := context.Background()

	_, err := client.ProcessBillingMonth(ctx, connect.NewRequest(&api.ProcessBillingMonthRequest{Month: "2024-13"}))
	expectCode(t, err, connect.CodeInvalidArgument)

	_, err = client.ReopenBillingMonth(ctx, connect.NewRequest(&api.ReopenBillingMonthRequest{Month: "2024-02"}))
	expectCode(t, err, connect.CodeNotFound)

	resp, err := client.GetBillingSnapshots(ctx, connect.NewRequest(&api.GetBillingSnapshotsRequest{Month: "2024-02"}))
	if err != nil {
		t.Fatalf("GetBillingSnapshots failed: %v", err)
	}
	if resp.Msg.BillingMonth != nil || len(resp.Msg.Snapshots) != 0 {
		t.Errorf("expected empty unprocessed month, got %+v", resp.Msg)
	}
}

func TestDeposits(t *testing.T) {
	client, cleanup := setupTestServer(t, 1)
	defer cleanup()
	ctx := context.Background()

	resp, err := client.RecordDeposit(ctx, connect.NewRequest(&api.RecordDepositRequest{
		MemberID: memberID(1),
		Month:    "2024-03",
		Amount:   "250.50",
		Notes:    "cash",
	}))
	if err != nil {
		t.Fatalf("RecordDeposit failed: %v", err)
	}
	if resp.Msg.Deposit.ID == "" {
		t.Error("expected non-empty deposit ID")
	}
	if resp.Msg.Deposit.Status != "pending" {
		t.Errorf("status: expected pending, got %s", resp.Msg.Deposit.Status)
	}

	// Pending deposits do not move the balance.
	bal, err := client.GetBalance(ctx, connect.NewRequest(&api.GetBalanceRequest{MemberID: memberID(1)}))
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if bal.Msg.Balance.CurrentBalance != "0.00" || bal.Msg.Balance.PendingAmount != "250.50" {
		t.Errorf("unexpected balance %+v", bal.Msg.Balance)
	}

	statusResp, err := client.SetDepositStatus(ctx, connect.NewRequest(&api.SetDepositStatusRequest{
		DepositID: resp.Msg.Deposit.ID,
		Status:    "received",
	}))
	if err != nil {
		t.Fatalf("SetDepositStatus failed: %v", err)
	}
	if statusResp.Msg.Deposit.Status != "received" {
		t.Errorf("status: expected received, got %s", statusResp.Msg.Deposit.Status)
	}

	bal, err = client.GetBalance(ctx, connect.NewRequest(&api.GetBalanceRequest{MemberID: memberID(1)}))
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if bal.Msg.Balance.CurrentBalance != "250.50" {
		t.Errorf("balance: expected 250.50, got %s", bal.Msg.Balance.CurrentBalance)
	}

	_, err = client.RecordDeposit(ctx, connect.NewRequest(&api.RecordDepositRequest{MemberID: memberID(1), Month: "2024-03", Amount: "0"}))
	expectCode(t, err, connect.CodeInvalidArgument)

	_, err = client.SetDepositStatus(ctx, connect.NewRequest(&api.SetDepositStatusRequest{DepositID: resp.Msg.Deposit.ID, Status: "lost"}))
	expectCode(t, err, connect.CodeInvalidArgument)

	_, err = client.SetDepositStatus(ctx, connect.NewRequest(&api.SetDepositStatusRequest{DepositID: "nonexistent-id", Status: "received"}))
	expectCode(t, err, connect.CodeNotFound)
}

func TestSettleDate(t *testing.T) {
	client, cleanup := setupTestServer(t, 2)
	defer cleanup()
	ctx := context.Background()

	if _, err := client.RecordDeposit(ctx, connect.NewRequest(&api.RecordDepositRequest{
		MemberID: memberID(1), Month: "2024-03", Amount: "100", Status: "received",
	})); err != nil {
		t.Fatalf("RecordDeposit failed: %v", err)
	}
	if _, err := client.SetDailyCost(ctx, connect.NewRequest(&api.SetDailyCostRequest{Date: "2024-03-05", LunchCost: "60"})); err != nil {
		t.Fatalf("SetDailyCost failed: %v", err)
	}
	if _, err := client.BulkUpsertTracking(ctx, connect.NewRequest(&api.BulkUpsertTrackingRequest{
		Date: "2024-03-05",
		Entries: []api.TrackingEntry{
			{MemberID: memberID(1), LunchCount: 1},
			{MemberID: memberID(2), LunchCount: 1},
		},
	})); err != nil {
		t.Fatalf("BulkUpsertTracking failed: %v", err)
	}

	resp, err := client.SettleDate(ctx, connect.NewRequest(&api.SettleDateRequest{Date: "2024-03-05"}))
	if err != nil {
		t.Fatalf("SettleDate failed: %v", err)
	}
	if resp.Msg.Processed != 1 || resp.Msg.Total != 2 {
		t.Errorf("expected 1 of 2 settled, got %d of %d", resp.Msg.Processed, resp.Msg.Total)
	}

	day, err := client.GetTrackingByDate(ctx, connect.NewRequest(&api.GetTrackingByDateRequest{Date: "2024-03-05"}))
	if err != nil {
		t.Fatalf("GetTrackingByDate failed: %v", err)
	}
	for _, r := range day.Msg.Records {
		wantPaid := r.MemberID == memberID(1)
		if r.Paid != wantPaid {
			t.Errorf("%s paid: expected %v, got %v", r.MemberID, wantPaid, r.Paid)
		}
	}

	_, err = client.SettleDate(ctx, connect.NewRequest(&api.SettleDateRequest{Date: "2024-03-09"}))
	expectCode(t, err, connect.CodeNotFound)
}

func TestGetMonthSummary(t *testing.T) {
	client, cleanup := setupTestServer(t, 3)
	defer cleanup()
	seedMonth(t, client)

	resp, err := client.GetMonthSummary(context.Background(), connect.NewRequest(&api.GetMonthSummaryRequest{Month: "2024-03"}))
	if err != nil {
		t.Fatalf("GetMonthSummary failed: %v", err)
	}
	s := resp.Msg.Summary
	if s.ActiveMembers != 3 || s.ParticipatingMembers != 1 {
		t.Errorf("members: expected 3 active and 1 participating, got %d and %d", s.ActiveMembers, s.ParticipatingMembers)
	}
	if s.TotalSpent != "50.00" || s.AverageCostPerMember != "50.00" {
		t.Errorf("costs: expected 50.00 spent and 50.00 average, got %s and %s", s.TotalSpent, s.AverageCostPerMember)
	}
	if s.DepositsReceived != "500.00" {
		t.Errorf("deposits: expected 500.00, got %s", s.DepositsReceived)
	}
	if s.ParticipationRate != "0.3333" {
		t.Errorf("participation rate: expected 0.3333, got %s", s.ParticipationRate)
	}
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret-key-for-ledger", time.Hour)
	client, cleanup := setupTestServer(t, 1, connect.WithInterceptors(
		middleware.RequireAuth(jwtManager),
		middleware.LoggingInterceptor(),
	))
	defer cleanup()
	ctx := context.Background()

	_, err := client.SetDailyCost(ctx, connect.NewRequest(&api.SetDailyCostRequest{Date: "2024-03-04", LunchCost: "10"}))
	expectCode(t, err, connect.CodeUnauthenticated)

	token, err := jwtManager.Generate("admin-7")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	req := connect.NewRequest(&api.SetDailyCostRequest{Date: "2024-03-04", LunchCost: "10"})
	req.Header().Set("Authorization", "Bearer "+token)

	resp, err := client.SetDailyCost(ctx, req)
	if err != nil {
		t.Fatalf("SetDailyCost failed: %v", err)
	}
	if resp.Msg.DailyCost.UpdatedBy != "admin-7" {
		t.Errorf("updated by: expected admin-7, got %q", resp.Msg.DailyCost.UpdatedBy)
	}
}
