// Package service implements the Connect handlers of the meal ledger.
package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/mealledger/internal/ledger"
	"github.com/mmynk/mealledger/internal/middleware"
	"github.com/mmynk/mealledger/internal/models"
	"github.com/mmynk/mealledger/pkg/api"
	"github.com/mmynk/mealledger/pkg/api/apiconnect"
)

// LedgerService implements the Connect LedgerService.
type LedgerService struct {
	apiconnect.UnimplementedLedgerServiceHandler
	ledger *ledger.Ledger
}

// NewLedgerService creates a new LedgerService on top of the given ledger.
func NewLedgerService(l *ledger.Ledger) *LedgerService {
	return &LedgerService{ledger: l}
}

// UpsertTracking sets one member's meal counts for a date and re-prices the date.
func (s *LedgerService) UpsertTracking(ctx context.Context, req *connect.Request[api.UpsertTrackingRequest]) (*connect.Response[api.UpsertTrackingResponse], error) {
	slog.Info("UpsertTracking request received",
		"date", req.Msg.Date,
		"member_id", req.Msg.MemberID,
		"lunch_count", req.Msg.LunchCount,
		"dinner_count", req.Msg.DinnerCount,
	)

	date, err := models.ParseDate(req.Msg.Date)
	if err != nil {
		return nil, toConnectError(err)
	}

	rec, cost, err := s.ledger.Upsert(ctx, ledger.UpsertInput{
		Date: date,
		TrackingEntry: ledger.TrackingEntry{
			MemberID:    req.Msg.MemberID,
			LunchCount:  req.Msg.LunchCount,
			DinnerCount: req.Msg.DinnerCount,
			Notes:       req.Msg.Notes,
		},
		ExpectedVersion: req.Msg.ExpectedVersion,
		UpdatedBy:       middleware.GetAdminID(ctx),
	})
	if err != nil {
		slog.Error("UpsertTracking failed", "date", req.Msg.Date, "member_id", req.Msg.MemberID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.UpsertTrackingResponse{
		Record:    recordToAPI(rec),
		DailyCost: dailyCostToAPI(cost),
	}), nil
}

// BulkUpsertTracking applies many members' counts for one date in a single change.
func (s *LedgerService) BulkUpsertTracking(ctx context.Context, req *connect.Request[api.BulkUpsertTrackingRequest]) (*connect.Response[api.BulkUpsertTrackingResponse], error) {
	slog.Info("BulkUpsertTracking request received",
		"date", req.Msg.Date,
		"entries", len(req.Msg.Entries),
	)

	date, err := models.ParseDate(req.Msg.Date)
	if err != nil {
		return nil, toConnectError(err)
	}

	day, err := s.ledger.BulkUpsert(ctx, ledger.BulkUpsertInput{
		Date:            date,
		Entries:         entriesFromAPI(req.Msg.Entries),
		ExpectedVersion: req.Msg.ExpectedVersion,
		UpdatedBy:       middleware.GetAdminID(ctx),
	})
	if err != nil {
		slog.Error("BulkUpsertTracking failed", "date", req.Msg.Date, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.BulkUpsertTrackingResponse{
		DailyCost: dailyCostToAPI(&day.Cost),
		Records:   recordsToAPI(day.Records),
	}), nil
}

// GetTrackingByDate returns the cost row and every tracking record of a date.
func (s *LedgerService) GetTrackingByDate(ctx context.Context, req *connect.Request[api.GetTrackingByDateRequest]) (*connect.Response[api.GetTrackingByDateResponse], error) {
	date, err := models.ParseDate(req.Msg.Date)
	if err != nil {
		return nil, toConnectError(err)
	}

	day, err := s.ledger.GetDay(ctx, date)
	if err != nil {
		slog.Error("GetTrackingByDate failed", "date", req.Msg.Date, "error", err)
		return nil, toConnectError(err)
	}

	resp := &api.GetTrackingByDateResponse{Records: recordsToAPI(day.Records)}
	if day.Exists() {
		cost := dailyCostToAPI(&day.Cost)
		resp.DailyCost = &cost
	}
	return connect.NewResponse(resp), nil
}

// SetDailyCost sets a date's lunch and dinner totals and re-prices every record of the date.
func (s *LedgerService) SetDailyCost(ctx context.Context, req *connect.Request[api.SetDailyCostRequest]) (*connect.Response[api.SetDailyCostResponse], error) {
	slog.Info("SetDailyCost request received",
		"date", req.Msg.Date,
		"lunch_cost", req.Msg.LunchCost,
		"dinner_cost", req.Msg.DinnerCost,
	)

	date, err := models.ParseDate(req.Msg.Date)
	if err != nil {
		return nil, toConnectError(err)
	}
	lunch, err := models.ParseMoney("lunch_cost", req.Msg.LunchCost)
	if err != nil {
		return nil, toConnectError(err)
	}
	dinner, err := models.ParseMoney("dinner_cost", req.Msg.DinnerCost)
	if err != nil {
		return nil, toConnectError(err)
	}

	day, err := s.ledger.SetDailyCost(ctx, ledger.SetDailyCostInput{
		Date:            date,
		LunchCost:       lunch,
		DinnerCost:      dinner,
		ExpectedVersion: req.Msg.ExpectedVersion,
		UpdatedBy:       middleware.GetAdminID(ctx),
	})
	if err != nil {
		slog.Error("SetDailyCost failed", "date", req.Msg.Date, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.SetDailyCostResponse{
		DailyCost: dailyCostToAPI(&day.Cost),
		Records:   recordsToAPI(day.Records),
	}), nil
}

// GetDailyCost returns a date's cost row.
func (s *LedgerService) GetDailyCost(ctx context.Context, req *connect.Request[api.GetDailyCostRequest]) (*connect.Response[api.GetDailyCostResponse], error) {
	date, err := models.ParseDate(req.Msg.Date)
	if err != nil {
		return nil, toConnectError(err)
	}

	cost, err := s.ledger.GetDailyCost(ctx, date)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetDailyCostResponse{DailyCost: dailyCostToAPI(cost)}), nil
}

// GetBalance derives a member's balance over an optional date window.
func (s *LedgerService) GetBalance(ctx context.Context, req *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error) {
	from, err := parseOptionalDate("from", req.Msg.From)
	if err != nil {
		return nil, toConnectError(err)
	}
	to, err := parseOptionalDate("to", req.Msg.To)
	if err != nil {
		return nil, toConnectError(err)
	}

	bal, err := s.ledger.ComputeBalance(ctx, req.Msg.MemberID, models.Window{From: from, To: to})
	if err != nil {
		slog.Error("GetBalance failed", "member_id", req.Msg.MemberID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetBalanceResponse{Balance: balanceToAPI(bal)}), nil
}

// ProcessBillingMonth closes out a month. Members that could not be billed are
// reported in the response rather than failing the call.
func (s *LedgerService) ProcessBillingMonth(ctx context.Context, req *connect.Request[api.ProcessBillingMonthRequest]) (*connect.Response[api.ProcessBillingMonthResponse], error) {
	slog.Info("ProcessBillingMonth request received", "month", req.Msg.Month)

	month, err := models.ParseMonth(req.Msg.Month)
	if err != nil {
		return nil, toConnectError(err)
	}

	result, err := s.ledger.ProcessMonth(ctx, month)
	// A partial failure still closed the month; anything else did not.
	var partial *models.PartialBatchFailure
	isPartial := errors.As(err, &partial)
	if err != nil && !isPartial {
		slog.Error("ProcessBillingMonth failed", "month", req.Msg.Month, "error", err)
		return nil, toConnectError(err)
	}
	if isPartial {
		slog.Warn("ProcessBillingMonth partially failed",
			"month", req.Msg.Month,
			"failed_members", partial.FailedIDs(),
		)
	}

	return connect.NewResponse(&api.ProcessBillingMonthResponse{
		Month:           result.Month.String(),
		Snapshots:       snapshotsToAPI(result.Snapshots),
		FailedMemberIDs: result.FailedMemberIDs,
		Errors:          result.Errors,
	}), nil
}

// ReopenBillingMonth unlocks a processed month for editing.
func (s *LedgerService) ReopenBillingMonth(ctx context.Context, req *connect.Request[api.ReopenBillingMonthRequest]) (*connect.Response[api.ReopenBillingMonthResponse], error) {
	slog.Info("ReopenBillingMonth request received", "month", req.Msg.Month)

	month, err := models.ParseMonth(req.Msg.Month)
	if err != nil {
		return nil, toConnectError(err)
	}

	bm, err := s.ledger.ReopenMonth(ctx, month)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ReopenBillingMonthResponse{BillingMonth: billingMonthToAPI(bm)}), nil
}

// GetBillingSnapshots returns the snapshots and billing status of a month.
func (s *LedgerService) GetBillingSnapshots(ctx context.Context, req *connect.Request[api.GetBillingSnapshotsRequest]) (*connect.Response[api.GetBillingSnapshotsResponse], error) {
	month, err := models.ParseMonth(req.Msg.Month)
	if err != nil {
		return nil, toConnectError(err)
	}

	snaps, bm, err := s.ledger.Snapshots(ctx, month)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &api.GetBillingSnapshotsResponse{Snapshots: snapshotsToAPI(snaps)}
	if bm != nil {
		b := billingMonthToAPI(bm)
		resp.BillingMonth = &b
	}
	return connect.NewResponse(resp), nil
}

// RecordDeposit records a member's deposit for a month.
func (s *LedgerService) RecordDeposit(ctx context.Context, req *connect.Request[api.RecordDepositRequest]) (*connect.Response[api.RecordDepositResponse], error) {
	slog.Info("RecordDeposit request received",
		"member_id", req.Msg.MemberID,
		"month", req.Msg.Month,
		"amount", req.Msg.Amount,
	)

	month, err := models.ParseMonth(req.Msg.Month)
	if err != nil {
		return nil, toConnectError(err)
	}
	amount, err := models.ParseMoney("amount", req.Msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}

	dep, err := s.ledger.RecordDeposit(ctx, ledger.RecordDepositInput{
		MemberID: req.Msg.MemberID,
		Month:    month,
		Amount:   amount,
		Status:   models.DepositStatus(req.Msg.Status),
		Notes:    req.Msg.Notes,
	})
	if err != nil {
		slog.Error("RecordDeposit failed", "member_id", req.Msg.MemberID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.RecordDepositResponse{Deposit: depositToAPI(dep)}), nil
}

// SetDepositStatus moves a deposit between pending, received and overdue.
func (s *LedgerService) SetDepositStatus(ctx context.Context, req *connect.Request[api.SetDepositStatusRequest]) (*connect.Response[api.SetDepositStatusResponse], error) {
	slog.Info("SetDepositStatus request received", "deposit_id", req.Msg.DepositID, "status", req.Msg.Status)

	dep, err := s.ledger.SetDepositStatus(ctx, req.Msg.DepositID, models.DepositStatus(req.Msg.Status))
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.SetDepositStatusResponse{Deposit: depositToAPI(dep)}), nil
}

// SettleDate marks the unpaid records of a date paid where the member's balance covers them.
func (s *LedgerService) SettleDate(ctx context.Context, req *connect.Request[api.SettleDateRequest]) (*connect.Response[api.SettleDateResponse], error) {
	slog.Info("SettleDate request received", "date", req.Msg.Date)

	date, err := models.ParseDate(req.Msg.Date)
	if err != nil {
		return nil, toConnectError(err)
	}

	res, err := s.ledger.SettleDate(ctx, date, middleware.GetAdminID(ctx))
	if err != nil {
		slog.Error("SettleDate failed", "date", req.Msg.Date, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.SettleDateResponse{
		Date:      models.FormatDate(res.Date),
		Processed: res.Processed,
		Total:     res.Total,
		Version:   res.Version,
	}), nil
}

// GetMonthSummary returns the aggregate figures of a month.
func (s *LedgerService) GetMonthSummary(ctx context.Context, req *connect.Request[api.GetMonthSummaryRequest]) (*connect.Response[api.GetMonthSummaryResponse], error) {
	month, err := models.ParseMonth(req.Msg.Month)
	if err != nil {
		return nil, toConnectError(err)
	}

	sum, err := s.ledger.Summarize(ctx, month)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetMonthSummaryResponse{Summary: summaryToAPI(sum)}), nil
}
