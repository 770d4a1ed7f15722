package service

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/mealledger/internal/calculator"
	"github.com/mmynk/mealledger/internal/ledger"
	"github.com/mmynk/mealledger/internal/models"
	"github.com/mmynk/mealledger/pkg/api"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(models.CentPlaces)
}

func dailyCostToAPI(c *models.DailyMealCost) api.DailyCost {
	return api.DailyCost{
		Date:               models.FormatDate(c.Date),
		LunchCost:          money(c.LunchCost),
		DinnerCost:         money(c.DinnerCost),
		LunchParticipants:  c.LunchParticipants,
		DinnerParticipants: c.DinnerParticipants,
		LunchCostPerUnit:   money(c.LunchCostPerUnit),
		DinnerCostPerUnit:  money(c.DinnerCostPerUnit),
		Version:            c.Version,
		UpdatedAt:          c.UpdatedAt,
		UpdatedBy:          c.UpdatedBy,
	}
}

func recordToAPI(r *models.MemberMealTracking) api.TrackingRecord {
	return api.TrackingRecord{
		ID:          r.ID,
		MemberID:    r.MemberID,
		Date:        models.FormatDate(r.Date),
		LunchCount:  r.LunchCount,
		DinnerCount: r.DinnerCount,
		LunchCost:   money(r.LunchCost),
		DinnerCost:  money(r.DinnerCost),
		TotalCost:   money(r.TotalCost),
		Paid:        r.Paid,
		Notes:       r.Notes,
		UpdatedAt:   r.UpdatedAt,
		UpdatedBy:   r.UpdatedBy,
	}
}

// recordsToAPI converts records ordered by member ID.
func recordsToAPI(records []models.MemberMealTracking) []api.TrackingRecord {
	out := make([]api.TrackingRecord, 0, len(records))
	for i := range records {
		out = append(out, recordToAPI(&records[i]))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MemberID < out[j].MemberID })
	return out
}

func balanceToAPI(b *calculator.MemberBalance) api.Balance {
	return api.Balance{
		MemberID:       b.MemberID,
		CurrentBalance: money(b.CurrentBalance),
		ReceivedAmount: money(b.ReceivedAmount),
		ConsumedAmount: money(b.ConsumedAmount),
		PendingAmount:  money(b.PendingAmount),
		OverdueAmount:  money(b.OverdueAmount),
	}
}

func snapshotsToAPI(snaps []models.BillingSnapshot) []api.BillingSnapshot {
	out := make([]api.BillingSnapshot, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, api.BillingSnapshot{
			ID:               s.ID,
			MemberID:         s.MemberID,
			Month:            s.Month.String(),
			OpeningBalance:   money(s.OpeningBalance),
			MonthlyDeposit:   money(s.MonthlyDeposit),
			TotalConsumption: money(s.TotalConsumption),
			ClosingBalance:   money(s.ClosingBalance),
			DueAmount:        money(s.DueAmount),
			PaymentStatus:    string(s.PaymentStatus),
			Processed:        s.Processed,
			ProcessedAt:      s.ProcessedAt,
		})
	}
	return out
}

func billingMonthToAPI(bm *models.BillingMonth) api.BillingMonth {
	return api.BillingMonth{
		Month:       bm.Month.String(),
		Status:      string(bm.Status),
		ProcessedAt: bm.ProcessedAt,
	}
}

func depositToAPI(d *models.MonthlyDeposit) api.Deposit {
	return api.Deposit{
		ID:        d.ID,
		MemberID:  d.MemberID,
		Month:     d.Month.String(),
		Amount:    money(d.Amount),
		Status:    string(d.Status),
		Notes:     d.Notes,
		CreatedAt: d.CreatedAt,
	}
}

func summaryToAPI(s *ledger.MonthSummary) api.MonthSummary {
	return api.MonthSummary{
		Month:                s.Month.String(),
		ActiveMembers:        s.ActiveMembers,
		EmployeeMembers:      s.EmployeeMembers,
		GuestMembers:         s.GuestMembers,
		ParticipatingMembers: s.ParticipatingMembers,
		LunchUnits:           s.LunchUnits,
		DinnerUnits:          s.DinnerUnits,
		DaysWithCosts:        s.DaysWithCosts,
		TotalSpent:           money(s.TotalSpent),
		TotalConsumption:     money(s.TotalConsumption),
		DepositsReceived:     money(s.DepositsReceived),
		DepositsPending:      money(s.DepositsPending),
		DepositsOverdue:      money(s.DepositsOverdue),
		AverageCostPerMember: money(s.AverageCostPerMember),
		ParticipationRate:    s.ParticipationRate.StringFixed(4),
	}
}

func entriesFromAPI(entries []api.TrackingEntry) []ledger.TrackingEntry {
	out := make([]ledger.TrackingEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, ledger.TrackingEntry{
			MemberID:    e.MemberID,
			LunchCount:  e.LunchCount,
			DinnerCount: e.DinnerCount,
			Notes:       e.Notes,
		})
	}
	return out
}

// parseOptionalDate parses an inclusive window bound. Empty is unbounded.
func parseOptionalDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	d, err := models.ParseDate(s)
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		verr.Field = field
	}
	return d, err
}
