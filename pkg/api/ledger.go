package api

// DailyCost is the cost row of one date.
type DailyCost struct {
	Date               string `json:"date"`
	LunchCost          string `json:"lunch_cost"`
	DinnerCost         string `json:"dinner_cost"`
	LunchParticipants  int    `json:"lunch_participants"`
	DinnerParticipants int    `json:"dinner_participants"`
	LunchCostPerUnit   string `json:"lunch_cost_per_unit"`
	DinnerCostPerUnit  string `json:"dinner_cost_per_unit"`
	Version            int64  `json:"version"`
	UpdatedAt          int64  `json:"updated_at"`
	UpdatedBy          string `json:"updated_by,omitempty"`
}

// TrackingRecord is one member's meals and cost share for one date.
type TrackingRecord struct {
	ID          string `json:"id"`
	MemberID    string `json:"member_id"`
	Date        string `json:"date"`
	LunchCount  int    `json:"lunch_count"`
	DinnerCount int    `json:"dinner_count"`
	LunchCost   string `json:"lunch_cost"`
	DinnerCost  string `json:"dinner_cost"`
	TotalCost   string `json:"total_cost"`
	Paid        bool   `json:"paid"`
	Notes       string `json:"notes,omitempty"`
	UpdatedAt   int64  `json:"updated_at"`
	UpdatedBy   string `json:"updated_by,omitempty"`
}

// TrackingEntry sets one member's counts. A null or missing notes keeps the stored note.
type TrackingEntry struct {
	MemberID    string  `json:"member_id"`
	LunchCount  int     `json:"lunch_count"`
	DinnerCount int     `json:"dinner_count"`
	Notes       *string `json:"notes,omitempty"`
}

type UpsertTrackingRequest struct {
	Date string `json:"date"`
	TrackingEntry
	// ExpectedVersion of the date's cost row; 0 skips the check.
	ExpectedVersion int64 `json:"expected_version,omitempty"`
}

type UpsertTrackingResponse struct {
	Record    TrackingRecord `json:"record"`
	DailyCost DailyCost      `json:"daily_cost"`
}

type BulkUpsertTrackingRequest struct {
	Date            string          `json:"date"`
	Entries         []TrackingEntry `json:"entries"`
	ExpectedVersion int64           `json:"expected_version,omitempty"`
}

type BulkUpsertTrackingResponse struct {
	DailyCost DailyCost        `json:"daily_cost"`
	Records   []TrackingRecord `json:"records"`
}

type GetTrackingByDateRequest struct {
	Date string `json:"date"`
}

type GetTrackingByDateResponse struct {
	// DailyCost is null when the date has no cost row yet.
	DailyCost *DailyCost       `json:"daily_cost"`
	Records   []TrackingRecord `json:"records"`
}

type SetDailyCostRequest struct {
	Date            string `json:"date"`
	LunchCost       string `json:"lunch_cost"`
	DinnerCost      string `json:"dinner_cost"`
	ExpectedVersion int64  `json:"expected_version,omitempty"`
}

type SetDailyCostResponse struct {
	DailyCost DailyCost        `json:"daily_cost"`
	Records   []TrackingRecord `json:"records"`
}

type GetDailyCostRequest struct {
	Date string `json:"date"`
}

type GetDailyCostResponse struct {
	DailyCost DailyCost `json:"daily_cost"`
}

// Balance is a member's derived balance over a window.
type Balance struct {
	MemberID       string `json:"member_id"`
	CurrentBalance string `json:"current_balance"`
	ReceivedAmount string `json:"received_amount"`
	ConsumedAmount string `json:"consumed_amount"`
	PendingAmount  string `json:"pending_amount"`
	OverdueAmount  string `json:"overdue_amount"`
}

type GetBalanceRequest struct {
	MemberID string `json:"member_id"`
	// From and To are inclusive dates; empty means unbounded.
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

type GetBalanceResponse struct {
	Balance Balance `json:"balance"`
}

type BillingSnapshot struct {
	ID               string `json:"id"`
	MemberID         string `json:"member_id"`
	Month            string `json:"month"`
	OpeningBalance   string `json:"opening_balance"`
	MonthlyDeposit   string `json:"monthly_deposit"`
	TotalConsumption string `json:"total_consumption"`
	ClosingBalance   string `json:"closing_balance"`
	DueAmount        string `json:"due_amount"`
	PaymentStatus    string `json:"payment_status"`
	Processed        bool   `json:"processed"`
	ProcessedAt      int64  `json:"processed_at"`
}

type BillingMonth struct {
	Month       string `json:"month"`
	Status      string `json:"status"`
	ProcessedAt int64  `json:"processed_at"`
}

type ProcessBillingMonthRequest struct {
	Month string `json:"month"`
}

type ProcessBillingMonthResponse struct {
	Month           string            `json:"month"`
	Snapshots       []BillingSnapshot `json:"snapshots"`
	FailedMemberIDs []string          `json:"failed_member_ids,omitempty"`
	Errors          map[string]string `json:"errors,omitempty"`
}

type ReopenBillingMonthRequest struct {
	Month string `json:"month"`
}

type ReopenBillingMonthResponse struct {
	BillingMonth BillingMonth `json:"billing_month"`
}

type GetBillingSnapshotsRequest struct {
	Month string `json:"month"`
}

type GetBillingSnapshotsResponse struct {
	// BillingMonth is null when the month was never processed.
	BillingMonth *BillingMonth     `json:"billing_month"`
	Snapshots    []BillingSnapshot `json:"snapshots"`
}

type Deposit struct {
	ID        string `json:"id"`
	MemberID  string `json:"member_id"`
	Month     string `json:"month"`
	Amount    string `json:"amount"`
	Status    string `json:"status"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

type RecordDepositRequest struct {
	MemberID string `json:"member_id"`
	Month    string `json:"month"`
	Amount   string `json:"amount"`
	// Status defaults to pending.
	Status string `json:"status,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

type RecordDepositResponse struct {
	Deposit Deposit `json:"deposit"`
}

type SetDepositStatusRequest struct {
	DepositID string `json:"deposit_id"`
	Status    string `json:"status"`
}

type SetDepositStatusResponse struct {
	Deposit Deposit `json:"deposit"`
}

type SettleDateRequest struct {
	Date string `json:"date"`
}

type SettleDateResponse struct {
	Date      string `json:"date"`
	Processed int    `json:"processed"`
	Total     int    `json:"total"`
	Version   int64  `json:"version"`
}

type MonthSummary struct {
	Month                string `json:"month"`
	ActiveMembers        int    `json:"active_members"`
	EmployeeMembers      int    `json:"employee_members"`
	GuestMembers         int    `json:"guest_members"`
	ParticipatingMembers int    `json:"participating_members"`
	LunchUnits           int    `json:"lunch_units"`
	DinnerUnits          int    `json:"dinner_units"`
	DaysWithCosts        int    `json:"days_with_costs"`
	TotalSpent           string `json:"total_spent"`
	TotalConsumption     string `json:"total_consumption"`
	DepositsReceived     string `json:"deposits_received"`
	DepositsPending      string `json:"deposits_pending"`
	DepositsOverdue      string `json:"deposits_overdue"`
	AverageCostPerMember string `json:"average_cost_per_member"`
	ParticipationRate    string `json:"participation_rate"`
}

type GetMonthSummaryRequest struct {
	Month string `json:"month"`
}

type GetMonthSummaryResponse struct {
	Summary MonthSummary `json:"summary"`
}
