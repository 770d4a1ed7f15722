// Package events publishes ledger change notifications.
package events

import (
	"encoding/json"
	"time"
)

// Routing keys of published messages.
const (
	KeyDailyCostChanged = "daily_cost.changed"
	KeyMonthProcessed   = "billing.month_processed"
)

// Message is anything that can be published.
type Message interface {
	RoutingKey() string
}

// DailyCostChanged is published after every committed change to a date's allocation unit.
// Consumers fetch the full day by date; Version tells them whether they are behind.
type DailyCostChanged struct {
	Date               string    `json:"date"`
	Version            int64     `json:"version"`
	Cause              string    `json:"cause"`
	LunchCost          string    `json:"lunch_cost"`
	DinnerCost         string    `json:"dinner_cost"`
	LunchParticipants  int       `json:"lunch_participants"`
	DinnerParticipants int       `json:"dinner_participants"`
	UpdatedBy          string    `json:"updated_by,omitempty"`
	Timestamp          time.Time `json:"timestamp"`
}

// Causes of a DailyCostChanged message.
const (
	CauseTracking   = "tracking"
	CauseCost       = "cost"
	CauseSettlement = "settlement"
)

func (m *DailyCostChanged) RoutingKey() string { return KeyDailyCostChanged }

// MonthProcessed is published after a billing run.
type MonthProcessed struct {
	Month           string    `json:"month"`
	Processed       int       `json:"processed"`
	FailedMemberIDs []string  `json:"failed_member_ids,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

func (m *MonthProcessed) RoutingKey() string { return KeyMonthProcessed }

// ToJSON converts a message to JSON bytes
func ToJSON(m Message) ([]byte, error) {
	return json.Marshal(m)
}
