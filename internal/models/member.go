package models

import "github.com/shopspring/decimal"

// MemberType is the membership category of a member.
type MemberType string

const (
	MemberTypeEmployee MemberType = "employee"
	MemberTypeGuest    MemberType = "guest"
)

// MemberStatus is the lifecycle state of a member.
type MemberStatus string

const (
	MemberStatusActive    MemberStatus = "active"
	MemberStatusInactive  MemberStatus = "inactive"
	MemberStatusSuspended MemberStatus = "suspended"
)

// Member represents a person taking part in office meals.
// Members are created by an admin and deactivated (never deleted) so that
// historical tracking records keep a valid reference.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string

	// Name is the display name of the member.
	Name string

	// Type is the membership category (employee or guest).
	Type MemberType

	// Status is the lifecycle state. Only active members are billed by default.
	Status MemberStatus

	// MonthlyDeposit is the amount the member is expected to deposit each month.
	// It is informational; balances only move on recorded deposits.
	MonthlyDeposit decimal.Decimal

	// CreatedAt is the Unix timestamp when the member was created.
	CreatedAt int64
}

// IsActive reports whether the member is currently active.
func (m *Member) IsActive() bool {
	return m.Status == MemberStatusActive
}

// ValidMemberType reports whether t is a known membership category.
func ValidMemberType(t MemberType) bool {
	return t == MemberTypeEmployee || t == MemberTypeGuest
}

// ValidMemberStatus reports whether s is a known member status.
func ValidMemberStatus(s MemberStatus) bool {
	switch s {
	case MemberStatusActive, MemberStatusInactive, MemberStatusSuspended:
		return true
	}
	return false
}
