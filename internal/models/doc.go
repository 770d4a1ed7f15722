// Package models defines the core domain models for the meal ledger.
//
// # Models
//
//   - Member: Someone who eats at the office and is billed for it
//   - DailyMealCost: The lunch/dinner totals for one calendar date
//   - MemberMealTracking: One member's meal counts and cost shares for one date
//   - MonthlyDeposit: Money a member paid (or is expected to pay) into the kitty
//   - BillingSnapshot: A member's closed-out position for one month
//
// Members are never deleted; they are deactivated so historical tracking rows keep
// pointing at a valid member.
//
// # Money and dates
//
// All money is decimal.Decimal with two-digit cent precision. Tracking and cost rows are
// keyed by calendar date (no time component); billing works on whole months (YYYY-MM).
//
// # Errors
//
// errors.go holds the error taxonomy shared by storage, engine and RPC layers:
// ValidationError, NotFoundError, ConflictError and PartialBatchFailure.
package models
