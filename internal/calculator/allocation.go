package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/mealledger/internal/models"
)

// Participation is one member's meal counts for a date.
type Participation struct {
	MemberID    string
	LunchCount  int
	DinnerCount int
}

// MemberShare is one member's calculated cost share for a date.
type MemberShare struct {
	MemberID   string
	LunchCost  decimal.Decimal
	DinnerCost decimal.Decimal
	TotalCost  decimal.Decimal
}

// Allocation is the result of spreading a day's lunch and dinner totals over its participants.
type Allocation struct {
	LunchParticipants  int
	DinnerParticipants int

	// Per-unit costs rounded to cents, for display.
	LunchCostPerUnit  decimal.Decimal
	DinnerCostPerUnit decimal.Decimal

	// Shares are in the same order as the input participations.
	Shares []MemberShare
}

// Allocate computes every member's share of a day's costs.
//
// Algorithm:
//   - units = Σ counts per meal slot (a count of 2 is two participant-units)
//   - per-unit = total / units, or 0 when units == 0
//   - member cost = per-unit × count, rounded to cents by largest remainder so that
//     the shares add up to the total exactly whenever units > 0
//
// Shares are interdependent: any change to any count or total requires
// re-running Allocate over the whole date.
func Allocate(lunchCost, dinnerCost decimal.Decimal, participants []Participation) (*Allocation, error) {
	if err := models.ValidateMoney("lunch_cost", lunchCost); err != nil {
		return nil, err
	}
	if err := models.ValidateMoney("dinner_cost", dinnerCost); err != nil {
		return nil, err
	}

	lunchCounts := make([]int, len(participants))
	dinnerCounts := make([]int, len(participants))
	seen := make(map[string]bool, len(participants))

	for i, p := range participants {
		if p.MemberID == "" {
			return nil, &models.ValidationError{Field: "member_id", Reason: "must not be empty"}
		}
		if seen[p.MemberID] {
			return nil, &models.ValidationError{Field: "member_id", Reason: fmt.Sprintf("member %s listed twice", p.MemberID)}
		}
		seen[p.MemberID] = true

		if err := models.ValidateMealCount("lunch_count", p.LunchCount); err != nil {
			return nil, err
		}
		if err := models.ValidateMealCount("dinner_count", p.DinnerCount); err != nil {
			return nil, err
		}
		lunchCounts[i] = p.LunchCount
		dinnerCounts[i] = p.DinnerCount
	}

	lunchShares, lunchUnits := distribute(lunchCost, lunchCounts)
	dinnerShares, dinnerUnits := distribute(dinnerCost, dinnerCounts)

	alloc := &Allocation{
		LunchParticipants:  lunchUnits,
		DinnerParticipants: dinnerUnits,
		LunchCostPerUnit:   PerUnit(lunchCost, lunchUnits),
		DinnerCostPerUnit:  PerUnit(dinnerCost, dinnerUnits),
		Shares:             make([]MemberShare, len(participants)),
	}
	for i, p := range participants {
		alloc.Shares[i] = MemberShare{
			MemberID:   p.MemberID,
			LunchCost:  lunchShares[i],
			DinnerCost: dinnerShares[i],
			TotalCost:  lunchShares[i].Add(dinnerShares[i]),
		}
	}
	return alloc, nil
}

// PerUnit returns total / units rounded to cents, or 0 when there are no units.
func PerUnit(total decimal.Decimal, units int) decimal.Decimal {
	if units <= 0 {
		return decimal.Zero
	}
	return models.Cents(total.Div(decimal.NewFromInt(int64(units))))
}

// distribute splits total (cent precision) over counts, returning one share per
// count and the number of units. Leftover cents go to the largest remainders,
// ties broken by position.
func distribute(total decimal.Decimal, counts []int) ([]decimal.Decimal, int) {
	shares := make([]decimal.Decimal, len(counts))
	units := 0
	for _, c := range counts {
		units += c
	}
	if units == 0 {
		for i := range shares {
			shares[i] = decimal.Zero
		}
		return shares, 0
	}

	totalCents := total.Shift(models.CentPlaces).IntPart()
	cents := make([]int64, len(counts))
	remainders := make([]int64, len(counts))
	var assigned int64
	for i, c := range counts {
		numerator := totalCents * int64(c)
		cents[i] = numerator / int64(units)
		remainders[i] = numerator % int64(units)
		assigned += cents[i]
	}

	order := make([]int, len(counts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]] > remainders[order[b]]
	})
	for leftover := totalCents - assigned; leftover > 0; leftover-- {
		cents[order[0]]++
		order = order[1:]
	}

	for i, c := range cents {
		shares[i] = decimal.New(c, -models.CentPlaces)
	}
	return shares, units
}
