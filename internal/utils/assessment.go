package utils

import (
	"fmt"

	"labkit-backend/internal/domain"
)

// ComputeComponentDeposit returns the deposit for a component borrow
// request: the sum of unit price times quantity over all requested
// lines. Kit requests use the kit's admin-set deposit instead.
func ComputeComponentDeposit(items []domain.RequestItem) int64 {
	var total int64
	for _, it := range items {
		total += it.UnitPrice * int64(it.Quantity)
	}
	return total
}

// AssessmentResult is the outcome of a damage assessment: the total
// fine and the penalty lines it is composed of. Details are emitted in
// report order, one per damaged entry.
type AssessmentResult struct {
	FineAmount int64
	Details    []domain.PenaltyDetail
}

// AssessDamage computes a fine from an inspector's damage report. It is
// deterministic and has no side effects; persisting the resulting
// penalty is the caller's job.
//
// Rules:
//   - entries with Damaged == false or Quantity == 0 contribute nothing;
//   - a damaged quantity is clamped to at least 1 and, when the entry
//     matches a rented line, to at most the rented quantity;
//   - each line amount is UnitValue x clamped quantity. An attached
//     policy id is carried through as metadata and never replaces the
//     computed amount;
//   - the fine is the sum of the line amounts, not capped by the
//     deposit.
func AssessDamage(rented []domain.RequestItem, report []domain.DamageLine) AssessmentResult {
	var res AssessmentResult
	for _, line := range report {
		if !line.Damaged || line.Quantity == 0 {
			continue
		}

		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		if item := matchRentedItem(rented, line); item != nil && qty > item.Quantity {
			qty = item.Quantity
		}

		desc := line.Description
		if desc == "" {
			desc = fmt.Sprintf("Damage to %s", line.ComponentName)
		}

		res.Details = append(res.Details, domain.PenaltyDetail{
			PolicyID:       line.PolicyID,
			Description:    desc,
			Amount:         line.UnitValue * int64(qty),
			KitComponentID: line.ComponentID,
			ImageURL:       line.ImageURL,
		})
	}
	for _, d := range res.Details {
		res.FineAmount += d.Amount
	}
	return res
}

// DamagedQuantities maps each rented component id to the damaged
// quantity reported for it, clamped the same way AssessDamage clamps
// line quantities. Used to compute how much stock returns to the shelf.
func DamagedQuantities(rented []domain.RequestItem, report []domain.DamageLine) map[int32]int32 {
	out := make(map[int32]int32, len(rented))
	for _, line := range report {
		if !line.Damaged || line.Quantity == 0 {
			continue
		}
		item := matchRentedItem(rented, line)
		if item == nil {
			continue
		}
		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		if qty > item.Quantity {
			qty = item.Quantity
		}
		out[item.ComponentID] += qty
		if out[item.ComponentID] > item.Quantity {
			out[item.ComponentID] = item.Quantity
		}
	}
	return out
}

// matchRentedItem pairs a report line with the rented line it refers
// to, preferring the tracked component id over the display name.
func matchRentedItem(rented []domain.RequestItem, line domain.DamageLine) *domain.RequestItem {
	for i := range rented {
		if line.ComponentID != nil && rented[i].ComponentID == *line.ComponentID {
			return &rented[i]
		}
	}
	if line.ComponentID == nil {
		for i := range rented {
			if rented[i].ComponentName == line.ComponentName {
				return &rented[i]
			}
		}
	}
	return nil
}
