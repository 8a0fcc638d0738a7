package services

import "tallybook/internal/models"

// Settlement is the frozen outcome of closing a budget period.
type Settlement struct {
	// Outgoing is base + incoming - spent for rollover-enabled slots,
	// zero otherwise. Negative when the owner overspent; deficits carry
	// forward as negative incoming rollover.
	Outgoing int64
	Type     models.SettlementType
}

// SettleRollover computes the settlement figures for a closing period.
// It is pure arithmetic over integer cents: total available is the base
// allocation plus whatever rolled in, and the outgoing rollover is what
// is left of that after spend. Zero outgoing counts as a surplus.
//
// Slots with rollover disabled settle to a zero-outgoing surplus no
// matter what was spent: nothing carries, and history records exactly
// what the successor inherits.
func SettleRollover(baseAmount, incomingRollover, spentAmount int64, rolloverEnabled bool) Settlement {
	if !rolloverEnabled {
		return Settlement{Outgoing: 0, Type: models.SettlementSurplus}
	}

	outgoing := baseAmount + incomingRollover - spentAmount

	typ := models.SettlementSurplus
	if outgoing < 0 {
		typ = models.SettlementDeficit
	}

	return Settlement{Outgoing: outgoing, Type: typ}
}
