package engine

import (
	"math/rand"

	"tradezone/internal/model"

	"github.com/shopspring/decimal"
)

// priceFloor is the hard minimum for any drifted price. Instruments may
// carry a higher min_price but never a lower one.
var priceFloor = decimal.NewFromFloat(0.01)

// clearingFloor is the minimum clearing price regardless of computed delta.
var clearingFloor = decimal.NewFromInt(1)

var hundred = decimal.NewFromInt(100)

// pressureChange converts recent trade imbalance into a bounded percentage
// move. Pressure is (buy-sell)/(buy+sell) in [-1, 1]; the result is scaled
// by maxStep (reference 2%).
func pressureChange(buyQty, sellQty int64, maxStep float64) float64 {
	volume := buyQty + sellQty
	if volume <= 0 {
		return 0
	}
	pressure := float64(buyQty-sellQty) / float64(volume)
	if pressure > 1 {
		pressure = 1
	} else if pressure < -1 {
		pressure = -1
	}
	return pressure * maxStep
}

// idleChange is the small random movement applied when there were no trades
// in the window: uniform in [-0.5%, +0.5%].
func idleChange(rng *rand.Rand) float64 {
	return (rng.Float64() - 0.5) / 100
}

// driftPrice applies a percentage change to a stock's price, clamps it to
// the instrument's bounds and returns the rounded price together with the
// realized percentage change.
func driftPrice(st model.Stock, changePct float64) (decimal.Decimal, decimal.Decimal) {
	cur := st.CurrentPrice
	next := cur.Mul(decimal.NewFromFloat(1 + changePct))
	next = clampPrice(next, st.MinPrice, st.MaxPrice).Round(2)
	realized := decimal.Zero
	if cur.IsPositive() {
		realized = next.Sub(cur).Div(cur).Mul(hundred).Round(2)
	}
	return next, realized
}

func clampPrice(p decimal.Decimal, min, max *decimal.Decimal) decimal.Decimal {
	floor := priceFloor
	if min != nil && min.GreaterThan(floor) {
		floor = *min
	}
	if p.LessThan(floor) {
		p = floor
	}
	if max != nil && p.GreaterThan(*max) {
		p = *max
	}
	return p
}

// clearingPrice computes the single price a batch settles at from the
// aggregate imbalance: delta = 0.01 * (buyQty - sellQty) / 1000, applied to
// the current price, rounded to cents and floored at 1.00. The returned
// percentage is the delta in percent, rounded to two places.
func clearingPrice(cur decimal.Decimal, buyQty, sellQty int64) (decimal.Decimal, decimal.Decimal) {
	delta := decimal.NewFromInt(buyQty - sellQty).
		Mul(decimal.NewFromFloat(0.01)).
		Div(decimal.NewFromInt(1000))
	price := cur.Mul(decimal.NewFromInt(1).Add(delta)).Round(2)
	if price.LessThan(clearingFloor) {
		price = clearingFloor
	}
	return price, delta.Mul(hundred).Round(2)
}
