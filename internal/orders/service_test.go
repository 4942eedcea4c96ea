package orders

import (
	"testing"

	"tradezone/internal/types"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	base := PlaceOrderRequest{UserID: "u1", StockID: "s1", Side: types.OrderSideBuy, Quantity: 10}
	assert.NoError(t, validate(base))

	bad := base
	bad.UserID = ""
	assert.Error(t, validate(bad), "missing user")

	bad = base
	bad.StockID = ""
	assert.Error(t, validate(bad), "missing stock")

	bad = base
	bad.Side = "hold"
	assert.Error(t, validate(bad), "unknown side")

	bad = base
	bad.Quantity = 0
	assert.Error(t, validate(bad), "zero quantity")

	bad = base
	bad.Quantity = -5
	assert.Error(t, validate(bad), "negative quantity")
}
