package entities_test

import (
	"testing"

	"github.com/rndrianasolo/commercepro/internal/entities"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	testCases := []struct {
		name string
		from entities.DeliveryStatus
		to   entities.DeliveryStatus
		want bool
	}{
		{"pending to assigned", entities.DeliveryPending, entities.DeliveryAssigned, true},
		{"pending to en_route", entities.DeliveryPending, entities.DeliveryEnRoute, true},
		{"pending to delivered", entities.DeliveryPending, entities.DeliveryDelivered, true},
		{"pending to returned", entities.DeliveryPending, entities.DeliveryReturned, true},
		{"assigned to en_route", entities.DeliveryAssigned, entities.DeliveryEnRoute, true},
		{"assigned to delivered", entities.DeliveryAssigned, entities.DeliveryDelivered, true},
		{"en_route to delivered", entities.DeliveryEnRoute, entities.DeliveryDelivered, true},
		{"en_route to returned", entities.DeliveryEnRoute, entities.DeliveryReturned, true},

		{"no backwards move", entities.DeliveryAssigned, entities.DeliveryPending, false},
		{"en_route cannot go back to assigned", entities.DeliveryEnRoute, entities.DeliveryAssigned, false},
		{"delivered is absorbing", entities.DeliveryDelivered, entities.DeliveryEnRoute, false},
		{"returned is absorbing", entities.DeliveryReturned, entities.DeliveryPending, false},
		{"delivered cannot become returned", entities.DeliveryDelivered, entities.DeliveryReturned, false},
		{"none never transitions", entities.DeliveryNone, entities.DeliveryPending, false},
		{"self transition rejected", entities.DeliveryPending, entities.DeliveryPending, false},
		{"unknown status rejected", entities.DeliveryStatus("bogus"), entities.DeliveryAssigned, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, entities.CanTransition(tc.from, tc.to))
		})
	}
}

func TestDeliveryStatus_Terminal(t *testing.T) {
	assert.True(t, entities.DeliveryDelivered.Terminal())
	assert.True(t, entities.DeliveryReturned.Terminal())
	assert.False(t, entities.DeliveryPending.Terminal())
	assert.False(t, entities.DeliveryNone.Terminal())
}

func TestSale_MarshalRoundtrip(t *testing.T) {
	sale := entities.Sale{
		ID:             "s1",
		SaleNumber:     "FAC-000001",
		DeliveryStatus: entities.DeliveryPending,
		Items: []entities.SaleItem{
			{ID: "i1", SaleID: "s1", ProductName: "Rice 25kg", Quantity: 2, UnitPrice: 10, Total: 20},
		},
	}

	data, err := sale.Marshal()
	assert.NoError(t, err)

	var got entities.Sale
	assert.NoError(t, got.Unmarshal(data))
	assert.Equal(t, sale, got)
}

func TestSale_UnmarshalBroken(t *testing.T) {
	var sale entities.Sale
	err := sale.Unmarshal([]byte("broken"))
	assert.ErrorIs(t, err, entities.ErrInvalidSale)
}
