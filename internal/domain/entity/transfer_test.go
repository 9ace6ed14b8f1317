package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/vpmotos/vpmotos-api/internal/domain/entity"
)

func TestTransfer_CanBeReceived(t *testing.T) {
	cases := []struct {
		state string
		want  bool
	}{
		{entity.TransferPENDING, true},
		{entity.TransferInTransit, true},
		{entity.TransferRECEIVED, false},
		{entity.TransferCANCELLED, false},
	}
	for _, tc := range cases {
		tr := &entity.Transfer{State: tc.state}
		assert.Equal(t, tc.want, tr.CanBeReceived(), "estado %s", tc.state)
	}
}

func TestTransfer_CanBeCancelled(t *testing.T) {
	cases := []struct {
		state string
		want  bool
	}{
		{entity.TransferPENDING, true},
		{entity.TransferInTransit, false},
		{entity.TransferRECEIVED, false},
		{entity.TransferCANCELLED, false},
	}
	for _, tc := range cases {
		tr := &entity.Transfer{State: tc.state}
		assert.Equal(t, tc.want, tr.CanBeCancelled(), "estado %s", tc.state)
	}
}

func TestTransferDetail_Difference(t *testing.T) {
	sent := decimal.NewFromInt(10)

	pending := &entity.TransferDetail{SentQty: sent}
	assert.False(t, pending.HasDifference(), "sin recepción no hay diferencia")
	assert.True(t, pending.Difference().IsZero())

	nine := decimal.NewFromInt(9)
	short := &entity.TransferDetail{SentQty: sent, ReceivedQty: &nine}
	assert.True(t, short.HasDifference())
	assert.True(t, decimal.NewFromInt(-1).Equal(short.Difference()), "recibido - enviado")

	ten := decimal.NewFromInt(10)
	exact := &entity.TransferDetail{SentQty: sent, ReceivedQty: &ten}
	assert.False(t, exact.HasDifference())
	assert.True(t, exact.Difference().IsZero())
}

func TestProduct_IsLowStock(t *testing.T) {
	p := &entity.Product{
		StockOnHand: decimal.NewFromInt(3),
		MinStock:    decimal.NewFromInt(5),
		Active:      true,
	}
	assert.True(t, p.IsLowStock())

	p.StockOnHand = decimal.NewFromInt(5)
	assert.True(t, p.IsLowStock(), "stock igual al mínimo cuenta como bajo")

	p.StockOnHand = decimal.NewFromInt(6)
	assert.False(t, p.IsLowStock())
}
