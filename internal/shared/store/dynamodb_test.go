package store

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAttrRoundTripKeepsStringSliceOrder(t *testing.T) {
	item := Item{
		"pk":    "event-1",
		"sk":    "holding-abc",
		"seats": []string{"B-2", "A-1", "C-3"},
		"ttl":   180,
		"price": decimal.RequireFromString("150.50"),
		"note":  nil,
	}

	got := fromAttrMap(toAttrMap(item))

	assert.Equal(t, []string{"B-2", "A-1", "C-3"}, got.StringSlice("seats"))
	assert.Equal(t, 180, got.Int("ttl"))
	assert.True(t, got.Decimal("price").Equal(decimal.RequireFromString("150.50")))
	assert.False(t, got.Has("note"))
}

func TestFromAttrAcceptsStringSet(t *testing.T) {
	// Rows written before lists were adopted still decode
	got := fromAttr(&types.AttributeValueMemberSS{Value: []string{"A-1", "A-2"}})
	assert.Equal(t, []string{"A-1", "A-2"}, got)
}
