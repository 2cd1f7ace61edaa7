package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProduct_HasStockToAdd(t *testing.T) {
	stock := 50
	p := &Product{Stock: &stock}

	assert.True(t, p.HasStockToAdd(1, 49))
	assert.False(t, p.HasStockToAdd(1, 50))
	assert.False(t, p.HasStockToAdd(1, math.MaxInt))
	assert.False(t, p.HasStockToAdd(60, 1), "stock reducido bajo lo ya reservado")
	assert.False(t, (&Product{}).HasStockToAdd(0, 1))
}
