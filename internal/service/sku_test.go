package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUUIDSKUGenerator(t *testing.T) {
	gen := NewUUIDSKUGenerator()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		sku := gen.NewSKU()
		assert.Len(t, sku, 8)
		assert.Regexp(t, `^[0-9A-F]{8}$`, sku)
		seen[sku] = struct{}{}
	}
	assert.Greater(t, len(seen), 95)
}
