package service

import (
	"strings"

	"github.com/google/uuid"
)

// skuLength is the number of characters in a generated SKU.
const skuLength = 8

// uuidSKUGenerator derives SKUs from the leading characters of a random UUID.
type uuidSKUGenerator struct{}

// NewUUIDSKUGenerator returns a generator producing 8-character uppercase tokens.
func NewUUIDSKUGenerator() SKUGenerator {
	return uuidSKUGenerator{}
}

func (uuidSKUGenerator) NewSKU() string {
	return strings.ToUpper(uuid.NewString()[:skuLength])
}
