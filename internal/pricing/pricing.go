package pricing

import (
	"fmt"

	"github.com/priyanshuspawar/Karwaan-Backend/internal/domain"
)

// ReferenceArea is the catalog's baseline sizing unit in square inches.
// A product's base price covers this area; every size is priced
// proportionally to its own area so no per-size price rows are needed.
const ReferenceArea = 96.0

type dimensions struct {
	Width  float64
	Height float64
}

var sizeDimensions = map[domain.PrintSize]dimensions{
	domain.Size8x12:  {8, 12},
	domain.Size12x18: {12, 18},
	domain.Size16x24: {16, 24},
	domain.Size20x30: {20, 30},
	domain.Size24x36: {24, 36},
}

// LinePrice computes the price of one order line from the product's base
// price, the requested size and the quantity.
func LinePrice(basePrice float64, size domain.PrintSize, quantity int) (float64, error) {
	if quantity < 1 {
		return 0, fmt.Errorf("%w: got %d", domain.ErrInvalidQuantity, quantity)
	}

	dims, ok := sizeDimensions[size]
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidSize, size)
	}

	ratePerSquareInch := basePrice / ReferenceArea
	return ratePerSquareInch * dims.Width * dims.Height * float64(quantity), nil
}
