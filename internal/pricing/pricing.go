// Package pricing deriva el precio con descuento a partir de un precio original
// y un porcentaje o un precio final. El redondeo es al entero más cercano,
// alejándose de cero en los empates.
package pricing

import (
	"github.com/shopspring/decimal"

	"laily-api/internal/apperr"
	"laily-api/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Calculate valida la entrada y completa los cuatro campos del precio.
// Si llegan porcentaje y precio final a la vez, manda el porcentaje.
func Calculate(in models.PriceInput) (models.Price, error) {
	if in.OriginalPrice == nil {
		return models.Price{}, apperr.Validation("price.originalPrice is required")
	}
	original := decimal.NewFromFloat(*in.OriginalPrice)
	if original.IsNegative() {
		return models.Price{}, apperr.Validation("price.originalPrice must be a number >= 0")
	}

	switch {
	case in.DiscountPercentage != nil:
		return fromPercentage(original, decimal.NewFromFloat(*in.DiscountPercentage))
	case in.DiscountedPrice != nil:
		return fromDiscountedPrice(original, decimal.NewFromFloat(*in.DiscountedPrice))
	default:
		return models.Price{}, apperr.Validation("one of discountPercentage or discountedPrice is required")
	}
}

func fromPercentage(original, percentage decimal.Decimal) (models.Price, error) {
	if percentage.IsNegative() || percentage.GreaterThan(hundred) {
		return models.Price{}, apperr.Validation("price.discountPercentage must be between 0 and 100")
	}
	amount := original.Mul(percentage).Div(hundred).Round(0)
	return models.Price{
		OriginalPrice:      original.InexactFloat64(),
		DiscountPercentage: percentage.InexactFloat64(),
		DiscountedPrice:    original.Sub(amount).InexactFloat64(),
		DiscountAmount:     amount.InexactFloat64(),
	}, nil
}

func fromDiscountedPrice(original, discounted decimal.Decimal) (models.Price, error) {
	if discounted.IsNegative() {
		return models.Price{}, apperr.Validation("price.discountedPrice must be a number >= 0")
	}
	if discounted.GreaterThan(original) {
		return models.Price{}, apperr.Validation("price.discountedPrice cannot exceed originalPrice")
	}
	amount := original.Sub(discounted)
	percentage := decimal.Zero
	if original.IsPositive() {
		percentage = amount.Div(original).Mul(hundred).Round(0)
	}
	return models.Price{
		OriginalPrice:      original.InexactFloat64(),
		DiscountPercentage: percentage.InexactFloat64(),
		DiscountedPrice:    discounted.InexactFloat64(),
		DiscountAmount:     amount.InexactFloat64(),
	}, nil
}

// Merge completa una entrada parcial con el precio original guardado.
func Merge(in models.PriceInput, stored models.Price) models.PriceInput {
	if in.OriginalPrice == nil {
		original := stored.OriginalPrice
		in.OriginalPrice = &original
	}
	return in
}
