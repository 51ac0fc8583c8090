package models

import (
	"bytes"
	"encoding/json"
)

// ProductInput es el cuerpo de POST /api/products
type ProductInput struct {
	SKU             string         `json:"sku" binding:"required"`
	Name            string         `json:"name" binding:"required"`
	Price           *PriceInput    `json:"price" binding:"required"`
	Category        string         `json:"category" binding:"required"`
	Image           string         `json:"image" binding:"required"`
	DetailPage      string         `json:"detailPage" binding:"required"`
	Description     string         `json:"description,omitempty"`
	Variants        []VariantInput `json:"variants,omitempty"`
	AvailableColors []string       `json:"availableColors,omitempty"`
	AvailableSizes  []string       `json:"availableSizes,omitempty"`
	Status          []string       `json:"status,omitempty"`
}

// ProductUpdate representa los campos actualizables de un producto.
// Los slices van como puntero para distinguir "ausente" de "vacío".
type ProductUpdate struct {
	SKU             *string         `json:"sku,omitempty"`
	Name            *string         `json:"name,omitempty"`
	Price           *PriceInput     `json:"price,omitempty"`
	Category        *string         `json:"category,omitempty"`
	Image           *string         `json:"image,omitempty"`
	DetailPage      *string         `json:"detailPage,omitempty"`
	Description     *string         `json:"description,omitempty"`
	Variants        *[]VariantInput `json:"variants,omitempty"`
	AvailableColors *[]string       `json:"availableColors,omitempty"`
	AvailableSizes  *[]string       `json:"availableSizes,omitempty"`
	Status          *[]string       `json:"status,omitempty"`
}

// PriceInput lleva el precio original y uno de los dos datos de descuento
type PriceInput struct {
	OriginalPrice      *float64 `json:"originalPrice"`
	DiscountPercentage *float64 `json:"discountPercentage"`
	DiscountedPrice    *float64 `json:"discountedPrice"`
}

// UnmarshalJSON acepta también el formato antiguo de precio plano (un número),
// que equivale a un precio sin descuento.
func (p *PriceInput) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] != '{' {
		var flat float64
		if err := json.Unmarshal(trimmed, &flat); err != nil {
			return err
		}
		noDiscount := 0.0
		*p = PriceInput{OriginalPrice: &flat, DiscountPercentage: &noDiscount}
		return nil
	}

	type plain PriceInput
	var decoded plain
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return err
	}
	*p = PriceInput(decoded)
	return nil
}

// VariantInput es una variante tal como llega en el cuerpo de la petición
type VariantInput struct {
	Color      string   `json:"color"`
	Size       string   `json:"size"`
	Stock      *float64 `json:"stock,omitempty"`
	Image      string   `json:"image,omitempty"`
	VariantSKU string   `json:"variantSku,omitempty"`
}

// StockUpdate es el cuerpo de PUT .../variants/:variantId/stock
type StockUpdate struct {
	Stock *float64 `json:"stock" binding:"required"`
}
