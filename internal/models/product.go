package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Categorías permitidas
const (
	CategoryOuter  = "OUTER"
	CategoryTop    = "TOP"
	CategoryBottom = "BOTTOM"
	CategoryDress  = "DRESS"
	CategoryAcc    = "ACC"
)

// Etiquetas de estado
const (
	StatusNew     = "NEW"
	StatusSale    = "SALE"
	StatusInStock = "IN_STOCK"
)

var (
	Categories = []string{CategoryOuter, CategoryTop, CategoryBottom, CategoryDress, CategoryAcc}
	Statuses   = []string{StatusNew, StatusSale, StatusInStock}
)

// Product representa un producto en el catálogo
type Product struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SKU             string             `json:"sku" bson:"sku"`
	Name            string             `json:"name" bson:"name"`
	Category        string             `json:"category" bson:"category"`
	Image           string             `json:"image" bson:"image"`
	DetailPage      string             `json:"detailPage" bson:"detailPage"`
	Description     string             `json:"description,omitempty" bson:"description,omitempty"`
	Price           Price              `json:"price" bson:"price"`
	Variants        []Variant          `json:"variants" bson:"variants"`
	AvailableColors []string           `json:"availableColors" bson:"availableColors"`
	AvailableSizes  []string           `json:"availableSizes" bson:"availableSizes"`
	Status          []string           `json:"status" bson:"status"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Price guarda el precio original y los tres valores derivados del descuento
type Price struct {
	OriginalPrice      float64 `json:"originalPrice" bson:"originalPrice"`
	DiscountPercentage float64 `json:"discountPercentage" bson:"discountPercentage"`
	DiscountedPrice    float64 `json:"discountedPrice" bson:"discountedPrice"`
	DiscountAmount     float64 `json:"discountAmount" bson:"discountAmount"`
}

// Variant es una combinación color/talla con su propio stock
type Variant struct {
	ID         primitive.ObjectID `json:"id" bson:"_id"`
	Color      string             `json:"color" bson:"color"`
	Size       string             `json:"size" bson:"size"`
	Stock      int                `json:"stock" bson:"stock"`
	Image      string             `json:"image,omitempty" bson:"image,omitempty"`
	VariantSKU string             `json:"variantSku,omitempty" bson:"variantSku,omitempty"`
}

// ProductSummary es lo que se devuelve al borrar un producto
type ProductSummary struct {
	ID   primitive.ObjectID `json:"id"`
	SKU  string             `json:"sku"`
	Name string             `json:"name"`
}

// ProductFilter agrupa los filtros de listado
type ProductFilter struct {
	Category string
	Status   string
	Page     int
	PageSize int
}

// Paginated indica si se pidió una página concreta
func (f ProductFilter) Paginated() bool {
	return f.Page > 0 && f.PageSize > 0
}
