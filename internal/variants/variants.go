// Package variants gestiona la colección de variantes color×talla de un producto
// y mantiene availableColors/availableSizes coherentes con ella.
package variants

import (
	"fmt"
	"math"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"laily-api/internal/apperr"
	"laily-api/internal/models"
)

// Key normaliza una combinación: color sin espacios, talla en mayúsculas.
func Key(color, size string) string {
	return strings.TrimSpace(color) + "\x00" + NormalizeSize(size)
}

func NormalizeSize(size string) string {
	return strings.ToUpper(strings.TrimSpace(size))
}

// NormalizeSizes se usa cuando availableSizes llega sin variantes
func NormalizeSizes(sizes []string) []string {
	out := make([]string, 0, len(sizes))
	for _, s := range sizes {
		out = append(out, NormalizeSize(s))
	}
	return out
}

// Stock valida un stock entrante; nil vale 0.
func Stock(raw *float64) (int, error) {
	if raw == nil {
		return 0, nil
	}
	v := *raw
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v != math.Trunc(v) {
		return 0, apperr.Validation("stock must be an integer >= 0")
	}
	return int(v), nil
}

// Build valida un lote completo de variantes. Cualquier combinación repetida
// invalida todo el lote.
func Build(inputs []models.VariantInput) ([]models.Variant, error) {
	out := make([]models.Variant, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for i, in := range inputs {
		v, err := build(in)
		if err != nil {
			return nil, fmt.Errorf("variants[%d]: %w", i, err)
		}
		key := Key(v.Color, v.Size)
		if _, dup := seen[key]; dup {
			return nil, duplicate(v)
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}

func build(in models.VariantInput) (models.Variant, error) {
	color := strings.TrimSpace(in.Color)
	size := NormalizeSize(in.Size)
	if color == "" || size == "" {
		return models.Variant{}, apperr.Validation("variant color and size are required")
	}
	stock, err := Stock(in.Stock)
	if err != nil {
		return models.Variant{}, err
	}
	return models.Variant{
		ID:         primitive.NewObjectID(),
		Color:      color,
		Size:       size,
		Stock:      stock,
		Image:      strings.TrimSpace(in.Image),
		VariantSKU: strings.ToUpper(strings.TrimSpace(in.VariantSKU)),
	}, nil
}

func duplicate(v models.Variant) error {
	return apperr.Validation(fmt.Sprintf("duplicate variant combination: %s - %s", v.Color, v.Size))
}

// Options devuelve los colores y tallas presentes, sin repetir y en orden de aparición.
func Options(vs []models.Variant) (colors, sizes []string) {
	colors, sizes = []string{}, []string{}
	for _, v := range vs {
		colors = appendUnique(colors, v.Color)
		sizes = appendUnique(sizes, v.Size)
	}
	return colors, sizes
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

// Set envuelve las variantes de un producto. Todas las mutaciones pasan por aquí.
type Set struct {
	product *models.Product
}

func Of(p *models.Product) *Set {
	if p.Variants == nil {
		p.Variants = []models.Variant{}
	}
	return &Set{product: p}
}

// Replace sustituye todas las variantes y recalcula las listas derivadas.
func (s *Set) Replace(inputs []models.VariantInput) error {
	vs, err := Build(inputs)
	if err != nil {
		return err
	}
	s.product.Variants = vs
	s.product.AvailableColors, s.product.AvailableSizes = Options(vs)
	return nil
}

// Add añade una variante; las listas derivadas solo crecen.
func (s *Set) Add(in models.VariantInput) (models.Variant, error) {
	v, err := build(in)
	if err != nil {
		return models.Variant{}, err
	}
	if _, ok := s.indexOfKey(v.Color, v.Size); ok {
		return models.Variant{}, duplicate(v)
	}
	p := s.product
	p.Variants = append(p.Variants, v)
	p.AvailableColors = appendUnique(nonNil(p.AvailableColors), v.Color)
	p.AvailableSizes = appendUnique(nonNil(p.AvailableSizes), v.Size)
	return v, nil
}

// Remove quita una variante y recalcula las listas sobre las que quedan.
func (s *Set) Remove(id primitive.ObjectID) (models.Variant, error) {
	i, ok := s.indexOf(id)
	if !ok {
		return models.Variant{}, notFound()
	}
	p := s.product
	removed := p.Variants[i]
	p.Variants = append(p.Variants[:i:i], p.Variants[i+1:]...)
	p.AvailableColors, p.AvailableSizes = Options(p.Variants)
	return removed, nil
}

func (s *Set) SetStock(id primitive.ObjectID, raw *float64) (models.Variant, error) {
	if raw == nil {
		return models.Variant{}, apperr.Validation("stock is required")
	}
	stock, err := Stock(raw)
	if err != nil {
		return models.Variant{}, err
	}
	i, ok := s.indexOf(id)
	if !ok {
		return models.Variant{}, notFound()
	}
	s.product.Variants[i].Stock = stock
	return s.product.Variants[i], nil
}

func (s *Set) Find(color, size string) (models.Variant, error) {
	i, ok := s.indexOfKey(color, size)
	if !ok {
		return models.Variant{}, notFound()
	}
	return s.product.Variants[i], nil
}

func (s *Set) Len() int {
	return len(s.product.Variants)
}

func (s *Set) indexOf(id primitive.ObjectID) (int, bool) {
	for i, v := range s.product.Variants {
		if v.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (s *Set) indexOfKey(color, size string) (int, bool) {
	want := Key(color, size)
	for i, v := range s.product.Variants {
		if Key(v.Color, v.Size) == want {
			return i, true
		}
	}
	return -1, false
}

func notFound() error {
	return apperr.NotFound("variant not found")
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
