package service

import (
	"context"
	"errors"
	"slices"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"laily-api/internal/apperr"
	"laily-api/internal/models"
	"laily-api/internal/pricing"
	"laily-api/internal/repository"
	"laily-api/internal/variants"
)

type ProductService struct {
	products ProductStore
	log      *zap.Logger
}

func NewProductService(products ProductStore, log *zap.Logger) *ProductService {
	return &ProductService{products: products, log: log}
}

func (s *ProductService) Create(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	p := &models.Product{
		SKU:         normalizeSKU(in.SKU),
		Name:        strings.TrimSpace(in.Name),
		Image:       strings.TrimSpace(in.Image),
		DetailPage:  strings.TrimSpace(in.DetailPage),
		Description: strings.TrimSpace(in.Description),
	}
	if p.SKU == "" || p.Name == "" || in.Price == nil || strings.TrimSpace(in.Category) == "" ||
		p.Image == "" || p.DetailPage == "" {
		return nil, apperr.Validation("missing required fields (sku, name, price, category, image, detailPage)")
	}

	var err error
	if p.Category, err = parseCategory(in.Category); err != nil {
		return nil, err
	}
	if p.Price, err = pricing.Calculate(*in.Price); err != nil {
		return nil, err
	}
	if p.Status, err = parseStatus(in.Status); err != nil {
		return nil, err
	}

	if len(in.Variants) > 0 {
		if err := variants.Of(p).Replace(in.Variants); err != nil {
			return nil, err
		}
	} else {
		p.Variants = []models.Variant{}
		p.AvailableColors = verbatim(in.AvailableColors)
		p.AvailableSizes = variants.NormalizeSizes(in.AvailableSizes)
	}

	if err := s.products.Create(ctx, p); err != nil {
		return nil, productEntity.storeError("create", err)
	}
	s.log.Info("product created", zap.String("product_id", p.ID.Hex()), zap.String("sku", p.SKU))
	return p, nil
}

func (s *ProductService) List(ctx context.Context, f models.ProductFilter) ([]models.Product, int64, error) {
	f.Category = strings.ToUpper(strings.TrimSpace(f.Category))
	f.Status = strings.ToUpper(strings.TrimSpace(f.Status))

	products, total, err := s.products.FindAll(ctx, f)
	if err != nil {
		return nil, 0, productEntity.storeError("list", err)
	}
	return products, total, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, productEntity.storeError("find", err)
	}
	return p, nil
}

func (s *ProductService) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	p, err := s.products.FindBySKU(ctx, normalizeSKU(sku))
	if err != nil {
		return nil, productEntity.storeError("find", err)
	}
	return p, nil
}

// Update aplica una actualización parcial. Los textos vacíos en campos
// obligatorios se ignoran; una descripción vacía se elimina.
func (s *ProductService) Update(ctx context.Context, id string, in models.ProductUpdate) (*models.Product, error) {
	set := bson.M{}
	var unset []string

	setText := func(field string, value *string, normalize func(string) string) {
		if value == nil {
			return
		}
		if v := normalize(*value); v != "" {
			set[field] = v
		}
	}
	setText("sku", in.SKU, normalizeSKU)
	setText("name", in.Name, strings.TrimSpace)
	setText("image", in.Image, strings.TrimSpace)
	setText("detailPage", in.DetailPage, strings.TrimSpace)

	if in.Category != nil && strings.TrimSpace(*in.Category) != "" {
		category, err := parseCategory(*in.Category)
		if err != nil {
			return nil, err
		}
		set["category"] = category
	}
	if in.Description != nil {
		if d := strings.TrimSpace(*in.Description); d != "" {
			set["description"] = d
		} else {
			unset = append(unset, "description")
		}
	}

	if in.Price != nil {
		priceIn := *in.Price
		if priceIn.OriginalPrice == nil {
			stored, err := s.products.FindByID(ctx, id)
			if err != nil {
				return nil, productEntity.storeError("find", err)
			}
			priceIn = pricing.Merge(priceIn, stored.Price)
		}
		price, err := pricing.Calculate(priceIn)
		if err != nil {
			return nil, err
		}
		set["price"] = price
	}

	if in.Status != nil {
		status, err := parseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		set["status"] = status
	}

	if in.Variants != nil {
		var replaced models.Product
		if err := variants.Of(&replaced).Replace(*in.Variants); err != nil {
			return nil, err
		}
		set["variants"] = replaced.Variants
		set["availableColors"] = replaced.AvailableColors
		set["availableSizes"] = replaced.AvailableSizes
	} else {
		if in.AvailableColors != nil {
			set["availableColors"] = verbatim(*in.AvailableColors)
		}
		if in.AvailableSizes != nil {
			set["availableSizes"] = variants.NormalizeSizes(*in.AvailableSizes)
		}
	}

	p, err := s.products.Update(ctx, id, set, unset)
	if err != nil {
		return nil, productEntity.storeError("update", err)
	}
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) (*models.ProductSummary, error) {
	p, err := s.products.Delete(ctx, id)
	if err != nil {
		return nil, productEntity.storeError("delete", err)
	}
	s.log.Info("product deleted", zap.String("product_id", p.ID.Hex()), zap.String("sku", p.SKU))
	return &models.ProductSummary{ID: p.ID, SKU: p.SKU, Name: p.Name}, nil
}

// AddVariant lee el producto, añade la variante y guarda la lista completa.
// Dos altas simultáneas sobre el mismo producto: gana la última escritura.
func (s *ProductService) AddVariant(ctx context.Context, productID string, in models.VariantInput) (*models.Product, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, productEntity.storeError("find", err)
	}
	if _, err := variants.Of(p).Add(in); err != nil {
		return nil, err
	}
	saved, err := s.products.SaveVariants(ctx, p)
	if err != nil {
		return nil, productEntity.storeError("update", err)
	}
	return saved, nil
}

func (s *ProductService) RemoveVariant(ctx context.Context, productID, variantID string) (*models.Product, error) {
	vid, err := parseVariantID(variantID)
	if err != nil {
		return nil, err
	}
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, productEntity.storeError("find", err)
	}
	if _, err := variants.Of(p).Remove(vid); err != nil {
		return nil, err
	}
	saved, err := s.products.SaveVariants(ctx, p)
	if err != nil {
		return nil, productEntity.storeError("update", err)
	}
	return saved, nil
}

func (s *ProductService) UpdateStock(ctx context.Context, productID, variantID string, raw *float64) (*models.Product, error) {
	if _, err := parseVariantID(variantID); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, apperr.Validation("stock is required")
	}
	stock, err := variants.Stock(raw)
	if err != nil {
		return nil, err
	}

	p, err := s.products.UpdateVariantStock(ctx, productID, variantID, stock)
	if errors.Is(err, repository.ErrNotFound) {
		// el filtro no distingue producto inexistente de variante inexistente
		if _, ferr := s.products.FindByID(ctx, productID); ferr != nil {
			return nil, productEntity.storeError("find", ferr)
		}
		return nil, apperr.NotFound("variant not found")
	}
	if err != nil {
		return nil, productEntity.storeError("update", err)
	}
	return p, nil
}

func (s *ProductService) FindVariant(ctx context.Context, productID, color, size string) (*models.Variant, error) {
	if strings.TrimSpace(color) == "" || strings.TrimSpace(size) == "" {
		return nil, apperr.Validation("color and size are required")
	}
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, productEntity.storeError("find", err)
	}
	v, err := variants.Of(p).Find(color, size)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseVariantID(id string) (primitive.ObjectID, error) {
	vid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperr.InvalidID("invalid variant id")
	}
	return vid, nil
}

func normalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

func parseCategory(category string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(category))
	if !slices.Contains(models.Categories, c) {
		return "", apperr.Validation("category must be one of " + strings.Join(models.Categories, ", "))
	}
	return c, nil
}

// parseStatus normaliza y deduplica las etiquetas conservando el orden
func parseStatus(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		t := strings.ToUpper(strings.TrimSpace(tag))
		if !slices.Contains(models.Statuses, t) {
			return nil, apperr.Validation("status must be one of " + strings.Join(models.Statuses, ", "))
		}
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// verbatim copia la lista tal cual; nil se guarda como lista vacía
func verbatim(list []string) []string {
	return append(make([]string, 0, len(list)), list...)
}
