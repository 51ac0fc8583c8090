// Package service contiene la lógica de negocio: cuentas, autenticación,
// catálogo y barra promocional. Los repositorios se reciben como interfaces.
package service

//go:generate mockgen -destination=mocks/stores.go -package=mocks laily-api/internal/service UserStore,ProductStore,SettingsStore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"

	"laily-api/internal/apperr"
	"laily-api/internal/models"
	"laily-api/internal/repository"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindAll(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id string, set bson.M, unset []string) (*models.User, error)
	Delete(ctx context.Context, id string) (*models.User, error)
}

type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id string) (*models.Product, error)
	FindBySKU(ctx context.Context, sku string) (*models.Product, error)
	FindAll(ctx context.Context, filter models.ProductFilter) ([]models.Product, int64, error)
	Update(ctx context.Context, id string, set bson.M, unset []string) (*models.Product, error)
	SaveVariants(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateVariantStock(ctx context.Context, productID, variantID string, stock int) (*models.Product, error)
	Delete(ctx context.Context, id string) (*models.Product, error)
}

type SettingsStore interface {
	FindByKey(ctx context.Context, key string) (*models.Settings, error)
	InsertIfAbsent(ctx context.Context, s *models.Settings) (*models.Settings, error)
	Save(ctx context.Context, s *models.Settings) error
}

var (
	_ UserStore     = (*repository.UserRepository)(nil)
	_ ProductStore  = (*repository.ProductRepository)(nil)
	_ SettingsStore = (*repository.SettingsRepository)(nil)
)

// entity describe cómo se nombra un recurso en los mensajes de error
type entity struct {
	name      string
	duplicate string
}

var (
	userEntity     = entity{name: "user", duplicate: "email already exists"}
	productEntity  = entity{name: "product", duplicate: "sku already exists"}
	settingsEntity = entity{name: "settings"}
)

// storeError convierte un error de repositorio en un *apperr.Error.
// Los errores que ya son de la aplicación pasan tal cual.
func (e entity) storeError(action string, err error) error {
	var appErr *apperr.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, repository.ErrInvalidID):
		return apperr.InvalidID("invalid " + e.name + " id")
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound(e.name + " not found")
	case errors.Is(err, repository.ErrDuplicate) && e.duplicate != "":
		return apperr.Duplicate(e.duplicate, err)
	default:
		return apperr.Internal("failed to "+action+" "+e.name, err)
	}
}
