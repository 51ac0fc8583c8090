package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"laily-api/internal/models"
)

const ns = "laily.test"

func duplicateKeyResponse() bson.D {
	return mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"})
}

func TestProductRepositoryCreate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("assigns id and timestamps", func(mt *mtest.T) {
		repo := NewProductRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		p := &models.Product{SKU: "ABC-1", Name: "Wool coat"}
		require.NoError(mt, repo.Create(context.Background(), p))

		assert.False(mt, p.ID.IsZero())
		assert.False(mt, p.CreatedAt.IsZero())
		assert.Equal(mt, p.CreatedAt, p.UpdatedAt)
	})

	mt.Run("duplicate sku", func(mt *mtest.T) {
		repo := NewProductRepository(mt.Coll)
		mt.AddMockResponses(duplicateKeyResponse())

		err := repo.Create(context.Background(), &models.Product{SKU: "ABC-1"})
		assert.ErrorIs(mt, err, ErrDuplicate)
	})
}

func TestProductRepositoryFindByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		repo := NewProductRepository(mt.Coll)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "sku", Value: "ABC-1"},
			{Key: "price", Value: bson.D{{Key: "originalPrice", Value: 1000.0}, {Key: "discountedPrice", Value: 800.0}}},
		}))

		p, err := repo.FindByID(context.Background(), id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id, p.ID)
		assert.Equal(mt, "ABC-1", p.SKU)
		assert.Equal(mt, 800.0, p.Price.DiscountedPrice)
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := NewProductRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("invalid id", func(mt *mtest.T) {
		repo := NewProductRepository(mt.Coll)

		_, err := repo.FindByID(context.Background(), "not-an-id")
		assert.ErrorIs(mt, err, ErrInvalidID)
	})
}

func TestProductRepositoryFindAll(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("without pagination counts the page", func(mt *mtest.T) {
		repo := NewProductRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "sku", Value: "B"}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "sku", Value: "A"}},
		))

		products, total, err := repo.FindAll(context.Background(), models.ProductFilter{Category: "TOP"})
		require.NoError(mt, err)
		assert.Len(mt, products, 2)
		assert.Equal(mt, int64(2), total)
		assert.Equal(mt, "B", products[0].SKU)
	})
}

func TestProductRepositoryUpdate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns updated document", func(mt *mtest.T) {
		repo := NewProductRepository(mt.Coll)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Linen shirt"},
		}}))

		p, err := repo.Update(context.Background(), id.Hex(), bson.M{"name": "Linen shirt"}, []string{"description"})
		require.NoError(mt, err)
		assert.Equal(mt, "Linen shirt", p.Name)
	})

	mt.Run("missing document", func(mt *mtest.T) {
		repo := NewProductRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.Update(context.Background(), primitive.NewObjectID().Hex(), bson.M{"name": "x"}, nil)
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("variant stock with bad variant id", func(mt *mtest.T) {
		repo := NewProductRepository(mt.Coll)

		_, err := repo.UpdateVariantStock(context.Background(), primitive.NewObjectID().Hex(), "zzz", 3)
		assert.ErrorIs(mt, err, ErrInvalidID)
	})
}

func TestProductRepositoryDelete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns deleted document", func(mt *mtest.T) {
		repo := NewProductRepository(mt.Coll)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: id},
			{Key: "sku", Value: "ABC-1"},
		}}))

		p, err := repo.Delete(context.Background(), id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, "ABC-1", p.SKU)
	})
}

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.Coll)
		mt.AddMockResponses(duplicateKeyResponse())

		err := repo.Create(context.Background(), &models.User{Email: "kim@laily.kr"})
		assert.ErrorIs(mt, err, ErrDuplicate)
	})

	mt.Run("find by email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "email", Value: "kim@laily.kr"},
			{Key: "password", Value: "$2a$10$hash"},
			{Key: "user_type", Value: "admin"},
		}))

		u, err := repo.FindByEmail(context.Background(), "kim@laily.kr")
		require.NoError(mt, err)
		assert.Equal(mt, "$2a$10$hash", u.Password)
		assert.True(mt, u.IsAdmin())
	})

	mt.Run("delete unknown", func(mt *mtest.T) {
		repo := NewUserRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.Delete(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}

func TestSettingsRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("find missing key", func(mt *mtest.T) {
		repo := NewSettingsRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.FindByKey(context.Background(), models.PromoBarKey)
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("insert if absent returns stored document", func(mt *mtest.T) {
		repo := NewSettingsRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "key", Value: models.PromoBarKey},
			{Key: "value", Value: "already there"},
			{Key: "isActive", Value: true},
		}}))

		s, err := repo.InsertIfAbsent(context.Background(), &models.Settings{Key: models.PromoBarKey, Value: "new"})
		require.NoError(mt, err)
		assert.Equal(mt, "already there", s.Value)
	})

	mt.Run("save upserts and records id", func(mt *mtest.T) {
		repo := NewSettingsRepository(mt.Coll)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
			bson.E{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: id}}}},
		))

		s := &models.Settings{Key: models.PromoBarKey, Value: "hello"}
		require.NoError(mt, repo.Save(context.Background(), s))
		assert.Equal(mt, id, s.ID)
		assert.False(mt, s.CreatedAt.IsZero())
	})
}
