package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"laily-api/internal/models"
)

const (
	readTimeout  = 3 * time.Second
	writeTimeout = 5 * time.Second
	listTimeout  = 10 * time.Second
)

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(collection *mongo.Collection) *ProductRepository {
	return &ProductRepository{
		collection: collection,
	}
}

// Create inserta un producto nuevo
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	now := time.Now().UTC()
	product.ID = primitive.NewObjectID()
	product.CreatedAt = now
	product.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, product)
	return translate(err)
}

// FindByID obtiene un producto por ID
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": objID})
}

// FindBySKU busca por SKU; el SKU se guarda siempre en mayúsculas
func (r *ProductRepository) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	return r.findOne(ctx, bson.M{"sku": sku})
}

func (r *ProductRepository) findOne(ctx context.Context, filter bson.M) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var product models.Product
	if err := r.collection.FindOne(ctx, filter).Decode(&product); err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

// FindAll lista productos, del más nuevo al más antiguo. Con paginación,
// el total se cuenta en paralelo con la página.
func (r *ProductRepository) FindAll(ctx context.Context, f models.ProductFilter) ([]models.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Status != "" {
		// status es un array: la igualdad comprueba pertenencia
		filter["status"] = f.Status
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	if !f.Paginated() {
		products, err := r.find(ctx, filter, findOptions)
		if err != nil {
			return nil, 0, err
		}
		return products, int64(len(products)), nil
	}

	findOptions.SetSkip(int64((f.Page - 1) * f.PageSize)).SetLimit(int64(f.PageSize))

	var (
		products []models.Product
		total    int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = r.collection.CountDocuments(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = r.find(gctx, filter, findOptions)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Product, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Update aplica $set/$unset y devuelve el documento ya actualizado
func (r *ProductRepository) Update(ctx context.Context, id string, set bson.M, unset []string) (*models.Product, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if set == nil {
		set = bson.M{}
	}
	// Agregar updatedAt automáticamente
	set["updatedAt"] = time.Now().UTC()

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		fields := bson.M{}
		for _, field := range unset {
			fields[field] = ""
		}
		update["$unset"] = fields
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var product models.Product
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, update, opts).Decode(&product); err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

// SaveVariants guarda la lista de variantes junto con las listas derivadas.
// Sin bloqueo: si dos escrituras compiten, gana la última.
func (r *ProductRepository) SaveVariants(ctx context.Context, product *models.Product) (*models.Product, error) {
	return r.Update(ctx, product.ID.Hex(), bson.M{
		"variants":        product.Variants,
		"availableColors": product.AvailableColors,
		"availableSizes":  product.AvailableSizes,
	}, nil)
}

// UpdateVariantStock cambia el stock de una variante con un único $set posicional
func (r *ProductRepository) UpdateVariantStock(ctx context.Context, productID, variantID string, stock int) (*models.Product, error) {
	objID, err := parseID(productID)
	if err != nil {
		return nil, err
	}
	variantObjID, err := parseID(variantID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	filter := bson.M{"_id": objID, "variants._id": variantObjID}
	update := bson.M{"$set": bson.M{
		"variants.$.stock": stock,
		"updatedAt":        time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product models.Product
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&product); err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

// Delete borra el producto y devuelve el documento eliminado
func (r *ProductRepository) Delete(ctx context.Context, id string) (*models.Product, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	var product models.Product
	if err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": objID}).Decode(&product); err != nil {
		return nil, translate(err)
	}
	return &product, nil
}
