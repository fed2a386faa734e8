package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"product-catalogue/internal/products"
	"product-catalogue/internal/search"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const healthCheckTimeout = 2 * time.Second

type priceDocument struct {
	Value           float64 `bson:"value"`
	DiscountPercent float64 `bson:"discount_percent"`
}

type inventoryDocument struct {
	Quantity int `bson:"quantity"`
	Reserved int `bson:"reserved"`
}

type categoryDocument struct {
	ID   string `bson:"id,omitempty"`
	Name string `bson:"name"`
}

type productDocument struct {
	ProductID   string             `bson:"product_id"`
	Version     int                `bson:"version"`
	SKU         string             `bson:"sku"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	ImageURL    string             `bson:"image_url,omitempty"`
	Price       *priceDocument     `bson:"price,omitempty"`
	Inventory   *inventoryDocument `bson:"inventory,omitempty"`
	Category    *categoryDocument  `bson:"category,omitempty"`
}

func toDocument(p products.Product) productDocument {
	doc := productDocument{
		ProductID:   p.ID.String(),
		Version:     p.Version,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
	}
	if p.Price != nil {
		doc.Price = &priceDocument{Value: p.Price.Value, DiscountPercent: p.Price.DiscountPercent}
	}
	if p.Inventory != nil {
		doc.Inventory = &inventoryDocument{Quantity: p.Inventory.Quantity, Reserved: p.Inventory.Reserved}
	}
	if p.Category != nil {
		doc.Category = &categoryDocument{Name: p.Category.Name}
		if p.Category.ID != uuid.Nil {
			doc.Category.ID = p.Category.ID.String()
		}
	}
	return doc
}

func (d productDocument) toProduct() products.Product {
	p := products.Product{
		Version:     d.Version,
		SKU:         d.SKU,
		Name:        d.Name,
		Description: d.Description,
		ImageURL:    d.ImageURL,
	}
	// Ids written by other tools may be malformed; the product is still served.
	p.ID, _ = uuid.Parse(d.ProductID)
	if d.Price != nil {
		p.Price = &products.Price{Value: d.Price.Value, DiscountPercent: d.Price.DiscountPercent}
	}
	if d.Inventory != nil {
		p.Inventory = &products.Inventory{Quantity: d.Inventory.Quantity, Reserved: d.Inventory.Reserved}
	}
	if d.Category != nil {
		p.Category = &products.Category{Name: d.Category.Name}
		p.Category.ID, _ = uuid.Parse(d.Category.ID)
	}
	return p
}

// MongoRepository keeps one document per sku.
type MongoRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongo(client *mongo.Client, database, collection string) *MongoRepository {
	return &MongoRepository{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}
}

// EnsureIndexes creates the unique sku index the upsert relies on.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "sku", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create sku index: %w", err)
	}
	return nil
}

func (r *MongoRepository) Upsert(ctx context.Context, product products.Product) error {
	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"sku": product.SKU},
		toDocument(product),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert %q: %w", product.SKU, err)
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, sku string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"sku": sku}); err != nil {
		return fmt.Errorf("delete %q: %w", sku, err)
	}
	return nil
}

func (r *MongoRepository) FindBySku(ctx context.Context, sku string, onNotFound error) (products.Product, error) {
	var doc productDocument
	err := r.collection.FindOne(ctx, bson.M{"sku": sku}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return products.Product{}, onNotFound
	}
	if err != nil {
		return products.Product{}, fmt.Errorf("find %q: %w", sku, err)
	}
	return doc.toProduct(), nil
}

func (r *MongoRepository) FindByParams(ctx context.Context, params search.Params, onNotFound error) ([]products.Product, error) {
	cursor, err := r.collection.Find(ctx, mongoFilter(params), options.Find().SetSort(bson.D{{Key: "sku", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find by params: %w", err)
	}

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	if len(docs) == 0 {
		return nil, onNotFound
	}

	found := make([]products.Product, 0, len(docs))
	for _, doc := range docs {
		found = append(found, doc.toProduct())
	}
	return found, nil
}

func (r *MongoRepository) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()
	return r.client.Ping(ctx, readpref.Primary())
}

func mongoFilter(params search.Params) bson.M {
	filter := bson.M{}
	if params.SKU != "" {
		filter["sku"] = params.SKU
	}
	if params.Name != "" {
		filter["name"] = containsInsensitive(params.Name)
	}
	if params.Description != "" {
		filter["description"] = containsInsensitive(params.Description)
	}
	return filter
}

func containsInsensitive(value string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(value), "$options": "i"}
}
