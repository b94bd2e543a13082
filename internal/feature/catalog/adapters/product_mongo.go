package adapters

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shop_backend/internal/feature/catalog/domain/entity"
	"shop_backend/internal/feature/catalog/usecase"
)

const productsCollection = "products"

type productDocument struct {
	ID         string                `bson:"_id"`
	Name       string                `bson:"name"`
	Price      primitive.Decimal128  `bson:"price"`
	ImageURL   string                `bson:"image"`
	Stock      int                   `bson:"stock"`
	CategoryID string                `bson:"categoryId"`
	IsOnSale   bool                  `bson:"isOnSale"`
	SalePrice  *primitive.Decimal128 `bson:"salePrice"`
	CreatedAt  time.Time             `bson:"createdAt"`
	UpdatedAt  time.Time             `bson:"updatedAt"`

	// CategoryName is produced by the $lookup stage and never stored.
	CategoryName string `bson:"categoryName,omitempty"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

func fromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	return decimal.NewFromString(d.String())
}

func newProductDocument(p *entity.Product) (productDocument, error) {
	price, err := toDecimal128(p.Price)
	if err != nil {
		return productDocument{}, fmt.Errorf("encode price: %w", err)
	}
	doc := productDocument{
		ID: p.ID, Name: p.Name, Price: price, ImageURL: p.ImageURL, Stock: p.Stock,
		CategoryID: p.CategoryID, IsOnSale: p.IsOnSale,
	}
	if p.SalePrice.Valid {
		sale, err := toDecimal128(p.SalePrice.Decimal)
		if err != nil {
			return productDocument{}, fmt.Errorf("encode sale price: %w", err)
		}
		doc.SalePrice = &sale
	}
	return doc, nil
}

func (d *productDocument) toEntity() (entity.Product, error) {
	price, err := fromDecimal128(d.Price)
	if err != nil {
		return entity.Product{}, fmt.Errorf("decode price of %s: %w", d.ID, err)
	}
	p := entity.Product{
		ID: d.ID, Name: d.Name, Price: price, ImageURL: d.ImageURL, Stock: d.Stock,
		CategoryID: d.CategoryID, CategoryName: d.CategoryName, IsOnSale: d.IsOnSale,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
	if d.SalePrice != nil {
		sale, err := fromDecimal128(*d.SalePrice)
		if err != nil {
			return entity.Product{}, fmt.Errorf("decode sale price of %s: %w", d.ID, err)
		}
		p.SalePrice = decimal.NewNullDecimal(sale)
	}
	return p, nil
}

type productMongo struct {
	coll *mongo.Collection
}

var _ usecase.ProductRepository = (*productMongo)(nil)
var _ usecase.CategoryUsage = (*productMongo)(nil)

// NewProductMongo returns a product repository over database.products.
func NewProductMongo(database *mongo.Database) *productMongo {
	return &productMongo{coll: database.Collection(productsCollection)}
}

// EnsureIndexes creates the category, sale and recency indexes.
func (r *productMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "categoryId", Value: 1}}},
		{Keys: bson.D{{Key: "isOnSale", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	return err
}

// query runs match, sort and limit, then joins the category name.
func (r *productMongo) query(ctx context.Context, match bson.M, sort bson.D, limit int) ([]entity.Product, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: sort}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": categoriesCollection, "localField": "categoryId", "foreignField": "_id", "as": "category",
		}}},
		bson.D{{Key: "$set", Value: bson.M{"categoryName": bson.M{"$arrayElemAt": bson.A{"$category.name", 0}}}}},
		bson.D{{Key: "$project", Value: bson.M{"category": 0}}},
	)

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var docs []productDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return toEntities(docs)
}

func toEntities(docs []productDocument) ([]entity.Product, error) {
	out := make([]entity.Product, 0, len(docs))
	for i := range docs {
		p, err := docs[i].toEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

var byName = bson.D{{Key: "name", Value: 1}}

func (r *productMongo) List(ctx context.Context) ([]entity.Product, error) {
	return r.query(ctx, bson.M{}, byName, 0)
}

func (r *productMongo) ListOnSale(ctx context.Context) ([]entity.Product, error) {
	return r.query(ctx, bson.M{"isOnSale": true}, byName, 0)
}

func (r *productMongo) Search(ctx context.Context, q string) ([]entity.Product, error) {
	return r.query(ctx, bson.M{"name": primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}}, byName, 0)
}

func (r *productMongo) ListByCategory(ctx context.Context, categoryID string) ([]entity.Product, error) {
	return r.query(ctx, bson.M{"categoryId": categoryID}, byName, 0)
}

func (r *productMongo) Latest(ctx context.Context, limit int) ([]entity.Product, error) {
	return r.query(ctx, bson.M{}, bson.D{{Key: "createdAt", Value: -1}}, limit)
}

func (r *productMongo) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	got, err := r.query(ctx, bson.M{"_id": id}, byName, 1)
	if err != nil {
		return nil, err
	}
	if len(got) == 0 {
		return nil, usecase.ErrProductNotFound
	}
	return &got[0], nil
}

func (r *productMongo) Create(ctx context.Context, p *entity.Product) error {
	doc, err := newProductDocument(p)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	doc.CreatedAt, doc.UpdatedAt = now, now
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	p.CreatedAt, p.UpdatedAt = now, now
	return nil
}

func (r *productMongo) Update(ctx context.Context, p *entity.Product) error {
	doc, err := newProductDocument(p)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": bson.M{
		"name":       doc.Name,
		"price":      doc.Price,
		"image":      doc.ImageURL,
		"stock":      doc.Stock,
		"categoryId": doc.CategoryID,
		"isOnSale":   doc.IsOnSale,
		"salePrice":  doc.SalePrice,
		"updatedAt":  now,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return usecase.ErrProductNotFound
	}
	p.UpdatedAt = now
	return nil
}

func (r *productMongo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return usecase.ErrProductNotFound
	}
	return nil
}

func (r *productMongo) ExistsByCategory(ctx context.Context, categoryID string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"categoryId": categoryID}, options.Count().SetLimit(1))
	return n > 0, err
}

// FindByIDs returns the products among ids keyed by id. Inside a transaction ctx carries the session.
func (r *productMongo) FindByIDs(ctx context.Context, ids []string) (map[string]entity.Product, error) {
	out := make(map[string]entity.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var docs []productDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for i := range docs {
		p, err := docs[i].toEntity()
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, nil
}

// DecrementStock applies $inc only when the stock covers qty, and reports whether it matched.
func (r *productMongo) DecrementStock(ctx context.Context, id string, qty int) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "stock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"stock": -qty}, "$set": bson.M{"updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}
