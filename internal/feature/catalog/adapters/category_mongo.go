package adapters

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shop_backend/internal/feature/catalog/domain/entity"
	"shop_backend/internal/feature/catalog/usecase"
)

const categoriesCollection = "categories"

type categoryDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	ImageURL  string    `bson:"imageUrl"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (d *categoryDocument) toEntity() entity.Category {
	return entity.Category{ID: d.ID, Name: d.Name, ImageURL: d.ImageURL, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}

type categoryMongo struct {
	coll *mongo.Collection
}

var _ usecase.CategoryRepository = (*categoryMongo)(nil)

// NewCategoryMongo returns a category repository over database.categories.
func NewCategoryMongo(database *mongo.Database) *categoryMongo {
	return &categoryMongo{coll: database.Collection(categoriesCollection)}
}

// EnsureIndexes creates the unique name index.
func (r *categoryMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *categoryMongo) List(ctx context.Context) ([]entity.Category, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []categoryDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]entity.Category, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toEntity())
	}
	return out, nil
}

func (r *categoryMongo) FindByID(ctx context.Context, id string) (*entity.Category, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *categoryMongo) FindByName(ctx context.Context, name string) (*entity.Category, error) {
	pattern := primitive.Regex{Pattern: "^" + regexp.QuoteMeta(name) + "$", Options: "i"}
	return r.findOne(ctx, bson.M{"name": pattern})
}

func (r *categoryMongo) findOne(ctx context.Context, filter bson.M) (*entity.Category, error) {
	var doc categoryDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrCategoryNotFound
		}
		return nil, err
	}
	c := doc.toEntity()
	return &c, nil
}

func (r *categoryMongo) Create(ctx context.Context, c *entity.Category) error {
	now := time.Now().UTC()
	doc := categoryDocument{ID: c.ID, Name: c.Name, ImageURL: c.ImageURL, CreatedAt: now, UpdatedAt: now}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return usecase.ErrCategoryExists
		}
		return err
	}
	c.CreatedAt, c.UpdatedAt = now, now
	return nil
}

func (r *categoryMongo) Update(ctx context.Context, c *entity.Category) error {
	now := time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{"$set": bson.M{
		"name":      c.Name,
		"imageUrl":  c.ImageURL,
		"updatedAt": now,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return usecase.ErrCategoryExists
		}
		return err
	}
	if res.MatchedCount == 0 {
		return usecase.ErrCategoryNotFound
	}
	c.UpdatedAt = now
	return nil
}

func (r *categoryMongo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return usecase.ErrCategoryNotFound
	}
	return nil
}
