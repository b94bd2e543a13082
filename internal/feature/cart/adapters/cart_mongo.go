package adapters

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shop_backend/internal/feature/cart/domain/entity"
	"shop_backend/internal/feature/cart/usecase"
)

const cartsCollection = "carts"

type cartItemDocument struct {
	ProductID string `bson:"productId"`
	Quantity  int    `bson:"quantity"`
}

type cartDocument struct {
	UserID    string             `bson:"userId"`
	Products  []cartItemDocument `bson:"products"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *cartDocument) toEntity() *entity.Cart {
	cart := &entity.Cart{UserID: d.UserID, UpdatedAt: d.UpdatedAt, Items: make([]entity.Item, 0, len(d.Products))}
	for _, p := range d.Products {
		cart.Items = append(cart.Items, entity.Item{ProductID: p.ProductID, Quantity: p.Quantity})
	}
	return cart
}

// cartMongo stores one document per user. Writers of the same cart inside transactions
// collide on the document and the loser is aborted with a transient error.
type cartMongo struct {
	coll *mongo.Collection
}

var _ usecase.CartRepository = (*cartMongo)(nil)

// NewCartMongo returns a cart repository over database.carts.
func NewCartMongo(database *mongo.Database) *cartMongo {
	return &cartMongo{coll: database.Collection(cartsCollection)}
}

// EnsureIndexes creates the unique owner index.
func (r *cartMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *cartMongo) FindByUserID(ctx context.Context, userID string) (*entity.Cart, error) {
	var doc cartDocument
	err := r.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toEntity(), nil
}

// LockByUserID reads the cart in the caller's session. A missing cart is materialised on Save.
func (r *cartMongo) LockByUserID(ctx context.Context, userID string) (*entity.Cart, error) {
	cart, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &entity.Cart{UserID: userID}
	}
	return cart, nil
}

func (r *cartMongo) Save(ctx context.Context, cart *entity.Cart) error {
	items := make([]cartItemDocument, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, cartItemDocument{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	updatedAt := cart.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"userId": cart.UserID},
		bson.M{"$set": bson.M{"products": items, "updatedAt": updatedAt}},
		options.Update().SetUpsert(true),
	)
	return err
}
