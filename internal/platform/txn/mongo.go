package txn

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// MongoRunner runs work inside a multi-document MongoDB transaction.
// It makes exactly one attempt per call; Retry owns the retry loop.
type MongoRunner struct {
	client *mongo.Client
}

var _ Runner = (*MongoRunner)(nil)

// NewMongoRunner returns a Runner backed by client. The deployment must be a replica set.
func NewMongoRunner(client *mongo.Client) *MongoRunner {
	return &MongoRunner{client: client}
}

// RunInTx starts a session and transaction unless ctx already carries a session.
func (r *MongoRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	sess, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(context.Background())

	opts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())
	if err := sess.StartTransaction(opts); err != nil {
		return err
	}

	sctx := mongo.NewSessionContext(ctx, sess)
	if err := fn(sctx); err != nil {
		_ = sess.AbortTransaction(context.Background())
		return classifyMongo(err)
	}
	if err := sess.CommitTransaction(sctx); err != nil {
		_ = sess.AbortTransaction(context.Background())
		return classifyMongo(err)
	}
	return nil
}

func classifyMongo(err error) error {
	if err == nil || IsConflict(err) {
		return err
	}
	var se mongo.ServerError
	if errors.As(err, &se) &&
		(se.HasErrorLabel("TransientTransactionError") || se.HasErrorLabel("UnknownTransactionCommitResult")) {
		return Conflict(err)
	}
	// two sessions upserting the same cart race on the unique userId index
	if mongo.IsDuplicateKeyError(err) || mongo.IsTimeout(err) {
		return Conflict(err)
	}
	return err
}
