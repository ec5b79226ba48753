package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"food-ordering-api/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type record[T any] interface {
	*T
	EnsureID() string
	Stamp(now time.Time)
}

// collection holds the CRUD every repository shares. Each call gets its own timeout.
type collection[T any, P record[T]] struct {
	coll    *mongo.Collection
	entity  string
	timeout time.Duration
}

func newCollection[T any, P record[T]](db *mongo.Database, name, entity string, timeout time.Duration) collection[T, P] {
	return collection[T, P]{coll: db.Collection(name), entity: entity, timeout: timeout}
}

func (c collection[T, P]) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, c.timeout)
}

func (c collection[T, P]) create(ctx context.Context, v P) error {
	ctx, cancel := c.ctx(ctx)
	defer cancel()

	v.EnsureID()
	v.Stamp(time.Now())
	if _, err := c.coll.InsertOne(ctx, v); err != nil {
		return c.wrap("create", err)
	}
	return nil
}

func (c collection[T, P]) get(ctx context.Context, filter bson.M) (*T, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()

	var v T
	if err := c.coll.FindOne(ctx, filter).Decode(&v); err != nil {
		return nil, c.wrap("get", err)
	}
	return &v, nil
}

func (c collection[T, P]) replace(ctx context.Context, id string, v P) error {
	ctx, cancel := c.ctx(ctx)
	defer cancel()

	v.Stamp(time.Now())
	res, err := c.coll.ReplaceOne(ctx, bson.M{"_id": id}, v)
	if err != nil {
		return c.wrap("update", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (c collection[T, P]) delete(ctx context.Context, id string) error {
	ctx, cancel := c.ctx(ctx)
	defer cancel()

	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return c.wrap("delete", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (c collection[T, P]) find(ctx context.Context, filter bson.M, sort int) ([]T, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: sort}})
	cur, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, c.wrap("list", err)
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, c.wrap("decode", err)
	}
	return out, nil
}

func (c collection[T, P]) count(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()

	n, err := c.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, c.wrap("count", err)
	}
	return n, nil
}

func (c collection[T, P]) wrap(op string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("failed to %s %s: %w", op, c.entity, store.ErrDuplicate)
	default:
		return fmt.Errorf("failed to %s %s: %w", op, c.entity, err)
	}
}
