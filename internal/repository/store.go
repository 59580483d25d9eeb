// Package repository is the Mongo store-access layer. Every collection gets
// the same generic operations, pagination included, so entity types stay
// plain structs.
package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/embedded-iot/unified-be/internal/constants"
	"github.com/embedded-iot/unified-be/internal/models"
)

var (
	ErrNotFound     = errors.New("repository: document not found")
	ErrDuplicateKey = errors.New("repository: duplicate key")
)

// PageRequest selects a 1-based page. Values below 1 fall back to the defaults
// and Limit is capped at constants.MaxLimit.
type PageRequest struct {
	Page  int
	Limit int
}

func (p PageRequest) normalized() PageRequest {
	if p.Page < 1 {
		p.Page = constants.DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = constants.DefaultLimit
	}
	if p.Limit > constants.MaxLimit {
		p.Limit = constants.MaxLimit
	}
	return p
}

// Skip is the number of documents before the page. It saturates at
// math.MaxInt64, which simply yields an empty page.
func (p PageRequest) Skip() int64 {
	p = p.normalized()
	before, limit := int64(p.Page-1), int64(p.Limit)
	if before > math.MaxInt64/limit {
		return math.MaxInt64
	}
	return before * limit
}

// newestFirst orders by creation time; _id breaks ties so the last inserted wins.
var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

type collection[T any] struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func newCollection[T any](coll *mongo.Collection, timeout time.Duration) collection[T] {
	if timeout <= 0 {
		timeout = constants.DefaultStoreTimeout
	}
	return collection[T]{coll: coll, timeout: timeout}
}

// opContext detaches the store call from request cancellation; only the timeout bounds it.
func (c collection[T]) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
}

func (c collection[T]) insert(ctx context.Context, doc *T) error {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert into %s: %w", c.coll.Name(), ErrDuplicateKey)
		}
		return fmt.Errorf("insert into %s: %w", c.coll.Name(), err)
	}
	return nil
}

func (c collection[T]) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*T, error) {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	var doc T
	if err := c.coll.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find in %s: %w", c.coll.Name(), err)
	}
	return &doc, nil
}

func (c collection[T]) findByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return c.findOne(ctx, bson.M{"_id": id})
}

func (c collection[T]) latest(ctx context.Context, filter bson.M) (*T, error) {
	return c.findOne(ctx, filter, options.FindOne().SetSort(newestFirst))
}

func (c collection[T]) exists(ctx context.Context, filter bson.M) (bool, error) {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	n, err := c.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count in %s: %w", c.coll.Name(), err)
	}
	return n > 0, nil
}

// paginate counts the matches, then fetches the requested page newest first.
func (c collection[T]) paginate(ctx context.Context, filter bson.M, page PageRequest) (*models.Page[T], error) {
	page = page.normalized()

	ctx, cancel := c.opContext(ctx)
	defer cancel()

	total, err := c.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count in %s: %w", c.coll.Name(), err)
	}

	cursor, err := c.coll.Find(ctx, filter, FindPageOptions(page))
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", c.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var results []T
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.coll.Name(), err)
	}

	return models.NewPage(results, page.Page, page.Limit, total), nil
}

// updateByID applies set and returns the document as stored after the update.
func (c collection[T]) updateByID(ctx context.Context, id primitive.ObjectID, set bson.M) (*T, error) {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc T
	err := c.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("update %s: %w", c.coll.Name(), ErrDuplicateKey)
		}
		return nil, fmt.Errorf("update %s: %w", c.coll.Name(), err)
	}
	return &doc, nil
}

func (c collection[T]) deleteByID(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete from %s: %w", c.coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
