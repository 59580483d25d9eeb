package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RecordQuery selects event records of one owner inside an inclusive creation window.
type RecordQuery struct {
	OwnerID primitive.ObjectID // zero matches every owner
	From    *time.Time
	To      *time.Time
	PageRequest
}

// BuildRecordFilter translates q into a filter on ownerField and createdAt.
// A From after To is passed through as is and simply matches nothing.
func BuildRecordFilter(ownerField string, q RecordQuery) bson.M {
	filter := bson.M{}
	if !q.OwnerID.IsZero() {
		filter[ownerField] = q.OwnerID
	}

	created := bson.M{}
	if q.From != nil {
		created["$gte"] = *q.From
	}
	if q.To != nil {
		created["$lte"] = *q.To
	}
	if len(created) > 0 {
		filter["createdAt"] = created
	}
	return filter
}

// FindPageOptions returns skip/limit/sort for page, newest first.
func FindPageOptions(page PageRequest) *options.FindOptions {
	page = page.normalized()
	return options.Find().
		SetSort(newestFirst).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))
}

func ownerFilter(ownerField string, owner primitive.ObjectID) bson.M {
	if owner.IsZero() {
		return bson.M{}
	}
	return bson.M{ownerField: owner}
}
