package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/embedded-iot/unified-be/internal/constants"
)

// latestFirst backs both listing and latest-record lookups for an owner.
func latestFirst(owner string) mongo.IndexModel {
	return mongo.IndexModel{Keys: bson.D{{Key: owner, Value: 1}, {Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}
}

var collectionIndexes = []struct {
	collection string
	models     []mongo.IndexModel
}{
	{constants.MastersCollection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "masterKey", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user", Value: 1}}},
	}},
	{constants.GatewaysCollection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "gatewayId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "master", Value: 1}}},
	}},
	{constants.DevicesCollection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "gateway", Value: 1}, {Key: "deviceId", Value: 1}}, Options: options.Index().SetUnique(true)},
	}},
	{constants.ActivityLogsCollection, []mongo.IndexModel{latestFirst("master"), {Keys: bson.D{{Key: "createdAt", Value: -1}}}}},
	{constants.FaultsCollection, []mongo.IndexModel{latestFirst("gateway"), latestFirst("device"), {Keys: bson.D{{Key: "createdAt", Value: -1}}}}},
}

// EnsureIndexes creates the uniqueness and listing indexes. Existing indexes are left as they are.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	for _, ci := range collectionIndexes {
		if _, err := database.Collection(ci.collection).Indexes().CreateMany(ctx, ci.models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", ci.collection, err)
		}
	}
	return nil
}
