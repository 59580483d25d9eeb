package db_test

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/embedded-iot/unified-be/internal/db"
)

func TestEnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("creates indexes on every collection", func(mt *mtest.T) {
		for i := 0; i < 5; i++ {
			mt.AddMockResponses(mtest.CreateSuccessResponse())
		}

		if err := db.EnsureIndexes(context.Background(), mt.DB); err != nil {
			mt.Fatalf("EnsureIndexes() error = %v", err)
		}
	})

	mt.Run("reports the failing collection", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 85, Message: "index build failed"}))

		err := db.EnsureIndexes(context.Background(), mt.DB)
		if err == nil {
			mt.Fatal("expected an error")
		}
	})
}
