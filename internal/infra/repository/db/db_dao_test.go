package db_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/dbtest"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// 需要真實 mongo，未設定 TEST_MONGO_URL 時略過
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URL")
	if uri == "" {
		t.Skip("TEST_MONGO_URL not set")
	}

	n := 0
	suite.Run(t, &dbtest.StoreSuite{NewStore: func() db.IStore {
		n++
		ctx := context.Background()
		dbName := fmt.Sprintf("storefront_test_%d_%d", time.Now().UnixNano(), n)

		require.NoError(t, db.RunMigration("file://migrations", uri, dbName))
		store, err := db.Connect(ctx, uri, dbName)
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = store.DropDatabase(context.Background())
			_ = store.Close(context.Background())
		})
		return store
	}})
}
