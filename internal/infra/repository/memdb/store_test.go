package memdb

import (
	"testing"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/dbtest"
	"github.com/stretchr/testify/suite"
)

func TestMemoryStore(t *testing.T) {
	suite.Run(t, &dbtest.StoreSuite{NewStore: func() db.IStore { return NewStore() }})
}
