package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	er "github.com/RoyceAzure/lab/storefront/internal/pkg/rj_error"
	"github.com/stretchr/testify/require"
)

func TestRepoErr(t *testing.T) {
	testCases := []struct {
		name    string
		err     error
		code    er.ErrorCode
		message string
	}{
		{name: "not found", err: fmt.Errorf("find: %w", db.ErrNotFound), code: er.NotFoundCode, message: "order not found"},
		{name: "duplicate", err: db.ErrDuplicateKey, code: er.ConflictCode, message: "order already exists"},
		{name: "already coded", err: er.New(er.BadRequestCode, "bad"), code: er.BadRequestCode, message: "bad"},
		{name: "driver error hidden", err: errors.New("connection reset by peer 10.0.0.7:27017"), code: er.InternalErrorCode, message: MsgInternalError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := repoErr(tc.err, "order")
			var anaErr *er.AnaError
			require.ErrorAs(t, err, &anaErr)
			require.Equal(t, tc.code, anaErr.Code)
			require.Equal(t, tc.message, anaErr.Message)
		})
	}
	require.NoError(t, repoErr(nil, "order"))
}
