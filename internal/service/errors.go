package service

import (
	"errors"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	er "github.com/RoyceAzure/lab/storefront/internal/pkg/rj_error"
	"github.com/rs/zerolog/log"
)

// MsgInternalError 非預期的資料庫錯誤只回傳通用訊息，原始錯誤寫入 log
const MsgInternalError = "internal error"

// repoErr 將 repository 錯誤轉為對應的 AnaError
func repoErr(err error, what string) error {
	if err == nil {
		return nil
	}
	var anaErr *er.AnaError
	if errors.As(err, &anaErr) {
		return err
	}
	switch {
	case errors.Is(err, db.ErrNotFound):
		return er.Newf(er.NotFoundCode, "%s not found", what)
	case errors.Is(err, db.ErrDuplicateKey):
		return er.Newf(er.ConflictCode, "%s already exists", what)
	default:
		log.Error().Err(err).Str("resource", what).Msg("repository error")
		return er.New(er.InternalErrorCode, MsgInternalError)
	}
}
