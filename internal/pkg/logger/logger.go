package logger

import (
	"io"
	"os"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const moduleName = "storefront"

/*
NewLogger 依環境建立 logger，同時設為 zerolog 全域 logger
debug/development 使用 console 格式，其他環境輸出 json
extra writer 會一起收到相同的 log
*/
func NewLogger(env, level string, extra ...io.Writer) *zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = os.Stdout
	switch constants.ENV(env) {
	case constants.Debug, constants.Dev:
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}
	if len(extra) > 0 {
		out = zerolog.MultiLevelWriter(append([]io.Writer{out}, extra...)...)
	}

	l := zerolog.New(out).With().Timestamp().Str("module", moduleName).Logger()
	log.Logger = l
	return &l
}
