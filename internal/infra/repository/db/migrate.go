package db

import (
	"errors"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mongodb"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigration 套用 migrations 目錄下的 index 定義，沒有變更時不視為錯誤
func RunMigration(migrationURL, mongoURL, dbName string) error {
	dbSource, err := migrationDatabaseURL(mongoURL, dbName)
	if err != nil {
		return err
	}

	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		return err
	}
	defer migration.Close()

	if err := migration.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// migrate 的 mongodb driver 從 url path 取 database 名稱
func migrationDatabaseURL(mongoURL, dbName string) (string, error) {
	u, err := url.Parse(mongoURL)
	if err != nil {
		return "", err
	}
	u.Path = "/" + dbName
	return u.String(), nil
}
