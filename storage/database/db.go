package database

import (
	"net/url"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

func Open() (*sqlx.DB, error) {
	conf := core.Conf

	sslMode := "require"
	if conf.GetBool("database.disableTLS") {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   conf.GetString("database.engine"),
		User:     url.UserPassword(conf.GetString("database.user"), conf.GetString("database.password")),
		Host:     conf.GetString("database.host") + ":" + conf.GetString("database.port"),
		Path:     conf.GetString("database.name"),
		RawQuery: q.Encode(),
	}
	db, err := sqlx.Open(conf.GetString("database.engine"), u.String())
	if err != nil {
		return nil, errors.Wrap(err, "opening DB")
	}
	return db, nil
}

// Ping waits for the database to be ready. Waits 100ms longer between each attempt.
func Ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// Migrate applies all pending schema migrations.
func Migrate(db *sqlx.DB) error {
	driver, err := migratepg.WithInstance(db.DB, &migratepg.Config{})
	if err != nil {
		return errors.Wrap(err, "preparing migration driver")
	}
	m, err := migrate.NewWithDatabaseInstance(
		"file://"+core.Conf.GetString("migrationsDir"),
		core.Conf.GetString("database.name"),
		driver,
	)
	if err != nil {
		return errors.Wrap(err, "loading migrations")
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return errors.Wrap(err, "applying migrations")
	}
	return nil
}
