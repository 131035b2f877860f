package db

import (
	"fmt"
	"net/url"
	"time"

	"github.com/vibe-gaming/signup/internal/config"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

func New(cfg config.Database) (*sqlx.DB, error) {
	var (
		driverName string
		dsn        string
		err        error
	)

	switch cfg.Driver {
	case DriverMySQL:
		driverName = "mysql"
		dsn, err = mysqlDSN(cfg)
	case DriverPostgres:
		driverName = "pgx"
		dsn = postgresDSN(cfg)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	dbConn, err := sqlx.Connect(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("db connection failed: %w", err)
	}

	// bind vars follow the dialect name rather than the driver name
	if cfg.Driver == DriverPostgres {
		dbConn = sqlx.NewDb(dbConn.DB, DriverPostgres)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConnections)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConnections)

	if err := dbConn.Ping(); err != nil {
		return nil, err
	}

	return dbConn, nil
}

func mysqlDSN(cfg config.Database) (string, error) {
	location, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return "", fmt.Errorf("time load location failed: %w", err)
	}
	conf := mysql.NewConfig()
	conf.Net = cfg.Net
	conf.Addr = cfg.Server
	conf.User = cfg.User
	conf.Passwd = cfg.Password
	conf.DBName = cfg.DBName
	conf.Timeout = cfg.Timeout
	conf.Loc = location
	conf.ParseTime = true

	return conf.FormatDSN(), nil
}

func postgresDSN(cfg config.Database) string {
	q := url.Values{}
	q.Set("sslmode", cfg.SSLMode)
	q.Set("connect_timeout", fmt.Sprintf("%d", int(cfg.Timeout.Seconds())))
	if cfg.TimeZone != "" {
		q.Set("timezone", cfg.TimeZone)
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Server,
		Path:     "/" + cfg.DBName,
		RawQuery: q.Encode(),
	}

	return u.String()
}
