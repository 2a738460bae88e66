package core

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
)

// DefaultPort is the PostgreSQL port used when ConnectionConfig.Port is zero.
const DefaultPort = 5432

// ConnectionConfig holds the credentials of one upload session.
// It is never written to disk.
type ConnectionConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	Database       string
	SSLMode        string
	ConnectTimeout time.Duration
}

// ConnString builds a postgres:// URL for pgx.
func (c ConnectionConfig) ConnString() string {
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", c.Host, port),
		Path:   "/" + c.Database,
	}
	if c.User != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.User, c.Password)
		} else {
			u.User = url.User(c.User)
		}
	}

	query := url.Values{}
	if c.SSLMode != "" {
		query.Set("sslmode", c.SSLMode)
	}
	if c.ConnectTimeout > 0 {
		query.Set("connect_timeout", strconv.Itoa(int(c.ConnectTimeout.Seconds())))
	}
	u.RawQuery = query.Encode()

	return u.String()
}

// String returns the connection target with the password masked.
func (c ConnectionConfig) String() string {
	return fmt.Sprintf("%s@%s:%d/%s", c.User, c.Host, c.portOrDefault(), c.Database)
}

func (c ConnectionConfig) portOrDefault() int {
	if c.Port == 0 {
		return DefaultPort
	}
	return c.Port
}

// Conn is the part of *pgx.Conn the loader needs.
type Conn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Close(ctx context.Context) error
}

// ConnectFunc opens a single, unpooled database connection.
type ConnectFunc func(ctx context.Context, cfg ConnectionConfig) (Conn, error)

// Connect opens a pgx connection for cfg.
func Connect(ctx context.Context, cfg ConnectionConfig) (Conn, error) {
	connCfg, err := pgx.ParseConfig(cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("parse connection config: %w", err)
	}
	conn, err := pgx.ConnectConfig(ctx, connCfg)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// TestConnection makes a single connection attempt and closes it again.
// It never returns an error; failures are reported in the message.
func TestConnection(ctx context.Context, cfg ConnectionConfig) (bool, string) {
	return testConnection(ctx, cfg, Connect)
}

func testConnection(ctx context.Context, cfg ConnectionConfig, connect ConnectFunc) (bool, string) {
	conn, err := connect(ctx, cfg)
	if err != nil {
		return false, err.Error()
	}
	if err := conn.Close(ctx); err != nil {
		return false, err.Error()
	}
	return true, "Connection successful"
}

// ConnectionCheck is the result of validating credentials.
type ConnectionCheck struct {
	OK      bool
	Message string
	Hint    UserMessage // zero when OK
}

// CheckConnection validates cfg and attaches a user hint on failure.
func CheckConnection(ctx context.Context, cfg ConnectionConfig, connect ConnectFunc) ConnectionCheck {
	if connect == nil {
		connect = Connect
	}
	ok, msg := testConnection(ctx, cfg, connect)
	check := ConnectionCheck{OK: ok, Message: msg}
	if !ok {
		check.Hint = MapError(newLoadError(ErrorConnection, errors.New(msg)))
	}
	return check
}
