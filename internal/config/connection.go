package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Connection identifies the database to analyze. Callers supply either a full
// postgres:// URI or the discrete fields; the two variants are resolved to a
// single DSN once, before any catalog query runs.
type Connection struct {
	URI      string `json:"uri"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password"`
	SSLMode  string `json:"ssl_mode"`
}

// DSN resolves the connection variant into a pgx connection string.
func (c Connection) DSN() (string, error) {
	if c.URI != "" {
		if !strings.HasPrefix(c.URI, "postgres://") && !strings.HasPrefix(c.URI, "postgresql://") {
			return "", fmt.Errorf("connection URI must use the postgres:// scheme")
		}
		return c.URI, nil
	}

	if c.Host == "" {
		return "", fmt.Errorf("host is required when no connection URI is given")
	}
	if c.Database == "" {
		return "", fmt.Errorf("database is required when no connection URI is given")
	}
	if c.Username == "" {
		return "", fmt.Errorf("username is required when no connection URI is given")
	}
	port := c.Port
	if port == 0 {
		port = 5432
	}
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	// Encode credentials so passwords with reserved characters survive.
	userInfo := url.UserPassword(c.Username, c.Password)
	return fmt.Sprintf(
		"postgres://%s@%s:%d/%s?sslmode=%s",
		userInfo.String(),
		c.Host,
		port,
		url.PathEscape(c.Database),
		sslMode,
	), nil
}

// DatabaseName returns the database the connection points at, used to name
// report artifacts. Falls back to "database" when the URI has no path.
func (c Connection) DatabaseName() string {
	if c.URI == "" {
		return c.Database
	}
	u, err := url.Parse(c.URI)
	if err != nil {
		return "database"
	}
	name := strings.TrimPrefix(u.Path, "/")
	if name == "" {
		return "database"
	}
	return name
}
