package db

import (
	"context"
	"fmt"
	"net/url"

	_ "github.com/go-kivik/kivik/v4/couchdb"

	"github.com/go-kivik/kivik/v4"
)

type CouchConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

func (c CouchConfig) URL() string {
	u := url.URL{
		Scheme: "http",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%s", c.Host, c.Port),
	}
	return u.String()
}

// OpenCouch connects to CouchDB and creates the notes database when missing.
// The returned bool reports whether the database was created.
func OpenCouch(ctx context.Context, cfg CouchConfig) (*kivik.Client, bool, error) {
	client, err := kivik.New("couch", cfg.URL())
	if err != nil {
		return nil, false, fmt.Errorf("failed to connect to CouchDB: %w", err)
	}

	exists, err := client.DBExists(ctx, cfg.Database)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check database existence: %w", err)
	}

	if exists {
		return client, false, nil
	}

	if err := client.CreateDB(ctx, cfg.Database); err != nil {
		return nil, false, fmt.Errorf("failed to create database: %w", err)
	}

	return client, true, nil
}
