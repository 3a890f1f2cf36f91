package repository

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-kivik/kivik/v4"
	_ "github.com/go-kivik/kivik/v4/couchdb"
)

const (
	userDocType  = "user"
	emailDocType = "email"
	noteDocType  = "note"

	notesDesignDoc = "notes"
	notesIndexName = "by-owner"
)

// OpenCouchDB connects to the CouchDB server at url, creates dbName when it
// does not exist and ensures the Mango index used by note listings.
func OpenCouchDB(ctx context.Context, url, dbName string) (*kivik.Client, error) {
	client, err := kivik.New("couch", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to CouchDB: %w", err)
	}

	exists, err := client.DBExists(ctx, dbName)
	if err != nil {
		return nil, fmt.Errorf("failed to check database existence: %w", err)
	}

	if !exists {
		if err := client.CreateDB(ctx, dbName); err != nil && kivik.HTTPStatus(err) != http.StatusPreconditionFailed {
			return nil, fmt.Errorf("failed to create database: %w", err)
		}
	}

	index := map[string]interface{}{
		"fields": []string{"type", "user_id"},
	}
	if err := client.DB(dbName).CreateIndex(ctx, notesDesignDoc, notesIndexName, index); err != nil {
		return nil, fmt.Errorf("failed to create notes index: %w", err)
	}

	return client, nil
}

func userDocID(id string) string {
	return fmt.Sprintf("user:%s", id)
}

func emailDocID(email string) string {
	return fmt.Sprintf("email:%s", email)
}

func noteDocID(id string) string {
	return fmt.Sprintf("note:%s", id)
}

func isNotFound(err error) bool {
	return kivik.HTTPStatus(err) == http.StatusNotFound
}

func isConflict(err error) bool {
	return kivik.HTTPStatus(err) == http.StatusConflict
}
