package repository

import (
	"context"
	"fmt"
)

const (
	DriverCouchDB = "couchdb"
	DriverMongo   = "mongo"
)

// Store bundles the repositories of one backend with its connection
// lifecycle.
type Store struct {
	Users UserRepository
	Notes NoteRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Open connects to the backend named by driver.
func Open(ctx context.Context, driver, url, dbName string) (*Store, error) {
	switch driver {
	case DriverCouchDB:
		client, err := OpenCouchDB(ctx, url, dbName)
		if err != nil {
			return nil, err
		}
		return &Store{
			Users: NewUserRepository(client, dbName),
			Notes: NewNoteRepository(client, dbName),
			ping: func(ctx context.Context) error {
				up, err := client.Ping(ctx)
				if err != nil {
					return err
				}
				if !up {
					return fmt.Errorf("couchdb is not available")
				}
				return nil
			},
			close: func(context.Context) error {
				return client.Close()
			},
		}, nil

	case DriverMongo:
		client, err := OpenMongo(ctx, url, dbName)
		if err != nil {
			return nil, err
		}
		db := client.Database(dbName)
		return &Store{
			Users: NewMongoUserRepository(db),
			Notes: NewMongoNoteRepository(db),
			ping: func(ctx context.Context) error {
				return client.Ping(ctx, nil)
			},
			close: client.Disconnect,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	return s.close(ctx)
}
