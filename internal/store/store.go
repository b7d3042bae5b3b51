package store

import (
	"github.com/johnwards/filldb/internal/database"
	"github.com/johnwards/filldb/internal/domain"
)

// Store holds the sub-stores used by the seeder. Task and message stores act
// on behalf of an API client and user, so they are built per caller.
type Store struct {
	DB         database.DBTX
	APIClients APIClientStore
	Users      UserStore
	TreeStates TreeStateStore
}

// New creates a Store with all sub-stores initialized on db. db may be a
// pool, a single connection or a transaction.
func New(db database.DBTX) *Store {
	return &Store{
		DB:         db,
		APIClients: NewSQLiteAPIClientStore(db),
		Users:      NewSQLiteUserStore(db),
		TreeStates: NewSQLiteTreeStateStore(db, domain.DefaultTreeConfig()),
	}
}

// Tasks returns a task store acting for client and user.
func (s *Store) Tasks(client *domain.APIClient, user *domain.StoredUser) TaskStore {
	return NewSQLiteTaskStore(s.DB, client, user)
}

// Messages returns a message store acting for client and user.
func (s *Store) Messages(client *domain.APIClient, user *domain.StoredUser) MessageStore {
	return NewSQLiteMessageStore(s.DB, client, user)
}
