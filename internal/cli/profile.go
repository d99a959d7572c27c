package cli

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/mrlokans/mylib/internal/api"
	"github.com/mrlokans/mylib/internal/backendconfig"
	"github.com/mrlokans/mylib/internal/config"
	"github.com/mrlokans/mylib/internal/crypto"
	"github.com/mrlokans/mylib/internal/entities"
	"github.com/mrlokans/mylib/internal/pagestate"
	"github.com/mrlokans/mylib/internal/session"
	"github.com/mrlokans/mylib/internal/storage"
	"github.com/mrlokans/mylib/internal/views"
)

// Profile is the local state every command works with: the credentials in the
// durable scope, list positions in the idle-expiring session scope, and a
// client bound to the user's session.
type Profile struct {
	db *gorm.DB

	Local   storage.Store
	Session *storage.Database
	User    *session.Store
	Client  *api.Client
	Nav     *pagestate.Navigator
}

// OpenProfile opens the profile database, loads the runtime config and
// initialises the API client.
func OpenProfile(ctx context.Context, cfg *config.Config) (*Profile, error) {
	db, err := storage.OpenDatabase(cfg.Profile.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile: %w", err)
	}

	key, err := crypto.ResolveKey(cfg.Profile.EncryptionKey, cfg.Profile.KeyFile)
	if err != nil {
		closeDB(db)
		return nil, fmt.Errorf("failed to resolve token encryption key: %w", err)
	}
	encryptor, err := crypto.NewEncryptorFromBase64(key)
	if err != nil {
		closeDB(db)
		return nil, fmt.Errorf("invalid token encryption key: %w", err)
	}

	local := storage.NewSealed(storage.NewDatabase(db, storage.ScopeLocal), encryptor, entities.StorageKeyAuthToken)
	sessionScope := storage.NewDatabase(db, storage.ScopeSession, storage.WithIdleTimeout(cfg.Profile.SessionIdle))
	if n, err := sessionScope.PurgeExpired(); err != nil {
		log.Printf("WARNING: %v", err)
	} else if n > 0 {
		log.Printf("Purged %d expired session entries", n)
	}

	user := session.New(local)

	backend := backendconfig.NewLoader(cfg.Runtime.ConfigSource).Load(ctx)
	registry := api.NewRegistry()
	client, err := registry.Init(backend, user, api.WithTimeout(cfg.Client.RequestTimeout))
	if err != nil {
		closeDB(db)
		return nil, err
	}

	return &Profile{
		db:      db,
		Local:   local,
		Session: sessionScope,
		User:    user,
		Client:  client,
		Nav:     pagestate.NewNavigator(sessionScope, views.NavigatorOptions()),
	}, nil
}

func (p *Profile) Close() error {
	return closeDB(p.db)
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// requireLogin fails early for commands the backend only serves to users.
func (p *Profile) requireLogin() error {
	if !p.User.State().IsAuthenticated {
		return ErrNotLoggedIn
	}
	return nil
}
