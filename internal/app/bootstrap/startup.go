// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	userstore "github.com/dalemusser/crewdeck/internal/app/store/users"
	"github.com/dalemusser/crewdeck/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Startup runs one-time initialization after DB connections and schema
// setup are complete, but before the HTTP handler is built.
//
// CrewDeck uses it to seed the initial manager account: signup only
// creates members, so a fresh install has no way to mint a manager
// without this.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.SeedManagerUsername == "" {
		return nil
	}

	db := deps.CrewDeckMongoDatabase

	n, err := db.Collection("users").CountDocuments(ctx, bson.M{"role": models.RoleManager})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	users := userstore.New(db)
	_, err = users.Create(ctx, appCfg.SeedManagerUsername, appCfg.SeedManagerName,
		appCfg.SeedManagerPassword, models.RoleManager)
	if err != nil {
		// Two instances racing the same seed is fine; one wins.
		if errors.Is(err, userstore.ErrDuplicateUsername) {
			return nil
		}
		return err
	}

	logger.Info("seeded initial manager account",
		zap.String("username", appCfg.SeedManagerUsername))
	return nil
}
