// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/crewdeck/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection and returns the deps bundle
// the rest of the lifecycle hooks receive.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		CrewDeckMongoClient:   client,
		CrewDeckMongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates the indexes the stores rely on. It is idempotent;
// Mongo treats an identical existing index as a no-op.
//
// The unique indexes back store-level duplicate checks (usernames, title
// names, group names) and the per-group message ordering.
func EnsureSchema(ctx context.Context, db *mongo.Database) error {
	type spec struct {
		collection string
		model      mongo.IndexModel
	}

	unique := options.Index().SetUnique(true)
	specs := []spec{
		{"users", mongo.IndexModel{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: unique,
		}},
		{"titles", mongo.IndexModel{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: unique,
		}},
		{"groups", mongo.IndexModel{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: unique,
		}},
		{"messages", mongo.IndexModel{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "seq", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{"chat_seen", mongo.IndexModel{
			Keys:    bson.D{{Key: "username", Value: 1}, {Key: "group_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{"shifts", mongo.IndexModel{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{"shift_attendance", mongo.IndexModel{
			Keys:    bson.D{{Key: "shift_id", Value: 1}, {Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{"reminders", mongo.IndexModel{
			Keys: bson.D{{Key: "username", Value: 1}, {Key: "done", Value: 1}},
		}},
		{"tasks", mongo.IndexModel{
			Keys: bson.D{{Key: "assigned_username", Value: 1}, {Key: "done", Value: 1}},
		}},
	}

	for _, s := range specs {
		if _, err := db.Collection(s.collection).Indexes().CreateOne(ctx, s.model); err != nil {
			return fmt.Errorf("create index on %s: %w", s.collection, err)
		}
	}
	return nil
}
