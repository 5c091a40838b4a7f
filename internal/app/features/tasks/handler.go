// internal/app/features/tasks/handler.go
package tasks

import (
	uierrors "github.com/dalemusser/crewdeck/internal/app/features/errors"
	taskstore "github.com/dalemusser/crewdeck/internal/app/store/tasks"
	userstore "github.com/dalemusser/crewdeck/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level handler for the task board.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Tasks  *taskstore.Store
	Users  *userstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
		Tasks:  taskstore.New(db),
		Users:  userstore.New(db),
	}
}
