package workers

import (
	"context"

	"gorm.io/gorm"

	"github.com/billpap123/artepovera-backend-sub000/internal/logger"
	"github.com/billpap123/artepovera-backend-sub000/internal/services"
	"github.com/billpap123/artepovera-backend-sub000/internal/tasks"
)

// LikeWorker runs the fan-out of a new like: the "new like" notification and
// the mutual-match chat with its two notifications.
type LikeWorker struct {
	db    *gorm.DB
	likes services.LikeService
}

func NewLikeWorker(db *gorm.DB, likes services.LikeService) *LikeWorker {
	return &LikeWorker{db: db, likes: likes}
}

// Register binds the like fan-out task on server.
func (w *LikeWorker) Register(server tasks.Server) {
	server.Register(tasks.TypeLikeFanOut, w.handleLikeFanOut)
}

func (w *LikeWorker) handleLikeFanOut(ctx context.Context, t tasks.Task) error {
	p, err := tasks.ParseLikePayload(t)
	if err != nil {
		// malformed payloads never succeed, retrying is pointless
		logger.CtxWithError(ctx, "like:fanout: bad payload", err)
		return nil
	}
	ctx = logger.WithUserID(ctx, p.ActorID)
	return w.likes.HandleLikeFanOut(ctx, w.db.WithContext(ctx), p)
}
