package repository

import (
	"github.com/deppfellow/users-service/internal/logger"
	"github.com/deppfellow/users-service/internal/server"
	"github.com/deppfellow/users-service/internal/store"
)

// Repositories is a container for all repository instances, so callers
// pass one value around instead of many.
type Repositories struct {
	Users *UserRepository
}

// NewRepositories builds every repository over the server's bun handle,
// reporting to the server's logger.
func NewRepositories(s *server.Server) *Repositories {
	executor := store.NewBunExecutor(s.DB.Bun)
	sink := logger.NewSink(s.Logger)

	return &Repositories{
		Users: NewUserRepository(executor, sink),
	}
}
