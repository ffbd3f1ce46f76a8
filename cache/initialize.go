package cache

import (
	"os"

	"github.com/umakantv/go-utils/cache"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// InitializeCache builds the in-process cache used for the admin article
// listing. The tool is single-process by design, so the memory backend is
// enough; mutations invalidate the cached listing explicitly.
func InitializeCache() cache.Cache {
	cache, err := cache.New(cache.Config{
		Type: "memory",
	})
	if err != nil {
		logger.Error("Failed to initialize cache:", zap.Error(err))
		os.Exit(1)
	}
	return cache
}
