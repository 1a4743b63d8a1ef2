package cache

import (
	"log/slog"
	"sync"

	"github.com/anjiri1684/agriconnect/models"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ExpertCache holds approved expert profiles by id. A disabled cache misses on every Get.
type ExpertCache struct {
	enabled bool
	mu      sync.RWMutex
	cache   *lru.Cache[uuid.UUID, models.Expert]
	logger  *slog.Logger
}

func NewExpertCache(enabled bool, size int, logger *slog.Logger) (*ExpertCache, error) {
	if size <= 0 {
		size = 1
	}
	c, err := lru.New[uuid.UUID, models.Expert](size)
	if err != nil {
		return nil, err
	}
	return &ExpertCache{enabled: enabled, cache: c, logger: logger}, nil
}

func (c *ExpertCache) Get(id uuid.UUID) (*models.Expert, bool) {
	if !c.enabled {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.cache.Get(id)
	if !ok {
		c.logger.Debug("cache.experts.miss", "expert_id", id)
		return nil, false
	}
	return &e, true
}

func (c *ExpertCache) Store(e models.Expert) {
	if !c.enabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Add(e.ID, e)
}

func (c *ExpertCache) Invalidate(id uuid.UUID) {
	if !c.enabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Remove(id)
}

func (c *ExpertCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cache.Len()
}
