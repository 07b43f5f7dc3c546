// Package thumbnails suggests course cover images.
package thumbnails

import (
	"context"
	"log"
	"strings"
	"time"

	"eduquiz/backend/models"
)

// Photo is one suggested image.
type Photo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	URL         string `json:"url"`
	ThumbURL    string `json:"thumb_url"`
	Author      string `json:"author"`
}

type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]Photo, error)
}

// Defaults is served when no image search is configured or the search fails.
var Defaults = []Photo{
	{ID: "default-learning", Description: "Study desk", URL: models.DefaultThumbnailURL, ThumbURL: models.DefaultThumbnailURL},
	{ID: "default-react", Description: "Code on a screen", URL: "https://images.unsplash.com/photo-1633356122102-3fe601e05bd2?w=800&auto=format&fit=crop", ThumbURL: "https://images.unsplash.com/photo-1633356122102-3fe601e05bd2?w=200&auto=format&fit=crop"},
	{ID: "default-js", Description: "Laptop with code", URL: "https://images.unsplash.com/photo-1579468118864-1b9ea3c0db4a?w=800&auto=format&fit=crop", ThumbURL: "https://images.unsplash.com/photo-1579468118864-1b9ea3c0db4a?w=200&auto=format&fit=crop"},
}

const DefaultLimit = 9

type Service struct {
	searcher Searcher
	cache    Cache
	ttl      time.Duration
	logger   *log.Logger
}

// NewService wires a searcher and cache; either may be nil.
func NewService(searcher Searcher, cache Cache, ttl time.Duration, logger *log.Logger) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	return &Service{searcher: searcher, cache: cache, ttl: ttl, logger: logger}
}

// Suggest returns up to limit photos for query, consulting the cache first.
func (s *Service) Suggest(ctx context.Context, query string, limit int) ([]Photo, bool, error) {
	query = strings.ToLower(strings.Join(strings.Fields(query), " "))
	if limit <= 0 || limit > 30 {
		limit = DefaultLimit
	}
	if s.searcher == nil || query == "" {
		return Defaults, false, nil
	}

	key := cacheKey(query, limit)
	var photos []Photo
	hit, err := s.cache.Get(ctx, key, &photos)
	if err != nil {
		s.logger.Printf("thumbnail cache read failed: %v", err)
	}
	if hit {
		return photos, true, nil
	}

	photos, err = s.searcher.Search(ctx, query, limit)
	if err != nil {
		return nil, false, err
	}
	if err := s.cache.Set(ctx, key, photos, s.ttl); err != nil {
		s.logger.Printf("thumbnail cache write failed: %v", err)
	}
	return photos, false, nil
}
