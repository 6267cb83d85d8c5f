package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"linkhub/internal/models"
	"linkhub/internal/pkg"
)

// DocumentCache is the cache used for full profile documents. The
// redis client satisfies it; tests substitute an in-memory fake.
type DocumentCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// ProfileService serves the full profile documents, one JSON file per
// username under the configured data directory, with a short-lived
// cache in front of the filesystem.
type ProfileService struct {
	dataDir  string
	cache    DocumentCache
	cacheTTL time.Duration
	logger   *pkg.Logger
}

// NewProfileService creates a new profile document service. cache may
// be nil, which disables caching.
func NewProfileService(dataDir string, cache DocumentCache, cacheTTL time.Duration, logger *pkg.Logger) *ProfileService {
	return &ProfileService{
		dataDir:  dataDir,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// GetDocument loads the profile document for username. Returns
// ErrInvalidUsername for usernames that fail validation and
// ErrProfileNotFound when no document exists.
func (s *ProfileService) GetDocument(ctx context.Context, username string) (*models.ProfileDocument, error) {
	if pkg.Strings.IsEmpty(username) || !pkg.Strings.IsValidUsername(username) {
		return nil, pkg.ErrInvalidUsername
	}

	cacheKey := "profile_doc:" + username
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
			var doc models.ProfileDocument
			if err := json.Unmarshal([]byte(cached), &doc); err == nil {
				return &doc, nil
			}
		}
	}

	path := filepath.Join(s.dataDir, username+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pkg.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to read profile document: %w", err)
	}

	var doc models.ProfileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse profile document %s: %w", username, err)
	}
	if doc.Username == "" {
		doc.Username = username
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(&doc); err == nil {
			if err := s.cache.Set(ctx, cacheKey, string(encoded), s.cacheTTL); err != nil {
				s.logger.WithFields(map[string]interface{}{
					"username": username,
				}).ErrorWithCause("failed to cache profile document", err)
			}
		}
	}

	return &doc, nil
}

// HasLink reports whether the document carries a link with the given
// URL. Used by click accounting to ignore clicks on unknown links.
func (s *ProfileService) HasLink(doc *models.ProfileDocument, url string) bool {
	for _, link := range doc.Links {
		if link.URL == url {
			return true
		}
	}
	return false
}
