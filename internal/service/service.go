// Package service provides the business logic shared by the TUI, CLI and
// HTTP surfaces: prompt composition, library filtering and the
// image-analysis passthrough. Mutations go straight to the store it wraps.
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"promptforge/internal/composer"
	"promptforge/internal/models"
	"promptforge/internal/store"
	"promptforge/internal/vision"
)

// Service ties the store to the composer and the external collaborators.
type Service struct {
	store  *store.Store
	vision *vision.Client
}

// New creates a service around the given store. The vision client may be
// nil when no endpoint is configured.
func New(st *store.Store, vc *vision.Client) *Service {
	return &Service{store: st, vision: vc}
}

// Store exposes the underlying store for mutations.
func (s *Service) Store() *store.Store {
	return s.store
}

// Generate composes a structured prompt from the configuration. Pure
// passthrough to the composer; any artificial delay belongs to the surface.
func (s *Service) Generate(cfg composer.Config) string {
	return composer.Generate(cfg)
}

// Templates returns the built-in starter templates.
func (s *Service) Templates() []models.Template {
	return composer.Templates()
}

// FilteredPrompts applies the store's active filters: collection, favorites
// and required tags narrow the list; a non-empty search query fuzzy-matches
// over title, description and tags and orders the result by match quality.
func (s *Service) FilteredPrompts() []models.Prompt {
	prompts := s.store.Prompts()
	f := s.store.Filters()

	var filtered []models.Prompt
	for _, p := range prompts {
		if f.CollectionID != "" && p.CollectionID != f.CollectionID {
			continue
		}
		if f.FavoritesOnly && !p.Favorite {
			continue
		}
		if !hasAllTags(p, f.Tags) {
			continue
		}
		filtered = append(filtered, p)
	}

	query := strings.TrimSpace(f.Search)
	if query == "" {
		return filtered
	}

	var searchStrings []string
	for _, p := range filtered {
		searchStrings = append(searchStrings, fmt.Sprintf("%s %s %s",
			p.Title,
			p.Description,
			strings.Join(p.Tags, " ")))
	}

	matches := fuzzy.Find(query, searchStrings)
	var results []models.Prompt
	for _, match := range matches {
		results = append(results, filtered[match.Index])
	}
	return results
}

func hasAllTags(p models.Prompt, required []string) bool {
	for _, tag := range required {
		if !p.HasTag(tag) {
			return false
		}
	}
	return true
}

// AllTags returns every distinct tag in the library, sorted.
func (s *Service) AllTags() []string {
	tagMap := make(map[string]bool)
	for _, p := range s.store.Prompts() {
		for _, tag := range p.Tags {
			tagMap[tag] = true
		}
	}
	tags := make([]string, 0, len(tagMap))
	for tag := range tagMap {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// CollectionName resolves a collection id to its display name; unknown and
// empty ids render as "Uncategorized".
func (s *Service) CollectionName(id string) string {
	if id == "" {
		return "Uncategorized"
	}
	if c, ok := s.store.Collection(id); ok {
		return c.Name
	}
	return "Uncategorized"
}

// AnalyzeImage proxies to the image-description service.
func (s *Service) AnalyzeImage(ctx context.Context, imageData, language string) (string, error) {
	if s.vision == nil {
		return "", fmt.Errorf("image analysis is not configured")
	}
	return s.vision.Describe(ctx, imageData, language)
}
