package service

import (
	"context"

	"github.com/kapu/poketeam-kakao-bot-go/internal/domain"
	"github.com/kapu/poketeam-kakao-bot-go/internal/pokedex"
	"github.com/kapu/poketeam-kakao-bot-go/internal/service/paste"
	"go.uber.org/zap"
)

// DocumentFetcher retrieves the flattened text of an external paste page.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, url string) (string, error)
}

// RosterCache persists resolved rosters keyed by paste URL.
type RosterCache interface {
	GetRoster(ctx context.Context, url string) (domain.Roster, bool, error)
	SetRoster(ctx context.Context, url string, roster domain.Roster) error
}

// RosterService resolves a paste URL to its team roster. The expensive
// fetch+extract path runs at most once per URL: successful extractions are
// cached forever, including partial ones (missing slots are a stable property
// of the document), while fetch failures are returned as sentinel rosters and
// deliberately not cached so a later call can retry.
type RosterService struct {
	fetcher DocumentFetcher
	cache   RosterCache
	dex     *pokedex.Pokedex
	logger  *zap.Logger
}

func NewRosterService(fetcher DocumentFetcher, cache RosterCache, dex *pokedex.Pokedex, logger *zap.Logger) *RosterService {
	return &RosterService{
		fetcher: fetcher,
		cache:   cache,
		dex:     dex,
		logger:  logger,
	}
}

// Resolve returns the roster for a paste URL, from cache when possible.
func (s *RosterService) Resolve(ctx context.Context, url string) domain.Roster {
	if roster, found, err := s.cache.GetRoster(ctx, url); err == nil && found {
		return roster
	} else if err != nil {
		// Cache trouble degrades to a re-fetch, not a user-visible failure.
		s.logger.Warn("Roster cache lookup failed, fetching", zap.String("url", url), zap.Error(err))
	}

	text, err := s.fetcher.FetchDocument(ctx, url)
	if err != nil {
		s.logger.Warn("Paste document unavailable", zap.String("url", url), zap.Error(err))
		return domain.FetchErrorRoster()
	}

	roster := paste.Extract(text, s.dex)

	if err := s.cache.SetRoster(ctx, url, roster); err != nil {
		s.logger.Error("Failed to cache roster", zap.String("url", url), zap.Error(err))
	}

	s.logger.Debug("Roster resolved",
		zap.String("url", url),
		zap.Int("matched", len(roster.Names())),
	)
	return roster
}
