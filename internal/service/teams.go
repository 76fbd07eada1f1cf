package service

import (
	"context"
	"strings"

	"github.com/kapu/poketeam-kakao-bot-go/internal/domain"
	"github.com/kapu/poketeam-kakao-bot-go/internal/util"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// fetchConcurrency bounds how many paste fetches a single bulk operation may
// run in parallel. Keeps delete-banned and roster-fallback queries from
// flooding the paste host when many URLs are uncached.
const fetchConcurrency = 4

// TeamStore is the durable collection of team records.
type TeamStore interface {
	Add(ctx context.Context, team domain.Team) error
	ExistsByURL(ctx context.Context, url string) (bool, error)
	FindAll(ctx context.Context) ([]domain.Team, error)
	FindByGeneration(ctx context.Context, generation string) ([]domain.Team, error)
	UpdateStyle(ctx context.Context, url, style string) (bool, error)
	DeleteByURL(ctx context.Context, url string) (bool, error)
	DeleteByID(ctx context.Context, id int) (bool, error)
}

// RosterResolver resolves a paste URL to its roster, consulting the cache
// first.
type RosterResolver interface {
	Resolve(ctx context.Context, url string) domain.Roster
}

// TeamService implements the query and bulk operations over the team store.
type TeamService struct {
	store   TeamStore
	rosters RosterResolver
	logger  *zap.Logger
}

func NewTeamService(store TeamStore, rosters RosterResolver, logger *zap.Logger) *TeamService {
	return &TeamService{
		store:   store,
		rosters: rosters,
		logger:  logger,
	}
}

// AddTeam inserts a record and reports whether the URL was already present.
func (s *TeamService) AddTeam(ctx context.Context, team domain.Team) (duplicate bool, err error) {
	duplicate, err = s.store.ExistsByURL(ctx, team.URL)
	if err != nil {
		return false, err
	}
	if err := s.store.Add(ctx, team); err != nil {
		return duplicate, err
	}
	return duplicate, nil
}

func (s *TeamService) UpdateStyle(ctx context.Context, url, style string) (bool, error) {
	return s.store.UpdateStyle(ctx, url, style)
}

func (s *TeamService) DeleteTeam(ctx context.Context, url string) (bool, error) {
	return s.store.DeleteByURL(ctx, url)
}

// Query returns the records matching a generation, optionally narrowed by
// filter terms. The joined filter is tried as an exact style label first;
// only when no style matches does the query fall back to roster membership.
// Style wins even when a roster match would also exist, so an administrator
// can name a style after a Pokémon without ambiguity.
func (s *TeamService) Query(ctx context.Context, generation string, filterTerms []string) ([]domain.Team, error) {
	teams, err := s.store.FindByGeneration(ctx, generation)
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 || len(filterTerms) == 0 {
		return teams, nil
	}

	filter := util.NormalizeName(strings.Join(filterTerms, " "))
	if filter == "" {
		return teams, nil
	}

	styleMatches := make([]domain.Team, 0, len(teams))
	for _, team := range teams {
		if team.Style != nil && util.NormalizeName(*team.Style) == filter {
			styleMatches = append(styleMatches, team)
		}
	}
	if len(styleMatches) > 0 {
		return styleMatches, nil
	}

	return s.filterByRosterMember(ctx, teams, filter), nil
}

// filterByRosterMember keeps the teams whose roster contains the filter name.
// Rosters resolve concurrently under the fetch bound; a record whose fetch
// fails simply does not match, it never aborts the batch.
func (s *TeamService) filterByRosterMember(ctx context.Context, teams []domain.Team, member string) []domain.Team {
	rosters := make([]domain.Roster, len(teams))

	p := pool.New().WithMaxGoroutines(fetchConcurrency)
	for i, team := range teams {
		p.Go(func() {
			rosters[i] = s.rosters.Resolve(ctx, team.URL)
		})
	}
	p.Wait()

	matches := make([]domain.Team, 0, len(teams))
	for i, team := range teams {
		if rosters[i].Contains(member) {
			matches = append(matches, team)
		}
	}
	return matches
}

// DeleteBanned removes every record of a generation whose roster contains the
// banned member, returning how many records were removed. Cost is
// proportional to the number of still-uncached matching URLs.
func (s *TeamService) DeleteBanned(ctx context.Context, generation, member string) (int, error) {
	teams, err := s.store.FindByGeneration(ctx, generation)
	if err != nil {
		return 0, err
	}

	matches := s.filterByRosterMember(ctx, teams, member)

	deleted := 0
	for _, team := range matches {
		ok, err := s.store.DeleteByID(ctx, team.ID)
		if err != nil {
			s.logger.Error("Failed to delete banned team",
				zap.Int("id", team.ID),
				zap.String("url", team.URL),
				zap.Error(err),
			)
			continue
		}
		if ok {
			deleted++
		}
	}

	if deleted > 0 {
		s.logger.Info("Banned member purge finished",
			zap.String("generation", generation),
			zap.String("member", member),
			zap.Int("deleted", deleted),
		)
	}
	return deleted, nil
}
