package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/kapu/poketeam-kakao-bot-go/internal/domain"
	"go.uber.org/zap"
)

type fakeStore struct {
	mu     sync.Mutex
	teams  []domain.Team
	nextID int
}

func newFakeStore(teams ...domain.Team) *fakeStore {
	s := &fakeStore{nextID: 1}
	for _, team := range teams {
		team.ID = s.nextID
		s.nextID++
		s.teams = append(s.teams, team)
	}
	return s
}

func (s *fakeStore) Add(_ context.Context, team domain.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	team.ID = s.nextID
	s.nextID++
	s.teams = append(s.teams, team)
	return nil
}

func (s *fakeStore) ExistsByURL(_ context.Context, url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, team := range s.teams {
		if team.URL == url {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) FindAll(_ context.Context) ([]domain.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Team(nil), s.teams...), nil
}

func (s *fakeStore) FindByGeneration(_ context.Context, generation string) ([]domain.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Team
	for _, team := range s.teams {
		if strings.EqualFold(team.Generation, generation) {
			out = append(out, team)
		}
	}
	return out, nil
}

func (s *fakeStore) UpdateStyle(_ context.Context, url, style string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.teams {
		if s.teams[i].URL == url {
			s.teams[i].Style = &style
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) DeleteByURL(_ context.Context, url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.teams {
		if s.teams[i].URL == url {
			s.teams = append(s.teams[:i], s.teams[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) DeleteByID(_ context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.teams {
		if s.teams[i].ID == id {
			s.teams = append(s.teams[:i], s.teams[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.teams)
}

type fakeResolver struct {
	mu      sync.Mutex
	rosters map[string]domain.Roster
	calls   int
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{rosters: make(map[string]domain.Roster)}
}

func (r *fakeResolver) set(url string, names ...string) {
	roster := domain.NotFoundRoster()
	copy(roster[:], names)
	r.rosters[url] = roster
}

func (r *fakeResolver) Resolve(_ context.Context, url string) domain.Roster {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if roster, ok := r.rosters[url]; ok {
		return roster
	}
	return domain.FetchErrorRoster()
}

func styleOf(s string) *string { return &s }

func TestAddTeamReportsDuplicateURL(t *testing.T) {
	store := newFakeStore(domain.Team{Generation: "gen9ou", URL: "https://pokepast.es/a"})
	svc := NewTeamService(store, newFakeResolver(), zap.NewNop())

	dup, err := svc.AddTeam(context.Background(), domain.Team{Generation: "gen9uu", URL: "https://pokepast.es/a"})
	if err != nil {
		t.Fatal(err)
	}
	if !dup {
		t.Error("duplicate URL not reported")
	}
	if store.count() != 2 {
		t.Errorf("team count = %d, want 2 (duplicates are still stored)", store.count())
	}

	dup, err = svc.AddTeam(context.Background(), domain.Team{Generation: "gen9ou", URL: "https://pokepast.es/b"})
	if err != nil {
		t.Fatal(err)
	}
	if dup {
		t.Error("fresh URL reported as duplicate")
	}
}

func TestQueryGenerationIsCaseInsensitive(t *testing.T) {
	store := newFakeStore(
		domain.Team{Generation: "Gen9OU", URL: "https://pokepast.es/a"},
		domain.Team{Generation: "gen9uu", URL: "https://pokepast.es/b"},
	)
	svc := NewTeamService(store, newFakeResolver(), zap.NewNop())

	teams, err := svc.Query(context.Background(), "gen9ou", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(teams) != 1 || teams[0].URL != "https://pokepast.es/a" {
		t.Fatalf("teams = %v", teams)
	}
}

func TestQueryStyleMatchWinsOverRosterMatch(t *testing.T) {
	// A style literally named after a Pokémon: style matching must win, so the
	// resolver is never consulted when a style label matches exactly.
	store := newFakeStore(
		domain.Team{Generation: "gen9ou", Style: styleOf("Garchomp"), URL: "https://pokepast.es/styled"},
		domain.Team{Generation: "gen9ou", Style: styleOf("rain"), URL: "https://pokepast.es/roster"},
	)
	resolver := newFakeResolver()
	resolver.set("https://pokepast.es/roster", "Garchomp", "Pelipper")
	svc := NewTeamService(store, resolver, zap.NewNop())

	teams, err := svc.Query(context.Background(), "gen9ou", []string{"garchomp"})
	if err != nil {
		t.Fatal(err)
	}
	if len(teams) != 1 || teams[0].URL != "https://pokepast.es/styled" {
		t.Fatalf("teams = %v, want only the style match", teams)
	}
	if resolver.calls != 0 {
		t.Errorf("resolver consulted %d times despite style match", resolver.calls)
	}
}

func TestQueryFallsBackToRosterMembership(t *testing.T) {
	store := newFakeStore(
		domain.Team{Generation: "gen9ou", Style: styleOf("rain"), URL: "https://pokepast.es/rain"},
		domain.Team{Generation: "gen9ou", Style: styleOf("sand"), URL: "https://pokepast.es/sand"},
	)
	resolver := newFakeResolver()
	resolver.set("https://pokepast.es/rain", "Pelipper", "Barraskewda")
	resolver.set("https://pokepast.es/sand", "Tyranitar", "Excadrill")
	svc := NewTeamService(store, resolver, zap.NewNop())

	teams, err := svc.Query(context.Background(), "gen9ou", []string{"Excadrill"})
	if err != nil {
		t.Fatal(err)
	}
	if len(teams) != 1 || teams[0].URL != "https://pokepast.es/sand" {
		t.Fatalf("teams = %v, want the roster match", teams)
	}
}

func TestQueryMultiWordFilterMatchesStyle(t *testing.T) {
	store := newFakeStore(
		domain.Team{Generation: "gen9ou", Style: styleOf("Hyper-Offense"), URL: "https://pokepast.es/ho"},
		domain.Team{Generation: "gen9ou", Style: styleOf("stall"), URL: "https://pokepast.es/stall"},
	)
	svc := NewTeamService(store, newFakeResolver(), zap.NewNop())

	// Separator folding: "hyper offense" must match the "Hyper-Offense" label.
	teams, err := svc.Query(context.Background(), "gen9ou", []string{"hyper", "offense"})
	if err != nil {
		t.Fatal(err)
	}
	if len(teams) != 1 || teams[0].URL != "https://pokepast.es/ho" {
		t.Fatalf("teams = %v", teams)
	}
}

func TestQueryFetchFailureNeverAbortsBatch(t *testing.T) {
	store := newFakeStore(
		domain.Team{Generation: "gen9ou", URL: "https://pokepast.es/up"},
		domain.Team{Generation: "gen9ou", URL: "https://pokepast.es/down"},
	)
	resolver := newFakeResolver()
	resolver.set("https://pokepast.es/up", "Kingambit")
	// /down left unset, the resolver answers with a fetch-error roster.
	svc := NewTeamService(store, resolver, zap.NewNop())

	teams, err := svc.Query(context.Background(), "gen9ou", []string{"kingambit"})
	if err != nil {
		t.Fatal(err)
	}
	if len(teams) != 1 || teams[0].URL != "https://pokepast.es/up" {
		t.Fatalf("teams = %v, want the reachable match only", teams)
	}
}

func TestDeleteBannedCountsRemovedRecords(t *testing.T) {
	store := newFakeStore(
		domain.Team{Generation: "gen9ou", URL: "https://pokepast.es/1"},
		domain.Team{Generation: "gen9ou", URL: "https://pokepast.es/2"},
		domain.Team{Generation: "gen9ou", URL: "https://pokepast.es/3"},
		domain.Team{Generation: "gen9uu", URL: "https://pokepast.es/4"},
	)
	resolver := newFakeResolver()
	resolver.set("https://pokepast.es/1", "Flutter Mane", "Kingambit")
	resolver.set("https://pokepast.es/2", "Gholdengo")
	resolver.set("https://pokepast.es/3", "Flutter-Mane")
	resolver.set("https://pokepast.es/4", "Flutter Mane")
	svc := NewTeamService(store, resolver, zap.NewNop())

	deleted, err := svc.DeleteBanned(context.Background(), "gen9ou", "flutter mane")
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 2 {
		t.Fatalf("deleted = %d, want 2 (other generations untouched)", deleted)
	}
	if store.count() != 2 {
		t.Fatalf("remaining = %d, want 2", store.count())
	}
}

func TestUpdateStyleReportsMissingURL(t *testing.T) {
	store := newFakeStore(domain.Team{Generation: "gen9ou", URL: "https://pokepast.es/a"})
	svc := NewTeamService(store, newFakeResolver(), zap.NewNop())

	ok, err := svc.UpdateStyle(context.Background(), "https://pokepast.es/missing", "rain")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("update against unknown URL reported success")
	}

	ok, err = svc.UpdateStyle(context.Background(), "https://pokepast.es/a", "rain")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("update against known URL reported failure")
	}
}
