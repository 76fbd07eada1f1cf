package command

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kapu/poketeam-kakao-bot-go/internal/adapter"
	"github.com/kapu/poketeam-kakao-bot-go/internal/domain"
	"github.com/kapu/poketeam-kakao-bot-go/internal/pager"
	"github.com/kapu/poketeam-kakao-bot-go/internal/service"
	"go.uber.org/zap"
)

type memoryStore struct {
	mu     sync.Mutex
	teams  []domain.Team
	nextID int
}

func newMemoryStore(teams ...domain.Team) *memoryStore {
	s := &memoryStore{nextID: 1}
	for _, team := range teams {
		team.ID = s.nextID
		s.nextID++
		s.teams = append(s.teams, team)
	}
	return s
}

func (s *memoryStore) Add(_ context.Context, team domain.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	team.ID = s.nextID
	s.nextID++
	s.teams = append(s.teams, team)
	return nil
}

func (s *memoryStore) ExistsByURL(_ context.Context, url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, team := range s.teams {
		if team.URL == url {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryStore) FindAll(_ context.Context) ([]domain.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Team(nil), s.teams...), nil
}

func (s *memoryStore) FindByGeneration(_ context.Context, generation string) ([]domain.Team, error) {
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

func (s *memoryStore) UpdateStyle(_ context.Context, url, style string) (bool, error) {
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

func (s *memoryStore) DeleteByURL(_ context.Context, url string) (bool, error) {
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

func (s *memoryStore) DeleteByID(_ context.Context, id int) (bool, error) {
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

func (s *memoryStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.teams)
}

type staticResolver struct {
	rosters map[string]domain.Roster
}

func newStaticResolver() *staticResolver {
	return &staticResolver{rosters: make(map[string]domain.Roster)}
}

func (r *staticResolver) set(url string, names ...string) {
	roster := domain.NotFoundRoster()
	copy(roster[:], names)
	r.rosters[url] = roster
}

func (r *staticResolver) Resolve(_ context.Context, url string) domain.Roster {
	if roster, ok := r.rosters[url]; ok {
		return roster
	}
	return domain.NotFoundRoster()
}

// messageSink records every outgoing message and signals arrivals, so tests
// can wait for sends made from session goroutines.
type messageSink struct {
	mu       sync.Mutex
	messages []string
	errors   []string
	notify   chan struct{}
}

func newMessageSink() *messageSink {
	return &messageSink{notify: make(chan struct{}, 32)}
}

func (s *messageSink) send(_, message string) error {
	s.mu.Lock()
	s.messages = append(s.messages, message)
	s.mu.Unlock()
	s.notify <- struct{}{}
	return nil
}

func (s *messageSink) sendError(_, message string) error {
	s.mu.Lock()
	s.errors = append(s.errors, message)
	s.mu.Unlock()
	s.notify <- struct{}{}
	return nil
}

func (s *messageSink) wait(t *testing.T) string {
	t.Helper()
	select {
	case <-s.notify:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for an outgoing message")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.errors) > 0 && len(s.messages) == 0 {
		return s.errors[len(s.errors)-1]
	}
	return s.messages[len(s.messages)-1]
}

func (s *messageSink) lastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.errors) == 0 {
		return ""
	}
	return s.errors[len(s.errors)-1]
}

func (s *messageSink) messageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

type testEnv struct {
	deps     *Dependencies
	store    *memoryStore
	resolver *staticResolver
	sink     *messageSink
}

func newTestEnv(t *testing.T, teams ...domain.Team) *testEnv {
	t.Helper()
	store := newMemoryStore(teams...)
	resolver := newStaticResolver()
	sink := newMessageSink()
	logger := zap.NewNop()

	deps := &Dependencies{
		Teams:            service.NewTeamService(store, resolver, logger),
		Rosters:          resolver,
		Sessions:         pager.NewManager(logger),
		Formatter:        adapter.NewResponseFormatter("!"),
		SendMessage:      sink.send,
		SendError:        sink.sendError,
		PasteHostPrefix:  "https://pokepast.es/",
		AddTeamAdminOnly: true,
		PagerTimeout:     time.Minute,
		PageSize:         pager.DefaultPageSize,
		Logger:           logger,
	}
	return &testEnv{deps: deps, store: store, resolver: resolver, sink: sink}
}

func adminCtx(room string) *domain.CommandContext {
	return domain.NewCommandContext(room, "admin", "", true)
}

func userCtx(room, sender string) *domain.CommandContext {
	return domain.NewCommandContext(room, sender, "", false)
}

func seedTeams(n int) []domain.Team {
	teams := make([]domain.Team, n)
	for i := range teams {
		teams[i] = domain.Team{
			Generation: "gen9ou",
			URL:        fmt.Sprintf("https://pokepast.es/%d", i+1),
		}
	}
	return teams
}
