package usecase

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/aresdata/esports-etl/internal/domain/tournament"
	"github.com/aresdata/esports-etl/internal/platform/logging"
)

type stubTournamentRepo struct {
	activeByName  map[string][]tournament.Tournament
	nearestByName map[string]tournament.Tournament
	activeCalls   []string
	nearestCalls  []string
}

func (s *stubTournamentRepo) Reconcile(context.Context, string, string, *time.Time, tournament.Attrs) (int64, error) {
	return 0, nil
}

func (s *stubTournamentRepo) FindActiveOn(_ context.Context, name, _ string, _ time.Time) ([]tournament.Tournament, error) {
	s.activeCalls = append(s.activeCalls, name)
	return s.activeByName[name], nil
}

func (s *stubTournamentRepo) FindNearest(_ context.Context, name, _ string, _ time.Time) (tournament.Tournament, bool, error) {
	s.nearestCalls = append(s.nearestCalls, name)
	t, ok := s.nearestByName[name]
	return t, ok, nil
}

func date(value string) time.Time {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(value string) *time.Time {
	t := date(value)
	return &t
}

func TestTournamentNameCandidates(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "colon stage suffix",
			raw:  "PGL Major Copenhagen 2024: Opening Stage",
			want: []string{
				"PGL Major Copenhagen 2024: Opening Stage",
				"PGL Major Copenhagen 2024",
			},
		},
		{
			name: "underscores and play-in",
			raw:  "IEM_Katowice_2025_Play-In",
			want: []string{
				"IEM Katowice 2025 Play-In",
				"IEM Katowice 2025",
			},
		},
		{
			name: "iterative stripping keeps intermediates",
			raw:  "VCT 2024: Pacific Stage 1 - Playoffs",
			want: []string{
				"VCT 2024: Pacific Stage 1 - Playoffs",
				"VCT 2024: Pacific Stage 1",
				"VCT 2024: Pacific",
				"VCT 2024",
			},
		},
		{
			name: "dash separator prefix",
			raw:  "ESL Pro League Season 19 - Group Stage",
			want: []string{
				"ESL Pro League Season 19 - Group Stage",
				"ESL Pro League Season 19",
			},
		},
		{
			name: "no suffix",
			raw:  "BLAST Premier World Final 2024",
			want: []string{"BLAST Premier World Final 2024"},
		},
		{
			name: "blank",
			raw:  "   ",
			want: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := tournamentNameCandidates(tc.raw)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("candidates mismatch\nwant: %#v\ngot:  %#v", tc.want, got)
			}
		})
	}
}

func TestResolveTriesCandidatesInOrder(t *testing.T) {
	t.Parallel()

	repo := &stubTournamentRepo{
		activeByName: map[string][]tournament.Tournament{
			"PGL Major Copenhagen 2024": {
				{ID: 7, Name: "PGL Major Copenhagen 2024", GameID: "cs2", StartDate: datePtr("2024-03-17"), EndDate: datePtr("2024-03-31")},
			},
		},
	}
	resolver := newTournamentResolver(repo, logging.NewNop())

	got, found, err := resolver.Resolve(context.Background(), "PGL Major Copenhagen 2024: Opening Stage", "cs2", date("2024-03-18"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !found || got.ID != 7 {
		t.Fatalf("expected tournament 7, got found=%v id=%d", found, got.ID)
	}

	wantCalls := []string{"PGL Major Copenhagen 2024: Opening Stage", "PGL Major Copenhagen 2024"}
	if !reflect.DeepEqual(repo.activeCalls, wantCalls) {
		t.Fatalf("candidate order mismatch\nwant: %v\ngot:  %v", wantCalls, repo.activeCalls)
	}
	if len(repo.nearestCalls) != 0 {
		t.Fatalf("nearest fallback must not run after a containment hit, got %v", repo.nearestCalls)
	}
}

func TestResolveAmbiguityKeepsLatestStart(t *testing.T) {
	t.Parallel()

	repo := &stubTournamentRepo{
		activeByName: map[string][]tournament.Tournament{
			"ESL Pro League": {
				{ID: 1, Name: "ESL Pro League", GameID: "cs2", StartDate: datePtr("2024-01-01"), EndDate: datePtr("2024-12-31")},
				{ID: 2, Name: "ESL Pro League", GameID: "cs2", StartDate: datePtr("2024-04-01"), EndDate: datePtr("2024-04-20")},
			},
		},
	}
	resolver := newTournamentResolver(repo, logging.NewNop())

	got, found, err := resolver.Resolve(context.Background(), "ESL Pro League", "cs2", date("2024-04-10"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !found || got.ID != 2 {
		t.Fatalf("expected latest-start tournament 2, got found=%v id=%d", found, got.ID)
	}
}

func TestResolveFallsBackToNearestStart(t *testing.T) {
	t.Parallel()

	repo := &stubTournamentRepo{
		nearestByName: map[string]tournament.Tournament{
			"IEM Katowice 2025": {ID: 3, Name: "IEM Katowice 2025", GameID: "cs2", StartDate: datePtr("2025-01-29")},
		},
	}
	resolver := newTournamentResolver(repo, logging.NewNop())

	got, found, err := resolver.Resolve(context.Background(), "IEM Katowice 2025", "cs2", date("2025-02-15"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !found || got.ID != 3 {
		t.Fatalf("expected nearest tournament 3, got found=%v id=%d", found, got.ID)
	}
	if len(repo.nearestCalls) != 1 || repo.nearestCalls[0] != "IEM Katowice 2025" {
		t.Fatalf("nearest fallback must use the first candidate only, got %v", repo.nearestCalls)
	}
}

func TestResolveMissIsNotAnError(t *testing.T) {
	t.Parallel()

	resolver := newTournamentResolver(&stubTournamentRepo{}, logging.NewNop())

	got, found, err := resolver.Resolve(context.Background(), "Unknown Cup", "cs2", date("2024-06-01"))
	if err != nil {
		t.Fatalf("a miss must not be an error, got %v", err)
	}
	if found || got.ID != 0 {
		t.Fatalf("expected absent result, got found=%v id=%d", found, got.ID)
	}
}
