package liquipedia

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const testDelay = 5 * time.Millisecond

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient:   server.Client(),
		BaseURL:      server.URL,
		APIKey:       "test-key",
		UserAgent:    "esports-etl-test/1.0 (ops@example.com)",
		RequestDelay: testDelay,
		PageLimit:    2,
	})
	return client, server
}

func resultBody(names ...string) string {
	items := make([]string, 0, len(names))
	for _, name := range names {
		items = append(items, fmt.Sprintf(`{"name":%q}`, name))
	}
	return `{"result":[` + strings.Join(items, ",") + `]}`
}

func TestFetchAllPaginatesUntilShortPage(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	var offsets []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		offsets = append(offsets, r.URL.Query().Get("offset"))

		switch r.URL.Query().Get("offset") {
		case "0":
			fmt.Fprint(w, resultBody("a", "b"))
		case "2":
			fmt.Fprint(w, resultBody("c", "d"))
		default:
			fmt.Fprint(w, resultBody("e"))
		}
	})

	records, err := client.FetchAll(context.Background(), Query{Endpoint: "team", Wiki: "counterstrike"})
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}
	if got := requests.Load(); got != 3 {
		t.Fatalf("expected 3 requests, got %d", got)
	}
	want := []string{"0", "2", "4"}
	for i, offset := range want {
		if offsets[i] != offset {
			t.Fatalf("request %d used offset %s, want %s", i, offsets[i], offset)
		}
	}
}

func TestFetchAllStopsOnEmptyFirstPage(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		fmt.Fprint(w, `{"result":[]}`)
	})

	records, err := client.FetchAll(context.Background(), Query{Endpoint: "team", Wiki: "valorant"})
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
	if got := requests.Load(); got != 1 {
		t.Fatalf("expected a single request, got %d", got)
	}
}

func TestFetchAllSleepsAfterEveryRequest(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") == "0" || r.URL.Query().Get("offset") == "2" {
			fmt.Fprint(w, resultBody("a", "b"))
			return
		}
		fmt.Fprint(w, `{"result":[]}`)
	})

	start := time.Now()
	if _, err := client.FetchAll(context.Background(), Query{Endpoint: "match", Wiki: "counterstrike"}); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	// Three requests means at least three full delays, the last one included.
	if elapsed := time.Since(start); elapsed < 3*testDelay {
		t.Fatalf("expected at least %v elapsed for 3 requests, got %v", 3*testDelay, elapsed)
	}
}

func TestFetchAllRequiresWiki(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		fmt.Fprint(w, `{"result":[]}`)
	})

	if _, err := client.FetchAll(context.Background(), Query{Endpoint: "team"}); err == nil {
		t.Fatalf("expected error for missing wiki")
	}
	if _, err := client.FetchAll(context.Background(), Query{Wiki: "valorant"}); err == nil {
		t.Fatalf("expected error for missing endpoint")
	}
	if got := requests.Load(); got != 0 {
		t.Fatalf("validation errors must not reach the network, saw %d requests", got)
	}
}

func TestFetchAllDiscardsPartialResultOnFailure(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") == "0" {
			fmt.Fprint(w, resultBody("a", "b"))
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	})

	records, err := client.FetchAll(context.Background(), Query{Endpoint: "team", Wiki: "counterstrike"})
	if err == nil {
		t.Fatalf("expected error from failing second page")
	}
	if records != nil {
		t.Fatalf("failed fetch must not return a partial result, got %d records", len(records))
	}
}

func TestFetchAllRejectsEnvelopeError(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"result":[],"error":"invalid apikey"}`)
	})

	if _, err := client.FetchAll(context.Background(), Query{Endpoint: "team", Wiki: "counterstrike"}); err == nil {
		t.Fatalf("expected envelope error to fail the fetch")
	}
}

func TestFetchAllSendsAuthHeaders(t *testing.T) {
	t.Parallel()

	var auth, agent, wiki string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		agent = r.Header.Get("User-Agent")
		wiki = r.URL.Query().Get("wiki")
		fmt.Fprint(w, `{"result":[]}`)
	})

	if _, err := client.FetchAll(context.Background(), Query{Endpoint: "player", Wiki: "dota2"}); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if auth != "Apikey test-key" {
		t.Fatalf("unexpected Authorization header %q", auth)
	}
	if !strings.HasPrefix(agent, "esports-etl-test/1.0") {
		t.Fatalf("unexpected User-Agent %q", agent)
	}
	if wiki != "dota2" {
		t.Fatalf("unexpected wiki param %q", wiki)
	}
}

func TestFetchTeamsMapsLocations(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"result":[
			{"name":"Astralis","region":"Europe","status":"active","locations":{"country1":"Denmark","city1":"Copenhagen"}},
			{"pagename":"Team_Liquid","region":"North America","status":"disbanded","locations":"{\"country\":\"United States\"}"},
			{"status":"active"}
		]}`)
	})

	teams, err := client.FetchTeams(context.Background(), "counterstrike")
	if err != nil {
		t.Fatalf("FetchTeams: %v", err)
	}
	if len(teams) != 2 {
		t.Fatalf("expected nameless team dropped, got %d teams", len(teams))
	}

	if teams[0].Location != "Denmark" {
		t.Fatalf("expected country1 location, got %q", teams[0].Location)
	}
	if teams[1].Name != "Team Liquid" {
		t.Fatalf("expected pagename fallback with spaces, got %q", teams[1].Name)
	}
	if teams[1].Location != "United States" {
		t.Fatalf("expected embedded-JSON locations decoded, got %q", teams[1].Location)
	}
	if !teams[1].Disbanded {
		t.Fatalf("expected disbanded status mapped")
	}
}

func TestFetchMatchSeriesMapsOpponents(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"result":[
			{"match2id":"m-1","tournament":"BLAST Premier: Spring Finals","date":"2024-06-14 18:00:00",
			 "match2opponents":[{"name":"NAVI","score":2},{"pagename":"Team_Vitality","score":1}],
			 "winner":"1","bestof":"3","liquipediatier":"1"},
			{"tournament":"orphan row"}
		]}`)
	})

	series, err := client.FetchMatchSeries(context.Background(), "counterstrike", nil, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("FetchMatchSeries: %v", err)
	}
	if len(series) != 1 {
		t.Fatalf("expected id-less match dropped, got %d", len(series))
	}

	got := series[0]
	if got.Opponent1 != "NAVI" || got.Opponent2 != "Team Vitality" {
		t.Fatalf("unexpected opponents %q vs %q", got.Opponent1, got.Opponent2)
	}
	if got.Score1 == nil || *got.Score1 != 2 || got.Score2 == nil || *got.Score2 != 1 {
		t.Fatalf("unexpected scores %v %v", got.Score1, got.Score2)
	}
	if got.BestOf != 3 {
		t.Fatalf("expected string bestof parsed, got %d", got.BestOf)
	}
	if got.PlayedAt == nil || got.PlayedAt.Hour() != 18 {
		t.Fatalf("unexpected played-at %v", got.PlayedAt)
	}
}

func TestRecordAccessors(t *testing.T) {
	t.Parallel()

	rec := Record{
		"name":      "  G2 Esports ",
		"bestof":    float64(5),
		"prizepool": "1250000",
	}
	if rec.Str("name") != "G2 Esports" {
		t.Fatalf("Str must trim, got %q", rec.Str("name"))
	}
	if rec.Int64("bestof") != 5 {
		t.Fatalf("Int64 must accept numbers, got %d", rec.Int64("bestof"))
	}
	if prize, ok := rec.Float64("prizepool"); !ok || prize != 1250000 {
		t.Fatalf("Float64 must parse numeric strings, got %v %v", prize, ok)
	}
	if _, ok := rec.Float64("missing"); ok {
		t.Fatalf("missing key must not parse")
	}
	if parsed := parseDate("0000-01-01"); parsed != nil {
		t.Fatalf("zero date must be absent, got %v", parsed)
	}
}

func TestPauseHonorsContext(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{RequestDelay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := client.pause(ctx); err == nil {
		t.Fatalf("expected context error from cancelled pause")
	}
}

func TestNewClientCapsPageLimit(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{PageLimit: 100000})
	if client.pageLimit != maxPageLimit {
		t.Fatalf("expected page limit capped at %d, got %d", maxPageLimit, client.pageLimit)
	}
	if got := NewClient(ClientConfig{}).pageLimit; got != maxPageLimit {
		t.Fatalf("expected default page limit %d, got %d", maxPageLimit, got)
	}
	if got := NewClient(ClientConfig{PageLimit: 500}).pageLimit; got != 500 {
		t.Fatalf("expected explicit page limit kept, got %d", got)
	}
}
