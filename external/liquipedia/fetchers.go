package liquipedia

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aresdata/esports-etl/internal/usecase"
)

// Per-entity fetchers implementing usecase.EsportsDataProvider. Each one owns
// the endpoint's field list and query conditions and flattens raw records
// into the usecase's external structs.

const (
	teamQueryFields       = "pagename,name,region,locations,status"
	playerQueryFields     = "id,pagename,name,nationality,birthdate,status,extradata,teampagename,region,type"
	tournamentQueryFields = "pagename,name,game,startdate,enddate,prizepool,liquipediatier,type,locations,status,organizers"
	squadQueryFields      = "id,name,nationality,role,type,status,joindate,leavedate,newteam,pagename,link"
	matchQueryFields      = "match2id,tournament,game,date,match2opponents,winner,bestof,walkover,finished,status,liquipediatier,pagename"
)

func (c *Client) FetchTeams(ctx context.Context, wiki string) ([]usecase.ExternalTeam, error) {
	records, err := c.FetchAll(ctx, Query{
		Endpoint:   "team",
		Wiki:       wiki,
		Fields:     teamQueryFields,
		Conditions: "[[status::active]]",
		Order:      "name ASC",
	})
	if err != nil {
		return nil, err
	}

	out := make([]usecase.ExternalTeam, 0, len(records))
	for _, rec := range records {
		name := firstNonEmpty(rec.Str("name"), pageNameToTitle(rec.Str("pagename")))
		if name == "" {
			continue
		}

		status := rec.Str("status")
		out = append(out, usecase.ExternalTeam{
			Name:      name,
			Region:    rec.Str("region"),
			Location:  teamLocation(rec),
			Status:    status,
			Disbanded: strings.EqualFold(status, "disbanded"),
		})
	}

	return out, nil
}

// teamLocation prefers the structured locations blob and falls back to the
// flat region field.
func teamLocation(rec Record) string {
	locations := rec.MapVal("locations")
	if locations != nil {
		if loc := firstNonEmpty(
			getString(locations, "country"),
			getString(locations, "country1"),
			getString(locations, "city1"),
			getString(locations, "region1"),
		); loc != "" {
			return loc
		}
	}
	return rec.Str("region")
}

func (c *Client) FetchPlayers(ctx context.Context, wiki string) ([]usecase.ExternalPlayer, error) {
	records, err := c.FetchAll(ctx, Query{
		Endpoint:   "player",
		Wiki:       wiki,
		Fields:     playerQueryFields,
		Conditions: "[[status::Active]] AND ([[type::Player]] OR [[type::player]])",
		Order:      "id ASC",
	})
	if err != nil {
		return nil, err
	}

	out := make([]usecase.ExternalPlayer, 0, len(records))
	skipped := 0
	for _, rec := range records {
		// The "id" field is the player handle and doubles as the natural key.
		nickname := rec.Str("id")
		if nickname == "" {
			skipped++
			continue
		}

		out = append(out, usecase.ExternalPlayer{
			Nickname:    nickname,
			PageName:    rec.Str("pagename"),
			Nationality: rec.Str("nationality"),
			Status:      rec.Str("status"),
			Role:        playerRole(rec),
			Type:        rec.Str("type"),
			BirthDate:   parseDate(rec.Str("birthdate")),
		})
	}
	if skipped > 0 {
		c.logger.WarnContext(ctx, "players without handle skipped", "wiki", wiki, "skipped", skipped)
	}

	return out, nil
}

func playerRole(rec Record) string {
	extradata := rec.MapVal("extradata")
	if extradata == nil {
		return ""
	}
	return firstNonEmpty(getString(extradata, "role"), getString(extradata, "role2"))
}

func (c *Client) FetchTournaments(ctx context.Context, wiki string, startDateFloor *time.Time) ([]usecase.ExternalTournament, error) {
	// Point-ranking pseudo tournaments pollute containment matching, keep
	// them out at the source.
	conditions := []string{"[[liquipediatiertype::!Points]]"}
	if startDateFloor != nil {
		conditions = append(conditions, fmt.Sprintf("[[startdate::>%s]]", startDateFloor.Format("2006-01-02")))
	}

	records, err := c.FetchAll(ctx, Query{
		Endpoint:   "tournament",
		Wiki:       wiki,
		Fields:     tournamentQueryFields,
		Conditions: strings.Join(conditions, " AND "),
		Order:      "enddate DESC",
	})
	if err != nil {
		return nil, err
	}

	out := make([]usecase.ExternalTournament, 0, len(records))
	for _, rec := range records {
		name := firstNonEmpty(rec.Str("name"), pageNameToTitle(rec.Str("pagename")))
		if name == "" {
			continue
		}

		region, location := tournamentLocation(rec)
		item := usecase.ExternalTournament{
			Name:      name,
			PageName:  rec.Str("pagename"),
			Tier:      rec.Str("liquipediatier"),
			Type:      rec.Str("type"),
			Region:    region,
			Location:  location,
			StartDate: parseDate(rec.Str("startdate")),
			EndDate:   parseDate(rec.Str("enddate")),
		}
		if prize, ok := rec.Float64("prizepool"); ok {
			item.PrizePool = &prize
		}
		out = append(out, item)
	}

	return out, nil
}

func tournamentLocation(rec Record) (string, string) {
	locations := rec.MapVal("locations")
	region := rec.Str("region")
	if locations != nil {
		region = firstNonEmpty(getString(locations, "region1"), region)
	}

	location := ""
	if locations != nil {
		city := getString(locations, "city1")
		country := getString(locations, "country1")
		switch {
		case city != "" && country != "":
			location = city + ", " + country
		case country != "":
			location = country
		case city != "":
			location = city
		default:
			location = region
		}
	}

	return region, location
}

func (c *Client) FetchRosterEntries(ctx context.Context, wiki string) ([]usecase.ExternalRosterEntry, error) {
	// Active squad members only: an empty or zero leave date means the stint
	// is current.
	records, err := c.FetchAll(ctx, Query{
		Endpoint:   "squadplayer",
		Wiki:       wiki,
		Fields:     squadQueryFields,
		Conditions: "[[status::active]] AND ([[leavedate::]] OR [[leavedate::0000-00-00]] OR [[leavedate::0000-01-01]])",
	})
	if err != nil {
		return nil, err
	}

	out := make([]usecase.ExternalRosterEntry, 0, len(records))
	for _, rec := range records {
		teamName := pageNameToTitle(firstNonEmpty(rec.Str("newteam"), rec.Str("pagename")))
		nickname := firstNonEmpty(rec.Str("id"), lastPathSegment(rec.Str("link")))
		if teamName == "" || nickname == "" {
			continue
		}

		out = append(out, usecase.ExternalRosterEntry{
			TeamName:  teamName,
			Nickname:  nickname,
			Role:      rec.Str("role"),
			Type:      rec.Str("type"),
			Status:    rec.Str("status"),
			JoinDate:  parseDate(rec.Str("joindate")),
			LeaveDate: parseDate(rec.Str("leavedate")),
		})
	}

	return out, nil
}

func lastPathSegment(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	parts := strings.Split(link, "/")
	return strings.TrimSpace(parts[len(parts)-1])
}

func (c *Client) FetchMatchSeries(ctx context.Context, wiki string, from *time.Time, to time.Time) ([]usecase.ExternalSeries, error) {
	conditions := []string{
		"[[finished::1]]",
		fmt.Sprintf("[[date::<%s]]", to.UTC().Format("2006-01-02 15:04:05")),
	}
	if from != nil {
		conditions = append(conditions, fmt.Sprintf("[[date::>%s]]", from.UTC().Format("2006-01-02")))
	}

	records, err := c.FetchAll(ctx, Query{
		Endpoint:   "match",
		Wiki:       wiki,
		Fields:     matchQueryFields,
		Conditions: strings.Join(conditions, " AND "),
		Order:      "date ASC",
	})
	if err != nil {
		return nil, err
	}

	out := make([]usecase.ExternalSeries, 0, len(records))
	skipped := 0
	for _, rec := range records {
		externalID := rec.Str("match2id")
		if externalID == "" {
			skipped++
			continue
		}

		item := usecase.ExternalSeries{
			ExternalID:     externalID,
			TournamentName: firstNonEmpty(rec.Str("tournament"), pageNameToTitle(rec.Str("pagename"))),
			PlayedAt:       parseDateTime(rec.Str("date")),
			Winner:         rec.Str("winner"),
			Walkover:       rec.Str("walkover"),
			Tier:           rec.Str("liquipediatier"),
			BestOf:         int(rec.Int64("bestof")),
		}

		opponents := rec.List("match2opponents")
		if len(opponents) > 0 {
			item.Opponent1 = opponentName(opponents[0])
			item.Score1 = opponentScore(opponents[0])
		}
		if len(opponents) > 1 {
			item.Opponent2 = opponentName(opponents[1])
			item.Score2 = opponentScore(opponents[1])
		}

		out = append(out, item)
	}
	if skipped > 0 {
		c.logger.WarnContext(ctx, "matches without id skipped", "wiki", wiki, "skipped", skipped)
	}

	return out, nil
}

func opponentName(opponent map[string]any) string {
	return pageNameToTitle(firstNonEmpty(
		getString(opponent, "name"),
		getString(opponent, "pagename"),
		getString(opponent, "id"),
	))
}

func opponentScore(opponent map[string]any) *int {
	score := Record(opponent).Int64("score")
	if score < 0 {
		return nil
	}
	if _, ok := opponent["score"]; !ok {
		return nil
	}
	value := int(score)
	return &value
}
