package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("team_id", "team_name").
		From("teams").
		Where(Eq("game_id", "cs2"), IsNull("location")).
		OrderBy("team_id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT team_id, team_name FROM teams WHERE game_id = $1 AND location IS NULL ORDER BY team_id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "cs2" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderRangeConditions(t *testing.T) {
	query, args, err := Select("tournament_id").
		From("tournaments").
		Where(
			Eq("tournament_name", "Major"),
			Lte("start_date", "2024-05-01"),
			Gte("end_date", "2024-05-01"),
		).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT tournament_id FROM tournaments WHERE tournament_name = $1 AND start_date <= $2 AND end_date >= $3"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("teams").
		Columns("team_name", "game_id").
		Values("Astralis", "cs2").
		Suffix("RETURNING team_id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO teams (team_name, game_id) VALUES ($1, $2) RETURNING team_id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "Astralis" || args[1] != "cs2" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilderMultiRow(t *testing.T) {
	query, args, err := InsertInto("team_rosters").
		Columns("team_id", "player_id").
		Values(int64(1), int64(10)).
		Values(int64(1), int64(11)).
		Suffix("ON CONFLICT (team_id, player_id) DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO team_rosters (team_id, player_id) VALUES ($1, $2), ($3, $4) ON CONFLICT (team_id, player_id) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("teams").
		Set("region", "Europe").
		SetExpr("is_disbanded", "FALSE").
		Where(Eq("team_id", int64(7))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE teams SET region = $1, is_disbanded = FALSE WHERE team_id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "Europe" || args[1] != int64(7) {
		t.Fatalf("unexpected args: %+v", args)
	}
}
