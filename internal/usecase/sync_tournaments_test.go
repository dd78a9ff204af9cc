package usecase

import (
	"testing"
)

func TestTournamentWeight(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		tier     string
		prize    float64
		minPrize float64
		maxPrize float64
		want     float64
	}{
		{name: "top tier max prize", tier: "1", prize: 1_000_000, minPrize: 0, maxPrize: 1_000_000, want: 100},
		{name: "tier three no prize", tier: "3", prize: 0, minPrize: 0, maxPrize: 1_000_000, want: 35},
		{name: "mid prize", tier: "2", prize: 500_000, minPrize: 0, maxPrize: 1_000_000, want: 67.5},
		{name: "qualifier", tier: "Qualifier", prize: 0, minPrize: 0, maxPrize: 0, want: 10.5},
		{name: "show match", tier: "Show Match", prize: 0, minPrize: 0, maxPrize: 0, want: 7},
		{name: "unknown tier defaults", tier: "Weekly", prize: 0, minPrize: 0, maxPrize: 0, want: 7},
		{name: "flat prizes count as full share", tier: "1", prize: 5000, minPrize: 5000, maxPrize: 5000, want: 100},
		{name: "flat zero prizes", tier: "1", prize: 0, minPrize: 0, maxPrize: 0, want: 70},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := tournamentWeight(tc.tier, tc.prize, tc.minPrize, tc.maxPrize)
			if got != tc.want {
				t.Fatalf("tournamentWeight(%q, %v, %v, %v) = %v, want %v",
					tc.tier, tc.prize, tc.minPrize, tc.maxPrize, got, tc.want)
			}
		})
	}
}

func TestPrizeRangeTreatsMissingAsZero(t *testing.T) {
	t.Parallel()

	prize := 250_000.0
	items := []ExternalTournament{
		{Name: "A", PrizePool: &prize},
		{Name: "B"},
	}

	minPrize, maxPrize := prizeRange(items)
	if minPrize != 0 || maxPrize != 250_000 {
		t.Fatalf("prizeRange = (%v, %v), want (0, 250000)", minPrize, maxPrize)
	}
}

func TestNormalizeStages(t *testing.T) {
	t.Parallel()

	got, err := normalizeStages([]string{"series", "Teams"})
	if err != nil {
		t.Fatalf("normalizeStages: %v", err)
	}
	if len(got) != 2 || got[0] != StageTeams || got[1] != StageSeries {
		t.Fatalf("expected dependency order [teams series], got %v", got)
	}

	all, err := normalizeStages(nil)
	if err != nil {
		t.Fatalf("normalizeStages(nil): %v", err)
	}
	if len(all) != len(stageOrder) {
		t.Fatalf("empty request must mean all stages, got %v", all)
	}

	if _, err := normalizeStages([]string{"maps"}); err == nil {
		t.Fatalf("expected error for unknown stage")
	}
}

func TestStaffAndSubstituteClassification(t *testing.T) {
	t.Parallel()

	if !isStaffEntry("Coach", "") {
		t.Fatalf("coach role must be staff")
	}
	if !isStaffEntry("IGL", "Staff") {
		t.Fatalf("staff type must be staff regardless of role")
	}
	if isStaffEntry("AWPer", "Player") {
		t.Fatalf("playing role must not be staff")
	}
	if !isSubstituteRole("Substitute") || !isSubstituteRole("sub") {
		t.Fatalf("substitute roles not detected")
	}
	if isSubstituteRole("Rifler") {
		t.Fatalf("rifler is not a substitute")
	}
}

func TestDedupeSeriesKeepsFirst(t *testing.T) {
	t.Parallel()

	one, two := 1, 2
	items := []ExternalSeries{
		{ExternalID: "m1", BestOf: 3, Score1: &one},
		{ExternalID: "m1", BestOf: 5, Score1: &two},
		{ExternalID: "", BestOf: 3},
		{ExternalID: "m2", BestOf: 3},
	}

	got := dedupeSeries(items)
	if len(got) != 2 {
		t.Fatalf("expected 2 series, got %d", len(got))
	}
	if got[0].ExternalID != "m1" || got[0].BestOf != 3 {
		t.Fatalf("first occurrence must win, got %+v", got[0])
	}
	if got[1].ExternalID != "m2" {
		t.Fatalf("expected m2 second, got %+v", got[1])
	}
}
