package models

import (
	"testing"
	"time"
)

func TestDeriveSurface(t *testing.T) {
	tests := []struct {
		name    string
		tourney string
		want    Surface
	}{
		{"Empty name", "", SurfaceUnknown},
		{"Whitespace only", "   ", SurfaceUnknown},
		{"Explicit clay tag", "Buenos Aires Challenger (Clay)", SurfaceClay},
		{"Explicit grass tag", "Exhibition (grass)", SurfaceGrass},
		{"Explicit hard tag", "Roland Garros Special (Hard)", SurfaceHard},
		{"Tag beats keyword", "Wimbledon warm-up (clay)", SurfaceClay},
		{"Wimbledon", "Wimbledon", SurfaceGrass},
		{"Queens", "Queens Club Championships", SurfaceGrass},
		{"Halle", "Terra Wortmann Open Halle", SurfaceGrass},
		{"Hertogenbosch", "Libema Open 's-Hertogenbosch", SurfaceGrass},
		{"Newport", "Hall of Fame Open Newport", SurfaceGrass},
		{"Roland Garros", "Roland Garros", SurfaceClay},
		{"French Open", "French Open", SurfaceClay},
		{"Monte Carlo", "Monte Carlo Masters", SurfaceClay},
		{"Madrid", "Madrid Open", SurfaceClay},
		{"Rome", "Rome Masters", SurfaceClay},
		{"Default hard", "Australian Open", SurfaceHard},
		{"Case insensitive", "WIMBLEDON", SurfaceGrass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveSurface(tt.tourney); got != tt.want {
				t.Errorf("DeriveSurface(%q) = %v, want %v", tt.tourney, got, tt.want)
			}
		})
	}
}

func TestParseSurface(t *testing.T) {
	tests := []struct {
		in   string
		want Surface
	}{
		{"Hard", SurfaceHard},
		{"hard", SurfaceHard},
		{" CLAY ", SurfaceClay},
		{"Grass", SurfaceGrass},
		{"Carpet", SurfaceUnknown},
		{"", SurfaceUnknown},
		{"whatever", SurfaceUnknown},
	}

	for _, tt := range tests {
		if got := ParseSurface(tt.in); got != tt.want {
			t.Errorf("ParseSurface(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetsFromScore(t *testing.T) {
	tests := []struct {
		score string
		want  int
	}{
		{"6-4 6-3", 2},
		{"6-4 3-6 7-6(4)", 3},
		{"6-0 6-0 6-0", 3},
		{"6-4 RET", 2},
		{"W/O", 1},
		{"", 0},
		{"   ", 0},
	}

	for _, tt := range tests {
		if got := SetsFromScore(tt.score); got != tt.want {
			t.Errorf("SetsFromScore(%q) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestMatchCanonicalPair(t *testing.T) {
	date := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	lowerWon := Match{MatchID: "m1", Date: date, WinnerID: 10, LoserID: 20}
	if lowerWon.P1() != 10 || lowerWon.P2() != 20 {
		t.Errorf("canonical pair = (%d,%d), want (10,20)", lowerWon.P1(), lowerWon.P2())
	}
	if lowerWon.Label() != 1 {
		t.Errorf("label = %d, want 1 when min id won", lowerWon.Label())
	}

	higherWon := Match{MatchID: "m2", Date: date, WinnerID: 20, LoserID: 10}
	if higherWon.P1() != 10 || higherWon.P2() != 20 {
		t.Errorf("canonical pair = (%d,%d), want (10,20)", higherWon.P1(), higherWon.P2())
	}
	if higherWon.Label() != 0 {
		t.Errorf("label = %d, want 0 when max id won", higherWon.Label())
	}
}

func TestMatchValidate(t *testing.T) {
	date := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		match   Match
		wantErr bool
	}{
		{"Valid", Match{MatchID: "ok", Date: date, WinnerID: 1, LoserID: 2}, false},
		{"Zero date", Match{MatchID: "d", WinnerID: 1, LoserID: 2}, true},
		{"Missing winner", Match{MatchID: "w", Date: date, LoserID: 2}, true},
		{"Missing loser", Match{MatchID: "l", Date: date, WinnerID: 1}, true},
		{"Negative id", Match{MatchID: "n", Date: date, WinnerID: -5, LoserID: 2}, true},
		{"Self match", Match{MatchID: "s", Date: date, WinnerID: 7, LoserID: 7}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.match.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeHand(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"R", "R"},
		{"r", "R"},
		{"L", "L"},
		{"l", "L"},
		{"", "U"},
		{"A", "U"},
	}

	for _, tt := range tests {
		if got := NormalizeHand(tt.in); got != tt.want {
			t.Errorf("NormalizeHand(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
