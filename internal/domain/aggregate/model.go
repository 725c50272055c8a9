package aggregate

import (
	"fmt"
	"strconv"

	"github.com/riskibarqy/match-history/internal/domain/match"
)

type Kind string

const (
	KindForm    Kind = "form"
	KindShots   Kind = "shots"
	KindPlayers Kind = "players"
)

var kinds = []Kind{KindForm, KindShots, KindPlayers}

var windows = []int{10, 20, 50, 100}

func Kinds() []Kind {
	return append([]Kind(nil), kinds...)
}

func Windows() []int {
	return append([]int(nil), windows...)
}

func ParseKind(v string) (Kind, error) {
	for _, k := range kinds {
		if string(k) == v {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown aggregate kind %q", v)
}

// ValidWindow reports whether window is one of the cached window sizes.
func ValidWindow(window int) bool {
	for _, w := range windows {
		if w == window {
			return true
		}
	}
	return false
}

func CacheKey(kind Kind, userID int64, category match.Category, window int) string {
	return "agg:" + string(kind) + ":" + strconv.FormatInt(userID, 10) + ":" + string(category) + ":" + strconv.Itoa(window)
}

// Keys enumerates every aggregate cache key of (user, category). The list is
// explicit so it can be deleted without a pattern scan.
func Keys(userID int64, category match.Category) []string {
	out := make([]string, 0, len(kinds)*len(windows))
	for _, k := range kinds {
		for _, w := range windows {
			out = append(out, CacheKey(k, userID, category, w))
		}
	}
	return out
}

type Form struct {
	Matches      int `json:"matches"`
	Wins         int `json:"wins"`
	Draws        int `json:"draws"`
	Losses       int `json:"losses"`
	GoalsFor     int `json:"goals_for"`
	GoalsAgainst int `json:"goals_against"`
}

type ShotSummary struct {
	Matches      int            `json:"matches"`
	Total        int            `json:"total"`
	ByResult     map[string]int `json:"by_result"`
	GoalsInBox   int            `json:"goals_in_box"`
	GoalsOutside int            `json:"goals_outside_box"`
}

type PlayerLine struct {
	PlayerID      int64  `json:"player_id"`
	Appearances   int    `json:"appearances"`
	Goals         int    `json:"goals"`
	Assists       int    `json:"assists"`
	AverageRating string `json:"average_rating"`
}

type PlayerSummary struct {
	Matches int          `json:"matches"`
	Players []PlayerLine `json:"players"`
}
