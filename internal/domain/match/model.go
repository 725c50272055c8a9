package match

import (
	"fmt"
	"strings"
	"time"
)

// Category is a match mode as exposed by the public API. Each maps to one
// upstream numeric match type.
type Category string

const (
	CategoryOfficial Category = "official"
	CategoryClassic  Category = "classic"
	CategoryManager  Category = "manager"
	CategoryFriendly Category = "friendly"
)

var upstreamCodes = map[Category]int{
	CategoryOfficial: 50,
	CategoryClassic:  40,
	CategoryManager:  52,
	CategoryFriendly: 30,
}

func ParseCategory(v string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(v)))
	if c == "" {
		return CategoryOfficial, nil
	}
	if _, ok := upstreamCodes[c]; !ok {
		return "", fmt.Errorf("unknown match category %q", v)
	}
	return c, nil
}

func (c Category) UpstreamCode() int {
	return upstreamCodes[c]
}

func Categories() []Category {
	return []Category{CategoryOfficial, CategoryClassic, CategoryManager, CategoryFriendly}
}

type Result string

const (
	ResultWin     Result = "win"
	ResultDraw    Result = "draw"
	ResultLose    Result = "lose"
	ResultUnknown Result = "unknown"
)

// Record is one stored perspective of a contest. The same match id is stored
// once per viewing user, so (MatchID, UserID) is the identity.
type Record struct {
	ID               int64
	MatchID          string
	UserID           int64
	Category         Category
	PlayedAt         time.Time
	Result           Result
	GoalsFor         int
	GoalsAgainst     int
	PenaltyFor       *int
	PenaltyAgainst   *int
	OpponentOUID     string
	OpponentNickname string
	RawPayload       []byte
	ExtractedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Key identifies a record without its surrogate id.
type Key struct {
	MatchID string
	UserID  int64
}
