package postgres

import (
	"database/sql"
	"time"
)

type matchRecordTableModel struct {
	ID               int64         `db:"id"`
	MatchID          string        `db:"match_id"`
	UserID           int64         `db:"user_id"`
	Category         string        `db:"category"`
	PlayedAt         time.Time     `db:"played_at"`
	Result           string        `db:"result"`
	GoalsFor         int           `db:"goals_for"`
	GoalsAgainst     int           `db:"goals_against"`
	PenaltyFor       sql.NullInt64 `db:"penalty_for"`
	PenaltyAgainst   sql.NullInt64 `db:"penalty_against"`
	OpponentOUID     string        `db:"opponent_ouid"`
	OpponentNickname string        `db:"opponent_nickname"`
	RawPayload       []byte        `db:"raw_payload"`
	ExtractedAt      *time.Time    `db:"extracted_at"`
	CreatedAt        time.Time     `db:"created_at"`
	UpdatedAt        time.Time     `db:"updated_at"`
}

// raw_payload is jsonb; lib/pq would send a []byte as bytea.
type matchRecordInsertModel struct {
	MatchID          string    `db:"match_id"`
	UserID           int64     `db:"user_id"`
	Category         string    `db:"category"`
	PlayedAt         time.Time `db:"played_at"`
	Result           string    `db:"result"`
	GoalsFor         int       `db:"goals_for"`
	GoalsAgainst     int       `db:"goals_against"`
	PenaltyFor       *int      `db:"penalty_for"`
	PenaltyAgainst   *int      `db:"penalty_against"`
	OpponentOUID     string    `db:"opponent_ouid"`
	OpponentNickname string    `db:"opponent_nickname"`
	RawPayload       string    `db:"raw_payload"`
}

type insertedRowModel struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
