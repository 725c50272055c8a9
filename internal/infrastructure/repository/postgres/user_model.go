package postgres

import "time"

type userTableModel struct {
	ID              int64      `db:"id"`
	OUID            string     `db:"ouid"`
	Nickname        string     `db:"nickname"`
	LastRequestedAt *time.Time `db:"last_requested_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

type userInsertModel struct {
	OUID     string `db:"ouid"`
	Nickname string `db:"nickname"`
}
