package postgres

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type shotEventTableModel struct {
	MatchRecordID   int64               `db:"match_record_id"`
	Seq             int                 `db:"seq"`
	X               decimal.Decimal     `db:"x"`
	Y               decimal.Decimal     `db:"y"`
	Result          string              `db:"result"`
	RawResult       string              `db:"raw_result"`
	ShotType        int                 `db:"shot_type"`
	GameTime        int                 `db:"game_time"`
	Period          int                 `db:"period"`
	InPenaltyArea   bool                `db:"in_penalty_area"`
	HitPost         bool                `db:"hit_post"`
	ShooterPlayerID int64               `db:"shooter_player_id"`
	AssistX         decimal.NullDecimal `db:"assist_x"`
	AssistY         decimal.NullDecimal `db:"assist_y"`
	AssistPlayerID  sql.NullInt64       `db:"assist_player_id"`
}

type shotEventInsertModel struct {
	MatchRecordID   int64            `db:"match_record_id"`
	Seq             int              `db:"seq"`
	X               decimal.Decimal  `db:"x"`
	Y               decimal.Decimal  `db:"y"`
	Result          string           `db:"result"`
	RawResult       string           `db:"raw_result"`
	ShotType        int              `db:"shot_type"`
	GameTime        int              `db:"game_time"`
	Period          int              `db:"period"`
	InPenaltyArea   bool             `db:"in_penalty_area"`
	HitPost         bool             `db:"hit_post"`
	ShooterPlayerID int64            `db:"shooter_player_id"`
	AssistX         *decimal.Decimal `db:"assist_x"`
	AssistY         *decimal.Decimal `db:"assist_y"`
	AssistPlayerID  *int64           `db:"assist_player_id"`
}
