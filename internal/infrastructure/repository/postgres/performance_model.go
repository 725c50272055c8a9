package postgres

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type playerPerformanceTableModel struct {
	MatchRecordID      int64               `db:"match_record_id"`
	UserID             sql.NullInt64       `db:"user_id"`
	SideOUID           string              `db:"side_ouid"`
	PlayerID           int64               `db:"player_id"`
	Position           int                 `db:"position"`
	Grade              int                 `db:"grade"`
	Rating             decimal.Decimal     `db:"rating"`
	Shots              int                 `db:"shots"`
	EffectiveShots     int                 `db:"effective_shots"`
	Goals              int                 `db:"goals"`
	Assists            int                 `db:"assists"`
	PassTry            int                 `db:"pass_try"`
	PassSuccess        int                 `db:"pass_success"`
	DribbleTry         int                 `db:"dribble_try"`
	DribbleSuccess     int                 `db:"dribble_success"`
	TackleTry          int                 `db:"tackle_try"`
	TackleSuccess      int                 `db:"tackle_success"`
	Intercepts         int                 `db:"intercepts"`
	BlockTry           int                 `db:"block_try"`
	Blocks             int                 `db:"blocks"`
	YellowCards        int                 `db:"yellow_cards"`
	RedCards           int                 `db:"red_cards"`
	ShotAccuracy       decimal.NullDecimal `db:"shot_accuracy"`
	PassAccuracy       decimal.NullDecimal `db:"pass_accuracy"`
	DribbleSuccessRate decimal.NullDecimal `db:"dribble_success_rate"`
	TackleSuccessRate  decimal.NullDecimal `db:"tackle_success_rate"`
	ApproxSaves        sql.NullInt64       `db:"approx_saves"`
	SaveRate           decimal.NullDecimal `db:"save_rate"`
}

type playerPerformanceInsertModel struct {
	MatchRecordID      int64            `db:"match_record_id"`
	UserID             *int64           `db:"user_id"`
	SideOUID           string           `db:"side_ouid"`
	PlayerID           int64            `db:"player_id"`
	Position           int              `db:"position"`
	Grade              int              `db:"grade"`
	Rating             decimal.Decimal  `db:"rating"`
	Shots              int              `db:"shots"`
	EffectiveShots     int              `db:"effective_shots"`
	Goals              int              `db:"goals"`
	Assists            int              `db:"assists"`
	PassTry            int              `db:"pass_try"`
	PassSuccess        int              `db:"pass_success"`
	DribbleTry         int              `db:"dribble_try"`
	DribbleSuccess     int              `db:"dribble_success"`
	TackleTry          int              `db:"tackle_try"`
	TackleSuccess      int              `db:"tackle_success"`
	Intercepts         int              `db:"intercepts"`
	BlockTry           int              `db:"block_try"`
	Blocks             int              `db:"blocks"`
	YellowCards        int              `db:"yellow_cards"`
	RedCards           int              `db:"red_cards"`
	ShotAccuracy       *decimal.Decimal `db:"shot_accuracy"`
	PassAccuracy       *decimal.Decimal `db:"pass_accuracy"`
	DribbleSuccessRate *decimal.Decimal `db:"dribble_success_rate"`
	TackleSuccessRate  *decimal.Decimal `db:"tackle_success_rate"`
	ApproxSaves        *int             `db:"approx_saves"`
	SaveRate           *decimal.Decimal `db:"save_rate"`
}
