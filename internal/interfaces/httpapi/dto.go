package httpapi

import (
	"time"

	"github.com/riskibarqy/match-history/internal/domain/aggregate"
	"github.com/riskibarqy/match-history/internal/domain/match"
	"github.com/riskibarqy/match-history/internal/domain/performance"
	"github.com/riskibarqy/match-history/internal/domain/shot"
	"github.com/riskibarqy/match-history/internal/platform/fixedpoint"
	"github.com/riskibarqy/match-history/internal/usecase"
	"github.com/shopspring/decimal"
)

type listDTO[T any] struct {
	Items []T `json:"items"`
}

type userDTO struct {
	ID       int64  `json:"id"`
	OUID     string `json:"ouid"`
	Nickname string `json:"nickname"`
}

type matchDTO struct {
	ID               int64     `json:"id"`
	MatchID          string    `json:"match_id"`
	Category         string    `json:"category"`
	PlayedAt         time.Time `json:"played_at"`
	Result           string    `json:"result"`
	GoalsFor         int       `json:"goals_for"`
	GoalsAgainst     int       `json:"goals_against"`
	PenaltyFor       *int      `json:"penalty_for,omitempty"`
	PenaltyAgainst   *int      `json:"penalty_against,omitempty"`
	OpponentOUID     string    `json:"opponent_ouid,omitempty"`
	OpponentNickname string    `json:"opponent_nickname,omitempty"`
	Extracted        bool      `json:"extracted"`
}

type availabilityDTO struct {
	User             userDTO    `json:"user"`
	Category         string     `json:"category"`
	Matches          []matchDTO `json:"matches"`
	Synced           bool       `json:"synced"`
	Degraded         bool       `json:"degraded"`
	MoreDataIncoming *bool      `json:"more_data_incoming,omitempty"`
}

type shotDTO struct {
	Seq             int     `json:"seq"`
	X               string  `json:"x"`
	Y               string  `json:"y"`
	Result          string  `json:"result"`
	RawResult       string  `json:"raw_result"`
	ShotType        int     `json:"shot_type"`
	GameTime        int     `json:"game_time"`
	Period          int     `json:"period"`
	InPenaltyArea   bool    `json:"in_penalty_area"`
	HitPost         bool    `json:"hit_post"`
	ShooterPlayerID int64   `json:"shooter_player_id"`
	AssistX         *string `json:"assist_x,omitempty"`
	AssistY         *string `json:"assist_y,omitempty"`
	AssistPlayerID  *int64  `json:"assist_player_id,omitempty"`
}

type performanceDTO struct {
	UserID             *int64  `json:"user_id,omitempty"`
	SideOUID           string  `json:"side_ouid"`
	PlayerID           int64   `json:"player_id"`
	Position           int     `json:"position"`
	Grade              int     `json:"grade"`
	Rating             string  `json:"rating"`
	Shots              int     `json:"shots"`
	EffectiveShots     int     `json:"effective_shots"`
	Goals              int     `json:"goals"`
	Assists            int     `json:"assists"`
	PassTry            int     `json:"pass_try"`
	PassSuccess        int     `json:"pass_success"`
	DribbleTry         int     `json:"dribble_try"`
	DribbleSuccess     int     `json:"dribble_success"`
	TackleTry          int     `json:"tackle_try"`
	TackleSuccess      int     `json:"tackle_success"`
	Intercepts         int     `json:"intercepts"`
	BlockTry           int     `json:"block_try"`
	Blocks             int     `json:"blocks"`
	YellowCards        int     `json:"yellow_cards"`
	RedCards           int     `json:"red_cards"`
	ShotAccuracy       *string `json:"shot_accuracy"`
	PassAccuracy       *string `json:"pass_accuracy"`
	DribbleSuccessRate *string `json:"dribble_success_rate"`
	TackleSuccessRate  *string `json:"tackle_success_rate"`
	ApproxSaves        *int    `json:"approx_saves,omitempty"`
	SaveRate           *string `json:"save_rate,omitempty"`
}

type aggregateDTO struct {
	UserID   int64                    `json:"user_id"`
	Nickname string                   `json:"nickname"`
	Category string                   `json:"category"`
	Kind     string                   `json:"kind"`
	Window   int                      `json:"window"`
	Form     *aggregate.Form          `json:"form,omitempty"`
	Shots    *aggregate.ShotSummary   `json:"shots,omitempty"`
	Players  *aggregate.PlayerSummary `json:"players,omitempty"`
}

type extractJobDTO struct {
	MatchRecordID   int64 `json:"match_record_id"`
	ShotsStored     int   `json:"shots_stored"`
	ShotsSkipped    int   `json:"shots_skipped"`
	PlayersStored   int   `json:"players_stored"`
	NonParticipants int   `json:"non_participants"`
	Malformed       int   `json:"malformed"`
}

func availabilityFromUsecase(a usecase.Availability) availabilityDTO {
	matches := make([]matchDTO, 0, len(a.Matches))
	for _, m := range a.Matches {
		matches = append(matches, matchFromDomain(m))
	}
	return availabilityDTO{
		User:     userDTO{ID: a.User.ID, OUID: a.User.OUID, Nickname: a.User.Nickname},
		Category: string(a.Category),
		Matches:  matches,
		Synced:   a.Synced,
		Degraded: a.Degraded,
	}
}

func matchFromDomain(m match.Record) matchDTO {
	return matchDTO{
		ID:               m.ID,
		MatchID:          m.MatchID,
		Category:         string(m.Category),
		PlayedAt:         m.PlayedAt,
		Result:           string(m.Result),
		GoalsFor:         m.GoalsFor,
		GoalsAgainst:     m.GoalsAgainst,
		PenaltyFor:       m.PenaltyFor,
		PenaltyAgainst:   m.PenaltyAgainst,
		OpponentOUID:     m.OpponentOUID,
		OpponentNickname: m.OpponentNickname,
		Extracted:        m.ExtractedAt != nil,
	}
}

func shotFromDomain(e shot.Event) shotDTO {
	return shotDTO{
		Seq:             e.Seq,
		X:               e.X.StringFixed(fixedpoint.CoordinateScale),
		Y:               e.Y.StringFixed(fixedpoint.CoordinateScale),
		Result:          string(e.Result),
		RawResult:       string(e.RawResult),
		ShotType:        e.ShotType,
		GameTime:        e.GameTime,
		Period:          e.Period,
		InPenaltyArea:   e.InPenaltyArea,
		HitPost:         e.HitPost,
		ShooterPlayerID: e.ShooterPlayerID,
		AssistX:         decimalString(e.AssistX, fixedpoint.CoordinateScale),
		AssistY:         decimalString(e.AssistY, fixedpoint.CoordinateScale),
		AssistPlayerID:  e.AssistPlayerID,
	}
}

func performanceFromDomain(p performance.Record) performanceDTO {
	return performanceDTO{
		UserID:             p.UserID,
		SideOUID:           p.SideOUID,
		PlayerID:           p.PlayerID,
		Position:           p.Position,
		Grade:              p.Grade,
		Rating:             p.Rating.StringFixed(fixedpoint.PercentScale),
		Shots:              p.Shots,
		EffectiveShots:     p.EffectiveShots,
		Goals:              p.Goals,
		Assists:            p.Assists,
		PassTry:            p.PassTry,
		PassSuccess:        p.PassSuccess,
		DribbleTry:         p.DribbleTry,
		DribbleSuccess:     p.DribbleSuccess,
		TackleTry:          p.TackleTry,
		TackleSuccess:      p.TackleSuccess,
		Intercepts:         p.Intercepts,
		BlockTry:           p.BlockTry,
		Blocks:             p.Blocks,
		YellowCards:        p.YellowCards,
		RedCards:           p.RedCards,
		ShotAccuracy:       decimalString(p.ShotAccuracy, fixedpoint.PercentScale),
		PassAccuracy:       decimalString(p.PassAccuracy, fixedpoint.PercentScale),
		DribbleSuccessRate: decimalString(p.DribbleSuccessRate, fixedpoint.PercentScale),
		TackleSuccessRate:  decimalString(p.TackleSuccessRate, fixedpoint.PercentScale),
		ApproxSaves:        p.ApproxSaves,
		SaveRate:           decimalString(p.SaveRate, fixedpoint.PercentScale),
	}
}

func aggregateFromUsecase(v usecase.AggregateView) aggregateDTO {
	return aggregateDTO{
		UserID:   v.UserID,
		Nickname: v.Nickname,
		Category: string(v.Category),
		Kind:     string(v.Kind),
		Window:   v.Window,
		Form:     v.Form,
		Shots:    v.Shots,
		Players:  v.Players,
	}
}

func aggregateKind(v string) aggregate.Kind {
	return aggregate.Kind(v)
}

func decimalString(d *decimal.Decimal, places int32) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(places)
	return &s
}
