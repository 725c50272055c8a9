package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/match-history/internal/domain/match"
	"github.com/riskibarqy/match-history/internal/domain/matchdetail"
	"github.com/riskibarqy/match-history/internal/domain/shot"
	"github.com/riskibarqy/match-history/internal/domain/user"
	"github.com/riskibarqy/match-history/internal/platform/fixedpoint"
	"github.com/riskibarqy/match-history/internal/platform/logging"
)

type ShotExtraction struct {
	Stored int
	// Skipped counts events without coordinates.
	Skipped int
}

// ShotExtractor derives the stored shot rows of a record from its raw
// payload. Running it again on the same payload rewrites identical rows.
type ShotExtractor struct {
	users  user.Repository
	shots  shot.Repository
	logger *logging.Logger
}

func NewShotExtractor(users user.Repository, shots shot.Repository, logger *logging.Logger) *ShotExtractor {
	if logger == nil {
		logger = logging.Default()
	}
	return &ShotExtractor{users: users, shots: shots, logger: logger}
}

func (e *ShotExtractor) Extract(ctx context.Context, record match.Record) (ShotExtraction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ShotExtractor.Extract")
	defer span.End()

	side, err := e.ownSide(ctx, record)
	if err != nil {
		return ShotExtraction{}, err
	}

	events, skipped := BuildShotEvents(record.ID, side)
	if skipped > 0 {
		e.logger.InfoContext(ctx, "skipped shot events without coordinates", "match_record_id", record.ID, "skipped", skipped)
	}

	if err := e.shots.ReplaceForMatch(ctx, record.ID, events); err != nil {
		return ShotExtraction{}, fmt.Errorf("replace shot events: %w", err)
	}
	return ShotExtraction{Stored: len(events), Skipped: skipped}, nil
}

func (e *ShotExtractor) ownSide(ctx context.Context, record match.Record) (matchdetail.Side, error) {
	detail, err := matchdetail.Decode(record.RawPayload)
	if err != nil {
		return matchdetail.Side{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	u, found, err := e.users.GetByID(ctx, record.UserID)
	if err != nil {
		return matchdetail.Side{}, fmt.Errorf("get record owner: %w", err)
	}
	if !found {
		return matchdetail.Side{}, fmt.Errorf("%w: user=%d", ErrNotFound, record.UserID)
	}
	side, err := detail.Side(u.OUID)
	if err != nil {
		return matchdetail.Side{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return side, nil
}

// BuildShotEvents reconciles the side's raw labels against its shoot summary
// and converts them to rows. Labels are reconciled over every event, so an
// event dropped for missing coordinates still holds its goal slot.
func BuildShotEvents(matchRecordID int64, side matchdetail.Side) ([]shot.Event, int) {
	raw := make([]shot.Result, len(side.Shots))
	for i, s := range side.Shots {
		raw[i] = shot.ResultFromCode(s.Result)
	}

	var summary *shot.Summary
	if side.Shoot != nil {
		summary = &shot.Summary{Goals: side.Shoot.GoalTotal, Effective: side.Shoot.EffectiveShootTotal}
	}
	labels := shot.Reconcile(raw, summary)

	events := make([]shot.Event, 0, len(side.Shots))
	skipped := 0
	for i, s := range side.Shots {
		if s.X == nil || s.Y == nil {
			skipped++
			continue
		}
		gameTime, period := shot.DecodeGameTime(s.GoalTime)
		event := shot.Event{
			MatchRecordID:   matchRecordID,
			Seq:             i,
			X:               fixedpoint.Quantize(*s.X),
			Y:               fixedpoint.Quantize(*s.Y),
			Result:          labels[i],
			RawResult:       raw[i],
			ShotType:        s.Type,
			GameTime:        gameTime,
			Period:          period,
			InPenaltyArea:   s.InPenalty,
			HitPost:         s.HitPost,
			ShooterPlayerID: s.SpID,
		}
		if s.Assist {
			event.AssistX = fixedpoint.QuantizePtr(s.AssistX)
			event.AssistY = fixedpoint.QuantizePtr(s.AssistY)
			event.AssistPlayerID = s.AssistSpID
		}
		events = append(events, event)
	}
	return events, skipped
}
