package shot

import "github.com/shopspring/decimal"

type Result string

const (
	ResultGoal      Result = "goal"
	ResultOnTarget  Result = "on_target"
	ResultOffTarget Result = "off_target"
	ResultBlocked   Result = "blocked"
)

// ResultFromCode maps the upstream per-event result code. Unknown codes are
// read as off target.
func ResultFromCode(code int) Result {
	switch code {
	case 1:
		return ResultOnTarget
	case 3:
		return ResultGoal
	case 4:
		return ResultBlocked
	default:
		return ResultOffTarget
	}
}

// Event is one derived shot row. Coordinates are stored quantized.
type Event struct {
	MatchRecordID   int64
	Seq             int
	X               decimal.Decimal
	Y               decimal.Decimal
	Result          Result
	RawResult       Result
	ShotType        int
	GameTime        int
	Period          int
	InPenaltyArea   bool
	HitPost         bool
	ShooterPlayerID int64
	AssistX         *decimal.Decimal
	AssistY         *decimal.Decimal
	AssistPlayerID  *int64
}
