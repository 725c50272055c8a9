package matchdetail

import (
	"errors"
	"fmt"
	"strings"

	sonic "github.com/bytedance/sonic"
)

var ErrMalformed = errors.New("malformed match payload")

func Decode(raw []byte) (Detail, error) {
	if len(raw) == 0 {
		return Detail{}, fmt.Errorf("%w: empty document", ErrMalformed)
	}

	var d Detail
	if err := sonic.Unmarshal(raw, &d); err != nil {
		return Detail{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	d.MatchID = strings.TrimSpace(d.MatchID)
	if d.MatchID == "" {
		return Detail{}, fmt.Errorf("%w: missing matchId", ErrMalformed)
	}
	if len(d.Sides) == 0 {
		return Detail{}, fmt.Errorf("%w: match %s has no matchInfo", ErrMalformed, d.MatchID)
	}
	for i := range d.Sides {
		d.Sides[i].OUID = strings.TrimSpace(d.Sides[i].OUID)
		if d.Sides[i].OUID == "" {
			return Detail{}, fmt.Errorf("%w: match %s side %d has no ouid", ErrMalformed, d.MatchID, i)
		}
	}
	return d, nil
}

func (d Detail) Side(ouid string) (Side, error) {
	for _, s := range d.Sides {
		if s.OUID == ouid {
			return s, nil
		}
	}
	return Side{}, fmt.Errorf("%w: match %s has no side for ouid %s", ErrMalformed, d.MatchID, ouid)
}

// Opponent returns the other side. ok is false for single-sided documents,
// which the upstream emits for abandoned matches.
func (d Detail) Opponent(ouid string) (Side, bool) {
	for _, s := range d.Sides {
		if s.OUID != ouid {
			return s, true
		}
	}
	return Side{}, false
}
