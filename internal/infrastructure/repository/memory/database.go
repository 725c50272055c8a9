// Package memory is an in-process implementation of every repository, used
// when no database is configured and by tests.
package memory

import (
	"sync"
	"time"

	"github.com/riskibarqy/match-history/internal/domain/match"
	"github.com/riskibarqy/match-history/internal/domain/performance"
	"github.com/riskibarqy/match-history/internal/domain/shot"
	"github.com/riskibarqy/match-history/internal/domain/user"
)

// Database holds all tables behind one lock so cross-table reads, like the
// aggregates, see a consistent snapshot.
type Database struct {
	mu  sync.RWMutex
	now func() time.Time

	nextUserID   int64
	users        map[int64]user.User
	usersByOUID  map[string]int64
	nextRecordID int64
	records      map[int64]match.Record
	recordsByKey map[match.Key]int64
	shots        map[int64][]shot.Event
	performances map[int64][]performance.Record
}

func NewDatabase() *Database {
	return &Database{
		now:          time.Now,
		users:        make(map[int64]user.User),
		usersByOUID:  make(map[string]int64),
		records:      make(map[int64]match.Record),
		recordsByKey: make(map[match.Key]int64),
		shots:        make(map[int64][]shot.Event),
		performances: make(map[int64][]performance.Record),
	}
}
