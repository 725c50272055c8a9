package shot

import "context"

type Repository interface {
	// ReplaceForMatch deletes every event of the record and writes events in
	// their place, atomically.
	ReplaceForMatch(ctx context.Context, matchRecordID int64, events []Event) error
	ListByMatch(ctx context.Context, matchRecordID int64) ([]Event, error)
}
