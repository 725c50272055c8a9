package performance

import "context"

type Repository interface {
	// ReplaceForMatch swaps the full row set of a match record in one
	// transaction with a single bulk insert.
	ReplaceForMatch(ctx context.Context, matchRecordID int64, records []Record) error
	ListByMatch(ctx context.Context, matchRecordID int64) ([]Record, error)
}
