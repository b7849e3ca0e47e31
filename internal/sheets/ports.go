// Package sheets defines the outbound port used to mirror records into an
// external spreadsheet.
package sheets

import "context"

// TableWriter replaces the whole content of a mirrored table. rows[0] is the
// header row.
type TableWriter interface {
	ReplaceTable(ctx context.Context, rows [][]string) error
}
