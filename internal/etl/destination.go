package etl

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"stdsdb/internal/storage"
)

// ── Destination ────────────────────────────────────────────
// A Destination writes records into the reference database.

// Outcome is the result of inserting one record.
type Outcome string

const (
	OutcomeInserted         Outcome = "inserted"
	OutcomeValidationFailed Outcome = "validation_failed"
	OutcomeReferenceFailed  Outcome = "reference_failed"
)

// OutcomeObserver is notified once per attempted record.
type OutcomeObserver interface {
	ObserveRecord(table string, outcome Outcome)
}

// WriteResult counts the outcomes of one table write.
type WriteResult struct {
	Table            string `json:"table"`
	Read             int    `json:"read"`
	Inserted         int    `json:"inserted"`
	ValidationFailed int    `json:"validationFailed"`
	ReferenceFailed  int    `json:"referenceFailed"`
}

// Rejected returns the number of records that were not inserted.
func (r WriteResult) Rejected() int {
	return r.ValidationFailed + r.ReferenceFailed
}

// Destination writes records to a table.
type Destination interface {
	Write(ctx context.Context, table *storage.Table, records []Record) (WriteResult, error)
}

// ── Table Destination ──────────────────────────────────────
// Inserts record by record. Each insert commits on its own, so a bad row
// is logged and skipped without undoing the rows before it.

// TableWriter implements Destination over storage tables.
type TableWriter struct {
	Logger   *zap.SugaredLogger
	Observer OutcomeObserver // optional
}

func (w *TableWriter) Write(ctx context.Context, table *storage.Table, records []Record) (WriteResult, error) {
	res := WriteResult{Table: table.Name()}
	for i, rec := range records {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}
		res.Read++

		ok, err := table.Insert(ctx, rec.Data)
		var verr *storage.ValidationError
		switch {
		case errors.As(err, &verr):
			res.ValidationFailed++
			w.observe(table.Name(), OutcomeValidationFailed)
			w.Logger.Warnw("record rejected",
				"table", table.Name(), "row", i+1, "outcome", OutcomeValidationFailed,
				"field", verr.Field, "expected", verr.Expected, "value", verr.Value)
		case err != nil:
			return res, fmt.Errorf("row %d: %w", i+1, err)
		case !ok:
			res.ReferenceFailed++
			w.observe(table.Name(), OutcomeReferenceFailed)
			w.Logger.Warnw("record rejected",
				"table", table.Name(), "row", i+1, "outcome", OutcomeReferenceFailed)
		default:
			res.Inserted++
			w.observe(table.Name(), OutcomeInserted)
			w.Logger.Debugw("record inserted",
				"table", table.Name(), "row", i+1, "outcome", OutcomeInserted)
		}
	}
	return res, nil
}

func (w *TableWriter) observe(table string, o Outcome) {
	if w.Observer != nil {
		w.Observer.ObserveRecord(table, o)
	}
}
