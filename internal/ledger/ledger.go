package ledger

import (
	"context"
	"time"
)

// Append statuses surfaced to the caller as the sheetStatus field. The
// literal strings are part of the API contract.
const (
	StatusOK            = "Guardado OK"
	StatusNotConfigured = "No configurado"
	failurePrefix       = "Fallo Excel: "
)

// Outcome markers written to the last ledger column.
const (
	OutcomeNormal  = "Prompt v1.0"
	OutcomeBlocked = "BLOQUEADO"
)

// Source identifies automated classifications in the ledger.
const Source = "Inteligencia Artificial"

// Record is one append-only audit row. Records are derived projections;
// nothing in this system mutates or deletes them once appended.
type Record struct {
	Timestamp          time.Time
	IdentificationCode string
	Etiology           string
	Tissue             string
	Exudate            string
	InfectionSigns     string
	PeriwoundSkin      string
	DressingObjective  string
	PrimaryDressing    string
	ProviderLabel      string
	Outcome            string
}

// Row returns the twelve ledger columns in their fixed order (A through L).
func (r Record) Row() []interface{} {
	return []interface{}{
		r.Timestamp.Format("02/01/2006 15:04:05"),
		r.IdentificationCode,
		r.Etiology,
		r.Tissue,
		r.Exudate,
		r.InfectionSigns,
		r.PeriwoundSkin,
		r.DressingObjective,
		r.PrimaryDressing,
		Source,
		r.ProviderLabel,
		r.Outcome,
	}
}

// FailureStatus converts an append error into the surfaced status string.
func FailureStatus(err error) string {
	return failurePrefix + err.Error()
}

// Sink appends audit records to an external append-only ledger. Append never
// fails the caller: every outcome, including total sink failure, is reduced
// to a status string.
type Sink interface {
	Append(ctx context.Context, record Record) string
}

// NoopSink is used when ledger credentials are absent from configuration.
type NoopSink struct{}

// Append reports the ledger as not configured.
func (NoopSink) Append(ctx context.Context, record Record) string {
	_ = ctx
	_ = record
	return StatusNotConfigured
}
