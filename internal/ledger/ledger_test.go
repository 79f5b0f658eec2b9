package ledger

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRecordRowOrder(t *testing.T) {
	record := Record{
		Timestamp:          time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		IdentificationCode: "PAC-042",
		Etiology:           "etiologia",
		Tissue:             "tejido",
		Exudate:            "exudado",
		InfectionSigns:     "signos",
		PeriwoundSkin:      "piel",
		DressingObjective:  "objetivo",
		PrimaryDressing:    "aposito",
		ProviderLabel:      "Gemini",
		Outcome:            OutcomeBlocked,
	}

	row := record.Row()
	want := []interface{}{
		"14/03/2026 09:30:00",
		"PAC-042",
		"etiologia",
		"tejido",
		"exudado",
		"signos",
		"piel",
		"objetivo",
		"aposito",
		Source,
		"Gemini",
		OutcomeBlocked,
	}
	if len(row) != len(want) {
		t.Fatalf("expected %d columns, got %d", len(want), len(row))
	}
	for i := range want {
		if row[i] != want[i] {
			t.Fatalf("column %d = %v, want %v", i, row[i], want[i])
		}
	}
}

func TestFailureStatus(t *testing.T) {
	status := FailureStatus(errors.New("permission denied"))
	if status != "Fallo Excel: permission denied" {
		t.Fatalf("unexpected status %q", status)
	}
}

func TestNoopSink(t *testing.T) {
	status := NoopSink{}.Append(context.Background(), Record{})
	if status != StatusNotConfigured {
		t.Fatalf("expected %q, got %q", StatusNotConfigured, status)
	}
}
