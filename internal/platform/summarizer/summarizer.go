// Package summarizer produces the short synopsis shown in visit lists.
// The concrete implementation is a deterministic rule engine; callers only
// see the Summarizer interface so a real text-generation backend can be
// swapped in without touching the domain services.
package summarizer

import "github.com/yorisoi/homevisit/internal/domain/note"

// MaxRunes is the soft cap on summary length, counted in display characters.
const MaxRunes = 100

// Summarizer generates a bounded-length synopsis of a clinical note.
type Summarizer interface {
	Summarize(data note.ClinicalData) string
}
