package summarizer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yorisoi/homevisit/internal/domain/note"
)

// Trigger and fragment keywords for the diabetic-ulcer branch. These are
// load-bearing: edits in the note editor re-run the summarizer, so the
// output tracks whether the keywords survive the edit.
const (
	kwDiabetes    = "糖尿病"
	kwFootSole    = "足裏"
	kwAmputation  = "切断"
	kwDebridement = "デブリードマン"
	kwOintment    = "軟膏"
)

var (
	firstSentenceRe = regexp.MustCompile(`^[^。]+。`)
	weeklyFreqRe    = regexp.MustCompile(`週[0-9０-９]+回`)
)

// RuleBased is the keyword-heuristic Summarizer. It is a pure function of
// the SOAP fields; all other note content is ignored.
type RuleBased struct{}

// NewRuleBased returns the rule-based summarizer.
func NewRuleBased() *RuleBased { return &RuleBased{} }

// Summarize builds the synopsis. A note whose Subjective mentions a
// diabetic-ulcer indicator gets the specialized S/A/P construction;
// everything else gets the first sentence of each SOAP section.
func (RuleBased) Summarize(data note.ClinicalData) string {
	soap := data.Soap

	var generated string
	if strings.Contains(soap.Subjective, kwDiabetes) || strings.Contains(soap.Subjective, kwFootSole) {
		generated = fmt.Sprintf("%s %s %s",
			ulcerSubjective(soap),
			ulcerAssessment(soap),
			ulcerPlan(soap),
		)
	} else {
		generated = fmt.Sprintf("S:%s O:%s A:%s P:%s",
			firstSentence(soap.Subjective),
			firstSentence(soap.Objective),
			firstSentence(soap.Assessment),
			firstSentence(soap.Plan),
		)
	}

	return truncate(generated, MaxRunes)
}

func ulcerSubjective(soap note.Soap) string {
	s := "S:糖尿病性潰瘍と診断。"
	if strings.Contains(soap.Subjective, kwAmputation) || strings.Contains(soap.Assessment, kwAmputation) {
		s += "下肢切断リスクあり。"
	}
	return s
}

func ulcerAssessment(soap note.Soap) string {
	if strings.Contains(soap.Assessment, kwDebridement) || strings.Contains(soap.Subjective, kwDebridement) {
		return "A:デブリードマン・外用・服薬で治療。"
	}
	return "A:" + firstSentence(soap.Assessment)
}

func ulcerPlan(soap note.Soap) string {
	var parts []string
	if strings.Contains(soap.Plan, kwOintment) {
		parts = append(parts, "軟膏継続。")
	}
	if m := weeklyFreqRe.FindString(soap.Plan); m != "" {
		parts = append(parts, m+"訪問。")
	} else if strings.Contains(soap.Plan, "週1回") || strings.Contains(soap.Plan, "週１回") {
		parts = append(parts, "週1回訪問。")
	}
	if len(parts) == 0 {
		return "P:" + firstSentence(soap.Plan)
	}
	return "P:" + strings.Join(parts, "")
}

// firstSentence returns the text up to and including the first full-width
// period. Fields with no period yield their first 15 runes plus an ellipsis.
func firstSentence(text string) string {
	if m := firstSentenceRe.FindString(text); m != "" {
		return m
	}
	r := []rune(text)
	if len(r) > 15 {
		r = r[:15]
	}
	return string(r) + "..."
}

// truncate caps s at max display runes, marking the cut with a single
// ellipsis rune. It never splits a multibyte sequence.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
