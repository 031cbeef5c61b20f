// Package nlp wraps part-of-speech tagging and entity extraction for
// query parsing and ingestion-time keyword extraction.
package nlp

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jdkato/prose/v2"
)

// Entity labels produced by Extract.
const (
	LabelDate = "DATE"
	LabelNoun = "NOUN"
	LabelProp = "PROPN"
	LabelVerb = "VERB"
)

// Entity is a labeled span of the input text.
type Entity struct {
	Text  string
	Label string
}

// Tagger tokenizes and tags text via the prose pipeline. Created once at
// startup and shared; prose models are read-only after construction.
type Tagger struct{}

// NewTagger creates a Tagger.
func NewTagger() *Tagger {
	return &Tagger{}
}

// Date-span patterns, checked in order against the raw text.
var datePatterns = []*regexp.Regexp{
	// October 5, 2023 / Oct 5 2023
	regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|sept|oct|nov|dec)\s+\d{1,2}(,?\s+\d{4})?\b`),
	// 2023-10-05
	regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
	// 10/05/2023
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`),
	// October 2023
	regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)(\s+\d{4})?\b`),
	// relative phrases
	regexp.MustCompile(`(?i)\b(today|yesterday|tomorrow|(last|past|previous|this|next)\s+(day|week|month|year))\b`),
}

// Entities returns DATE spans plus NOUN/PROPN/VERB tokens of the text.
// DATE spans come from pattern matching; part-of-speech labels from the
// prose tagger (Penn tags collapsed to universal labels).
func (t *Tagger) Entities(text string) ([]Entity, error) {
	var out []Entity
	seen := make(map[string]struct{})

	for _, re := range datePatterns {
		for _, m := range re.FindAllString(text, -1) {
			key := LabelDate + "\x00" + strings.ToLower(m)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, Entity{Text: m, Label: LabelDate})
		}
	}

	doc, err := prose.NewDocument(text)
	if err != nil {
		return out, fmt.Errorf("tag text: %w", err)
	}

	for _, tok := range doc.Tokens() {
		label := universalLabel(tok.Tag)
		if label == "" {
			continue
		}
		key := label + "\x00" + strings.ToLower(tok.Text)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, Entity{Text: tok.Text, Label: label})
	}

	return out, nil
}

// Keywords extracts salient terms for ingestion: nouns, proper nouns and
// non-auxiliary verbs longer than three characters, stopword-filtered,
// lower-cased, first-seen order preserved.
func (t *Tagger) Keywords(text string) ([]string, error) {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, fmt.Errorf("tag text: %w", err)
	}

	var out []string
	seen := make(map[string]struct{})
	add := func(w string) {
		w = strings.ToLower(strings.Trim(w, ".,!?;:'\""))
		if len(w) <= 3 || IsStopword(w) {
			return
		}
		if _, ok := seen[w]; ok {
			return
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}

	for _, tok := range doc.Tokens() {
		switch universalLabel(tok.Tag) {
		case LabelNoun, LabelProp:
			add(tok.Text)
		case LabelVerb:
			if !IsAuxiliary(tok.Text) {
				add(tok.Text)
			}
		}
	}

	for _, ent := range doc.Entities() {
		add(ent.Text)
	}

	return out, nil
}

// universalLabel collapses Penn Treebank tags to the labels the parsers use.
func universalLabel(penn string) string {
	switch {
	case penn == "NNP" || penn == "NNPS":
		return LabelProp
	case penn == "NN" || penn == "NNS":
		return LabelNoun
	case strings.HasPrefix(penn, "VB"):
		return LabelVerb
	default:
		return ""
	}
}

// auxiliaries are copulas and light verbs excluded from keywords.
var auxiliaries = map[string]struct{}{
	"is": {}, "am": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "have": {}, "had": {}, "has": {},
	"do": {}, "did": {}, "does": {}, "go": {}, "went": {},
	"say": {}, "said": {},
}

// IsAuxiliary reports whether the verb is a copula or light verb
// excluded from keywords.
func IsAuxiliary(w string) bool {
	_, ok := auxiliaries[strings.ToLower(w)]
	return ok
}
