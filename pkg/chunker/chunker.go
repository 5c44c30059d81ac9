// Package chunker surfaces candidate noun phrases from English prose.
package chunker

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Chunker extracts noun phrases from a block of text, in order of appearance.
// Implementations must never emit ';' or '|', which delimit feature strings.
type Chunker interface {
	Chunk(text string) []string
}

// tokenPattern matches words (letters/digits with inner apostrophes or
// hyphens) and single punctuation characters.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’\-][\p{L}\p{N}]+)*|[^\s\p{L}\p{N}]`)

// Heuristic is a stopword-bounded chunker. Runs of two or more content words
// become phrases; a lone word only counts when it is capitalized somewhere
// other than the start of a sentence. Phrases are lowercased.
//
// It has no part-of-speech tagger. Inflected forms of common verbs end a run,
// but verbs outside that list can still be absorbed into a phrase.
type Heuristic struct {
	// MaxWords caps phrase length. Longer runs are dropped. Zero means no cap.
	MaxWords int
}

// NewHeuristic returns a chunker with the default phrase cap.
func NewHeuristic() *Heuristic {
	return &Heuristic{MaxWords: 6}
}

type word struct {
	text          string
	capitalized   bool
	sentenceStart bool
}

// Chunk implements Chunker.
func (h *Heuristic) Chunk(text string) []string {
	var phrases []string
	var run []word
	sentenceStart := true

	flush := func() {
		if p, ok := h.phrase(run); ok {
			phrases = append(phrases, p)
		}
		run = run[:0]
	}

	for _, tok := range tokenPattern.FindAllString(text, -1) {
		first := []rune(tok)[0]
		if !unicode.IsLetter(first) && !unicode.IsDigit(first) {
			flush()
			if strings.ContainsAny(tok, ".!?") {
				sentenceStart = true
			}
			continue
		}

		tok = trimPossessive(tok)
		if IsStopword(tok) || isNumber(tok) || isVerbForm(tok) {
			flush()
			sentenceStart = false
			continue
		}

		run = append(run, word{
			text:          strings.ToLower(tok),
			capitalized:   unicode.IsUpper(first),
			sentenceStart: sentenceStart,
		})
		sentenceStart = false
	}
	flush()

	return phrases
}

// Fingerprint identifies the chunker and its settings.
func (h *Heuristic) Fingerprint() string {
	return "heuristic/" + strconv.Itoa(h.MaxWords)
}

func (h *Heuristic) phrase(run []word) (string, bool) {
	switch {
	case len(run) == 0:
		return "", false
	case h.MaxWords > 0 && len(run) > h.MaxWords:
		return "", false
	case len(run) == 1:
		w := run[0]
		if !w.capitalized || w.sentenceStart || len([]rune(w.text)) < 2 {
			return "", false
		}
		return w.text, true
	}

	parts := make([]string, len(run))
	for i, w := range run {
		parts[i] = w.text
	}
	return strings.Join(parts, " "), true
}

func trimPossessive(tok string) string {
	for _, suffix := range []string{"'s", "’s"} {
		if len(tok) > len(suffix) && strings.HasSuffix(strings.ToLower(tok), suffix) {
			return tok[:len(tok)-len(suffix)]
		}
	}
	return tok
}

func isNumber(tok string) bool {
	for _, r := range tok {
		if !unicode.IsDigit(r) && r != '-' {
			return false
		}
	}
	return true
}
