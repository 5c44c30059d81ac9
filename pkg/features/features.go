// Package features turns a parsed Wikipedia article into the feature string
// the disease classifier trains and predicts on.
package features

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/wiki-diseases/pkg/chunker"
	"github.com/dtnitsch/wiki-diseases/pkg/document"
)

const (
	// TokenHasClassificationInfobox marks an infobox with the
	// "Classification and external resources" header. Very high precision.
	TokenHasClassificationInfobox = "_HAS_CLASSIFICATION_INFOBOX_"
	// TokenHasInfoboxICD9 marks an infobox linking to ICD9.
	TokenHasInfoboxICD9 = "_HAS_INFOBOX_ICD9_"

	classificationHeader = "Classification and external resources"
	icd9LinkText         = "ICD9"

	TokenSeparator = "; "
	GroupSeparator = " | "

	// Version changes whenever the feature string format or the token
	// vocabulary changes. Cached feature strings are keyed on it.
	Version = "2"

	DefaultParagraphs = 3
)

// Extractor builds feature strings. The zero value is not usable; use New.
type Extractor struct {
	chunker    chunker.Chunker
	paragraphs int
}

// New returns an extractor that chunks the first paragraphs of each document.
// A nil chunker selects the heuristic chunker.
func New(c chunker.Chunker, paragraphs int) *Extractor {
	if c == nil {
		c = chunker.NewHeuristic()
	}
	if paragraphs < 0 {
		paragraphs = DefaultParagraphs
	}
	return &Extractor{chunker: c, paragraphs: paragraphs}
}

// Extract returns the feature string for doc. It has no side effects and
// always returns the same string for the same document.
func (e *Extractor) Extract(doc *goquery.Document) string {
	return Join(PageFeatures(doc), e.ImportantPhrases(doc))
}

// Fingerprint identifies everything that shapes the feature string: the
// format version, the paragraph count and the chunker. Two extractors with
// the same fingerprint produce the same string for the same document.
func (e *Extractor) Fingerprint() string {
	name := fmt.Sprintf("%T", e.chunker)
	if f, ok := e.chunker.(interface{ Fingerprint() string }); ok {
		name = f.Fingerprint()
	}
	return fmt.Sprintf("%s:p%d:%s", Version, e.paragraphs, name)
}

// ExtractFile loads the document at path and extracts its feature string.
func (e *Extractor) ExtractFile(path string) (string, error) {
	doc, err := document.Load(path)
	if err != nil {
		return "", err
	}
	return e.Extract(doc), nil
}

// ExtractBytes parses raw HTML and extracts its feature string.
func (e *Extractor) ExtractBytes(raw []byte) (string, error) {
	doc, err := document.Parse(raw)
	if err != nil {
		return "", err
	}
	return e.Extract(doc), nil
}

// PageFeatures inspects the first infobox table for the classification
// header and the ICD9 link.
func PageFeatures(doc *goquery.Document) []string {
	infobox := doc.Find("table.infobox").First()
	if infobox.Length() == 0 {
		return nil
	}

	var tokens []string
	if hasExactText(infobox, "th", classificationHeader) {
		tokens = append(tokens, TokenHasClassificationInfobox)
	}
	if hasExactText(infobox, "a", icd9LinkText) {
		tokens = append(tokens, TokenHasInfoboxICD9)
	}
	return tokens
}

func hasExactText(s *goquery.Selection, tag, text string) bool {
	return s.Find(tag).FilterFunction(func(_ int, el *goquery.Selection) bool {
		return el.Text() == text
	}).Length() > 0
}

// Paragraphs returns the text of every <p> element in document order.
func Paragraphs(doc *goquery.Document) []string {
	var texts []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, s.Text())
	})
	return texts
}

// ImportantPhrases returns the sorted, de-duplicated noun phrases found in
// the first paragraphs of doc.
func (e *Extractor) ImportantPhrases(doc *goquery.Document) []string {
	paragraphs := Paragraphs(doc)
	if len(paragraphs) > e.paragraphs {
		paragraphs = paragraphs[:e.paragraphs]
	}

	seen := make(map[string]struct{})
	for _, p := range paragraphs {
		for _, phrase := range e.chunker.Chunk(p) {
			seen[phrase] = struct{}{}
		}
	}

	phrases := make([]string, 0, len(seen))
	for phrase := range seen {
		phrases = append(phrases, phrase)
	}
	sort.Strings(phrases)
	return phrases
}

// Join serializes the two token groups. The group separator is always
// present, even when a group is empty.
func Join(structural, lexical []string) string {
	return strings.Join(structural, TokenSeparator) + GroupSeparator + strings.Join(lexical, TokenSeparator)
}

// Tokens splits a feature string back into its distinct tokens, structural
// tokens first.
func Tokens(featureString string) []string {
	var tokens []string
	seen := make(map[string]struct{})
	for _, group := range strings.Split(featureString, strings.TrimSpace(GroupSeparator)) {
		for _, tok := range strings.Split(group, strings.TrimSpace(TokenSeparator)) {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
