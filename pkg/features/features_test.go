package features

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dtnitsch/wiki-diseases/pkg/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commaChunker treats every comma-separated part of a paragraph as a phrase.
type commaChunker struct{}

func (commaChunker) Chunk(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

const diseasePage = `<html><head><title>Asthma - Wikipedia, the free encyclopedia</title></head><body>
<table class="infobox"><tr><th>Classification and external resources</th></tr>
<tr><td><a href="/wiki/ICD9">ICD9</a> 493</td></tr></table>
<p>wheezing, airway inflammation</p>
<p>bronchospasm, wheezing</p>
<p>inhaler</p>
<p>ignored phrase</p>
</body></html>`

func TestPageFeatures_BothMarkers(t *testing.T) {
	doc, err := document.Parse([]byte(diseasePage))
	require.NoError(t, err)

	assert.Equal(t, []string{TokenHasClassificationInfobox, TokenHasInfoboxICD9}, PageFeatures(doc))
}

func TestPageFeatures(t *testing.T) {
	tests := []struct {
		name string
		html string
		want []string
	}{
		{
			name: "no infobox",
			html: `<table><tr><th>Classification and external resources</th></tr></table><a>ICD9</a>`,
			want: nil,
		},
		{
			name: "infobox without markers",
			html: `<table class="infobox vcard"><tr><th>Born</th></tr></table>`,
			want: nil,
		},
		{
			name: "header text must match exactly",
			html: `<table class="infobox"><tr><th>Classification and external resources (old)</th></tr></table>`,
			want: nil,
		},
		{
			name: "only the first infobox counts",
			html: `<table class="infobox"><tr><th>Other</th></tr></table>
<table class="infobox"><tr><th>Classification and external resources</th></tr></table>`,
			want: nil,
		},
		{
			name: "icd9 link only",
			html: `<table class="infobox"><tr><td><a href="#">ICD9</a></td></tr></table>`,
			want: []string{TokenHasInfoboxICD9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := document.Parse([]byte(tt.html))
			require.NoError(t, err)
			assert.Equal(t, tt.want, PageFeatures(doc))
		})
	}
}

func TestExtract_FirstThreeParagraphsSortedAndDeduplicated(t *testing.T) {
	doc, err := document.Parse([]byte(diseasePage))
	require.NoError(t, err)

	got := New(commaChunker{}, DefaultParagraphs).Extract(doc)
	want := "_HAS_CLASSIFICATION_INFOBOX_; _HAS_INFOBOX_ICD9_ | airway inflammation; bronchospasm; inhaler; wheezing"
	assert.Equal(t, want, got)
}

func TestExtract_Deterministic(t *testing.T) {
	e := New(nil, DefaultParagraphs)
	doc1, err := document.Parse([]byte(diseasePage))
	require.NoError(t, err)
	doc2, err := document.Parse([]byte(diseasePage))
	require.NoError(t, err)

	assert.Equal(t, e.Extract(doc1), e.Extract(doc2))
}

func TestExtract_NoParagraphsNoInfobox(t *testing.T) {
	doc, err := document.Parse([]byte(`<html><body><div>nothing</div></body></html>`))
	require.NoError(t, err)

	assert.Equal(t, GroupSeparator, New(commaChunker{}, DefaultParagraphs).Extract(doc))
}

func TestExtract_FewerParagraphsThanLimit(t *testing.T) {
	doc, err := document.Parse([]byte(`<p>fever</p>`))
	require.NoError(t, err)

	assert.Equal(t, " | fever", New(commaChunker{}, DefaultParagraphs).Extract(doc))
}

func TestExtractFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "asthma.html")
	require.NoError(t, os.WriteFile(path, []byte(diseasePage), 0644))

	e := New(commaChunker{}, DefaultParagraphs)
	fromFile, err := e.ExtractFile(path)
	require.NoError(t, err)
	fromBytes, err := e.ExtractBytes([]byte(diseasePage))
	require.NoError(t, err)
	assert.Equal(t, fromBytes, fromFile)
}

func TestTokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"both groups", "_HAS_INFOBOX_ICD9_ | fever; viral infection", []string{"_HAS_INFOBOX_ICD9_", "fever", "viral infection"}},
		{"empty structural", " | fever", []string{"fever"}},
		{"empty lexical", "_HAS_INFOBOX_ICD9_ | ", []string{"_HAS_INFOBOX_ICD9_"}},
		{"empty", " | ", nil},
		{"duplicates collapse", "a; a | a", []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokens(tt.in))
		})
	}
}

func TestJoinTokensRoundTrip(t *testing.T) {
	structural := []string{TokenHasClassificationInfobox}
	lexical := []string{"abdominal aorta", "aneurysm"}
	assert.Equal(t, append(structural, lexical...), Tokens(Join(structural, lexical)))
}

func TestFingerprint(t *testing.T) {
	base := New(nil, 3)
	assert.Equal(t, base.Fingerprint(), New(nil, 3).Fingerprint())
	assert.NotEqual(t, base.Fingerprint(), New(nil, 1).Fingerprint())
	assert.NotEqual(t, base.Fingerprint(), New(commaChunker{}, 3).Fingerprint())
	assert.True(t, strings.HasPrefix(base.Fingerprint(), Version+":"))
}
