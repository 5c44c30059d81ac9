package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/dtnitsch/wiki-diseases/models"
	"github.com/dtnitsch/wiki-diseases/pkg/document"
	"github.com/dtnitsch/wiki-diseases/pkg/features"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// markerClassifier predicts positive whenever the classification infobox marker is present.
type markerClassifier struct{}

func (markerClassifier) Classify(fs string) models.Label {
	for _, tok := range features.Tokens(fs) {
		if tok == features.TokenHasClassificationInfobox {
			return models.LabelPositive
		}
	}
	return models.LabelNegative
}

func page(title string, disease bool) string {
	infobox := ""
	if disease {
		infobox = `<table class="infobox"><tr><th>Classification and external resources</th></tr></table>`
	}
	return fmt.Sprintf(`<html><head><title>%s</title></head><body>%s<p>Some text about it.</p></body></html>`, title, infobox)
}

func TestClassify_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	pages := map[string]string{
		"1.html": page("Abdominal aortic aneurysm - Wikipedia, the free encyclopedia", true),
		"2.html": page("Asthma - Wikipedia, the free encyclopedia", true),
		"3.html": page("Broken", false),
		"4.html": page("Paris - Wikipedia, the free encyclopedia", false),
		"5.html": page("Gout - Wikipedia, the free encyclopedia", true),
	}
	for name, html := range pages {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(html), 0644))
	}

	results, err := Classify(dir, markerClassifier{}, Options{Workers: 3, TitleSuffixLength: document.DefaultTitleSuffixLength})
	require.NoError(t, err)
	require.Len(t, results, 5)

	want := []struct {
		label models.Label
		title string
	}{
		{models.LabelPositive, "Abdominal aortic aneurysm"},
		{models.LabelPositive, "Asthma"},
		{models.LabelNegative, ""},
		{models.LabelNegative, "Paris"},
		{models.LabelPositive, "Gout"},
	}
	for i, w := range want {
		r := results[i]
		assert.Equal(t, filepath.Join(dir, fmt.Sprintf("%d.html", i+1)), r.Path)
		if i == 2 {
			require.Error(t, r.Err)
			assert.ErrorIs(t, r.Err, models.ErrMalformedDocument)
			assert.Equal(t, models.LabelNegative, r.Label)
			assert.Empty(t, r.Title)
			continue
		}
		require.NoError(t, r.Err)
		assert.Equal(t, w.label, r.Label)
		assert.Equal(t, w.title, r.Title)
	}

	assert.Equal(t, Stats{Total: 5, Positive: 3, Negative: 1, Failed: 1}, Summarize(results))
}

func TestClassify_MissingTitle(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.html"), []byte("<html><body><p>x</p></body></html>"), 0644))

	results, err := Classify(dir, markerClassifier{}, Options{Workers: 1, TitleSuffixLength: document.DefaultTitleSuffixLength})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, models.ErrMalformedDocument)
	assert.Equal(t, models.LabelNegative, results[0].Label)
}

func TestClassify_UnreadableDocumentHasNoLabel(t *testing.T) {
	dir := t.TempDir()
	files := []string{filepath.Join(dir, "gone.html")}

	results := ClassifyFiles(files, markerClassifier{}, Options{Workers: 1, TitleSuffixLength: document.DefaultTitleSuffixLength})
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, models.ErrNotFound)
	assert.Empty(t, results[0].Label)
}

func TestClassify_MissingDirectory(t *testing.T) {
	_, err := Classify(filepath.Join(t.TempDir(), "nope"), markerClassifier{}, Options{})
	assert.ErrorIs(t, err, models.ErrNotFound)
}
