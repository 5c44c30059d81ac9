package document

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dtnitsch/wiki-diseases/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrimTitle(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		suffix  int
		want    string
		wantErr bool
	}{
		{"wikipedia suffix", "Abdominal aortic aneurysm - Wikipedia, the free encyclopedia", 35, "Abdominal aortic aneurysm", false},
		{"exact length", "Wikipedia, the free encyclopediaxxx", 35, "", false},
		{"too short", "Short title", 35, "", true},
		{"zero suffix", "Asthma", 0, "Asthma", false},
		{"multibyte", "Ménière's disease - Wikipedia, the free encyclopedia", 35, "Ménière's disease", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TrimTitle(tt.raw, tt.suffix)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, models.ErrMalformedDocument))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTitle_MissingTitleIsMalformed(t *testing.T) {
	doc, err := Parse([]byte("<html><body><p>no title here</p></body></html>"))
	require.NoError(t, err)

	_, err = Title(doc, DefaultTitleSuffixLength)
	assert.ErrorIs(t, err, models.ErrMalformedDocument)
}

func TestTitle_FromDocument(t *testing.T) {
	doc, err := Parse([]byte("<html><head><title>Asthma - Wikipedia, the free encyclopedia</title></head></html>"))
	require.NoError(t, err)

	got, err := Title(doc, DefaultTitleSuffixLength)
	require.NoError(t, err)
	assert.Equal(t, "Asthma", got)
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.html", "a.html", "c.html"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("<html></html>"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	files, err := ListFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.html"),
		filepath.Join(dir, "b.html"),
		filepath.Join(dir, "c.html"),
	}, files)
}

func TestListFiles_MissingDirectory(t *testing.T) {
	_, err := ListFiles(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.html"))
	assert.ErrorIs(t, err, models.ErrNotFound)
}
