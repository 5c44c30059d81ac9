package modelstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dtnitsch/wiki-diseases/models"
	"github.com/dtnitsch/wiki-diseases/pkg/bayes"
	"github.com/dtnitsch/wiki-diseases/pkg/features"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainedModel(t *testing.T) *bayes.NaiveBayes {
	t.Helper()
	markers := []string{features.TokenHasClassificationInfobox, features.TokenHasInfoboxICD9}
	examples := []models.LabeledExample{
		{Features: features.Join(markers, []string{"symptoms", "chronic disease"}), Label: models.LabelPositive},
		{Features: features.Join(markers, []string{"infection"}), Label: models.LabelPositive},
		{Features: features.Join(nil, []string{"symptoms"}), Label: models.LabelPositive},
		{Features: features.Join(nil, []string{"film", "american actor"}), Label: models.LabelNegative},
		{Features: features.Join(nil, []string{"population", "capital city"}), Label: models.LabelNegative},
	}
	model, err := bayes.Fit(examples, bayes.DefaultSmoothing)
	require.NoError(t, err)
	return model
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	model := trainedModel(t)
	path := filepath.Join(t.TempDir(), "cl.model")

	require.NoError(t, Save(model, path))
	loaded, err := Load(path)
	require.NoError(t, err)

	docs := []string{
		features.Join([]string{features.TokenHasInfoboxICD9}, []string{"infection"}),
		features.Join(nil, []string{"film", "symptoms"}),
		features.Join(nil, []string{"unknown"}),
		features.GroupSeparator,
	}
	for _, doc := range docs {
		assert.Equal(t, model.Classify(doc), loaded.Classify(doc), doc)
		assert.Equal(t, model.Scores(doc), loaded.Scores(doc), doc)
	}
	assert.Equal(t, model.Export(), loaded)
}

func TestSave_DoesNotPersistTrainingExamples(t *testing.T) {
	model := trainedModel(t)
	path := filepath.Join(t.TempDir(), "cl.model")
	require.NoError(t, Save(model, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "features:")
	assert.NotContains(t, string(data), "examples")
	assert.Equal(t, 5, model.ExampleCount())
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.model"))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestLoad_NotAModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 2\n"), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "not a model file")
}

func TestSave_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(trainedModel(t), filepath.Join(dir, "cl.model")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cl.model", entries[0].Name())
}
