package bayes

import (
	"fmt"
	"math"
	"testing"

	"github.com/dtnitsch/wiki-diseases/models"
	"github.com/dtnitsch/wiki-diseases/pkg/features"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pos(lexical ...string) models.LabeledExample {
	return models.LabeledExample{
		Features: features.Join([]string{features.TokenHasClassificationInfobox, features.TokenHasInfoboxICD9}, lexical),
		Label:    models.LabelPositive,
	}
}

func neg(lexical ...string) models.LabeledExample {
	return models.LabeledExample{
		Features: features.Join(nil, lexical),
		Label:    models.LabelNegative,
	}
}

func corpus() (positive, negative []models.LabeledExample) {
	positive = []models.LabeledExample{
		pos("chronic disease", "symptoms"),
		pos("infection", "symptoms"),
		pos("inflammation", "treatment"),
		pos("symptoms", "treatment"),
		pos("rare disorder"),
	}
	negative = []models.LabeledExample{
		neg("american actor", "film"),
		neg("capital city", "population"),
		neg("football club", "season"),
		neg("film", "television series"),
		neg("population", "river"),
	}
	return positive, negative
}

func TestSplit_ProportionAndDisjointness(t *testing.T) {
	examples := make([]models.LabeledExample, 17)
	for i := range examples {
		examples[i] = neg(fmt.Sprintf("token %d", i))
	}

	for _, fraction := range []float64{0.1, 0.5, 0.6, 0.75, 1.0} {
		t.Run(fmt.Sprintf("%v", fraction), func(t *testing.T) {
			train, test, err := Split(examples, fraction)
			require.NoError(t, err)

			assert.Len(t, train, int(math.Floor(fraction*17)))
			assert.Equal(t, examples, append(append([]models.LabeledExample{}, train...), test...))

			seen := make(map[string]bool)
			for _, ex := range train {
				seen[ex.Features] = true
			}
			for _, ex := range test {
				assert.False(t, seen[ex.Features], "%q in both halves", ex.Features)
			}
		})
	}
}

func TestSplit_InvalidFraction(t *testing.T) {
	for _, fraction := range []float64{0, -0.2, 1.01, math.NaN()} {
		_, _, err := Split(nil, fraction)
		assert.ErrorIs(t, err, models.ErrInvalidArgument, "fraction %v", fraction)
	}
}

func TestFit_Classify(t *testing.T) {
	positive, negative := corpus()
	model, err := Fit(append(positive, negative...), DefaultSmoothing)
	require.NoError(t, err)

	assert.Equal(t, models.LabelPositive, model.Classify(features.Join([]string{features.TokenHasClassificationInfobox}, []string{"symptoms"})))
	assert.Equal(t, models.LabelNegative, model.Classify(features.Join(nil, []string{"film", "population"})))
	assert.Equal(t, 10, model.ExampleCount())
	assert.Equal(t, map[models.Label]int{models.LabelPositive: 5, models.LabelNegative: 5}, model.ClassCounts())
}

func TestFit_UnknownTokensIgnored(t *testing.T) {
	positive, negative := corpus()
	model, err := Fit(append(positive, negative...), DefaultSmoothing)
	require.NoError(t, err)

	base := model.Scores(features.Join(nil, []string{"film"}))
	withUnknown := model.Scores(features.Join(nil, []string{"film", "never seen phrase"}))
	assert.Equal(t, base, withUnknown)
}

func TestFit_Errors(t *testing.T) {
	_, err := Fit(nil, DefaultSmoothing)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	_, err = Fit([]models.LabeledExample{pos("x")}, 0)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	_, err = Fit([]models.LabeledExample{{Features: " | x", Label: "maybe"}}, DefaultSmoothing)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestFit_SingleClassNeverPredictsTheOther(t *testing.T) {
	positive, _ := corpus()
	model, err := Fit(positive, DefaultSmoothing)
	require.NoError(t, err)

	assert.Equal(t, models.LabelPositive, model.Classify(features.Join(nil, []string{"film"})))
}

func TestProbabilities_SumToOne(t *testing.T) {
	positive, negative := corpus()
	model, err := Fit(append(positive, negative...), DefaultSmoothing)
	require.NoError(t, err)

	probs := model.Export().Probabilities(features.Join([]string{features.TokenHasInfoboxICD9}, []string{"film"}))
	assert.InDelta(t, 1.0, probs[models.LabelPositive]+probs[models.LabelNegative], 1e-9)
}

func TestExport_IsIndependentOfUpdate(t *testing.T) {
	positive, negative := corpus()
	model, err := Fit(append(positive, negative...), DefaultSmoothing)
	require.NoError(t, err)

	snap := model.Export()
	doc := features.Join(nil, []string{"symptoms", "film"})
	before := snap.Scores(doc)

	require.NoError(t, model.Update([]models.LabeledExample{neg("symptoms"), neg("symptoms", "film")}))
	assert.Equal(t, 12, model.ExampleCount())
	assert.Equal(t, before, snap.Scores(doc))
	assert.NotEqual(t, before, model.Scores(doc))
}

func TestMostInformative(t *testing.T) {
	positive, negative := corpus()
	model, err := Fit(append(positive, negative...), DefaultSmoothing)
	require.NoError(t, err)

	top := model.Export().MostInformative(2)
	require.Len(t, top, 2)
	// both markers appear in every positive example and no negative one
	assert.ElementsMatch(t, []string{features.TokenHasClassificationInfobox, features.TokenHasInfoboxICD9}, []string{top[0].Token, top[1].Token})
	assert.Equal(t, models.LabelPositive, top[0].Favors)
	assert.Greater(t, top[0].Ratio, 1.0)
}

func TestTopTokens(t *testing.T) {
	positive, negative := corpus()
	model, err := Fit(append(positive, negative...), DefaultSmoothing)
	require.NoError(t, err)

	assert.Equal(t, []string{
		features.TokenHasClassificationInfobox + ":5",
		features.TokenHasInfoboxICD9 + ":5",
		"symptoms:3",
	}, model.TopTokens(models.LabelPositive, 3))
	assert.Equal(t, []string{"film:2", "population:2"}, model.TopTokens(models.LabelNegative, 2))
}

func TestTrain(t *testing.T) {
	positive, negative := corpus()

	result, err := Train(positive, negative, DefaultTrainFraction, DefaultSmoothing)
	require.NoError(t, err)

	assert.Len(t, result.TestPositive, 2)
	assert.Len(t, result.TestNegative, 2)
	assert.Equal(t, 6, result.Model.ExampleCount())
	assert.False(t, result.EmptyTestSet)
	assert.GreaterOrEqual(t, result.Accuracy, 0.0)
	assert.LessOrEqual(t, result.Accuracy, 1.0)
	assert.Equal(t, 4, result.Evaluation.Total)
	assert.Equal(t, 1.0, result.Accuracy)
}

func TestTrain_EmptyTestSet(t *testing.T) {
	positive, negative := corpus()

	result, err := Train(positive, negative, 1.0, DefaultSmoothing)
	require.NoError(t, err)
	assert.True(t, result.EmptyTestSet)
	assert.Equal(t, 0.0, result.Accuracy)
	assert.Empty(t, result.TestPositive)
}

func TestTrain_InvalidFraction(t *testing.T) {
	positive, negative := corpus()
	_, err := Train(positive, negative, 0, DefaultSmoothing)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestEvaluate(t *testing.T) {
	positive, negative := corpus()
	model, err := Fit(append(positive, negative...), DefaultSmoothing)
	require.NoError(t, err)

	_, err = Evaluate(model, nil)
	assert.ErrorIs(t, err, models.ErrEmptyTestSet)

	ev, err := Evaluate(model, []models.LabeledExample{
		pos("symptoms"),
		{Features: features.Join(nil, []string{"film"}), Label: models.LabelPositive},
		neg("film"),
	})
	require.NoError(t, err)
	assert.Equal(t, Evaluation{Total: 3, Correct: 2, TruePositives: 1, TrueNegatives: 1, FalseNegatives: 1}, ev)
	assert.InDelta(t, 2.0/3.0, ev.Accuracy(), 1e-9)
	assert.Equal(t, 1.0, ev.Precision())
	assert.Equal(t, 0.5, ev.Recall())
}
