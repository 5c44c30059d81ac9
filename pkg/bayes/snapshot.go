package bayes

import (
	"math"
	"sort"

	"github.com/dtnitsch/wiki-diseases/models"
	"github.com/dtnitsch/wiki-diseases/pkg/features"
)

// Snapshot is the minimal, persistable form of a trained classifier: class
// priors and per-token likelihoods, all in log space.
type Snapshot struct {
	Labels         []models.Label                      `yaml:"labels"`
	Smoothing      float64                             `yaml:"smoothing"`
	LogPriors      map[models.Label]float64            `yaml:"log_priors"`
	LogUnseen      map[models.Label]float64            `yaml:"log_unseen"`
	LogLikelihoods map[models.Label]map[string]float64 `yaml:"log_likelihoods"`
}

// Scores returns log P(c) + sum log P(t|c) for every class.
func (s *Snapshot) Scores(featureString string) map[models.Label]float64 {
	tokens := features.Tokens(featureString)

	scores := make(map[models.Label]float64, len(s.Labels))
	for _, label := range s.Labels {
		score := s.LogPriors[label]
		for _, tok := range tokens {
			if !s.known(tok) {
				continue
			}
			if ll, ok := s.LogLikelihoods[label][tok]; ok {
				score += ll
			} else {
				score += s.LogUnseen[label]
			}
		}
		scores[label] = score
	}
	return scores
}

// Classify returns the highest scoring class. Exact ties go to the negative class.
func (s *Snapshot) Classify(featureString string) models.Label {
	scores := s.Scores(featureString)
	best := models.LabelNegative
	if scores[models.LabelPositive] > scores[best] {
		best = models.LabelPositive
	}
	return best
}

// Probabilities normalizes Scores into a distribution over classes.
func (s *Snapshot) Probabilities(featureString string) map[models.Label]float64 {
	scores := s.Scores(featureString)

	max := math.Inf(-1)
	for _, v := range scores {
		if v > max {
			max = v
		}
	}

	probs := make(map[models.Label]float64, len(scores))
	sum := 0.0
	for label, v := range scores {
		p := math.Exp(v - max)
		probs[label] = p
		sum += p
	}
	for label := range probs {
		probs[label] /= sum
	}
	return probs
}

func (s *Snapshot) known(tok string) bool {
	for _, table := range s.LogLikelihoods {
		if _, ok := table[tok]; ok {
			return true
		}
	}
	return false
}

// Informative is a token whose likelihood differs strongly between classes.
type Informative struct {
	Token  string       `json:"token" yaml:"token"`
	Favors models.Label `json:"favors" yaml:"favors"`
	Ratio  float64      `json:"ratio" yaml:"ratio"`
}

// MostInformative returns the n tokens with the largest likelihood ratio
// between the positive and negative class.
func (s *Snapshot) MostInformative(n int) []Informative {
	vocab := make(map[string]struct{})
	for _, table := range s.LogLikelihoods {
		for tok := range table {
			vocab[tok] = struct{}{}
		}
	}

	out := make([]Informative, 0, len(vocab))
	for tok := range vocab {
		pos := s.logLikelihood(models.LabelPositive, tok)
		neg := s.logLikelihood(models.LabelNegative, tok)
		inf := Informative{Token: tok, Favors: models.LabelPositive, Ratio: math.Exp(pos - neg)}
		if neg > pos {
			inf.Favors = models.LabelNegative
			inf.Ratio = math.Exp(neg - pos)
		}
		out = append(out, inf)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Ratio != out[j].Ratio {
			return out[i].Ratio > out[j].Ratio
		}
		return out[i].Token < out[j].Token
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

func (s *Snapshot) logLikelihood(label models.Label, tok string) float64 {
	if ll, ok := s.LogLikelihoods[label][tok]; ok {
		return ll
	}
	return s.LogUnseen[label]
}

func (s *Snapshot) clone() *Snapshot {
	c := &Snapshot{
		Labels:         append([]models.Label(nil), s.Labels...),
		Smoothing:      s.Smoothing,
		LogPriors:      make(map[models.Label]float64, len(s.LogPriors)),
		LogUnseen:      make(map[models.Label]float64, len(s.LogUnseen)),
		LogLikelihoods: make(map[models.Label]map[string]float64, len(s.LogLikelihoods)),
	}
	for k, v := range s.LogPriors {
		c.LogPriors[k] = v
	}
	for k, v := range s.LogUnseen {
		c.LogUnseen[k] = v
	}
	for label, table := range s.LogLikelihoods {
		t := make(map[string]float64, len(table))
		for tok, v := range table {
			t[tok] = v
		}
		c.LogLikelihoods[label] = t
	}
	return c
}
