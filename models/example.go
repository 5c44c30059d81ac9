package models

// Label is the ground truth or predicted class of a document.
type Label string

const (
	LabelPositive Label = "pos"
	LabelNegative Label = "neg"
)

// Labels lists both classes in scoring order.
var Labels = []Label{LabelPositive, LabelNegative}

// Valid reports whether l is one of the two known classes.
func (l Label) Valid() bool {
	return l == LabelPositive || l == LabelNegative
}

// LabeledExample pairs a document's feature string with its class.
type LabeledExample struct {
	Features string `json:"features" yaml:"features"`
	Label    Label  `json:"label" yaml:"label"`
	Path     string `json:"path,omitempty" yaml:"path,omitempty"`
}

// PredictionResult is the outcome of classifying one document.
// Err is set when the document failed extraction or title parsing. Label is
// kept when only the title failed.
type PredictionResult struct {
	Path  string `json:"path" yaml:"path"`
	Label Label  `json:"label,omitempty" yaml:"label,omitempty"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	Err   error  `json:"-" yaml:"-"`
}

// OK reports whether the document was classified successfully.
func (r PredictionResult) OK() bool {
	return r.Err == nil
}
