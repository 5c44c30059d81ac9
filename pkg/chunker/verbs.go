package chunker

import "strings"

// verbStems are verbs common in article lead paragraphs. Their inflected
// forms ("follows", "happened", "varies") end a phrase the way a stopword
// does. Bare stems are left alone since most double as nouns ("spread").
var verbStems = map[string]struct{}{
	"affect": {}, "appear": {}, "arise": {}, "begin": {}, "cause": {},
	"continue": {}, "develop": {}, "emerge": {}, "exist": {}, "follow": {},
	"happen": {}, "improve": {}, "increase": {}, "lead": {}, "occur": {},
	"persist": {}, "present": {}, "recur": {}, "remain": {}, "resolve": {},
	"result": {}, "seem": {}, "spread": {}, "tend": {}, "vary": {},
	"worsen": {},
}

// verbSuffixes maps an inflection to what replaces it to recover the stem.
var verbSuffixes = []struct{ suffix, stem string }{
	{"ies", "y"}, {"ied", "y"}, {"es", ""}, {"s", ""}, {"ed", ""}, {"d", ""},
}

// isVerbForm reports whether word is an inflected form of a known verb.
func isVerbForm(word string) bool {
	word = strings.ToLower(word)
	for _, vs := range verbSuffixes {
		if !strings.HasSuffix(word, vs.suffix) {
			continue
		}
		if _, ok := verbStems[strings.TrimSuffix(word, vs.suffix)+vs.stem]; ok {
			return true
		}
	}
	return false
}
