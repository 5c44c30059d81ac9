package chunker

import "strings"

// stopwords never start, end or sit inside a noun phrase.
var stopwords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "across": {}, "after": {}, "afterwards": {},
	"again": {}, "against": {}, "all": {}, "almost": {}, "alone": {}, "along": {},
	"already": {}, "also": {}, "although": {}, "always": {}, "am": {}, "among": {},
	"amongst": {}, "amount": {}, "an": {}, "and": {}, "another": {}, "any": {},
	"anyhow": {}, "anyone": {}, "anything": {}, "anyway": {}, "anywhere": {},
	"are": {}, "aren't": {}, "around": {}, "as": {}, "at": {},

	"back": {}, "be": {}, "became": {}, "because": {}, "become": {}, "becomes": {},
	"becoming": {}, "been": {}, "before": {}, "beforehand": {}, "behind": {},
	"being": {}, "below": {}, "beside": {}, "besides": {}, "between": {},
	"beyond": {}, "both": {}, "but": {}, "by": {},

	"can": {}, "can't": {}, "cannot": {}, "could": {}, "couldn't": {},

	"did": {}, "didn't": {}, "do": {}, "does": {}, "doesn't": {}, "doing": {},
	"don't": {}, "done": {}, "down": {}, "during": {},

	"each": {}, "either": {}, "else": {}, "elsewhere": {}, "enough": {},
	"entirely": {}, "especially": {}, "etc": {}, "even": {}, "ever": {},
	"every": {}, "everyone": {}, "everything": {}, "everywhere": {},

	"few": {}, "for": {}, "former": {}, "formerly": {}, "from": {},
	"further": {},

	"had": {}, "hadn't": {}, "has": {}, "hasn't": {}, "have": {}, "haven't": {},
	"having": {}, "he": {}, "he'd": {}, "he'll": {}, "he's": {}, "hence": {},
	"her": {}, "here": {}, "hereafter": {}, "hereby": {}, "herein": {},
	"here's": {}, "hereupon": {}, "hers": {}, "herself": {}, "him": {},
	"himself": {}, "his": {}, "how": {}, "however": {},

	"i": {}, "i'd": {}, "i'll": {}, "i'm": {}, "i've": {},
	"if": {}, "in": {}, "indeed": {}, "into": {}, "is": {}, "isn't": {},
	"it": {}, "it's": {}, "its": {}, "itself": {},

	"just": {},

	"keep": {},

	"last": {}, "latter": {}, "latterly": {}, "least": {}, "less": {},
	"let": {}, "let's": {}, "like": {}, "likely": {},

	"made": {}, "make": {}, "many": {}, "may": {}, "maybe": {}, "me": {},
	"meanwhile": {}, "might": {}, "mine": {}, "more": {}, "moreover": {},
	"most": {}, "mostly": {}, "much": {}, "must": {}, "mustn't": {},
	"my": {}, "myself": {},

	"neither": {}, "never": {}, "nevertheless": {}, "next": {}, "no": {},
	"nobody": {}, "none": {}, "noone": {}, "nor": {}, "not": {},
	"nothing": {}, "now": {}, "nowhere": {},

	"of": {}, "off": {}, "often": {}, "on": {}, "once": {}, "one": {},
	"only": {}, "onto": {}, "or": {}, "other": {}, "others": {},
	"otherwise": {}, "our": {}, "ours": {}, "ourselves": {}, "out": {},
	"over": {}, "own": {},

	"part": {}, "per": {}, "perhaps": {}, "please": {}, "put": {},

	"rather": {}, "re": {}, "same": {}, "see": {}, "seem": {}, "seemed": {},
	"seeming": {}, "seems": {}, "several": {}, "she": {}, "she'd": {},
	"she'll": {}, "she's": {}, "should": {}, "shouldn't": {}, "since": {},
	"so": {}, "some": {}, "somehow": {}, "someone": {}, "something": {},
	"sometime": {}, "sometimes": {}, "somewhere": {}, "still": {},
	"such": {},

	"take": {}, "than": {}, "that": {}, "that's": {}, "the": {},
	"their": {}, "theirs": {}, "them": {}, "themselves": {}, "then": {},
	"thence": {}, "there": {}, "thereafter": {}, "thereby": {},
	"therefore": {}, "therein": {}, "there's": {}, "thereupon": {},
	"these": {}, "they": {}, "they'd": {}, "they'll": {}, "they're": {},
	"they've": {}, "this": {}, "those": {}, "through": {}, "throughout": {},
	"thru": {}, "thus": {}, "to": {}, "together": {}, "too": {},
	"toward": {}, "towards": {},

	"under": {}, "until": {}, "up": {}, "upon": {}, "us": {}, "use": {},

	"very": {}, "via": {},

	"was": {}, "wasn't": {}, "we": {}, "we'd": {}, "we'll": {},
	"we're": {}, "we've": {}, "well": {}, "were": {}, "weren't": {},
	"what": {}, "whatever": {}, "what's": {}, "when": {}, "whence": {},
	"whenever": {}, "where": {}, "whereafter": {}, "whereas": {},
	"whereby": {}, "wherein": {}, "where's": {}, "whereupon": {},
	"wherever": {}, "whether": {}, "which": {}, "while": {}, "whither": {},
	"who": {}, "who'd": {}, "whoever": {}, "who'll": {}, "who's": {},
	"whose": {}, "why": {}, "with": {}, "within": {}, "without": {},
	"won't": {}, "would": {}, "wouldn't": {},

	"yet": {}, "you": {}, "you'd": {}, "you'll": {}, "you're": {},
	"you've": {}, "your": {}, "yours": {}, "yourself": {}, "yourselves": {},

	// Additional contractions and variants
	"ain't": {}, "it'll": {}, "shan't": {}, "that'll": {}, "when's": {},

	// Verbs that commonly split noun phrases in encyclopedic prose
	"affects": {}, "affect": {}, "associated": {}, "called": {}, "caused": {},
	"causes": {}, "cause": {}, "characterized": {}, "characterised": {},
	"described": {}, "develop": {}, "develops": {}, "developed": {},
	"include": {}, "includes": {}, "including": {}, "involves": {},
	"known": {}, "leads": {}, "occur": {}, "occurs": {}, "occurred": {},
	"refers": {}, "referred": {}, "results": {}, "resulting": {},
	"used": {}, "uses": {}, "found": {}, "named": {}, "given": {},
}

// IsStopword reports whether word breaks a noun phrase.
func IsStopword(word string) bool {
	_, exists := stopwords[strings.ToLower(word)]
	return exists
}
