package nlp

import "strings"

// stopwords filtered out of extracted keywords.
var stopwords = map[string]struct{}{}

func init() {
	words := []string{
		"a", "about", "above", "after", "again", "against", "all", "also",
		"an", "and", "any", "because", "before", "being", "below", "between",
		"both", "but", "by", "can", "could", "down", "during", "each", "few",
		"for", "from", "further", "get", "got", "here", "how", "i", "if",
		"in", "into", "it", "its", "itself", "just", "like", "make", "many",
		"me", "mention", "mentioned", "more", "most", "my", "myself", "no",
		"nor", "not", "now", "of", "off", "on", "once", "only", "or", "other",
		"our", "ours", "out", "over", "own", "really", "same", "she", "should",
		"so", "some", "such", "than", "that", "the", "their", "theirs", "them",
		"then", "there", "these", "they", "thing", "things", "this", "those",
		"through", "time", "times", "to", "today", "too", "under", "until",
		"up", "very", "want", "we", "what", "when", "where", "which", "while",
		"who", "whom", "why", "will", "with", "would", "you", "your", "yours",
	}
	for _, w := range words {
		stopwords[w] = struct{}{}
	}
}

// IsStopword reports whether the lower-cased word is filtered from keywords.
func IsStopword(w string) bool {
	_, ok := stopwords[strings.ToLower(w)]
	return ok
}
