package chat

import (
	"regexp"
	"strings"
)

// TopicResponder answers general questions with canned text.
type TopicResponder interface {
	Respond(text string) (string, bool)
}

// Topic is one canned answer and the keywords that trigger it.
type Topic struct {
	Keywords []string
	Answer   string
}

// KeywordResponder returns the answer of the first topic with a keyword in the text.
// Keywords match whole words only, so "carpet" does not mention a pet.
type KeywordResponder struct {
	topics   []Topic
	matchers []*regexp.Regexp
}

func NewKeywordResponder(topics []Topic) *KeywordResponder {
	k := &KeywordResponder{topics: topics, matchers: make([]*regexp.Regexp, len(topics))}
	for i, t := range topics {
		k.matchers[i] = keywordMatcher(t.Keywords)
	}
	return k
}

// keywordMatcher builds one pattern per topic. Boundaries are spelled out because
// \b is ASCII-only and would split "ubicación" after the accent.
func keywordMatcher(keywords []string) *regexp.Regexp {
	if len(keywords) == 0 {
		return nil
	}
	quoted := make([]string, len(keywords))
	for i, kw := range keywords {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(kw))
	}
	return regexp.MustCompile(`(?:^|[^\p{L}\p{N}])(?:` + strings.Join(quoted, "|") + `)(?:$|[^\p{L}\p{N}])`)
}

func (k *KeywordResponder) Respond(text string) (string, bool) {
	lower := strings.ToLower(text)
	for i, t := range k.topics {
		if re := k.matchers[i]; re != nil && re.MatchString(lower) {
			return t.Answer, true
		}
	}
	return "", false
}

// DefaultTopics covers the questions guests ask most before searching.
var DefaultTopics = []Topic{
	{
		Keywords: []string{"check-in time", "check in time", "checkout time", "check-out time", "hora de entrada", "hora de salida"},
		Answer:   "Check-in is from 3 pm and check-out is until 11 am.",
	},
	{
		Keywords: []string{"pet", "pets", "dog", "dogs", "cat", "cats", "mascota", "mascotas", "perro", "perros", "gato", "gatos"},
		Answer:   "Pets are welcome in all cabins. Please mention them when you book.",
	},
	{
		Keywords: []string{"wifi", "wi-fi", "internet"},
		Answer:   "All cabins have free Wi-Fi.",
	},
	{
		Keywords: []string{"where are you", "located", "location", "address", "directions", "ubicacion", "ubicación", "direccion", "dirección", "donde estan", "dónde están"},
		Answer:   "You will receive the address and directions with your booking confirmation.",
	},
	{
		Keywords: []string{"parking", "estacionamiento", "cochera"},
		Answer:   "Every cabin has its own parking space.",
	},
}
