package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxKeywords     = 6
	maxContentWords = 4
)

var (
	properNounPattern = regexp.MustCompile(`\b[A-ZÀÂÄÉÈÊËÏÎÔÖÙÛÜŸÇ][a-zàâäéèêëïîôöùûüÿç]+(?:\s+[A-ZÀÂÄÉÈÊËÏÎÔÖÙÛÜŸÇ][a-zàâäéèêëïîôöùûüÿç]+)*\b`)
	yearPattern       = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	numberPattern     = regexp.MustCompile(`\b\d+(?:[.,]\d+)?\b`)
	nonWordPattern    = regexp.MustCompile(`[^\w\s]`)
)

// stopWords is the bilingual (French/English) set of words never used as keywords
var stopWords = map[string]bool{
	"le": true, "la": true, "les": true, "un": true, "une": true, "des": true,
	"et": true, "ou": true, "de": true, "du": true, "dans": true, "sur": true,
	"avec": true, "par": true, "pour": true, "sans": true, "qui": true, "que": true,
	"est": true, "sont": true, "été": true, "avoir": true, "être": true,
	"the": true, "and": true, "or": true, "in": true, "on": true, "at": true,
	"to": true, "for": true, "of": true, "with": true, "that": true, "this": true,
	"was": true, "were": true, "has": true, "have": true, "had": true,
}

// Keywords extracts up to six search keywords from text, in fixed priority
// order: proper-noun sequences, years, numbers, then up to four significant
// lowercase words. Keywords are not deduplicated.
func Keywords(text string) []string {
	var keywords []string
	keywords = append(keywords, properNounPattern.FindAllString(text, -1)...)
	keywords = append(keywords, yearPattern.FindAllString(text, -1)...)
	keywords = append(keywords, numberPattern.FindAllString(text, -1)...)
	keywords = append(keywords, contentWords(text)...)

	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return keywords
}

// contentWords returns the first lowercase words longer than three characters
// that are not stop words
func contentWords(text string) []string {
	cleaned := nonWordPattern.ReplaceAllString(strings.ToLower(text), " ")

	var words []string
	for _, word := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(word) <= 3 || stopWords[word] {
			continue
		}
		words = append(words, word)
		if len(words) == maxContentWords {
			break
		}
	}
	return words
}

// Query joins the keywords of text into a search query, or returns "" when
// the text yields no keywords
func Query(text string) string {
	return strings.Join(Keywords(text), " ")
}
