package domain

import (
	"regexp"
	"strings"
)

var sentenceTerminator = regexp.MustCompile(`[.!?]+`)

// FleschKincaidGrade estimates the US school grade level required to understand the text, using the
// standard Flesch-Kincaid formula over whitespace-tokenized words, terminal-punctuation sentence counting
// and a vowel-group syllable heuristic. Returns 0 for empty input; never returns a negative grade.
func FleschKincaidGrade(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0.0
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0.0
	}
	// A run of terminal punctuation marks counts as one sentence boundary.
	sentences := len(sentenceTerminator.FindAllString(text, -1))
	if sentences == 0 {
		sentences = 1
	}
	syllables := 0
	for _, word := range words {
		syllables += countSyllables(word)
	}
	grade := 0.39*(float64(len(words))/float64(sentences)) + 11.8*(float64(syllables)/float64(len(words))) - 15.59
	if grade < 0.0 {
		return 0.0
	}
	return grade
}

// countSyllables counts maximal vowel runs, with a correction for a trailing silent "e" and a floor of one
// syllable per word. Good enough for a readability estimate; not a pronunciation dictionary.
func countSyllables(word string) int {
	var letters strings.Builder
	for _, r := range strings.ToLower(word) {
		if r >= 'a' && r <= 'z' {
			letters.WriteRune(r)
		}
	}
	cleaned := letters.String()
	if cleaned == "" {
		return 1
	}
	count := 0
	previousWasVowel := false
	for _, r := range cleaned {
		isVowel := strings.ContainsRune("aeiouy", r)
		if isVowel && !previousWasVowel {
			count++
		}
		previousWasVowel = isVowel
	}
	if strings.HasSuffix(cleaned, "e") && count > 1 {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}
