package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Shared parsing utilities for agent output extraction.
//
// All three agents parse semi-structured model output using section-header matching. The model is prompted
// to use fixed headers but is not guaranteed to comply (ordering, casing, extra prose), so everything here
// is case-insensitive and degrades to empty/default values instead of failing: a hard parsing failure would
// abort the whole pipeline on a single malformed response.

var listItemSeparator = regexp.MustCompile(`,|\n\s*\d+[.)]\s*|\n\s*[-•]\s*`)
var decimalNumber = regexp.MustCompile(`(\d+\.?\d*)`)

// The captured section runs up to the next line that looks like a section header (an uppercase letter
// followed by word/space characters and a colon) or the end of the text.
func sectionPattern(header string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)` + regexp.QuoteMeta(header) + `\s*:\s*(.+?)(?:\n[A-Z][\w\s]*:|$)`)
}

// ExtractSection returns the value after a `header:` marker, trimmed. Returns "" if the header is absent.
func ExtractSection(text, header string) string {
	match := sectionPattern(header).FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}

// ExtractList extracts a comma-separated, numbered or bulleted list from a section. Items are trimmed of
// surrounding whitespace and bullet punctuation; empty items are dropped. Returns nil if the header is absent.
func ExtractList(text, header string) []string {
	match := sectionPattern(header).FindStringSubmatch(text)
	if match == nil {
		return nil
	}
	var items []string
	for _, item := range listItemSeparator.Split(strings.TrimSpace(match[1]), -1) {
		item = strings.TrimSpace(item)
		item = strings.Trim(item, "-•).")
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// ParseConfidence converts a confidence string to a score in [0, 1]. Keywords win over numbers; a number
// greater than 1 is read as a percentage. Returns 0 when nothing can be recognized.
func ParseConfidence(confidence string) float64 {
	confidence = strings.ToLower(strings.TrimSpace(confidence))
	keywords := []struct {
		keyword string
		score   float64
	}{
		{"high", 0.9},
		{"moderate", 0.7},
		{"medium", 0.7},
		{"low", 0.4},
	}
	for _, k := range keywords {
		if strings.Contains(confidence, k.keyword) {
			return k.score
		}
	}
	match := decimalNumber.FindString(confidence)
	if match != "" {
		value, err := strconv.ParseFloat(match, 64)
		if err == nil {
			if value > 1.0 {
				return value / 100.0
			}
			return value
		}
	}
	return 0.0
}

// ParseUrgency normalizes an urgency string to one of: routine, urgent, emergent. "emergent" is checked
// before "urgent" because the former contains the latter's signal and must win. Unrecognized non-empty
// input is returned lowercased as-is so the caller can still display it.
func ParseUrgency(urgency string) string {
	urgency = strings.ToLower(strings.TrimSpace(urgency))
	for _, level := range []string{"emergent", "urgent", "routine"} {
		if strings.Contains(urgency, level) {
			return level
		}
	}
	if urgency == "" {
		return "routine"
	}
	return urgency
}
