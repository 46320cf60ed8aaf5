package services

import (
	"math"
	"regexp"
	"strings"

	"github.com/alphabatem/common/context"
)

// ReadabilityService computes an approximate Flesch-Kincaid grade level.
// Pure text in, integer out; no I/O, so it runs on every request regardless
// of cache state.
type ReadabilityService struct {
	context.DefaultService
}

const READABILITY_SVC = "readability_svc"

var (
	sentenceSplitRe = regexp.MustCompile(`[.!?]+`)
	nonLetterRe     = regexp.MustCompile(`[^a-z]`)
	vowelRunRe      = regexp.MustCompile(`[aeiouy]+`)
)

func (svc ReadabilityService) Id() string {
	return READABILITY_SVC
}

func (svc *ReadabilityService) Start() error {
	return nil
}

// Score returns a grade level in [1, 20], or 0 for text with no sentences
// or no words. A sentence is a non-empty fragment followed by terminating
// punctuation, so text with no [.!?] at all scores 0. The syllable heuristic
// is deliberately approximate: scores are only comparable to each other, and
// swapping in a dictionary-based counter would shift every stored score.
func (svc *ReadabilityService) Score(text string) int {
	sentences := 0
	fragments := sentenceSplitRe.Split(text, -1)
	for _, fragment := range fragments[:len(fragments)-1] {
		if strings.TrimSpace(fragment) != "" {
			sentences++
		}
	}

	words := strings.Fields(text)
	if sentences == 0 || len(words) == 0 {
		return 0
	}

	syllables := 0
	for _, word := range words {
		syllables += countSyllables(word)
	}

	wordCount := float64(len(words))
	score := 206.835 - 1.015*(wordCount/float64(sentences)) - 84.6*(float64(syllables)/wordCount)

	gradeLevel := int(math.Round((score - 100) / -10))
	if gradeLevel < 1 {
		gradeLevel = 1
	}
	if gradeLevel > 20 {
		gradeLevel = 20
	}
	return gradeLevel
}

// countSyllables estimates syllables by collapsing vowel runs: strip
// non-letters, drop a trailing "e", count [aeiouy]+ groups, floor of one.
func countSyllables(word string) int {
	cleaned := nonLetterRe.ReplaceAllString(strings.ToLower(word), "")
	cleaned = strings.TrimSuffix(cleaned, "e")

	count := len(vowelRunRe.FindAllString(cleaned, -1))
	if count < 1 {
		return 1
	}
	return count
}
