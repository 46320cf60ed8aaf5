package services

import "testing"

func TestScoreEmptyText(t *testing.T) {
	svc := &ReadabilityService{}

	cases := []string{"", "   ", "\n\t", "..."}
	for _, text := range cases {
		if got := svc.Score(text); got != 0 {
			t.Errorf("Score(%q) = %d, want 0", text, got)
		}
	}
}

func TestScoreSimpleText(t *testing.T) {
	svc := &ReadabilityService{}

	// Short words, short sentences. Should land at the bottom of the scale.
	got := svc.Score("The cat sat. The dog ran. It was fun.")
	if got != 1 {
		t.Errorf("Score = %d, want 1", got)
	}
}

func TestScoreComplexText(t *testing.T) {
	svc := &ReadabilityService{}

	simple := svc.Score("The cat sat on the mat. The dog ran to the park.")
	complex := svc.Score("Notwithstanding considerable organizational complexities, interdepartmental collaboration facilitates extraordinarily comprehensive documentation methodologies.")

	if complex <= simple {
		t.Errorf("complex text scored %d, simple scored %d; want complex > simple", complex, simple)
	}
}

func TestScoreClampedToTwenty(t *testing.T) {
	svc := &ReadabilityService{}

	// One enormous sentence of polysyllabic words pushes the raw grade far
	// past the ceiling.
	text := "Incomprehensibility notwithstanding institutionalization overgeneralization compartmentalization internationalization departmentalization professionalization individualization conceptualization."
	if got := svc.Score(text); got != 20 {
		t.Errorf("Score = %d, want 20", got)
	}
}

func TestScoreNoTerminator(t *testing.T) {
	svc := &ReadabilityService{}

	// No terminating punctuation means no sentences, so no score.
	if got := svc.Score("hello world this is text"); got != 0 {
		t.Errorf("Score = %d for unterminated text, want 0", got)
	}
}

func TestScoreTrailingFragment(t *testing.T) {
	svc := &ReadabilityService{}

	// An unterminated tail does not add a sentence, but its words still
	// count toward the formula.
	terminated := svc.Score("The cat sat on the mat.")
	withTail := svc.Score("The cat sat on the mat. and then")
	if withTail == 0 {
		t.Error("text with at least one terminated sentence must score")
	}
	if terminated == 0 {
		t.Error("terminated sentence must score")
	}
}

func TestCountSyllables(t *testing.T) {
	cases := []struct {
		word string
		want int
	}{
		{"cat", 1},
		{"hello", 2},
		{"beautiful", 3},
		{"the", 1},
		{"rhythm", 1},   // y counts as a vowel
		{"cake", 1},     // trailing e dropped
		{"xyzzyx", 2},   // two y runs
		{"...", 1},      // floor of one
		{"don't", 1},    // apostrophe stripped
		{"Elephant", 3}, // case-insensitive
	}

	for _, c := range cases {
		if got := countSyllables(c.word); got != c.want {
			t.Errorf("countSyllables(%q) = %d, want %d", c.word, got, c.want)
		}
	}
}
