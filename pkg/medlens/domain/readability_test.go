package domain

import "testing"

func TestFleschKincaidGradeEmptyText(t *testing.T) {
	if grade := FleschKincaidGrade(""); grade != 0.0 {
		t.Fatalf("expected 0 for empty text, got %v", grade)
	}
	if grade := FleschKincaidGrade("   \n  "); grade != 0.0 {
		t.Fatalf("expected 0 for blank text, got %v", grade)
	}
}

func TestFleschKincaidGradeSimpleText(t *testing.T) {
	grade := FleschKincaidGrade("The cat sat on the mat. The dog ran to the park. We had fun all day.")
	if grade >= 5.0 {
		t.Fatalf("expected a low grade for simple text, got %v", grade)
	}
}

func TestFleschKincaidGradeComplexText(t *testing.T) {
	grade := FleschKincaidGrade("The histopathological examination demonstrated significant cellular atypia " +
		"consistent with dysplastic melanocytic proliferation.")
	if grade <= 10.0 {
		t.Fatalf("expected a high grade for dense clinical prose, got %v", grade)
	}
}

func TestFleschKincaidGradeNeverNegative(t *testing.T) {
	if grade := FleschKincaidGrade("Go. Run. Hide. Now."); grade < 0.0 {
		t.Fatalf("grade must not be negative, got %v", grade)
	}
}

func TestFleschKincaidGradeNoTerminalPunctuation(t *testing.T) {
	// Without terminal punctuation the whole text counts as one sentence.
	if grade := FleschKincaidGrade("a long line of words with no end in sight at all"); grade < 0.0 {
		t.Fatalf("grade must not be negative, got %v", grade)
	}
}

func TestCountSyllables(t *testing.T) {
	tests := []struct {
		word     string
		expected int
	}{
		{"cat", 1},
		{"doctor", 2},
		{"medicine", 3},
		{"see", 1},     // the silent-e correction never drops below one syllable
		{"rhythm", 1},  // "y" is the only vowel
		{"123", 1},     // no letters at all still counts as one
		{"biopsy", 2}, // "io" is a single vowel group under the heuristic
		{"skin", 1},
	}
	for _, test := range tests {
		if actual := countSyllables(test.word); actual != test.expected {
			t.Errorf("countSyllables(%q) = %d, expected %d", test.word, actual, test.expected)
		}
	}
}
