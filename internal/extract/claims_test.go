package extract

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestClaimExtractor_BasicExtraction(t *testing.T) {
	extractor := NewClaimExtractor()

	claims := extractor.Extract("Paris est la capitale de la France. Marie Curie a découvert le radium en 1898.")

	if len(claims) != 2 {
		t.Fatalf("Expected 2 claims, got %d", len(claims))
	}
	if claims[0].Text != "Paris est la capitale de la France" {
		t.Errorf("Unexpected first claim: %q", claims[0].Text)
	}
	if claims[1].Text != "Marie Curie a découvert le radium en 1898" {
		t.Errorf("Unexpected second claim: %q", claims[1].Text)
	}
}

func TestClaimExtractor_MaxThreeClaims(t *testing.T) {
	extractor := NewClaimExtractor()

	text := strings.Repeat("This sentence is comfortably longer than the limit. ", 6)
	claims := extractor.Extract(text)

	if len(claims) != 3 {
		t.Errorf("Expected 3 claims, got %d", len(claims))
	}
}

func TestClaimExtractor_SentenceLengthFiltering(t *testing.T) {
	extractor := NewClaimExtractor()

	text := "Too short. Twenty-five chars exactly! This fragment is long enough to be kept? Tiny."
	claims := extractor.Extract(text)

	if len(claims) != 1 {
		t.Fatalf("Expected 1 claim, got %d: %v", len(claims), claims)
	}
	if claims[0].Text != "This fragment is long enough to be kept" {
		t.Errorf("Unexpected claim: %q", claims[0].Text)
	}

	for _, claim := range claims {
		if utf8.RuneCountInString(claim.Text) <= MinClaimLength {
			t.Errorf("Claim too short (%d chars): %s", len(claim.Text), claim.Text)
		}
		if claim.Text != strings.TrimSpace(claim.Text) {
			t.Errorf("Claim not trimmed: %q", claim.Text)
		}
	}
}

func TestClaimExtractor_BoundaryLength(t *testing.T) {
	extractor := NewClaimExtractor()

	exact := strings.Repeat("a", MinClaimLength)
	if claims := extractor.Extract(exact + "."); len(claims) != 0 {
		t.Errorf("Expected fragment of exactly %d chars to be dropped, got %v", MinClaimLength, claims)
	}
	if claims := extractor.Extract(exact + "b."); len(claims) != 1 {
		t.Errorf("Expected fragment of %d chars to be kept, got %v", MinClaimLength+1, claims)
	}
}

func TestClaimExtractor_AccentedCharactersCountedOnce(t *testing.T) {
	extractor := NewClaimExtractor()

	// 25 characters but more than 25 bytes
	fragment := strings.Repeat("é", MinClaimLength)
	if claims := extractor.Extract(fragment); len(claims) != 0 {
		t.Errorf("Expected 25-character accented fragment to be dropped, got %v", claims)
	}
}

func TestClaimExtractor_EmptyInput(t *testing.T) {
	extractor := NewClaimExtractor()

	if claims := extractor.Extract(""); len(claims) != 0 {
		t.Errorf("Expected 0 claims from empty input, got %d", len(claims))
	}
	if claims := extractor.Extract("!!! ... ???"); len(claims) != 0 {
		t.Errorf("Expected 0 claims from punctuation, got %d", len(claims))
	}
}

func TestClaimExtractor_UnpunctuatedLongText(t *testing.T) {
	extractor := NewClaimExtractor()

	claims := extractor.Extract("a long passage without any terminal punctuation at all")
	if len(claims) != 1 {
		t.Errorf("Expected the whole passage as one claim, got %d", len(claims))
	}
}
