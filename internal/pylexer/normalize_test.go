package pylexer

import (
	"bytes"
	"testing"

	"golang.org/x/text/unicode/norm"
)

func TestBOMStripping(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected []byte
	}{
		{"with_bom", []byte{0xEF, 0xBB, 0xBF, 'h', 'e', 'l', 'l', 'o'}, []byte("hello")},
		{"without_bom", []byte("hello"), []byte("hello")},
		{"empty_with_bom", []byte{0xEF, 0xBB, 0xBF}, []byte{}},
		{"empty_without_bom", []byte{}, []byte{}},
		{"partial_bom", []byte{0xEF, 0xBB, 'h', 'i'}, []byte{0xEF, 0xBB, 'h', 'i'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Normalize(tt.input)
			if !bytes.Equal(result, tt.expected) {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestNFCNormalization(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already_nfc", "café", "café"},
		{"nfd_to_nfc", "café", "café"},
		{"ascii_unchanged", "hello world", "hello world"},
		{"mixed_unicode", "naïve café", "naïve café"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := string(Normalize([]byte(tt.input)))
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
			if !norm.NFC.IsNormalString(result) {
				t.Errorf("Result is not in NFC form")
			}
		})
	}
}

func TestBOMAndNFC(t *testing.T) {
	input := append(bomUTF8, []byte("café")...)
	expected := "café"

	result := string(Normalize(input))
	if result != expected {
		t.Errorf("Expected %q, got %q", expected, result)
	}
	if !norm.NFC.IsNormalString(result) {
		t.Errorf("Result is not in NFC form")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"hello", "café", "café", "﻿hello"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first := Normalize([]byte(input))
			second := Normalize(first)
			if !bytes.Equal(first, second) {
				t.Errorf("Normalize is not idempotent: first=%q, second=%q", first, second)
			}
		})
	}
}

// TestNormalizePreservesTokenization mirrors the teacher's canary test: a
// Python snippet tokenizes identically whether or not it's been run
// through Normalize first, since plain ASCII and already-NFC source is a
// no-op for Normalize.
func TestNormalizePreservesTokenization(t *testing.T) {
	src := "def add(a, b):\n    return a + b\n"

	l1 := New(src, "test.py")
	var tokens1 []TokenType
	for {
		tok := l1.NextToken()
		tokens1 = append(tokens1, tok.Type)
		if tok.Type == EOF {
			break
		}
	}

	normalized := Normalize([]byte(src))
	l2 := New(string(normalized), "test.py")
	var tokens2 []TokenType
	for {
		tok := l2.NextToken()
		tokens2 = append(tokens2, tok.Type)
		if tok.Type == EOF {
			break
		}
	}

	if len(tokens1) != len(tokens2) {
		t.Fatalf("token count mismatch: %d vs %d", len(tokens1), len(tokens2))
	}
	for i := range tokens1 {
		if tokens1[i] != tokens2[i] {
			t.Errorf("token %d type mismatch: %v vs %v", i, tokens1[i], tokens2[i])
		}
	}
}

func TestNormalizeDeterminism(t *testing.T) {
	input := []byte("﻿café")

	var results [][]byte
	for i := 0; i < 100; i++ {
		results = append(results, Normalize(input))
	}
	baseline := results[0]
	for i, result := range results[1:] {
		if !bytes.Equal(result, baseline) {
			t.Errorf("Iteration %d produced different output", i+1)
		}
	}
}
