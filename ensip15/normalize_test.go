////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package ensip15

import (
	"reflect"
	"strings"
	"testing"
)

// Tests canonicalization of normalizable names: case foldings, removals, NFC
// recomposition, and FE0F stripping.
func TestENSIP15_Normalize(t *testing.T) {
	e := testEngine(t)

	tests := []struct{ input, expected string }{
		{"", ""},
		{"Nick.ETH", "nick.eth"},
		{"nick.eth", "nick.eth"},
		{"Ni­ck", "nick"},
		{"àme\U0001F9D9‍♂️.eth", "àme\U0001F9D9‍♂.eth"},
		{"1️⃣2️⃣.eth", "1⃣2⃣.eth"},
		{"™ark", "tmark"},
		{"_abc.x-y", "_abc.x-y"},
		{"Ξ.ΑΧ", "ξ.αχ"},
	}

	for _, tt := range tests {
		normalized, err := e.Normalize(tt.input)
		if err != nil {
			t.Errorf("Failed to normalize %q: %+v", tt.input, err)
			continue
		}
		if normalized != tt.expected {
			t.Errorf("Unexpected result for %q: got %q, expected %q",
				tt.input, normalized, tt.expected)
		}
	}
}

// Tests that normalization is idempotent over a set of normalizable names.
func TestENSIP15_Normalize_Idempotent(t *testing.T) {
	e := testEngine(t)

	inputs := []string{"Nick.ETH", "àme.eth", "1️⃣", "_x.y-z", "ξ.βχ", "💯'💯"}
	for _, input := range inputs {
		once, err := e.Normalize(input)
		if err != nil {
			t.Fatalf("Failed to normalize %q: %+v", input, err)
		}
		twice, err := e.Normalize(once)
		if err != nil {
			t.Fatalf("Failed to re-normalize %q: %+v", once, err)
		}
		if once != twice {
			t.Errorf("Normalization of %q is not idempotent: %q vs %q",
				input, once, twice)
		}
	}
}

// Tests that separators in the output correspond exactly to stops in the
// input.
func TestENSIP15_Normalize_Separators(t *testing.T) {
	e := testEngine(t)

	normalized, err := e.Normalize("a.b.c")
	if err != nil {
		t.Fatalf("Failed to normalize: %+v", err)
	}
	if strings.Count(normalized, ".") != 2 {
		t.Errorf("Unexpected separator count in %q", normalized)
	}

	// No transformation may introduce a stop.
	for _, input := range []string{"ab", "Ni­ck", "àb", "1️⃣"} {
		normalized, err = e.Normalize(input)
		if err != nil {
			t.Fatalf("Failed to normalize %q: %+v", input, err)
		}
		if strings.Contains(normalized, ".") {
			t.Errorf("Normalization of %q introduced a separator: %q",
				input, normalized)
		}
	}
}

func TestENSIP15_IsNormalizable(t *testing.T) {
	e := testEngine(t)

	if !e.IsNormalizable("Nick.ETH") {
		t.Errorf("Expected Nick.ETH to be normalizable")
	}
	if e.IsNormalizable("a?b") {
		t.Errorf("Expected a?b to be rejected")
	}
	if e.IsNormalizable("0х0") {
		t.Errorf("Expected a whole-script confusable to be rejected")
	}
}

// Tests the transformation enumeration: one entry per mapping, removal, NFC
// recomposition, and FE0F strip, attributed to input offsets.
func TestENSIP15_Normalizations(t *testing.T) {
	e := testEngine(t)

	seqs := e.Normalizations("Nick.ETH")
	expected := []NormalizableSequence{
		{Code: CodeMapped, Index: 0, Sequence: "N", Suggested: "n"},
		{Code: CodeMapped, Index: 5, Sequence: "E", Suggested: "e"},
		{Code: CodeMapped, Index: 6, Sequence: "T", Suggested: "t"},
		{Code: CodeMapped, Index: 7, Sequence: "H", Suggested: "h"},
	}
	if !reflect.DeepEqual(seqs, expected) {
		t.Errorf("Unexpected transformations: %+v", seqs)
	}

	seqs = e.Normalizations("­à1️⃣")
	expected = []NormalizableSequence{
		{Code: CodeIgnored, Index: 0, Sequence: "­"},
		{Code: CodeNFC, Index: 1, Sequence: "à", Suggested: "à"},
		{Code: CodeFE0F, Index: 3, Sequence: "1️⃣", Suggested: "1⃣"},
	}
	if !reflect.DeepEqual(seqs, expected) {
		t.Errorf("Unexpected transformations: %+v", seqs)
	}

	// Enumeration is total and empty for untransformed or disallowed input.
	if seqs = e.Normalizations("a?b"); seqs != nil {
		t.Errorf("Expected no transformations, got %+v", seqs)
	}
	if seqs = e.Normalizations("already normal"); len(seqs) != 0 {
		t.Errorf("Expected no transformations, got %+v", seqs)
	}
}
