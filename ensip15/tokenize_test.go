////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package ensip15

import (
	"testing"
)

// Tests the per-code-point classifier: each disposition becomes its token
// type, and adjacent valid code points coalesce.
func TestTokenize_Classification(t *testing.T) {
	e := testEngine(t)

	tokens := e.Tokenize("abC­ξ?.")
	expected := []struct {
		tt    TokenType
		start int
		out   string
	}{
		{TokenValid, 0, "ab"},
		{TokenMapped, 2, "c"},
		{TokenIgnored, 3, ""},
		{TokenValid, 4, "ξ"},
		{TokenDisallowed, 5, ""},
		{TokenStop, 6, ""},
	}

	if len(tokens) != len(expected) {
		t.Fatalf("Unexpected token count: got %d, expected %d: %v",
			len(tokens), len(expected), tokens)
	}
	for i, want := range expected {
		tok := tokens[i]
		if tok.Type != want.tt {
			t.Errorf("Token %d: unexpected type %s, expected %s",
				i, tok.Type, want.tt)
		}
		if tok.Start != want.start {
			t.Errorf("Token %d: unexpected start %d, expected %d",
				i, tok.Start, want.start)
		}
		if string(tok.Cps) != want.out {
			t.Errorf("Token %d: unexpected output %q, expected %q",
				i, string(tok.Cps), want.out)
		}
	}
}

// Tests that tokenization is total: every input code point is consumed by
// exactly one token, in order, even for garbage input.
func TestTokenize_Total(t *testing.T) {
	e := testEngine(t)

	inputs := []string{
		"",
		"....",
		"héllo wörld\t\n",
		"‍‌️",
		"1️⃣Nick­--\U0001F9D9‍♂️?ξχх",
	}

	for _, input := range inputs {
		cps := []rune(input)
		at := 0
		for _, tok := range e.Tokenize(input) {
			if tok.Start != at {
				t.Errorf("Input %q: token %s does not start at %d",
					input, tok.String(), at)
			}
			at += tok.InputLen()
		}
		if at != len(cps) {
			t.Errorf("Input %q: tokens cover %d of %d code points",
				input, at, len(cps))
		}
	}
}

// Tests emoji recognition in the token stream: FE0F absorption, greedy ZWJ
// matching, and the FE0F-free output form.
func TestTokenize_Emoji(t *testing.T) {
	e := testEngine(t)

	tokens := e.Tokenize("1️⃣2⃣")
	if len(tokens) != 2 {
		t.Fatalf("Unexpected token count: %v", tokens)
	}
	for i, tok := range tokens {
		if tok.Type != TokenEmoji {
			t.Fatalf("Token %d: expected an emoji token, got %s", i, tok.Type)
		}
	}
	if string(tokens[0].Input) != "1️⃣" ||
		string(tokens[0].Cps) != "1⃣" ||
		string(tokens[0].Emoji) != "1️⃣" {
		t.Errorf("Unexpected keycap token: %s", tokens[0].String())
	}
	if tokens[1].Start != 3 || string(tokens[1].Input) != "2⃣" ||
		string(tokens[1].Emoji) != "2️⃣" {
		t.Errorf("Unexpected keycap token: %s", tokens[1].String())
	}

	// The family sequence must win over its single-person prefix.
	tokens = e.Tokenize("\U0001F468‍\U0001F469‍\U0001F467")
	if len(tokens) != 1 || tokens[0].Type != TokenEmoji {
		t.Fatalf("Expected a single emoji token, got %v", tokens)
	}
	if tokens[0].InputLen() != 5 {
		t.Errorf("Expected the full ZWJ sequence to be consumed, got %d",
			tokens[0].InputLen())
	}

	// A broken ZWJ sequence falls back to the single-person emoji and the
	// dangling joiner stays behind as a disallowed token.
	tokens = e.Tokenize("\U0001F468‍x")
	if len(tokens) != 3 || tokens[0].Type != TokenEmoji ||
		tokens[1].Type != TokenDisallowed || tokens[2].Type != TokenValid {
		t.Errorf("Unexpected tokens for broken sequence: %v", tokens)
	}
}

// Tests the interleaved NFC pass: an altered run is replaced by an NFC token
// covering exactly the altered extent, and untouched neighbors survive.
func TestTokenize_NFC(t *testing.T) {
	e := testEngine(t)

	tokens := e.Tokenize("àme")
	if len(tokens) != 2 {
		t.Fatalf("Unexpected token count: %v", tokens)
	}
	nfc := tokens[0]
	if nfc.Type != TokenNFC || nfc.Start != 0 {
		t.Fatalf("Expected a leading NFC token, got %s", nfc.String())
	}
	if string(nfc.Input) != "à" || string(nfc.Cps) != "à" {
		t.Errorf("Unexpected NFC token contents: %s", nfc.String())
	}
	rest := tokens[1]
	if rest.Type != TokenValid || rest.Start != 2 || string(rest.Cps) != "me" {
		t.Errorf("Unexpected trailing token: %s", rest.String())
	}

	// Mapped output participates in recomposition; the NFC token's input
	// still covers the original code points.
	tokens = e.Tokenize("xÀ")
	if len(tokens) != 2 {
		t.Fatalf("Unexpected token count: %v", tokens)
	}
	if tokens[0].Type != TokenValid || string(tokens[0].Cps) != "x" {
		t.Errorf("Unexpected leading token: %s", tokens[0].String())
	}
	nfc = tokens[1]
	if nfc.Type != TokenNFC || nfc.Start != 1 ||
		string(nfc.Input) != "À" || string(nfc.Cps) != "à" {
		t.Errorf("Unexpected NFC token: %s", nfc.String())
	}

	// An already-composed run stays as it was.
	tokens = e.Tokenize("àme")
	if len(tokens) != 1 || tokens[0].Type != TokenValid {
		t.Errorf("Expected a single valid token, got %v", tokens)
	}

	// Combining marks with nothing to compose into are left alone.
	tokens = e.Tokenize("x̀")
	if len(tokens) != 1 || tokens[0].Type != TokenValid ||
		string(tokens[0].Cps) != "x̀" {
		t.Errorf("Expected an unchanged valid run, got %v", tokens)
	}
}

// Tests that an ignored code point splits NFC runs but vanishes from the
// output.
func TestTokenize_IgnoredBarrier(t *testing.T) {
	e := testEngine(t)

	tokens := e.Tokenize("a­̀")
	if len(tokens) != 3 {
		t.Fatalf("Unexpected token count: %v", tokens)
	}
	if tokens[0].Type != TokenValid || tokens[1].Type != TokenIgnored ||
		tokens[2].Type != TokenValid {
		t.Errorf("Unexpected token types: %v", tokens)
	}
}
