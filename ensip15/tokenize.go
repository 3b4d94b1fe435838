////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package ensip15

import (
	"golang.org/x/exp/slices"
	"golang.org/x/text/unicode/norm"
)

const (
	cpStop       rune = 0x2E
	cpHyphen     rune = 0x2D
	cpUnderscore rune = 0x5F
	cpFE0F       rune = 0xFE0F
)

// Tokenize converts a name into its lossless structural view. Tokenization
// is total: every input code point is covered by exactly one token, and
// disallowed code points survive as tokens rather than failing.
func (e *ENSIP15) Tokenize(name string) []Token {
	cps := []rune(name)
	tokens := make([]Token, 0, len(cps))

	for i := 0; i < len(cps); {
		if match, ok := e.spec.MatchEmoji(cps, i); ok {
			tokens = append(tokens, Token{
				Type:  TokenEmoji,
				Emoji: match.Emoji,
				Input: match.Input,
				Cps:   match.Cps,
				Start: i,
			})
			i += len(match.Input)
			continue
		}

		cp := cps[i]
		switch {
		case cp == cpStop:
			tokens = append(tokens, Token{Type: TokenStop, Cp: cp, Start: i})
		case e.spec.IsValid(cp):
			tokens = append(tokens,
				Token{Type: TokenValid, Cps: []rune{cp}, Start: i})
		case e.spec.MappedTo(cp) != nil:
			tokens = append(tokens, Token{
				Type:  TokenMapped,
				Cp:    cp,
				Cps:   slices.Clone(e.spec.MappedTo(cp)),
				Start: i,
			})
		case e.spec.IsIgnored(cp):
			tokens = append(tokens, Token{Type: TokenIgnored, Cp: cp, Start: i})
		default:
			tokens = append(tokens,
				Token{Type: TokenDisallowed, Cp: cp, Start: i})
		}
		i++
	}

	tokens = e.applyNFC(cps, tokens)

	return coalesceValid(tokens)
}

// isTextToken reports whether a token participates in NFC runs. Emoji, stop,
// ignored, and disallowed tokens are barriers.
func isTextToken(t *Token) bool {
	return t.Type == TokenValid || t.Type == TokenMapped
}

// hasNFCCheck reports whether any output code point of the token is in the
// NFC quick-check set.
func (e *ENSIP15) hasNFCCheck(t *Token) bool {
	for _, cp := range t.Cps {
		if e.spec.NeedsNFCCheck(cp) {
			return true
		}
	}
	return false
}

// applyNFC walks the token stream, fuses adjacent text tokens into runs, and
// replaces every run that NFC alters with a single NFC token covering the
// altered extent. Tokens at the edges of a run whose output is provably
// untouched stay as they were.
func (e *ENSIP15) applyNFC(input []rune, tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))

	for i := 0; i < len(tokens); {
		if !isTextToken(&tokens[i]) {
			out = append(out, tokens[i])
			i++
			continue
		}

		j := i
		requiresCheck := false
		for j < len(tokens) && isTextToken(&tokens[j]) {
			requiresCheck = requiresCheck || e.hasNFCCheck(&tokens[j])
			j++
		}

		if !requiresCheck {
			out = append(out, tokens[i:j]...)
			i = j
			continue
		}

		var runCps []rune
		for k := i; k < j; k++ {
			runCps = append(runCps, tokens[k].Cps...)
		}
		normCps := []rune(norm.NFC.String(string(runCps)))
		if slices.Equal(normCps, runCps) {
			out = append(out, tokens[i:j]...)
			i = j
			continue
		}

		// Shrink the replaced window to the altered extent: an edge token
		// with no quick-check code points whose output survives verbatim in
		// the recomposed run stays outside the NFC token.
		lo, hi := i, j
		for lo < hi {
			t := &tokens[lo]
			n := len(t.Cps)
			if e.hasNFCCheck(t) || n > len(normCps) ||
				!slices.Equal(t.Cps, normCps[:n]) {
				break
			}
			normCps = normCps[n:]
			lo++
		}
		for hi > lo {
			t := &tokens[hi-1]
			n := len(t.Cps)
			if e.hasNFCCheck(t) || n > len(normCps) ||
				!slices.Equal(t.Cps, normCps[len(normCps)-n:]) {
				break
			}
			normCps = normCps[:len(normCps)-n]
			hi--
		}

		out = append(out, tokens[i:lo]...)

		inputStart := tokens[lo].Start
		lastTok := &tokens[hi-1]
		inputEnd := lastTok.Start + lastTok.InputLen()
		out = append(out, Token{
			Type:  TokenNFC,
			Input: slices.Clone(input[inputStart:inputEnd]),
			Cps:   normCps,
			Start: inputStart,
		})

		out = append(out, tokens[hi:j]...)
		i = j
	}

	return out
}

// coalesceValid merges runs of adjacent valid tokens into one.
func coalesceValid(tokens []Token) []Token {
	out := tokens[:0]
	for _, t := range tokens {
		if t.Type == TokenValid && len(out) > 0 &&
			out[len(out)-1].Type == TokenValid {
			prev := &out[len(out)-1]
			prev.Cps = append(prev.Cps, t.Cps...)
			continue
		}
		out = append(out, t)
	}
	return out
}
