////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package ensip15

import (
	"strings"

	"golang.org/x/exp/slices"
)

// run drives the shared pipeline: tokenize, split, validate. The returned
// labels are valid; any failure surfaces as the diagnostic of the first
// failing label in input order.
func (e *ENSIP15) run(name string) ([]label, error) {
	input := []rune(name)
	labels := splitLabels(e.Tokenize(name))

	for i := range labels {
		lab := &labels[i]
		if len(lab.tokens) == 0 {
			return nil, e.emptyLabelError(input, lab)
		}
		if err := e.validateLabel(input, lab); err != nil {
			return nil, err
		}
	}
	return labels, nil
}

// Normalize transforms a name into its canonical normalized form, or returns
// the diagnostic explaining why no such form exists. The empty name
// normalizes to itself.
func (e *ENSIP15) Normalize(name string) (string, error) {
	if name == "" {
		return "", nil
	}

	labels, err := e.run(name)
	if err != nil {
		return "", err
	}

	parts := make([]string, len(labels))
	for i := range labels {
		parts[i] = string(labels[i].outputCps())
	}
	return strings.Join(parts, "."), nil
}

// IsNormalizable reports whether the name either is normalized or can be
// normalized.
func (e *ENSIP15) IsNormalizable(name string) bool {
	_, err := e.Normalize(name)
	return err == nil
}

// Normalizations enumerates every transformation tokenization would apply to
// the name: mappings, removals, FE0F strips, and NFC recompositions, in input
// order. Like [ENSIP15.Tokenize] it is total; it does not validate.
func (e *ENSIP15) Normalizations(name string) []NormalizableSequence {
	var seqs []NormalizableSequence
	tokens := e.Tokenize(name)

	for i := range tokens {
		t := &tokens[i]
		switch t.Type {
		case TokenMapped:
			seqs = append(seqs, NormalizableSequence{
				Code:      CodeMapped,
				Index:     t.Start,
				Sequence:  string(t.Cp),
				Suggested: string(t.Cps),
			})
		case TokenIgnored:
			seqs = append(seqs, NormalizableSequence{
				Code:     CodeIgnored,
				Index:    t.Start,
				Sequence: string(t.Cp),
			})
		case TokenNFC:
			seqs = append(seqs, NormalizableSequence{
				Code:      CodeNFC,
				Index:     t.Start,
				Sequence:  string(t.Input),
				Suggested: string(t.Cps),
			})
		case TokenEmoji:
			if slices.Equal(t.Input, t.Cps) {
				continue
			}
			seqs = append(seqs, NormalizableSequence{
				Code:      CodeFE0F,
				Index:     t.Start,
				Sequence:  string(t.Input),
				Suggested: string(t.Cps),
			})
		}
	}
	return seqs
}
