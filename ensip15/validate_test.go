////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package ensip15

import (
	"strings"
	"testing"
)

// Tests every curable label rule: the code, the input attribution, and the
// suggested repair.
func TestValidate_CurableRules(t *testing.T) {
	e := testEngine(t)

	tests := []struct {
		name      string
		input     string
		code      Code
		index     int
		sequence  string
		suggested string
	}{
		{"underscore not leading", "a_b", CodeUnderscore, 1, "_", ""},
		{"underscore after emoji", "💯_", CodeUnderscore, 1, "_", ""},
		{"hyphen at third and fourth", "xn--a", CodeHyphen, 2, "--", ""},
		{"empty leading label", ".eth", CodeEmptyLabel, 0, ".", ""},
		{"empty middle label", "a..b", CodeEmptyLabel, 1, ".", ""},
		{"empty trailing label", "a.", CodeEmptyLabel, 1, ".", ""},
		{"label of only ignored input", "­", CodeEmptyLabel, 0, "­", ""},
		{"combining mark at start", "̀a", CodeCMStart, 0, "̀", ""},
		{"combining mark after emoji", "💯̀", CodeCMEmoji, 0, "💯̀", "💯"},
		{"disallowed character", "a?b", CodeDisallowed, 1, "?", ""},
		{"invisible joiner", "Ni‍ck.ETH", CodeInvisible, 2, "‍", ""},
		{"fenced leading", "'ab", CodeFencedLeading, 0, "'", ""},
		{"fenced adjacent", "a''b", CodeFencedMulti, 1, "''", "'"},
		{"fenced trailing", "ab'", CodeFencedTrailing, 2, "'", ""},
		{"mixed script", "0χх0", CodeConfMixed, 2, "х", ""},
	}

	for _, tt := range tests {
		t.Run(strings.ReplaceAll(tt.name, " ", "_"), func(t *testing.T) {
			_, err := e.Normalize(tt.input)
			if err == nil {
				t.Fatalf("Expected %s for %q", tt.code, tt.input)
			}
			cs, ok := err.(*CurableSequence)
			if !ok {
				t.Fatalf("Expected a curable diagnostic, got %+v", err)
			}
			if cs.Code != tt.code {
				t.Errorf("Unexpected code %s, expected %s", cs.Code, tt.code)
			}
			if cs.Index != tt.index {
				t.Errorf("Unexpected index %d, expected %d",
					cs.Index, tt.index)
			}
			if cs.Sequence != tt.sequence {
				t.Errorf("Unexpected sequence %q, expected %q",
					cs.Sequence, tt.sequence)
			}
			if cs.Suggested != tt.suggested {
				t.Errorf("Unexpected suggestion %q, expected %q",
					cs.Suggested, tt.suggested)
			}
		})
	}
}

// Tests the non-curable rules: repeated and excessive non-spacing marks and
// whole-script confusables.
func TestValidate_NonCurableRules(t *testing.T) {
	e := testEngine(t)

	tests := []struct {
		name  string
		input string
		code  Code
	}{
		{"repeated NSM", "x̀̀", CodeNSMRepeated},
		{"repeated NSM via composition", "à̀", CodeNSMRepeated},
		{"too many NSMs", "x̀́̂̃̄", CodeNSMTooMany},
		{"whole-script confusable", "0х0", CodeConfWhole},
		{"whole-script confusable without shared", "х", CodeConfWhole},
	}

	for _, tt := range tests {
		t.Run(strings.ReplaceAll(tt.name, " ", "_"), func(t *testing.T) {
			_, err := e.Normalize(tt.input)
			if err == nil {
				t.Fatalf("Expected %s for %q", tt.code, tt.input)
			}
			ds, ok := err.(*DisallowedSequence)
			if !ok {
				t.Fatalf("Expected a non-curable diagnostic, got %+v", err)
			}
			if ds.Code != tt.code {
				t.Errorf("Unexpected code %s, expected %s", ds.Code, tt.code)
			}
			if IsCurable(err) {
				t.Errorf("Non-curable diagnostic reported as curable")
			}
		})
	}
}

// Tests the rules that accept: leading underscores, hyphens off the reserved
// positions, marks on a proper base, emoji-only labels, and the unique
// whole-map sentinel.
func TestValidate_Accepts(t *testing.T) {
	e := testEngine(t)

	inputs := []string{
		"_abc",
		"__abc",
		"ab-c-d",
		"a-b--c",
		"àbc",
		"x̀́",
		"💯",
		"💯'💯'💯",
		"1⃣2⃣",
		"ξαξα",
		"βχ",
		"0ξ0",
	}

	for _, input := range inputs {
		if _, err := e.Normalize(input); err != nil {
			t.Errorf("Failed to normalize %q: %+v", input, err)
		}
	}
}

// Tests that rules are applied in priority order: a disallowed code point
// wins over a later structural violation, and structural rules win over
// script resolution.
func TestValidate_RuleOrder(t *testing.T) {
	e := testEngine(t)

	_, err := e.Normalize("?_")
	if cs, ok := err.(*CurableSequence); !ok || cs.Code != CodeDisallowed {
		t.Errorf("Expected DISALLOWED first, got %+v", err)
	}

	_, err = e.Normalize("_χх")
	if cs, ok := err.(*CurableSequence); !ok || cs.Code != CodeConfMixed {
		t.Errorf("Expected CONF_MIXED after structural rules, got %+v", err)
	}

	// The first failing label decides, in input order.
	_, err = e.Normalize("a?b.x̀̀")
	if cs, ok := err.(*CurableSequence); !ok || cs.Code != CodeDisallowed {
		t.Errorf("Expected the first label's diagnostic, got %+v", err)
	}
}

// Tests that offsets refer to the original input even after earlier labels
// and transformations shifted the output.
func TestValidate_AbsoluteOffsets(t *testing.T) {
	e := testEngine(t)

	// The disallowed code point sits at input index 8 even though the
	// ignored code point before it contributes nothing.
	_, err := e.Normalize("NICK.a­b?c")
	cs, ok := err.(*CurableSequence)
	if !ok || cs.Code != CodeDisallowed {
		t.Fatalf("Expected DISALLOWED, got %+v", err)
	}
	if cs.Index != 8 {
		t.Errorf("Unexpected index %d, expected 8", cs.Index)
	}
}
