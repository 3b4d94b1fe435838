////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package ensip15

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/aquilax/truncate"
)

// Code tags every diagnostic and normalization transformation with a
// wire-stable identifier.
type Code string

// Curable diagnostic codes. Each is reported with an index, the offending
// sequence, and a suggested replacement enabling mechanical repair.
const (
	CodeUnderscore     Code = "UNDERSCORE"
	CodeHyphen         Code = "HYPHEN"
	CodeEmptyLabel     Code = "EMPTY_LABEL"
	CodeCMStart        Code = "CM_START"
	CodeCMEmoji        Code = "CM_EMOJI"
	CodeDisallowed     Code = "DISALLOWED"
	CodeInvisible      Code = "INVISIBLE"
	CodeFencedLeading  Code = "FENCED_LEADING"
	CodeFencedMulti    Code = "FENCED_MULTI"
	CodeFencedTrailing Code = "FENCED_TRAILING"
	CodeConfMixed      Code = "CONF_MIXED"
)

// Non-curable diagnostic codes. No localized replacement can be suggested.
const (
	CodeEmptyName   Code = "EMPTY_NAME"
	CodeNSMRepeated Code = "NSM_REPEATED"
	CodeNSMTooMany  Code = "NSM_TOO_MANY"
	CodeConfWhole   Code = "CONF_WHOLE"
)

// Normalization transformation codes, reported by [ENSIP15.Normalizations].
const (
	CodeMapped  Code = "MAPPED"
	CodeIgnored Code = "IGNORED"
	CodeFE0F    Code = "FE0F"
	CodeNFC     Code = "NFC"
)

// DisallowedSequence is a non-curable diagnostic: the name contains a
// sequence for which no localized repair exists.
type DisallowedSequence struct {
	Code Code

	// GeneralInfo is a human-readable description of the failure.
	GeneralInfo string
}

// Error implements the error interface.
func (ds *DisallowedSequence) Error() string {
	return fmt.Sprintf("%s: %s", ds.Code, ds.GeneralInfo)
}

// CurableSequence is a curable diagnostic: the sequence at Index can be
// replaced with Suggested to advance toward a normalizable name.
type CurableSequence struct {
	Code Code

	// GeneralInfo is a human-readable description of the failure.
	GeneralInfo string

	// SequenceInfo describes the offending sequence itself, with invisible
	// and escaped code points rendered in {XXXX} form.
	SequenceInfo string

	// Index is the offset of the offending sequence in the original input,
	// in Unicode code point units.
	Index int

	// Sequence is the offending subsequence of the original input.
	Sequence string

	// Suggested is the replacement for Sequence; often empty, meaning
	// removal.
	Suggested string
}

// Error implements the error interface.
func (cs *CurableSequence) Error() string {
	return fmt.Sprintf("%s: %s", cs.Code, cs.GeneralInfo)
}

// IsCurable reports whether err is a diagnostic carrying a mechanical repair.
func IsCurable(err error) bool {
	_, ok := err.(*CurableSequence)
	return ok
}

// NormalizableSequence describes one transformation the normalization
// pipeline applied to the input: a mapping, a removal, an FE0F strip, or an
// NFC recomposition.
type NormalizableSequence struct {
	Code Code

	// Index is the offset of the transformed sequence in the original input,
	// in Unicode code point units.
	Index int

	// Sequence is the subsequence of the original input that was
	// transformed.
	Sequence string

	// Suggested is what the sequence became in the normalized output.
	Suggested string
}

// generalInfo holds the human-readable description for each diagnostic code.
var generalInfo = map[Code]string{
	CodeUnderscore:     "contains an underscore in a disallowed position",
	CodeHyphen:         "contains hyphens in both the third and fourth positions",
	CodeEmptyLabel:     "contains a disallowed empty label",
	CodeCMStart:        "contains a combining mark at the start of a label",
	CodeCMEmoji:        "contains a combining mark directly after an emoji",
	CodeDisallowed:     "contains a disallowed character",
	CodeInvisible:      "contains a disallowed invisible character",
	CodeFencedLeading:  "contains a disallowed character at the start of a label",
	CodeFencedMulti:    "contains a disallowed consecutive sequence of characters",
	CodeFencedTrailing: "contains a disallowed character at the end of a label",
	CodeConfMixed:      "contains characters from multiple scripts",
	CodeEmptyName:      "the name is empty",
	CodeNSMRepeated:    "contains a repeated non-spacing mark",
	CodeNSMTooMany:     "contains too many consecutive non-spacing marks",
	CodeConfWhole:      "is visually confusable with a name in another script",
}

// maxSequenceInfo bounds the printed length of an offending sequence.
const maxSequenceInfo = 48

// newCurable builds a curable diagnostic with its info strings filled in.
func (e *ENSIP15) newCurable(
	code Code, index int, sequence, suggested string) *CurableSequence {
	return &CurableSequence{
		Code:         code,
		GeneralInfo:  generalInfo[code],
		SequenceInfo: e.describeSequence(sequence),
		Index:        index,
		Sequence:     sequence,
		Suggested:    suggested,
	}
}

// newDisallowed builds a non-curable diagnostic.
func newDisallowed(code Code) *DisallowedSequence {
	return &DisallowedSequence{Code: code, GeneralInfo: generalInfo[code]}
}

// newConfMixed builds the mixed-script diagnostic, naming both conflicting
// script groups in its description.
func (e *ENSIP15) newConfMixed(
	index int, cp rune, resolved, other string) *CurableSequence {
	cs := e.newCurable(CodeConfMixed, index, string(cp), "")
	cs.GeneralInfo = fmt.Sprintf(
		"%s between %s and %s", generalInfo[CodeConfMixed], resolved, other)
	return cs
}

func newConfWhole(resolved, other string) *DisallowedSequence {
	return &DisallowedSequence{
		Code: CodeConfWhole,
		GeneralInfo: fmt.Sprintf(
			"%s (%s/%s)", generalInfo[CodeConfWhole], resolved, other),
	}
}

// describeSequence renders an offending sequence for display. Code points in
// the spec escape set, along with controls and other unprintables, appear in
// {XXXX} form; overlong sequences are truncated the same way long payloads
// are truncated in logs.
func (e *ENSIP15) describeSequence(sequence string) string {
	var sb strings.Builder
	for _, cp := range sequence {
		if e.spec.IsEscape(cp) || !unicode.IsPrint(cp) {
			fmt.Fprintf(&sb, "{%04X}", cp)
		} else {
			sb.WriteRune(cp)
		}
	}
	return truncate.Truncate(sb.String(), maxSequenceInfo, "...",
		truncate.PositionEnd)
}

// describeFenced names a fenced code point for diagnostics, falling back to
// the escaped form when the spec carries no name.
func (e *ENSIP15) describeFenced(cp rune) string {
	if name, ok := e.spec.FencedName(cp); ok {
		return name
	}
	return e.describeSequence(string(cp))
}
