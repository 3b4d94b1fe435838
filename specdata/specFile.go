////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package specdata

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// File is a representation of the JSON file format containing the compiled
// ENSIP-15 specification data (spec.json).
//
// All code points are decimal Unicode scalar values. Where a JSON object is
// keyed by a code point (mapped, fenced, whole_map), the key is the decimal
// string form of the code point.
type File struct {
	// Mapped lists every code point that is replaced by one or more code
	// points during normalization. Images are never empty.
	Mapped map[string][]uint32 `json:"mapped"`

	// Ignored lists the code points that are removed during normalization.
	Ignored []uint32 `json:"ignored"`

	// Valid lists the code points that normalize to themselves. Every code
	// point appearing in a mapped image is also listed here.
	Valid []uint32 `json:"valid"`

	// CM lists the combining marks that are disallowed in certain label
	// positions.
	CM []uint32 `json:"cm"`

	// NSM lists the non-spacing marks constrained by repetition and count,
	// bounded by NSMMax. NSM is a subset of CM.
	NSM    []uint32 `json:"nsm"`
	NSMMax int      `json:"nsm_max"`

	// Fenced maps code points that may not lead, trail, or repeat in a label
	// to their human-readable names.
	Fenced map[string]string `json:"fenced"`

	// Escape lists code points that must be escaped when printed. It is only
	// consulted for diagnostics, never for normalization decisions.
	Escape []uint32 `json:"escape"`

	// NFCCheck is the NFC quick-check set. A run of code points containing
	// none of these cannot be altered by NFC.
	NFCCheck []uint32 `json:"nfc_check"`

	// Emoji lists every recognized emoji as its fully-qualified code point
	// sequence (all FE0F selectors present).
	Emoji [][]uint32 `json:"emoji"`

	// Groups is the ordered list of script groups.
	Groups []GroupEntry `json:"groups"`

	// WholeMap holds the whole-script confusable data, keyed by decimal code
	// point.
	WholeMap map[string]WholeEntry `json:"whole_map"`
}

// GroupEntry adheres to a single entry of the groups field of spec.json.
type GroupEntry struct {
	Name string `json:"name"`

	// CM indicates that the group permits arbitrary combining marks. Groups
	// without it are subject to the non-spacing mark rules.
	CM bool `json:"cm"`

	Primary   []uint32 `json:"primary"`
	Secondary []uint32 `json:"secondary"`
}

// WholeEntry adheres to a single value of the whole_map field of spec.json. A
// value is either the literal number 1, marking the code point as unique to
// one script group, or an object carrying the confusable extent V and the
// per-code-point complement group names M.
type WholeEntry struct {
	// Unique is set when the JSON value was the sentinel 1.
	Unique bool

	V []uint32            `json:"V"`
	M map[string][]string `json:"M"`
}

// wholeEntryBody is the object form of [WholeEntry] used during decoding.
type wholeEntryBody struct {
	V []uint32            `json:"V"`
	M map[string][]string `json:"M"`
}

// UnmarshalJSON implements [json.Unmarshaler], accepting either the sentinel
// number 1 or the {V, M} object form.
func (we *WholeEntry) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("1")) {
		*we = WholeEntry{Unique: true}
		return nil
	}

	var body wholeEntryBody
	if err := json.Unmarshal(data, &body); err != nil {
		return errors.Wrap(err, "whole_map entry is neither 1 nor an object")
	}

	*we = WholeEntry{V: body.V, M: body.M}
	return nil
}

// MarshalJSON implements [json.Marshaler]. It is the inverse of
// [WholeEntry.UnmarshalJSON] and exists so that a decoded File can be
// re-encoded without loss.
func (we WholeEntry) MarshalJSON() ([]byte, error) {
	if we.Unique {
		return []byte("1"), nil
	}
	return json.Marshal(wholeEntryBody{V: we.V, M: we.M})
}

// Decode parses raw spec.json contents into a [File]. It performs no semantic
// validation; that is done by [Compile].
func Decode(data []byte) (*File, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal spec data JSON")
	}
	return &f, nil
}
