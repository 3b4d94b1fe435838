////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package specdata

import (
	"strconv"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
	"golang.org/x/exp/slices"
)

// Load decodes and compiles raw spec.json contents into an immutable [Spec].
// Any missing or inconsistent field is a fatal load error, distinct from the
// user-facing diagnostics produced by the engine.
func Load(data []byte) (*Spec, error) {
	f, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Compile(f)
}

// Compile validates a decoded [File] and builds the lookup structures used on
// the hot path. The returned Spec must not be modified.
func Compile(f *File) (*Spec, error) {
	if err := checkPresent(f); err != nil {
		return nil, err
	}

	s := &Spec{
		mapped:   make(map[rune][]rune, len(f.Mapped)),
		ignored:  newRuneSet(f.Ignored),
		valid:    newRuneSet(f.Valid),
		cm:       newRuneSet(f.CM),
		nsm:      newRuneSet(f.NSM),
		nsmMax:   f.NSMMax,
		fenced:   make(map[rune]string, len(f.Fenced)),
		escape:   newRuneSet(f.Escape),
		nfcCheck: newRuneSet(f.NFCCheck),
		byName:   make(map[string]*Group, len(f.Groups)),
		wholes:   make(map[rune]*Whole, len(f.WholeMap)),
		trie:     newEmojiNode(),
	}

	for key, image := range f.Mapped {
		cp, err := parseCP(key)
		if err != nil {
			return nil, errors.WithMessage(err, "mapped key")
		}
		if len(image) == 0 {
			return nil, errors.Errorf("mapped image for %U is empty", cp)
		}
		img := make([]rune, len(image))
		for i, raw := range image {
			img[i] = rune(raw)
			if !s.valid.Contains(img[i]) {
				return nil, errors.Errorf(
					"mapped image for %U contains %U, which is not valid",
					cp, img[i])
			}
		}
		s.mapped[cp] = img
	}

	// The mapped, ignored, and valid tables must be pairwise disjoint; the
	// classifier depends on each code point having exactly one disposition.
	for cp := range s.mapped {
		if s.ignored.Contains(cp) || s.valid.Contains(cp) {
			return nil, errors.Errorf(
				"code point %U is mapped but also ignored or valid", cp)
		}
	}
	for cp := range s.ignored {
		if s.valid.Contains(cp) {
			return nil, errors.Errorf(
				"code point %U is both ignored and valid", cp)
		}
	}

	if f.NSMMax < 1 {
		return nil, errors.Errorf("nsm_max must be positive, got %d", f.NSMMax)
	}
	for cp := range s.nsm {
		if !s.cm.Contains(cp) {
			return nil, errors.Errorf(
				"non-spacing mark %U is not a combining mark", cp)
		}
	}

	for key, name := range f.Fenced {
		cp, err := parseCP(key)
		if err != nil {
			return nil, errors.WithMessage(err, "fenced key")
		}
		if name == "" {
			return nil, errors.Errorf("fenced code point %U has no name", cp)
		}
		s.fenced[cp] = name
	}

	if err := s.compileGroups(f.Groups); err != nil {
		return nil, err
	}
	if err := s.compileWholes(f.WholeMap); err != nil {
		return nil, err
	}
	if err := s.compileEmoji(f.Emoji); err != nil {
		return nil, err
	}

	jww.DEBUG.Printf("Compiled spec data: %d mapped, %d ignored, %d valid, "+
		"%d emoji, %d groups, %d whole-map entries",
		len(s.mapped), len(s.ignored), len(s.valid), len(s.emoji),
		len(s.groups), len(s.wholes))

	return s, nil
}

// checkPresent rejects spec data with any required field absent. Slices and
// maps decode to nil when their key is missing from the JSON.
func checkPresent(f *File) error {
	switch {
	case f.Mapped == nil:
		return errors.New("spec data is missing the mapped table")
	case f.Ignored == nil:
		return errors.New("spec data is missing the ignored table")
	case f.Valid == nil:
		return errors.New("spec data is missing the valid table")
	case f.CM == nil:
		return errors.New("spec data is missing the cm table")
	case f.NSM == nil:
		return errors.New("spec data is missing the nsm table")
	case f.NSMMax == 0:
		return errors.New("spec data is missing nsm_max")
	case f.Fenced == nil:
		return errors.New("spec data is missing the fenced table")
	case f.Escape == nil:
		return errors.New("spec data is missing the escape table")
	case f.NFCCheck == nil:
		return errors.New("spec data is missing the nfc_check table")
	case f.Emoji == nil:
		return errors.New("spec data is missing the emoji table")
	case f.Groups == nil:
		return errors.New("spec data is missing the groups table")
	case f.WholeMap == nil:
		return errors.New("spec data is missing the whole_map table")
	}
	return nil
}

// compileGroups builds the ordered script group list, preserving file order.
func (s *Spec) compileGroups(entries []GroupEntry) error {
	if len(entries) == 0 {
		return errors.New("spec data contains no script groups")
	}

	s.groups = make([]*Group, 0, len(entries))
	for _, entry := range entries {
		if entry.Name == "" {
			return errors.New("script group with empty name")
		}
		if _, exists := s.byName[entry.Name]; exists {
			return errors.Errorf("duplicate script group %q", entry.Name)
		}

		g := &Group{
			Name:      entry.Name,
			CMAllowed: entry.CM,
			primary:   newRuneSet(entry.Primary),
			secondary: newRuneSet(entry.Secondary),
		}
		s.groups = append(s.groups, g)
		s.byName[entry.Name] = g
	}

	return nil
}

// compileWholes builds the per-code-point whole-script confusable records.
// Entries sharing a {V, M} body in the file become distinct records here; the
// engine only ever looks them up by code point.
func (s *Spec) compileWholes(raw map[string]WholeEntry) error {
	for key, entry := range raw {
		cp, err := parseCP(key)
		if err != nil {
			return errors.WithMessage(err, "whole_map key")
		}

		if entry.Unique {
			s.wholes[cp] = &Whole{Unique: true}
			continue
		}

		w := &Whole{
			V: newRuneSet(entry.V),
			M: make(map[rune][]string, len(entry.M)),
		}
		for mKey, names := range entry.M {
			mCP, err := parseCP(mKey)
			if err != nil {
				return errors.WithMessage(err, "whole_map M key")
			}
			// M names the other groups hosting a look-alike of the code
			// point, so the groups must exist but never contain it.
			for _, name := range names {
				g, ok := s.byName[name]
				if !ok {
					return errors.Errorf(
						"whole_map for %U names unknown group %q", mCP, name)
				}
				if g.Contains(mCP) {
					return errors.Errorf(
						"whole_map lists %U as confusable into group %q, "+
							"which already contains it", mCP, name)
				}
			}
			sorted := slices.Clone(names)
			slices.Sort(sorted)
			w.M[mCP] = sorted
		}
		s.wholes[cp] = w
	}

	return nil
}

// compileEmoji validates the fully-qualified emoji sequences and builds the
// prefix trie over them.
func (s *Spec) compileEmoji(raw [][]uint32) error {
	if len(raw) == 0 {
		return errors.New("spec data contains no emoji")
	}

	s.emoji = make([][]rune, 0, len(raw))
	for _, seq := range raw {
		if len(seq) == 0 {
			return errors.New("empty emoji sequence")
		}
		emoji := make([]rune, len(seq))
		for i, cp := range seq {
			emoji[i] = rune(cp)
		}
		if emoji[0] == fe0f {
			return errors.Errorf(
				"emoji sequence %v begins with a variation selector", emoji)
		}
		s.emoji = append(s.emoji, emoji)
		s.trie.insert(emoji)
	}

	slices.SortFunc(s.emoji, func(a, b []rune) int {
		return slices.Compare(a, b)
	})

	return nil
}

// parseCP parses a decimal code point key from the JSON object forms.
func parseCP(key string) (rune, error) {
	v, err := strconv.ParseUint(key, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid code point key %q", key)
	}
	return rune(v), nil
}
