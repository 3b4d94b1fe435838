////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// Package specdata loads the compiled ENSIP-15 specification tables consumed
// by the normalization engine. Tables are decoded from the upstream spec.json
// once, validated, and treated as immutable afterwards; a [Spec] is safe for
// concurrent use.
package specdata

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// runeSet is a membership set of Unicode code points.
type runeSet map[rune]struct{}

// newRuneSet builds a runeSet from raw decimal code points.
func newRuneSet(cps []uint32) runeSet {
	set := make(runeSet, len(cps))
	for _, cp := range cps {
		set[rune(cp)] = struct{}{}
	}
	return set
}

// Contains reports set membership of cp.
func (rs runeSet) Contains(cp rune) bool {
	_, ok := rs[cp]
	return ok
}

// Group is a single script group: a named, ordered collection of code points
// that form a coherent script (e.g. Latin, Greek).
type Group struct {
	// Name is the group name as it appears in diagnostics.
	Name string

	// CMAllowed indicates the group permits arbitrary combining marks. When
	// unset, labels resolved to this group are subject to the non-spacing
	// mark repetition and count rules.
	CMAllowed bool

	primary   runeSet
	secondary runeSet
}

// Contains reports whether cp belongs to the group (primary or secondary).
func (g *Group) Contains(cp rune) bool {
	return g.primary.Contains(cp) || g.secondary.Contains(cp)
}

// ContainsPrimary reports whether cp belongs to the group's primary set.
func (g *Group) ContainsPrimary(cp rune) bool {
	return g.primary.Contains(cp)
}

// Whole is the whole-script confusable record for a single code point.
type Whole struct {
	// Unique marks a code point that occurs in exactly one script group;
	// encountering it ends the whole-script check with no conflict.
	Unique bool

	// V is the confusable extent: every code point participating in this
	// confusable class.
	V runeSet

	// M maps each confusable code point to the names of the other groups
	// containing a look-alike for it.
	M map[rune][]string
}

// Spec holds the immutable ENSIP-15 lookup tables. Build one with [Load] or
// [Compile]; the zero value is not usable.
type Spec struct {
	mapped   map[rune][]rune
	ignored  runeSet
	valid    runeSet
	cm       runeSet
	nsm      runeSet
	nsmMax   int
	fenced   map[rune]string
	escape   runeSet
	nfcCheck runeSet
	groups   []*Group
	byName   map[string]*Group
	wholes   map[rune]*Whole
	emoji    [][]rune
	trie     *emojiNode
}

// MappedTo returns the mapping image of cp, or nil if cp is not mapped.
func (s *Spec) MappedTo(cp rune) []rune {
	return s.mapped[cp]
}

// IsIgnored reports whether cp is removed during normalization.
func (s *Spec) IsIgnored(cp rune) bool {
	return s.ignored.Contains(cp)
}

// IsValid reports whether cp normalizes to itself.
func (s *Spec) IsValid(cp rune) bool {
	return s.valid.Contains(cp)
}

// IsCM reports whether cp is a tracked combining mark.
func (s *Spec) IsCM(cp rune) bool {
	return s.cm.Contains(cp)
}

// IsNSM reports whether cp is a constrained non-spacing mark.
func (s *Spec) IsNSM(cp rune) bool {
	return s.nsm.Contains(cp)
}

// NSMMax returns the maximum number of consecutive non-spacing marks
// permitted on a single base character.
func (s *Spec) NSMMax() int {
	return s.nsmMax
}

// FencedName returns the human-readable name of a fenced code point. The
// second return is false if cp is not fenced.
func (s *Spec) FencedName(cp rune) (string, bool) {
	name, ok := s.fenced[cp]
	return name, ok
}

// IsEscape reports whether cp must be escaped when printed in diagnostics.
func (s *Spec) IsEscape(cp rune) bool {
	return s.escape.Contains(cp)
}

// NeedsNFCCheck reports whether cp is in the NFC quick-check set. A run of
// code points containing no such cp is guaranteed unchanged by NFC.
func (s *Spec) NeedsNFCCheck(cp rune) bool {
	return s.nfcCheck.Contains(cp)
}

// Groups returns the ordered script group list. The returned slice must not
// be modified.
func (s *Spec) Groups() []*Group {
	return s.groups
}

// GroupByName returns the group with the given name, or nil.
func (s *Spec) GroupByName(name string) *Group {
	return s.byName[name]
}

// Whole returns the whole-script confusable record for cp. The second return
// is false if cp has no record.
func (s *Spec) Whole(cp rune) (*Whole, bool) {
	w, ok := s.wholes[cp]
	return w, ok
}

// Emoji returns every recognized emoji as its fully-qualified code point
// sequence, sorted lexicographically. The returned slices must not be
// modified.
func (s *Spec) Emoji() [][]rune {
	return s.emoji
}

// GroupNames returns the sorted names of all script groups.
func (s *Spec) GroupNames() []string {
	names := maps.Keys(s.byName)
	slices.Sort(names)
	return names
}
