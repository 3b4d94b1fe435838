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

	"gitlab.com/enskit/ens-normalize-go/specdata"
)

const (
	cpXi    rune = 0x3BE
	cpCapXi rune = 0x39E
	cpZWNJ  rune = 0x200C
	cpZWJ   rune = 0x200D
	cpZWSP  rune = 0x200B
	cpWordJ rune = 0x2060
	cpBOM   rune = 0xFEFF
)

// isInvisible reports whether a disallowed code point renders as nothing,
// which upgrades its diagnostic from DISALLOWED to INVISIBLE.
func isInvisible(cp rune) bool {
	switch cp {
	case cpZWSP, cpZWNJ, cpZWJ, cpWordJ, cpFE0F, cpBOM:
		return true
	}
	return false
}

// labelCp is one output code point of a label, positioned back onto the
// original input for diagnostic attribution. An emoji cluster occupies a
// single entry.
type labelCp struct {
	cp rune

	// at is the index of the originating input code point.
	at int

	// emoji is the originating token for emoji entries, nil otherwise.
	emoji *Token
}

// validateLabel applies the label rules in priority order and returns the
// first failure, or nil for a valid label. The input slice is the full
// original name in code points; it is consulted so that every reported
// sequence is a literal subsequence of the input.
func (e *ENSIP15) validateLabel(input []rune, lab *label) error {
	// Disallowed code points reject before any structural rule.
	for i := range lab.tokens {
		t := &lab.tokens[i]
		if t.Type != TokenDisallowed {
			continue
		}
		code := CodeDisallowed
		if isInvisible(t.Cp) {
			code = CodeInvisible
		}
		return e.newCurable(code, t.Start, string(t.Cp), "")
	}

	// Labels consisting solely of emoji are valid as-is and skip the script
	// and mark rules.
	emojiOnly := true
	sawEmoji := false
	for i := range lab.tokens {
		switch lab.tokens[i].Type {
		case TokenEmoji:
			sawEmoji = true
		case TokenIgnored:
		default:
			emojiOnly = false
		}
	}
	if emojiOnly && sawEmoji {
		return nil
	}

	lcps := lab.positionedCps()
	if len(lcps) == 0 {
		return e.emptyLabelError(input, lab)
	}

	if err := e.checkUnderscore(input, lcps); err != nil {
		return err
	}
	if err := e.checkHyphen(input, lcps); err != nil {
		return err
	}
	if err := e.checkFenced(input, lcps); err != nil {
		return err
	}
	if err := e.checkCombiningMarks(input, lcps); err != nil {
		return err
	}

	group, err := e.resolveGroup(input, lcps)
	if err != nil {
		return err
	}

	if !group.CMAllowed {
		if err = e.checkNSM(lcps); err != nil {
			return err
		}
	}

	return e.checkWhole(group, lcps)
}

// positionedCps flattens the label's output code points, attributing each to
// its originating input index. Emoji clusters collapse to one entry carrying
// their token.
func (l *label) positionedCps() []labelCp {
	lcps := make([]labelCp, 0, len(l.tokens))
	for i := range l.tokens {
		t := &l.tokens[i]
		switch t.Type {
		case TokenIgnored:
		case TokenEmoji:
			lcps = append(lcps, labelCp{cp: cpFE0F, at: t.Start, emoji: t})
		case TokenValid:
			for k, cp := range t.Cps {
				lcps = append(lcps, labelCp{cp: cp, at: t.Start + k})
			}
		default:
			for _, cp := range t.Cps {
				lcps = append(lcps, labelCp{cp: cp, at: t.Start})
			}
		}
	}
	return lcps
}

// emptyLabelError diagnoses a label with no output. The suggested repair
// removes the label's residue, or the adjacent separator when the label has
// no input of its own.
func (e *ENSIP15) emptyLabelError(input []rune, lab *label) error {
	if lab.inputLen > 0 {
		seq := string(input[lab.start : lab.start+lab.inputLen])
		return e.newCurable(CodeEmptyLabel, lab.start, seq, "")
	}
	if lab.start == 0 {
		return e.newCurable(CodeEmptyLabel, 0, string(input[0]), "")
	}
	return e.newCurable(CodeEmptyLabel, lab.start-1,
		string(input[lab.start-1]), "")
}

// checkUnderscore permits underscores only as a contiguous label prefix.
func (e *ENSIP15) checkUnderscore(input []rune, lcps []labelCp) error {
	i := 0
	for i < len(lcps) && lcps[i].cp == cpUnderscore {
		i++
	}
	for ; i < len(lcps); i++ {
		if lcps[i].emoji == nil && lcps[i].cp == cpUnderscore {
			return e.newCurable(CodeUnderscore, lcps[i].at,
				string(input[lcps[i].at]), "")
		}
	}
	return nil
}

// checkHyphen rejects hyphens in both the third and fourth positions.
func (e *ENSIP15) checkHyphen(input []rune, lcps []labelCp) error {
	if len(lcps) < 4 || lcps[2].cp != cpHyphen || lcps[3].cp != cpHyphen {
		return nil
	}
	seq := string(input[lcps[2].at : lcps[3].at+1])
	return e.newCurable(CodeHyphen, lcps[2].at, seq, "")
}

// checkFenced rejects fenced code points at the label edges and adjacent
// fenced pairs anywhere.
func (e *ENSIP15) checkFenced(input []rune, lcps []labelCp) error {
	isFenced := func(lc labelCp) bool {
		if lc.emoji != nil {
			return false
		}
		_, ok := e.spec.FencedName(lc.cp)
		return ok
	}

	if isFenced(lcps[0]) {
		cs := e.newCurable(CodeFencedLeading, lcps[0].at,
			string(input[lcps[0].at]), "")
		cs.SequenceInfo = e.describeFenced(lcps[0].cp)
		return cs
	}
	for i := 1; i < len(lcps); i++ {
		if isFenced(lcps[i]) && isFenced(lcps[i-1]) {
			seq := string(input[lcps[i-1].at : lcps[i].at+1])
			sugg := string(input[lcps[i-1].at : lcps[i].at])
			return e.newCurable(CodeFencedMulti, lcps[i-1].at, seq, sugg)
		}
	}
	if last := lcps[len(lcps)-1]; isFenced(last) {
		cs := e.newCurable(CodeFencedTrailing, last.at,
			string(input[last.at]), "")
		cs.SequenceInfo = e.describeFenced(last.cp)
		return cs
	}
	return nil
}

// checkCombiningMarks rejects a combining mark at the label start or
// directly after an emoji cluster.
func (e *ENSIP15) checkCombiningMarks(input []rune, lcps []labelCp) error {
	if lcps[0].emoji == nil && e.spec.IsCM(lcps[0].cp) {
		return e.newCurable(CodeCMStart, lcps[0].at,
			string(input[lcps[0].at]), "")
	}
	for i := 1; i < len(lcps); i++ {
		if lcps[i].emoji != nil || !e.spec.IsCM(lcps[i].cp) {
			continue
		}
		if prev := lcps[i-1]; prev.emoji != nil {
			start := prev.emoji.Start
			seq := string(input[start : lcps[i].at+1])
			sugg := string(input[start : start+prev.emoji.InputLen()])
			return e.newCurable(CodeCMEmoji, start, seq, sugg)
		}
	}
	return nil
}

// uniqueTextCps returns the label's non-emoji code points, deduplicated in
// first-occurrence order with their input positions.
func uniqueTextCps(lcps []labelCp) []labelCp {
	seen := make(map[rune]struct{}, len(lcps))
	uniq := make([]labelCp, 0, len(lcps))
	for _, lc := range lcps {
		if lc.emoji != nil {
			continue
		}
		if _, ok := seen[lc.cp]; ok {
			continue
		}
		seen[lc.cp] = struct{}{}
		uniq = append(uniq, lc)
	}
	return uniq
}

// resolveGroup finds the first script group containing every non-emoji code
// point of the label. Failure is a mixed-script conflict attributed to the
// first code point that broke the candidate set.
func (e *ENSIP15) resolveGroup(
	input []rune, lcps []labelCp) (*specdata.Group, error) {
	remaining := e.spec.Groups()

	for _, lc := range uniqueTextCps(lcps) {
		var next []*specdata.Group
		for _, g := range remaining {
			if g.Contains(lc.cp) {
				next = append(next, g)
			}
		}
		if len(next) > 0 {
			remaining = next
			continue
		}

		candidate := remaining[0]
		var other *specdata.Group
		for _, g := range e.spec.Groups() {
			if g.Contains(lc.cp) {
				other = g
				break
			}
		}
		if other == nil {
			// A valid code point outside every script group; nothing can
			// contain it, so report it as the offender.
			return nil, e.newCurable(CodeDisallowed, lc.at,
				string(input[lc.at]), "")
		}
		return nil, e.newConfMixed(
			lc.at, input[lc.at], candidate.Name, other.Name)
	}

	return remaining[0], nil
}

// checkNSM bounds runs of non-spacing marks in the label's canonical
// decomposition: no repeats on a single base, and never more than the spec
// maximum in a row.
func (e *ENSIP15) checkNSM(lcps []labelCp) error {
	var textCps []rune
	for _, lc := range lcps {
		if lc.emoji == nil {
			textCps = append(textCps, lc.cp)
		}
	}

	nfd := []rune(norm.NFD.String(string(textCps)))
	for i := 0; i < len(nfd); i++ {
		if !e.spec.IsNSM(nfd[i]) {
			continue
		}
		count := 1
		j := i + 1
		for ; j < len(nfd) && e.spec.IsNSM(nfd[j]); j++ {
			if slices.Contains(nfd[i:j], nfd[j]) {
				return newDisallowed(CodeNSMRepeated)
			}
			count++
			if count > e.spec.NSMMax() {
				return newDisallowed(CodeNSMTooMany)
			}
		}
		i = j
	}
	return nil
}

// checkWhole runs the whole-script confusable decision: if every code point
// of the label has a look-alike in some single other group, and that group
// also contains all of the label's unmapped code points, the label is
// confusable as a whole.
func (e *ENSIP15) checkWhole(resolved *specdata.Group, lcps []labelCp) error {
	var maker []string
	var shared []rune

	for _, lc := range uniqueTextCps(lcps) {
		w, ok := e.spec.Whole(lc.cp)
		if !ok {
			shared = append(shared, lc.cp)
			continue
		}
		if w.Unique {
			// Unique to a single script; no whole-script twin can exist.
			return nil
		}
		names := w.M[lc.cp]
		if maker == nil {
			maker = slices.Clone(names)
		} else {
			maker = slices.DeleteFunc(maker, func(name string) bool {
				return !slices.Contains(names, name)
			})
		}
		if len(maker) == 0 {
			return nil
		}
	}

	for _, name := range maker {
		g := e.spec.GroupByName(name)
		if g == nil || g == resolved {
			continue
		}
		confusable := true
		for _, cp := range shared {
			if !g.Contains(cp) {
				confusable = false
				break
			}
		}
		if confusable {
			return newConfWhole(resolved.Name, g.Name)
		}
	}
	return nil
}
