////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package specdata

// fe0f is the emoji variation selector (VS16). It is optional anywhere the
// trie carries it: input containing it is absorbed, input lacking it still
// matches.
const fe0f rune = 0xFE0F

// emojiNode is a node of the emoji prefix trie. The trie is keyed on the
// fully-qualified code point sequences; a terminal node stores that sequence.
type emojiNode struct {
	children map[rune]*emojiNode
	emoji    []rune
}

func newEmojiNode() *emojiNode {
	return &emojiNode{children: make(map[rune]*emojiNode)}
}

// insert adds a fully-qualified emoji sequence to the trie rooted at n.
func (n *emojiNode) insert(emoji []rune) {
	cur := n
	for _, cp := range emoji {
		next, ok := cur.children[cp]
		if !ok {
			next = newEmojiNode()
			cur.children[cp] = next
		}
		cur = next
	}
	cur.emoji = emoji
}

// EmojiMatch describes a single emoji cluster recognized in an input
// sequence.
type EmojiMatch struct {
	// Emoji is the fully-qualified sequence stored at the trie terminal.
	Emoji []rune

	// Input is the sequence exactly as it appeared in the input.
	Input []rune

	// Cps is Input with every FE0F removed; this is the form emitted by
	// normalization.
	Cps []rune
}

// MatchEmoji attempts to recognize an emoji cluster in cps starting at
// position at. It matches greedily, preferring the terminal consuming the
// most input, with FE0F selectors in the trie treated as optional in the
// input. The second return is false when no emoji starts at the position.
func (s *Spec) MatchEmoji(cps []rune, at int) (EmojiMatch, bool) {
	end := -1
	var emoji []rune
	s.trie.search(cps, at, &end, &emoji)
	if end < 0 {
		return EmojiMatch{}, false
	}

	input := cps[at:end]
	return EmojiMatch{
		Emoji: emoji,
		Input: input,
		Cps:   stripFE0F(input),
	}, true
}

// search walks the trie from n, consuming cps from position j, and records
// the longest terminal reached. An FE0F edge may be taken without consuming
// input when the input lacks the selector.
func (n *emojiNode) search(cps []rune, j int, bestEnd *int, bestEmoji *[]rune) {
	if n.emoji != nil && j > *bestEnd {
		*bestEnd = j
		*bestEmoji = n.emoji
	}

	if j < len(cps) {
		if next, ok := n.children[cps[j]]; ok {
			next.search(cps, j+1, bestEnd, bestEmoji)
		}
	}

	// Absorb an optional FE0F edge that the input does not carry. When the
	// input does carry it, the branch above already consumed it.
	if next, ok := n.children[fe0f]; ok {
		if j >= len(cps) || cps[j] != fe0f {
			next.search(cps, j, bestEnd, bestEmoji)
		}
	}
}

// stripFE0F returns cps with every FE0F selector removed. The input slice is
// never modified.
func stripFE0F(cps []rune) []rune {
	out := make([]rune, 0, len(cps))
	for _, cp := range cps {
		if cp != fe0f {
			out = append(out, cp)
		}
	}
	return out
}
