////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package ensip15

import "strings"

// Beautify renders the normalized form of a name for display: emoji appear
// fully qualified (FE0F selectors restored), and a lowercase xi standing
// alone among non-Greek text is promoted to its capital form. Normalizing a
// beautified name always yields the same result as normalizing the original.
func (e *ENSIP15) Beautify(name string) (string, error) {
	if name == "" {
		return "", nil
	}

	labels, err := e.run(name)
	if err != nil {
		return "", err
	}

	parts := make([]string, len(labels))
	for i := range labels {
		parts[i] = e.beautifyLabel(&labels[i])
	}
	return strings.Join(parts, "."), nil
}

// beautifyLabel assembles one label in display form.
func (e *ENSIP15) beautifyLabel(lab *label) string {
	promoteXi := e.shouldPromoteXi(lab)

	var sb strings.Builder
	for i := range lab.tokens {
		t := &lab.tokens[i]
		if t.Type == TokenEmoji {
			sb.WriteString(string(t.Emoji))
			continue
		}
		for _, cp := range t.Cps {
			if promoteXi && cp == cpXi {
				cp = cpCapXi
			}
			sb.WriteRune(cp)
		}
	}
	return sb.String()
}

// shouldPromoteXi reports whether the label's only Greek-script code points
// are lowercase xi. Any other Greek letter keeps xi in its lowercase form.
func (e *ENSIP15) shouldPromoteXi(lab *label) bool {
	greek := e.spec.GroupByName("Greek")
	if greek == nil {
		return false
	}

	sawXi := false
	for i := range lab.tokens {
		t := &lab.tokens[i]
		if t.Type == TokenEmoji {
			continue
		}
		for _, cp := range t.Cps {
			if cp == cpXi {
				sawXi = true
				continue
			}
			if greek.ContainsPrimary(cp) {
				return false
			}
		}
	}
	return sawXi
}
