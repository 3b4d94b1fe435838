////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package ensip15

// Cure repairs a name by repeatedly normalizing it and applying the
// suggested replacement of each curable diagnostic, until the name
// normalizes or a non-curable diagnostic is hit. Curing away the entire name
// fails with EMPTY_NAME.
func (e *ENSIP15) Cure(name string) (string, error) {
	cured, _, err := e.CureDetailed(name)
	return cured, err
}

// CureDetailed is [ENSIP15.Cure], additionally returning every repair that
// was applied, in order.
func (e *ENSIP15) CureDetailed(name string) (string, []*CurableSequence, error) {
	var cures []*CurableSequence

	// Every iteration splices out at least one input code point, so the
	// original length bounds the loop.
	for attempts := len([]rune(name)) + 1; attempts > 0; attempts-- {
		normalized, err := e.Normalize(name)
		if err == nil {
			return normalized, cures, nil
		}

		cs, ok := err.(*CurableSequence)
		if !ok {
			return "", nil, err
		}

		input := []rune(name)
		seqLen := len([]rune(cs.Sequence))
		name = string(input[:cs.Index]) + cs.Suggested +
			string(input[cs.Index+seqLen:])
		cures = append(cures, cs)

		if name == "" {
			return "", nil, newDisallowed(CodeEmptyName)
		}
	}

	// A cure that stopped consuming input would loop forever; treat it the
	// same as an unrepairable name.
	return "", nil, newDisallowed(CodeEmptyName)
}
