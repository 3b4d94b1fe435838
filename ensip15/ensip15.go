////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// Package ensip15 implements the ENSIP-15 name normalization pipeline: a
// table-driven Unicode processor that decides whether a name is in canonical
// form, transforms normalizable names into that form, and attributes every
// rejection to a concrete input offset with a suggested repair where one
// exists.
//
// The engine is a pure function over the immutable tables of a
// [specdata.Spec]; a single [ENSIP15] may be shared by any number of
// goroutines.
package ensip15

import (
	"gitlab.com/enskit/ens-normalize-go/specdata"
)

// ENSIP15 is the normalization engine. Build one with [New].
type ENSIP15 struct {
	spec *specdata.Spec
}

// New creates an engine over compiled spec tables. The tables must not be
// modified afterwards.
func New(spec *specdata.Spec) *ENSIP15 {
	return &ENSIP15{spec: spec}
}

// Flags selects which outputs [ENSIP15.Process] computes.
type Flags uint8

const (
	// FlagNormalize requests the canonical normalized form.
	FlagNormalize Flags = 1 << iota

	// FlagBeautify requests the display form.
	FlagBeautify

	// FlagTokenize requests the structural token view.
	FlagTokenize

	// FlagNormalizations requests the transformation list.
	FlagNormalizations

	// FlagCure requests iterative repair, along with the applied cures.
	FlagCure
)

// Result carries the outputs of a single [ENSIP15.Process] pass. Fields for
// outputs that were not requested, or that failed, are nil.
type Result struct {
	Normalized *string
	Beautified *string
	Cured      *string

	Tokens         []Token
	Normalizations []NormalizableSequence
	Cures          []*CurableSequence

	// Error is the first diagnostic encountered by a requested operation,
	// captured instead of returned.
	Error error
}

// Process computes any subset of the engine's outputs in one call; each
// requested output is produced by its own operation over the name.
// Diagnostics are captured in [Result.Error] rather than returned; the
// total operations (tokenize, normalizations) still populate their fields
// when a fallible operation failed.
func (e *ENSIP15) Process(name string, flags Flags) *Result {
	res := &Result{}

	record := func(err error) {
		if err != nil && res.Error == nil {
			res.Error = err
		}
	}

	if flags&FlagTokenize != 0 {
		res.Tokens = e.Tokenize(name)
	}
	if flags&FlagNormalizations != 0 {
		res.Normalizations = e.Normalizations(name)
	}
	if flags&FlagNormalize != 0 {
		normalized, err := e.Normalize(name)
		if err == nil {
			res.Normalized = &normalized
		}
		record(err)
	}
	if flags&FlagBeautify != 0 {
		beautified, err := e.Beautify(name)
		if err == nil {
			res.Beautified = &beautified
		}
		record(err)
	}
	if flags&FlagCure != 0 {
		cured, cures, err := e.CureDetailed(name)
		if err == nil {
			res.Cured = &cured
			res.Cures = cures
		}
		record(err)
	}

	return res
}
