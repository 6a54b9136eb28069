// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package jsapi

import (
	"fmt"
	"unicode/utf8"

	"github.com/dop251/goja"
)

// requireArgs panics with a JS exception if the call has fewer than n arguments.
func (a *API) requireArgs(call goja.FunctionCall, n int, msg string) {
	if len(call.Arguments) < n {
		panic(a.runtime.ToValue(msg))
	}
}

// toInt converts a Goja value to a positive int.
// Panics with a JS exception on anything else.
func toInt(vm *goja.Runtime, v goja.Value, name string) int {
	switch val := v.Export().(type) {
	case int64:
		if val > 0 {
			return int(val)
		}
	case float64:
		if val > 0 && val == float64(int(val)) {
			return int(val)
		}
	}
	panic(vm.ToValue(fmt.Sprintf("%s must be a positive integer", name)))
}

// utf16ToRuneOffset converts a caret counted in UTF-16 code units into a
// rune offset. A caret inside a surrogate pair lands after the pair.
func utf16ToRuneOffset(runes []rune, caret int) int {
	if caret <= 0 {
		return 0
	}
	units := 0
	for i, r := range runes {
		if units >= caret {
			return i
		}
		units += utf16Len(r)
	}
	return len(runes)
}

// runeToUTF16Offset converts a rune offset into UTF-16 code units.
func runeToUTF16Offset(runes []rune, offset int) int {
	if offset > len(runes) {
		offset = len(runes)
	}
	units := 0
	for _, r := range runes[:offset] {
		units += utf16Len(r)
	}
	return units
}

// dropReplacementRunes removes U+FFFD from runes in place, clearing the
// vacated tail, and moves caret left for each one removed before it.
func dropReplacementRunes(runes []rune, caret int) ([]rune, int) {
	out := runes[:0]
	pos := caret
	for i, r := range runes {
		if r == utf8.RuneError {
			if i < caret {
				pos--
			}
			continue
		}
		out = append(out, r)
	}
	for i := len(out); i < len(runes); i++ {
		runes[i] = 0
	}
	return out, pos
}

func utf16Len(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}
