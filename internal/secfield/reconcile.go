// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package secfield

// Reconcile infers the single localized edit that turned prev.Display() into
// surface and returns the new state, the text to write back into the surface
// control (always next.Display()) and the caret offset to restore.
//
// surface mixes carried-over placeholders with real characters the user just
// typed or pasted. caret is the rune offset in surface where the edit ended.
// Input beyond capacity is dropped silently.
//
// prev is not modified; the caller owns both states and should Wipe prev
// once next has replaced it.
func Reconcile(prev State, surface string, caret int) (next State, corrected string, caretOut int) {
	next, caretOut, _ = reconcile(prev, []rune(surface), caret)
	return next, next.Display(), caretOut
}

// reconcile runs the two-pointer merge. dropped counts real input rejected
// because the field was full.
func reconcile(prev State, raw []rune, caret int) (next State, caretOut, dropped int) {
	prev.checkInvariants()

	if caret < 0 {
		caret = 0
	}
	if caret > len(raw) {
		caret = len(raw)
	}

	// Positions that survive the edit are reserved up front so new input can
	// never displace existing characters.
	oldEnd := prev.placeholder(len(prev.display))
	kept := 0
	for _, ch := range raw {
		if ch >= prev.base && ch < oldEnd {
			kept++
		}
	}
	budget := prev.maxLength - kept

	// Output never exceeds min(len(raw), maxLength); sizing the backing arrays
	// once keeps append from leaving stale mask copies behind.
	size := min(len(raw), prev.maxLength)
	next = State{
		display:   make([]rune, 0, size),
		mask:      make([]uint32, 0, size),
		base:      prev.base,
		maxLength: prev.maxLength,
	}

	valIx, psIx := 0, 0
	for valIx < len(raw) {
		valCh := raw[valIx]
		emitted := false

		switch {
		case psIx < len(prev.display) && prev.display[psIx] == valCh:
			// unchanged: re-encode under the shifted position
			if next.Len() < next.maxLength {
				next.push(uint32(valCh) ^ prev.mask[psIx])
				emitted = true
			}
			psIx++
			valIx++

		case prev.IsPlaceholder(valCh):
			if psIx < len(prev.display) {
				// old position skipped by the surface: deleted
				psIx++
				continue
			}
			// nothing left to match against
			valIx++

		default:
			if budget > 0 && next.Len() < next.maxLength {
				next.push(uint32(valCh))
				budget--
				emitted = true
			} else {
				dropped++
			}
			valIx++
		}

		if emitted && valIx <= caret {
			caretOut++
		}
	}

	return next, caretOut, dropped
}
