// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package secfield

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"
)

const (
	// DefaultMaxLength is the default secret capacity in code points.
	DefaultMaxLength = 1024

	// DefaultRangeStart and DefaultRangeEnd bound Supplementary Private Use
	// Area-A. The end is exclusive.
	DefaultRangeStart rune = 0xF0000
	DefaultRangeEnd   rune = 0xFFFFE

	surrogateMin rune = 0xD800
	surrogateMax rune = 0xDFFF
)

// ErrInvalidConfig is returned when capacity or placeholder range are unusable.
var ErrInvalidConfig = errors.New("invalid secure field configuration")

// Option configures a State or Field at creation.
type Option func(*options)

type options struct {
	rng        io.Reader
	maxLength  int
	rangeStart rune
	rangeEnd   rune
	logger     *slog.Logger
}

func defaultOptions() options {
	return options{
		rng:        rand.Reader,
		maxLength:  DefaultMaxLength,
		rangeStart: DefaultRangeStart,
		rangeEnd:   DefaultRangeEnd,
		logger:     slog.New(slog.DiscardHandler),
	}
}

// WithRandom sets the source used for the placeholder base and output masks.
func WithRandom(r io.Reader) Option {
	return func(o *options) {
		if r != nil {
			o.rng = r
		}
	}
}

// WithMaxLength sets the capacity in code points.
func WithMaxLength(n int) Option {
	return func(o *options) { o.maxLength = n }
}

// WithPlaceholderRange sets the reserved code point range [start, end).
// Each instance draws its base inside it.
func WithPlaceholderRange(start, end rune) Option {
	return func(o *options) {
		o.rangeStart = start
		o.rangeEnd = end
	}
}

// WithLogger sets the logger used by Field. Nothing secret is ever logged.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// ValidateRange checks that [start, end) can hold maxLength placeholders
// without touching the surrogate block or leaving the Unicode range.
func ValidateRange(start, end rune, maxLength int) error {
	switch {
	case maxLength <= 0:
		return fmt.Errorf("%w: max length must be positive, got %d", ErrInvalidConfig, maxLength)
	case start < 0 || end > utf8.MaxRune+1 || start >= end:
		return fmt.Errorf("%w: placeholder range [%#x, %#x) is not a valid code point range", ErrInvalidConfig, start, end)
	case start <= surrogateMax && end > surrogateMin:
		return fmt.Errorf("%w: placeholder range [%#x, %#x) overlaps surrogates", ErrInvalidConfig, start, end)
	case int64(end)-int64(start) < int64(maxLength):
		return fmt.Errorf("%w: placeholder range holds %d code points, need %d", ErrInvalidConfig, end-start, maxLength)
	}
	return nil
}

// drawBase picks a base so that [base, base+maxLength) fits inside [start, end).
func drawBase(rng io.Reader, start, end rune, maxLength int) (rune, error) {
	var buf [4]byte
	if _, err := io.ReadFull(rng, buf[:]); err != nil {
		return 0, fmt.Errorf("failed to draw placeholder base: %w", err)
	}
	span := uint32(end-start) - uint32(maxLength) + 1
	return start + rune(binary.BigEndian.Uint32(buf[:])%span), nil
}
