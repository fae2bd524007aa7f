package codec

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/uireplay/uireplay/pkg/ui"
)

// bitSet adapts one flag namespace (buttons, modifiers) to the generic
// flag codec.
type bitSet struct {
	name   func(uint32) (string, bool)
	byName func(string) (uint32, bool)
}

var buttonBits = bitSet{
	name: func(v uint32) (string, bool) {
		return ui.ButtonName(ui.MouseButton(v))
	},
	byName: func(s string) (uint32, bool) {
		b, ok := ui.ButtonByName(s)
		return uint32(b), ok
	},
}

var modifierBits = bitSet{
	name: func(v uint32) (string, bool) {
		return ui.ModifierName(ui.KeyboardModifier(v))
	},
	byName: func(s string) (uint32, bool) {
		m, ok := ui.ModifierByName(s)
		return uint32(m), ok
	},
}

// encodeEnum serializes a single-valued enum (not a combination).
func encodeEnum(logger *slog.Logger, value uint32, set bitSet, attr string) string {
	if name, ok := set.name(value); ok {
		return name
	}
	logger.Warn("cannot serialize value, inserting zero sentinel",
		slog.String("attribute", attr),
		slog.Uint64("value", uint64(value)),
	)
	return ZeroSentinel
}

// encodeFlags decomposes a flag combination into '|'-joined single-bit names,
// scanning power-of-two masks in ascending order so the output is stable
// regardless of how the value was constructed. A zero value serializes to the
// namespace's distinguished zero name.
func encodeFlags(logger *slog.Logger, value uint32, set bitSet, attr string) string {
	var keys []string
	for mask := uint32(1); mask != 0 && mask <= value; mask <<= 1 {
		if value&mask == 0 {
			continue
		}
		if name, ok := set.name(mask); ok {
			keys = append(keys, name)
		}
	}
	if len(keys) == 0 && value == 0 {
		if name, ok := set.name(0); ok {
			keys = append(keys, name)
		}
	}
	if len(keys) == 0 {
		logger.Warn("cannot serialize flag combination, inserting zero sentinel",
			slog.String("attribute", attr),
			slog.Uint64("value", uint64(value)),
		)
		return ZeroSentinel
	}
	return strings.Join(keys, "|")
}

// decodeFlags resolves a '|'-joined symbolic token (or a single enum name, or
// the zero sentinel) back to its numeric value.
func decodeFlags(tok string, set bitSet) (uint32, error) {
	if tok == ZeroSentinel {
		return 0, nil
	}
	var value uint32
	for _, name := range strings.Split(tok, "|") {
		v, ok := set.byName(name)
		if !ok {
			return 0, fmt.Errorf("unknown flag %q", name)
		}
		value |= v
	}
	return value, nil
}
