// Package codec serializes dispatchable events to a reversible text token
// and back. Each first-class event kind has a fixed, ordered attribute list
// mirroring its constructor; enum values are written as symbolic names and
// flag sets as '|'-joined single-bit names. Decoding is a lookup table from
// the event's class name to a decode function, never an evaluated expression.
package codec

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/uireplay/uireplay/pkg/ui"
)

// ZeroSentinel is written in place of an attribute value that cannot be
// serialized. Replaying a sentinel is a documented fidelity loss, not an
// error.
const ZeroSentinel = "0b0"

// EventName returns the class name an event serializes under, which is also
// what the recorder's include/exclude filters match against.
func EventName(ev ui.Event) string {
	switch ev.(type) {
	case *ui.MouseEvent:
		return "MouseEvent"
	case *ui.KeyEvent:
		return "KeyEvent"
	case *ui.MoveEvent:
		return "MoveEvent"
	case *ui.CloseEvent:
		return "CloseEvent"
	case *ui.TimerEvent:
		return "TimerEvent"
	case *ui.ActivationChangeEvent:
		return "ActivationChangeEvent"
	default:
		return "BasicEvent"
	}
}

type entry struct {
	encode func(logger *slog.Logger, ev ui.Event) []string
	decode func(args []string) (ui.Event, error)
}

var table = map[string]entry{
	"MouseEvent": {encodeMouse, decodeMouse},
	"KeyEvent":   {encodeKey, decodeKey},
	"MoveEvent":  {encodeMove, decodeMove},
	"CloseEvent": {encodeClose, decodeClose},
	"BasicEvent": {encodeBasic, decodeBasic},
}

// Codec encodes and decodes events. The zero value is not usable; construct
// with New.
type Codec struct {
	logger *slog.Logger
}

// New constructs a codec.
func New(logger *slog.Logger) *Codec {
	if logger == nil {
		logger = slog.Default()
	}
	return &Codec{logger: logger}
}

// Encode returns the serialized token for ev. Events without first-class
// support degrade to a kind-only BasicEvent token with a warning.
func (c *Codec) Encode(ev ui.Event) string {
	name := EventName(ev)
	e, ok := table[name]
	if !ok {
		c.logger.Warn("no fingerprint for event; recording kind only",
			slog.String("event", name),
			slog.String("kind", ev.Kind().String()),
		)
		name = "BasicEvent"
		e = table[name]
	}
	args := e.encode(c.logger, ev)
	token := name + "(" + strings.Join(args, ", ") + ")"
	c.logger.Debug("serialized event", slog.String("event", token))
	return token
}

// Decode reconstructs an event from its serialized token.
func (c *Codec) Decode(token string) (ui.Event, error) {
	name, args, err := splitToken(token)
	if err != nil {
		return nil, err
	}
	e, ok := table[name]
	if !ok {
		return nil, fmt.Errorf("unknown event class %q", name)
	}
	ev, err := e.decode(args)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return ev, nil
}

func encodeKind(logger *slog.Logger, k ui.EventKind) string {
	if name, ok := ui.KindName(k); ok {
		return name
	}
	logger.Warn("cannot serialize event kind, inserting zero sentinel",
		slog.Int("kind", int(k)),
	)
	return ZeroSentinel
}

func decodeKind(tok string) (ui.EventKind, error) {
	if tok == ZeroSentinel {
		return ui.KindNone, nil
	}
	k, ok := ui.KindByName(tok)
	if !ok {
		return 0, fmt.Errorf("unknown event kind %q", tok)
	}
	return k, nil
}

func encodePoint(p ui.Point) string {
	return p.String()
}

func decodePoint(tok string) (ui.Point, error) {
	name, args, err := splitToken(tok)
	if err != nil || name != "Point" || len(args) != 2 {
		return ui.Point{}, fmt.Errorf("malformed point %q", tok)
	}
	x, err := strconv.Atoi(args[0])
	if err != nil {
		return ui.Point{}, fmt.Errorf("malformed point %q", tok)
	}
	y, err := strconv.Atoi(args[1])
	if err != nil {
		return ui.Point{}, fmt.Errorf("malformed point %q", tok)
	}
	return ui.Point{X: x, Y: y}, nil
}

func encodeMouse(logger *slog.Logger, ev ui.Event) []string {
	me := ev.(*ui.MouseEvent)
	return []string{
		encodeKind(logger, me.Kind()),
		encodePoint(me.Pos),
		encodePoint(me.GlobalPos),
		encodeEnum(logger, uint32(me.Button), buttonBits, "button"),
		encodeFlags(logger, uint32(me.Buttons), buttonBits, "buttons"),
		encodeFlags(logger, uint32(me.Modifiers), modifierBits, "modifiers"),
	}
}

func decodeMouse(args []string) (ui.Event, error) {
	if len(args) != 6 {
		return nil, fmt.Errorf("want 6 arguments, got %d", len(args))
	}
	kind, err := decodeKind(args[0])
	if err != nil {
		return nil, err
	}
	pos, err := decodePoint(args[1])
	if err != nil {
		return nil, err
	}
	global, err := decodePoint(args[2])
	if err != nil {
		return nil, err
	}
	button, err := decodeFlags(args[3], buttonBits)
	if err != nil {
		return nil, err
	}
	buttons, err := decodeFlags(args[4], buttonBits)
	if err != nil {
		return nil, err
	}
	modifiers, err := decodeFlags(args[5], modifierBits)
	if err != nil {
		return nil, err
	}
	return ui.NewMouseEvent(kind, pos, global,
		ui.MouseButton(button), ui.MouseButton(buttons),
		ui.KeyboardModifier(modifiers)), nil
}

func encodeKey(logger *slog.Logger, ev ui.Event) []string {
	ke := ev.(*ui.KeyEvent)
	key := ZeroSentinel
	if name, ok := ui.KeyName(ke.Key); ok {
		key = name
	} else {
		logger.Warn("cannot serialize key, inserting zero sentinel",
			slog.Int("key", int(ke.Key)),
		)
	}
	return []string{
		encodeKind(logger, ke.Kind()),
		key,
		encodeFlags(logger, uint32(ke.Modifiers), modifierBits, "modifiers"),
		strconv.Quote(ke.Text),
		strconv.FormatBool(ke.AutoRepeat),
		strconv.Itoa(ke.Count),
	}
}

func decodeKey(args []string) (ui.Event, error) {
	if len(args) != 6 {
		return nil, fmt.Errorf("want 6 arguments, got %d", len(args))
	}
	kind, err := decodeKind(args[0])
	if err != nil {
		return nil, err
	}
	var key ui.Key
	if args[1] != ZeroSentinel {
		k, ok := ui.KeyByName(args[1])
		if !ok {
			return nil, fmt.Errorf("unknown key %q", args[1])
		}
		key = k
	}
	modifiers, err := decodeFlags(args[2], modifierBits)
	if err != nil {
		return nil, err
	}
	text, err := strconv.Unquote(args[3])
	if err != nil {
		return nil, fmt.Errorf("malformed text %q", args[3])
	}
	autoRepeat, err := strconv.ParseBool(args[4])
	if err != nil {
		return nil, fmt.Errorf("malformed bool %q", args[4])
	}
	count, err := strconv.Atoi(args[5])
	if err != nil {
		return nil, fmt.Errorf("malformed count %q", args[5])
	}
	return ui.NewKeyEvent(kind, key, ui.KeyboardModifier(modifiers), text, autoRepeat, count), nil
}

func encodeMove(logger *slog.Logger, ev ui.Event) []string {
	me := ev.(*ui.MoveEvent)
	return []string{encodePoint(me.Pos), encodePoint(me.OldPos)}
}

func decodeMove(args []string) (ui.Event, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("want 2 arguments, got %d", len(args))
	}
	pos, err := decodePoint(args[0])
	if err != nil {
		return nil, err
	}
	old, err := decodePoint(args[1])
	if err != nil {
		return nil, err
	}
	return ui.NewMoveEvent(pos, old), nil
}

func encodeClose(_ *slog.Logger, _ ui.Event) []string { return nil }

func decodeClose(args []string) (ui.Event, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("want no arguments, got %d", len(args))
	}
	return ui.NewCloseEvent(), nil
}

func encodeBasic(logger *slog.Logger, ev ui.Event) []string {
	return []string{encodeKind(logger, ev.Kind())}
}

func decodeBasic(args []string) (ui.Event, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("want 1 argument, got %d", len(args))
	}
	kind, err := decodeKind(args[0])
	if err != nil {
		return nil, err
	}
	return ui.NewBasicEvent(kind), nil
}
