package logger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

type palette struct {
	time      string
	component string
	key       string
	warn      string
	warnBg    string
	err       string
	errBg     string
}

// Everforest Dark (natural greens)
var everforest = palette{
	time:      "\x1b[38;5;107m",
	component: "\x1b[38;5;208m",
	key:       "\x1b[38;5;65m",
	warn:      "\x1b[38;5;179m",
	warnBg:    "\x1b[48;5;58m",
	err:       "\x1b[38;5;167m",
	errBg:     "\x1b[48;5;52m",
}

// Gruvbox Dark (warm, muted)
var gruvbox = palette{
	time:      "\x1b[38;5;108m",
	component: "\x1b[38;5;214m",
	key:       "\x1b[38;5;109m",
	warn:      "\x1b[38;5;214m",
	warnBg:    "\x1b[48;5;58m",
	err:       "\x1b[38;5;167m",
	errBg:     "\x1b[48;5;88m",
}

var bufferPool = buffer.NewPool()

// Current active theme
var currentTheme = "everforest"

// SetTheme configures the color scheme for log output
func SetTheme(theme string) {
	if theme == "everforest" || theme == "gruvbox" {
		currentTheme = theme
	}
}

func colors() palette {
	if currentTheme == "gruvbox" {
		return gruvbox
	}
	return everforest
}

// minimalEncoder implements a calm, compact console encoder.
// Format: "13:04:35  emit  Writing to  path=file:///tmp/year=2024/..."
//
// Fields attached with logger.With are kept in the embedded map encoder and
// printed (sorted) before the entry's own fields, which keep call order.
type minimalEncoder struct {
	*zapcore.MapObjectEncoder
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{MapObjectEncoder: zapcore.NewMapObjectEncoder()}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	clone := zapcore.NewMapObjectEncoder()
	for k, v := range enc.Fields {
		clone.Fields[k] = v
	}
	return &minimalEncoder{MapObjectEncoder: clone}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	c := colors()
	final := bufferPool.Get()

	final.AppendString(c.time)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level: only shown for WARN and above
	if ent.Level > zapcore.InfoLevel || ent.Level == zapcore.DebugLevel {
		final.AppendString("  ")
		final.AppendString(levelString(ent.Level, c))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(c.component)
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(ent.Message)

	pairs := enc.contextPairs()
	pairs = append(pairs, entryPairs(fields)...)
	if len(pairs) > 0 {
		final.AppendString("  ")
		for i, p := range pairs {
			if i > 0 {
				final.AppendString(" ")
			}
			final.AppendString(c.key)
			final.AppendString(p.key)
			final.AppendString(colorReset)
			final.AppendString("=")
			final.AppendString(p.value)
		}
	}

	final.AppendString("\n")
	return final, nil
}

type kv struct {
	key   string
	value string
}

func (enc *minimalEncoder) contextPairs() []kv {
	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]kv, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, kv{key: k, value: fmt.Sprintf("%v", enc.Fields[k])})
	}
	return pairs
}

// entryPairs renders every field; nothing is dropped except zap.Skip
// (e.g. zap.Error(nil)).
func entryPairs(fields []zapcore.Field) []kv {
	pairs := make([]kv, 0, len(fields))
	for _, f := range fields {
		m := zapcore.NewMapObjectEncoder()
		f.AddTo(m)
		v, ok := m.Fields[f.Key]
		if !ok {
			continue
		}
		pairs = append(pairs, kv{key: f.Key, value: fmt.Sprintf("%v", v)})
	}
	return pairs
}

func levelString(level zapcore.Level, c palette) string {
	switch level {
	case zapcore.DebugLevel:
		return "DEBUG"
	case zapcore.WarnLevel:
		return colorBold + c.warnBg + c.warn + "WARN" + colorReset
	case zapcore.ErrorLevel:
		return colorBold + c.errBg + c.err + "ERROR" + colorReset
	default:
		return colorBold + c.errBg + c.err + level.CapitalString() + colorReset
	}
}

// abbreviateName shortens component names: generate.storage -> g.storage
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 && parts[0] != "" {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}
