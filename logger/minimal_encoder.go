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

// palette holds the ANSI colors of one theme
type palette struct {
	fg     string
	time   string
	number string
	scan   string // scan and match messages
	config string // configuration messages
	notice string // skipped cards
	comps  []string
	warn   string
	warnBg string
	err    string
	errBg  string
}

// Everforest Dark (natural forest greens, strong green presence)
var everforest = palette{
	fg:     "\x1b[38;5;223m", // Soft beige (#d3c6aa)
	time:   "\x1b[38;5;107m", // Mid green (#83c092)
	number: "\x1b[38;5;108m", // Bright green (#a7c080)
	scan:   "\x1b[38;5;108m",
	config: "\x1b[38;5;65m",  // Deep green
	notice: "\x1b[38;5;208m", // Autumn orange (#e69875)
	comps:  []string{"\x1b[38;5;108m", "\x1b[38;5;65m", "\x1b[38;5;208m"},
	warn:   "\x1b[38;5;179m", // Soft yellow (#dbbc7f)
	warnBg: "\x1b[48;5;58m",
	err:    "\x1b[38;5;167m", // Warm red (#e67e80)
	errBg:  "\x1b[48;5;52m",
}

// Gruvbox Dark (warm, muted, easy on eyes)
var gruvbox = palette{
	fg:     "\x1b[38;5;223m", // Soft cream (#ebdbb2)
	time:   "\x1b[38;5;108m", // Muted cyan-green (#8ec07c)
	number: "\x1b[38;5;175m", // Muted purple (#d3869b)
	scan:   "\x1b[38;5;142m", // Muted green (#b8bb26)
	config: "\x1b[38;5;208m", // Warm orange (#fe8019)
	notice: "\x1b[38;5;214m", // Soft yellow (#fabd2f)
	comps:  []string{"\x1b[38;5;208m", "\x1b[38;5;214m"},
	warn:   "\x1b[38;5;214m",
	warnBg: "\x1b[48;5;58m",
	err:    "\x1b[38;5;167m", // Warm red (#fb4934)
	errBg:  "\x1b[48;5;88m",
}

var (
	currentTheme = "everforest"
	colorEnabled = true
)

// SetTheme configures the color scheme for log output.
// Unknown names leave the current theme in place.
func SetTheme(theme string) {
	if theme == "everforest" || theme == "gruvbox" {
		currentTheme = theme
	}
}

// SetColor turns ANSI colors in console output on or off
func SetColor(enabled bool) {
	colorEnabled = enabled
}

func colors() palette {
	if currentTheme == "gruvbox" {
		return gruvbox
	}
	return everforest
}

func paint(color, s string) string {
	if !colorEnabled || s == "" {
		return s
	}
	return color + s + colorReset
}

func colorComponent(name string) string {
	// Hash for consistent color per component
	hash := 0
	for _, c := range name {
		hash += int(c)
	}
	comps := colors().comps
	return comps[hash%len(comps)]
}

func colorMessage(msg string) string {
	lower := strings.ToLower(msg)
	p := colors()

	switch {
	case strings.Contains(lower, "skip") || strings.Contains(lower, "malformed"):
		return p.notice
	case strings.Contains(lower, "scan") || strings.Contains(lower, "query") ||
		strings.Contains(lower, "match"):
		return p.scan
	case strings.Contains(lower, "config") || strings.Contains(lower, "loaded"):
		return p.config
	default:
		return p.fg
	}
}

// minimalEncoder implements a calm, compact console encoder with theme support
// Format: "13:04:35  vcard  Skipping malformed card  line=12 reason=missing FN and N"
//
// Context fields added through With() are kept in the embedded map encoder
// and printed, sorted by key, before the entry's own fields.
type minimalEncoder struct {
	*zapcore.MapObjectEncoder
}

var bufferPool = buffer.NewPool()

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
	final := bufferPool.Get()
	p := colors()

	final.AppendString(paint(p.time, ent.Time.Format("15:04:05")))

	// Level: only shown for WARN and above
	if lvl := levelColorString(ent.Level); lvl != "" {
		final.AppendString("  ")
		final.AppendString(lvl)
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(paint(colorComponent(ent.LoggerName), abbreviateName(ent.LoggerName)))
	}

	final.AppendString("  ")
	final.AppendString(paint(colorMessage(ent.Message), ent.Message))

	var pairs []string
	ctxKeys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		ctxKeys = append(ctxKeys, k)
	}
	sort.Strings(ctxKeys)
	for _, k := range ctxKeys {
		pairs = append(pairs, formatField(k, enc.Fields[k]))
	}

	// Every field is printed; unknown keys fall back to key=value
	for _, f := range fields {
		m := zapcore.NewMapObjectEncoder()
		f.AddTo(m)
		if v, ok := m.Fields[f.Key]; ok {
			pairs = append(pairs, formatField(f.Key, v))
		}
	}

	if len(pairs) > 0 {
		final.AppendString("  ")
		final.AppendString(strings.Join(pairs, " "))
	}

	if ent.Stack != "" {
		final.AppendString("\n")
		final.AppendString(ent.Stack)
	}

	final.AppendString("\n")
	return final, nil
}

// levelColorString returns bold + colored + background for WARN/ERROR
func levelColorString(level zapcore.Level) string {
	p := colors()
	var color, bg string
	switch level {
	case zapcore.WarnLevel:
		color, bg = p.warn, p.warnBg
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		color, bg = p.err, p.errBg
	default:
		return ""
	}
	return paint(colorBold+bg+color, level.CapitalString())
}

// abbreviateName shortens component names: lookup.engine -> l.engine
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 && parts[0] != "" {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

// formatField renders one field as key=value, coloring numbers
func formatField(key string, value interface{}) string {
	p := colors()
	switch v := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		s := fmt.Sprint(v)
		if key == FieldDurationMS {
			s += "ms"
		}
		return key + "=" + paint(p.number, s)
	case []interface{}:
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = fmt.Sprint(item)
		}
		return key + "=" + paint(p.fg, "["+strings.Join(items, ",")+"]")
	default:
		return key + "=" + paint(p.fg, fmt.Sprint(v))
	}
}
