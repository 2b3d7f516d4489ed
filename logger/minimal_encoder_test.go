package logger

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// stripANSI removes ANSI color codes from a string for testing
func stripANSI(str string) string {
	ansiRegex := regexp.MustCompile(`\x1b\[[0-9;]*m`)
	return ansiRegex.ReplaceAllString(str, "")
}

// TestMinimalEncoderNeverDiscardsFields ensures the minimal encoder never
// silently drops a log field, whatever its key or type.
func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	encoder := newMinimalEncoder()

	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Now(),
		LoggerName: "vcard",
		Message:    "Testing field preservation",
	}

	testFields := []struct {
		field    zapcore.Field
		mustFind string
	}{
		{zap.String("reason", "missing FN and N"), "reason=missing FN and N"},
		{zap.Int("line", 42), "line=42"},
		{zap.Int64("duration_ms", 7), "duration_ms=7ms"},
		{zap.Bool("truncated", true), "truncated=true"},
		{zap.Float64("ratio", 0.5), "ratio=0.5"},
		{zap.Strings("misc_properties", []string{"TEL", "NOTE"}), "misc_properties=[TEL,NOTE]"},
		{zap.String("random_field_xyz", "important_data"), "random_field_xyz=important_data"},
		{zap.String("field.with.dots", "test2"), "field.with.dots=test2"},
		{zap.Error(nil), ""}, // nil error shouldn't crash
		{zap.Error(errors.New("read failed")), "error=read failed"},
		{zap.Duration("elapsed", 1500*time.Millisecond), "elapsed=1.5s"},
	}

	var allFields []zapcore.Field
	for _, tf := range testFields {
		allFields = append(allFields, tf.field)
	}

	buf, err := encoder.EncodeEntry(entry, allFields)
	if err != nil {
		t.Fatalf("Failed to encode entry: %v", err)
	}

	cleanOutput := stripANSI(buf.String())
	for _, tf := range testFields {
		if tf.mustFind != "" && !strings.Contains(cleanOutput, tf.mustFind) {
			t.Errorf("Field was silently discarded from log output: %s\nOutput: %s", tf.mustFind, cleanOutput)
		}
	}
}

func TestMinimalEncoderLayout(t *testing.T) {
	encoder := newMinimalEncoder()
	ts := time.Date(2024, 3, 1, 13, 4, 35, 0, time.UTC)

	buf, err := encoder.EncodeEntry(zapcore.Entry{
		Level:      zapcore.WarnLevel,
		Time:       ts,
		LoggerName: "lookup.engine",
		Message:    "Database read failed",
	}, []zapcore.Field{zap.String("file", "contacts.vcf")})
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}

	got := stripANSI(buf.String())
	want := "13:04:35  WARN  l.engine  Database read failed  file=contacts.vcf\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMinimalEncoderInfoHasNoLevel(t *testing.T) {
	buf, err := newMinimalEncoder().EncodeEntry(zapcore.Entry{
		Level:   zapcore.InfoLevel,
		Time:    time.Now(),
		Message: "Scan complete",
	}, nil)
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}
	if strings.Contains(buf.String(), "INFO") {
		t.Errorf("info level should not be printed: %q", buf.String())
	}
}

func TestMinimalEncoderContextFields(t *testing.T) {
	SetColor(false)
	defer SetColor(true)

	encoder := newMinimalEncoder()
	zap.String("query", "alice").AddTo(encoder)
	clone := encoder.Clone()
	zap.Int("capacity", 100).AddTo(clone.(*minimalEncoder))

	buf, err := clone.EncodeEntry(zapcore.Entry{Time: time.Now(), Message: "Query finished"},
		[]zapcore.Field{zap.Int("matched", 3)})
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}
	if got := buf.String(); !strings.HasSuffix(got, "capacity=100 query=alice matched=3\n") {
		t.Errorf("context fields missing or out of order: %q", got)
	}

	// The parent is unaffected by fields added to the clone
	if _, ok := encoder.Fields["capacity"]; ok {
		t.Error("Clone shares fields with its parent")
	}
}

func TestSetColorDisablesANSI(t *testing.T) {
	SetColor(false)
	defer SetColor(true)

	buf, err := newMinimalEncoder().EncodeEntry(zapcore.Entry{
		Level:      zapcore.ErrorLevel,
		Time:       time.Now(),
		LoggerName: "vcard",
		Message:    "Scan aborted",
	}, []zapcore.Field{zap.Int("line", 3)})
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("ANSI codes present with color disabled: %q", buf.String())
	}
}

func TestSetTheme(t *testing.T) {
	defer SetTheme("everforest")

	SetTheme("gruvbox")
	if colors().number != gruvbox.number {
		t.Error("gruvbox theme not applied")
	}
	SetTheme("solarized")
	if currentTheme != "gruvbox" {
		t.Errorf("unknown theme replaced current theme: %s", currentTheme)
	}
}

func TestAbbreviateName(t *testing.T) {
	tests := map[string]string{
		"vcard":         "vcard",
		"lookup.engine": "l.engine",
		"am.load.file":  "a.load.file",
		".odd":          ".odd",
	}
	for in, want := range tests {
		if got := abbreviateName(in); got != want {
			t.Errorf("abbreviateName(%q) = %q, want %q", in, got, want)
		}
	}
}
