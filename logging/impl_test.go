package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.viam.com/test"
)

func TestConsoleOutputFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewBlankLogger("rbd")
	logger.AddAppender(NewWriterAppender(&buf))

	logger.Info("built ", 12, " bodies")
	line, err := buf.ReadString('\n')
	test.That(t, err, test.ShouldBeNil)
	parts := strings.Split(strings.TrimSuffix(line, "\n"), "\t")
	test.That(t, parts, test.ShouldHaveLength, 5)
	test.That(t, parts[1], test.ShouldEqual, "INFO")
	test.That(t, parts[2], test.ShouldEqual, "rbd")
	file, _, found := strings.Cut(parts[3], ":")
	test.That(t, found, test.ShouldBeTrue)
	test.That(t, file, test.ShouldEqual, "logging/impl_test.go")
	test.That(t, parts[4], test.ShouldEqual, "built 12 bodies")

	logger.Warnw("feet", "count", 4, "names", []string{"lf", "rf"})
	line, err = buf.ReadString('\n')
	test.That(t, err, test.ShouldBeNil)
	parts = strings.Split(strings.TrimSuffix(line, "\n"), "\t")
	test.That(t, parts[1], test.ShouldEqual, "WARN")
	fields := map[string]any{}
	test.That(t, json.Unmarshal([]byte(parts[len(parts)-1]), &fields), test.ShouldBeNil)
	test.That(t, fields["count"], test.ShouldEqual, 4.0)
	test.That(t, fields["names"], test.ShouldResemble, []any{"lf", "rf"})
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewBlankLogger("rbd")
	logger.AddAppender(NewWriterAppender(&buf))

	logger.SetLevel(WARN)
	test.That(t, logger.GetLevel(), test.ShouldEqual, WARN)
	logger.Debug("dropped")
	logger.Infof("dropped %d", 1)
	test.That(t, buf.Len(), test.ShouldEqual, 0)

	logger.Errorf("kept %d", 2)
	test.That(t, buf.String(), test.ShouldContainSubstring, "kept 2")

	for _, tc := range []struct {
		in    string
		level Level
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{"Warning", WARN},
		{"error", ERROR},
	} {
		level, err := LevelFromString(tc.in)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, level, test.ShouldEqual, tc.level)
	}
	_, err := LevelFromString("loud")
	test.That(t, err, test.ShouldNotBeNil)

	test.That(t, WARN.AsZap(), test.ShouldEqual, zapcore.WarnLevel)
	test.That(t, ERROR.String(), test.ShouldEqual, "Error")
}

func TestSubloggerSharesAppenders(t *testing.T) {
	logger, observed := NewObservedTestLogger(t)
	sub := logger.Sublogger("urdf").Sublogger("tree")

	sub.Warnw("unknown joint", "name", "knee")
	entries := observed.FilterMessage("unknown joint").All()
	test.That(t, entries, test.ShouldHaveLength, 1)
	test.That(t, entries[0].LoggerName, test.ShouldEqual, "urdf.tree")
	test.That(t, entries[0].Level, test.ShouldEqual, zapcore.WarnLevel)
	test.That(t, entries[0].ContextMap()["name"], test.ShouldEqual, "knee")
	test.That(t, logger.Sync(), test.ShouldBeNil)
}

func TestFileAppender(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "rbd.log")
	logger := NewBlankLogger("rbd")
	logger.AddAppender(NewFileAppender(filename, 1, 1))

	logger.Debug("first")
	logger.Warnw("unknown joint", "name", "tail")
	test.That(t, logger.Sync(), test.ShouldBeNil)

	//nolint:gosec
	data, err := os.ReadFile(filename)
	test.That(t, err, test.ShouldBeNil)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	test.That(t, lines, test.ShouldHaveLength, 2)
	test.That(t, lines[0], test.ShouldContainSubstring, "DEBUG\trbd")
	test.That(t, lines[1], test.ShouldContainSubstring, "unknown joint")
	test.That(t, lines[1], test.ShouldEndWith, `{"name":"tail"}`)

	// a synced appender reopens the file on the next write
	logger.Info("again")
	test.That(t, logger.Sync(), test.ShouldBeNil)
	//nolint:gosec
	data, err = os.ReadFile(filename)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(data), test.ShouldContainSubstring, "again")
}
