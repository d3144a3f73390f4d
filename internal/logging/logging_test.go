package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestInitLevel(t *testing.T) {
	testCases := []struct {
		level string
		want  logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"bogus", logrus.InfoLevel},
	}
	for _, tc := range testCases {
		if err := Init(tc.level, "", false); err != nil {
			t.Fatal(err)
		}
		if got := Get().GetLevel(); got != tc.want {
			t.Errorf("Init(%q): level %v, want %v", tc.level, got, tc.want)
		}
	}
}

func TestInitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "rawcv.log")
	if err := Init("info", path, false); err != nil {
		t.Fatal(err)
	}
	Infof("developed %s", "frame.raw")
	Debugf("hidden at info level")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "developed frame.raw") {
		t.Errorf("log file missing message:\n%s", data)
	}
	if strings.Contains(string(data), "hidden") {
		t.Errorf("debug message written at info level:\n%s", data)
	}
}
