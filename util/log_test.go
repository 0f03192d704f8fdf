// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package util

import (
	"os"
	"strings"
	"testing"

	"log/slog"
)

func TestLogLevels(t *testing.T) {
	var output strings.Builder

	Logger.SetLevel(LevelTrace)
	Logger.SetOutput(&output)
	defer func() {
		Logger.SetLevel(slog.LevelInfo)
		Logger.SetOutput(os.Stderr)
	}()

	Logger.Trace("trace message", "key", "value")
	if !strings.Contains(output.String(), "TRACE") {
		t.Errorf("expect TRACE level label, got %q\n", output.String())
	}
	if !strings.Contains(output.String(), "trace message") {
		t.Errorf("expect the message, got %q\n", output.String())
	}

	output.Reset()
	Logger.SetLevel(slog.LevelInfo)
	Logger.SetOutput(&output)
	Logger.Trace("hidden")
	if output.Len() != 0 {
		t.Errorf("trace should be filtered at info level, got %q\n", output.String())
	}

	output.Reset()
	Logger.SetOutput(&output)
	Logger.Warn("warn message")
	if !strings.Contains(output.String(), "WARN") {
		t.Errorf("expect WARN level label, got %q\n", output.String())
	}
}
