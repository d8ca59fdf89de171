// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package diag

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestDiagnostics(t *testing.T) {
	var d Diagnostics
	d.Error(SourceLoc{Line: 3, Column: 7}, "Size of declared variable exceeds implementation-defined limit", "x")
	d.Warning(SourceLoc{Line: 4, Column: 1}, "unused", "")
	if d.NumErrors() != 1 || d.NumWarnings() != 1 {
		t.Fatalf("counts = %d errors, %d warnings", d.NumErrors(), d.NumWarnings())
	}
	want := "ERROR: 3:7: 'x' : Size of declared variable exceeds implementation-defined limit\n" +
		"WARNING: 4:1: unused\n"
	if got := d.Format(); got != want {
		t.Errorf("Format:\n%s\nwant:\n%s", got, want)
	}
	if len(d.Records()) != 2 || d.Records()[0].Token != "x" {
		t.Errorf("Records = %+v", d.Records())
	}
	d.Reset()
	if d.NumErrors() != 0 || len(d.Records()) != 0 {
		t.Error("Reset left records behind")
	}
}

func TestLoggerDefaultSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger() returned nil")
	}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn} {
		if l.Enabled(context.Background(), level) {
			t.Errorf("default logger should not be enabled for %v", level)
		}
	}
}

func TestSetLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	SetLogger(custom)
	if Logger() != custom {
		t.Fatal("Logger() did not return the logger set via SetLogger")
	}
	Logger().Debug("pass finished", "pass", "collect")
	if !strings.Contains(buf.String(), "pass finished") {
		t.Errorf("log output = %q", buf.String())
	}

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) must restore the silent logger")
	}
}
