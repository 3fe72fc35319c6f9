package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWorkerBinary_FromEnv(t *testing.T) {
	t.Setenv("WORKER_BINARY", "/opt/hive/hive-worker")

	got, err := workerBinary(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/opt/hive/hive-worker" {
		t.Errorf("expected WORKER_BINARY, got %s", got)
	}
}

func TestSiblingWorker_LogsThroughInjectedLogger(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, "hive-worker")
	if err := os.WriteFile(want, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write binary: %v", err)
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	got, err := siblingWorker(dir, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
	if !strings.Contains(buf.String(), "worker binary resolved") {
		t.Errorf("expected debug log on injected logger, got %q", buf.String())
	}
}

func TestSiblingWorker_Missing(t *testing.T) {
	if _, err := siblingWorker(t.TempDir(), slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))); err == nil {
		t.Error("expected error for missing binary")
	}
}
