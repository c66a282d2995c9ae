package main

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestRedact(t *testing.T) {
	got := redact("user:secret@tcp(localhost:3306)/retail?parseTime=true&loc=UTC")
	want := "user:***@tcp(localhost:3306)/retail?parseTime=true&loc=UTC"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got := redact("retail.csv"); got != "retail.csv" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestNewLoggerLevel(t *testing.T) {
	if lvl := newLogger("debug").GetLevel(); lvl != logrus.DebugLevel {
		t.Fatalf("got %v, want debug", lvl)
	}
	if lvl := newLogger("nonsense").GetLevel(); lvl != logrus.InfoLevel {
		t.Fatalf("got %v, want info fallback", lvl)
	}
}
