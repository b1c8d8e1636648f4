package main

import (
	"bytes"
	"compress/gzip"
	"strings"
	"testing"
)

func encodeMember(t *testing.T, data []byte, name string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	w.Name = name
	if _, err := w.Write(data); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return buf.Bytes()
}

func TestRunDecompressesToStdout(t *testing.T) {
	member := encodeMember(t, []byte("hello, gunzip"), "")
	var stdout, stderr bytes.Buffer

	code := run(nil, bytes.NewReader(member), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	if stdout.String() != "hello, gunzip" {
		t.Fatalf("stdout = %q", stdout.String())
	}
}

func TestRunInspectMode(t *testing.T) {
	member := encodeMember(t, []byte("payload"), "greeting.txt")
	var stdout, stderr bytes.Buffer

	code := run([]string{"-mode", "inspect"}, bytes.NewReader(member), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "greeting.txt") {
		t.Fatalf("expected inspect output to mention the name, got %q", stdout.String())
	}
}

func TestRunReportsCorruptedInput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(nil, bytes.NewReader([]byte{0x00, 0x01, 0x02}), &stdout, &stderr)
	if code == 0 {
		t.Fatal("expected a non-zero exit code for corrupted input")
	}
	if stderr.Len() == 0 {
		t.Fatal("expected an error message on stderr")
	}
}

func TestRunRejectsUnknownFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-bogus"}, bytes.NewReader(nil), &stdout, &stderr)
	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
}
