// Package flagutil provides flag.Value implementations for cmd/gunzip's
// command-line flags.
package flagutil

import (
	"errors"

	"github.com/corestack/gunzip/capnslog"
)

// LevelFlag parses a capnslog level name ("INFO", "DEBUG", ...) or its
// single-letter shorthand into a capnslog.LogLevel. It implements
// flag.Value so it can back -v directly.
type LevelFlag struct {
	val capnslog.LogLevel
	raw string
	set bool
}

func (f *LevelFlag) Set(v string) error {
	l, err := capnslog.ParseLevel(v)
	if err != nil {
		return err
	}
	f.val = l
	f.raw = v
	f.set = true
	return nil
}

func (f *LevelFlag) String() string {
	return f.raw
}

// Level returns the parsed level, or INFO if -v was never supplied.
func (f *LevelFlag) Level() capnslog.LogLevel {
	if !f.set {
		return capnslog.INFO
	}
	return f.val
}

// Mode selects what cmd/gunzip does with a gzip member once its header has
// been parsed.
type Mode int

const (
	// ModeDecompress writes the member's decompressed contents to stdout.
	ModeDecompress Mode = iota
	// ModeInspect reports header fields only, without decompressing.
	ModeInspect
)

func (m Mode) String() string {
	switch m {
	case ModeDecompress:
		return "decompress"
	case ModeInspect:
		return "inspect"
	default:
		return "unknown"
	}
}

// ModeFlag implements flag.Value over Mode, backing -mode.
type ModeFlag struct {
	val Mode
}

func (f *ModeFlag) Set(v string) error {
	switch v {
	case "decompress", "":
		f.val = ModeDecompress
	case "inspect":
		f.val = ModeInspect
	default:
		return errors.New("flagutil: unknown mode " + v + " (want decompress or inspect)")
	}
	return nil
}

func (f *ModeFlag) String() string {
	return f.val.String()
}

// Mode returns the selected mode.
func (f *ModeFlag) Mode() Mode {
	return f.val
}
