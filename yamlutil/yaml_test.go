package yamlutil

import (
	"flag"
	"testing"
)

func TestSetFlagsFromYamlFillsUnsetFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	level := fs.String("v", "INFO", "")
	mode := fs.String("mode", "decompress", "")

	raw := []byte("V: DEBUG\nMODE: inspect\n")
	if err := SetFlagsFromYaml(fs, raw); err != nil {
		t.Fatalf("SetFlagsFromYaml: %v", err)
	}
	if *level != "DEBUG" {
		t.Errorf("v = %q, want DEBUG", *level)
	}
	if *mode != "inspect" {
		t.Errorf("mode = %q, want inspect", *mode)
	}
}

func TestSetFlagsFromYamlDoesNotOverrideExplicitFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	level := fs.String("v", "INFO", "")
	if err := fs.Parse([]string{"-v", "TRACE"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	raw := []byte("V: DEBUG\n")
	if err := SetFlagsFromYaml(fs, raw); err != nil {
		t.Fatalf("SetFlagsFromYaml: %v", err)
	}
	if *level != "TRACE" {
		t.Errorf("v = %q, want TRACE (explicit flag should win)", *level)
	}
}

func TestSetFlagsFromYamlRejectsMalformedYaml(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.String("v", "INFO", "")

	raw := []byte("not: [valid\n")
	if err := SetFlagsFromYaml(fs, raw); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
