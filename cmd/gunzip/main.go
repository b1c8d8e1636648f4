// Command gunzip decompresses a single gzip member from a file or stdin
// to stdout.
package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/corestack/gunzip"
	"github.com/corestack/gunzip/capnslog"
	"github.com/corestack/gunzip/flagutil"
	"github.com/corestack/gunzip/gzip"
	"github.com/corestack/gunzip/progressutil"
	"github.com/corestack/gunzip/stop"
	"github.com/corestack/gunzip/yamlutil"
)

var plog = capnslog.NewPackageLogger("github.com/corestack/gunzip", "cmd/gunzip")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("gunzip", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var level flagutil.LevelFlag
	var mode flagutil.ModeFlag
	fs.Var(&level, "v", "log level: CRITICAL, ERROR, WARNING, NOTICE, INFO, DEBUG, TRACE")
	fs.Var(&mode, "mode", "decompress (default) or inspect")
	configPath := fs.String("config", "", "path to a YAML config file (default $HOME/.gunziprc if present)")
	progress := fs.Bool("progress", false, "print a copy-progress line to stderr while decompressing")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if cfg, err := loadConfig(*configPath); err != nil {
		fmt.Fprintf(stderr, "gunzip: loading config: %v\n", err)
		return 1
	} else if cfg != nil {
		if err := yamlutil.SetFlagsFromYaml(fs, cfg); err != nil {
			fmt.Fprintf(stderr, "gunzip: applying config: %v\n", err)
			return 1
		}
	}

	capnslog.MustRepoLogger("github.com/corestack/gunzip").SetGlobalLogLevel(level.Level())
	capnslog.SetFormatter(capnslog.MultiFormatter{
		capnslog.NewStringFormatter(stderr),
		capnslog.NewJournaldFormatter(),
	})

	src, srcCloser, err := openInput(fs.Args(), stdin)
	if err != nil {
		fmt.Fprintf(stderr, "gunzip: %v\n", err)
		return 1
	}
	defer srcCloser.Close()

	sg := stop.NewGroup()
	cancel := make(chan struct{})
	sg.AddFunc(func() <-chan struct{} {
		// Closing the input unblocks a Read that's stuck mid-stream;
		// Decompress then surfaces it as an IOError and returns.
		srcCloser.Close()
		close(cancel)
		return stop.AlreadyDone
	})
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		plog.Notice("received shutdown signal")
		sg.Stop()
	}()

	switch mode.Mode() {
	case flagutil.ModeInspect:
		return inspect(src, stdout, stderr)
	default:
		return decompress(src, stdout, stderr, *progress, cancel)
	}
}

func loadConfig(explicitPath string) ([]byte, error) {
	path := explicitPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil
		}
		def := filepath.Join(home, ".gunziprc")
		if _, err := os.Stat(def); err != nil {
			return nil, nil
		}
		path = def
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		if explicitPath == "" {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openInput(positional []string, stdin io.Reader) (io.Reader, io.Closer, error) {
	if len(positional) == 0 {
		if c, ok := stdin.(io.Closer); ok {
			return stdin, c, nil
		}
		return stdin, nopCloser{}, nil
	}
	f, err := os.Open(positional[0])
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func inspect(src io.Reader, stdout, stderr io.Writer) int {
	var discard devNullWriter
	r, err := gzip.NewReader(src, discard)
	if err != nil {
		fmt.Fprintf(stderr, "gunzip: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "name: %s\n", r.Name)
	fmt.Fprintf(stdout, "comment: %s\n", r.Comment)
	fmt.Fprintf(stdout, "mtime: %s\n", r.ModTime)
	fmt.Fprintf(stdout, "os: %d\n", r.OS)
	return 0
}

type devNullWriter struct{}

func (devNullWriter) Write(p []byte) (int, error) { return len(p), nil }

func decompress(src io.Reader, stdout, stderr io.Writer, showProgress bool, cancel <-chan struct{}) int {
	if !showProgress {
		if err := gunzip.Decompress(src, stdout); err != nil {
			fmt.Fprintf(stderr, "gunzip: %v\n", err)
			return 1
		}
		return 0
	}

	pr, pw := io.Pipe()
	decodeErr := make(chan error, 1)
	go func() {
		decodeErr <- gunzip.Decompress(src, pw)
		pw.Close()
	}()

	cpp := progressutil.NewCopyProgressPrinter()
	if err := cpp.AddCopy(pr, "gunzip", 0, stdout); err != nil {
		fmt.Fprintf(stderr, "gunzip: %v\n", err)
		return 1
	}
	if err := cpp.PrintAndWait(stderr, 200*time.Millisecond, cancel); err != nil {
		fmt.Fprintf(stderr, "gunzip: %v\n", err)
		return 1
	}
	if err := <-decodeErr; err != nil {
		fmt.Fprintf(stderr, "gunzip: %v\n", err)
		return 1
	}
	return 0
}
