// Package preproc loads C sources for the declaration parser, either as
// they are or after running them through the system preprocessor (cc -E).
package preproc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"modernc.org/mathutil"
)

// ErrNoPreprocessor is returned when UseExternal is set and no C compiler
// driver can be found.
var ErrNoPreprocessor = errors.New("no C preprocessor found (tried: cc, gcc, clang)")

// Options configures how a source is loaded
type Options struct {
	IncludePaths []string // -I directories
	SystemPaths  []string // -isystem directories
	Defines      []string // -D macros, NAME or NAME=VALUE
	Undefines    []string // -U macros
	UseExternal  bool     // run the system preprocessor first
}

// Load returns the text the parser should see for filename. Without
// UseExternal the file is read unchanged and directives are left to the
// parser. With UseExternal the file goes through cc -E -dD, which keeps
// #define lines in the output so that macros still reach the parser.
// The filename "-" reads standard input.
func Load(ctx context.Context, filename string, opts *Options) (string, error) {
	if opts != nil && opts.UseExternal {
		return preprocessExternal(ctx, filename, opts)
	}
	if filename == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading standard input: %w", err)
		}
		return string(data), nil
	}
	return readFile(filename)
}

func readFile(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", filename, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", filename, err)
	}
	if fi.Size() > mathutil.MaxInt {
		return "", fmt.Errorf("%s: file too big (%v bytes)", filename, fi.Size())
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", filename, err)
	}
	return string(data), nil
}

// Args returns the arguments passed to the system preprocessor.
func Args(filename string, opts *Options) []string {
	args := []string{"-E", "-dD"}
	if opts != nil {
		for _, path := range opts.IncludePaths {
			args = append(args, "-I"+path)
		}
		for _, path := range opts.SystemPaths {
			args = append(args, "-isystem", path)
		}
		for _, def := range opts.Defines {
			args = append(args, "-D"+def)
		}
		for _, name := range opts.Undefines {
			args = append(args, "-U"+name)
		}
	}
	return append(args, filename)
}

// preprocessExternal uses the system C preprocessor (cc -E)
func preprocessExternal(ctx context.Context, filename string, opts *Options) (string, error) {
	cppCmd := findPreprocessor()
	if cppCmd == "" {
		return "", ErrNoPreprocessor
	}

	path, err := filepath.Abs(filename)
	if err != nil {
		return "", err
	}
	cmd := exec.CommandContext(ctx, cppCmd, Args(path, opts)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// relative includes resolve against the file's directory
	cmd.Dir = filepath.Dir(path)

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("preprocessing %s failed: %w\n%s", filename, err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}

// findPreprocessor searches for a C preprocessor on the system
func findPreprocessor() string {
	candidates := []string{"cc", "gcc", "clang"}

	for _, cmd := range candidates {
		if path, err := exec.LookPath(cmd); err == nil {
			return path
		}
	}
	return ""
}
