package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/raymyers/cdecl/pkg/cabs"
	"github.com/raymyers/cdecl/pkg/cpp"
	"github.com/raymyers/cdecl/pkg/ctypes"
	"github.com/raymyers/cdecl/pkg/parser"
	"github.com/raymyers/cdecl/pkg/preproc"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"modernc.org/strutil"
)

var version = "0.1.0"

// ErrParse is returned when any input had syntax errors. Declarations that
// parsed are still written.
var ErrParse = errors.New("parse errors")

// Dump flags
var (
	dTypes  bool
	dMacros bool
)

// Preprocessor options
var (
	includePaths  []string
	systemPaths   []string
	defineFlags   []string
	undefineFlags []string
	useExternalPP bool
	noStddefTypes bool
	evaluate      bool
)

// Output options
var (
	format  = formatText
	verbose bool
)

// outputFormat selects how declarations are written.
type outputFormat string

const (
	formatText    outputFormat = "text"
	formatYAML    outputFormat = "yaml"
	formatGo      outputFormat = "go"
	formatExplain outputFormat = "explain"
)

var formats = []outputFormat{formatText, formatYAML, formatGo, formatExplain}

func (f *outputFormat) String() string { return string(*f) }

func (f *outputFormat) Set(s string) error {
	for _, known := range formats {
		if s == string(known) {
			*f = known
			return nil
		}
	}
	return fmt.Errorf("unknown format %q (want text, yaml, go or explain)", s)
}

func (f *outputFormat) Type() string { return "format" }

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	// Normalize single-dash dump flags to double-dash for pflag compatibility
	rootCmd.SetArgs(normalizeFlags(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// dumpFlagNames lists the flags that also accept single-dash style
var dumpFlagNames = []string{"dtypes", "dmacros"}

// normalizeFlags converts single-dash flags like -dtypes to --dtypes
func normalizeFlags(args []string) []string {
	result := make([]string, len(args))
	for i, arg := range args {
		for _, flagName := range dumpFlagNames {
			if arg == "-"+flagName {
				result[i] = "--" + flagName
				break
			}
		}
		if result[i] == "" {
			result[i] = arg
		}
	}
	return result
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cdecl [file...]",
		Short: "cdecl lists the declarations and macros of C headers",
		Long: `cdecl parses C header files in a single pass, interleaving the
preprocessor with the declaration grammar, and reports every
declaration, #define and conditional it sees. Files are parsed in
order by one parser, so macros and typedef names carry over.
Use "-" to read standard input.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cmd.Help()
				return nil
			}
			err := doParse(cmd.Context(), args, out, errOut)
			if err != nil && !errors.Is(err, ErrParse) {
				fmt.Fprintf(errOut, "cdecl: %v\n", err)
			}
			return err
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	addDumpFlags(rootCmd.Flags())
	addPreprocessorFlags(rootCmd.Flags())
	addOutputFlags(rootCmd.Flags())

	return rootCmd
}

func addDumpFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&dTypes, "dtypes", false, "Dump the known type names after parsing")
	fs.BoolVar(&dMacros, "dmacros", false, "Dump the macro table after parsing")
}

func addPreprocessorFlags(fs *pflag.FlagSet) {
	fs.StringArrayVarP(&includePaths, "include", "I", nil, "Add directory to include search path (external preprocessor)")
	fs.StringArrayVar(&systemPaths, "isystem", nil, "Add directory to system include search path (external preprocessor)")
	fs.StringArrayVarP(&defineFlags, "define", "D", nil, "Define macro (NAME or NAME=VALUE)")
	fs.StringArrayVarP(&undefineFlags, "undefine", "U", nil, "Undefine macro")
	fs.BoolVar(&useExternalPP, "external-cpp", false, "Run the system C preprocessor before parsing")
	fs.BoolVar(&noStddefTypes, "no-stddef-types", false, "Do not predeclare wchar_t, ptrdiff_t and size_t")
	fs.BoolVar(&evaluate, "evaluate", false, "Evaluate conditionals and report only declarations in live branches")
}

func addOutputFlags(fs *pflag.FlagSet) {
	fs.Var(&format, "format", "Output format: text, yaml, go or explain")
	fs.BoolVarP(&verbose, "verbose", "v", false, "Log parser progress to stderr")
}

// buildPreprocessorOptions creates preproc.Options from CLI flags
func buildPreprocessorOptions() *preproc.Options {
	return &preproc.Options{
		IncludePaths: includePaths,
		SystemPaths:  systemPaths,
		Defines:      defineFlags,
		Undefines:    undefineFlags,
		UseExternal:  useExternalPP,
	}
}

// newHandler returns the handler for the selected format. Formats other
// than text collect declarations and write them after parsing.
func newHandler(out, errOut io.Writer) (parser.Handler, *parser.Collector) {
	if format == formatText {
		return parser.NewDebugHandler(out, errOut), nil
	}
	c := &parser.Collector{}
	return c, c
}

// doParse parses the files in order with one parser and writes the result.
func doParse(ctx context.Context, filenames []string, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	opts := buildPreprocessorOptions()

	macros := cpp.NewMacroTable()
	if !opts.UseExternal {
		// cc -E -dD reports command-line macros as #define lines
		macros.ApplyCmdlineDefines(opts.Defines, opts.Undefines)
	}

	h, collected := newHandler(out, errOut)
	var filter *parser.BranchFilter
	if evaluate {
		filter = parser.NewBranchFilter(h, macros)
		h = filter
	}

	var logger *slog.Logger
	if verbose {
		logger = slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	p := parser.New(h, parser.Options{
		StddefTypes: !noStddefTypes,
		Logger:      logger,
		Macros:      macros,
	})

	for _, filename := range filenames {
		content, err := preproc.Load(ctx, filename, opts)
		if err != nil {
			return err
		}
		name := filename
		if name == "-" {
			name = "<stdin>"
		}
		p.ParseFile(name, content)
	}

	if collected != nil {
		for _, msg := range collected.Errors {
			fmt.Fprintf(errOut, "cdecl: %s\n", msg)
		}
		if err := writeDeclarations(collected.Declarations, macros, out); err != nil {
			return err
		}
	}
	if filter != nil {
		for _, err := range filter.Errors() {
			fmt.Fprintf(errOut, "cdecl: warning: %v\n", err)
		}
	}
	if dTypes {
		for _, name := range p.TypeNames().Names() {
			fmt.Fprintf(out, "typedef %s\n", name)
		}
	}
	if dMacros {
		dumpMacros(p.Macros(), out)
	}

	if n := len(p.Errors()); n > 0 {
		return fmt.Errorf("%d error(s): %w", n, ErrParse)
	}
	return nil
}

func writeDeclarations(decls []*cabs.Declaration, macros *cpp.MacroTable, out io.Writer) error {
	switch format {
	case formatYAML:
		return cabs.WriteYAML(out, decls)
	case formatGo:
		for _, d := range decls {
			fmt.Fprintln(out, strutil.PrettyString(d, "", "", nil))
		}
	case formatExplain:
		ctx := parser.NewEvaluator(macros).Constants()
		for _, d := range decls {
			s, err := ctypes.Explain(d, ctx)
			if err != nil {
				s = fmt.Sprintf("%s: %v", d.Name(), err)
			}
			fmt.Fprintln(out, s)
		}
	}
	return nil
}

func dumpMacros(macros *cpp.MacroTable, out io.Writer) {
	for _, name := range macros.Names() {
		m := macros.Macro(name)
		if m.Kind == cpp.MacroFunction {
			params := m.Params
			if m.Variadic {
				params = append(params[:len(params):len(params)], "...")
			}
			fmt.Fprintf(out, "#define %s(%s) %s\n", name, strings.Join(params, ", "), m.Body)
			continue
		}
		fmt.Fprintf(out, "#define %s %s\n", name, m.Body)
	}
}
