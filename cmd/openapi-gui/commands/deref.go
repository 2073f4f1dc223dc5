package commands

import (
	"flag"
	"fmt"

	"github.com/erraggy/openapi-gui/deref"
	"github.com/erraggy/openapi-gui/internal/cliutil"
	"github.com/erraggy/openapi-gui/normalize"
)

// DerefFlags contains flags for the deref command
type DerefFlags struct {
	Definitions string
	Format      string
	Output      string
	MaxPasses   int
	Legacy      bool
	Post        bool
	Strict      bool
	Quiet       bool
}

// SetupDerefFlags creates and configures a FlagSet for the deref command.
// Returns the FlagSet and a DerefFlags struct with bound flag variables.
func SetupDerefFlags() (*flag.FlagSet, *DerefFlags) {
	fs := flag.NewFlagSet("deref", flag.ContinueOnError)
	flags := &DerefFlags{}

	fs.StringVar(&flags.Definitions, "defs", "", "document whose top level holds the #/components/ targets (default: the document's own components)")
	fs.StringVar(&flags.Format, "format", "", "output format: json or yaml (default: input format)")
	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")
	fs.IntVar(&flags.MaxPasses, "max-passes", deref.DefaultMaxPasses, "passes before a reference cycle is reported")
	fs.BoolVar(&flags.Legacy, "legacy-pointers", false, "keep pointer segments raw instead of applying ~0/~1 unescaping")
	fs.BoolVar(&flags.Post, "post", false, "post-process the result (drop editor placeholders)")
	fs.BoolVar(&flags.Strict, "strict", false, "fail when any reference cannot be resolved")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only output the document, no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only output the document, no diagnostic messages")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: openapi-gui deref [flags] <file|->\n\n")
		cliutil.Writef(fs.Output(), "Inline the local $ref pointers of an OpenAPI document.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  openapi-gui deref openapi.yaml\n")
		cliutil.Writef(fs.Output(), "  openapi-gui deref -defs components.yaml -format json -o resolved.json paths.yaml\n")
		cliutil.Writef(fs.Output(), "  cat openapi.json | openapi-gui deref -q - > resolved.json\n")
		cliutil.Writef(fs.Output(), "\nExit Codes:\n")
		cliutil.Writef(fs.Output(), "  0    Document dereferenced (unresolved references are reported as warnings)\n")
		cliutil.Writef(fs.Output(), "  1    Parse failure, cycle exceeding -max-passes, or unresolved references with -strict\n")
	}

	return fs, flags
}

// HandleDeref executes the deref command
func HandleDeref(args []string) error {
	fs, flags := SetupDerefFlags()
	if ok, err := parseArgs(fs, args); !ok {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("deref command requires exactly one file path or '-' for stdin")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}
	specPath := fs.Arg(0)
	if flags.Output != "" {
		if err := ValidateOutputPath(flags.Output, []string{specPath, flags.Definitions}); err != nil {
			return err
		}
	}

	doc, inputFormat, err := readSpec(specPath)
	if err != nil {
		return err
	}
	opts := []deref.Option{
		deref.WithDocument(doc),
		deref.WithMaxPasses(flags.MaxPasses),
		deref.WithLegacyPointers(flags.Legacy),
		deref.WithLogger(cliutil.NewLogger(stderr, false, true)),
	}
	if flags.Definitions != "" {
		defs, _, err := readSpec(flags.Definitions)
		if err != nil {
			return fmt.Errorf("definitions: %w", err)
		}
		opts = append(opts, deref.WithDefinitions(defs))
	}

	result, err := deref.DereferenceWithOptions(opts...)
	if err != nil {
		return fmt.Errorf("dereferencing %s: %w", FormatSpecPath(specPath), err)
	}
	out := result.Document
	if flags.Post {
		out = normalize.PostProcess(out)
	}

	if !flags.Quiet {
		cliutil.Writef(stderr, "Specification: %s\n", FormatSpecPath(specPath))
		cliutil.Writef(stderr, "Passes: %d\n", result.Passes)
		cliutil.Writef(stderr, "Resolved: %d\n", result.Resolutions)
		for _, u := range result.Unresolved {
			cliutil.Warnf(stderr, "unresolved %s at %s: %s", u.Ref, u.Path, u.Message)
		}
	}
	if flags.Strict && len(result.Unresolved) > 0 {
		return fmt.Errorf("%d unresolved reference(s)", len(result.Unresolved))
	}

	data, err := encode(out, pickFormat(flags.Format, inputFormat))
	if err != nil {
		return err
	}
	return writeOutput(flags.Output, data)
}
