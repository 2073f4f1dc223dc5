package commands

import (
	"flag"
	"fmt"

	"github.com/erraggy/openapi-gui/deref"
	"github.com/erraggy/openapi-gui/internal/cliutil"
	"github.com/erraggy/openapi-gui/normalize"
	"github.com/erraggy/openapi-gui/render"
)

// RenderFlags contains flags for the render command
type RenderFlags struct {
	HTML          bool
	Inline        bool
	Minify        bool
	NoCodeSamples bool
	NoSamples     bool
	Discovery     bool
	Output        string
}

// SetupRenderFlags creates and configures a FlagSet for the render command.
func SetupRenderFlags() (*flag.FlagSet, *RenderFlags) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	flags := &RenderFlags{}

	fs.BoolVar(&flags.HTML, "html", false, "render an HTML page instead of Markdown")
	fs.BoolVar(&flags.Inline, "inline", true, "embed the stylesheet in the HTML page")
	fs.BoolVar(&flags.Minify, "minify", false, "collapse whitespace between HTML tags")
	fs.BoolVar(&flags.NoCodeSamples, "no-code-samples", false, "omit per-language request samples")
	fs.BoolVar(&flags.NoSamples, "no-samples", false, "omit example bodies generated from schemas")
	fs.BoolVar(&flags.Discovery, "discovery", false, "embed schema.org WebAPI discovery data")
	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: openapi-gui render [flags] <file|->\n\n")
		cliutil.Writef(fs.Output(), "Dereference an OpenAPI document and render its documentation.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  openapi-gui render openapi.yaml > api.md\n")
		cliutil.Writef(fs.Output(), "  openapi-gui render -html -o index.html openapi.yaml\n")
	}

	return fs, flags
}

// HandleRender executes the render command
func HandleRender(args []string) error {
	fs, flags := SetupRenderFlags()
	if ok, err := parseArgs(fs, args); !ok {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("render command requires exactly one file path or '-' for stdin")
	}
	specPath := fs.Arg(0)
	if flags.Output != "" {
		if err := ValidateOutputPath(flags.Output, []string{specPath}); err != nil {
			return err
		}
	}

	doc, _, err := readSpec(specPath)
	if err != nil {
		return err
	}
	d := deref.New()
	d.Logger = cliutil.NewLogger(stderr, false, false)
	result, err := d.Dereference(doc, nil)
	if err != nil {
		return fmt.Errorf("dereferencing %s: %w", FormatSpecPath(specPath), err)
	}

	opts := render.DefaultOptions()
	opts.CodeSamples = !flags.NoCodeSamples
	opts.Sample = !flags.NoSamples
	opts.Discovery = flags.Discovery
	out, err := render.Markdown(normalize.PostProcess(result.Document), opts)
	if err != nil {
		return err
	}
	if flags.HTML {
		htmlOpts := render.DefaultHTMLOptions()
		htmlOpts.Inline = flags.Inline
		htmlOpts.Minify = flags.Minify
		if out, err = render.HTML(out, htmlOpts); err != nil {
			return err
		}
	}
	return writeOutput(flags.Output, []byte(out))
}
