package commands

import (
	"flag"
	"fmt"

	"github.com/erraggy/openapi-gui/internal/cliutil"
	"github.com/erraggy/openapi-gui/normalize"
)

// NormalizeFlags contains flags for the normalize command
type NormalizeFlags struct {
	Post   bool
	Format string
	Output string
}

// SetupNormalizeFlags creates and configures a FlagSet for the normalize command.
func SetupNormalizeFlags() (*flag.FlagSet, *NormalizeFlags) {
	fs := flag.NewFlagSet("normalize", flag.ContinueOnError)
	flags := &NormalizeFlags{}

	fs.BoolVar(&flags.Post, "post", false, "post-process instead of pre-process")
	fs.StringVar(&flags.Format, "format", "", "output format: json or yaml (default: input format)")
	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: openapi-gui normalize [flags] <file|->\n\n")
		cliutil.Writef(fs.Output(), "Prepare an OpenAPI document for the editor, or clean it up afterwards.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nPre-processing adds empty info.contact, info.license, externalDocs,\n")
		cliutil.Writef(fs.Output(), "security, servers and components containers, and copies path-level\n")
		cliutil.Writef(fs.Output(), "parameters into each operation. Post-processing removes empty\n")
		cliutil.Writef(fs.Output(), "externalDocs and license objects and empty operation tag lists.\n")
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  openapi-gui normalize openapi.yaml\n")
		cliutil.Writef(fs.Output(), "  openapi-gui normalize -post -format yaml -o clean.yaml edited.json\n")
	}

	return fs, flags
}

// HandleNormalize executes the normalize command
func HandleNormalize(args []string) error {
	fs, flags := SetupNormalizeFlags()
	if ok, err := parseArgs(fs, args); !ok {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("normalize command requires exactly one file path or '-' for stdin")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}
	specPath := fs.Arg(0)
	if flags.Output != "" {
		if err := ValidateOutputPath(flags.Output, []string{specPath}); err != nil {
			return err
		}
	}

	doc, inputFormat, err := readSpec(specPath)
	if err != nil {
		return err
	}
	if flags.Post {
		doc = normalize.PostProcess(doc)
	} else {
		doc = normalize.PreProcess(doc)
	}

	data, err := encode(doc, pickFormat(flags.Format, inputFormat))
	if err != nil {
		return err
	}
	return writeOutput(flags.Output, data)
}
