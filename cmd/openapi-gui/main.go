package main

import (
	"io"
	"os"

	openapigui "github.com/erraggy/openapi-gui"
	"github.com/erraggy/openapi-gui/cmd/openapi-gui/commands"
	"github.com/erraggy/openapi-gui/internal/cliutil"
)

// commandNames lists the commands suggestCommand can propose.
var commandNames = []string{"serve", "deref", "normalize", "render", "mcp", "version", "help"}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches args to a command and returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	command := args[0]
	var err error
	switch command {
	case "version", "-v", "--version":
		cliutil.Writef(stdout, "openapi-gui v%s\n", openapigui.Version())
		if len(args) > 1 && args[1] == "-l" {
			cliutil.Writef(stdout, "%s\n", openapigui.BuildInfo())
		}
		return 0
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	case "serve":
		err = commands.HandleServe(args[1:])
	case "deref":
		err = commands.HandleDeref(args[1:])
	case "normalize":
		err = commands.HandleNormalize(args[1:])
	case "render":
		err = commands.HandleRender(args[1:])
	case "mcp":
		err = commands.HandleMCP(args[1:])
	default:
		cliutil.Errorf(stderr, "unknown command: %s", command)
		if s := suggestCommand(command); s != "" {
			cliutil.Writef(stderr, "Did you mean '%s'?\n", s)
		}
		cliutil.Writef(stderr, "\n")
		printUsage(stderr)
		return 1
	}
	if err != nil {
		cliutil.Errorf(stderr, "%v", err)
		return 1
	}
	return 0
}

// suggestCommand returns the command closest to input within an edit
// distance of 2, or "" when none is close enough.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := levenshtein(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

// levenshtein returns the edit distance between a and b.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func printUsage(w io.Writer) {
	cliutil.Writef(w, `openapi-gui - OpenAPI editor backend and documentation tool

Usage:
  openapi-gui <command> [flags] [arguments]

Commands:
  serve       Run the editor backend (HTTP)
  deref       Inline the $ref pointers of a document
  normalize   Prepare a document for the editor, or clean it up (-post)
  render      Render documentation as Markdown or HTML
  mcp         Run the MCP server over stdio
  version     Show version information (-l for build details)
  help        Show this help message

Run 'openapi-gui <command> -h' for the flags of a command.

Examples:
  openapi-gui serve -l -d openapi.yaml -w
  openapi-gui deref -defs components.yaml paths.yaml > resolved.yaml
  openapi-gui render -html -o index.html openapi.yaml
`)
}
