package commands

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"

	"github.com/erraggy/openapi-gui/internal/cliutil"
	"github.com/erraggy/openapi-gui/server"
)

// ServeFlags contains flags for the serve command
type ServeFlags struct {
	server.Config
	Verbose bool
	Quiet   bool
}

// SetupServeFlags creates and configures a FlagSet for the serve command.
// Flag defaults come from the OPENAPI_GUI_* environment.
func SetupServeFlags() (*flag.FlagSet, *ServeFlags) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	flags := &ServeFlags{Config: server.LoadConfig()}

	fs.StringVar(&flags.Host, "host", flags.Host, "interface to listen on")
	fs.IntVar(&flags.Port, "port", flags.Port, "port to listen on (0 picks a free port)")
	fs.IntVar(&flags.Port, "p", flags.Port, "port to listen on (shorthand)")
	fs.StringVar(&flags.Definition, "d", flags.Definition, "definition file loaded into the editor")
	fs.BoolVar(&flags.WriteBack, "w", flags.WriteBack, "write editor changes back to the -d file")
	fs.BoolVar(&flags.Launch, "l", flags.Launch, "open the editor in a browser")
	fs.StringVar(&flags.SchemaDir, "schema-dir", flags.SchemaDir, "directory of stored schemas")
	fs.StringVar(&flags.DocDir, "doc-dir", flags.DocDir, "directory of stored apidocs")
	fs.StringVar(&flags.StaticDir, "static", flags.StaticDir, "directory holding the browser editor")
	fs.StringVar(&flags.API2HTML, "api2html", flags.API2HTML, "external renderer for stored apidocs (default: built-in)")
	fs.StringVar(&flags.Logo, "logo", flags.Logo, "logo passed to the external renderer")
	fs.BoolVar(&flags.Verbose, "v", false, "log every request")
	fs.BoolVar(&flags.Quiet, "q", false, "log errors only")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: openapi-gui serve [flags]\n\n")
		cliutil.Writef(fs.Output(), "Run the OpenAPI editor backend.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nEnvironment:\n")
		cliutil.Writef(fs.Output(), "  OPENAPI_GUI_HOST, OPENAPI_GUI_PORT, OPENAPI_GUI_DEFINITION, OPENAPI_GUI_WRITE_BACK,\n")
		cliutil.Writef(fs.Output(), "  OPENAPI_GUI_LAUNCH, OPENAPI_GUI_SCHEMA_DIR, OPENAPI_GUI_DOC_DIR, OPENAPI_GUI_STATIC_DIR,\n")
		cliutil.Writef(fs.Output(), "  OPENAPI_GUI_API2HTML, OPENAPI_GUI_LOGO, OPENAPI_GUI_SHUTDOWN_TIMEOUT set the defaults.\n")
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  openapi-gui serve -l\n")
		cliutil.Writef(fs.Output(), "  openapi-gui serve -p 8080 -d openapi.yaml -w\n")
	}

	return fs, flags
}

// openBrowser opens target with the platform's default handler. Replaced in
// tests.
var openBrowser = func(target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// editorURL is the page opened by -l. With a definition the editor
// loads it from /serve.
func editorURL(addr net.Addr, withDefinition bool) string {
	u := url.URL{Scheme: "http", Host: addr.String(), Path: "/"}
	if tcp, ok := addr.(*net.TCPAddr); ok && tcp.IP.IsUnspecified() {
		u.Host = net.JoinHostPort("localhost", strconv.Itoa(tcp.Port))
	}
	if withDefinition {
		u.RawQuery = url.Values{"url": {"/serve"}}.Encode()
	}
	return u.String()
}

// HandleServe executes the serve command until SIGINT or SIGTERM.
func HandleServe(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runServe(ctx, args, nil)
}

// runServe serves until ctx is cancelled. ready, when not nil, receives
// the bound address.
func runServe(ctx context.Context, args []string, ready func(net.Addr)) error {
	fs, flags := SetupServeFlags()
	if ok, err := parseArgs(fs, args); !ok {
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("serve command takes no arguments")
	}
	if flags.WriteBack && flags.Definition == "" {
		cliutil.Warnf(stderr, "-w has no effect without -d")
	}

	logger := cliutil.NewLogger(stderr, flags.Verbose, flags.Quiet)
	srv, err := server.New(flags.Config, logger)
	if err != nil {
		return err
	}

	return srv.Run(ctx, flags.Addr(), func(addr net.Addr) {
		target := editorURL(addr, flags.Definition != "")
		if !flags.Quiet {
			cliutil.Successf(stderr, "editor available at %s", target)
		}
		if flags.Launch {
			if err := openBrowser(target); err != nil {
				cliutil.Warnf(stderr, "could not open a browser: %v", err)
			}
		}
		if ready != nil {
			ready(addr)
		}
	})
}
