package main

import (
	"fmt"
	"unicode"

	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"

	drop "blitznote.com/src/http.drop"
)

type options struct {
	port            int
	dir             string
	unsafeFilenames bool
	filenamesIn     string
	filenamesForm   string
	qr              bool
	metricsListen   string
	verbose         bool
}

// newRootCommand parses the command line, and hands over to 'run' unless only help has been asked for.
func newRootCommand(run func(*cobra.Command, *options) error) *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:   "drop",
		Short: "Serve an upload form, and write uploaded files to disk",
		Long: `Serves a page with an upload form on all interfaces.
Files uploaded through it are written to the upload directory;
if a file of the same name exists "_new" is inserted before its extension.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.port < 1 || opts.port > 65535 {
				return fmt.Errorf("invalid port number: %d", opts.port)
			}
			return run(cmd, &opts)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.port, "port", "p", 8080, "Set the port number for the server")
	f.StringVarP(&opts.dir, "dir", "d", ".", "Directory to write uploaded files to")
	f.BoolVar(&opts.unsafeFilenames, "unsafe-filenames", false, "Use filenames as sent, even if they point outside the directory")
	f.StringVar(&opts.filenamesIn, "filenames-in", "", "Only accept filenames with runes in these ranges, like \"x0020-x007E\"")
	f.StringVar(&opts.filenamesForm, "filenames-form", "none", "Only accept filenames in this Unicode form: NFC, NFD, or none")
	f.BoolVar(&opts.qr, "qr", false, "Print a QR code of the server's address")
	f.StringVar(&opts.metricsListen, "metrics-listen", "", "Serve Prometheus metrics on this address, for example \"127.0.0.1:9100\"")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug messages")

	return cmd
}

// configuration translates the command line into the handler's configuration.
func (o *options) configuration() (*drop.Configuration, error) {
	cfg := drop.NewDefaultConfiguration(o.dir)
	cfg.AllowUnsafeFilenames = o.unsafeFilenames

	if o.filenamesIn != "" {
		rt, err := drop.ParseUnicodeBlockList(o.filenamesIn)
		if err != nil {
			return nil, fmt.Errorf("--filenames-in: %w", err)
		}
		cfg.RestrictFilenamesTo = []*unicode.RangeTable{rt}
	}

	switch o.filenamesForm {
	case "NFC":
		cfg.UnicodeForm = &struct{ Use norm.Form }{Use: norm.NFC}
	case "NFD":
		cfg.UnicodeForm = &struct{ Use norm.Form }{Use: norm.NFD}
	case "none", "":
		// nop
	default:
		return nil, fmt.Errorf("--filenames-form: unknown form %q", o.filenamesForm)
	}

	return cfg, nil
}
