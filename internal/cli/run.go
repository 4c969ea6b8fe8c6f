package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphcanvas/pkg/errors"
	docio "github.com/matzehuels/graphcanvas/pkg/io"
	"github.com/matzehuels/graphcanvas/pkg/mode"
	"github.com/matzehuels/graphcanvas/pkg/script"
)

type runOpts struct {
	document string
	output   string
	timeout  time.Duration
	dryRun   bool
}

// runCommand executes a gesture script against a document.
func (c *CLI) runCommand() *cobra.Command {
	var opts runOpts

	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Run a gesture script against a document",
		Long: `Run a script of canvas commands and save the resulting document.

The script starts from the document named by --document, or from an empty
canvas. It is read from a file, or from stdin when the path is "-". The
document is saved only when every statement succeeds.`,
		Example: `  graphcanvas run join.gcs -d petersen.json
  echo 'layout cycle 5 as c
  print' | graphcanvas run - -o cycle.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScript(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.document, "document", "d", "", "document to start from")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output document (default the --document, or <script>.json)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", time.Minute, "abort the script after this long")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "run the script without saving")

	return cmd
}

func (c *CLI) runScript(ctx context.Context, path string, opts runOpts) error {
	logger := loggerFromContext(ctx)

	src, err := readScript(path)
	if err != nil {
		return err
	}
	prog, err := script.ParseReader(path, src)
	if err != nil {
		return err
	}

	doc := docio.New(documentName(path))
	if opts.document != "" {
		if doc, err = readDocument(opts.document); err != nil {
			return err
		}
	}
	output := opts.output
	if output == "" {
		output = opts.document
	}
	if output == "" {
		output = documentName(path) + ".json"
	}

	cv, err := c.buildCanvas(doc)
	if err != nil {
		return err
	}
	m := c.newMachine(cv)
	in := script.New(m,
		script.WithOutput(stdout),
		script.WithLogger(logger),
		script.WithStyles(c.Config.NodeStyle(), c.Config.EdgeStyle()),
	)

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}
	done := stopwatch(logger)
	if err := in.Exec(ctx, prog); err != nil {
		return err
	}
	m.SetMode(mode.Drag)
	done("ran script", "statements", len(prog.Statements))

	if err := cv.Check(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "script left an inconsistent canvas")
	}
	if opts.dryRun {
		return nil
	}
	out := capture(cv, doc)
	if err := writeDocument(output, out); err != nil {
		return err
	}
	if output != "-" {
		graphs, nodes, edges := out.Counts()
		printSuccess("Saved %s", output)
		printStats(graphs, nodes, edges, nil)
	}
	return nil
}

// readScript opens path, or stdin for "-".
func readScript(path string) (io.Reader, error) {
	if path == "-" {
		return os.Stdin, nil
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return bytes.NewReader(data), nil
}
