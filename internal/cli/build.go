package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mmcifsite/pkg/errors"
	"github.com/matzehuels/mmcifsite/pkg/pipeline"
	"github.com/matzehuels/mmcifsite/pkg/store"
)

// buildOpts holds the command-line flags shared by build, html and images.
type buildOpts struct {
	html         bool
	images       bool
	webGenPath   string
	assetsPath   string
	dictionaries []string
	testMode     bool
	concurrency  int
	purge        bool
	noCache      bool
	dotOnly      bool
}

// buildCommand creates the build command for generating the whole site.
func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Generate the HTML pages and neighbor figures of every dictionary",
		Long: `Generate the documentation tree of every registered dictionary.

With --html only the pages are written, with --images only the neighbor
figures. Without either flag both stages run, figures first so that the
category pages link the diagrams of the same run.

Source assets (dictionary snapshots, coverage counts and the registry) are
read from --web-file-assets-path; the site is written below --web-gen-path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.html && !opts.images {
				opts.html, opts.images = true, true
			}
			c.applyBuildFlags(cmd, opts)
			return c.runBuild(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.html, "html", false, "write HTML pages")
	cmd.Flags().BoolVar(&opts.images, "images", false, "render neighbor figures")
	addBuildFlags(cmd, &opts)
	return cmd
}

// htmlCommand is a shortcut for "build --html".
func (c *CLI) htmlCommand() *cobra.Command {
	var opts buildOpts
	cmd := &cobra.Command{
		Use:   "html",
		Short: "Write the HTML pages of every dictionary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.html = true
			c.applyBuildFlags(cmd, opts)
			return c.runBuild(cmd.Context(), opts)
		},
	}
	addBuildFlags(cmd, &opts)
	return cmd
}

// imagesCommand is a shortcut for "build --images".
func (c *CLI) imagesCommand() *cobra.Command {
	var opts buildOpts
	cmd := &cobra.Command{
		Use:   "images",
		Short: "Render the neighbor figures of every dictionary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.images = true
			c.applyBuildFlags(cmd, opts)
			return c.runBuild(cmd.Context(), opts)
		},
	}
	addBuildFlags(cmd, &opts)
	return cmd
}

func addBuildFlags(cmd *cobra.Command, opts *buildOpts) {
	cmd.Flags().StringVar(&opts.webGenPath, "web-gen-path", "", "root of the generated site")
	cmd.Flags().StringVar(&opts.assetsPath, "web-file-assets-path", "", "directory holding snapshots, coverage and registry")
	cmd.Flags().StringSliceVarP(&opts.dictionaries, "dictionary", "d", nil, "limit the run to these dictionaries (repeatable)")
	cmd.Flags().BoolVar(&opts.testMode, "test-mode", false, "process only the first dictionary")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "dictionaries processed at once (default from config or CPU count)")
	cmd.Flags().BoolVar(&opts.purge, "purge", false, "remove each dictionary tree before writing it")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&opts.dotOnly, "dot-only", false, "write DOT files without rendering them")
}

// applyBuildFlags overrides configured settings with the flags the user set.
func (c *CLI) applyBuildFlags(cmd *cobra.Command, opts buildOpts) {
	flags := cmd.Flags()
	if flags.Changed("web-gen-path") {
		c.Config.Paths.WebGenPath = opts.webGenPath
	}
	if flags.Changed("web-file-assets-path") {
		c.Config.Paths.WebFileAssetsPath = opts.assetsPath
	}
	if flags.Changed("test-mode") {
		c.Config.Run.TestMode = opts.testMode
	}
	if flags.Changed("concurrency") {
		c.Config.Run.Concurrency = opts.concurrency
	}
}

// runBuild runs the selected stages and prints a summary.
func (c *CLI) runBuild(ctx context.Context, opts buildOpts) error {
	logger := loggerFromContext(ctx)
	if err := requireDir(c.Config.Paths.WebFileAssetsPath, "assets directory"); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache, opts.images && !opts.dotOnly)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	po := c.pipelineOptions()
	po.HTML, po.Figures = opts.html, opts.images
	po.Dictionaries = opts.dictionaries
	po.Purge = opts.purge
	po.Figure.DotOnly = opts.dotOnly

	prog := newProgress(logger)
	run, err := runner.Run(ctx, po)
	if err != nil && run == nil {
		printError("Build failed")
		return err
	}
	prog.done("run finished", "dictionaries", len(run.Dictionaries), "status", run.Status)

	printBuildResult(run)
	if err != nil {
		return err
	}
	if run.Status == store.StatusFailed {
		return errors.New(errors.ErrCodeInternal, "every dictionary failed")
	}
	printNextStep("Preview the site", appName+" serve")
	return nil
}

// printBuildResult prints the run summary and the failed dictionaries.
func printBuildResult(run *store.Run) {
	switch run.Status {
	case store.StatusSucceeded:
		printSuccess("Site written to %s", run.OutputPath)
	case store.StatusPartial:
		printWarning("Site written to %s with errors", run.OutputPath)
	default:
		printError("Site generation failed")
	}
	printRunStats(run)
	for _, d := range run.Dictionaries {
		if len(d.Errors) > 0 {
			printDetail("%s: %d errors, first: %s", d.Name, len(d.Errors), d.Errors[0])
		}
	}
	printKeyValue("Run", run.ID)
}

// defaultOptions is used by watch mode, which rebuilds both stages.
func (c *CLI) defaultOptions() pipeline.Options {
	po := c.pipelineOptions()
	po.HTML, po.Figures = true, true
	return po
}
