package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/kerbaras/threadgrab/pkg/app"
	"github.com/kerbaras/threadgrab/pkg/config"
	"github.com/kerbaras/threadgrab/pkg/data"
	"github.com/kerbaras/threadgrab/pkg/services"
	"github.com/kerbaras/threadgrab/pkg/sources"
	"github.com/kerbaras/threadgrab/pkg/utils"
	"github.com/spf13/cobra"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "threadgrab [flags] URL",
		Short:         "Download every file linked from a thread page",
		Long:          "Fetch a page, collect the files listed on it and download them all in parallel",
		Args:          requireURL,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], stdout)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &data.UsageError{Msg: err.Error()}
	})

	flags := rootCmd.Flags()
	flags.StringP("directory", "d", ".", "download directory")
	flags.String("config", "", "config file (default ./threadgrab.yaml)")
	flags.IntP("workers", "w", 0, "parallel downloads (default: number of CPUs)")
	flags.Duration("timeout", 0, "per-request timeout, 0 for none")
	flags.String("user-agent", "", "User-Agent header sent with every request")
	flags.String("selector", "", "CSS selector of the file anchors (default \""+sources.DefaultSelector+"\")")
	flags.Bool("skip-invalid", false, "skip anchors without an href or name instead of aborting")
	flags.Bool("progress", false, "show a live progress view")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	return rootCmd
}

func requireURL(cmd *cobra.Command, args []string) error {
	switch {
	case len(args) == 0:
		return &data.UsageError{Msg: "must supply URL"}
	case len(args) > 1:
		return &data.UsageError{Msg: fmt.Sprintf("expected one URL, got %d arguments", len(args))}
	}
	return nil
}

func run(cmd *cobra.Command, rootURL string, stdout io.Writer) error {
	configFile, _ := cmd.Flags().GetString("config")
	outputDir, _ := cmd.Flags().GetString("directory")

	cfg, err := config.Load(cmd.Flags(), configFile)
	if err != nil {
		return err
	}

	logger := log.FromContext(cmd.Context())
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return &data.UsageError{Msg: fmt.Sprintf("invalid log level %q", cfg.LogLevel)}
	}
	logger.SetLevel(level)
	if cfg.Progress {
		logger.SetLevel(max(level, log.ErrorLevel))
	}
	ctx := cmd.Context()

	client := utils.NewClient(cfg.UserAgent, cfg.Timeout)
	source := sources.NewFileListing(client, sources.Extractor{
		Selector:    cfg.Selector,
		SkipInvalid: cfg.SkipInvalid,
	})
	downloader := services.NewDownloader(client, cfg.Workers)
	scraper := services.NewScraper(source, downloader)

	if !cfg.Progress {
		defer downloader.Close()
		_, err := scraper.Run(ctx, rootURL, outputDir)
		return err
	}

	updates := downloader.GetProgressChannel()
	ui := app.NewApp(ctx, updates, stdout)
	uiDone := make(chan error, 1)
	go func() {
		uiDone <- ui.Run()
		// Keep the downloader unblocked if the view stops early.
		for range updates {
		}
	}()

	report, err := scraper.Run(ctx, rootURL, outputDir)
	downloader.Close()
	if uiErr := <-uiDone; uiErr != nil {
		logger.Debug("Progress view stopped", "error", uiErr)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, renderSummary(report))
	return nil
}

// Execute runs the command line and returns the process exit status.
func Execute(ctx context.Context) int {
	return execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	logger := log.NewWithOptions(stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "threadgrab",
	})
	ctx = log.WithContext(ctx, logger)

	rootCmd := newRootCmd(stdout, stderr)
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var usageErr *data.UsageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(stderr, "Error: %s\n%s", usageErr.Msg, rootCmd.UsageString())
			return 2
		}
		logger.Error("Error: " + err.Error())
		return 1
	}
	return 0
}
