package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kirillkom/resume-classifier/internal/bootstrap"
	"github.com/kirillkom/resume-classifier/internal/config"
	"github.com/kirillkom/resume-classifier/internal/core/domain"
	"github.com/kirillkom/resume-classifier/internal/observability/logging"
)

const (
	// exitExtraction also covers any other per-document failure.
	exitExtraction = 1
	exitUsage      = 2
	exitBundle     = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("classify", flag.ContinueOnError)
	flags.SetOutput(stderr)
	showText := flags.Bool("text", false, "print the extracted text after the category")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "usage: classify [-text] <file>")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return exitUsage
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return exitUsage
	}
	path := flags.Arg(0)

	dotEnvErr := config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitUsage
	}
	logger := logging.NewJSONLoggerTo(stderr, "resume-cli", cfg.LogLevel)
	if dotEnvErr != nil {
		logger.Warn("dotenv_load_failed", "error", dotEnvErr)
	}

	ctx := context.Background()
	app, err := bootstrap.New(ctx, cfg, nil, logger)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return exitBundle
	}

	file, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return exitExtraction
	}
	defer file.Close()

	prediction, err := app.Classifier.Submit(ctx, domain.Upload{
		Filename: filepath.Base(path),
		Body:     file,
	}, *showText)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return exitExtraction
	}

	fmt.Fprintln(stdout, prediction.Category)
	if *showText {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, prediction.Text)
	}
	return 0
}
