package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-relnotes/cmd/relnotes/internal/bootstrap"
	fragmentscmd "github.com/goliatone/go-relnotes/internal/commands/fragments"
	"github.com/goliatone/go-relnotes/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runCheck(os.Args[1:]); err != nil {
		log.Fatalf("relnotes check: %v", err)
	}
}

func runCheck(args []string) error {
	fs := flag.NewFlagSet("relnotes-check", flag.ExitOnError)
	fragmentsDir := fs.String("fragments-dir", "newsfragments", "Path to the fragment corpus root")
	pattern := fs.String("pattern", "", "Glob pattern applied when discovering fragment files")
	recursive := fs.Bool("recursive", false, "Descend into subdirectories of the corpus")
	directory := fs.String("directory", ".", "Directory to lint, relative to the corpus root")
	logLevel := fs.String("log-level", "info", "Log level for CLI output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		FragmentsDir: *fragmentsDir,
		Pattern:      *pattern,
		Recursive:    *recursive,
		LogLevel:     *logLevel,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Module.Close()

	var report *interfaces.LintReport
	handler := fragmentscmd.NewLintDirectoryHandler(
		module.Module.Fragments(),
		module.Logger,
		fragmentscmd.FeatureGates{},
		func(r *interfaces.LintReport) { report = r },
	)

	cmd := fragmentscmd.LintDirectoryCommand{
		Directory: *directory,
		Pattern:   *pattern,
		Strict:    true,
	}

	execErr := handler.Execute(context.Background(), cmd)
	if report != nil {
		for _, finding := range report.Findings {
			fmt.Fprintf(os.Stderr, "%s: %s: %v\n", finding.Path, finding.Code, finding.Err)
		}
		fmt.Fprintf(os.Stdout, "checked %d fragment(s), %d finding(s)\n", report.Checked, len(report.Findings))
	}
	if execErr != nil {
		return execErr
	}
	return nil
}
