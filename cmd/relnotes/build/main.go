package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/goliatone/go-relnotes/cmd/relnotes/internal/bootstrap"
	changelogcmd "github.com/goliatone/go-relnotes/internal/commands/changelog"
	"github.com/goliatone/go-relnotes/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runBuild(os.Args[1:]); err != nil {
		log.Fatalf("relnotes build: %v", err)
	}
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("relnotes-build", flag.ExitOnError)
	fragmentsDir := fs.String("fragments-dir", "newsfragments", "Path to the fragment corpus root")
	directory := fs.String("directory", ".", "Directory to consume, relative to the corpus root")
	version := fs.String("version", "", "Release version the notes describe (required)")
	date := fs.String("date", "", "Release date as YYYY-MM-DD (defaults to today)")
	format := fs.String("format", "rst", "Output format: rst or markdown")
	output := fs.String("output", "", "File the rendered notes are written to (defaults to stdout)")
	tracker := fs.String("tracker-url", "", "Tracker base URL used for issue and PR links")
	dryRun := fs.Bool("dry-run", false, "Render without writing, archiving, or pruning")
	archiveFlag := fs.Bool("archive", false, "Store the release and its fragments in the archive")
	prune := fs.Bool("prune", false, "Delete consumed fragment files after archiving")
	archiveDSN := fs.String("archive-dsn", "file:relnotes.db", "Archive database DSN")
	archiveDriver := fs.String("archive-driver", "sqlite3", "Archive database driver: sqlite3 or postgres")
	logLevel := fs.String("log-level", "info", "Log level for CLI output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *version == "" {
		return fmt.Errorf("version is required")
	}

	var releaseDate time.Time
	if *date != "" {
		parsed, err := time.Parse("2006-01-02", *date)
		if err != nil {
			return fmt.Errorf("parse date: %w", err)
		}
		releaseDate = parsed
	}

	module, err := moduleBuilder(bootstrap.Options{
		FragmentsDir:   *fragmentsDir,
		Format:         *format,
		TrackerBaseURL: *tracker,
		ArchiveEnabled: *archiveFlag,
		ArchiveDriver:  *archiveDriver,
		ArchiveDSN:     *archiveDSN,
		LogLevel:       *logLevel,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Module.Close()

	var rendered []byte
	handler := changelogcmd.NewBuildReleaseHandler(
		module.Module.Fragments(),
		module.Module.Changelog(),
		module.Module.Archive(),
		*fragmentsDir,
		module.Logger,
		changelogcmd.FeatureGates{},
		func(_ *interfaces.ReleaseNotes, doc []byte) { rendered = doc },
	)

	cmd := changelogcmd.BuildReleaseCommand{
		Version:   *version,
		Directory: *directory,
		Format:    interfaces.Format(*format),
		Date:      releaseDate,
		Output:    *output,
		DryRun:    *dryRun,
		Archive:   *archiveFlag,
		Prune:     *prune,
	}

	if err := handler.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute build command: %w", err)
	}

	if *output == "" && rendered != nil {
		os.Stdout.Write(rendered)
	}
	return nil
}
