package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/goliatone/go-relnotes/cmd/relnotes/internal/bootstrap"
	"github.com/goliatone/go-relnotes/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runLookup(os.Args[1:]); err != nil {
		log.Fatalf("relnotes lookup: %v", err)
	}
}

func runLookup(args []string) error {
	fs := flag.NewFlagSet("relnotes-lookup", flag.ExitOnError)
	issue := fs.String("issue", "", "Issue or PR number to look up (required)")
	category := fs.String("category", "", "Category to narrow the lookup; empty returns every archived copy")
	archiveDSN := fs.String("archive-dsn", "file:relnotes.db", "Archive database DSN")
	archiveDriver := fs.String("archive-driver", "sqlite3", "Archive database driver: sqlite3 or postgres")
	logLevel := fs.String("log-level", "warn", "Log level for CLI output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	issueNumber, err := strconv.ParseInt(*issue, 10, 64)
	if err != nil || issueNumber < 1 {
		return fmt.Errorf("issue must be a positive number")
	}

	module, err := moduleBuilder(bootstrap.Options{
		FragmentsDir:   ".",
		ArchiveEnabled: true,
		ArchiveDriver:  *archiveDriver,
		ArchiveDSN:     *archiveDSN,
		LogLevel:       *logLevel,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Module.Close()

	ctx := context.Background()

	if *category != "" {
		fragment, err := module.Module.LookupFragment(ctx, issueNumber, interfaces.Category(*category))
		if err != nil {
			return err
		}
		printFragment(fragment)
		return nil
	}

	fragments, err := module.Module.Archive().LookupByIssue(ctx, issueNumber)
	if err != nil {
		return err
	}
	if len(fragments) == 0 {
		return fmt.Errorf("no archived fragments for issue %d", issueNumber)
	}
	for _, fragment := range fragments {
		printFragment(fragment)
	}
	return nil
}

func printFragment(fragment *interfaces.ArchivedFragment) {
	fmt.Fprintf(os.Stdout, "# %d.%s (release %s)\n", fragment.Issue, fragment.Category, fragment.Release)
	os.Stdout.Write(fragment.Body)
	if len(fragment.Body) > 0 && fragment.Body[len(fragment.Body)-1] != '\n' {
		fmt.Fprintln(os.Stdout)
	}
}
