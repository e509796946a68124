package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/goliatone/go-relnotes/cmd/relnotes/internal/bootstrap"
	fragmentscmd "github.com/goliatone/go-relnotes/internal/commands/fragments"
	"github.com/goliatone/go-relnotes/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runNew(os.Args[1:]); err != nil {
		log.Fatalf("relnotes new: %v", err)
	}
}

func runNew(args []string) error {
	fs := flag.NewFlagSet("relnotes-new", flag.ExitOnError)
	fragmentsDir := fs.String("fragments-dir", "newsfragments", "Path to the fragment corpus root")
	issue := fs.String("issue", "", "Issue or PR number the fragment is named after (required)")
	category := fs.String("category", "", "Fragment category: significant, feature, improvement, bugfix, doc, misc (required)")
	body := fs.String("body", "", "Fragment body text (required)")
	author := fs.String("author", "", "Author recorded in the fragment front matter")
	prs := fs.String("prs", "", "Comma separated PR numbers recorded in the front matter")
	tags := fs.String("tags", "", "Comma separated tags recorded in the front matter")
	logLevel := fs.String("log-level", "info", "Log level for CLI output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	issueNumber, err := strconv.ParseInt(*issue, 10, 64)
	if err != nil || issueNumber < 1 {
		return fmt.Errorf("issue must be a positive number")
	}

	prNumbers, err := parsePRs(bootstrap.SplitList(*prs))
	if err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		FragmentsDir: *fragmentsDir,
		LogLevel:     *logLevel,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Module.Close()

	handler := fragmentscmd.NewCreateFragmentHandler(
		module.Module.Fragments(),
		module.Logger,
		fragmentscmd.FeatureGates{},
	)

	cmd := fragmentscmd.CreateFragmentCommand{
		Issue:    issueNumber,
		Category: interfaces.Category(*category),
		Body:     *body,
		Author:   *author,
		PRs:      prNumbers,
		Tags:     bootstrap.SplitList(*tags),
	}

	if err := handler.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute create command: %w", err)
	}

	ref := interfaces.Ref{Issue: issueNumber, Category: interfaces.Category(*category), Ext: "rst"}
	fmt.Fprintf(os.Stdout, "created %s\n", ref.FileName())
	return nil
}

func parsePRs(values []string) ([]int64, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make([]int64, 0, len(values))
	for _, value := range values {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("pr %q must be a positive number", value)
		}
		out = append(out, n)
	}
	return out, nil
}
