package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/coursemark/coursemark/internal/assess"
	"github.com/coursemark/coursemark/internal/config"
	"github.com/coursemark/coursemark/internal/history"
	"github.com/coursemark/coursemark/internal/render"
	"github.com/coursemark/coursemark/internal/source"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "coursemark"})

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "graph":
		err = runGraph(os.Args[2:])
	case "assess":
		err = runAssess(os.Args[2:])
	case "tags-at":
		err = runTagsAt(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Fatal("command failed", "err", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: coursemark <command> [flags]

commands:
  graph     reconstruct branch paths and write a Graphviz DOT document
  assess    evaluate a marking scheme and print the report as JSON
  tags-at   list the tags that existed at a past date`)
}

// sourceFlags are shared by every command.
type sourceFlags struct {
	kind   *string
	path   *string
	branch *string
}

func addSourceFlags(fs *flag.FlagSet) sourceFlags {
	return sourceFlags{
		kind:   fs.String("source", config.SourceLocal, "history source kind: local or static"),
		path:   fs.String("path", ".", "repository path or snapshot file"),
		branch: fs.String("branch", "master", "default branch"),
	}
}

func (f sourceFlags) open() (source.Source, error) {
	return source.New(config.Source{Kind: *f.kind, Path: *f.path, Branch: *f.branch})
}

func runGraph(args []string) error {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	sf := addSourceFlags(fs)
	since := fs.String("since", "", "window start (RFC 3339)")
	until := fs.String("until", "", "window end (RFC 3339)")
	out := fs.String("out", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	window := source.Window{Branch: *sf.branch}
	var err error
	if window.Since, err = parseDate(*since); err != nil {
		return err
	}
	if window.Until, err = parseDate(*until); err != nil {
		return err
	}

	src, err := sf.open()
	if err != nil {
		return err
	}
	snap, err := source.Take(context.Background(), src, window)
	if err != nil {
		return err
	}

	g := history.GraphFromCommits(snap.Commits)
	paths := history.ReconstructPaths(g, snap.Refs())
	logger.Info("history reconstructed", "commits", g.Len(), "paths", len(paths))

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return render.DOT(w, paths, snap.Refs(), g)
}

func runAssess(args []string) error {
	fs := flag.NewFlagSet("assess", flag.ExitOnError)
	sf := addSourceFlags(fs)
	schemeDir := fs.String("schemes", "schemes", "directory holding marking schemes")
	schemeID := fs.String("scheme", "", "scheme id to evaluate")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *schemeID == "" {
		return fmt.Errorf("-scheme is required")
	}

	src, err := sf.open()
	if err != nil {
		return err
	}
	engine := assess.NewEngine(assess.NewLoader(*schemeDir), src, logger)
	report, err := engine.Evaluate(context.Background(), *schemeID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}
	if !report.Success {
		os.Exit(1)
	}
	return nil
}

func runTagsAt(args []string) error {
	fs := flag.NewFlagSet("tags-at", flag.ExitOnError)
	sf := addSourceFlags(fs)
	date := fs.String("date", "", "date to reconstruct tags for (RFC 3339)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *date == "" {
		return fmt.Errorf("-date is required")
	}
	at, err := parseDate(*date)
	if err != nil {
		return err
	}

	src, err := sf.open()
	if err != nil {
		return err
	}
	ctx := context.Background()
	tags, err := src.Tags(ctx)
	if err != nil {
		return err
	}
	events, err := src.Events(ctx)
	if err != nil {
		return err
	}

	for _, tag := range history.TagsAtDate(at, tags, events) {
		fmt.Printf("%s\t%s\n", tag.Name, tag.CommitID)
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}
