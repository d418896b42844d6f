package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/omnisearch"
	"github.com/poiesic/omnisearch/core"
	"github.com/poiesic/omnisearch/search"
	"github.com/urfave/cli/v2"
)

const replHelp = `Type a query to run a combined search.
  :history    show recent queries
  :status     check providers
  :providers  list providers
  :clear      clear the result cache
  :quit       exit`

func searchCommand(c *cli.Context) error {
	query, err := queryArg(c)
	if err != nil {
		return err
	}
	engine, err := newEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	names := parseProviders(c.String("providers"))
	results, err := engine.Orchestrator().SearchWithMonitor(c.Context, query, names, c.Int("max"), monitorFor(c))
	if err != nil {
		return err
	}

	w := c.App.Writer
	if c.Bool("json") {
		return writeJSON(w, results)
	}
	if len(names) == 0 {
		names = engine.Providers()
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		fmt.Fprintf(w, "== %s (%d)\n", name, len(results[name]))
		printResults(w, results[name])
	}
	return nil
}

func combinedCommand(c *cli.Context) error {
	query, err := queryArg(c)
	if err != nil {
		return err
	}
	engine, err := newEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	names := parseProviders(c.String("providers"))
	results, err := engine.Orchestrator().CombiFetchWithMonitor(c.Context, query, names, c.Int("max"), monitorFor(c))
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return writeJSON(c.App.Writer, results)
	}
	printResults(c.App.Writer, results)
	return nil
}

func folderCommand(c *cli.Context) error {
	query, err := queryArg(c)
	if err != nil {
		return err
	}
	engine, err := newEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	results, err := engine.FolderFetch(c.Context, query, c.String("dir"), c.Int("max"))
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return writeJSON(c.App.Writer, results)
	}
	printResults(c.App.Writer, results)
	return nil
}

func statusCommand(c *cli.Context) error {
	engine, err := newEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	status := engine.Status(c.Context)
	if c.Bool("json") {
		return writeJSON(c.App.Writer, status)
	}
	printStatus(c.App.Writer, engine.Providers(), status)
	return nil
}

func providersCommand(c *cli.Context) error {
	engine, err := newEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	for _, name := range engine.Providers() {
		fmt.Fprintln(c.App.Writer, name)
	}
	return nil
}

func clearCacheCommand(c *cli.Context) error {
	engine, err := newEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.ClearCache(c.Context); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	fmt.Fprintln(c.App.Writer, "Cache cleared")
	return nil
}

func replCommand(c *cli.Context) error {
	engine, err := newEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	return runREPL(c, engine, parseProviders(c.String("providers")), c.Int("max"))
}

func runREPL(c *cli.Context, engine *omnisearch.Engine, names []string, maxResults int) error {
	w := c.App.Writer
	scanner := bufio.NewScanner(c.App.Reader)

	fmt.Fprintln(w, replHelp)
	for {
		fmt.Fprint(w, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(w)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case ":quit", ":q", ":exit":
			return nil
		case ":help":
			fmt.Fprintln(w, replHelp)
		case ":history":
			for _, h := range engine.History() {
				fmt.Fprintf(w, "%s  %-40q  %d results  [%s]\n",
					h.Timestamp.Local().Format("15:04:05"), h.Query, h.ResultCount, strings.Join(h.Providers, ","))
			}
		case ":status":
			printStatus(w, engine.Providers(), engine.Status(c.Context))
		case ":providers":
			fmt.Fprintln(w, strings.Join(engine.Providers(), ", "))
		case ":clear":
			if err := engine.ClearCache(c.Context); err != nil {
				fmt.Fprintf(w, "error: %v\n", err)
				continue
			}
			fmt.Fprintln(w, "Cache cleared")
		default:
			if strings.HasPrefix(line, ":") {
				fmt.Fprintf(w, "unknown command %s (try :help)\n", line)
				continue
			}
			results, err := engine.CombiFetch(c.Context, line, names, maxResults)
			if err != nil {
				fmt.Fprintf(w, "error: %v\n", err)
				continue
			}
			printResults(w, results)
		}
	}
}

func queryArg(c *cli.Context) (string, error) {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return "", fmt.Errorf("a query is required: %w", core.ErrEmptyQuery)
	}
	return query, nil
}

// parseProviders splits a comma-separated list, dropping blanks.
func parseProviders(list string) []string {
	var names []string
	for _, name := range strings.Split(list, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

func monitorFor(c *cli.Context) search.SearchMonitor {
	if !c.Bool("trace") {
		return nil
	}
	return newTraceMonitor(c.App.ErrWriter)
}

func printResults(w io.Writer, results []core.SearchResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results")
		return
	}
	for i, r := range results {
		fmt.Fprintf(w, "%2d. %s\n", i+1, r.Title)
		fmt.Fprintf(w, "    %s\n", r.URL)
		fmt.Fprintf(w, "    [%s] score %.2f\n", r.Source, r.RelevanceScore)
		if snippet := strings.TrimSpace(r.Snippet); snippet != "" {
			fmt.Fprintf(w, "    %s\n", strings.Join(strings.Fields(snippet), " "))
		}
	}
}

func printStatus(w io.Writer, names []string, status map[string]bool) {
	for _, name := range names {
		state := "unavailable"
		if status[name] {
			state = "ok"
		}
		fmt.Fprintf(w, "%-14s %s\n", name, state)
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
