package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pantryops/aisleflow/internal/cli"
	"github.com/pantryops/aisleflow/internal/engine"
	"github.com/pantryops/aisleflow/internal/layout"
	"github.com/pantryops/aisleflow/internal/metrics"
	"github.com/pantryops/aisleflow/internal/rules"
	"github.com/pantryops/aisleflow/internal/service"
)

func organizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "organize [items...]",
		Short: "Order a shopping list by store zone",
		Long: `Classify each item on a shopping list and group the list by store zone,
in the order you walk the store.

Items come from the command line or from a file (one item per line).
Without a configured store layout the built-in generic layout is used.`,
		Example: `  aisleflow organize milk bananas "ice cream"
  aisleflow organize --store Wegmans --zip 07054 --list groceries.txt
  aisleflow organize --json milk bananas`,
		RunE: runOrganize,
	}

	cmd.Flags().String("store", "", "store name to resolve the layout for")
	cmd.Flags().String("zip", "", "5-digit ZIP code of the store location")
	cmd.Flags().String("list", "", "file with one item per line")
	cmd.Flags().Bool("json", false, "emit JSON instead of styled output")

	return cmd
}

func runOrganize(cmd *cobra.Command, args []string) error {
	storeName, _ := cmd.Flags().GetString("store")
	zip, _ := cmd.Flags().GetString("zip")
	listPath, _ := cmd.Flags().GetString("list")
	asJSON, _ := cmd.Flags().GetBool("json")

	items := append([]string{}, args...)
	if listPath != "" {
		fromFile, err := readItemList(listPath)
		if err != nil {
			return err
		}
		items = append(items, fromFile...)
	}
	if len(items) == 0 {
		return fmt.Errorf("no items given: pass items as arguments or via --list")
	}

	ctx := cmd.Context()

	// The database is optional for organizing; without it there is no
	// cache and no configured layouts, but classification still works.
	var store service.Storage
	if s, err := initStorage(ctx); err != nil {
		slog.Warn("running without database", "error", err)
	} else {
		store = s
		defer func() { _ = store.Close() }()
	}

	rc, err := rules.NewClassifier(rules.DefaultRules())
	if err != nil {
		return fmt.Errorf("failed to compile rules: %w", err)
	}

	var source service.LayoutSource
	if store != nil {
		source = store
	}
	lay := layout.NewResolver(source, slog.Default()).Resolve(ctx, storeName, zip)

	met := metrics.New()
	cfg := engine.Config{
		Fallback: newFallback(met),
		Metrics:  met,
		Logger:   slog.Default(),
	}
	if store != nil {
		cfg.Cache = store
	}

	groups, err := engine.New(rc, cfg).Organize(ctx, lay, items)
	if err != nil {
		return fmt.Errorf("organize failed: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(groups)
	}

	out := cmd.OutOrStdout()
	title := "Shopping list"
	if lay.StoreName != "" {
		title = "Shopping list for " + lay.StoreName
		if lay.PostalCode != "" {
			title += " (" + lay.PostalCode + ")"
		}
	}
	fmt.Fprintln(out, cli.FormatTitle(title))
	for _, group := range groups {
		fmt.Fprintln(out, cli.ZoneStyle.Render(group.Zone))
		for _, item := range group.Items {
			fmt.Fprintf(out, "  • %s\n", item)
		}
	}

	return nil
}

// readItemList reads one item per line, skipping blanks and # comments.
func readItemList(path string) ([]string, error) {
	f, err := os.Open(path) // #nosec G304 -- operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("failed to open item list: %w", err)
	}
	defer func() { _ = f.Close() }()

	var items []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		items = append(items, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read item list: %w", err)
	}

	return items, nil
}
