package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/pantryops/aisleflow/internal/cli"
	"github.com/pantryops/aisleflow/internal/model"
	"github.com/pantryops/aisleflow/internal/normalize"
	"github.com/pantryops/aisleflow/internal/seed"
)

func itemsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Inspect and correct the item cache",
	}

	cmd.AddCommand(itemsShowCmd())
	cmd.AddCommand(itemsOverrideCmd())
	cmd.AddCommand(itemsImportCmd())

	return cmd
}

func itemsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <item>",
		Short: "Show the cached classification for an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			key := normalize.Normalize(args[0])
			entry, err := store.GetCachedItem(ctx, key)
			if err != nil {
				return fmt.Errorf("failed to look up item: %w", err)
			}

			out := cmd.OutOrStdout()
			if entry == nil {
				fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("No cached classification for %q.", key)))
				return nil
			}

			fmt.Fprintf(out, "%s %s %s\n",
				cli.BoldStyle.Render(entry.NormalizedName),
				string(entry.Category),
				cli.SubtleStyle.Render("("+string(entry.Source)+")"))
			return nil
		},
	}
}

func itemsOverrideCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "override <item> <category>",
		Short: "Pin an item to a category",
		Long: `Pin an item to a category. Overrides always win: the classification
pipeline will serve the pinned category and never overwrite it.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")

			category, err := model.ParseCategory(args[1])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			key := normalize.Normalize(args[0])
			if name == "" {
				name = normalize.Prettify(key)
			}
			if err := store.OverrideItem(ctx, key, category, name); err != nil {
				return fmt.Errorf("failed to save override: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
				fmt.Sprintf("%q pinned to %s", key, category)))
			return nil
		},
	}

	cmd.Flags().String("name", "", "display name to store (default: prettified item)")

	return cmd
}

func itemsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Backfill the item cache from a CSV export",
		Long: `Backfill the item cache from a CSV file with item, category,
normalized_name and optional source columns. Rows marked manual are
stored as overrides; manually pinned items already in the cache are
never replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := seed.LoadItemsCSV(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			bar := progressbar.NewOptions(len(entries),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Importing item cache..."),
			)

			for _, entry := range entries {
				if entry.Source == model.SourceManual {
					err = store.OverrideItem(ctx, entry.Key, entry.Category, entry.NormalizedName)
				} else {
					err = store.CacheItem(ctx, entry.Key, model.Classification{
						Item:           entry.Key,
						NormalizedName: entry.NormalizedName,
						Category:       entry.Category,
						Source:         entry.Source,
					})
				}
				if err != nil {
					return fmt.Errorf("failed to import %q: %w", entry.Key, err)
				}
				_ = bar.Add(1)
			}
			_ = bar.Finish()

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
				fmt.Sprintf("Imported %d item(s)", len(entries))))
			return nil
		},
	}
}
