package main

import (
	"fmt"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/pantryops/aisleflow/internal/cli"
	"github.com/pantryops/aisleflow/internal/seed"
)

func storesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stores",
		Short: "Manage stores and their zone layouts",
	}

	cmd.AddCommand(storesListCmd())
	cmd.AddCommand(storesShowCmd())
	cmd.AddCommand(storesSeedCmd())

	return cmd
}

func storesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured store layouts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			layouts, err := store.ListLayouts(ctx)
			if err != nil {
				return fmt.Errorf("failed to list layouts: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(layouts) == 0 {
				fmt.Fprintln(out, cli.SubtleStyle.Render("No store layouts configured."))
				return nil
			}

			fmt.Fprintln(out, cli.FormatTitle("Configured stores"))
			for _, lay := range layouts {
				label := lay.StoreName
				if lay.PostalCode != "" {
					label += " (" + lay.PostalCode + ")"
				}
				fmt.Fprintf(out, "%s %s\n",
					cli.BoldStyle.Render(label),
					cli.SubtleStyle.Render(fmt.Sprintf("%d zones", len(lay.Zones))))
			}
			return nil
		},
	}
}

func storesShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a store's zone layout in walk order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			zip, _ := cmd.Flags().GetString("zip")

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			lay, err := store.GetLayout(ctx, args[0], zip)
			if err != nil {
				return fmt.Errorf("failed to load layout: %w", err)
			}
			if lay == nil {
				return fmt.Errorf("no layout configured for store %q", args[0])
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle(lay.StoreName))
			for i, zone := range lay.Zones {
				cats := make([]string, 0, len(zone.Categories))
				for _, c := range zone.Categories {
					cats = append(cats, string(c))
				}
				fmt.Fprintf(out, "%2d. %s %s\n",
					i+1,
					cli.ZoneStyle.Render(zone.Name),
					cli.SubtleStyle.Render(strings.Join(cats, ", ")))
			}
			return nil
		},
	}

	cmd.Flags().String("zip", "", "5-digit ZIP code of the store location")

	return cmd
}

func storesSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Load store layouts from a seed file",
		Long: `Load store layouts from a YAML seed file and register every store,
location and zone it describes. Existing layouts for the same
store+ZIP are replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := seed.Load(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			bar := progressbar.NewOptions(len(f.Stores),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Seeding store layouts..."),
			)

			for _, seedStore := range f.Stores {
				record, lay, err := seedStore.Model()
				if err != nil {
					return err
				}
				if err := store.SaveLayout(ctx, record, lay); err != nil {
					return fmt.Errorf("failed to save layout for %q: %w", record.Name, err)
				}
				_ = bar.Add(1)
			}
			_ = bar.Finish()

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
				fmt.Sprintf("Seeded %d store layout(s)", len(f.Stores))))
			return nil
		},
	}
}
