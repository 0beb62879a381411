package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/passenger/internal/application"
	"github.com/ericfisherdev/passenger/internal/domain/model"
)

func registerCmd(app *App, g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Claim the vault with a master passphrase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withVault(cmd, app, g, false, func(v *application.Vault) error {
				if err := v.Register(cmd.Context(), g.owner, g.masterPassphrase()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "registered vault for %s\n", g.owner)
				return nil
			})
		},
	}
}

func resetCmd(app *App, g *globals) *cobra.Command {
	var next string
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Replace the master passphrase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withVault(cmd, app, g, false, func(v *application.Vault) error {
				if err := v.ResetMasterPassphrase(cmd.Context(), g.masterPassphrase(), next); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "master passphrase reset")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&next, "new", "", "new master passphrase")
	return cmd
}

// entryFlags binds the EntryInput fields to flags on cmd.
func entryFlags(cmd *cobra.Command, in *model.EntryInput) {
	cmd.Flags().StringVarP(&in.Platform, "platform", "p", "", "platform name")
	cmd.Flags().StringVarP(&in.URL, "url", "u", "", "platform url")
	cmd.Flags().StringVarP(&in.Identity, "identity", "i", "", "identity, or _$key to reference a constant")
	cmd.Flags().StringVarP(&in.Notes, "notes", "n", "", "free-form notes")
	cmd.Flags().StringVarP(&in.Passphrase, "passphrase", "s", "", "passphrase")
}

func createCmd(app *App, g *globals) *cobra.Command {
	var in model.EntryInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Store a new entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withVault(cmd, app, g, true, func(v *application.Vault) error {
				entry, err := v.Create(cmd.Context(), in)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), entry)
			})
		},
	}
	entryFlags(cmd, &in)
	return cmd
}

func listCmd(app *App, g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withVault(cmd, app, g, true, func(v *application.Vault) error {
				entries, err := v.FetchAll(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), entries)
			})
		},
	}
}

func queryCmd(app *App, g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "query <keyword>",
		Short: "List entries whose platform, url or identity contains keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withVault(cmd, app, g, true, func(v *application.Vault) error {
				entries, err := v.Query(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), entries)
			})
		},
	}
}

func fetchCmd(app *App, g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <id>",
		Short: "Show one entry with its passphrase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withVault(cmd, app, g, true, func(v *application.Vault) error {
				entry, err := v.FetchOne(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), entry)
			})
		},
	}
}

func updateCmd(app *App, g *globals) *cobra.Command {
	var (
		in       model.EntryInput
		preserve bool
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace the fields of an entry",
		Long: "Replace the fields of an entry. Flags that are not given keep the\n" +
			"entry's current value; a changed passphrase is added to its history.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withVault(cmd, app, g, true, func(v *application.Vault) error {
				current, err := currentInput(cmd.Context(), v, args[0])
				if err != nil {
					return err
				}
				merged := mergeInput(cmd, current, in)
				entry, err := v.Update(cmd.Context(), args[0], merged, preserve)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), entry)
			})
		},
	}
	entryFlags(cmd, &in)
	cmd.Flags().BoolVar(&preserve, "preserve-updated", false, "keep the entry's updatedAt timestamp")
	return cmd
}

// currentInput returns the stored fields of id as an EntryInput, with the
// identity unresolved.
func currentInput(ctx context.Context, v *application.Vault, id string) (model.EntryInput, error) {
	entries, err := v.Export(ctx)
	if err != nil {
		return model.EntryInput{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return model.EntryInput{
				Platform:   e.Platform,
				URL:        e.URL,
				Identity:   e.Identity,
				Notes:      e.Notes,
				Passphrase: e.Passphrase(),
			}, nil
		}
	}
	return model.EntryInput{}, model.NewErrorf(model.KindNotFound, "no entry with id %q", id)
}

func mergeInput(cmd *cobra.Command, current, given model.EntryInput) model.EntryInput {
	flags := cmd.Flags()
	if flags.Changed("platform") {
		current.Platform = given.Platform
	}
	if flags.Changed("url") {
		current.URL = given.URL
	}
	if flags.Changed("identity") {
		current.Identity = given.Identity
	}
	if flags.Changed("notes") {
		current.Notes = given.Notes
	}
	if flags.Changed("passphrase") {
		current.Passphrase = given.Passphrase
	}
	return current
}

func deleteCmd(app *App, g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withVault(cmd, app, g, true, func(v *application.Vault) error {
				if err := v.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func exportCmd(app *App, g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print every stored entry, history included, as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withVault(cmd, app, g, true, func(v *application.Vault) error {
				entries, err := v.Export(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), entries)
			})
		},
	}
}
