package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/passenger/internal/application"
	"github.com/ericfisherdev/passenger/internal/domain/model"
)

func constantCmd(app *App, g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "constant",
		Short: "Manage constants that identities reference as _$key",
	}
	cmd.AddCommand(
		declareCmd(app, g),
		modifyCmd(app, g),
		rememberCmd(app, g),
		forgetCmd(app, g),
		constantsListCmd(app, g),
	)
	return cmd
}

func declareCmd(app *App, g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "declare <key> <value>",
		Short: "Add a constant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withVault(cmd, app, g, true, func(v *application.Vault) error {
				pair := model.ConstantPair{Key: args[0], Value: args[1]}
				if err := v.DeclareConstant(cmd.Context(), pair); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "declared %s\n", pair.Reference())
				return nil
			})
		},
	}
}

func modifyCmd(app *App, g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "modify <key> <new-key> <value>",
		Short: "Replace a constant, optionally under a new key",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withVault(cmd, app, g, true, func(v *application.Vault) error {
				pair := model.ConstantPair{Key: args[1], Value: args[2]}
				if err := v.ModifyConstant(cmd.Context(), args[0], pair); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "modified %s\n", pair.Reference())
				return nil
			})
		},
	}
}

func rememberCmd(app *App, g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "remember <key>",
		Short: "Show one constant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withVault(cmd, app, g, true, func(v *application.Vault) error {
				pair, err := v.RememberConstant(args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), pair)
			})
		},
	}
}

func forgetCmd(app *App, g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "forget <key>",
		Short: "Remove a constant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withVault(cmd, app, g, true, func(v *application.Vault) error {
				if err := v.ForgetConstant(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "forgot %s\n", args[0])
				return nil
			})
		},
	}
}

func constantsListCmd(app *App, g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every constant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withVault(cmd, app, g, true, func(v *application.Vault) error {
				pairs, err := v.Constants()
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), pairs)
			})
		},
	}
}
