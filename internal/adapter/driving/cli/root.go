// Package cli exposes the vault as cobra commands. Every command except
// register and strength authorizes with the owner's master passphrase, taken
// from --master or PASSENGER_MASTER.
package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/passenger/internal/application"
	"github.com/ericfisherdev/passenger/internal/domain/model"
)

// MasterEnv is consulted when --master is not given.
const MasterEnv = "PASSENGER_MASTER"

// Opener opens the vault for owner. The caller closes it.
type Opener func(ctx context.Context, owner string) (*application.Vault, error)

// App carries what the commands need from the composition root.
type App struct {
	Open  Opener
	Owner string
}

type globals struct {
	owner  string
	master string
}

// NewRootCmd builds the passenger command tree.
func NewRootCmd(app *App, version string) *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:           "passenger",
		Short:         "Encrypted single-owner credential vault",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.owner, "owner", app.Owner, "vault owner (default $PASSENGER_OWNER)")
	root.PersistentFlags().StringVar(&g.master, "master", "", "master passphrase (default $"+MasterEnv+")")

	root.AddCommand(registerCmd(app, g))
	root.AddCommand(resetCmd(app, g))
	root.AddCommand(createCmd(app, g))
	root.AddCommand(listCmd(app, g))
	root.AddCommand(queryCmd(app, g))
	root.AddCommand(fetchCmd(app, g))
	root.AddCommand(updateCmd(app, g))
	root.AddCommand(deleteCmd(app, g))
	root.AddCommand(exportCmd(app, g))
	root.AddCommand(constantCmd(app, g))
	root.AddCommand(strengthCmd())

	return root
}

func (g *globals) masterPassphrase() string {
	if g.master != "" {
		return g.master
	}
	return os.Getenv(MasterEnv)
}

// withVault opens the vault, runs fn, and closes it. When authorize is set
// the master passphrase must match before fn runs.
func withVault(cmd *cobra.Command, app *App, g *globals, authorize bool, fn func(v *application.Vault) error) (err error) {
	if g.owner == "" {
		return model.MissingField("owner")
	}

	v, err := app.Open(cmd.Context(), g.owner)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := v.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if authorize {
		if err := v.Authenticate(g.owner, g.masterPassphrase()); err != nil {
			return err
		}
	}
	return fn(v)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ExitCode maps an error from a command to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch model.KindOf(err) {
	case model.KindValidation:
		return 2
	case model.KindAuthorization:
		return 3
	case model.KindNotFound:
		return 4
	case model.KindConflict:
		return 5
	case model.KindBreached:
		return 6
	case model.KindIntegrity, model.KindDeserialization:
		return 7
	case model.KindConfiguration:
		return 78
	default:
		return 1
	}
}
