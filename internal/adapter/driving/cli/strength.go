package cli

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ericfisherdev/passenger/internal/domain/strength"
)

func strengthCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "strength <passphrase>",
		Short: "Score a passphrase without storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			score := strength.Score(args[0])
			rating := strength.RatingOf(score)

			fmt.Fprintf(out, "%d %s (%s, %s)\n",
				score, ratingColor(rating).Sprint(strength.Label(score)), rating, strength.Color(score))

			if verbose {
				criteria := strength.Evaluate(args[0])
				names := make([]string, 0, len(criteria))
				for name := range criteria {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					mark := color.New(color.FgRed).Sprint("✗")
					if criteria[name] != strength.IsPenalty(name) {
						mark = color.New(color.FgGreen).Sprint("✓")
					}
					fmt.Fprintf(out, "  %s %s\n", mark, name)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "V", false, "show every criterion")
	return cmd
}

func ratingColor(r strength.Rating) *color.Color {
	switch r {
	case strength.RatingStrong:
		return color.New(color.FgGreen, color.Bold)
	case strength.RatingMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}
