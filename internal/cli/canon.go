package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ratiochase/pkg/predicate"
	"github.com/matzehuels/ratiochase/pkg/quantity"
)

// canonOpts holds the flags of the canon command.
type canonOpts struct {
	pretty    bool
	decompose bool
	construct string
}

// canonCommand creates the canon command.
func (c *CLI) canonCommand() *cobra.Command {
	var opts canonOpts

	cmd := &cobra.Command{
		Use:   "canon <statement>",
		Short: "Print the canonical form of a statement",
		Long: `Print the canonical form of a statement.

The statement may be given as one quoted argument or as separate words:

  ratiochase canon eqratio b a d c f e h g
  ratiochase canon "rconst a b c d 2/3" --pretty

Equivalent statements print identically. --decompose prints the primitive
statements a compound predicate (eqratio3) stands for, and --construct
rewrites the statement with the given point first.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCanon(strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "print the AB:CD = EF:GH form")
	cmd.Flags().BoolVar(&opts.decompose, "decompose", false, "print the primitive statements")
	cmd.Flags().StringVar(&opts.construct, "construct", "", "rewrite with this point first")

	return cmd
}

func (c *CLI) runCanon(text string, opts canonOpts) error {
	s, err := predicate.Parse(text)
	if err != nil {
		return fmt.Errorf("canon %q: %w", text, err)
	}

	stmts := []predicate.Statement{s}
	if opts.decompose {
		if stmts, err = predicate.Decompose(s); err != nil {
			return err
		}
	}

	for _, st := range stmts {
		line := st.Key()
		if opts.pretty {
			line = st.Pretty()
		}
		if opts.construct != "" {
			rewritten, ok := predicate.Constructive(st, quantity.Point(opts.construct))
			if !ok {
				return fmt.Errorf("%s has no constructive form for point %s", st.Key(), opts.construct)
			}
			line = rewritten
		}
		fmt.Fprintln(c.Out, line)
	}
	return nil
}
