package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFiltersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "List the registered filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			st := newStyles(w)
			for _, name := range a.engine.Filters() {
				derived := ""
				if chain, ok := a.cfg.Filters[name]; ok {
					derived = " " + st.muted.Render("= "+chain)
				}
				if _, err := fmt.Fprintln(w, st.name.Render(name)+derived); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
