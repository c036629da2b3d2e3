package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/tmplkit/interpolate/filterspec"
)

var errNoPlaceholders = errors.New("no placeholders found")

type problem struct {
	match string
	msg   string
}

func newCheckCmd(a *app) *cobra.Command {
	opts := inputOptions{}
	cmd := &cobra.Command{
		Use:   "check [TEMPLATE]",
		Short: "Verify that a template has placeholders and that they parse",
		Long: "Verify that a template has placeholders, that every expression parses\n" +
			"and that every filter it uses is registered. Exits non-zero otherwise.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, err := opts.template(cmd, args)
			if err != nil {
				return err
			}
			if !a.engine.Has(tmpl) {
				return errNoPlaceholders
			}

			problems := a.lint(tmpl)
			w := cmd.OutOrStdout()
			st := newStyles(w)
			for _, p := range problems {
				fmt.Fprintf(w, "%s %s %s\n", st.err.Render("x"), p.match, st.muted.Render(p.msg))
			}
			if len(problems) > 0 {
				return fmt.Errorf("%d problem(s) found", len(problems))
			}
			n := len(a.engine.Matches(tmpl))
			_, err = fmt.Fprintf(w, "%s %d placeholder(s)\n", st.ok.Render("ok"), n)
			return err
		},
	}
	opts.register(cmd, false)
	return cmd
}

// lint reports expressions that do not parse and filters that are not
// registered, one problem per placeholder.
func (a *app) lint(tmpl string) []problem {
	registered := a.engine.Filters()
	var problems []problem
	a.engine.Each(tmpl, func(match, _, chain string, _ int) {
		if _, err := a.engine.Props(match); err != nil {
			problems = append(problems, problem{match: match, msg: err.Error()})
			return
		}
		specs, err := filterspec.Parse(chain)
		if err != nil {
			problems = append(problems, problem{match: match, msg: err.Error()})
			return
		}
		for _, s := range specs {
			if !slices.Contains(registered, s.Name) {
				problems = append(problems, problem{match: match, msg: fmt.Sprintf("missing filter named %q", s.Name)})
				return
			}
		}
	})
	return problems
}
