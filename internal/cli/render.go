package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tmplkit/interpolate/internal/watch"
)

type renderOptions struct {
	input inputOptions
	watch bool
}

func newRenderCmd(a *app) *cobra.Command {
	opts := renderOptions{}
	cmd := &cobra.Command{
		Use:   "render [TEMPLATE]",
		Short: "Replace every placeholder and print the result",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.watch {
				return a.render(cmd, args, opts.input)
			}
			return a.renderWatch(cmd, args, opts)
		},
	}
	opts.input.register(cmd, true)
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render when the template, data or config file changes")
	return cmd
}

func (a *app) render(cmd *cobra.Command, args []string, in inputOptions) error {
	tmpl, err := in.template(cmd, args)
	if err != nil {
		return err
	}
	data, opts, err := in.data()
	if err != nil {
		return err
	}
	out, err := a.engine.Replace(tmpl, data, opts...)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if _, err := io.WriteString(w, out); err != nil {
		return err
	}
	if !strings.HasSuffix(out, "\n") {
		_, err = io.WriteString(w, "\n")
	}
	return err
}

func (a *app) renderWatch(cmd *cobra.Command, args []string, opts renderOptions) error {
	if len(args) > 0 || opts.input.file == "" {
		return errors.New("--watch needs the template in a file (--file)")
	}
	w, err := watch.New([]string{opts.input.file, opts.input.dataFile, a.cfgPath}, watch.DefaultDebounce, a.logger)
	if err != nil {
		return err
	}
	if err := a.render(cmd, args, opts.input); err != nil {
		a.logger.Error("render failed", "err", err)
	}
	return w.Run(cmd.Context(), func() error {
		if a.cfgPath != "" {
			if err := a.reload(); err != nil {
				return err
			}
		}
		return a.render(cmd, args, opts.input)
	}, nil)
}

type valueOptions struct {
	input  inputOptions
	output string
}

func newValueCmd(a *app) *cobra.Command {
	opts := valueOptions{}
	cmd := &cobra.Command{
		Use:   "value [TEMPLATE]",
		Short: "Evaluate a template and print the typed result",
		Long: "Evaluate a template and print the typed result. A template that is a single\n" +
			"placeholder yields the value itself, anything else yields a string.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, err := opts.input.template(cmd, args)
			if err != nil {
				return err
			}
			data, callOpts, err := opts.input.data()
			if err != nil {
				return err
			}
			v, err := a.engine.Value(strings.TrimSuffix(tmpl, "\n"), data, callOpts...)
			if err != nil {
				return err
			}
			return encode(cmd.OutOrStdout(), opts.output, v)
		},
	}
	opts.input.register(cmd, true)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "json", "output format: json or yaml")
	return cmd
}

func newValuesCmd(a *app) *cobra.Command {
	opts := valueOptions{}
	cmd := &cobra.Command{
		Use:   "values [TEMPLATE]",
		Short: "Print the typed result of every placeholder as a list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, err := opts.input.template(cmd, args)
			if err != nil {
				return err
			}
			data, callOpts, err := opts.input.data()
			if err != nil {
				return err
			}
			vs, err := a.engine.Values(tmpl, data, callOpts...)
			if err != nil {
				return err
			}
			return encode(cmd.OutOrStdout(), opts.output, vs)
		},
	}
	opts.input.register(cmd, true)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "json", "output format: json or yaml")
	return cmd
}

func encode(w io.Writer, format string, v any) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func newPropsCmd(a *app) *cobra.Command {
	opts := inputOptions{}
	cmd := &cobra.Command{
		Use:   "props [TEMPLATE]",
		Short: "List the data identifiers a template reads",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, err := opts.template(cmd, args)
			if err != nil {
				return err
			}
			props, err := a.engine.Props(tmpl)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			st := newStyles(w)
			for _, p := range props {
				if _, err := fmt.Fprintln(w, st.name.Render(p)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	opts.register(cmd, false)
	return cmd
}
