package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tmplkit/interpolate"
)

// inputOptions are the flags shared by commands that evaluate a template.
type inputOptions struct {
	file     string
	dataFile string
	sets     []string
	this     string
}

func (o *inputOptions) register(cmd *cobra.Command, withData bool) {
	fs := cmd.Flags()
	fs.StringVarP(&o.file, "file", "f", "", "read the template from a file (default: argument or stdin)")
	if !withData {
		return
	}
	fs.StringVarP(&o.dataFile, "data", "d", "", "YAML or JSON file with the data context")
	fs.StringArrayVar(&o.sets, "set", nil, "set a data value, e.g. --set user.name=Bob (repeatable)")
	fs.StringVar(&o.this, "this", "", "YAML value bound to the name this")
}

// template returns the template text from the argument, --file or stdin.
func (o *inputOptions) template(cmd *cobra.Command, args []string) (string, error) {
	switch {
	case len(args) > 0 && o.file != "":
		return "", errors.New("give the template as an argument or with --file, not both")
	case len(args) > 0:
		return args[0], nil
	case o.file != "":
		b, err := os.ReadFile(o.file)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

// data builds the data context and call options from --data, --set and
// --this.
func (o *inputOptions) data() (map[string]any, []interpolate.CallOption, error) {
	data := map[string]any{}
	if o.dataFile != "" {
		b, err := os.ReadFile(o.dataFile)
		if err != nil {
			return nil, nil, err
		}
		if err := yaml.Unmarshal(b, &data); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", o.dataFile, err)
		}
		if data == nil {
			data = map[string]any{}
		}
	}
	for _, kv := range o.sets {
		key, raw, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, nil, fmt.Errorf("--set %q: expected key=value", kv)
		}
		if err := setPath(data, strings.Split(key, "."), parseScalar(raw)); err != nil {
			return nil, nil, fmt.Errorf("--set %q: %w", kv, err)
		}
	}

	var opts []interpolate.CallOption
	if o.this != "" {
		opts = append(opts, interpolate.WithThis(parseScalar(o.this)))
	}
	return data, opts, nil
}

// parseScalar decodes s as a YAML value so that numbers and booleans keep
// their type. Text that is not valid YAML is used as is.
func parseScalar(s string) any {
	if strings.TrimSpace(s) == "" {
		return s
	}
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil || v == nil {
		return s
	}
	return v
}

func setPath(data map[string]any, path []string, v any) error {
	for i, key := range path[:len(path)-1] {
		next, ok := data[key]
		if !ok {
			m := map[string]any{}
			data[key] = m
			data = m
			continue
		}
		m, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("%s is not a map", strings.Join(path[:i+1], "."))
		}
		data = m
	}
	data[path[len(path)-1]] = v
	return nil
}
