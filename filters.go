package interpolate

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Built-in filter implementations. Arguments arrive as strings; filters that
// need numbers parse them and report a parse failure as an error.

// FilterUpper implements the built-in `upper` filter.
func FilterUpper(val any, _ ...string) (any, error) {
	if s, ok := val.(string); ok {
		return strings.ToUpper(s), nil
	}
	return val, nil
}

// FilterLower implements the built-in `lower` filter.
func FilterLower(val any, _ ...string) (any, error) {
	if s, ok := val.(string); ok {
		return strings.ToLower(s), nil
	}
	return val, nil
}

// FilterCapitalize implements the built-in `capitalize` filter.
func FilterCapitalize(val any, _ ...string) (any, error) {
	s, ok := val.(string)
	if !ok || s == "" {
		return val, nil
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes), nil
}

// FilterTitle implements the built-in `title` filter.
func FilterTitle(val any, _ ...string) (any, error) {
	s, ok := val.(string)
	if !ok {
		return val, nil
	}
	var b strings.Builder
	capitalizeNext := true
	for _, r := range s {
		switch {
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == ':' || r == ',' || r == '.':
			capitalizeNext = true
			b.WriteRune(r)
		case capitalizeNext:
			b.WriteRune(unicode.ToUpper(r))
			capitalizeNext = false
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String(), nil
}

// FilterTrim implements the built-in `trim` filter. An optional argument
// gives the set of characters to strip.
func FilterTrim(val any, args ...string) (any, error) {
	s, ok := val.(string)
	if !ok {
		return val, nil
	}
	if len(args) > 0 && args[0] != "" {
		return strings.Trim(s, args[0]), nil
	}
	return strings.TrimSpace(s), nil
}

// FilterAppend implements the built-in `append` filter.
func FilterAppend(val any, args ...string) (any, error) {
	return Stringify(val) + strings.Join(args, ""), nil
}

// FilterPrepend implements the built-in `prepend` filter.
func FilterPrepend(val any, args ...string) (any, error) {
	return strings.Join(args, "") + Stringify(val), nil
}

// FilterReplace implements the built-in `replace` filter:
// `replace:old,new[,count]`.
func FilterReplace(val any, args ...string) (any, error) {
	s, ok := val.(string)
	if !ok {
		return val, nil
	}
	if len(args) < 2 {
		return nil, fmt.Errorf("replace requires old and new arguments")
	}
	count := -1
	if len(args) > 2 {
		n, err := strconv.Atoi(strings.TrimSpace(args[2]))
		if err != nil {
			return nil, fmt.Errorf("replace count %q is not an integer", args[2])
		}
		count = n
	}
	return strings.Replace(s, args[0], args[1], count), nil
}

// FilterTruncate implements the built-in `truncate` filter:
// `truncate:length[,suffix]`. The suffix defaults to "..." and counts
// towards length; a suffix longer than length is clipped.
func FilterTruncate(val any, args ...string) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("truncate requires a length argument")
	}
	length, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || length < 0 {
		return nil, fmt.Errorf("truncate length %q is not a non-negative integer", args[0])
	}
	suffix := "..."
	if len(args) > 1 {
		suffix = args[1]
	}
	runes := []rune(Stringify(val))
	if len(runes) <= length {
		return string(runes), nil
	}
	tail := []rune(suffix)
	if len(tail) > length {
		tail = tail[:length]
	}
	return string(runes[:length-len(tail)]) + string(tail), nil
}

// FilterDefault implements the built-in `default` filter:
// `default:fallback[,true]`. The fallback replaces nil; with a second
// argument of "true" it also replaces empty strings, empty collections and
// false.
func FilterDefault(val any, args ...string) (any, error) {
	fallback := ""
	if len(args) > 0 {
		fallback = args[0]
	}
	if val == nil {
		return fallback, nil
	}
	if len(args) > 1 && strings.TrimSpace(args[1]) == "true" && isEmpty(val) {
		return fallback, nil
	}
	return val, nil
}

// FilterJoin implements the built-in `join` filter. The separator defaults
// to the empty string.
func FilterJoin(val any, args ...string) (any, error) {
	items, ok := iterate(val)
	if !ok {
		return val, nil
	}
	sep := ""
	if len(args) > 0 {
		sep = args[0]
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = Stringify(item)
	}
	return strings.Join(parts, sep), nil
}

// FilterLength implements the built-in `length` filter. Strings count runes.
func FilterLength(val any, _ ...string) (any, error) {
	if s, ok := val.(string); ok {
		return len([]rune(s)), nil
	}
	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return rv.Len(), nil
	}
	return nil, fmt.Errorf("length of %T is undefined", val)
}

// FilterFirst implements the built-in `first` filter.
func FilterFirst(val any, _ ...string) (any, error) {
	if s, ok := val.(string); ok {
		if s == "" {
			return nil, nil
		}
		r, _ := utf8.DecodeRuneInString(s)
		return string(r), nil
	}
	items, ok := iterate(val)
	if !ok || len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}

// FilterLast implements the built-in `last` filter.
func FilterLast(val any, _ ...string) (any, error) {
	if s, ok := val.(string); ok {
		runes := []rune(s)
		if len(runes) == 0 {
			return nil, nil
		}
		return string(runes[len(runes)-1]), nil
	}
	items, ok := iterate(val)
	if !ok || len(items) == 0 {
		return nil, nil
	}
	return items[len(items)-1], nil
}

// FilterReverse implements the built-in `reverse` filter.
func FilterReverse(val any, _ ...string) (any, error) {
	if s, ok := val.(string); ok {
		runes := []rune(s)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return string(runes), nil
	}
	items, ok := iterate(val)
	if !ok {
		return val, nil
	}
	out := make([]any, len(items))
	for i, item := range items {
		out[len(items)-1-i] = item
	}
	return out, nil
}

// FilterRound implements the built-in `round` filter:
// `round[:precision]`.
func FilterRound(val any, args ...string) (any, error) {
	f, ok := toFloat(val)
	if !ok {
		return nil, fmt.Errorf("cannot round %T", val)
	}
	precision := 0
	if len(args) > 0 {
		p, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil {
			return nil, fmt.Errorf("round precision %q is not an integer", args[0])
		}
		precision = p
	}
	pow := math.Pow(10, float64(precision))
	return math.Round(f*pow) / pow, nil
}

// FilterJSON implements the built-in `json` filter. An optional argument
// sets the indent width.
func FilterJSON(val any, args ...string) (any, error) {
	var (
		data []byte
		err  error
	)
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		n, convErr := strconv.Atoi(strings.TrimSpace(args[0]))
		if convErr != nil {
			return nil, fmt.Errorf("json indent %q is not an integer", args[0])
		}
		if n < 0 {
			return nil, fmt.Errorf("json indent %q must be non-negative", args[0])
		}
		data, err = json.MarshalIndent(val, "", strings.Repeat(" ", n))
	} else {
		data, err = json.Marshal(val)
	}
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// FilterURLEncode implements the built-in `urlencode` filter. Maps are
// encoded as a query string with sorted keys.
func FilterURLEncode(val any, _ ...string) (any, error) {
	if m, ok := val.(map[string]any); ok {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if m[k] == nil {
				continue
			}
			parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(Stringify(m[k])))
		}
		return strings.Join(parts, "&"), nil
	}
	return url.QueryEscape(Stringify(val)), nil
}

// iterate returns the elements of a slice or array.
func iterate(val any) ([]any, bool) {
	if items, ok := val.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return items, true
	}
	return nil, false
}

func isEmpty(val any) bool {
	switch t := val.(type) {
	case string:
		return t == ""
	case bool:
		return !t
	}
	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	}
	return false
}

func toFloat(val any) (float64, bool) {
	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(rv.String()), 64)
		return f, err == nil
	}
	return 0, false
}
