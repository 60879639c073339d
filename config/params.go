package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
)

// ParamPrefix marks the environment variables that carry parameters.
const ParamPrefix = "PARAM_"

// Params are named test parameters. Values are int64, float64, bool or
// string.
type Params map[string]any

// ParseValue interprets a parameter string as an integer, a real number or a
// boolean, in that order, and falls back to the string itself.
func ParseValue(s string) any {
	t := strings.TrimSpace(s)

	if i, err := strconv.ParseInt(t, 10, 64); err == nil {
		return i
	}

	if f, err := strconv.ParseFloat(t, 64); err == nil {
		return f
	}

	switch strings.ToLower(t) {
	case "true":
		return true
	case "false":
		return false
	}

	return s
}

// ParamsFromEnviron collects the PARAM_* entries of a KEY=VALUE list.
func ParamsFromEnviron(environ []string) Params {
	p := Params{}

	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(k, ParamPrefix) {
			continue
		}

		name := strings.TrimPrefix(k, ParamPrefix)
		if !validParamName(name) {
			continue
		}

		p[name] = ParseValue(v)
	}

	return p
}

// LoadParams loads the given .env files into the environment, without
// overriding variables that are already set, and returns the parameters of
// the process environment.
func LoadParams(envFiles ...string) (Params, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, errors.Wrapf(err, "load %s", strings.Join(envFiles, ", "))
		}
	}

	return ParamsFromEnviron(os.Environ()), nil
}

func validParamName(name string) bool {
	if name == "" {
		return false
	}

	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}

	return true
}

// Names returns the parameter names, sorted.
func (p Params) Names() []string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}

	sort.Strings(names)

	return names
}

// Merge returns p overridden by o.
func (p Params) Merge(o Params) Params {
	m := make(Params, len(p)+len(o))
	for k, v := range p {
		m[k] = v
	}

	for k, v := range o {
		m[k] = v
	}

	return m
}

// Int returns an integer parameter, or def if it is missing or not an
// integer.
func (p Params) Int(name string, def int64) int64 {
	if v, ok := p[name].(int64); ok {
		return v
	}

	return def
}

// Float returns a numeric parameter, or def if it is missing or not a
// number.
func (p Params) Float(name string, def float64) float64 {
	switch v := p[name].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}

	return def
}

// Bool returns a boolean parameter, or def if it is missing or not a
// boolean.
func (p Params) Bool(name string, def bool) bool {
	if v, ok := p[name].(bool); ok {
		return v
	}

	return def
}

// String returns a parameter as text, or def if it is missing.
func (p Params) String(name, def string) string {
	v, ok := p[name]
	if !ok {
		return def
	}

	return fmt.Sprint(v)
}

// Environ returns the parameters as PARAM_NAME=value entries, sorted by
// name.
func (p Params) Environ() []string {
	env := make([]string, 0, len(p))
	for _, k := range p.Names() {
		env = append(env, ParamPrefix+k+"="+fmt.Sprint(p[k]))
	}

	return env
}
