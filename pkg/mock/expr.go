package mock

import (
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/ohler55/ojg/oj"

	"github.com/getmockd/reqmatch/pkg/matching"
)

// Expression environments. Every expression must evaluate to a bool; a
// runtime error counts as a mismatch.
//
//	headersExpr  headers map[string][]string, has(name) bool, get(name) string
//	paramsExpr   params  map[string][]string, has(name) bool, get(name) string
//	cookiesExpr  cookies map[string]string,   has(name) bool, get(name) string
//	bodyExpr     body string, json any (nil unless the body is JSON)
//	pathExpr     path string, segments []string
//	urlExpr      url string
//
// has and get compare names case-insensitively; get returns the first value.

func compileExpr(field, source string, env any) (*vm.Program, error) {
	program, err := expr.Compile(source, expr.Env(env), expr.AsBool())
	if err != nil {
		return nil, &matching.ConfigurationError{Field: field, Message: "invalid expression", Err: err}
	}
	return program, nil
}

func evalBool(program *vm.Program, env any) bool {
	out, err := expr.Run(program, env)
	if err != nil {
		return false
	}
	b, _ := out.(bool)
	return b
}

func multiEnv(key string, m map[string][]string) map[string]any {
	return map[string]any{
		key: m,
		"has": func(name string) bool {
			_, ok := lookupFold(m, name)
			return ok
		},
		"get": func(name string) string {
			if vs, ok := lookupFold(m, name); ok && len(vs) > 0 {
				return vs[0]
			}
			return ""
		},
	}
}

func cookiesEnv(m map[string]string) map[string]any {
	return map[string]any{
		"cookies": m,
		"has": func(name string) bool {
			_, ok := lookupFold(m, name)
			return ok
		},
		"get": func(name string) string {
			v, _ := lookupFold(m, name)
			return v
		},
	}
}

type bodyVars struct {
	Body string `expr:"body"`
	JSON any    `expr:"json"`
}

func bodyEnv(body []byte) bodyVars {
	vars := bodyVars{Body: string(body)}
	if len(body) > 0 {
		if parsed, err := oj.Parse(body); err == nil {
			vars.JSON = parsed
		}
	}
	return vars
}

type pathVars struct {
	Path     string   `expr:"path"`
	Segments []string `expr:"segments"`
}

func pathEnv(path string) pathVars {
	return pathVars{
		Path:     path,
		Segments: strings.FieldsFunc(path, func(r rune) bool { return r == '/' }),
	}
}

type urlVars struct {
	URL string `expr:"url"`
}

func lookupFold[V any](m map[string]V, name string) (V, bool) {
	if v, ok := m[name]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	var zero V
	return zero, false
}
