package render

import (
	"fmt"
	"reflect"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// exprEnv builds the variables visible to an expression template.
func exprEnv(a TemplateArgs) map[string]any {
	args := a.Args
	if args == nil {
		args = []string{}
	}
	return map[string]any{
		"args":        args,
		"args_concat": a.ArgsConcat(),
		"date_part":   a.DatePart,
		"op":          a.Op,
		"left":        a.Left,
		"right":       a.Right,
		"interval":    a.Interval,
		"expr":        a.Expr,
		"data_type":   a.DataType,
		"alias":       a.Alias,
		"negated":     a.Negated,
	}
}

// CompileTemplate compiles an expr-lang expression into a Template. The
// expression must evaluate to a string, e.g.
//
//	len(args) > 1 ? "LOG(" + args_concat + ")" : "LN(" + args[0] + ")"
func CompileTemplate(key, source string) (Template, error) {
	program, err := expr.Compile(source,
		expr.Env(exprEnv(TemplateArgs{})),
		expr.AsKind(reflect.String),
	)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", key, err)
	}
	return programTemplate(key, program), nil
}

func programTemplate(key string, program *vm.Program) Template {
	return func(a TemplateArgs) (string, error) {
		out, err := expr.Run(program, exprEnv(a))
		if err != nil {
			return "", fmt.Errorf("template %s: %w", key, err)
		}
		s, ok := out.(string)
		if !ok {
			return "", fmt.Errorf("template %s: result is %T, not string", key, out)
		}
		return s, nil
	}
}

// CompileTemplates compiles a key -> source map.
func CompileTemplates(sources map[string]string) (map[string]Template, error) {
	out := make(map[string]Template, len(sources))
	for key, src := range sources {
		tmpl, err := CompileTemplate(key, src)
		if err != nil {
			return nil, err
		}
		out[key] = tmpl
	}
	return out, nil
}
