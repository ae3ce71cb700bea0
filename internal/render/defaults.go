package render

import (
	"fmt"
	"time"

	"github.com/zoobzio/rollup/internal/types"
)

var defaults = NewTemplates(map[string]Template{
	FuncDateTrunc: Func("DATE_TRUNC", 2),
	FuncLog:       Log("LOG", "LOG"),
	FuncConcat:    Func("CONCAT", 1),
	FuncCoalesce:  Func("COALESCE", 1),
	FuncLower:     Func("LOWER", 1),
	ExprBinary: func(a TemplateArgs) (string, error) {
		return fmt.Sprintf("(%s %s %s)", a.Left, a.Op, a.Right), nil
	},
	ExprInterval: func(a TemplateArgs) (string, error) {
		return fmt.Sprintf("INTERVAL '%s'", a.Interval), nil
	},
	ExprExtract: func(a TemplateArgs) (string, error) {
		return fmt.Sprintf("EXTRACT(%s FROM %s)", a.DatePart, a.Expr), nil
	},
	ExprCast: func(a TemplateArgs) (string, error) {
		return fmt.Sprintf("CAST(%s AS %s)", a.Expr, a.DataType), nil
	},
	ExprColumnAlias: func(a TemplateArgs) (string, error) {
		return a.Expr + " " + a.Alias, nil
	},
	ExprIsNull: func(a TemplateArgs) (string, error) {
		if a.Negated {
			return a.Expr + " IS NOT NULL", nil
		}
		return a.Expr + " IS NULL", nil
	},
}, Quotes{Identifiers: `"`, Escape: `""`})

// Defaults returns the ANSI template table every dialect extends.
func Defaults() *Templates {
	return defaults
}

// Func returns a template rendering NAME(arg, ...) with at least min arguments.
func Func(name string, minArgs int) Template {
	return func(a TemplateArgs) (string, error) {
		if len(a.Args) < minArgs {
			return "", TemplateArgumentError{
				Key:  "functions." + name,
				Want: fmt.Sprintf("at least %d argument(s)", minArgs),
				Got:  a.Args,
			}
		}
		return name + "(" + a.ArgsConcat() + ")", nil
	}
}

// Log returns a logarithm template for Args (x[, base]). A single argument
// renders one(x), which must be base 10; two render two(base, x).
func Log(one, two string) Template {
	return func(a TemplateArgs) (string, error) {
		switch len(a.Args) {
		case 1:
			return one + "(" + a.Args[0] + ")", nil
		case 2:
			return two + "(" + a.Args[1] + ", " + a.Args[0] + ")", nil
		}
		return "", TemplateArgumentError{Key: FuncLog, Want: "(x[, base])", Got: a.Args}
	}
}

// DefaultRefreshKey is the ANSI refresh policy: check every 10 seconds,
// stale after 10 seconds.
func DefaultRefreshKey() types.RefreshKey {
	return types.RefreshKey{
		Every:            types.Interval{Amount: 10, Unit: types.Second},
		RenewalThreshold: 10 * time.Second,
	}
}
