package render

import (
	"strings"
	"testing"
)

func TestCompileTemplate(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		args     TemplateArgs
		expected string
	}{
		{
			name:     "natural log fallback",
			source:   `len(args) > 1 ? "LOG(" + args_concat + ")" : "LN(" + args[0] + ")"`,
			args:     TemplateArgs{Args: []string{"x"}},
			expected: "LN(x)",
		},
		{
			name:     "two args",
			source:   `len(args) > 1 ? "LOG(" + args_concat + ")" : "LN(" + args[0] + ")"`,
			args:     TemplateArgs{Args: []string{"x", "2"}},
			expected: "LOG(x, 2)",
		},
		{
			name:     "binary",
			source:   `op == "%" ? "MOD(" + left + ", " + right + ")" : "(" + left + " " + op + " " + right + ")"`,
			args:     TemplateArgs{Op: "%", Left: "a", Right: "b"},
			expected: "MOD(a, b)",
		},
		{
			name:     "date part",
			source:   `"DATE_TRUNC('" + lower(date_part) + "', " + args[1] + ")"`,
			args:     TemplateArgs{Args: []string{"'x'", "ts"}, DatePart: "MONTH"},
			expected: "DATE_TRUNC('month', ts)",
		},
		{
			name:     "negated",
			source:   `expr + (negated ? " IS NOT NULL" : " IS NULL")`,
			args:     TemplateArgs{Expr: "col", Negated: true},
			expected: "col IS NOT NULL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := CompileTemplate("test", tt.source)
			if err != nil {
				t.Fatalf("CompileTemplate error = %v", err)
			}
			got, err := tmpl(tt.args)
			if err != nil {
				t.Fatalf("template error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCompileTemplate_Errors(t *testing.T) {
	if _, err := CompileTemplate("functions.LOG", `len(args) +`); err == nil ||
		!strings.Contains(err.Error(), "template functions.LOG") {
		t.Errorf("expected syntax error naming the key, got %v", err)
	}

	if _, err := CompileTemplate("functions.LOG", `len(args)`); err == nil {
		t.Error("expected error for non-string result")
	}

	if _, err := CompileTemplate("functions.LOG", `unknown_var + "x"`); err == nil {
		t.Error("expected error for unknown variable")
	}

	tmpl, err := CompileTemplate("functions.LOG", `"LN(" + args[0] + ")"`)
	if err != nil {
		t.Fatalf("CompileTemplate error = %v", err)
	}
	if _, err := tmpl(TemplateArgs{}); err == nil {
		t.Error("expected runtime error for missing argument")
	}
}

func TestCompileTemplates(t *testing.T) {
	compiled, err := CompileTemplates(map[string]string{
		FuncLog:   `"LN(" + args[0] + ")"`,
		FuncLower: `"LCASE(" + args_concat + ")"`,
	})
	if err != nil {
		t.Fatalf("CompileTemplates error = %v", err)
	}

	tmpl := Defaults().Extend(compiled)
	got, err := tmpl.Render(FuncLower, TemplateArgs{Args: []string{"name"}})
	if err != nil || got != "LCASE(name)" {
		t.Errorf("LOWER = %q, %v", got, err)
	}

	if _, err := CompileTemplates(map[string]string{FuncLog: `)`}); err == nil {
		t.Error("expected error")
	}
}
