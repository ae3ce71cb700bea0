package rollup

import (
	"fmt"
	"strings"

	"github.com/zoobzio/dbml"
)

// Schema resolves filter and time dimension members ("table.column")
// against a DBML project.
type Schema struct {
	project *dbml.Project
	// table -> column -> column definition
	columns map[string]map[string]*dbml.Column
}

// NewSchema indexes a DBML project.
func NewSchema(project *dbml.Project) (*Schema, error) {
	if project == nil {
		return nil, fmt.Errorf("project cannot be nil")
	}

	s := &Schema{
		project: project,
		columns: make(map[string]map[string]*dbml.Column),
	}
	for _, table := range project.Tables {
		s.columns[table.Name] = make(map[string]*dbml.Column)
		for _, col := range table.Columns {
			s.columns[table.Name][col.Name] = col
		}
	}
	return s, nil
}

// Column finds the column for a "table.column" member.
func (s *Schema) Column(member string) (*dbml.Column, error) {
	dot := strings.LastIndex(member, ".")
	if dot <= 0 || dot == len(member)-1 {
		return nil, fmt.Errorf("member %q is not of the form table.column", member)
	}
	table, name := member[:dot], member[dot+1:]
	cols, ok := s.columns[table]
	if !ok {
		return nil, fmt.Errorf("table '%s' not found in schema", table)
	}
	col, ok := cols[name]
	if !ok {
		return nil, fmt.Errorf("field '%s' not found in table '%s'", name, table)
	}
	return col, nil
}

// normalizeType lowercases a column type and drops length/precision and
// array suffixes: "NUMERIC(10, 2)" -> "numeric".
func normalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if i := strings.IndexAny(t, "(["); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}

var semanticTypes = map[string]SemanticType{
	"bool":             TypeBoolean,
	"boolean":          TypeBoolean,
	"bit":              TypeBoolean,
	"smallint":         TypeNumber,
	"int":              TypeNumber,
	"int2":             TypeNumber,
	"int4":             TypeNumber,
	"int8":             TypeNumber,
	"int64":            TypeNumber,
	"integer":          TypeNumber,
	"bigint":           TypeNumber,
	"tinyint":          TypeNumber,
	"numeric":          TypeNumber,
	"decimal":          TypeNumber,
	"bignumeric":       TypeNumber,
	"real":             TypeNumber,
	"float":            TypeNumber,
	"float4":           TypeNumber,
	"float8":           TypeNumber,
	"float64":          TypeNumber,
	"double":           TypeNumber,
	"double precision": TypeNumber,
	"money":            TypeNumber,
	"date":             TypeTime,
	"time":             TypeTime,
	"datetime":         TypeTime,
	"datetime2":        TypeTime,
	"datetimeoffset":   TypeTime,
	"timestamp":        TypeTime,
	"timestamptz":      TypeTime,
}

// SemanticType maps the member's column type to a filter type. Unknown
// column types are strings.
func (s *Schema) SemanticType(member string) (SemanticType, error) {
	col, err := s.Column(member)
	if err != nil {
		return "", err
	}
	t := normalizeType(col.Type)
	if st, ok := semanticTypes[t]; ok {
		return st, nil
	}
	if strings.HasPrefix(t, "timestamp") {
		return TypeTime, nil
	}
	return TypeString, nil
}

// TimezoneAware reports whether the member's column holds instants. A plain
// "timestamp" is an instant only when plainIsInstant is set, which depends
// on the engine.
func (s *Schema) TimezoneAware(member string, plainIsInstant bool) (bool, error) {
	col, err := s.Column(member)
	if err != nil {
		return false, err
	}
	t := normalizeType(col.Type)
	switch {
	case t == "timestamptz", t == "datetimeoffset", strings.Contains(t, "with time zone"):
		return true, nil
	case t == "timestamp":
		return plainIsInstant, nil
	}
	return false, nil
}
