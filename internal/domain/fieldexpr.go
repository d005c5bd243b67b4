package domain

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"

	m "tastmod.dev/pkg/tastmod/internal/model"
)

// FieldExpr is one name/value pair within a struct literal, addressable by
// name and carrying enough positional metadata to support byte-level edits.
type FieldExpr struct {
	name string
	expr *ast.KeyValueExpr
	idx  int
}

// Name returns the field's key name.
func (f *FieldExpr) Name() string {
	return f.name
}

// StringValue returns the field's value as an unquoted string. Any value
// that is not a quoted string literal yields a ShapeError.
func (f *FieldExpr) StringValue() (string, error) {
	lit, ok := f.expr.Value.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", m.NewShapeError(f.name, "string literal", exprKind(f.expr.Value))
	}

	s, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", m.NewShapeError(f.name, "string literal", lit.Value)
	}

	return s, nil
}

// BoolValue returns the field's value as a bool. The value must be the
// identifier true or false; any other token yields a ShapeError.
func (f *FieldExpr) BoolValue() (bool, error) {
	ident, ok := f.expr.Value.(*ast.Ident)
	if !ok {
		return false, m.NewShapeError(f.name, "true or false", exprKind(f.expr.Value))
	}

	switch ident.Name {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}

	return false, m.NewShapeError(f.name, "true or false", ident.Name)
}

// IntValue returns the field's value as an integer. Provided for symmetry
// with the other accessors; no current action reads integer fields.
func (f *FieldExpr) IntValue() (int64, error) {
	lit, ok := f.expr.Value.(*ast.BasicLit)
	if !ok || lit.Kind != token.INT {
		return 0, m.NewShapeError(f.name, "integer literal", exprKind(f.expr.Value))
	}

	n, err := strconv.ParseInt(lit.Value, 0, 64)
	if err != nil {
		return 0, m.NewShapeError(f.name, "integer literal", lit.Value)
	}

	return n, nil
}

// Strings returns the ordered elements of a []string{...} value. Source
// order is preserved and duplicates are kept. A ShapeError is returned if
// the value is not a slice literal or any element is not a string literal.
func (f *FieldExpr) Strings() ([]string, error) {
	lit, ok := f.expr.Value.(*ast.CompositeLit)
	if !ok {
		return nil, m.NewShapeError(f.name, "string slice literal", exprKind(f.expr.Value))
	}

	out := make([]string, 0, len(lit.Elts))

	for _, elt := range lit.Elts {
		basic, ok := elt.(*ast.BasicLit)
		if !ok || basic.Kind != token.STRING {
			return nil, m.NewShapeError(f.name, "string slice literal", exprKind(elt))
		}

		s, err := strconv.Unquote(basic.Value)
		if err != nil {
			return nil, m.NewShapeError(f.name, "string slice literal", basic.Value)
		}

		out = append(out, s)
	}

	return out, nil
}

// exprKind names an expression's dynamic type for error messages.
func exprKind(e ast.Expr) string {
	return fmt.Sprintf("%T", e)
}
