package domain

import (
	"go/ast"
	"go/token"
	"log/slog"

	m "tastmod.dev/pkg/tastmod/internal/model"
)

// findTestExpr scans top-level declarations for an init function holding a
// single testing.AddTest(&testing.Test{...}) call and returns the struct
// literal inside it. Returns nil when the pattern does not match: many
// files in a bundle are not test declarations.
func findTestExpr(file *ast.File) *StructExpr {
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv != nil || fn.Name.Name != "init" || fn.Body == nil {
			continue
		}

		for _, stmt := range fn.Body.List {
			exprStmt, ok := stmt.(*ast.ExprStmt)
			if !ok {
				continue
			}

			call, ok := exprStmt.X.(*ast.CallExpr)
			if !ok || len(call.Args) != 1 {
				continue
			}

			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok || sel.Sel.Name != "AddTest" {
				continue
			}

			pkg, ok := sel.X.(*ast.Ident)
			if !ok || pkg.Name != "testing" {
				continue
			}

			unary, ok := call.Args[0].(*ast.UnaryExpr)
			if !ok || unary.Op != token.AND {
				continue
			}

			lit, ok := unary.X.(*ast.CompositeLit)
			if !ok {
				continue
			}

			return &StructExpr{lit}
		}
	}

	return nil
}

// paramEntry pairs a parameterized variant's struct literal with its
// derived test ID.
type paramEntry struct {
	id   m.TestID
	expr *StructExpr
}

// paramEntries returns the parameterized variants declared in the Params
// field, in source order. An undefined Params field yields no entries. A
// Params value that is not a slice of struct literals is a ShapeError:
// such a file is outside the supported dialect and must not be edited.
func (f *TestFile) paramEntries() ([]paramEntry, error) {
	paramsField := f.expr.FindFieldExpr(paramsFieldName)
	if paramsField == nil {
		return nil, nil
	}

	list, ok := paramsField.expr.Value.(*ast.CompositeLit)
	if !ok {
		return nil, m.NewShapeError(paramsFieldName, "slice of struct literals", exprKind(paramsField.expr.Value))
	}

	parentID := f.ParentTestID()
	entries := make([]paramEntry, 0, len(list.Elts))

	for _, elt := range list.Elts {
		lit, ok := elt.(*ast.CompositeLit)
		if !ok {
			return nil, m.NewShapeError(paramsFieldName, "slice of struct literals", exprKind(elt))
		}

		param := &StructExpr{lit}

		// An empty or undefined Name marks the anonymous default variant,
		// which shares the parent's ID.
		name := ""
		if nameField := param.FindFieldExpr(nameFieldName); nameField != nil {
			var err error

			name, err = nameField.StringValue()
			if err != nil {
				return nil, err
			}
		}

		id := parentID
		if name != "" {
			id = parentID + m.TestID("."+name)
		}

		entries = append(entries, paramEntry{id: id, expr: param})
	}

	return entries, nil
}

// ParamTestIDs returns the derived IDs of all parameterized variants in
// this file. Two variants with the same Name collide on one ID; the first
// occurrence wins and the collision is logged so it can be fixed in the
// declaration.
func (f *TestFile) ParamTestIDs() (m.TestIDSet, error) {
	entries, err := f.paramEntries()
	if err != nil {
		return nil, err
	}

	ids := m.TestIDSet{}

	for _, entry := range entries {
		if ids.Has(entry.id) {
			slog.Warn("duplicate derived test ID", "path", f.path, "id", entry.id)
			continue
		}

		ids.Add(entry.id)
	}

	return ids, nil
}

// paramExpr returns the struct literal of the variant with the given
// derived ID, or nil if no variant matches. Looked up fresh on every call
// so positions always come from the current tree.
func (f *TestFile) paramExpr(id m.TestID) (*StructExpr, error) {
	entries, err := f.paramEntries()
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.id == id {
			return entry.expr, nil
		}
	}

	return nil, nil
}

// FindParamField returns the named field of the variant with the given ID,
// or nil when the variant or the field is undefined.
func (f *TestFile) FindParamField(fieldName string, id m.TestID) (*FieldExpr, error) {
	param, err := f.paramExpr(id)
	if err != nil || param == nil {
		return nil, err
	}

	return param.FindFieldExpr(fieldName), nil
}

// AddToParamStrings adds the given values to a string slice field of the
// variant with the given ID. A missing variant is a no-op.
func (f *TestFile) AddToParamStrings(
	id m.TestID, fieldName string, input []string, format m.Format) (bool, error) {
	param, err := f.paramExpr(id)
	if err != nil || param == nil {
		return false, err
	}

	return param.AddToStrings(f, fieldName, input, format)
}

// RemoveStringsFromParam removes the given values from a string slice
// field of the variant with the given ID. A missing variant is a no-op.
func (f *TestFile) RemoveStringsFromParam(
	id m.TestID, fieldName string, input []string, format m.Format) (bool, error) {
	param, err := f.paramExpr(id)
	if err != nil || param == nil {
		return false, err
	}

	return param.RemoveFromStrings(f, fieldName, input, format)
}
