package domain

import (
	"fmt"
	"go/ast"

	m "tastmod.dev/pkg/tastmod/internal/model"
)

// StructExpr is a generic ast.CompositeLit whose fields can be read,
// replaced, added or removed within a test file. Concrete examples are the
// testing.Test{...} contents or the elements of a []testing.Param{...}
// slice.
type StructExpr struct {
	*ast.CompositeLit
}

// FindFieldExpr returns the FieldExpr for the given field name, or nil if
// the field is not defined. Absence is a normal outcome callers must
// check, not an error.
// e.g. x.FindFieldExpr("Contacts") finds the expression declaring
// `Contacts: []string{...}`.
func (x *StructExpr) FindFieldExpr(keyName string) *FieldExpr {
	for i, elt := range x.Elts {
		pair, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}

		key, ok := pair.Key.(*ast.Ident)
		if !ok {
			continue
		}

		if key.Name == keyName {
			return &FieldExpr{name: keyName, expr: pair, idx: i}
		}
	}

	return nil
}

// AllFieldExprs returns the fields of this struct expression in the order
// in which they are listed in code. Order matters for insertion-point
// logic.
func (x *StructExpr) AllFieldExprs() []*FieldExpr {
	fields := []*FieldExpr{}

	for i, elt := range x.Elts {
		pair, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}

		key, ok := pair.Key.(*ast.Ident)
		if !ok {
			continue
		}

		fields = append(fields, &FieldExpr{name: key.Name, expr: pair, idx: i})
	}

	return fields
}

// RemoveField deletes the given field's key-value pair from the file if it
// is set, consuming any trailing comma and newline bytes so no blank-line
// artifacts are left behind. Returns true if the file was modified.
func (x *StructExpr) RemoveField(f *TestFile, fieldName string) (bool, error) {
	field := x.FindFieldExpr(fieldName)
	if field == nil {
		return false, nil // Field is not set.
	}

	start := f.Offset(field.expr.Pos())
	end := f.Offset(field.expr.End())

	// Clean up end position to avoid extra newlines.
	for end < len(f.contents) && (f.contents[end] == ',' || f.contents[end] == '\n') {
		end++
	}

	f.splice(start, end, nil)

	// Re-parse the contents of the file to update the ast values.
	if err := f.Reparse(); err != nil {
		return false, err
	}

	return true, nil
}

// SetField sets the given field in the test file. The value is the string
// representation of the code, e.g. x.SetField(f, "Contacts",
// `[]string{"foo"}`). If the field is already present only its value span
// is replaced, leaving the key and the formatting before it untouched.
// Otherwise the field is added (see addField for the insertion point).
// Returns true if the file was modified.
func (x *StructExpr) SetField(f *TestFile, fieldName, newValue string) (bool, error) {
	fieldExpr := x.FindFieldExpr(fieldName)
	if fieldExpr == nil {
		return x.addField(f, fieldName, newValue)
	}

	valueExpr := fieldExpr.expr.Value
	start := f.Offset(valueExpr.Pos())
	end := f.Offset(valueExpr.End())

	f.splice(start, end, []byte(newValue))

	if err := f.Reparse(); err != nil {
		return false, err
	}

	return true, nil
}

// addField inserts a new `fieldName: value` pair. If there is a Params
// field the new code goes immediately before it, keeping scalar fields
// grouped ahead of the nested variant list; otherwise it goes after the
// last existing field. Assumes the field does not already exist.
func (x *StructExpr) addField(f *TestFile, fieldName, value string) (bool, error) {
	allFields := x.AllFieldExprs()
	if len(allFields) == 0 {
		return false, fmt.Errorf("cannot add field %s to an empty declaration", fieldName)
	}

	code := []byte(fmt.Sprintf(",\n%v: %v", fieldName, value))
	nextPos := -1

	if paramsExpr := x.FindFieldExpr(paramsFieldName); paramsExpr != nil {
		if paramsExpr.idx != 0 {
			prevExpr := allFields[paramsExpr.idx-1]
			nextPos = f.Offset(prevExpr.expr.End())
		} else {
			// Params leads the literal; the new field goes in front of it
			// and the separator trails instead.
			code = []byte(fmt.Sprintf("%v: %v,\n", fieldName, value))
			nextPos = f.Offset(paramsExpr.expr.Pos())
		}
	} else {
		prevExpr := allFields[len(allFields)-1]
		nextPos = f.Offset(prevExpr.expr.End())
	}

	f.splice(nextPos, nextPos, code)

	if err := f.Reparse(); err != nil {
		return false, err
	}

	return true, nil
}

// AddToStrings adds the given strings to the string slice field of name
// fieldName. Existing order is preserved; elements already present are not
// repeated; missing ones are appended in the given order. Returns false if
// nothing needed to be added.
func (x *StructExpr) AddToStrings(
	f *TestFile, fieldName string, input []string, format m.Format) (bool, error) {
	currentValues := []string{}

	if fieldExpr := x.FindFieldExpr(fieldName); fieldExpr != nil {
		var err error

		currentValues, err = fieldExpr.Strings()
		if err != nil {
			return false, err
		}
	}

	toAdds := []string{}

	for _, toAdd := range input {
		found := false

		for _, elt := range currentValues {
			if toAdd == elt {
				found = true
				break
			}
		}

		if !found {
			toAdds = append(toAdds, toAdd)
		}
	}

	if len(toAdds) == 0 {
		return false, nil
	}

	newValues := append(currentValues, toAdds...)

	return x.SetField(f, fieldName, FormatStrings(format, newValues))
}

// RemoveFromStrings removes the given strings from the string slice field
// of name fieldName. If the field is undefined or no element matches, no
// action is taken. If the removal empties the slice the field itself is
// removed instead of leaving an empty literal.
func (x *StructExpr) RemoveFromStrings(
	f *TestFile, fieldName string, input []string, format m.Format) (bool, error) {
	fieldExpr := x.FindFieldExpr(fieldName)
	if fieldExpr == nil {
		return false, nil
	}

	currentValues, err := fieldExpr.Strings()
	if err != nil {
		return false, err
	}

	newValues := []string{}

	for _, elt := range currentValues {
		found := false

		for _, toRemove := range input {
			if elt == toRemove {
				found = true
				break
			}
		}

		if !found {
			newValues = append(newValues, elt)
		}
	}

	if len(newValues) == len(currentValues) {
		return false, nil
	}

	if len(newValues) == 0 {
		return x.RemoveField(f, fieldName)
	}

	return x.SetField(f, fieldName, FormatStrings(format, newValues))
}
