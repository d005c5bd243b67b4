// Package domain implements the metadata editing core: locating the test
// declaration in a file, reading its fields, and applying byte-level edits
// that keep the parsed tree consistent with the source buffer.
package domain

import (
	"errors"
	"go/ast"
	"go/token"
	"path/filepath"

	"tastmod.dev/pkg/tastmod/internal/adapter"
	m "tastmod.dev/pkg/tastmod/internal/model"
)

const (
	funcFieldName     = "Func"
	paramsFieldName   = "Params"
	nameFieldName     = "Name"
	contactsFieldName = "Contacts"

	testIDPrefix = "tast"
)

// TestFile represents a single file which declares a test. It exclusively
// owns the source buffer and the expression tree derived from it; every
// mutation of the buffer is followed by a re-parse before any further
// read, so no code path ever sees stale positions.
type TestFile struct {
	path     m.Path
	contents []byte
	fset     *token.FileSet
	ast      *ast.File
	expr     *StructExpr
	goFiles  adapter.GoFileAdapter
}

// NewTestFile builds a TestFile from the given contents. It returns
// (nil, nil) when the file parses but holds no test declaration: that is a
// legitimate skip outcome, not an error.
func NewTestFile(goFiles adapter.GoFileAdapter, path m.Path, contents []byte) (*TestFile, error) {
	f := &TestFile{
		path:     path,
		contents: contents,
		goFiles:  goFiles,
	}

	if err := f.parse(); err != nil {
		return nil, err
	}

	if f.expr == nil {
		return nil, nil
	}

	return f, nil
}

// parse populates fset, ast and expr from the current contents.
func (f *TestFile) parse() error {
	f.fset = token.NewFileSet()

	parsed, err := f.goFiles.Parse(f.fset, string(f.path), f.contents)
	if err != nil {
		return &m.ParseError{Path: f.path, Err: err}
	}

	f.ast = parsed
	f.expr = findTestExpr(parsed)

	return nil
}

// Reparse re-derives the expression tree after the contents were modified.
// A file that stops parsing, or whose test declaration vanishes, after an
// edit is a fatal condition: the mutation must not be persisted.
func (f *TestFile) Reparse() error {
	if err := f.parse(); err != nil {
		return err
	}

	if f.expr == nil {
		return &m.ParseError{Path: f.path, Err: errors.New("test declaration no longer found after edit")}
	}

	return nil
}

// Path returns the path this file was loaded from.
func (f *TestFile) Path() m.Path {
	return f.path
}

// Contents returns the current contents of the file.
func (f *TestFile) Contents() []byte {
	return f.contents
}

// Offset translates a token position in the current tree into a byte
// offset into the contents.
func (f *TestFile) Offset(pos token.Pos) int {
	return f.fset.PositionFor(pos, true).Offset
}

// splice replaces contents[start:end] with repl. Callers must Reparse
// before the next read of tree positions.
func (f *TestFile) splice(start, end int, repl []byte) {
	updated := make([]byte, 0, len(f.contents)-(end-start)+len(repl))
	updated = append(updated, f.contents[:start]...)
	updated = append(updated, repl...)
	updated = append(updated, f.contents[end:]...)
	f.contents = updated
}

// Format canonicalizes the whitespace of the whole buffer, equivalent to
// running gofmt. Called once after all edits; every edit already
// re-parses, so offsets used by the next edit are always fresh.
func (f *TestFile) Format() error {
	output, err := f.goFiles.Format(f.contents)
	if err != nil {
		return err
	}

	f.contents = output

	return f.Reparse()
}

// ParentTestID returns the ID of the file's test declaration, derived from
// the Func field identifier and the package directory name. Parameterized
// variants are not included.
func (f *TestFile) ParentTestID() m.TestID {
	funcName := "UnknownTestID"

	if funcField := f.expr.FindFieldExpr(funcFieldName); funcField != nil {
		if ident, ok := funcField.expr.Value.(*ast.Ident); ok {
			funcName = ident.Name
		}
	}

	packageName := filepath.Base(filepath.Dir(string(f.path)))

	return m.TestID(testIDPrefix + "." + packageName + "." + funcName)
}

// FindTestField returns the named field of the test declaration, or nil
// if it is undefined.
func (f *TestFile) FindTestField(fieldName string) *FieldExpr {
	return f.expr.FindFieldExpr(fieldName)
}

// RemoveTestField removes the named field from the test declaration.
func (f *TestFile) RemoveTestField(fieldName string) (bool, error) {
	return f.expr.RemoveField(f, fieldName)
}

// SetTestField sets the named field of the test declaration to the given
// code text, adding the field if it is not yet defined.
func (f *TestFile) SetTestField(fieldName, newValue string) (bool, error) {
	return f.expr.SetField(f, fieldName, newValue)
}

// AddToTestStrings adds the given values to a string slice field of the
// test declaration.
func (f *TestFile) AddToTestStrings(fieldName string, input []string, format m.Format) (bool, error) {
	return f.expr.AddToStrings(f, fieldName, input, format)
}

// RemoveStringsFromTest removes the given values from a string slice field
// of the test declaration.
func (f *TestFile) RemoveStringsFromTest(fieldName string, input []string, format m.Format) (bool, error) {
	return f.expr.RemoveFromStrings(f, fieldName, input, format)
}

// Contacts returns the contacts declared in this file, or an empty slice
// when the Contacts field is undefined.
func (f *TestFile) Contacts() ([]string, error) {
	contactsExpr := f.expr.FindFieldExpr(contactsFieldName)
	if contactsExpr == nil {
		return []string{}, nil
	}

	return contactsExpr.Strings()
}

// SetContacts replaces the contents of the Contacts list, adding the field
// if necessary. Each email is put on its own line. An empty input is a
// no-op.
func (f *TestFile) SetContacts(emails []string) (bool, error) {
	if len(emails) == 0 {
		return false, nil
	}

	return f.SetTestField(contactsFieldName, FormatStrings(m.FormatMultiLine, emails))
}
