package domain

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	m "tastmod.dev/pkg/tastmod/internal/model"
)

func fieldStrings(t *testing.T, f *TestFile, fieldName string) []string {
	t.Helper()

	field := f.FindTestField(fieldName)
	if field == nil {
		t.Fatalf("field %s is undefined", fieldName)
	}

	values, err := field.Strings()
	if err != nil {
		t.Fatalf("Strings() error = %v", err)
	}

	return values
}

func TestAddToStrings_AppendsMissingInOrder(t *testing.T) {
	f := mustTestFile(t, simpleSrc)

	modified, err := f.AddToTestStrings("Attr", []string{"group:one", "group:two"}, m.FormatOneLine)
	if err != nil {
		t.Fatalf("AddToTestStrings() error = %v", err)
	}

	if !modified {
		t.Fatalf("AddToTestStrings() reported no modification")
	}

	want := []string{"group:mainline", "group:one", "group:two"}
	if diff := cmp.Diff(want, fieldStrings(t, f, "Attr")); diff != "" {
		t.Fatalf("Attr mismatch (-want +got):\n%s", diff)
	}
}

func TestAddToStrings_SkipsElementsAlreadyPresent(t *testing.T) {
	f := mustTestFile(t, simpleSrc)

	modified, err := f.AddToTestStrings("Attr", []string{"group:mainline", "group:new"}, m.FormatOneLine)
	if err != nil {
		t.Fatalf("AddToTestStrings() error = %v", err)
	}

	if !modified {
		t.Fatalf("AddToTestStrings() reported no modification")
	}

	want := []string{"group:mainline", "group:new"}
	if diff := cmp.Diff(want, fieldStrings(t, f, "Attr")); diff != "" {
		t.Fatalf("Attr mismatch (-want +got):\n%s", diff)
	}
}

func TestAddToStrings_AllPresentNoOp(t *testing.T) {
	f := mustTestFile(t, simpleSrc)
	before := string(f.Contents())

	modified, err := f.AddToTestStrings("Attr", []string{"group:mainline"}, m.FormatOneLine)
	if err != nil {
		t.Fatalf("AddToTestStrings() error = %v", err)
	}

	if modified {
		t.Fatalf("AddToTestStrings() modified the file without new elements")
	}

	if string(f.Contents()) != before {
		t.Fatalf("AddToTestStrings() changed the buffer on a no-op")
	}
}

func TestAddToStrings_CreatesUndefinedField(t *testing.T) {
	f := mustTestFile(t, simpleSrc)

	modified, err := f.AddToTestStrings("SoftwareDeps", []string{"chrome"}, m.FormatOneLine)
	if err != nil {
		t.Fatalf("AddToTestStrings() error = %v", err)
	}

	if !modified {
		t.Fatalf("AddToTestStrings() reported no modification")
	}

	if diff := cmp.Diff([]string{"chrome"}, fieldStrings(t, f, "SoftwareDeps")); diff != "" {
		t.Fatalf("SoftwareDeps mismatch (-want +got):\n%s", diff)
	}
}

// New fields must land before the Params block so scalar metadata stays
// grouped ahead of the variant list.
func TestSetField_InsertsBeforeParams(t *testing.T) {
	f := mustTestFile(t, paramSrc)

	modified, err := f.SetTestField("Attr", `[]string{"group:mainline"}`)
	if err != nil {
		t.Fatalf("SetTestField() error = %v", err)
	}

	if !modified {
		t.Fatalf("SetTestField() reported no modification")
	}

	attrIdx, paramsIdx := -1, -1

	for i, field := range f.expr.AllFieldExprs() {
		switch field.Name() {
		case "Attr":
			attrIdx = i
		case "Params":
			paramsIdx = i
		}
	}

	if attrIdx == -1 || paramsIdx == -1 {
		t.Fatalf("missing Attr (%d) or Params (%d) after insertion", attrIdx, paramsIdx)
	}

	if attrIdx > paramsIdx {
		t.Fatalf("Attr inserted after Params (attr=%d params=%d)", attrIdx, paramsIdx)
	}
}

func TestSetField_ReplacesValueSpanOnly(t *testing.T) {
	f := mustTestFile(t, simpleSrc)

	modified, err := f.SetTestField("Desc", `"updated description"`)
	if err != nil {
		t.Fatalf("SetTestField() error = %v", err)
	}

	if !modified {
		t.Fatalf("SetTestField() reported no modification")
	}

	desc, err := f.FindTestField("Desc").StringValue()
	if err != nil {
		t.Fatalf("StringValue() error = %v", err)
	}

	if desc != "updated description" {
		t.Fatalf("Desc = %q", desc)
	}

	if !strings.Contains(string(f.Contents()), `Desc: "updated description",`) {
		t.Fatalf("value replacement disturbed the surrounding formatting:\n%s", f.Contents())
	}
}

func TestRemoveField_UndefinedNoOp(t *testing.T) {
	f := mustTestFile(t, paramSrc)
	before := string(f.Contents())

	modified, err := f.RemoveTestField("Attr")
	if err != nil {
		t.Fatalf("RemoveTestField() error = %v", err)
	}

	if modified {
		t.Fatalf("RemoveTestField() modified the file for an undefined field")
	}

	if string(f.Contents()) != before {
		t.Fatalf("RemoveTestField() changed the buffer for an undefined field")
	}
}

func TestRemoveField_ConsumesTrailingSeparator(t *testing.T) {
	f := mustTestFile(t, simpleSrc)

	modified, err := f.RemoveTestField("Desc")
	if err != nil {
		t.Fatalf("RemoveTestField() error = %v", err)
	}

	if !modified {
		t.Fatalf("RemoveTestField() reported no modification")
	}

	if f.FindTestField("Desc") != nil {
		t.Fatalf("Desc still present after removal")
	}

	if strings.Contains(string(f.Contents()), "a simple test") {
		t.Fatalf("Desc value still present in buffer:\n%s", f.Contents())
	}

	// The remaining buffer must still format cleanly.
	if err := f.Format(); err != nil {
		t.Fatalf("Format() after removal error = %v", err)
	}
}

func TestRemoveFromStrings_EmptyingRemovesField(t *testing.T) {
	f := mustTestFile(t, simpleSrc)

	modified, err := f.RemoveStringsFromTest("Attr", []string{"group:mainline"}, m.FormatOneLine)
	if err != nil {
		t.Fatalf("RemoveStringsFromTest() error = %v", err)
	}

	if !modified {
		t.Fatalf("RemoveStringsFromTest() reported no modification")
	}

	if f.FindTestField("Attr") != nil {
		t.Fatalf("Attr field left behind as an empty literal")
	}
}

func TestRemoveFromStrings_NoMatchNoOp(t *testing.T) {
	f := mustTestFile(t, simpleSrc)
	before := string(f.Contents())

	modified, err := f.RemoveStringsFromTest("Attr", []string{"group:absent"}, m.FormatOneLine)
	if err != nil {
		t.Fatalf("RemoveStringsFromTest() error = %v", err)
	}

	if modified {
		t.Fatalf("RemoveStringsFromTest() modified the file without matches")
	}

	if string(f.Contents()) != before {
		t.Fatalf("RemoveStringsFromTest() changed the buffer on a no-op")
	}
}

func TestRemoveFromStrings_UndefinedFieldNoOp(t *testing.T) {
	f := mustTestFile(t, paramSrc)

	modified, err := f.RemoveStringsFromTest("Attr", []string{"group:mainline"}, m.FormatOneLine)
	if err != nil {
		t.Fatalf("RemoveStringsFromTest() error = %v", err)
	}

	if modified {
		t.Fatalf("RemoveStringsFromTest() modified the file for an undefined field")
	}
}
