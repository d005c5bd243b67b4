package domain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tastmod.dev/pkg/tastmod/internal/adapter"
	m "tastmod.dev/pkg/tastmod/internal/model"
)

// Fixtures mimic the shape of a test bundle file: an init function holding
// a single testing.AddTest call. The parser does not resolve identifiers,
// so no imports are needed.
const simpleSrc = `package mypkg

func init() {
	testing.AddTest(&testing.Test{
		Func: Simple,
		Desc: "a simple test",
		Contacts: []string{
			"alice@example.com",
			"bob@example.com",
		},
		Attr: []string{"group:mainline"},
	})
}
`

const paramSrc = `package mypkg

func init() {
	testing.AddTest(&testing.Test{
		Func: Simple,
		Desc: "a parameterized test",
		Contacts: []string{
			"alice@example.com",
		},
		Params: []testing.Param{{
			Name: "variant1",
			Val:  1,
		}, {
			Name: "variant2",
			Val:  2,
		}},
	})
}
`

const notATestSrc = `package mypkg

func Helper() int {
	return 42
}
`

func mustTestFile(t *testing.T, src string) *TestFile {
	t.Helper()

	f, err := NewTestFile(adapter.NewLocalGoFileAdapter(), "bundles/cros/mypkg/simple.go", []byte(src))
	if err != nil {
		t.Fatalf("NewTestFile() error = %v", err)
	}

	if f == nil {
		t.Fatalf("NewTestFile() found no test declaration in fixture")
	}

	return f
}

func TestNewTestFile_NonTestFile(t *testing.T) {
	f, err := NewTestFile(adapter.NewLocalGoFileAdapter(), "bundles/cros/mypkg/helper.go", []byte(notATestSrc))
	if err != nil {
		t.Fatalf("NewTestFile() error = %v", err)
	}

	if f != nil {
		t.Fatalf("NewTestFile() = %v, want nil for a file without a test declaration", f)
	}
}

func TestNewTestFile_ParseError(t *testing.T) {
	_, err := NewTestFile(adapter.NewLocalGoFileAdapter(), "bundles/cros/mypkg/broken.go", []byte("package mypkg\nfunc"))
	if err == nil {
		t.Fatalf("NewTestFile() expected error for unparsable source")
	}

	var parseErr *m.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("NewTestFile() error = %T, want *ParseError", err)
	}

	if parseErr.Path != "bundles/cros/mypkg/broken.go" {
		t.Fatalf("ParseError path = %s", parseErr.Path)
	}
}

func TestParentTestID(t *testing.T) {
	f := mustTestFile(t, simpleSrc)

	if got := f.ParentTestID(); got != "tast.mypkg.Simple" {
		t.Fatalf("ParentTestID() = %s, want tast.mypkg.Simple", got)
	}
}

func TestParentTestID_MissingFunc(t *testing.T) {
	src := `package mypkg

func init() {
	testing.AddTest(&testing.Test{
		Desc: "no func field",
	})
}
`

	f := mustTestFile(t, src)

	if got := f.ParentTestID(); got != "tast.mypkg.UnknownTestID" {
		t.Fatalf("ParentTestID() = %s, want tast.mypkg.UnknownTestID", got)
	}
}

func TestContacts(t *testing.T) {
	f := mustTestFile(t, simpleSrc)

	contacts, err := f.Contacts()
	if err != nil {
		t.Fatalf("Contacts() error = %v", err)
	}

	want := []string{"alice@example.com", "bob@example.com"}
	if diff := cmp.Diff(want, contacts); diff != "" {
		t.Fatalf("Contacts() mismatch (-want +got):\n%s", diff)
	}
}

func TestContacts_Undefined(t *testing.T) {
	src := `package mypkg

func init() {
	testing.AddTest(&testing.Test{
		Func: Simple,
		Desc: "no contacts",
	})
}
`

	f := mustTestFile(t, src)

	contacts, err := f.Contacts()
	if err != nil {
		t.Fatalf("Contacts() error = %v", err)
	}

	if len(contacts) != 0 {
		t.Fatalf("Contacts() = %v, want empty", contacts)
	}
}

func TestSetContacts(t *testing.T) {
	f := mustTestFile(t, simpleSrc)

	modified, err := f.SetContacts([]string{"carol@example.com"})
	if err != nil {
		t.Fatalf("SetContacts() error = %v", err)
	}

	if !modified {
		t.Fatalf("SetContacts() reported no modification")
	}

	contacts, err := f.Contacts()
	if err != nil {
		t.Fatalf("Contacts() error = %v", err)
	}

	if diff := cmp.Diff([]string{"carol@example.com"}, contacts); diff != "" {
		t.Fatalf("Contacts() mismatch (-want +got):\n%s", diff)
	}
}

func TestSetContacts_EmptyInputNoOp(t *testing.T) {
	f := mustTestFile(t, simpleSrc)
	before := string(f.Contents())

	modified, err := f.SetContacts(nil)
	if err != nil {
		t.Fatalf("SetContacts() error = %v", err)
	}

	if modified {
		t.Fatalf("SetContacts() modified the file for empty input")
	}

	if string(f.Contents()) != before {
		t.Fatalf("SetContacts() changed the buffer for empty input")
	}
}

// An edit that shifts byte offsets must not poison later edits: every
// mutation re-parses before the next read of tree positions.
func TestEditThenEditUsesFreshOffsets(t *testing.T) {
	f := mustTestFile(t, simpleSrc)

	if _, err := f.SetTestField("Desc", `"a considerably longer description than before"`); err != nil {
		t.Fatalf("SetTestField() error = %v", err)
	}

	if _, err := f.RemoveTestField("Attr"); err != nil {
		t.Fatalf("RemoveTestField() error = %v", err)
	}

	contacts, err := f.Contacts()
	if err != nil {
		t.Fatalf("Contacts() error = %v", err)
	}

	want := []string{"alice@example.com", "bob@example.com"}
	if diff := cmp.Diff(want, contacts); diff != "" {
		t.Fatalf("Contacts() mismatch after edits (-want +got):\n%s", diff)
	}

	if f.FindTestField("Attr") != nil {
		t.Fatalf("Attr field still present after removal")
	}
}

func TestFormat_CanonicalizesAndReparses(t *testing.T) {
	f := mustTestFile(t, simpleSrc)

	if _, err := f.RemoveTestField("Desc"); err != nil {
		t.Fatalf("RemoveTestField() error = %v", err)
	}

	if err := f.Format(); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	// The declaration must survive formatting and stay addressable.
	if got := f.ParentTestID(); got != "tast.mypkg.Simple" {
		t.Fatalf("ParentTestID() after Format = %s", got)
	}

	once := string(f.Contents())

	if err := f.Format(); err != nil {
		t.Fatalf("second Format() error = %v", err)
	}

	if string(f.Contents()) != once {
		t.Fatalf("Format() is not idempotent")
	}
}
