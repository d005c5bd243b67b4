package actions

import (
	"tastmod.dev/pkg/tastmod/internal/domain"
	m "tastmod.dev/pkg/tastmod/internal/model"
)

// TestNames returns a filter that matches files whose declared test IDs
// (the parent declaration plus any parameterized variants) overlap the
// requested IDs.
func TestNames(ids []m.TestID) domain.Filter {
	want := m.NewTestIDSet(ids...)

	return func(f *domain.TestFile) (bool, error) {
		declared, err := f.ParamTestIDs()
		if err != nil {
			return false, err
		}

		declared.Add(f.ParentTestID())

		return len(declared.Overlap(want)) > 0, nil
	}
}
