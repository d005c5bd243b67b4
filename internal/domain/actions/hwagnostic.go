package actions

import (
	"tastmod.dev/pkg/tastmod/internal/domain"
	m "tastmod.dev/pkg/tastmod/internal/model"
)

// The hw_agnostic group can be declared at two granularities:
//   - Attr marks the test overall, covering every parameterized variant.
//   - ExtraAttr marks a single parameterized variant.
//
// The group has OR semantics across the two scopes, so the actions below
// normalize representations to avoid redundant or contradictory states.
const (
	hwAgnosticAttr     = "group:hw_agnostic"
	attrFieldName      = "Attr"
	extraAttrFieldName = "ExtraAttr"
)

// hwAgnosticInField returns whether the given field holds the hw_agnostic
// group. A nil (undefined) field holds nothing.
func hwAgnosticInField(field *domain.FieldExpr) (bool, error) {
	if field == nil {
		return false, nil
	}

	elts, err := field.Strings()
	if err != nil {
		return false, err
	}

	for _, elt := range elts {
		if elt == hwAgnosticAttr {
			return true, nil
		}
	}

	return false, nil
}

// isHwAgnosticTest returns whether the overall test is hw_agnostic.
func isHwAgnosticTest(f *domain.TestFile) (bool, error) {
	return hwAgnosticInField(f.FindTestField(attrFieldName))
}

// isHwAgnosticParam returns whether the given variant is hw_agnostic.
func isHwAgnosticParam(f *domain.TestFile, id m.TestID) (bool, error) {
	field, err := f.FindParamField(extraAttrFieldName, id)
	if err != nil {
		return false, err
	}

	return hwAgnosticInField(field)
}

// setHwAgnosticAll marks every test in the file as hw_agnostic at the
// whole-declaration granularity, clearing any per-variant marks that would
// become redundant.
func setHwAgnosticAll(f *domain.TestFile, paramTests m.TestIDSet) (bool, error) {
	modified := false

	for id := range paramTests {
		loopModified, err := unsetHwAgnosticParamTest(f, id)
		if err != nil {
			return modified, err
		}

		modified = modified || loopModified
	}

	addModified, err := f.AddToTestStrings(attrFieldName, []string{hwAgnosticAttr}, m.FormatOneLine)

	return modified || addModified, err
}

// setHwAgnosticParamTest marks the given variant as hw_agnostic.
func setHwAgnosticParamTest(f *domain.TestFile, id m.TestID) (bool, error) {
	return f.AddToParamStrings(id, extraAttrFieldName, []string{hwAgnosticAttr}, m.FormatOneLine)
}

// unsetHwAgnosticAll ensures no test in the file is marked hw_agnostic at
// either granularity.
func unsetHwAgnosticAll(f *domain.TestFile, paramTests m.TestIDSet) (bool, error) {
	modified := false

	for id := range paramTests {
		loopModified, err := f.RemoveStringsFromParam(
			id, extraAttrFieldName, []string{hwAgnosticAttr}, m.FormatOneLine)
		if err != nil {
			return modified, err
		}

		modified = modified || loopModified
	}

	removeModified, err := f.RemoveStringsFromTest(attrFieldName, []string{hwAgnosticAttr}, m.FormatOneLine)

	return modified || removeModified, err
}

// unsetHwAgnosticParamTest unmarks the given variant.
func unsetHwAgnosticParamTest(f *domain.TestFile, id m.TestID) (bool, error) {
	return f.RemoveStringsFromParam(id, extraAttrFieldName, []string{hwAgnosticAttr}, m.FormatOneLine)
}

// SetHwAgnostic returns an action that sets hw_agnostic for the given test
// IDs (or for all tests if the set is empty). The value is set by adding
// "group:hw_agnostic" to the Attr field, or to the ExtraAttr field of
// individual parameterized variants, collapsing to the whole-declaration
// form whenever the per-variant marks would be redundant.
func SetHwAgnostic(tests m.TestIDSet) domain.Action {
	return func(f *domain.TestFile) (bool, error) {
		parentID := f.ParentTestID()

		paramTests, err := f.ParamTestIDs()
		if err != nil {
			return false, err
		}

		// No test filter applied; add to everything.
		if len(tests) == 0 {
			return setHwAgnosticAll(f, paramTests)
		}

		// If this file has no parameterized variants, only the parent test
		// can carry the mark.
		if len(paramTests) == 0 {
			return setHwAgnosticAll(f, paramTests)
		}

		// If the file is already hw_agnostic at the top level, every variant
		// is covered; nothing to do.
		isHwAgnostic, err := isHwAgnosticTest(f)
		if err != nil || isHwAgnostic {
			return false, err
		}

		// A parent ID in the filter is either an anonymous default variant
		// (treated as a variant) or a shortcut for the entire file.
		if tests.Has(parentID) && !paramTests.Has(parentID) {
			return setHwAgnosticAll(f, paramTests)
		}

		// If the filter covers every variant present, set the whole file.
		overlap := paramTests.Overlap(tests)
		if len(overlap) == len(paramTests) {
			return setHwAgnosticAll(f, paramTests)
		}

		// Not every variant matched the filter. If all the remaining ones
		// are ALREADY hw_agnostic, setting the whole file is equivalent and
		// tidier.
		allAlreadyMatched := true

		for id := range paramTests.Difference(tests) {
			isHwAgnostic, err := isHwAgnosticParam(f, id)
			if err != nil {
				return false, err
			}

			if !isHwAgnostic {
				allAlreadyMatched = false
				break
			}
		}

		if allAlreadyMatched {
			return setHwAgnosticAll(f, paramTests)
		}

		// Default: set only the variants in the filter.
		modified := false

		for id := range overlap {
			loopModified, err := setHwAgnosticParamTest(f, id)
			if err != nil {
				return modified || loopModified, err
			}

			modified = modified || loopModified
		}

		return modified, nil
	}
}

// UnsetHwAgnostic returns an action that removes the hw_agnostic mark from
// the given test IDs (or from all tests if the set is empty), removing
// "group:hw_agnostic" from the Attr or ExtraAttr fields. Clearing the
// whole-declaration mark while only some variants are targeted re-marks
// the untargeted variants individually, since the umbrella mark covered
// them too.
func UnsetHwAgnostic(tests m.TestIDSet) domain.Action {
	return func(f *domain.TestFile) (bool, error) {
		parentID := f.ParentTestID()

		paramTests, err := f.ParamTestIDs()
		if err != nil {
			return false, err
		}

		// No test filter applied; remove from everything.
		if len(tests) == 0 {
			return unsetHwAgnosticAll(f, paramTests)
		}

		// If this file has no parameterized variants, only the parent test
		// can carry the mark.
		if len(paramTests) == 0 {
			return unsetHwAgnosticAll(f, paramTests)
		}

		// A parent ID in the filter is either an anonymous default variant
		// (treated as a variant) or a shortcut for the entire file.
		if tests.Has(parentID) && !paramTests.Has(parentID) {
			return unsetHwAgnosticAll(f, paramTests)
		}

		// If the filter covers every variant present, unset the whole file.
		overlap := paramTests.Overlap(tests)
		if len(overlap) == len(paramTests) {
			return unsetHwAgnosticAll(f, paramTests)
		}

		// Not every variant matched the filter. If the whole file is marked,
		// clear the umbrella mark and re-mark the variants that were not
		// targeted.
		isHwAgnostic, err := isHwAgnosticTest(f)
		if err != nil {
			return false, err
		}

		if isHwAgnostic {
			if _, err := unsetHwAgnosticAll(f, paramTests); err != nil {
				return false, err
			}

			for id := range paramTests.Difference(tests) {
				if _, err := setHwAgnosticParamTest(f, id); err != nil {
					return false, err
				}
			}
		}

		// Unset only the variants in the filter as the default case.
		modified := isHwAgnostic

		for id := range overlap {
			loopModified, err := unsetHwAgnosticParamTest(f, id)
			if err != nil {
				return modified || loopModified, err
			}

			modified = modified || loopModified
		}

		return modified, nil
	}
}
