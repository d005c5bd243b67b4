// Package actions provides the semantic edits and filters composed by the
// orchestrator. Each constructor returns a plain function value over a
// TestFile; no state is shared between files.
package actions

import (
	"slices"

	"tastmod.dev/pkg/tastmod/internal/domain"
	m "tastmod.dev/pkg/tastmod/internal/model"
)

const contactsFieldName = "Contacts"

// ReplaceContact returns an action that replaces one email address with
// another in the Contacts list. If the replacement is already present
// elsewhere in the list the old entry is dropped instead, so no address
// ever appears twice.
func ReplaceContact(oldEmail, newEmail string) domain.Action {
	return func(f *domain.TestFile) (bool, error) {
		contacts, err := f.Contacts()
		if err != nil {
			return false, err
		}

		if !slices.Contains(contacts, oldEmail) {
			return false, nil
		}

		updated := make([]string, 0, len(contacts))

		for _, email := range contacts {
			if email == oldEmail {
				if slices.Contains(contacts, newEmail) {
					continue
				}

				updated = append(updated, newEmail)

				continue
			}

			updated = append(updated, email)
		}

		if slices.Equal(updated, contacts) {
			return false, nil
		}

		return f.SetContacts(updated)
	}
}

// RemoveContacts returns an action that removes the given email addresses
// from the Contacts list. Removing every contact removes the field
// entirely rather than leaving an empty list.
func RemoveContacts(emails []string) domain.Action {
	return func(f *domain.TestFile) (bool, error) {
		return f.RemoveStringsFromTest(contactsFieldName, emails, m.FormatMultiLine)
	}
}

// AppendContacts returns an action that appends the given emails to the
// end of the Contacts list. An email already present is relocated to the
// end, not duplicated.
func AppendContacts(emails []string) domain.Action {
	return func(f *domain.TestFile) (bool, error) {
		contacts, err := f.Contacts()
		if err != nil {
			return false, err
		}

		updated := append(without(contacts, emails), emails...)
		if slices.Equal(updated, contacts) {
			return false, nil
		}

		return f.SetContacts(updated)
	}
}

// PrependContacts returns an action that prepends the given emails to the
// start of the Contacts list. An email already present is relocated to the
// front, not duplicated.
func PrependContacts(emails []string) domain.Action {
	return func(f *domain.TestFile) (bool, error) {
		contacts, err := f.Contacts()
		if err != nil {
			return false, err
		}

		updated := append(slices.Clone(emails), without(contacts, emails)...)
		if slices.Equal(updated, contacts) {
			return false, nil
		}

		return f.SetContacts(updated)
	}
}

// without returns the members of list that are not in remove, preserving
// order.
func without(list, remove []string) []string {
	out := make([]string, 0, len(list))

	for _, elt := range list {
		if !slices.Contains(remove, elt) {
			out = append(out, elt)
		}
	}

	return out
}
