package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "tastmod.dev/pkg/tastmod/internal/model"
)

func TestModifyFlags_Mode(t *testing.T) {
	assert.Equal(t, m.ModeDryRunVerbose, (&modifyFlags{}).mode())
	assert.Equal(t, m.ModeWrite, (&modifyFlags{write: true}).mode())
	assert.Equal(t, m.ModeDryRun, (&modifyFlags{dryRun: true}).mode())
	assert.Equal(t, m.ModeDryRunVerbose, (&modifyFlags{dryRunVerbose: true}).mode())
}

func TestModifyFlags_Build_NoAction(t *testing.T) {
	flags := &modifyFlags{}

	_, _, err := flags.build()
	require.ErrorIs(t, err, errNoAction)
}

func TestModifyFlags_Build_ReplaceContactArity(t *testing.T) {
	flags := &modifyFlags{replaceContact: "alice@example.com"}

	_, _, err := flags.build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly two")

	flags.replaceContact = "alice@example.com, bob@example.com"

	filters, actionList, err := flags.build()
	require.NoError(t, err)
	assert.Len(t, actionList, 1)
	assert.Empty(t, filters)
}

func TestModifyFlags_Build_CollectsActions(t *testing.T) {
	flags := &modifyFlags{
		appendContacts: "carol@example.com",
		removeContacts: "alice@example.com",
		setHwAgnostic:  true,
	}

	_, actionList, err := flags.build()
	require.NoError(t, err)
	assert.Len(t, actionList, 3)
}

func TestModifyFlags_Build_TestsAddsFilter(t *testing.T) {
	flags := &modifyFlags{
		setHwAgnostic: true,
		tests:         "tast.mypkg.Simple, tast.mypkg.Simple.variant1",
	}

	filters, actionList, err := flags.build()
	require.NoError(t, err)
	assert.Len(t, actionList, 1)
	assert.Len(t, filters, 1)
}

func TestModifyCmd_ConflictingModeFlags(t *testing.T) {
	cmd := newModifyCmd(&modifyFlags{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--append-contacts", "carol@example.com", "--write", "--dry-run"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write")
	assert.Contains(t, err.Error(), "dry-run")
}

func TestModifyCmd_ConflictingHwAgnosticFlags(t *testing.T) {
	cmd := newModifyCmd(&modifyFlags{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--set-hw-agnostic", "--unset-hw-agnostic"})

	err := cmd.Execute()
	require.Error(t, err)
}
