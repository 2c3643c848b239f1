package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCmd(t *testing.T) {
	cmd, mockWorkflow, _ := newTestRoot(t, newListCmd())
	mockWorkflow.EXPECT().List().Return(nil)

	cmd.SetArgs([]string{"list"})
	require.NoError(t, cmd.Execute())
}

func TestListCmd_Error(t *testing.T) {
	cmd, mockWorkflow, _ := newTestRoot(t, newListCmd())
	boom := errors.New("boom")
	mockWorkflow.EXPECT().List().Return(boom)

	cmd.SetArgs([]string{"list"})
	require.ErrorIs(t, cmd.Execute(), boom)
}

func TestListCmd_RejectsArgs(t *testing.T) {
	cmd, _, _ := newTestRoot(t, newListCmd())

	cmd.SetArgs([]string{"list", "extra"})
	require.Error(t, cmd.Execute())
	assert.Equal(t, listLongDescription, newListCmd().Long)
}
