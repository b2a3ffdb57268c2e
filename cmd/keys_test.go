package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/viewspy/internal/domain"
	domainmocks "gooze.dev/pkg/viewspy/internal/domain/mocks"
	m "gooze.dev/pkg/viewspy/internal/model"
	"gooze.dev/pkg/viewspy/pkg/keys"
)

func withMockWorkflow(t *testing.T) *domainmocks.MockWorkflow {
	t.Helper()

	mockWorkflow := domainmocks.NewMockWorkflow(t)

	originalWorkflow := workflow
	workflow = mockWorkflow

	t.Cleanup(func() { workflow = originalWorkflow })

	return mockWorkflow
}

func TestKeysCmd_DefaultArgs(t *testing.T) {
	mockWorkflow := withMockWorkflow(t)

	cmd, _ := newTestRootCmd(t, newKeysCmd())

	mockWorkflow.On("Keys", mock.Anything, mock.MatchedBy(func(args domain.KeysArgs) bool {
		return len(args.Paths) == 0 &&
			args.Threads == defaultParallel &&
			args.Pattern == ""
	})).Return(nil)

	cmd.SetArgs([]string{"keys"})
	require.NoError(t, cmd.Execute())
}

func TestKeysCmd_PathsAndFlags(t *testing.T) {
	mockWorkflow := withMockWorkflow(t)

	cmd, _ := newTestRootCmd(t, newKeysCmd())

	t.Cleanup(func() { keysPatternFlag = "" })

	mockWorkflow.On("Keys", mock.Anything, mock.MatchedBy(func(args domain.KeysArgs) bool {
		return len(args.Paths) == 2 &&
			args.Paths[0] == m.Path("./view/...") &&
			args.Paths[1] == m.Path("./app") &&
			args.Threads == 2 &&
			args.Pattern == keys.PatternEnvironmentObject &&
			len(args.Exclude) == 1 && args.Exclude[0] == `_gen\.go$`
	})).Return(nil)

	cmd.SetArgs([]string{"keys", "-p", "2", "-x", `_gen\.go$`, "--pattern", "Environment-Object", "./view/...", "./app"})
	require.NoError(t, cmd.Execute())
}

func TestKeysCmd_UnknownPattern(t *testing.T) {
	withMockWorkflow(t)

	cmd, _ := newTestRootCmd(t, newKeysCmd())

	t.Cleanup(func() { keysPatternFlag = "" })

	cmd.SetArgs([]string{"keys", "--pattern", "observable"})
	require.ErrorContains(t, cmd.Execute(), "unknown pattern")
}

func TestNewKeysCmd(t *testing.T) {
	cmd := newKeysCmd()

	assert.Equal(t, "keys [paths...]", cmd.Use)
	assert.Equal(t, keysLongDescription, cmd.Long)
	assert.NotNil(t, cmd.Flags().Lookup("pattern"))
}
