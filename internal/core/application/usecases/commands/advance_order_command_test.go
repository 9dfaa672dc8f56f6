package commands_test

import (
	"testing"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdvanceOrderCommand(t *testing.T) {
	cmd, err := commands.NewAdvanceOrderCommand(7)

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, int64(7), cmd.OrderID())
}

func TestNewAdvanceOrderCommand_RejectsNonPositiveID(t *testing.T) {
	for _, id := range []int64{0, -1} {
		_, err := commands.NewAdvanceOrderCommand(id)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "order id")
	}
}

func TestAdvanceOrderCommand_NotConstructed(t *testing.T) {
	var cmd commands.AdvanceOrderCommand

	assert.Equal(t, commands.ErrAdvanceOrderCommandIsNotConstructed, cmd.Validate())
}
