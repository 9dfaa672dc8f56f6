package commands_test

import (
	"testing"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validItems() []commands.NewOrderItem {
	return []commands.NewOrderItem{
		{Description: "Combo hamburguesa", Quantity: 2, UnitPrice: decimal.RequireFromString("25.5")},
		{Description: "Refresco", Quantity: 2, UnitPrice: decimal.RequireFromString("5.75")},
	}
}

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	cmd, err := commands.NewCreateOrderCommand("Juan Pérez", validItems())

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, "Juan Pérez", cmd.ClientName())
	require.Len(t, cmd.Items(), 2)
	assert.Equal(t, "Combo hamburguesa", cmd.Items()[0].Description())
	assert.Equal(t, 2, cmd.Items()[1].Quantity())
}

func TestNewCreateOrderCommand_NoItems(t *testing.T) {
	cmd, err := commands.NewCreateOrderCommand("Juan", nil)

	require.NoError(t, err)
	assert.Empty(t, cmd.Items())
}

func TestNewCreateOrderCommand_EmptyClientName(t *testing.T) {
	_, err := commands.NewCreateOrderCommand("", validItems())

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.Contains(t, err.Error(), "client name")
}

func TestNewCreateOrderCommand_InvalidItems(t *testing.T) {
	tests := []struct {
		name     string
		item     commands.NewOrderItem
		contains string
	}{
		{"empty description", commands.NewOrderItem{Quantity: 1, UnitPrice: decimal.NewFromInt(1)}, "description"},
		{"zero quantity", commands.NewOrderItem{Description: "x", Quantity: 0, UnitPrice: decimal.NewFromInt(1)}, "quantity"},
		{"negative price", commands.NewOrderItem{Description: "x", Quantity: 1, UnitPrice: decimal.NewFromInt(-1)}, "unit price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := commands.NewCreateOrderCommand("Juan", []commands.NewOrderItem{tt.item})

			require.Error(t, err)
			assert.True(t, errs.IsValidation(err))
			assert.Contains(t, err.Error(), "item 0")
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestCreateOrderCommand_NotConstructed(t *testing.T) {
	var cmd commands.CreateOrderCommand

	assert.Equal(t, commands.ErrCreateOrderCommandIsNotConstructed, cmd.Validate())
}
