package view

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/daftarhq/daftar/internal/order"
	"github.com/daftarhq/daftar/internal/view"
)

func newTestOrders() []*order.Order {
	return []*order.Order{
		{ID: uuid.New(), Name: "مؤسسة النور", Date: "2024-03-15", Type: order.TypeIncome, Status: order.StatusPending},
		{ID: uuid.New(), Name: "شراء معدات", Date: "2024-03-20", Type: order.TypeExpense, Status: order.StatusPending},
	}
}

func TestOrdersModel_DeleteFailureKeepsSelection(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := order.NewMockRepository(ctrl)

	svc := order.NewService(repo)
	projector := view.NewProjector()
	selection := view.NewSelection()

	m := NewOrdersModel(svc, projector, selection)

	orders := newTestOrders()
	updated, _ := m.Update(SnapshotMsg{Orders: orders})
	m = updated.(OrdersModel)

	selection.Toggle(orders[0].ID)
	selection.Toggle(orders[1].ID)

	repo.EXPECT().
		DeleteOrders(gomock.Any(), gomock.Any()).
		Return(errors.New("store unavailable"))

	cmd := m.deleteSelectedCmd()
	require.NotNil(t, cmd)

	msg, ok := cmd().(orderActionMsg)
	require.True(t, ok)
	require.Error(t, msg.err)
	assert.False(t, msg.clearSelection)

	updated, _ = m.Update(msg)
	m = updated.(OrdersModel)

	// The selection survives the failed delete and no success text is shown.
	assert.Equal(t, 2, selection.Count(m.liveIDs()))
	assert.Contains(t, m.status, "Error")
	assert.NotContains(t, m.status, "Deleted")
}

func TestOrdersModel_DeleteSuccessClearsSelection(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := order.NewMockRepository(ctrl)

	svc := order.NewService(repo)
	projector := view.NewProjector()
	selection := view.NewSelection()

	m := NewOrdersModel(svc, projector, selection)

	orders := newTestOrders()
	updated, _ := m.Update(SnapshotMsg{Orders: orders})
	m = updated.(OrdersModel)

	selection.Toggle(orders[0].ID)

	repo.EXPECT().
		DeleteOrders(gomock.Any(), []uuid.UUID{orders[0].ID}).
		Return(nil)

	msg, ok := m.deleteSelectedCmd()().(orderActionMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)
	assert.True(t, msg.clearSelection)

	updated, _ = m.Update(msg)
	m = updated.(OrdersModel)

	assert.Equal(t, 0, selection.Count(m.liveIDs()))
	assert.Contains(t, m.status, "Deleted 1")
}
