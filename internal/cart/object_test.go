package cart

import (
	"errors"
	"log/slog"
	"testing"

	restate "github.com/restatedev/sdk-go"
	"github.com/restatedev/sdk-go/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pithomlabs/rainydays/internal/catalog"
)

func TestCartSession_AddItem_MergesByProductID(t *testing.T) {
	mockCtx := mocks.NewMockContext(t)

	existing := Cart{Lines: []Line{{Product: product("a"), Quantity: 1}}}
	merged := Cart{Lines: []Line{{Product: product("a"), Quantity: 3}}}

	mockCtx.EXPECT().Key().Return("session-1")
	mockCtx.EXPECT().Log().Return(slog.Default())
	mockCtx.EXPECT().GetAndReturn(stateKeyCart, existing)
	mockCtx.EXPECT().Set(stateKeyCart, merged)

	summary, err := CartSession{}.AddItem(restate.WithMockContext(mockCtx),
		AddItemRequest{Product: product("a"), Quantity: 2})
	require.NoError(t, err)
	require.Len(t, summary.Lines, 1)
	assert.Equal(t, 3, summary.Lines[0].Quantity)
	assert.Equal(t, 3, summary.Count)
}

func TestCartSession_AddItem_RejectsNonPositiveQuantity(t *testing.T) {
	mockCtx := mocks.NewMockContext(t)
	mockCtx.EXPECT().Key().Return("session-1")

	// No Get or Set expectations: a rejection must not touch state.
	_, err := CartSession{}.AddItem(restate.WithMockContext(mockCtx),
		AddItemRequest{Product: product("a"), Quantity: 0})
	require.Error(t, err)
	assert.True(t, restate.IsTerminalError(err))
}

func TestCartSession_RemoveItem(t *testing.T) {
	t.Run("absent id is a no-op", func(t *testing.T) {
		mockCtx := mocks.NewMockContext(t)

		existing := Cart{Lines: []Line{{Product: product("a"), Quantity: 1}}}
		mockCtx.EXPECT().Key().Return("session-1")
		mockCtx.EXPECT().Log().Return(slog.Default())
		mockCtx.EXPECT().GetAndReturn(stateKeyCart, existing)
		mockCtx.EXPECT().Set(stateKeyCart, existing)

		summary, err := CartSession{}.RemoveItem(restate.WithMockContext(mockCtx), "ghost")
		require.NoError(t, err)
		assert.Len(t, summary.Lines, 1)
	})

	t.Run("deletes the line", func(t *testing.T) {
		mockCtx := mocks.NewMockContext(t)

		existing := Cart{Lines: []Line{
			{Product: product("a"), Quantity: 1},
			{Product: product("b"), Quantity: 2},
		}}
		mockCtx.EXPECT().Key().Return("session-1")
		mockCtx.EXPECT().Log().Return(slog.Default())
		mockCtx.EXPECT().GetAndReturn(stateKeyCart, existing)
		mockCtx.EXPECT().Set(stateKeyCart, Cart{Lines: []Line{{Product: product("b"), Quantity: 2}}})

		summary, err := CartSession{}.RemoveItem(restate.WithMockContext(mockCtx), "a")
		require.NoError(t, err)
		require.Len(t, summary.Lines, 1)
		assert.Equal(t, "b", summary.Lines[0].ID)
	})
}

func TestCartSession_UpdateQuantity_ZeroRemoves(t *testing.T) {
	mockCtx := mocks.NewMockContext(t)

	existing := Cart{Lines: []Line{{Product: product("a"), Quantity: 4}}}
	mockCtx.EXPECT().GetAndReturn(stateKeyCart, existing)
	mockCtx.EXPECT().Set(stateKeyCart, Cart{Lines: []Line{}})

	summary, err := CartSession{}.UpdateQuantity(restate.WithMockContext(mockCtx),
		UpdateQuantityRequest{ProductID: "a", Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, summary.Lines)
}

func TestCartSession_Clear(t *testing.T) {
	mockCtx := mocks.NewMockContext(t)

	mockCtx.EXPECT().Key().Return("session-1")
	mockCtx.EXPECT().Log().Return(slog.Default())
	mockCtx.EXPECT().Clear(stateKeyCart)

	err := CartSession{}.Clear(restate.WithMockContext(mockCtx), restate.Void{})
	require.NoError(t, err)
}

func TestCartSession_ImportCart(t *testing.T) {
	t.Run("merges into existing lines", func(t *testing.T) {
		mockCtx := mocks.NewMockContext(t)

		existing := Cart{Lines: []Line{{Product: product("a"), Quantity: 1}}}
		merged := Cart{Lines: []Line{
			{Product: product("a"), Quantity: 3},
			{Product: catalog.Product{ID: "b", Title: "Product b", Price: 5}, Quantity: 1},
		}}
		mockCtx.EXPECT().Key().Return("session-1")
		mockCtx.EXPECT().Log().Return(slog.Default())
		mockCtx.EXPECT().GetAndReturn(stateKeyCart, existing)
		mockCtx.EXPECT().Set(stateKeyCart, merged)

		summary, err := CartSession{}.ImportCart(restate.WithMockContext(mockCtx), []byte(`{"lines":[
			{"id":"a","title":"Product a","price":10,"quantity":2},
			{"id":"b","title":"Product b","price":5,"quantity":1}
		]}`))
		require.NoError(t, err)
		require.Len(t, summary.Lines, 2)
		assert.Equal(t, 3, summary.Lines[0].Quantity)
	})

	t.Run("malformed payload imports as empty", func(t *testing.T) {
		mockCtx := mocks.NewMockContext(t)

		existing := Cart{Lines: []Line{{Product: product("a"), Quantity: 1}}}
		mockCtx.EXPECT().Key().Return("session-1")
		mockCtx.EXPECT().Log().Return(slog.Default())
		mockCtx.EXPECT().GetAndReturn(stateKeyCart, existing)
		mockCtx.EXPECT().Set(stateKeyCart, existing)

		summary, err := CartSession{}.ImportCart(restate.WithMockContext(mockCtx), []byte(`{"lines":[{`))
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Count, "existing cart untouched")
	})
}

func TestCartSession_GetCart_Totals(t *testing.T) {
	mockCtx := mocks.NewMockContext(t)

	var c Cart
	c.Add(catalog.Product{ID: "a", Price: 10}, 2)
	c.Add(catalog.Product{ID: "b", Price: 20, DiscountedPrice: 15, OnSale: true}, 1)
	mockCtx.EXPECT().GetAndReturn(stateKeyCart, c)

	summary, err := CartSession{}.GetCart(restate.WithMockContext(mockCtx), restate.Void{})
	require.NoError(t, err)
	assert.Equal(t, 35.0, summary.Total)
	assert.Equal(t, 3, summary.Count)

	count, err := CartSession{}.GetCount(restate.WithMockContext(mockCtx), restate.Void{})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestCartSession_GetCart_UndecodableStateReadsAsEmpty(t *testing.T) {
	mockCtx := mocks.NewMockContext(t)
	mockCtx.EXPECT().Get(stateKeyCart, mock.Anything).Return(false, errors.New("json: cannot unmarshal"))

	summary, err := CartSession{}.GetCart(restate.WithMockContext(mockCtx), restate.Void{})
	require.NoError(t, err)
	assert.Empty(t, summary.Lines)
	assert.Zero(t, summary.Count)
}
