package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pithomlabs/rainydays/internal/catalog"
)

func product(id string) catalog.Product {
	return catalog.Product{ID: id, Title: "Product " + id, Price: 10}
}

func TestAdd_OneLinePerProductID(t *testing.T) {
	var c Cart

	c.Add(product("a"), 1)
	c.Add(product("b"), 2)
	c.Add(product("a"), 3)
	c.Add(product("b"), 1)
	c.Add(product("a"), 1)

	require.Len(t, c.Lines, 2)
	assert.Equal(t, "a", c.Lines[0].ID)
	assert.Equal(t, 5, c.Lines[0].Quantity)
	assert.Equal(t, "b", c.Lines[1].ID)
	assert.Equal(t, 3, c.Lines[1].Quantity)
}

func TestAdd_PreservesInsertionOrder(t *testing.T) {
	var c Cart

	c.Add(product("x"), 1)
	c.Add(product("y"), 1)
	c.Add(product("x"), 4) // update must not reorder

	assert.Equal(t, "x", c.Lines[0].ID)
	assert.Equal(t, "y", c.Lines[1].ID)
}

func TestRemove_Idempotent(t *testing.T) {
	var c Cart
	c.Add(product("a"), 1)
	c.Add(product("b"), 1)

	c.Remove("a")
	once := c.Snapshot()
	c.Remove("a")

	assert.Equal(t, once, c.Snapshot())
	require.Len(t, c.Lines, 1)
	assert.Equal(t, "b", c.Lines[0].ID)
}

func TestRemove_AbsentIsNoOp(t *testing.T) {
	var c Cart
	c.Add(product("a"), 2)

	c.Remove("ghost")

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)
}

func TestSetQuantity(t *testing.T) {
	t.Run("replaces outright", func(t *testing.T) {
		var c Cart
		c.Add(product("a"), 5)

		c.SetQuantity("a", 2)

		assert.Equal(t, 2, c.Lines[0].Quantity)
	})

	t.Run("zero removes the line", func(t *testing.T) {
		var c Cart
		c.Add(product("a"), 5)

		c.SetQuantity("a", 0)

		assert.Empty(t, c.Lines)
	})

	t.Run("negative removes the line", func(t *testing.T) {
		var c Cart
		c.Add(product("a"), 5)

		c.SetQuantity("a", -5)

		assert.Empty(t, c.Lines)
	})

	t.Run("absent id is a no-op", func(t *testing.T) {
		var c Cart
		c.Add(product("a"), 1)

		c.SetQuantity("ghost", 7)

		require.Len(t, c.Lines, 1)
		assert.Equal(t, "a", c.Lines[0].ID)
	})
}

func TestTotal_UsesSalePriceWhenOnSale(t *testing.T) {
	var c Cart
	c.Add(catalog.Product{ID: "a", Price: 10, OnSale: false}, 2)
	c.Add(catalog.Product{ID: "b", Price: 20, DiscountedPrice: 15, OnSale: true}, 1)

	assert.Equal(t, 35.0, c.Total())
	assert.Equal(t, 3, c.Count())
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	var c Cart
	c.Add(catalog.Product{ID: "a", Title: "Rain Jacket", Price: 99.5, BaseColor: "red"}, 2)
	c.Add(catalog.Product{ID: "b", Title: "Storm Coat", Price: 20, DiscountedPrice: 15, OnSale: true}, 1)

	data, err := c.Encode()
	require.NoError(t, err)

	got := Decode(data)
	assert.Equal(t, c, got)
}

func TestDecode_FallsBackToEmpty(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"absent", nil},
		{"empty", []byte{}},
		{"corrupt json", []byte(`{"lines":[{`)},
		{"wrong shape", []byte(`"just a string"`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Decode(tt.data)
			assert.True(t, c.IsEmpty())
		})
	}
}

func TestDecode_DropsInvalidLines(t *testing.T) {
	c := Decode([]byte(`{"lines":[
		{"id":"a","price":10,"quantity":2},
		{"id":"b","price":10,"quantity":0},
		{"id":"","price":10,"quantity":3}
	]}`))

	require.Len(t, c.Lines, 1)
	assert.Equal(t, "a", c.Lines[0].ID)
}

func TestSnapshot_IsADeepCopy(t *testing.T) {
	var c Cart
	c.Add(product("a"), 1)

	snap := c.Snapshot()
	c.SetQuantity("a", 9)

	assert.Equal(t, 1, snap[0].Quantity)
}
