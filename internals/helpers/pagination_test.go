package helper

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pagingFor(t *testing.T, target string) Paging {
	t.Helper()
	app := fiber.New()
	var got Paging
	app.Get("/items", func(c *fiber.Ctx) error {
		got = ResolvePaging(c, 20, 100)
		return c.SendStatus(fiber.StatusOK)
	})
	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return got
}

func TestResolvePaging(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p := pagingFor(t, "/items")
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 20, p.PerPage)
		assert.Zero(t, p.Offset)
	})

	t.Run("explicit page and per_page", func(t *testing.T) {
		p := pagingFor(t, "/items?page=3&per_page=10")
		assert.Equal(t, 3, p.Page)
		assert.Equal(t, 10, p.Limit)
		assert.Equal(t, 20, p.Offset)
	})

	t.Run("limit alias and cap", func(t *testing.T) {
		p := pagingFor(t, "/items?limit=500")
		assert.Equal(t, 100, p.PerPage)
	})

	t.Run("garbage falls back", func(t *testing.T) {
		p := pagingFor(t, "/items?page=-2&per_page=abc")
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 20, p.PerPage)
	})
}

func TestBuildPaginationFromPage(t *testing.T) {
	p := BuildPaginationFromPage(45, 2, 20)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	empty := BuildPaginationFromPage(0, 1, 20)
	assert.Equal(t, 1, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}
