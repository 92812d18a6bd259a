package query

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageFor(t *testing.T, rawQuery string) Page {
	t.Helper()
	var got Page
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got = FromRequest(c)
		return nil
	})
	_, err := app.Test(httptest.NewRequest("GET", "/?"+rawQuery, nil))
	require.NoError(t, err)
	return got
}

func TestFromRequest(t *testing.T) {
	assert.Equal(t, Page{Number: 1, Limit: DefaultLimit}, pageFor(t, ""))
	assert.Equal(t, Page{Number: 3, Limit: 50}, pageFor(t, "page=3&limit=50"))
	assert.Equal(t, Page{Number: 1, Limit: DefaultLimit}, pageFor(t, "page=-2&limit=500"))
	assert.Equal(t, Page{Number: 1, Limit: DefaultLimit}, pageFor(t, "page=abc&limit=0"))
}

func TestMeta(t *testing.T) {
	p := Page{Number: 2, Limit: 20}
	assert.Equal(t, 20, p.Offset())
	assert.Equal(t, Pagination{Page: 2, Limit: 20, Total: 41, TotalPages: 3}, p.Meta(41))
	assert.Equal(t, int64(0), p.Meta(0).TotalPages)
}
