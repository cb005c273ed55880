package util

import "github.com/gofiber/fiber/v2"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PageParams reads ?page= and ?page_size=, clamping both to sane values.
func PageParams(c *fiber.Ctx) (page, pageSize int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	pageSize = c.QueryInt("page_size", defaultPageSize)
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
