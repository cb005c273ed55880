package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 25, 10)
	assert.Equal(t, &Pagination{Page: 2, PageSize: 10, TotalPages: 3, TotalItems: 25, HasMore: true, From: 11, To: 20}, p)

	last := NewPagination(3, 10, 25, 5)
	assert.False(t, last.HasMore)
	assert.Equal(t, 21, last.From)
	assert.Equal(t, 25, last.To)

	empty := NewPagination(1, 10, 0, 0)
	assert.EqualValues(t, 0, empty.TotalPages)
	assert.Zero(t, empty.From)
	assert.Zero(t, empty.To)
}
