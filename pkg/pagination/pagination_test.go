// Copyright (c) 2026 Medira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/medira/pkg/pagination"
)

/*
TestFromRequest verifies query parsing and clamping of hostile values.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", 1, 25},
		{"explicit", "?page=3&limit=50", 3, 50},
		{"zero_page", "?page=0", 1, 25},
		{"negative", "?page=-5&limit=-1", 1, 25},
		{"over_max_limit", "?limit=10000", 1, 25},
		{"garbage", "?page=abc&limit=xyz", 1, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/patients"+tt.query, nil)
			params := pagination.FromRequest(request)

			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
		})
	}
}

/*
TestOffset verifies the page-to-offset arithmetic.
*/
func TestOffset(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 25}.Offset())
	assert.Equal(t, 25, pagination.Params{Page: 2, Limit: 25}.Offset())
	assert.Equal(t, 0, pagination.Params{Page: 0, Limit: 25}.Offset())
}

/*
TestNewMeta verifies total page computation including partial pages.
*/
func TestNewMeta(t *testing.T) {
	meta := pagination.NewMeta(1, 25, 51)
	assert.Equal(t, 3, meta.TotalPages)

	meta = pagination.NewMeta(1, 25, 0)
	assert.Equal(t, 0, meta.TotalPages)

	meta = pagination.NewMeta(1, 0, 10)
	assert.Equal(t, 0, meta.TotalPages)
}
