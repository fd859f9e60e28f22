package mocks

import (
	"context"
	"net/http"
	"testing"

	"github.com/darkkaiser/competitor-dashboard/internal/backend/fetcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMockFetcher_WorksWithFetchJSON(t *testing.T) {
	m := NewMockFetcher()
	m.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.URL.Path == "/product"
	})).Return(NewMockResponse(`{"id":42}`, http.StatusOK), nil)

	var out struct {
		ID int `json:"id"`
	}
	err := fetcher.FetchJSON(context.Background(), m, http.MethodGet, "https://backend.test/product?id=42", nil, nil, &out)

	require.NoError(t, err)
	assert.Equal(t, 42, out.ID)
	m.AssertExpectations(t)
}
