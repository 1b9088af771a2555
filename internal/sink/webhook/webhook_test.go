package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensepad/internal/core"
	"expensepad/internal/sink"
)

func sample() core.Expense {
	return core.Expense{
		ID: "e-1", Date: core.NewDate(2025, 4, 5), Category: "Food", Subcategory: "Groceries",
		Description: "weekly shop", Quantity: 3, UnitPrice: 50, Recipient: "Market", TotalAmount: 150,
	}
}

func TestSendPostsJSON(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(func() string { return srv.URL }, srv.Client())
	require.NoError(t, c.Send(context.Background(), sample()))

	for _, k := range []string{"id", "date", "category", "subcategory", "description", "quantity", "unitPrice", "recipient", "totalAmount"} {
		assert.Contains(t, got, k)
	}
	assert.EqualValues(t, 150, got["totalAmount"])
}

func TestSendWithoutURLDoesNoIO(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	c := New(func() string { return "" }, srv.Client())
	err := c.Send(context.Background(), sample())
	assert.ErrorIs(t, err, sink.ErrNotConfigured)
	assert.Zero(t, atomic.LoadInt32(&calls))

	assert.ErrorIs(t, New(nil, nil).Send(context.Background(), sample()), sink.ErrNotConfigured)
}

func TestSendMapsFailures(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusInternalServerError, http.StatusBadGateway} {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(status)
		}))
		c := New(func() string { return srv.URL }, srv.Client())
		err := c.Send(context.Background(), sample())
		assert.ErrorIs(t, err, sink.ErrTransport, "status %d", status)
		assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "no retry")
		srv.Close()
	}

	// closed server -> transport error
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	err := New(func() string { return url }, nil).Send(context.Background(), sample())
	assert.Equal(t, sink.TransportOrServer, sink.ReasonOf(err))
}

func TestNewHTTPClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := New(func() string { return srv.URL }, NewHTTPClient(50*time.Millisecond))
	err := c.Send(context.Background(), sample())
	assert.ErrorIs(t, err, sink.ErrTransport)
}
