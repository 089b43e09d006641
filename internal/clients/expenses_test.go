package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDebtStatusCanDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/internal/users/u-1/debtStatus", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"canDelete":true}}`))
	}))
	defer srv.Close()

	client := NewExpensesClient(srv.URL, time.Second)
	status, err := client.CheckDebtStatus(context.Background(), "u-1")

	require.NoError(t, err)
	assert.Equal(t, DebtStatusAllowed, status)
}

func TestCheckDebtStatusBlocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"canDelete":false}}`))
	}))
	defer srv.Close()

	client := NewExpensesClient(srv.URL, time.Second)
	status, err := client.CheckDebtStatus(context.Background(), "u-1")

	require.NoError(t, err)
	assert.Equal(t, DebtStatusBlocked, status)
}

func TestCheckDebtStatusNoRecordsIsAllowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewExpensesClient(srv.URL, time.Second)
	status, err := client.CheckDebtStatus(context.Background(), "u-1")

	require.NoError(t, err)
	assert.Equal(t, DebtStatusAllowed, status)
}

func TestCheckDebtStatusServerErrorIsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewExpensesClient(srv.URL, time.Second)
	status, err := client.CheckDebtStatus(context.Background(), "u-1")

	assert.Error(t, err)
	assert.Equal(t, DebtStatusUnknown, status)
}

func TestCheckDebtStatusTransportErrorIsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused

	client := NewExpensesClient(srv.URL, time.Second)
	status, err := client.CheckDebtStatus(context.Background(), "u-1")

	assert.Error(t, err)
	assert.Equal(t, DebtStatusUnknown, status)
}

func TestCheckDebtStatusBadBodyIsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":`))
	}))
	defer srv.Close()

	client := NewExpensesClient(srv.URL, time.Second)
	status, err := client.CheckDebtStatus(context.Background(), "u-1")

	assert.Error(t, err)
	assert.Equal(t, DebtStatusUnknown, status)
}
