package gasmonitor

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvasquez-dev/suiarb/rpc"
)

func balanceServer(t *testing.T, balanceMist uint64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":{"totalBalance":"%d"}}`, balanceMist)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckReturnsBalanceAboveMinimum(t *testing.T) {
	srv := balanceServer(t, 200_000_000)
	client := rpc.New(rpc.Config{URL: srv.URL})
	m := New(client, "0xowner", 100_000_000, nil)

	balance, err := m.Check(context.Background())

	require.NoError(t, err)
	assert.Equal(t, uint64(200_000_000), balance)
}

func TestCheckReturnsErrInsufficientGasBelowMinimum(t *testing.T) {
	srv := balanceServer(t, 50_000_000)
	client := rpc.New(rpc.Config{URL: srv.URL})
	m := New(client, "0xowner", 100_000_000, nil)

	balance, err := m.Check(context.Background())

	assert.ErrorIs(t, err, ErrInsufficientGas)
	assert.Equal(t, uint64(50_000_000), balance)
}

func TestCheckCachesWithinFetchInterval(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":{"totalBalance":"200000000"}}`)
	}))
	t.Cleanup(srv.Close)
	client := rpc.New(rpc.Config{URL: srv.URL})
	m := New(client, "0xowner", 100_000_000, nil)

	_, err := m.Check(context.Background())
	require.NoError(t, err)
	_, err = m.Check(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCheckFailsOpenOnRPCErrorWithNoCachedBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	client := rpc.New(rpc.Config{URL: srv.URL})
	m := New(client, "0xowner", 100_000_000, nil)

	balance, err := m.Check(context.Background())

	require.NoError(t, err)
	assert.Equal(t, uint64(0), balance)
}

func TestDeductGasLowersCachedBalance(t *testing.T) {
	srv := balanceServer(t, 200_000_000)
	client := rpc.New(rpc.Config{URL: srv.URL})
	m := New(client, "0xowner", 100_000_000, nil)
	_, err := m.Check(context.Background())
	require.NoError(t, err)

	m.DeductGas(50_000_000)

	assert.Equal(t, uint64(150_000_000), m.cachedBalance)
}

func TestDeductGasSaturatesAtZero(t *testing.T) {
	srv := balanceServer(t, 100)
	client := rpc.New(rpc.Config{URL: srv.URL})
	m := New(client, "0xowner", 10, nil)
	_, err := m.Check(context.Background())
	require.NoError(t, err)

	m.DeductGas(1_000)

	assert.Equal(t, uint64(0), m.cachedBalance)
}
