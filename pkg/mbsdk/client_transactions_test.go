package mbsdk_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/mbsdk"
	"github.com/stretchr/testify/require"
)

func TestCreateTransaction(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, mbsdk.PathTransactions, r.URL.Path)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "S1", r.PostForm.Get("sessionId"))
		require.Equal(t, "C1", r.PostForm.Get("cif"))
		require.Equal(t, "65a1b2c3d4e5f60718293a4b", r.PostForm.Get("packageId"))

		_, _ = w.Write([]byte(`{"success":true,"data":{
			"transactionId":"TX1","amount":"199000.4",
			"merchant":{"code":"JBA","name":"JBA AI"},
			"type":{"code":"PAY","name":"Payment","allowCard":"true"},
			"description":"Thanh toán gói dịch vụ 65a1b2c3d4e5f60718293a4b",
			"status":"PENDING"}}`))
	}))
	t.Cleanup(srv.Close)

	txn, err := mbsdk.NewClient(srv.URL).CreateTransaction(context.Background(), mbsdk.CreateTransactionRequest{
		SessionID: "S1",
		CIF:       "C1",
		PackageID: "65a1b2c3d4e5f60718293a4b",
	})
	require.NoError(t, err)
	require.Equal(t, "TX1", txn.TransactionID)
	require.Equal(t, int64(199000), txn.Amount)
	require.Equal(t, "JBA", txn.Merchant.Code)
	require.True(t, txn.Type.AllowCard)
	require.Equal(t, "PENDING", txn.Status)
}

func TestCreateTransactionIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	_, err := mbsdk.NewClient(srv.URL).CreateTransaction(context.Background(), mbsdk.CreateTransactionRequest{})
	require.True(t, mbsdk.IsRejected(err))
	require.Equal(t, int32(1), calls.Load())
}

func TestGetTransactionRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, mbsdk.PathTransactions+"/TX1", r.URL.Path)
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"transactionId":"TX1","amount":1000}`))
	}))
	t.Cleanup(srv.Close)

	client := mbsdk.NewClient(srv.URL)
	client.RetryInterval = time.Millisecond

	txn, err := client.GetTransaction(context.Background(), "TX1")
	require.NoError(t, err)
	require.Equal(t, int64(1000), txn.Amount)
	require.Equal(t, int32(3), calls.Load())
}

func TestGetTransactionDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"not found"}`))
	}))
	t.Cleanup(srv.Close)

	client := mbsdk.NewClient(srv.URL)
	client.RetryInterval = time.Millisecond

	_, err := client.GetTransaction(context.Background(), "TX404")
	var apiErr *mbsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Equal(t, int32(1), calls.Load())
}

func TestListPackages(t *testing.T) {
	t.Parallel()

	bodies := map[string]string{
		"data items": `{"data":{"items":[{"_id":"P1","name":"Standard 180","price":199000,"duration":180}]}}`,
		"items":      `{"items":[{"id":"P1","name":"Standard 180","price":"199000","duration":180}]}`,
		"bare array": `[{"_id":"P1","name":"Standard 180","price":199000.0,"duration":180}]`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, mbsdk.PathPackagesByType, r.URL.Path)
				require.Equal(t, "standard", r.URL.Query().Get("type"))
				_, _ = w.Write([]byte(body))
			}))
			t.Cleanup(srv.Close)

			pkgs, err := mbsdk.NewClient(srv.URL).ListPackages(context.Background(), "standard")
			require.NoError(t, err)
			require.Len(t, pkgs, 1)
			require.Equal(t, "P1", pkgs[0].ID)
			require.Equal(t, int64(199000), pkgs[0].Price)
			require.Equal(t, int64(180), pkgs[0].Duration)
		})
	}
}
