package evolution

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateInstance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/instance/create", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("apikey"))

		var req CreateInstanceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "wa-main", req.InstanceName)
		require.Equal(t, Integration, req.Integration)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"instance":{"instanceName":"wa-main","instanceId":"abc","status":"created"}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "test-key")

	info, err := client.CreateInstance(context.Background(), "wa-main")
	require.NoError(t, err)
	require.Equal(t, "wa-main", info.InstanceName)
	require.Equal(t, "abc", info.InstanceID)
}

func TestFetchConnectionState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/instance/connectionState/wa-main", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"instance":{"instanceName":"wa-main","state":"open"}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "test-key")

	state, err := client.FetchConnectionState(context.Background(), "wa-main")
	require.NoError(t, err)
	require.Equal(t, "open", state.Instance.State)
}

func TestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"instance":{"instanceName":"wa-main","state":"connecting"}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "test-key")

	state, err := client.FetchConnectionState(context.Background(), "wa-main")
	require.NoError(t, err)
	require.Equal(t, "connecting", state.Instance.State)
	require.Equal(t, int32(3), calls.Load())
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := New(srv.URL, "bad-key")

	_, err := client.FetchConnectionState(context.Background(), "wa-main")
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 401")
	require.Equal(t, int32(1), calls.Load())
}
