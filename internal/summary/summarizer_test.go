package summary

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daftarhq/daftar/internal/order"
)

func sampleOrders() []*order.Order {
	return []*order.Order{
		{ID: uuid.New(), Name: "توريد قماش", Date: "2024-03-02", Type: order.TypeExpense, Status: order.StatusPending},
		{ID: uuid.New(), Name: "بيع جملة", Date: "2024-03-15", Type: order.TypeIncome, Status: order.StatusCompleted},
	}
}

func TestSummarize_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		_, _ = w.Write([]byte(`{"content":[{"text":"ملخص: طلبان، دخل واحد ومصروف واحد."}]}`))
	}))
	defer srv.Close()

	s := New(Config{APIKey: "test-key", BaseURL: srv.URL})

	got, err := s.Summarize(context.Background(), sampleOrders())
	require.NoError(t, err)
	assert.Equal(t, "ملخص: طلبان، دخل واحد ومصروف واحد.", got)
}

func TestSummarize_DefaultModelWhenUnconfigured(t *testing.T) {
	var body struct {
		Model string `json:"model"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"content":[{"text":"تم"}]}`))
	}))
	defer srv.Close()

	s := New(Config{APIKey: "test-key", BaseURL: srv.URL})

	_, err := s.Summarize(context.Background(), sampleOrders())
	require.NoError(t, err)
	assert.Equal(t, defaultModel, body.Model)
}

func TestSummarize_MissingCredential(t *testing.T) {
	s := New(Config{})

	_, err := s.Summarize(context.Background(), sampleOrders())
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestSummarize_APIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_request"}`))
	}))
	defer srv.Close()

	s := New(Config{APIKey: "test-key", BaseURL: srv.URL})

	_, err := s.Summarize(context.Background(), sampleOrders())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrBusy)
}

func TestSummarize_SecondRequestWhileInFlightIsDropped(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	var startedOnce sync.Once

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		startedOnce.Do(func() { close(started) })
		<-release
		_, _ = w.Write([]byte(`{"content":[{"text":"تم"}]}`))
	}))
	defer srv.Close()

	s := New(Config{APIKey: "test-key", BaseURL: srv.URL})

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		got, err := s.Summarize(context.Background(), sampleOrders())
		assert.NoError(t, err)
		assert.Equal(t, "تم", got)
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("first request never reached the API")
	}

	// The guard is held: the second request is a no-op, not queued.
	_, err := s.Summarize(context.Background(), sampleOrders())
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	wg.Wait()

	// Guard released once the first resolves.
	got, err := s.Summarize(context.Background(), sampleOrders())
	require.NoError(t, err)
	assert.Equal(t, "تم", got)
}
