package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topicscope/internal/delta"
	"topicscope/internal/logger"
	"topicscope/internal/store"
	"topicscope/pkg/metrics"
)

func newStreamServer(t *testing.T, st *store.Store) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(st, 20*time.Millisecond, logger.NopLogger()).RegisterRoutes(router)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

// nextUpdate blocks until the next SSE data line arrives and unmarshals it.
func nextUpdate(t *testing.T, r *bufio.Reader) delta.Update {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		var update delta.Update
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		require.NoError(t, json.Unmarshal([]byte(payload), &update))
		return update
	}
}

func TestStreamFirstDeltaCarriesFullState(t *testing.T) {
	st := store.New(20)
	st.Ingest("a", 1, 10, "")
	st.Ingest("b", 2, 20, "")
	srv := newStreamServer(t, st)

	resp, err := http.Get(srv.URL + "/sse")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	update := nextUpdate(t, bufio.NewReader(resp.Body))
	assert.Len(t, update.Updated, 2)
	assert.Empty(t, update.Removed)
}

func TestStreamPushesRemoval(t *testing.T) {
	st := store.New(20)
	st.Ingest("a", 1, 10, "")
	srv := newStreamServer(t, st)

	resp, err := http.Get(srv.URL + "/sse")
	require.NoError(t, err)
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)

	first := nextUpdate(t, reader)
	require.Len(t, first.Updated, 1)

	require.True(t, st.Delete("a"))

	second := nextUpdate(t, reader)
	assert.Empty(t, second.Updated)
	assert.Equal(t, []string{"a"}, second.Removed)
}

func TestStreamSkipsEmptyDeltas(t *testing.T) {
	st := store.New(20)
	st.Ingest("a", 1, 10, "")
	srv := newStreamServer(t, st)

	resp, err := http.Get(srv.URL + "/sse")
	require.NoError(t, err)
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	nextUpdate(t, reader)

	// The store is quiet now; no further message should arrive even after
	// several ticks.
	got := make(chan delta.Update, 1)
	go func() {
		line, err := reader.ReadString('\n')
		for err == nil {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "data:") {
				var update delta.Update
				if json.Unmarshal([]byte(strings.TrimPrefix(line, "data:")), &update) == nil {
					got <- update
				}
				return
			}
			line, err = reader.ReadString('\n')
		}
	}()

	select {
	case update := <-got:
		t.Fatalf("unexpected delta while store was idle: %+v", update)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestStreamChangedRecordIsPushed(t *testing.T) {
	st := store.New(20)
	st.Ingest("a", 1, 10, "")
	srv := newStreamServer(t, st)

	resp, err := http.Get(srv.URL + "/sse")
	require.NoError(t, err)
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	nextUpdate(t, reader)

	st.Ingest("a", 5, 30, "")

	update := nextUpdate(t, reader)
	require.Len(t, update.Updated, 1)
	assert.Equal(t, int64(5), update.Updated[0].SizeBytes)
	assert.Equal(t, int64(30), update.Updated[0].ReceivedAt)
}

func TestStreamConsumerDisconnectEndsLoop(t *testing.T) {
	st := store.New(20)
	st.Ingest("a", 1, 10, "")
	srv := newStreamServer(t, st)

	before := testutil.ToFloat64(metrics.StreamConsumersActive)

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/sse", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	nextUpdate(t, bufio.NewReader(resp.Body))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.StreamConsumersActive))

	cancel()

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.StreamConsumersActive) == before
	}, 2*time.Second, 20*time.Millisecond)
}

func TestStreamConsumersAreIndependent(t *testing.T) {
	st := store.New(20)
	st.Ingest("a", 1, 10, "")
	srv := newStreamServer(t, st)

	first, err := http.Get(srv.URL + "/sse")
	require.NoError(t, err)
	defer first.Body.Close()
	firstReader := bufio.NewReader(first.Body)
	nextUpdate(t, firstReader)

	// A consumer that connects later still gets the full state first.
	second, err := http.Get(srv.URL + "/sse")
	require.NoError(t, err)
	defer second.Body.Close()

	update := nextUpdate(t, bufio.NewReader(second.Body))
	require.Len(t, update.Updated, 1)
	assert.Equal(t, "a", update.Updated[0].Key)
}
