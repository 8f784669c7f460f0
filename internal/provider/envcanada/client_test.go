package envcanada_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orchardscore/orchardscore/internal/provider/envcanada"
	"github.com/orchardscore/orchardscore/internal/station"
)

type fakeFetcher struct {
	lastURL string
	body    string
	err     error
}

func (f *fakeFetcher) FetchText(_ context.Context, url string) (string, error) {
	f.lastURL = url
	if f.err != nil {
		return "", f.err
	}
	return f.body, nil
}

func TestClient_FetchRawRecords_BuildsBulkDataURL(t *testing.T) {
	fetcher := &fakeFetcher{body: "\"Station Name\",\"DELHI CDA\"\n"}
	client := envcanada.NewClient(envcanada.ClientConfig{
		BaseURL: "http://example.test",
		Fetcher: fetcher,
	})

	body, err := client.FetchRawRecords(context.Background(), "1234", 2010, 7, station.IntervalHourly)
	require.NoError(t, err)
	assert.Contains(t, body, "DELHI CDA")

	assert.Contains(t, fetcher.lastURL, "http://example.test/climateData/bulkdata_e.html?")
	assert.Contains(t, fetcher.lastURL, "stationID=1234")
	assert.Contains(t, fetcher.lastURL, "Year=2010")
	assert.Contains(t, fetcher.lastURL, "Month=7")
	assert.Contains(t, fetcher.lastURL, "timeframe=1")
	assert.Contains(t, fetcher.lastURL, "format=csv")
}

func TestClient_FetchRawRecords_DailyTimeframe(t *testing.T) {
	fetcher := &fakeFetcher{body: ""}
	client := envcanada.NewClient(envcanada.ClientConfig{
		BaseURL: "http://example.test",
		Fetcher: fetcher,
	})

	_, err := client.FetchRawRecords(context.Background(), "4905", 1998, 8, station.IntervalDaily)
	require.NoError(t, err)
	assert.Contains(t, fetcher.lastURL, "timeframe=2")
}

func TestClient_FetchRawRecords_WrapsErrors(t *testing.T) {
	cause := errors.New("connection refused")
	client := envcanada.NewClient(envcanada.ClientConfig{
		BaseURL: "http://example.test",
		Fetcher: &fakeFetcher{err: cause},
	})

	_, err := client.FetchRawRecords(context.Background(), "4905", 1998, 1, station.IntervalDaily)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "station 4905")
}

func TestClient_FetchRawRecords_RealServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "csv", r.URL.Query().Get("format"))
		_, _ = w.Write([]byte("\"Station Name\",\"WINNIPEG A\"\n"))
	}))
	defer server.Close()

	client := envcanada.NewClient(envcanada.ClientConfig{BaseURL: server.URL})

	body, err := client.FetchRawRecords(context.Background(), "5012", 2005, 1, station.IntervalDaily)
	require.NoError(t, err)
	assert.Contains(t, body, "WINNIPEG A")
}
