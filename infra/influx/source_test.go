package influx

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/skycloud/core/cloud"
	"github.com/kilianp07/skycloud/core/factory"
)

const csvResponse = `#datatype,string,long,dateTime:RFC3339,double
#group,false,false,false,false
#default,_result,,,
,result,table,_time,_value
,,0,1970-01-01T02:46:37Z,0.5
,,0,1970-01-01T02:52:22Z,0.125

`

func TestSourceLoad(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/query" {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		query = string(body)
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		_, _ = io.WriteString(w, csvResponse)
	}))
	defer srv.Close()

	src, err := NewSource(Config{URL: srv.URL, Token: "tok", Org: "org", Bucket: "weather"})
	require.NoError(t, err)
	defer src.Close()

	samples, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, int64(9997), samples[0].Date)
	assert.Equal(t, 0.5, samples[0].Value)
	assert.Equal(t, int64(10342), samples[1].Date)
	assert.Contains(t, query, `r._measurement == \"cloud\"`)
	assert.Equal(t, "influx:weather/cloud.cloud", src.Name())
}

func TestSourceLoadServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"internal error","message":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	src, err := NewSource(Config{URL: srv.URL, Org: "org", Bucket: "weather"})
	require.NoError(t, err)
	defer src.Close()
	_, err = src.Load(context.Background())
	assert.ErrorIs(t, err, cloud.ErrDataSource)
}

func TestFlux(t *testing.T) {
	src, err := NewSource(Config{URL: "http://localhost:8086", Org: "o", Bucket: "b", Measurement: "sky", Field: "octas", Stop: "2021-01-01T00:00:00Z"})
	require.NoError(t, err)
	defer src.Close()
	flux := src.Flux()
	assert.Contains(t, flux, `from(bucket: "b")`)
	assert.Contains(t, flux, `range(start: 1970-01-01T00:00:00Z, stop: 2021-01-01T00:00:00Z)`)
	assert.Contains(t, flux, `r._field == "octas"`)
}

func TestConfigValidation(t *testing.T) {
	_, err := NewSource(Config{})
	assert.Error(t, err)
	_, err = NewSource(Config{URL: "http://x"})
	assert.Error(t, err)
	_, err = cloud.NewSource(factory.ModuleConfig{Type: "influx", Conf: map[string]any{"url": "http://x", "org": "o", "bucket": "b"}})
	assert.NoError(t, err)
}
