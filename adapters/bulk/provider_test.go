package bulk

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eurobase/internal/config"
	"eurobase/internal/errors"
)

const metabaseFixture = "" +
	"nama_10_gdp\tunit\tCP_MEUR\n" +
	"nama_10_gdp\tunit\tCLV10_MEUR\n" +
	"nama_10_gdp\tgeo\tAT\n" +
	"nama_10_gdp\tgeo\tBE\n" +
	"nama_10_gdp\tgeo\tDE\n" +
	"nama_10_gdp\ttime\t2022\n" +
	"nama_10_gdp\ttime\t2021\n" +
	"demo_pjan\tgeo\tAT\n" +
	"demo_pjan\ttime\t2022\n"

const tocFixture = "" +
	"\"title\"\t\"code\"\t\"type\"\t\"last update of data\"\n" +
	"\"GDP and main components\"\t\"nama_10_gdp\"\t\"dataset\"\t\"24.08.2026\"\n" +
	"\"Population on 1 January\"\t\"demo_pjan\"\t\"dataset\"\t\"01.07.2026\"\n" +
	"\"Demography\"\t\"demo\"\t\"folder\"\t\"\"\n"

const dicFixture = "AT\tAustria\nBE\tBelgium\nDE\tGermany\n"

func gz(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func bulkServer(t *testing.T, fetches *int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fetches != nil {
			atomic.AddInt64(fetches, 1)
		}
		// The listing service needs sort as the first parameter.
		assert.True(t, strings.HasPrefix(r.URL.RawQuery, "sort=1&"),
			"sort must be the first query parameter, got %s", r.URL.RawQuery)

		switch file := r.URL.Query().Get("file"); file {
		case "metabase.txt.gz":
			w.Write(gz(t, metabaseFixture))
		case "table_of_contents_en.txt":
			w.Write([]byte(tocFixture))
		case "dic/en/geo.dic":
			w.Write([]byte(dicFixture))
		default:
			http.NotFound(w, r)
		}
	}))
}

func newTestProvider(srvURL string) *Provider {
	return NewProvider(config.BulkConfig{BaseURL: srvURL, Sort: 1}, "en", NewHTTPFetcher(0))
}

func TestProviderDataset(t *testing.T) {
	srv := bulkServer(t, nil)
	defer srv.Close()
	p := newTestProvider(srv.URL)

	ds, err := p.Dataset(context.Background(), "nama_10_gdp")
	require.NoError(t, err)

	// First-seen order from the metabase, for dimensions and codes.
	require.Equal(t, []string{"unit", "geo", "time"}, ds.DimensionNames())
	geo, ok := ds.Dimension("geo")
	require.True(t, ok)
	assert.Equal(t, []string{"AT", "BE", "DE"}, geo.Codes)
	timeDim, ok := ds.Dimension("time")
	require.True(t, ok)
	assert.Equal(t, []string{"2022", "2021"}, timeDim.Codes)

	other, err := p.Dataset(context.Background(), "demo_pjan")
	require.NoError(t, err)
	assert.Equal(t, []string{"geo", "time"}, other.DimensionNames())
}

func TestProviderDatasetNotFound(t *testing.T) {
	srv := bulkServer(t, nil)
	defer srv.Close()
	p := newTestProvider(srv.URL)

	_, err := p.Dataset(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeNotFound))
}

func TestProviderMetabaseFetchedOnce(t *testing.T) {
	var fetches int64
	srv := bulkServer(t, &fetches)
	defer srv.Close()
	p := newTestProvider(srv.URL)

	ctx := context.Background()
	_, err := p.Dataset(ctx, "nama_10_gdp")
	require.NoError(t, err)
	_, err = p.Dataset(ctx, "demo_pjan")
	require.NoError(t, err)
	assert.EqualValues(t, 1, fetches)
}

func TestProviderDictionary(t *testing.T) {
	srv := bulkServer(t, nil)
	defer srv.Close()
	p := newTestProvider(srv.URL)

	labels, err := p.Dictionary(context.Background(), "geo")
	require.NoError(t, err)
	assert.Equal(t, "Austria", labels["AT"])
	assert.Equal(t, "Germany", labels["DE"])
}

func TestProviderDatasets(t *testing.T) {
	srv := bulkServer(t, nil)
	defer srv.Close()
	p := newTestProvider(srv.URL)

	entries, err := p.Datasets(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, TOCEntry{Code: "nama_10_gdp", Title: "GDP and main components", Type: "dataset"}, entries[0])
	assert.Equal(t, "folder", entries[2].Type)
}

func TestParseMetabaseMalformed(t *testing.T) {
	_, err := parseMetabase([]byte("only_one_field\n"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeParsing))
}
