package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/gewnthar/airtraffic/config"
	"github.com/gewnthar/airtraffic/models"
	"github.com/stretchr/testify/require"
)

// fakePortal serves the landing page on GET and a metric table on POST, and
// records every post back it receives.
type fakePortal struct {
	t       *testing.T
	landing string
	tables  map[string]string // __EVENTTARGET -> response body

	mu    sync.Mutex
	gets  int
	posts []url.Values
}

func (p *fakePortal) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		p.mu.Lock()
		p.gets++
		p.mu.Unlock()
		http.SetCookie(w, &http.Cookie{Name: "ASP.NET_SessionId", Value: "session-1", Path: "/"})
		_, _ = w.Write([]byte(p.landing))
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		cookie, err := r.Cookie("ASP.NET_SessionId")
		if err != nil || cookie.Value != "session-1" {
			http.Error(w, "session expired", http.StatusForbidden)
			return
		}
		p.mu.Lock()
		p.posts = append(p.posts, r.PostForm)
		p.mu.Unlock()
		body, ok := p.tables[r.PostForm.Get("__EVENTTARGET")]
		if !ok {
			http.Error(w, "unknown target", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(body))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestClient(serverURL string) *FormClient {
	return NewFormClient(config.PortalConfig{
		LandingURL:     serverURL + "/Data_Elements.aspx?%2fData=2",
		SubmitURL:      serverURL + "/Data_Elements.aspx?Data=2",
		UserAgent:      "airtraffic-test",
		RequestTimeout: 5 * time.Second,
	})
}

func TestFetchDocuments(t *testing.T) {
	portal := &fakePortal{
		t:       t,
		landing: readTestdata(t, "landing.html"),
		tables: map[string]string{
			"":             readTestdata(t, "passengers.html"),
			"Link_Flights": readTestdata(t, "flights.html"),
			"Link_RPM":     readTestdata(t, "flights.html"),
		},
	}
	server := httptest.NewServer(portal)
	defer server.Close()

	client := newTestClient(server.URL)
	docs, err := client.FetchDocuments(context.Background(), "DL", "ATL", []models.Metric{models.MetricFlights, models.MetricRPM})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	require.Equal(t, models.MetricPassengers, docs[0].Metric)
	require.Equal(t, models.MetricFlights, docs[1].Metric)
	require.Equal(t, models.MetricRPM, docs[2].Metric)
	for _, d := range docs {
		require.Equal(t, "DL", d.Airline)
		require.Equal(t, "ATL", d.Airport)
		require.Contains(t, d.HTML, "DataGrid1")
	}

	require.Equal(t, 1, portal.gets)
	require.Len(t, portal.posts, 3)

	primary := portal.posts[0]
	require.Equal(t, "", primary.Get("__EVENTTARGET"))
	require.Equal(t, "Submit", primary.Get("Submit"))
	require.Equal(t, "DL", primary.Get("CarrierList"))
	require.Equal(t, "ATL", primary.Get("AirportList"))

	for i, target := range []string{"Link_Flights", "Link_RPM"} {
		post := portal.posts[i+1]
		require.Equal(t, target, post.Get("__EVENTTARGET"))
		require.False(t, post.Has("Submit"), "linked submissions carry no submit flag")
	}

	// Every submission reuses the tokens captured by the single GET.
	for _, post := range portal.posts {
		require.Equal(t, "dDwtMTA4MjE0MjU2Nzs7Pg==", post.Get("__VIEWSTATE"))
		require.Equal(t, "/wEdAAWk3n0R4Vf0a8dQ", post.Get("__EVENTVALIDATION"))
		require.Equal(t, "2C2B4B6F", post.Get("__VIEWSTATEGENERATOR"))
		require.True(t, post.Has("__EVENTARGUMENT"))
		require.Equal(t, "", post.Get("__EVENTARGUMENT"))
	}
}

func TestFetchDocumentsMissingTokenSkipsPosts(t *testing.T) {
	portal := &fakePortal{
		t:       t,
		landing: `<html><input id="__VIEWSTATE" value="x"/><input id="__VIEWSTATEGENERATOR" value="y"/></html>`,
		tables:  map[string]string{"": readTestdata(t, "passengers.html")},
	}
	server := httptest.NewServer(portal)
	defer server.Close()

	_, err := newTestClient(server.URL).FetchDocuments(context.Background(), "DL", "ATL", nil)
	require.ErrorIs(t, err, models.ErrProtocol)
	require.Equal(t, 1, portal.gets)
	require.Empty(t, portal.posts)
}

func TestFetchDocumentsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchDocuments(context.Background(), "DL", "ATL", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "status code 503")
}

func TestFetchDocumentsFreshSessionPerCall(t *testing.T) {
	portal := &fakePortal{
		t:       t,
		landing: readTestdata(t, "landing.html"),
		tables:  map[string]string{"": readTestdata(t, "passengers.html")},
	}
	server := httptest.NewServer(portal)
	defer server.Close()

	client := newTestClient(server.URL)
	for i := 0; i < 2; i++ {
		_, err := client.FetchDocuments(context.Background(), "DL", "ATL", nil)
		require.NoError(t, err)
	}
	require.Equal(t, 2, portal.gets)
	require.Len(t, portal.posts, 2)
}

func TestFetchDocumentsTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewFormClient(config.PortalConfig{
		LandingURL:     server.URL,
		SubmitURL:      server.URL,
		RequestTimeout: 20 * time.Millisecond,
	})
	_, err := client.FetchDocuments(context.Background(), "DL", "ATL", nil)
	require.Error(t, err)
}

func TestFormData(t *testing.T) {
	tokens := models.TokenSet{EventValidation: "ev", ViewState: "vs", ViewStateGenerator: "gen"}

	primary := FormData(tokens, "AA", "DFW", models.MetricPassengers)
	require.Equal(t, map[string]string{
		"__EVENTTARGET":        "",
		"__EVENTARGUMENT":      "",
		"__VIEWSTATE":          "vs",
		"__EVENTVALIDATION":    "ev",
		"__VIEWSTATEGENERATOR": "gen",
		"CarrierList":          "AA",
		"AirportList":          "DFW",
		"Submit":               "Submit",
	}, primary)

	linked := FormData(tokens, "AA", "DFW", models.MetricASM)
	require.Equal(t, "Link_ASM", linked["__EVENTTARGET"])
	require.NotContains(t, linked, "Submit")
}
