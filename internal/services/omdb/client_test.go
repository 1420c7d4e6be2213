package omdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amaumene/gocinarr/internal/config"
	"github.com/amaumene/gocinarr/internal/fetch"
	"github.com/sirupsen/logrus"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	client, err := NewClient(&config.Config{
		OMDBAPIKey:            "test-key",
		OMDBBaseURL:           server.URL,
		OMDBRequestsPerSecond: 1000,
		OMDBBurst:             1000,
	}, fetch.NewClient(logger), logger)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func TestDetail(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("i") != "tt0306414" {
			t.Errorf("unexpected imdb id %q", r.URL.Query().Get("i"))
		}
		if r.URL.Query().Get("apikey") != "test-key" {
			t.Error("api key missing from request")
		}
		w.Write([]byte(`{
			"Title":"The Wire","Year":"2002-2008","Awards":"Won 2 Primetime Emmys",
			"imdbRating":"9.3","totalSeasons":"5",
			"Ratings":[
				{"Source":"Internet Movie Database","Value":"9.3/10"},
				{"Source":"Rotten Tomatoes","Value":"94%"}
			],
			"Response":"True"
		}`))
	}))

	detail, err := client.Detail(context.Background(), "tt0306414")
	if err != nil {
		t.Fatalf("Detail failed: %v", err)
	}
	if detail.TotalSeasons != 5 {
		t.Errorf("expected 5 seasons, got %d", detail.TotalSeasons)
	}
	if len(detail.Ratings) != 2 {
		t.Fatalf("expected 2 ratings, got %d", len(detail.Ratings))
	}
	if detail.Ratings[1].Value != "94%" {
		t.Errorf("unexpected rating value %q", detail.Ratings[1].Value)
	}
	if detail.Awards != "Won 2 Primetime Emmys" {
		t.Errorf("unexpected awards %q", detail.Awards)
	}
}

func TestDetailUnknownSeasonCount(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Title":"Heat","totalSeasons":"N/A","Ratings":[],"Response":"True"}`))
	}))

	detail, err := client.Detail(context.Background(), "tt0113277")
	if err != nil {
		t.Fatalf("Detail failed: %v", err)
	}
	if detail.TotalSeasons != 0 {
		t.Errorf("N/A season count must stay unknown, got %d", detail.TotalSeasons)
	}
}

func TestDetailInBandFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Response":"False","Error":"Incorrect IMDb ID."}`))
	}))

	_, err := client.Detail(context.Background(), "nonsense")
	var ue *fetch.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if ue.Message != "Incorrect IMDb ID." {
		t.Errorf("unexpected message %q", ue.Message)
	}
}

func TestSeason(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("Season") != "2" {
			t.Errorf("unexpected season %q", r.URL.Query().Get("Season"))
		}
		w.Write([]byte(`{
			"Season":"2",
			"Episodes":[
				{"Title":"Ebb Tide","Episode":"1","imdbRating":"8.2"},
				{"Title":"Collateral Damage","Episode":"2","imdbRating":"N/A"},
				{"Title":"Bad Dreams","Episode":"not-a-number","imdbRating":"8.9"}
			],
			"Response":"True"
		}`))
	}))

	episodes, err := client.Season(context.Background(), "tt0306414", 2)
	if err != nil {
		t.Fatalf("Season failed: %v", err)
	}
	if len(episodes) != 2 {
		t.Fatalf("expected malformed episode dropped, got %d", len(episodes))
	}
	if episodes[0].Season != 2 || episodes[0].Episode != 1 {
		t.Errorf("unexpected first episode: %+v", episodes[0])
	}
	if !episodes[0].HasValidRating() {
		t.Error("episode 1 should have a valid rating")
	}
	if episodes[1].HasValidRating() {
		t.Error("N/A rating should not be valid")
	}
}

func TestSeasonRateLimited(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))

	_, err := client.Season(context.Background(), "tt0306414", 1)
	if !fetch.IsRateLimited(err) {
		t.Errorf("expected rate limited classification, got %v", err)
	}
}
