package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
)

func testClient() *Client {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewClient(logger)
}

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"title":"Heat","year":1995}`))
	}))
	defer server.Close()

	var out struct {
		Title string `json:"title"`
		Year  int    `json:"year"`
	}
	if err := testClient().GetJSON(context.Background(), server.URL, &out); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if out.Title != "Heat" || out.Year != 1995 {
		t.Errorf("unexpected decode result: %+v", out)
	}
}

func TestGetJSONInvalidURL(t *testing.T) {
	var out struct{}
	err := testClient().GetJSON(context.Background(), "not a url", &out)
	if !errors.Is(err, ErrInvalidURL) {
		t.Errorf("expected ErrInvalidURL, got %v", err)
	}
}

func TestGetJSONTransportError(t *testing.T) {
	var out struct{}
	err := testClient().GetJSON(context.Background(), "http://127.0.0.1:1/nothing", &out)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Errorf("expected TransportError, got %v", err)
	}
}

func TestGetJSONStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	var out struct{}
	err := testClient().GetJSON(context.Background(), server.URL, &out)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", se.Code)
	}
	if IsRateLimited(err) {
		t.Error("404 should not classify as rate limited")
	}
}

func TestGetJSONRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer server.Close()

	var out struct{}
	err := testClient().GetJSON(context.Background(), server.URL, &out)
	if !IsRateLimited(err) {
		t.Errorf("expected rate limited classification, got %v", err)
	}
}

func TestGetJSONDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title": 12`))
	}))
	defer server.Close()

	var out struct {
		Title string `json:"title"`
	}
	err := testClient().GetJSON(context.Background(), server.URL, &out)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Errorf("expected DecodeError, got %v", err)
	}
}

func TestGetBytes(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	data, err := testClient().GetBytes(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetBytes failed: %v", err)
	}
	if len(data) != len(payload) {
		t.Errorf("expected %d bytes, got %d", len(payload), len(data))
	}
}
