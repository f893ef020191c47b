package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestReaderRead(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/one.xml":
			userAgent = r.Header.Get("User-Agent")
			w.Write([]byte(rssFeed("One", 5, "https://one.example.com")))
		case "/two.xml":
			// Finishes last; output still follows feed order
			time.Sleep(20 * time.Millisecond)
			w.Write([]byte(rssFeed("Two", 2, "https://two.example.com")))
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	reader := NewReader(NewFetcher(server.Client(), "test-agent/1.0", time.Second), NewParser())

	entries := reader.Read(context.Background(), []string{
		server.URL + "/two.xml",
		server.URL + "/broken.xml",
		server.URL + "/one.xml",
	}, 3)

	if len(entries) != 5 {
		t.Fatalf("Expected 5 entries, got: %d", len(entries))
	}

	expected := []string{
		"https://two.example.com/0",
		"https://two.example.com/1",
		"https://one.example.com/0",
		"https://one.example.com/1",
		"https://one.example.com/2",
	}
	for i, link := range expected {
		if entries[i].Link != link {
			t.Errorf("Expected entry %d link %s, got: %s", i, link, entries[i].Link)
		}
	}

	if userAgent != "test-agent/1.0" {
		t.Errorf("Expected User-Agent 'test-agent/1.0', got: %s", userAgent)
	}
}

func TestReaderReadAllFeedsFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not a feed"))
	}))
	defer server.Close()

	reader := NewReader(NewFetcher(server.Client(), "test-agent/1.0", time.Second), NewParser())

	entries := reader.Read(context.Background(), []string{server.URL + "/a", "http://127.0.0.1:1/unreachable"}, 40)

	if len(entries) != 0 {
		t.Errorf("Expected no entries, got: %d", len(entries))
	}
}

func TestFetcherRejectsNonHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), "test-agent/1.0", time.Second)

	if _, err := fetcher.FetchHTML(context.Background(), server.URL); err == nil {
		t.Error("Expected error for non-HTML content")
	}

	data, err := fetcher.FetchFeed(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error for feed fetch, got: %v", err)
	}
	if string(data) != "%PDF-1.4" {
		t.Errorf("Expected raw body, got: %s", data)
	}
}
