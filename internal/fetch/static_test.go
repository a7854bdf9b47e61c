package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestStaticFetchSuccess(t *testing.T) {
	var gotPath, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, "<html><body>calendar</body></html>")
	}))
	defer srv.Close()

	f := NewStaticFetcher(srv.URL+"/calendar", "TestAgent/1.0", 5*time.Second)
	html, err := f.Fetch(context.Background(), "20250714")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if html != "<html><body>calendar</body></html>" {
		t.Errorf("Unexpected body: %q", html)
	}
	if gotPath != "/calendar/20250714" {
		t.Errorf("Expected date-keyed path, got %q", gotPath)
	}
	if gotUA != "TestAgent/1.0" {
		t.Errorf("Expected configured user-agent, got %q", gotUA)
	}
}

func TestStaticFetchNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewStaticFetcher(srv.URL+"/calendar", "TestAgent/1.0", 5*time.Second)
	_, err := f.Fetch(context.Background(), "20250714")
	if err == nil {
		t.Fatal("Expected an error for a 404 response")
	}

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Errorf("Expected *FetchError, got %T", err)
	}
}

func TestStaticFetchConnectionRefused(t *testing.T) {
	// Reserve a port, then close the listener so nothing answers.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	f := NewStaticFetcher(url+"/calendar", "TestAgent/1.0", 2*time.Second)
	_, err := f.Fetch(context.Background(), "20250714")

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Errorf("Expected *FetchError on connection failure, got %v", err)
	}
}

func TestCalendarURL(t *testing.T) {
	got := calendarURL("https://www.earningswhispers.com/calendar", "20250714")
	if got != "https://www.earningswhispers.com/calendar/20250714" {
		t.Errorf("Unexpected URL: %s", got)
	}
}
