package captions

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	uerrors "github.com/tubetext/tubetext/internal/usecase/errors"
	"github.com/tubetext/tubetext/pkg/config"
)

func newTestClient(url string) *Client {
	return NewClient(&config.CaptionsConfig{BaseURL: url, Timeout: 5 * time.Second})
}

func TestListLanguages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/timedtext" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("type") != "list" || r.URL.Query().Get("v") != "dQw4w9WgXcQ" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="utf-8"?>
<transcript_list docid="123">
  <track id="0" name="" lang_code="en" lang_original="English" lang_translated="English" lang_default="true"/>
  <track id="1" name="" lang_code="es" lang_original="Espa&#241;ol" lang_translated="Spanish"/>
</transcript_list>`))
	}))
	defer srv.Close()

	langs, err := newTestClient(srv.URL).ListLanguages(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("ListLanguages: %v", err)
	}
	if len(langs) != 2 {
		t.Fatalf("got %d languages, want 2", len(langs))
	}
	if langs[0].Code != "en" || langs[0].Name != "English" {
		t.Errorf("first track = %+v", langs[0])
	}
	if langs[1].Code != "es" || langs[1].Name != "Spanish" {
		t.Errorf("second track = %+v", langs[1])
	}
}

func TestListLanguagesEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<transcript_list docid="123"></transcript_list>`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).ListLanguages(context.Background(), "dQw4w9WgXcQ")
	if !errors.Is(err, ErrNoCaptions) {
		t.Errorf("err = %v, want ErrNoCaptions", err)
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("lang") != "en" || q.Get("fmt") != "json3" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"events":[
  {"tStartMs":0,"segs":[{"utf8":"hello "},{"utf8":"world"}]},
  {"tStartMs":1200},
  {"tStartMs":2500,"segs":[{"utf8":"\n"}]},
  {"tStartMs":31000,"segs":[{"utf8":"second line"}]}
]}`))
	}))
	defer srv.Close()

	utts, err := newTestClient(srv.URL).Fetch(context.Background(), "dQw4w9WgXcQ", "en")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(utts) != 2 {
		t.Fatalf("got %d utterances, want 2: %+v", len(utts), utts)
	}
	if utts[0].Start != 0 || utts[0].Text != "hello world" {
		t.Errorf("first utterance = %+v", utts[0])
	}
	if utts[1].Start != 31.0 || utts[1].Text != "second line" {
		t.Errorf("second utterance = %+v", utts[1])
	}
}

func TestFetchEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// timedtext answers 200 with nothing for missing tracks
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Fetch(context.Background(), "dQw4w9WgXcQ", "xx")
	if !errors.Is(err, ErrNoCaptions) {
		t.Errorf("err = %v, want ErrNoCaptions", err)
	}
}

func TestFetchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Fetch(context.Background(), "dQw4w9WgXcQ", "en")
	if !errors.Is(err, ErrNoCaptions) {
		t.Errorf("err = %v, want ErrNoCaptions", err)
	}
}

func TestFetchFailuresAreSourceUnavailable(t *testing.T) {
	if !errors.Is(ErrNoCaptions, uerrors.ErrSourceUnavailable) {
		t.Error("ErrNoCaptions does not wrap ErrSourceUnavailable")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Fetch(context.Background(), "dQw4w9WgXcQ", "en")
	if !errors.Is(err, uerrors.ErrSourceUnavailable) {
		t.Errorf("err = %v, want ErrSourceUnavailable", err)
	}
}

func TestFetchCancelledContextNotSourceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(srv.URL).Fetch(ctx, "dQw4w9WgXcQ", "en")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if errors.Is(err, uerrors.ErrSourceUnavailable) {
		t.Error("cancellation was reported as a captions outage")
	}
}
