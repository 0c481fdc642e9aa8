package soup

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/niklasfasching/bouncer/util"
	"golang.org/x/time/rate"
)

func TestSoup(t *testing.T) {
	d := MustParse(strings.NewReader(`<ul><li>foo</li><li>bar</li></ul>`))
	if actual := d.All("li").Text("\n"); actual != "foo\nbar" {
		t.Errorf("Got %s, expected foo\\nbar", actual)
	}
}

func TestTransport(t *testing.T) {
	requests := atomic.Int32{}
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if r.Header.Get("User-Agent") != "test" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`<p class="x">hello</p>`))
	}))
	defer s.Close()

	log := &bytes.Buffer{}
	ctx := util.WithLogger(context.Background(), util.WriterSink(log))
	client := Transport{
		Transport:   http.DefaultTransport,
		RetryCount:  2,
		RetryDelay:  time.Millisecond,
		RateLimiter: rate.NewLimiter(rate.Every(time.Millisecond), 1),
		Cache:       &FileCache{t.TempDir()},
		UserAgent:   "test",
	}.Client()
	for i := 0; i < 2; i++ {
		d, err := Load(ctx, client, s.URL+"/page")
		if err != nil {
			t.Fatal(err)
		}
		if actual := d.First(".x").Text(); actual != "hello" {
			t.Errorf("got %q, expected hello", actual)
		}
	}
	if n := requests.Load(); n != 2 {
		t.Errorf("expected one failed and one cached request, got %d requests", n)
	}
	if !strings.Contains(log.String(), "WARN soup:") || !strings.Contains(log.String(), "DEBUG soup: cache hit") {
		t.Errorf("unexpected log: %s", log)
	}
}

func TestTransportGivesUp(t *testing.T) {
	requests := atomic.Int32{}
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer s.Close()
	client := Transport{Transport: http.DefaultTransport, RetryCount: 1}.Client()
	if _, err := Load(context.Background(), client, s.URL); err == nil {
		t.Errorf("expected error for status 404")
	}
	if n := requests.Load(); n != 2 {
		t.Errorf("expected 2 attempts, got %d", n)
	}
}
