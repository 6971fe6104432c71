/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/taddelt/guessitifyoucan/games/guessit"
)

func newTestServer(t *testing.T) (*httptest.Server, *GameManager) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := &Config{port: 8080}
	catalog := guessit.DefaultCatalog()
	gm := newGameManager(ctx, catalog, 0, 1)

	srv := httptest.NewServer(newRouter(cfg, catalog, gm, make(chan error, 64)))
	t.Cleanup(srv.Close)

	return srv, gm
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, string) {
	t.Helper()

	client := &http.Client{
		Timeout: 5 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}

	return resp, string(body)
}

func TestStaticRoutes(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		path   string
		status int
		want   string
	}{
		{"/healthz", http.StatusOK, "Ok"},
		{"/version", http.StatusOK, "guessitifyoucan v" + releaseVersion},
		{"/robots.txt", http.StatusOK, "Disallow: /guessit/"},
		{"/", http.StatusOK, "Allgemein"},
		{"/", http.StatusOK, "classic"},
	}

	for _, tt := range tests {
		resp, body := get(t, srv, tt.path)
		if resp.StatusCode != tt.status {
			t.Errorf("GET %s = %d, want %d", tt.path, resp.StatusCode, tt.status)
		}
		if !strings.Contains(body, tt.want) {
			t.Errorf("GET %s body lacks %q", tt.path, tt.want)
		}
		if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
			t.Errorf("GET %s missing security headers", tt.path)
		}
	}
}

func TestNewGameRedirect(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := get(t, srv, "/guessit")
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	loc := resp.Header.Get("Location")
	id := strings.TrimPrefix(loc, "/guessit/")
	if id == loc || len(id) != gameIDLength {
		t.Fatalf("Location = %q", loc)
	}
}

func TestBoardAndQR(t *testing.T) {
	srv, gm := newTestServer(t)

	resp, body := get(t, srv, "/guessit/room1")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "Waiting for the facilitator") {
		t.Fatalf("board = %d %q", resp.StatusCode, body)
	}
	if len(resp.Cookies()) == 0 {
		t.Error("board did not hand out a player cookie")
	}
	if _, err := gm.lookupHub("room1"); err != nil {
		t.Errorf("board did not open the game: %v", err)
	}

	resp, body = get(t, srv, "/guessit/room1/qr")
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
		t.Fatalf("qr = %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if !strings.HasPrefix(body, "\x89PNG") {
		t.Error("qr body is not a PNG")
	}
}

func TestCatalogAPI(t *testing.T) {
	srv, _ := newTestServer(t)

	_, body := get(t, srv, "/api/catalog")
	var catalog guessit.Catalog
	if err := json.Unmarshal([]byte(body), &catalog); err != nil {
		t.Fatal(err)
	}
	if len(catalog.Categories) != 12 || len(catalog.Rounds) != 16 {
		t.Errorf("catalog has %d categories, %d rounds", len(catalog.Categories), len(catalog.Rounds))
	}

	_, body = get(t, srv, "/api/presets")
	var presets []PresetInfo
	if err := json.Unmarshal([]byte(body), &presets); err != nil {
		t.Fatal(err)
	}
	if len(presets) != 2 || presets[0].Name != "classic" {
		t.Errorf("presets = %+v", presets)
	}

	_, body = get(t, srv, "/api/rounds/random?limit=3")
	var rounds []string
	if err := json.Unmarshal([]byte(body), &rounds); err != nil {
		t.Fatal(err)
	}
	if len(rounds) != 3 {
		t.Errorf("rounds = %v", rounds)
	}

	if resp, _ := get(t, srv, "/api/rounds/random?limit=9"); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("limit=9 status = %d", resp.StatusCode)
	}
}

func TestStateEndpoints(t *testing.T) {
	srv, gm := newTestServer(t)

	if resp, _ := get(t, srv, "/guessit/nowhere/state"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown game state = %d", resp.StatusCode)
	}

	gm.getHub("idle")

	resp, body := get(t, srv, "/guessit/idle/state")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"started":false`) {
		t.Errorf("idle state = %d %s", resp.StatusCode, body)
	}

	if resp, _ := get(t, srv, "/guessit/idle/standings"); resp.StatusCode != http.StatusConflict {
		t.Errorf("standings before start = %d", resp.StatusCode)
	}
}

func TestReapIdle(t *testing.T) {
	_, gm := newTestServer(t)

	gm.getHub("old")
	if n := gm.reapIdle(time.Now().Add(time.Hour)); n != 1 {
		t.Fatalf("reaped %d, want 1", n)
	}
	if _, err := gm.lookupHub("old"); err == nil {
		t.Error("reaped game still listed")
	}

	gm.getHub("fresh")
	if n := gm.reapIdle(time.Now().Add(-time.Hour)); n != 0 {
		t.Errorf("reaped an active game")
	}
}

func TestHumanReadableSize(t *testing.T) {
	tests := map[int64]string{
		0:             "0 B",
		999:           "999 B",
		1500:          "1.5 kB",
		1_000_000:     "1.0 MB",
		3_200_000_000: "3.2 GB",
	}

	for in, want := range tests {
		if got := humanReadableSize(in); got != want {
			t.Errorf("humanReadableSize(%d) = %q, want %q", in, got, want)
		}
	}
}
