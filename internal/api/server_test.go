package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"finopoly/internal/config"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(config.APIConfig{}, logger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	var out map[string]any
	resp := doJSON(t, http.MethodGet, ts.URL+"/healthz", nil, &out)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if out["ok"] != true {
		t.Fatalf("body %v", out)
	}
}

func TestCreateGameValidation(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/v1/games", map[string]any{
		"players": []string{"Ada", "Bo"},
	}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("two players: status %d, want 400", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/v1/games", map[string]any{
		"players": []string{"Ada", "Bo", "Cy", "Di", "Ed", "Fay"},
	}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("six players: status %d, want 400", resp.StatusCode)
	}
}

func TestGameNotFound(t *testing.T) {
	ts := newTestServer(t)
	resp := doJSON(t, http.MethodGet, ts.URL+"/v1/games/nope", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d, want 404", resp.StatusCode)
	}
}

func TestResolveOncePerLanding(t *testing.T) {
	ts := newTestServer(t)

	var state struct {
		ID string `json:"id"`
	}
	resp := doJSON(t, http.MethodPost, ts.URL+"/v1/games", map[string]any{
		"players": []string{"Ada", "Bo", "Cy"},
		"seed":    11,
	}, &state)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status %d", resp.StatusCode)
	}
	base := ts.URL + "/v1/games/" + state.ID

	// a body that passes on every tile kind
	pass := map[string]any{"strategy": "skip"}

	resp = doJSON(t, http.MethodPost, base+"/resolve", pass, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("resolve before rolling: status %d, want 409", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, base+"/roll", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("roll: status %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodPost, base+"/resolve", pass, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first resolve: status %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodPost, base+"/resolve", pass, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second resolve: status %d, want 409", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, base+"/end-turn", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("end-turn: status %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodPost, base+"/resolve", pass, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("resolve without a fresh roll: status %d, want 409", resp.StatusCode)
	}
}

func TestGameFlow(t *testing.T) {
	ts := newTestServer(t)

	var state struct {
		ID            string `json:"id"`
		Round         int    `json:"round"`
		Over          bool   `json:"over"`
		CurrentPlayer string `json:"current_player"`
	}
	resp := doJSON(t, http.MethodPost, ts.URL+"/v1/games", map[string]any{
		"players": []string{"Ada", "Bo", "Cy"},
		"seed":    11,
	}, &state)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status %d", resp.StatusCode)
	}
	if state.ID == "" || state.Round != 1 || state.CurrentPlayer != "Ada" {
		t.Fatalf("unexpected initial state: %+v", state)
	}
	base := ts.URL + "/v1/games/" + state.ID

	var board struct {
		Tiles []struct {
			Kind string `json:"kind"`
		} `json:"tiles"`
	}
	resp = doJSON(t, http.MethodGet, base+"/board", nil, &board)
	if resp.StatusCode != http.StatusOK || len(board.Tiles) != 20 {
		t.Fatalf("board: status %d, %d tiles", resp.StatusCode, len(board.Tiles))
	}

	resp = doJSON(t, http.MethodGet, base+"/results", nil, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("early results: status %d, want 409", resp.StatusCode)
	}

	var options struct {
		Options []struct {
			Kind      string `json:"kind"`
			Available bool   `json:"available"`
		} `json:"options"`
	}
	resp = doJSON(t, http.MethodGet, base+"/financing", nil, &options)
	if resp.StatusCode != http.StatusOK || len(options.Options) != 4 {
		t.Fatalf("financing: status %d, %d options", resp.StatusCode, len(options.Options))
	}

	// play the game out turn by turn
	for turns := 0; turns < 200; turns++ {
		var roll struct {
			Player  string `json:"player"`
			Skipped bool   `json:"skipped"`
			Roll    int    `json:"roll"`
		}
		resp = doJSON(t, http.MethodPost, base+"/roll", nil, &roll)
		if resp.StatusCode == http.StatusConflict {
			break // game over
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("roll: status %d", resp.StatusCode)
		}
		if roll.Skipped {
			continue // roll already advanced the turn
		}
		if roll.Roll < 1 || roll.Roll > 6 {
			t.Fatalf("roll %d out of range", roll.Roll)
		}

		var resolved struct {
			Outcome struct {
				OK      bool   `json:"ok"`
				Message string `json:"message"`
			} `json:"outcome"`
		}
		resp = doJSON(t, http.MethodPost, base+"/resolve", map[string]any{"buy": true}, &resolved)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("resolve: status %d", resp.StatusCode)
		}
		if resolved.Outcome.Message == "" {
			t.Fatal("resolve returned no message")
		}

		var after struct {
			Over bool `json:"over"`
		}
		resp = doJSON(t, http.MethodPost, base+"/end-turn", nil, &after)
		if resp.StatusCode == http.StatusConflict {
			break
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("end-turn: status %d", resp.StatusCode)
		}
		if after.Over {
			break
		}
	}

	var results struct {
		Results []struct {
			Rank  int     `json:"rank"`
			Name  string  `json:"name"`
			Score float64 `json:"score"`
		} `json:"results"`
	}
	resp = doJSON(t, http.MethodGet, base+"/results", nil, &results)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("results: status %d", resp.StatusCode)
	}
	if len(results.Results) != 3 {
		t.Fatalf("got %d results", len(results.Results))
	}
	if results.Results[0].Rank != 1 {
		t.Fatalf("first result has rank %d", results.Results[0].Rank)
	}
	for i := 1; i < len(results.Results); i++ {
		if results.Results[i-1].Score < results.Results[i].Score {
			t.Fatal("results not sorted by score")
		}
	}
}
