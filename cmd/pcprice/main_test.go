package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const productsBody = `{"count":1,"products":[{"id":3,"name":"Corsair RM750e","brand":"Corsair","type":"psu","price_usd":99.9,"price_pen":374.63,"stock":"medium","store":"computershop","url":null,"updated":null}]}`

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/mobile/latest", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.RawQuery; got != "limit=5&component_type=psu" {
			t.Errorf("unexpected latest query %q", got)
		}
		fmt.Fprint(w, productsBody)
	})
	mux.HandleFunc("/api/search", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query"); got != "rm750e psu" {
			t.Errorf("unexpected search query %q", got)
		}
		fmt.Fprint(w, productsBody)
	})
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"status":"healthy"}`)
	})
	mux.HandleFunc("/api/stats", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"total_products":2,"products_by_type":[{"type":"gpu","count":2}],"products_by_store":[{"store":"sercoplus","count":2}],"price_statistics":{"min":1,"max":2,"avg":1.5}}`)
	})
	mux.HandleFunc("/api/stores", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"total":2,"stores":["sercoplus","elsewhere"]}`)
	})
	mux.HandleFunc("/api/stores/sercoplus/stats", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"store":"sercoplus","total_products":2,"categories":{"gpu":2},"avg_price_usd":1.5,"last_update":null}`)
	})
	mux.HandleFunc("/api/stores/compare-all", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"stores":{"sercoplus":{"store":"sercoplus","total_products":2,"categories":{"gpu":2},"avg_price_usd":1.5,"last_update":null},"pcimpacto":{"error":"No disponible"}},"timestamp":"2025-03-14T09:31:00"}`)
	})
	mux.HandleFunc("/api/brands", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func runCLI(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	var out bytes.Buffer
	full := append([]string{"--base-url", srv.URL + "/api", "--log-level", "error"}, args...)
	err := run(context.Background(), full, &out)
	return out.String(), err
}

func TestLatestJSON(t *testing.T) {
	out, err := runCLI(t, newAPI(t), "latest", "--limit", "5", "--type", "psu")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil || resp.Count != 1 {
		t.Fatalf("unexpected output %q (%v)", out, err)
	}
}

func TestSearchTable(t *testing.T) {
	srv := newAPI(t)
	t.Chdir(t.TempDir())
	var out bytes.Buffer
	err := run(context.Background(), []string{"--base-url", srv.URL + "/api", "--table", "search", "rm750e", "psu"}, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "ID") {
		t.Fatalf("unexpected table %q", out.String())
	}
	for _, want := range []string{"Corsair RM750e", "$99.90 / S/374.63", "Stock Limitado"} {
		if !strings.Contains(lines[1], want) {
			t.Fatalf("row %q missing %q", lines[1], want)
		}
	}
}

func TestOverviewCollectsEveryResult(t *testing.T) {
	out, err := runCLI(t, newAPI(t), "overview")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var ov struct {
		Health     map[string]any `json:"health"`
		Statistics struct {
			TotalProducts int `json:"total_products"`
		} `json:"statistics"`
		Stores struct {
			Total int `json:"total"`
		} `json:"stores"`
	}
	if err := json.Unmarshal([]byte(out), &ov); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if ov.Health["status"] != "healthy" || ov.Statistics.TotalProducts != 2 || ov.Stores.Total != 2 {
		t.Fatalf("unexpected overview %+v", ov)
	}
}

func TestStoresWithStatsSkipsUnknownStores(t *testing.T) {
	out, err := runCLI(t, newAPI(t), "stores", "--stats")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var stats map[string]json.RawMessage
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if _, ok := stats["sercoplus"]; !ok || len(stats) != 1 {
		t.Fatalf("unexpected stats %q", out)
	}
}

func TestCompareStoresPrintsEveryStore(t *testing.T) {
	out, err := runCLI(t, newAPI(t), "compare-stores")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var got struct {
		Stores map[string]map[string]any `json:"stores"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got.Stores["pcimpacto"]["error"] != "No disponible" {
		t.Fatalf("pcimpacto entry %v", got.Stores["pcimpacto"])
	}
	if got.Stores["sercoplus"]["total_products"] != float64(2) {
		t.Fatalf("sercoplus entry %v", got.Stores["sercoplus"])
	}
}

func TestCommandErrors(t *testing.T) {
	srv := newAPI(t)
	cases := map[string]struct {
		args []string
		want string
	}{
		"no command":      {nil, "no command given"},
		"unknown command": {[]string{"teleport"}, `unknown command "teleport"`},
		"missing id":      {[]string{"quick"}, "usage: pcprice quick"},
		"bad id":          {[]string{"product", "abc"}, "invalid product id"},
		"bad flag":        {[]string{"latest", "--nope"}, "unknown flag"},
		"status error":    {[]string{"brands"}, "500"},
		"unknown store":   {[]string{"store-stats", "amazon"}, "unknown store"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := runCLI(t, srv, tc.args...)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}
