package handlers_test

import (
	"net/http"
	"testing"
)

func TestMenuListAndFilters(t *testing.T) {
	app, _ := newApp(t)

	resp := do(t, app, "GET", "/menu", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("menu: status %d", resp.StatusCode)
	}
	all := decode(t, resp)["products"].([]any)
	if len(all) != 9 {
		t.Fatalf("want 9 seeded products, got %d", len(all))
	}

	resp = do(t, app, "GET", "/menu?category=bebidas", "", nil)
	bebidas := decode(t, resp)["products"].([]any)
	if len(bebidas) != 3 {
		t.Fatalf("want 3 bebidas, got %d", len(bebidas))
	}

	resp = do(t, app, "GET", "/menu?q=tostado", "", nil)
	tostados := decode(t, resp)["products"].([]any)
	if len(tostados) != 2 {
		t.Fatalf("want 2 matches for 'tostado', got %d", len(tostados))
	}

	resp = do(t, app, "GET", "/menu?category=postres", "", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown category should be 400, got %d", resp.StatusCode)
	}
}

func TestMenuHidesUnavailable(t *testing.T) {
	app, st := newApp(t)
	if err := st.SetAvailability("beb-cola", false); err != nil {
		t.Fatal(err)
	}

	resp := do(t, app, "GET", "/menu", "", nil)
	for _, raw := range decode(t, resp)["products"].([]any) {
		if raw.(map[string]any)["id"] == "beb-cola" {
			t.Fatal("unavailable product should not be on the menu")
		}
	}

	// detail stays reachable so staff links keep working
	resp = do(t, app, "GET", "/menu/beb-cola", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("detail: status %d", resp.StatusCode)
	}
}

func TestMenuDetailUnknown(t *testing.T) {
	app, _ := newApp(t)
	resp := do(t, app, "GET", "/menu/no-such", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("want 404, got %d", resp.StatusCode)
	}
}
