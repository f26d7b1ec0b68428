package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/verte-zerg/taboo/internal/logger"
	"github.com/verte-zerg/taboo/internal/scoring"
	"github.com/verte-zerg/taboo/internal/store"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "taboo.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	log := logger.Nop()
	return NewRouter(log, NewHandler(log, st, scoring.New()))
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	out := map[string]any{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s %s response %q: %v", method, path, rec.Body.String(), err)
	}
	return rec.Code, out
}

func TestHealth(t *testing.T) {
	code, body := doJSON(t, newTestRouter(t), http.MethodGet, "/api/health", "")
	if code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("unexpected health response %d %v", code, body)
	}
}

func TestScore(t *testing.T) {
	router := newTestRouter(t)
	code, body := doJSON(t, router, http.MethodPost, "/api/score",
		`{"rounds":[{"target":"apple","completion":10,"difficulty":2,"ai_score":80}]}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", code, body)
	}
	total := body["total"].(map[string]any)
	if total["score"] != 83.0 || total["seconds"] != 10.0 {
		t.Fatalf("unexpected total %v", total)
	}
	rounds := body["rounds"].([]any)
	first := rounds[0].(map[string]any)
	if first["time_weighted"] != 27.0 || first["clue_weighted"] != 56.0 || first["judged"] != true {
		t.Fatalf("unexpected breakdown %v", first)
	}

	code, body = doJSON(t, router, http.MethodPost, "/api/score", `{"rounds":[]}`)
	if code != http.StatusBadRequest || body["error"] == nil {
		t.Fatalf("expected 400 with error, got %d %v", code, body)
	}
	code, _ = doJSON(t, router, http.MethodPost, "/api/score", `{"rounds":`)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", code)
	}
}

func TestHighlights(t *testing.T) {
	code, body := doJSON(t, newTestRouter(t), http.MethodPost, "/api/highlights",
		`{"text":"Is it an apple?","ranges":[{"start":9,"end":14},{"start":9,"end":12}]}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	ranges := body["ranges"].([]any)
	if len(ranges) != 1 {
		t.Fatalf("expected merged ranges, got %v", ranges)
	}
	segments := body["segments"].([]any)
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %v", segments)
	}
	mid := segments[1].(map[string]any)
	if mid["text"] != "apple" || mid["highlighted"] != true {
		t.Fatalf("unexpected highlighted segment %v", mid)
	}
}

func TestParseWords(t *testing.T) {
	code, body := doJSON(t, newTestRouter(t), http.MethodPost, "/api/words/parse",
		`{"text":"Apple, pear","target":"plum"}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	words := body["words"].([]any)
	got := make([]string, len(words))
	for i, w := range words {
		got[i] = w.(string)
	}
	if strings.Join(got, ",") != "apple,pear,plum" {
		t.Fatalf("unexpected words %v", got)
	}
}

func TestGameLifecycle(t *testing.T) {
	router := newTestRouter(t)
	code, body := doJSON(t, router, http.MethodPost, "/api/games",
		`{"player":"neo","level":"fruits","difficulty":2,"rounds":[{"target":"apple","completion":10,"ai_score":80}]}`)
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %v", code, body)
	}
	id, _ := body["id"].(string)
	if id == "" {
		t.Fatalf("expected id in %v", body)
	}
	if body["total"].(map[string]any)["score"] != 83.0 {
		t.Fatalf("unexpected saved total %v", body["total"])
	}

	code, body = doJSON(t, router, http.MethodGet, "/api/games/"+id, "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	game := body["game"].(map[string]any)
	if game["level"] != "fruits" || game["player"] != "neo" {
		t.Fatalf("unexpected game %v", game)
	}

	code, body = doJSON(t, router, http.MethodGet, "/api/games?player=neo&page=1&limit=5", "")
	if code != http.StatusOK || len(body["games"].([]any)) != 1 {
		t.Fatalf("unexpected list %d %v", code, body)
	}
	code, body = doJSON(t, router, http.MethodGet, "/api/games?player=neo&page=2&limit=5", "")
	if code != http.StatusOK || len(body["games"].([]any)) != 0 {
		t.Fatalf("expected empty second page, got %d %v", code, body)
	}

	code, body = doJSON(t, router, http.MethodGet, "/api/games/best?level=fruits", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	best := body["games"].([]any)
	if len(best) != 1 || best[0].(map[string]any)["total_score"] != 83.0 {
		t.Fatalf("unexpected best games %v", best)
	}
}

func TestGameErrors(t *testing.T) {
	router := newTestRouter(t)
	cases := []struct {
		method string
		path   string
		body   string
		code   int
	}{
		{http.MethodGet, "/api/games/missing", "", http.StatusNotFound},
		{http.MethodGet, "/api/games?limit=0", "", http.StatusBadRequest},
		{http.MethodGet, "/api/games?page=zero", "", http.StatusBadRequest},
		{http.MethodGet, "/api/games/best?since=yesterday", "", http.StatusBadRequest},
		{http.MethodPost, "/api/games", `{"level":"fruits","rounds":[]}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		code, body := doJSON(t, router, tc.method, tc.path, tc.body)
		if code != tc.code {
			t.Fatalf("%s %s: expected %d, got %d %v", tc.method, tc.path, tc.code, code, body)
		}
		if msg, _ := body["error"].(string); msg == "" {
			t.Fatalf("%s %s: expected error message, got %v", tc.method, tc.path, body)
		}
	}
}
