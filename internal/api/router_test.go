package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softwarewrighter/midi-cli/internal/midi"
	"github.com/softwarewrighter/midi-cli/internal/models"
	"github.com/softwarewrighter/midi-cli/internal/services"
	"github.com/softwarewrighter/midi-cli/internal/storage"
	"github.com/softwarewrighter/midi-cli/internal/store"
)

type testServer struct {
	router *gin.Engine
	store  store.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.NewBadger(store.BadgerOptions{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	files, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	gen := services.NewGenerationService(files, nil, nil)
	return &testServer{router: SetupRouter(st, files, gen, nil, "test"), store: st}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestHealthReportsClosedStore(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.store.Close())
	w := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "test", body["version"])
	engine := body["engine"].(map[string]any)
	assert.EqualValues(t, 6, engine["moods"])
	assert.EqualValues(t, midi.TicksPerQuarter, engine["ticks_per_quarter"])
	assert.Equal(t, false, engine["render_enabled"])
}

func TestCatalogRoutes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/moods", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 6)

	w = s.do(t, http.MethodGet, "/api/instruments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), len(midi.Instruments()))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodOptions, "/api/presets", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPresetLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/presets", map[string]any{
		"name": "night", "mood": "eerie", "duration": 4, "seed": 77,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Preset](t, w)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, 50, created.Intensity)
	assert.Equal(t, 90, created.Tempo)

	w = s.do(t, http.MethodGet, "/api/presets", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Preset](t, w), 1)

	w = s.do(t, http.MethodPut, "/api/presets/"+created.ID, map[string]any{
		"name": "night", "mood": "eerie", "duration": 4, "seed": 77, "intensity": 80,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 80, decode[models.Preset](t, w).Intensity)

	w = s.do(t, http.MethodPost, "/api/generate/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	gen := decode[map[string]any](t, w)
	assert.Equal(t, created.ID, gen["preset_id"])
	assert.EqualValues(t, 77, gen["seed"])
	assert.NotContains(t, gen, "audio_url")
	midiURL := gen["midi_url"].(string)
	assert.True(t, strings.HasPrefix(midiURL, "/audio/presets/"+created.ID+"_"))

	w = s.do(t, http.MethodGet, midiURL, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "audio/midi", w.Header().Get("Content-Type"))
	assert.Equal(t, "MThd", w.Body.String()[:4])

	w = s.do(t, http.MethodGet, "/api/presets/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, decode[models.Preset](t, w).LastGenerated)

	w = s.do(t, http.MethodDelete, "/api/presets/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodGet, "/api/presets/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPresetValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body any
		want int
	}{
		{name: "missing name", body: map[string]any{"mood": "calm"}, want: http.StatusBadRequest},
		{name: "unknown mood", body: map[string]any{"name": "x", "mood": "angry"}, want: http.StatusBadRequest},
		{name: "bad key", body: map[string]any{"name": "x", "mood": "calm", "key": "H"}, want: http.StatusBadRequest},
		{name: "intensity high", body: map[string]any{"name": "x", "mood": "calm", "intensity": 101}, want: http.StatusBadRequest},
		{name: "malformed", body: "{", want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/presets", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.NotEmpty(t, decode[map[string]any](t, w)["error"])
		})
	}
}

func TestMissingRecords(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/api/generate/nope", "/api/melodies/nope/generate"} {
		w := s.do(t, http.MethodPost, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
	w := s.do(t, http.MethodDelete, "/api/melodies/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMelodyLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/melodies", map[string]any{
		"name":  "tune",
		"tempo": 100,
		"notes": []map[string]any{
			{"pitch": "C4", "duration": 1, "velocity": 80},
			{"pitch": "rest", "duration": 0.5},
			{"pitch": "E4", "duration": 1, "velocity": 80},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	m := decode[models.Melody](t, w)
	assert.Equal(t, "piano", m.Instrument)

	w = s.do(t, http.MethodPost, "/api/melodies/"+m.ID+"/generate", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	gen := decode[map[string]any](t, w)

	w = s.do(t, http.MethodGet, gen["midi_url"].(string), nil)
	require.Equal(t, http.StatusOK, w.Code)
	info, err := midi.Inspect(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 2, info.TotalNotes)
}

func TestMelodyGenerateRejectsRestsOnly(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/api/melodies", map[string]any{
		"name":  "silence",
		"notes": []map[string]any{{"pitch": "rest", "duration": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	m := decode[models.Melody](t, w)

	w = s.do(t, http.MethodPost, "/api/melodies/"+m.ID+"/generate", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMelodyGenerateRejectsBadPitch(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/api/melodies", map[string]any{
		"name":  "bad",
		"notes": []map[string]any{{"pitch": "Q9", "duration": 1, "velocity": 80}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	m := decode[models.Melody](t, w)

	w = s.do(t, http.MethodPost, "/api/melodies/"+m.ID+"/generate", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompose(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/compose", map[string]any{"mood": "jazz", "seed": 5, "duration": 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "audio/midi", w.Header().Get("Content-Type"))
	assert.Equal(t, "5", w.Header().Get("X-Seed"))
	assert.Equal(t, "jazz", w.Header().Get("X-Mood"))
	assert.NotEmpty(t, w.Header().Get("X-Key"))
	first := w.Body.Bytes()

	w = s.do(t, http.MethodPost, "/api/compose", map[string]any{"mood": "jazz", "seed": 5, "duration": 3})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first, w.Body.Bytes(), "same seed must give the same file")

	w = s.do(t, http.MethodPost, "/api/compose", map[string]any{"mood": "jazz", "tempo": 400})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEncode(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/encode", `{"tempo": 100, "notes": [{"pitch": "C4", "duration": 1, "velocity": 80}]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "1", w.Header().Get("X-Notes"))
	assert.Equal(t, "MThd", w.Body.String()[:4])

	req := httptest.NewRequest(http.MethodPost, "/api/encode", strings.NewReader("tempo: 90\nnotes:\n  - {pitch: E4, duration: 1, velocity: 70}\n"))
	req.Header.Set("Content-Type", "application/yaml")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	w = s.do(t, http.MethodPost, "/api/encode", `{"notes": [{"pitch": "C4", "duration": 0, "velocity": 80}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodPost, "/api/encode", `{"notes": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAudioRejectsMissingAndEscapingPaths(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/audio/presets/none.mid", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(t, http.MethodGet, "/audio/..%2F..%2Fetc%2Fpasswd", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestComposeWebSocket(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/compose"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]any{"mood": "calm", "seed": 3}))

	var msg map[string]any
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "result", msg["type"])
	result := msg["result"].(map[string]any)
	assert.EqualValues(t, 3, result["seed"])

	kind, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, kind)
	assert.EqualValues(t, msg["bytes"], len(data))
	assert.Equal(t, "MThd", string(data[:4]))

	require.NoError(t, conn.WriteJSON(map[string]any{"mood": "angry"}))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "error", msg["type"])
	assert.NotEmpty(t, msg["error"])
}
