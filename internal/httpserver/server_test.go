package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordscramble/internal/daily"
	"github.com/robalobadob/wordscramble/internal/dictionary"
	"github.com/robalobadob/wordscramble/internal/metrics"
	"github.com/robalobadob/wordscramble/internal/store"
	"github.com/robalobadob/wordscramble/internal/words"
)

// pinned always picks the first root.
type pinned struct{}

func (pinned) IntN(int) int { return 0 }

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, mutate ...func(*Options)) (*Server, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	opts := Options{
		Store:      st,
		Roots:      words.New([]string{"listen", "silkworm", "absolute"}),
		Dictionary: dictionary.NewSet("en", []string{"tin", "its", "silent", "lint", "enlist", "listen", "it"}),
		Language:   "en",
		Rand:       pinned{},
		Tokens:     NewTokens("test-secret", time.Hour),
		DailySalt:  "salt",
		Now:        func() time.Time { return testNow },
	}
	for _, m := range mutate {
		m(&opts)
	}
	return New(opts), st
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return doFrom(t, h, "192.0.2.1:1234", nil, method, path, token, body)
}

// doFrom is do with an explicit client address and extra headers.
func doFrom(t *testing.T, h http.Handler, remoteAddr string, header http.Header, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = remoteAddr
	for k, v := range header {
		req.Header[k] = v
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func startGame(t *testing.T, h http.Handler, body any) gameView {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/game/new", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	v := decode[gameView](t, rec)
	require.NotEmpty(t, v.Token)
	return v
}

func submit(t *testing.T, h http.Handler, token, word string) wordRes {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/game/word", token, wordReq{Word: word})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[wordRes](t, rec)
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewGame_RandomRoot(t *testing.T) {
	srv, st := newTestServer(t)
	v := startGame(t, srv, nil)
	assert.Equal(t, "listen", v.RootWord)
	assert.Equal(t, "random", v.Mode)
	assert.Zero(t, v.Score)
	assert.Empty(t, v.Words)
	assert.Equal(t, 1, st.Len())
}

func TestNewGame_SetsCookie(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv, http.MethodPost, "/game/new", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

func TestNewGame_DailyRoot(t *testing.T) {
	srv, _ := newTestServer(t)
	v := startGame(t, srv, newGameReq{Mode: "daily"})
	assert.Equal(t, "daily", v.Mode)
	want := daily.Root(testNow, "salt", words.New([]string{"listen", "silkworm", "absolute"}))
	assert.Equal(t, want, v.RootWord)
}

func TestNewGame_FixedRootAndBadMode(t *testing.T) {
	srv, _ := newTestServer(t)
	v := startGame(t, srv, newGameReq{Root: " Silkworm "})
	assert.Equal(t, "silkworm", v.RootWord)

	rec := do(t, srv, http.MethodPost, "/game/new", "", newGameReq{Mode: "blitz"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNewGame_RetiresPreviousSession(t *testing.T) {
	srv, st := newTestServer(t)
	v := startGame(t, srv, nil)
	rec := do(t, srv, http.MethodPost, "/game/new", v.Token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, st.Len())
	_, err := st.Get(context.Background(), v.GameID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestWord_RequiresToken(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv, http.MethodPost, "/game/word", "", wordReq{Word: "tin"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, srv, http.MethodPost, "/game/word", "garbage", wordReq{Word: "tin"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	other := NewTokens("other-secret", time.Hour)
	forged, _, err := other.Sign("whatever")
	require.NoError(t, err)
	rec = do(t, srv, http.MethodPost, "/game/word", forged, wordReq{Word: "tin"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWord_UnknownSession(t *testing.T) {
	srv, _ := newTestServer(t)
	tok, _, err := srv.opts.Tokens.Sign("missing")
	require.NoError(t, err)
	rec := do(t, srv, http.MethodPost, "/game/word", tok, wordReq{Word: "tin"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWord_Flow(t *testing.T) {
	srv, _ := newTestServer(t)
	v := startGame(t, srv, nil)

	res := submit(t, srv, v.Token, "TIN ")
	assert.Equal(t, "accepted", res.Status)
	assert.Equal(t, "tin", res.Word)
	assert.Equal(t, 4, res.Delta)
	assert.Equal(t, 4, res.Score)
	assert.Equal(t, []string{"tin"}, res.Words)
	assert.Nil(t, res.Error)

	res = submit(t, srv, v.Token, "tin")
	assert.Equal(t, "rejected", res.Status)
	require.NotNil(t, res.Error)
	assert.Equal(t, "already_used", res.Error.Reason)
	assert.Equal(t, "Word already used", res.Error.Title)
	assert.Equal(t, 4, res.Score)

	res = submit(t, srv, v.Token, "it")
	assert.Equal(t, "too_short", res.Error.Reason)

	res = submit(t, srv, v.Token, "lisp")
	assert.Equal(t, "not_composable", res.Error.Reason)
	assert.Contains(t, res.Error.Message, "listen")

	res = submit(t, srv, v.Token, "nets")
	assert.Equal(t, "not_a_real_word", res.Error.Reason)

	res = submit(t, srv, v.Token, "listen")
	assert.Equal(t, "already_used", res.Error.Reason)

	res = submit(t, srv, v.Token, "   ")
	assert.Equal(t, "ignored", res.Status)
	assert.Nil(t, res.Error)

	res = submit(t, srv, v.Token, "silent")
	assert.Equal(t, "accepted", res.Status)
	assert.Equal(t, 6+2, res.Delta)
	assert.Equal(t, 12, res.Score)
	assert.Equal(t, []string{"silent", "tin"}, res.Words)
}

func TestWord_CookieToken(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv, http.MethodPost, "/game/new", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	cookie := rec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodPost, "/game/word", bytes.NewBufferString(`{"word":"tin"}`))
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "accepted", decode[wordRes](t, rec).Status)
}

func TestWord_BadJSON(t *testing.T) {
	srv, _ := newTestServer(t)
	v := startGame(t, srv, nil)
	req := httptest.NewRequest(http.MethodPost, "/game/word", bytes.NewBufferString(`{"word":`))
	req.Header.Set("Authorization", "Bearer "+v.Token)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStateAndRestart(t *testing.T) {
	srv, _ := newTestServer(t)
	v := startGame(t, srv, nil)
	submit(t, srv, v.Token, "tin")

	rec := do(t, srv, http.MethodGet, "/game/state", v.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	state := decode[gameView](t, rec)
	assert.Equal(t, 4, state.Score)
	assert.Empty(t, state.Token)

	rec = do(t, srv, http.MethodPost, "/game/restart", v.Token, newGameReq{Root: "silkworm"})
	require.Equal(t, http.StatusOK, rec.Code)
	restarted := decode[gameView](t, rec)
	assert.Equal(t, v.GameID, restarted.GameID)
	assert.Equal(t, "silkworm", restarted.RootWord)
	assert.Equal(t, "random", restarted.Mode)
	assert.Zero(t, restarted.Score)
	assert.Empty(t, restarted.Words)
}

func TestRateLimit(t *testing.T) {
	srv, _ := newTestServer(t, func(o *Options) { o.RatePerMinute = 2 })
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/health", "", nil).Code)
	rec := do(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimit_NewGameKeyedOnHost(t *testing.T) {
	srv, st := newTestServer(t, func(o *Options) { o.RatePerMinute = 2 })

	created := 0
	for i := 0; i < 20; i++ {
		addr := fmt.Sprintf("192.0.2.1:%d", 40000+i)
		if doFrom(t, srv, addr, nil, http.MethodPost, "/game/new", "", nil).Code == http.StatusCreated {
			created++
		}
	}
	for i := 0; i < 20; i++ {
		h := http.Header{"X-Forwarded-For": {fmt.Sprintf("10.0.0.%d", i)}}
		if doFrom(t, srv, "192.0.2.1:1234", h, http.MethodPost, "/game/new", "", nil).Code == http.StatusCreated {
			created++
		}
	}
	assert.Equal(t, 2, created)
	assert.Equal(t, 2, st.Len())
}

func TestRateLimit_TokenDoesNotResetNewGame(t *testing.T) {
	srv, _ := newTestServer(t, func(o *Options) { o.RatePerMinute = 2 })
	v := startGame(t, srv, nil)

	rec := do(t, srv, http.MethodPost, "/game/new", v.Token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	next := decode[gameView](t, rec)

	rec = do(t, srv, http.MethodPost, "/game/new", next.Token, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimit_GameRoutesKeyedOnSession(t *testing.T) {
	srv, _ := newTestServer(t, func(o *Options) { o.RatePerMinute = 2 })
	v := startGame(t, srv, nil)

	// The host budget is spent on /game/new; the session has its own.
	assert.Equal(t, http.StatusTooManyRequests, do(t, srv, http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/game/state", v.Token, nil).Code)
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/game/state", v.Token, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, srv, http.MethodGet, "/game/state", v.Token, nil).Code)
}

func TestRateLimit_TrustProxy(t *testing.T) {
	srv, st := newTestServer(t, func(o *Options) {
		o.RatePerMinute = 1
		o.TrustProxy = true
	})
	for i := 0; i < 3; i++ {
		h := http.Header{"X-Forwarded-For": {fmt.Sprintf("10.0.0.%d", i)}}
		rec := doFrom(t, srv, "192.0.2.1:1234", h, http.MethodPost, "/game/new", "", nil)
		assert.Equal(t, http.StatusCreated, rec.Code)
	}
	assert.Equal(t, 3, st.Len())
}

func TestDebugWords(t *testing.T) {
	srv, _ := newTestServer(t)
	startGame(t, srv, nil)

	rec := do(t, srv, http.MethodGet, "/debug/words", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]int{"roots": 3, "sessions": 1, "dictionary": 7}, decode[map[string]int](t, rec))
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv, _ := newTestServer(t, func(o *Options) {
		o.Metrics = metrics.NewCollector(reg)
		o.Gatherer = reg
	})
	v := startGame(t, srv, nil)
	submit(t, srv, v.Token, "tin")
	submit(t, srv, v.Token, "it")

	rec := do(t, srv, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `wordscramble_games_started_total{mode="random"} 1`)
	assert.Contains(t, body, `wordscramble_submissions_total{reason="too_short",status="rejected"} 1`)
}

func TestSweep(t *testing.T) {
	srv, st := newTestServer(t, func(o *Options) { o.RatePerMinute = 100 })
	startGame(t, srv, nil)
	srv.sweep(context.Background(), time.Hour)
	assert.Equal(t, 1, st.Len())
	srv.sweep(context.Background(), -time.Hour)
	assert.Zero(t, st.Len())
}

func TestTokens_Expiry(t *testing.T) {
	tk := NewTokens("secret", time.Minute)
	tok, _, err := tk.Sign("abc")
	require.NoError(t, err)

	id, err := tk.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "abc", id)

	tk.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = tk.Parse(tok)
	assert.Error(t, err)
}
