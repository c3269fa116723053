package api_test

import (
	"encoding/binary"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lost-woods/cards/src/api"
	"github.com/lost-woods/cards/src/rng"
	"github.com/lost-woods/cards/src/server"
	"github.com/lost-woods/cards/src/store"
)

type uint32CounterReader struct {
	next uint32
	buf  [4]byte
	off  int
}

func (r *uint32CounterReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if r.off == 0 {
			binary.BigEndian.PutUint32(r.buf[:], r.next)
			r.next++
		}
		copied := copy(p[n:], r.buf[r.off:])
		n += copied
		r.off = (r.off + copied) % 4
	}
	return n, nil
}

var uuidV4Re = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	health *rng.Health
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := &uint32CounterReader{next: 1}
	health := rng.NewHealth()
	health.Set(true, "")

	decks := store.New(3, api.NewDeckID(r))
	router := gin.New()
	server.Routes(router, api.NewHandlers(r, health, decks, zap.NewNop().Sugar()))

	return &testServer{t: t, router: router, health: health}
}

func (s *testServer) do(method, target, body string, jsonOut bool) *httptest.ResponseRecorder {
	s.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if jsonOut {
		req.Header.Set("Accept", "application/json")
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

type cardJSON struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Rank int    `json:"rank"`
	Suit int    `json:"suit"`
}

type deckJSON struct {
	ID        string `json:"id"`
	Size      int    `json:"size"`
	Index     int    `json:"index"`
	Remaining int    `json:"remaining"`
}

type response struct {
	RequestID string     `json:"request_id"`
	Error     string     `json:"error"`
	Card      cardJSON   `json:"card"`
	Deck      deckJSON   `json:"deck"`
	Drawn     []cardJSON `json:"drawn"`
	Decks     []string   `json:"decks"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response {
	t.Helper()
	var out response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestParseCard_AcceptHeaderControlsJSON(t *testing.T) {
	s := newTestServer(t)

	w := s.do("GET", "/cards/parse?card=Ac", "", true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode(t, w)
	assert.Regexp(t, uuidV4Re, out.RequestID)
	assert.Equal(t, cardJSON{Code: "Ac", Name: "Ace of Clubs", Rank: 12, Suit: 0}, out.Card)

	w = s.do("GET", "/cards/parse?card=x", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "Joker\nrequest_id: "), w.Body.String())

	w = s.do("GET", "/cards/parse?card=Ac&format=json", "", false)
	assert.Equal(t, "Ace of Clubs", decode(t, w).Card.Name)
}

func TestParseCard_Invalid(t *testing.T) {
	s := newTestServer(t)

	for _, code := range []string{"", "A", "Zc", "Az", "10c"} {
		w := s.do("GET", "/cards/parse?card="+code, "", true)
		assert.Equal(t, http.StatusBadRequest, w.Code, code)
		assert.NotEmpty(t, decode(t, w).Error, code)
	}
}

func TestCreateCard_RecordBody(t *testing.T) {
	s := newTestServer(t)

	w := s.do("POST", "/cards", `{"rank": "t", "suit": 2}`, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Th", decode(t, w).Card.Code)

	w = s.do("POST", "/cards", `{"rank": 13, "suit": 9}`, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, -1, decode(t, w).Card.Suit)

	w = s.do("POST", "/cards", `{"rank": 14, "suit": 0}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w).Error, "invalid rank")

	w = s.do("POST", "/cards", `{"rank": [1]}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRandomCards(t *testing.T) {
	s := newTestServer(t)

	w := s.do("GET", "/cards?cards=5", "", true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	drawn := decode(t, w).Drawn
	require.Len(t, drawn, 5)
	seen := map[string]bool{}
	for _, c := range drawn {
		assert.False(t, seen[c.Code], "duplicate %s", c.Code)
		seen[c.Code] = true
	}

	w = s.do("GET", "/cards?decks=2&jokers=1&cards=106", "", true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	jokers := 0
	for _, c := range decode(t, w).Drawn {
		if c.Code == "X" {
			jokers++
		}
	}
	assert.Equal(t, 2, jokers)

	w = s.do("GET", "/cards?cards=53", "", true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for _, q := range []string{"decks=0", "decks=101", "jokers=-1", "jokers=9", "cards=0", "cards=abc"} {
		w = s.do("GET", "/cards?"+q, "", true)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestDeckLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.do("POST", "/decks?jokers=2&shuffle=false", "", true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	deck := decode(t, w).Deck
	require.Regexp(t, uuidV4Re, deck.ID)
	assert.Equal(t, deckJSON{ID: deck.ID, Size: 54, Index: 0, Remaining: 54}, deck)
	base := "/decks/" + deck.ID

	w = s.do("POST", base+"/draw?count=3", "", true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode(t, w)
	require.Len(t, out.Drawn, 3)
	assert.Equal(t, []string{"2c", "2d", "2h"}, codes(out.Drawn))
	assert.Equal(t, 3, out.Deck.Index)

	w = s.do("POST", base+"/draw?count=52", "", true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do("GET", base, "", true)
	assert.Equal(t, 3, decode(t, w).Deck.Index)

	w = s.do("POST", base+"/sort?order=desc", "", true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 0, decode(t, w).Deck.Index)
	w = s.do("POST", base+"/draw?count=3", "", true)
	assert.Equal(t, []string{"X", "X", "As"}, codes(decode(t, w).Drawn))

	w = s.do("POST", base+"/restart", "", true)
	assert.Equal(t, 54, decode(t, w).Deck.Remaining)

	w = s.do("POST", base+"/shuffle", "", true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 0, decode(t, w).Deck.Index)

	w = s.do("POST", base+"/sort?by=suit", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do("POST", base+"/draw", "", true)
	assert.Equal(t, "X", decode(t, w).Drawn[0].Code)

	w = s.do("GET", "/decks", "", true)
	assert.Equal(t, []string{deck.ID}, decode(t, w).Decks)

	w = s.do("DELETE", base, "", true)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do("GET", base, "", true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do("DELETE", base, "", true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddCards_AllOrNothing(t *testing.T) {
	s := newTestServer(t)

	w := s.do("POST", "/decks?shuffle=false", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	base := "/decks/" + decode(t, w).Deck.ID

	w = s.do("POST", base+"/cards", `["Ac", "Qq"]`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do("GET", base, "", true)
	assert.Equal(t, 52, decode(t, w).Deck.Size)

	w = s.do("POST", base+"/cards", `["Ac", "x"]`, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 54, decode(t, w).Deck.Size)

	w = s.do("POST", base+"/cards", `[]`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSortDeck_InvalidQuery(t *testing.T) {
	s := newTestServer(t)
	w := s.do("POST", "/decks", "", true)
	base := "/decks/" + decode(t, w).Deck.ID

	assert.Equal(t, http.StatusBadRequest, s.do("POST", base+"/sort?by=colour", "", true).Code)
	assert.Equal(t, http.StatusBadRequest, s.do("POST", base+"/sort?order=up", "", true).Code)
	assert.Equal(t, http.StatusNotFound, s.do("POST", "/decks/nope/sort", "", true).Code)
}

func TestCreateDeck_Limit(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, s.do("POST", "/decks", "", true).Code)
	}
	assert.Equal(t, http.StatusServiceUnavailable, s.do("POST", "/decks", "", true).Code)
}

func TestCreateDeck_DuplicateIDIsInternalError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	health := rng.NewHealth()
	health.Set(true, "")
	decks := store.New(0, func() (string, error) { return "fixed", nil })

	router := gin.New()
	server.Routes(router, api.NewHandlers(&uint32CounterReader{next: 1}, health, decks, zap.NewNop().Sugar()))
	s := &testServer{t: t, router: router, health: health}

	require.Equal(t, http.StatusOK, s.do("POST", "/decks?shuffle=false", "", true).Code)
	w := s.do("POST", "/decks", "", true)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal error.", decode(t, w).Error)
	assert.Equal(t, []string{"fixed"}, decode(t, s.do("GET", "/decks", "", true)).Decks)
}

func TestUnhealthyRNGGatesOnlyEntropyUse(t *testing.T) {
	s := newTestServer(t)
	w := s.do("POST", "/decks?shuffle=false", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	base := "/decks/" + decode(t, w).Deck.ID

	s.health.Set(false, "stuck")

	for _, tc := range []struct{ method, target string }{
		{"GET", "/cards"},
		{"POST", "/decks"},
		{"POST", base + "/shuffle"},
	} {
		w = s.do(tc.method, tc.target, "", true)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, tc.target)
		assert.Contains(t, decode(t, w).Error, "stuck", tc.target)
	}

	w = s.do("GET", "/cards/parse?card=Ac", "", true)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do("POST", base+"/draw?count=2", "", true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"2c", "2d"}, codes(decode(t, w).Drawn))
	w = s.do("POST", base+"/sort", "", true)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do("GET", "/health", "", false)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "UNHEALTHY: stuck")
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestRequestIDFallsBackWhenStreamFails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	health := rng.NewHealth()
	health.Set(true, "")

	router := gin.New()
	server.Routes(router, api.NewHandlers(brokenReader{}, health, store.New(0, nil), zap.NewNop().Sugar()))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/cards/parse?card=Kd", nil)
	req.Header.Set("Accept", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode(t, w)
	assert.Equal(t, "King of Diamonds", out.Card.Name)
	assert.Regexp(t, uuidV4Re, out.RequestID)

	ok, msg, _ := health.Snapshot()
	assert.False(t, ok)
	assert.Contains(t, msg, "uuid")
}

func TestCheckHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(api.CheckHeader("X-API-KEY", "secret"))
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-API-KEY", "secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func codes(cs []cardJSON) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Code)
	}
	return out
}
