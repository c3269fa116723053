package api

import (
	"crypto/rand"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lost-woods/cards/src/rng"
	"github.com/lost-woods/cards/src/store"
)

type Handlers struct {
	r      io.Reader
	src    *rng.Source
	health *rng.Health
	decks  *store.Store
	log    *zap.SugaredLogger
}

func NewHandlers(r io.Reader, h *rng.Health, decks *store.Store, log *zap.SugaredLogger) *Handlers {
	return &Handlers{
		r:      r,
		src:    rng.NewSource(r, h),
		health: h,
		decks:  decks,
		log:    log,
	}
}

// NewDeckID returns a generator of deck ids drawn from r.
func NewDeckID(r io.Reader) func() (string, error) {
	return func() (string, error) { return rng.NewUUIDv4(r) }
}

func (h *Handlers) respond(c *gin.Context) responder {
	return newResponder(c, h.log)
}

// rngErr reports why the entropy source may not be used, or nil.
func (h *Handlers) rngErr() error {
	if h.health == nil {
		return unavailable("RNG unhealthy: missing health monitor")
	}
	if ok, msg, _ := h.health.Snapshot(); !ok {
		return unavailable("RNG unhealthy: %s", msg)
	}
	return nil
}

// requestID draws a UUIDv4 from the entropy stream. A failed read marks the
// stream unhealthy and the id comes from crypto/rand instead, since the
// request's outcome has already been decided.
func (h *Handlers) requestID() string {
	id, err := rng.NewUUIDv4(h.r)
	if err == nil {
		return id
	}
	if h.health != nil {
		h.health.Set(false, "error fetching random bytes for uuid: "+err.Error())
	}
	h.log.Warnw("request id drawn from crypto/rand", "error", err)

	id, err = rng.NewUUIDv4(rand.Reader)
	if err != nil {
		return "unavailable"
	}
	return id
}

// handle runs work and writes its outcome. The request id is drawn only
// after work succeeds.
func (h *Handlers) handle(c *gin.Context, work func() (reply, error)) {
	r := h.respond(c)
	rep, err := work()
	if err != nil {
		r.fail(err)
		return
	}
	r.ok(rep, h.requestID())
}

// handleRNG is handle for work that consumes entropy. It is refused while
// the entropy source is unhealthy.
func (h *Handlers) handleRNG(c *gin.Context, work func() (reply, error)) {
	if err := h.rngErr(); err != nil {
		h.respond(c).fail(err)
		return
	}
	h.handle(c, work)
}

func CheckHeader(headerName, expectedValue string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Auth disabled if not configured
		if expectedValue == "" {
			c.Next()
			return
		}

		if c.GetHeader(headerName) != expectedValue {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}
