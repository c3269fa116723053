package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lost-woods/cards/src/cards"
	"github.com/lost-woods/cards/src/rng"
	"github.com/lost-woods/cards/src/store"
)

// reply is a successful outcome: the plain-text body and the fields of the
// JSON body.
type reply struct {
	text    string
	payload gin.H
}

// statusError carries a status and a client-facing message for failures
// detected by the handlers themselves.
type statusError struct {
	status int
	msg    string
}

func (e *statusError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &statusError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

func unavailable(format string, args ...any) error {
	return &statusError{status: http.StatusServiceUnavailable, msg: fmt.Sprintf(format, args...)}
}

// Domain errors whose message is safe to show the client.
var errorStatus = []struct {
	err    error
	status int
}{
	{cards.ErrInvalidRank, http.StatusBadRequest},
	{cards.ErrInvalidSuit, http.StatusBadRequest},
	{cards.ErrInvalidCard, http.StatusBadRequest},
	{cards.ErrInvalidCount, http.StatusBadRequest},
	{cards.ErrInsufficientCards, http.StatusBadRequest},
	{store.ErrNotFound, http.StatusNotFound},
	{store.ErrFull, http.StatusServiceUnavailable},
}

// responder writes plain text by default and JSON for
// "Accept: application/json" or "?format=json".
type responder struct {
	c    *gin.Context
	log  *zap.SugaredLogger
	json bool
}

func newResponder(c *gin.Context, log *zap.SugaredLogger) responder {
	json := c.Query("format") == "json" ||
		strings.Contains(strings.ToLower(c.GetHeader("Accept")), "application/json")
	return responder{c: c, log: log, json: json}
}

func (r responder) send(status int, text string, body gin.H) {
	if r.json {
		r.c.JSON(status, body)
		return
	}
	r.c.String(status, text)
}

func (r responder) ok(rep reply, requestID string) {
	body := gin.H{"request_id": requestID}
	for k, v := range rep.payload {
		body[k] = v
	}
	r.send(http.StatusOK, rep.text+"\nrequest_id: "+requestID, body)
}

// fail maps err onto a status. Anything unrecognised is logged and reported
// as a bare internal error.
func (r responder) fail(err error) {
	status, msg := http.StatusInternalServerError, "Internal error."

	var se *statusError
	switch {
	case errors.As(err, &se):
		status, msg = se.status, se.msg
	case errors.Is(err, rng.ErrRead):
		msg = "Error fetching random bytes."
	default:
		for _, m := range errorStatus {
			if errors.Is(err, m.err) {
				status, msg = m.status, err.Error()
				break
			}
		}
	}

	if status == http.StatusInternalServerError {
		r.log.Errorw("request failed", "path", r.c.FullPath(), "error", err)
	}
	r.send(status, msg, gin.H{"error": msg})
}
