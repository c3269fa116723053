package api

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lost-woods/cards/src/cards"
)

const (
	maxDecksPerDraw = 100
	maxJokers       = 8
)

// ParseCard handles GET /cards/parse?card=Ac.
func (h *Handlers) ParseCard(c *gin.Context) {
	code := c.Query("card")

	h.handle(c, func() (reply, error) {
		card, err := cards.Parse(code)
		if err != nil {
			return reply{}, err
		}
		return reply{card.FullName(), gin.H{"card": viewCard(card)}}, nil
	})
}

// CreateCard handles POST /cards with a {"rank": ..., "suit": ...} body.
func (h *Handlers) CreateCard(c *gin.Context) {
	h.handle(c, func() (reply, error) {
		var rec cards.Record
		if err := c.ShouldBindJSON(&rec); err != nil {
			return reply{}, badRequest("Invalid card body: %v", err)
		}

		card, err := cards.FromRecord(rec)
		if err != nil {
			return reply{}, err
		}
		return reply{card.String(), gin.H{"card": viewCard(card)}}, nil
	})
}

// RandomCards handles GET /cards?decks=1&jokers=0&cards=1: the requested
// number of standard decks are combined, shuffled and dealt from.
func (h *Handlers) RandomCards(c *gin.Context) {
	numDecks, err := strconv.Atoi(c.DefaultQuery("decks", "1"))
	if err != nil || numDecks < 1 || numDecks > maxDecksPerDraw {
		h.respond(c).fail(badRequest("Invalid deck count."))
		return
	}

	jokers, err := strconv.Atoi(c.DefaultQuery("jokers", "0"))
	if err != nil || jokers < 0 || jokers > maxJokers {
		h.respond(c).fail(badRequest("Jokers must be an integer between 0 and %d.", maxJokers))
		return
	}

	numCards, err := strconv.Atoi(c.DefaultQuery("cards", "1"))
	if err != nil || numCards < 1 {
		h.respond(c).fail(badRequest("Invalid card count."))
		return
	}

	h.handleRNG(c, func() (reply, error) {
		deck := cards.NewDeck(cards.WithSource(h.src))
		for i := 0; i < numDecks; i++ {
			deck.Add(cards.StandardCards()...)
			for j := 0; j < jokers; j++ {
				deck.Add(cards.Joker())
			}
		}

		if numCards > deck.Len() {
			return reply{}, badRequest("There are more cards to pick than cards in the deck.")
		}

		if err := deck.Shuffle(); err != nil {
			return reply{}, err
		}

		picked, err := deck.Draws(numCards)
		if err != nil {
			return reply{}, err
		}

		return reply{cardLines(picked), gin.H{
			"decks":  numDecks,
			"jokers": jokers,
			"cards":  numCards,
			"drawn":  viewCards(picked),
		}}, nil
	})
}

// Health reports the entropy source's last verdict. It never touches the
// stream itself.
func (h *Handlers) Health(c *gin.Context) {
	r := h.respond(c)
	if h.health == nil {
		r.fail(unavailable("UNHEALTHY: missing health monitor"))
		return
	}

	ok, msg, t := h.health.Snapshot()
	checked := t.Format(time.RFC3339)
	if !ok {
		r.fail(unavailable("UNHEALTHY: %s (last checked %s)", msg, checked))
		return
	}

	r.ok(reply{
		fmt.Sprintf("OK (last checked %s)", checked),
		gin.H{"ok": true, "last_checked": checked, "decks": h.decks.Len()},
	}, "health-check")
}
