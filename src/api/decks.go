package api

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lost-woods/cards/src/cards"
)

var sortKeys = map[string]cards.Comparator{
	"card": cards.Compare,
	"rank": cards.CompareRank,
	"suit": cards.CompareSuit,
}

// CreateDeck handles POST /decks?jokers=0&shuffle=true. The deck id is drawn
// from the entropy stream, so this is gated on RNG health even unshuffled.
func (h *Handlers) CreateDeck(c *gin.Context) {
	jokers, err := strconv.Atoi(c.DefaultQuery("jokers", "0"))
	if err != nil || jokers < 0 || jokers > maxJokers {
		h.respond(c).fail(badRequest("Invalid joker count."))
		return
	}

	shuffle, err := strconv.ParseBool(c.DefaultQuery("shuffle", "true"))
	if err != nil {
		h.respond(c).fail(badRequest("Invalid shuffle flag."))
		return
	}

	h.handleRNG(c, func() (reply, error) {
		deck := cards.NewStandardDeck(jokers, cards.WithSource(h.src))
		if shuffle {
			if err := deck.Shuffle(); err != nil {
				return reply{}, err
			}
		}

		id, err := h.decks.Create(deck)
		if err != nil {
			return reply{}, err
		}

		h.log.Infow("deck created", "id", id, "jokers", jokers, "shuffled", shuffle)
		return reply{id, gin.H{"deck": viewDeck(id, deck)}}, nil
	})
}

// ListDecks handles GET /decks.
func (h *Handlers) ListDecks(c *gin.Context) {
	h.handle(c, func() (reply, error) {
		ids := h.decks.IDs()
		return reply{strings.Join(ids, "\n"), gin.H{"decks": ids}}, nil
	})
}

// GetDeck handles GET /decks/:id.
func (h *Handlers) GetDeck(c *gin.Context) {
	h.withDeck(c, h.handle, func(id string, d *cards.Deck) (reply, error) {
		return deckReply(id, d, nil), nil
	})
}

// DrawCards handles POST /decks/:id/draw?count=1.
func (h *Handlers) DrawCards(c *gin.Context) {
	count, err := strconv.Atoi(c.DefaultQuery("count", "1"))
	if err != nil || count < 1 {
		h.respond(c).fail(badRequest("Invalid card count."))
		return
	}

	h.withDeck(c, h.handle, func(id string, d *cards.Deck) (reply, error) {
		drawn, err := d.Draws(count)
		if err != nil {
			return reply{}, err
		}
		return reply{cardLines(drawn), gin.H{"deck": viewDeck(id, d), "drawn": viewCards(drawn)}}, nil
	})
}

// RestartDeck handles POST /decks/:id/restart.
func (h *Handlers) RestartDeck(c *gin.Context) {
	h.withDeck(c, h.handle, func(id string, d *cards.Deck) (reply, error) {
		d.Restart()
		return deckReply(id, d, nil), nil
	})
}

// ShuffleDeck handles POST /decks/:id/shuffle.
func (h *Handlers) ShuffleDeck(c *gin.Context) {
	h.withDeck(c, h.handleRNG, func(id string, d *cards.Deck) (reply, error) {
		if err := d.Shuffle(); err != nil {
			return reply{}, err
		}
		return deckReply(id, d, nil), nil
	})
}

// SortDeck handles POST /decks/:id/sort?by=card&order=asc.
func (h *Handlers) SortDeck(c *gin.Context) {
	cmp, ok := sortKeys[c.DefaultQuery("by", "card")]
	if !ok {
		h.respond(c).fail(badRequest("Sort key must be one of card, rank or suit."))
		return
	}

	switch c.DefaultQuery("order", "asc") {
	case "asc":
	case "desc":
		cmp = cards.Reverse(cmp)
	default:
		h.respond(c).fail(badRequest("Sort order must be asc or desc."))
		return
	}

	h.withDeck(c, h.handle, func(id string, d *cards.Deck) (reply, error) {
		d.Sort(cmp)
		return deckReply(id, d, nil), nil
	})
}

// AddCards handles POST /decks/:id/cards with a body like ["Ac", "X"]. Either
// every card parses and is appended, or none is.
func (h *Handlers) AddCards(c *gin.Context) {
	var codes []string
	if err := c.ShouldBindJSON(&codes); err != nil || len(codes) == 0 {
		h.respond(c).fail(badRequest("Body must be a non-empty JSON array of card codes."))
		return
	}

	added := make([]*cards.Card, 0, len(codes))
	for _, code := range codes {
		card, err := cards.Parse(code)
		if err != nil {
			h.respond(c).fail(err)
			return
		}
		added = append(added, card)
	}

	h.withDeck(c, h.handle, func(id string, d *cards.Deck) (reply, error) {
		d.Add(added...)
		return deckReply(id, d, gin.H{"added": viewCards(added)}), nil
	})
}

// DeleteDeck handles DELETE /decks/:id.
func (h *Handlers) DeleteDeck(c *gin.Context) {
	id := c.Param("id")
	h.handle(c, func() (reply, error) {
		if err := h.decks.Delete(id); err != nil {
			return reply{}, err
		}
		h.log.Infow("deck deleted", "id", id)
		return reply{"deleted " + id, gin.H{"deleted": id}}, nil
	})
}

// withDeck runs fn through run while holding the deck named by the :id route
// parameter. run is handle, or handleRNG when fn consumes entropy.
func (h *Handlers) withDeck(
	c *gin.Context,
	run func(*gin.Context, func() (reply, error)),
	fn func(id string, d *cards.Deck) (reply, error),
) {
	id := c.Param("id")
	run(c, func() (reply, error) {
		var rep reply
		err := h.decks.With(id, func(d *cards.Deck) error {
			var err error
			rep, err = fn(id, d)
			return err
		})
		return rep, err
	})
}

// deckReply summarises d, adding extra to the JSON body.
func deckReply(id string, d *cards.Deck, extra gin.H) reply {
	v := viewDeck(id, d)
	payload := gin.H{"deck": v}
	for k, val := range extra {
		payload[k] = val
	}
	text := v.ID + ": " + strconv.Itoa(v.Remaining) + " of " + strconv.Itoa(v.Size) + " cards left"
	return reply{text, payload}
}
