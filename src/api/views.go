package api

import (
	"strings"

	"github.com/lost-woods/cards/src/cards"
)

type cardView struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Rank int    `json:"rank"`
	Suit int    `json:"suit"`
}

func viewCard(c *cards.Card) cardView {
	return cardView{
		Code: c.String(),
		Name: c.FullName(),
		Rank: int(c.Rank()),
		Suit: int(c.Suit()),
	}
}

func viewCards(cs []*cards.Card) []cardView {
	out := make([]cardView, 0, len(cs))
	for _, c := range cs {
		out = append(out, viewCard(c))
	}
	return out
}

// cardLines renders one full card name per line.
func cardLines(cs []*cards.Card) string {
	var b strings.Builder
	for i, c := range cs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(c.FullName())
	}
	return b.String()
}

type deckView struct {
	ID        string `json:"id"`
	Size      int    `json:"size"`
	Index     int    `json:"index"`
	Remaining int    `json:"remaining"`
}

func viewDeck(id string, d *cards.Deck) deckView {
	return deckView{ID: id, Size: d.Len(), Index: d.Index(), Remaining: d.Remaining()}
}
