package cards

import (
	"slices"
	"sync"
)

var (
	standardOnce  sync.Once
	standardCards []*Card
	jokerCard     *Card
)

func loadStandard() {
	standardOnce.Do(func() {
		cards := make([]*Card, 0, 52)
		for r := Two; r <= Ace; r++ {
			for s := Clubs; s <= Spades; s++ {
				cards = append(cards, &Card{rank: r, suit: s})
			}
		}
		standardCards = cards
		jokerCard = &Card{rank: JokerRank, suit: NoSuit}
	})
}

// StandardCards returns the 52 cards of a standard deck, rank-major then
// suit-minor. The *Card values are shared by every standard deck.
func StandardCards() []*Card {
	loadStandard()
	return slices.Clone(standardCards)
}

// Joker returns the shared joker card.
func Joker() *Card {
	loadStandard()
	return jokerCard
}

// NewStandardDeck returns a deck holding the 52 standard cards followed by
// the given number of jokers.
func NewStandardDeck(jokers int, opts ...Option) *Deck {
	loadStandard()

	d := NewDeck(opts...)
	d.cards = make([]*Card, 0, len(standardCards)+max(jokers, 0))
	d.Add(standardCards...)
	for i := 0; i < jokers; i++ {
		d.Add(jokerCard)
	}
	return d
}
