package cards

import (
	"crypto/rand"
	"errors"
	"fmt"
	"slices"

	"github.com/lost-woods/cards/src/rng"
)

var (
	ErrInsufficientCards = errors.New("not enough cards")
	ErrInvalidCount      = errors.New("invalid card count")
)

// Source yields uniform integers in [0, n).
type Source interface {
	Intn(n int) (int, error)
}

var defaultSource Source = rng.NewSource(rand.Reader, nil)

// Deck is an ordered pile of cards with a draw cursor. Drawing moves the
// cursor forward; cards are never removed from the pile.
//
// A Deck is not safe for concurrent use.
type Deck struct {
	cards []*Card
	index int
	src   Source
}

type Option func(*Deck)

// WithSource sets the randomness used by Shuffle. Defaults to crypto/rand.
func WithSource(src Source) Option {
	return func(d *Deck) {
		if src != nil {
			d.src = src
		}
	}
}

func NewDeck(opts ...Option) *Deck {
	d := &Deck{src: defaultSource}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Add appends cards to the bottom of the deck. Nil cards are skipped.
func (d *Deck) Add(cards ...*Card) {
	for _, c := range cards {
		if c != nil {
			d.cards = append(d.cards, c)
		}
	}
}

// Draw returns the card under the cursor and advances the cursor.
func (d *Deck) Draw() (*Card, error) {
	if d.index >= len(d.cards) {
		return nil, fmt.Errorf("%w: drew all %d cards", ErrInsufficientCards, len(d.cards))
	}
	c := d.cards[d.index]
	d.index++
	return c, nil
}

// Draws returns the next count cards in deck order. Either all count cards
// are drawn or the cursor does not move.
func (d *Deck) Draws(count int) ([]*Card, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	if remaining := d.Remaining(); count > remaining {
		return nil, fmt.Errorf("%w: want %d, %d left", ErrInsufficientCards, count, remaining)
	}

	drawn := slices.Clone(d.cards[d.index : d.index+count])
	d.index += count
	return drawn, nil
}

// Restart moves the cursor back to the top without reordering.
func (d *Deck) Restart() {
	d.index = 0
}

// Shuffle restarts the deck and permutes every card with a Fisher-Yates
// shuffle. If the random source fails the deck is left as it was.
func (d *Deck) Shuffle() error {
	shuffled := slices.Clone(d.cards)
	for i := len(shuffled) - 1; i > 0; i-- {
		j, err := d.src.Intn(i + 1)
		if err != nil {
			return fmt.Errorf("shuffle: %w", err)
		}
		if j < 0 || j > i {
			return fmt.Errorf("shuffle: random index %d out of range [0, %d]", j, i)
		}
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	d.Restart()
	d.cards = shuffled
	return nil
}

// Sort restarts the deck and stably sorts it with cmp, or Compare if cmp is nil.
func (d *Deck) Sort(cmp Comparator) {
	if cmp == nil {
		cmp = Compare
	}
	d.Restart()
	slices.SortStableFunc(d.cards, cmp)
}

func (d *Deck) Len() int       { return len(d.cards) }
func (d *Deck) Index() int     { return d.index }
func (d *Deck) Remaining() int { return len(d.cards) - d.index }

// Cards returns every card in deck order, drawn or not.
func (d *Deck) Cards() []*Card {
	return slices.Clone(d.cards)
}
