package cards

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	ErrInvalidRank = errors.New("invalid rank")
	ErrInvalidSuit = errors.New("invalid suit")
	ErrInvalidCard = errors.New("invalid card")
)

type valueKind uint8

const (
	valueUnset valueKind = iota
	valueIndex
	valueCode
)

// Value is one component of a card (its rank or its suit) given either as a
// table index or as a short code. The zero Value is unset.
type Value struct {
	kind  valueKind
	index int
	code  string
}

func Index(i int) Value   { return Value{kind: valueIndex, index: i} }
func Code(s string) Value { return Value{kind: valueCode, code: s} }

func (v Value) IsSet() bool { return v.kind != valueUnset }

func (v Value) String() string {
	switch v.kind {
	case valueIndex:
		return strconv.Itoa(v.index)
	case valueCode:
		return strconv.Quote(v.code)
	}
	return "unset"
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case valueIndex:
		return json.Marshal(v.index)
	case valueCode:
		return json.Marshal(v.code)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts a JSON number (index), a JSON string (code) or null.
func (v *Value) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		*v = Value{}
		return nil
	case strings.HasPrefix(s, `"`):
		var code string
		if err := json.Unmarshal(b, &code); err != nil {
			return err
		}
		*v = Code(code)
		return nil
	}

	var i int
	if err := json.Unmarshal(b, &i); err != nil {
		return fmt.Errorf("card value must be an integer or a code, got %s", s)
	}
	*v = Index(i)
	return nil
}

// Record is the named-field form of a card. Suit may be left unset for jokers.
type Record struct {
	Rank Value `json:"rank"`
	Suit Value `json:"suit"`
}

// Card is an immutable (rank, suit) pair. Decks hold *Card, so pointer
// identity distinguishes physical cards with the same value.
type Card struct {
	rank Rank
	suit Suit
}

// New builds a card from a rank and a suit. A joker rank discards the suit
// without looking at it.
func New(rank, suit Value) (*Card, error) {
	r, err := resolveRank(rank)
	if err != nil {
		return nil, err
	}

	if r == JokerRank {
		return &Card{rank: r, suit: NoSuit}, nil
	}

	s, err := resolveSuit(suit)
	if err != nil {
		return nil, err
	}
	return &Card{rank: r, suit: s}, nil
}

func FromRecord(rec Record) (*Card, error) {
	return New(rec.Rank, rec.Suit)
}

// Parse reads the short form of a card: a rank code followed by a suit code
// ("Ac", "td"), or the joker code on its own ("X").
func Parse(s string) (*Card, error) {
	switch utf8.RuneCountInString(s) {
	case 1:
		if strings.ToUpper(s) != JokerCode {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCard, s)
		}
		return New(Code(s), Value{})
	case 2:
		_, size := utf8.DecodeRuneInString(s)
		return New(Code(s[:size]), Code(s[size:]))
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidCard, s)
}

// MustParse is like Parse but panics on error.
func MustParse(s string) *Card {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

func resolveRank(v Value) (Rank, error) {
	switch v.kind {
	case valueIndex:
		if r := Rank(v.index); r.Valid() {
			return r, nil
		}
	case valueCode:
		if r, ok := RankFromCode(v.code); ok {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrInvalidRank, v)
}

func resolveSuit(v Value) (Suit, error) {
	switch v.kind {
	case valueIndex:
		if s := Suit(v.index); s.Valid() {
			return s, nil
		}
	case valueCode:
		if s, ok := SuitFromCode(v.code); ok {
			return s, nil
		}
	}
	return NoSuit, fmt.Errorf("%w: %s", ErrInvalidSuit, v)
}

func (c *Card) Rank() Rank    { return c.rank }
func (c *Card) Suit() Suit    { return c.suit }
func (c *Card) IsJoker() bool { return c.rank == JokerRank }

func (c *Card) Equal(o *Card) bool {
	return o != nil && c.rank == o.rank && c.suit == o.suit
}

// String returns the short form, e.g. "Ac", "9h" or "X".
func (c *Card) String() string {
	if c.IsJoker() {
		return JokerCode
	}
	return c.rank.Code() + c.suit.Code()
}

// FullName returns e.g. "Ace of Clubs", or "Joker".
func (c *Card) FullName() string {
	if c.IsJoker() {
		return c.rank.Name()
	}
	return c.rank.Name() + " of " + c.suit.Name()
}

func (c *Card) Record() Record {
	return Record{Rank: Index(int(c.rank)), Suit: Index(int(c.suit))}
}

// Comparator orders two cards: negative when a sorts first, zero when equal,
// positive when b sorts first.
type Comparator func(a, b *Card) int

func CompareRank(a, b *Card) int { return compareInt(int(a.rank), int(b.rank)) }
func CompareSuit(a, b *Card) int { return compareInt(int(a.suit), int(b.suit)) }

// Compare is the canonical order: by rank, then by suit. Jokers sort last.
func Compare(a, b *Card) int {
	if r := CompareRank(a, b); r != 0 {
		return r
	}
	return CompareSuit(a, b)
}

// Reverse inverts cmp. A nil cmp reverses Compare.
func Reverse(cmp Comparator) Comparator {
	if cmp == nil {
		cmp = Compare
	}
	return func(a, b *Card) int { return cmp(b, a) }
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
