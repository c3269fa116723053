package cards

import "strings"

// Rank is a card's face value: 0 ("2") through 12 ("A"), or 13 for the joker.
type Rank int

// Suit is one of clubs, diamonds, hearts or spades. Jokers carry NoSuit.
type Suit int

const (
	Two Rank = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
	JokerRank
)

const (
	NoSuit Suit = iota - 1
	Clubs
	Diamonds
	Hearts
	Spades
)

// JokerCode is the short form of a joker card.
const JokerCode = "X"

var (
	rankCodes = [...]string{"2", "3", "4", "5", "6", "7", "8", "9", "T", "J", "Q", "K", "A", JokerCode}
	rankNames = [...]string{
		"Two", "Three", "Four", "Five", "Six", "Seven", "Eight",
		"Nine", "Ten", "Jack", "Queen", "King", "Ace", "Joker",
	}

	suitCodes = [...]string{"c", "d", "h", "s"}
	suitNames = [...]string{"Clubs", "Diamonds", "Hearts", "Spades"}
)

func (r Rank) Valid() bool { return r >= 0 && int(r) < len(rankCodes) }

func (r Rank) Code() string {
	if !r.Valid() {
		return ""
	}
	return rankCodes[r]
}

func (r Rank) Name() string {
	if !r.Valid() {
		return ""
	}
	return rankNames[r]
}

func (s Suit) Valid() bool { return s >= 0 && int(s) < len(suitCodes) }

func (s Suit) Code() string {
	if !s.Valid() {
		return ""
	}
	return suitCodes[s]
}

func (s Suit) Name() string {
	if !s.Valid() {
		return "none"
	}
	return suitNames[s]
}

// RankFromCode looks up a rank code. Matching is case-insensitive.
func RankFromCode(code string) (Rank, bool) {
	code = strings.ToUpper(code)
	for i, c := range rankCodes {
		if c == code {
			return Rank(i), true
		}
	}
	return -1, false
}

// SuitFromCode looks up a suit code. Matching is case-insensitive.
func SuitFromCode(code string) (Suit, bool) {
	code = strings.ToLower(code)
	for i, c := range suitCodes {
		if c == code {
			return Suit(i), true
		}
	}
	return NoSuit, false
}
