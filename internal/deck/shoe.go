package deck

import (
	rand "math/rand/v2"
)

// ShoeSize is the number of cards in a freshly built shoe
const ShoeSize = 52

// Shoe is the working stack of cards a round is dealt from. The top of the
// shoe is the end of the slice.
type Shoe struct {
	cards      []Card
	rng        *rand.Rand
	reshuffles int
}

// NewShoe creates a full, shuffled 52-card shoe
func NewShoe(rng *rand.Rand) *Shoe {
	s := &Shoe{
		cards: make([]Card, 0, ShoeSize),
		rng:   rng,
	}
	s.Build()
	s.Shuffle()
	return s
}

// NewStackedShoe creates a shoe whose next draws are exactly top, in order.
// Once those cards run out the shoe refills with a shuffled 52-card set like
// any other shoe.
func NewStackedShoe(rng *rand.Rand, top ...Card) *Shoe {
	s := &Shoe{
		cards: make([]Card, 0, ShoeSize),
		rng:   rng,
	}
	for i := len(top) - 1; i >= 0; i-- {
		s.cards = append(s.cards, top[i])
	}
	return s
}

// Build discards whatever is left and restores the 52 cards in
// deterministic rank-major order.
func (s *Shoe) Build() {
	s.cards = s.cards[:0]
	for _, rank := range Ranks {
		for _, suit := range Suits {
			s.cards = append(s.cards, NewCard(suit, rank))
		}
	}
}

// Shuffle randomizes the order of cards in the shoe (Fisher-Yates)
func (s *Shoe) Shuffle() {
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// Draw removes and returns the top card. An empty shoe is rebuilt and
// reshuffled first, so Draw always succeeds.
func (s *Shoe) Draw() Card {
	if len(s.cards) == 0 {
		s.Build()
		s.Shuffle()
		s.reshuffles++
	}
	card := s.cards[len(s.cards)-1]
	s.cards = s.cards[:len(s.cards)-1]
	return card
}

// Remaining returns the number of cards left before the next reshuffle
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// Reshuffles returns how many times an exhausted shoe has been rebuilt
func (s *Shoe) Reshuffles() int {
	return s.reshuffles
}

// Cards returns a copy of the remaining cards, top card last
func (s *Shoe) Cards() []Card {
	out := make([]Card, len(s.cards))
	copy(out, s.cards)
	return out
}
