package game

import (
	rand "math/rand/v2"
)

// DefaultBotNames is the pool bot display names are drawn from
var DefaultBotNames = []string{
	"Gregory", "Muhammad", "Elon", "Obama", "Lincoln", "Washington", "Trump", "Biden",
	"Ali", "Mr. Alpha", "Jamaican Botmon", "Brian", "Payton", "Matthew", "Austin",
}

// DefaultBotEmojis is the pool bot avatars are drawn from
var DefaultBotEmojis = []string{
	"😭", "😔", "😡", "😁", "😂", "😃", "😅", "😆", "😉", "😋",
	"😍", "🙂", "😜", "🤑", "🤠", "🤓", "👽", "👴", "🤡",
}

// Identity is the per-round display persona of a hand
type Identity struct {
	Name  string
	Emoji string
}

// String returns the identity as "emoji name"
func (i Identity) String() string {
	if i.Emoji == "" {
		return i.Name
	}
	return i.Emoji + " " + i.Name
}

// RandomIdentity draws a name and an emoji independently and uniformly
func RandomIdentity(rng *rand.Rand, names, emojis []string) Identity {
	var id Identity
	if len(names) > 0 {
		id.Name = names[rng.IntN(len(names))]
	}
	if len(emojis) > 0 {
		id.Emoji = emojis[rng.IntN(len(emojis))]
	}
	return id
}

func fixedIdentity(r Role) Identity {
	if r == Player {
		return Identity{Name: "You"}
	}
	return Identity{Name: r.String()}
}
