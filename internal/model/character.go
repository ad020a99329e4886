package model

import (
	"fmt"
	"strconv"
)

// Character is an external character id as stored in the replay's game start block.
type Character uint8

const (
	CaptainFalcon Character = iota
	DonkeyKong
	Fox
	MrGameAndWatch
	Kirby
	Bowser
	Link
	Luigi
	Mario
	Marth
	Mewtwo
	Ness
	Peach
	Pikachu
	IceClimbers
	Jigglypuff
	Samus
	Yoshi
	Zelda
	Sheik
	Falco
	YoungLink
	DrMario
	Roy
	Pichu
	Ganondorf
)

// Characters is the closed set of selectable characters.
var Characters = NewDomain("character", []Entry[Character]{
	{CaptainFalcon, "Captain Falcon", []string{"falcon"}},
	{DonkeyKong, "Donkey Kong", []string{"dk"}},
	{Fox, "Fox", nil},
	{MrGameAndWatch, "Mr. Game and Watch", []string{"mr game and watch", "game and watch", "gnw"}},
	{Kirby, "Kirby", nil},
	{Bowser, "Bowser", nil},
	{Link, "Link", nil},
	{Luigi, "Luigi", nil},
	{Mario, "Mario", nil},
	{Marth, "Marth", nil},
	{Mewtwo, "Mewtwo", nil},
	{Ness, "Ness", nil},
	{Peach, "Peach", nil},
	{Pikachu, "Pikachu", nil},
	{IceClimbers, "Ice Climbers", []string{"ics", "ic"}},
	{Jigglypuff, "Jigglypuff", []string{"puff"}},
	{Samus, "Samus", nil},
	{Yoshi, "Yoshi", nil},
	{Zelda, "Zelda", nil},
	{Sheik, "Sheik", nil},
	{Falco, "Falco", nil},
	{YoungLink, "Young Link", []string{"yl"}},
	{DrMario, "Dr. Mario", []string{"dr mario", "doc"}},
	{Roy, "Roy", nil},
	{Pichu, "Pichu", nil},
	{Ganondorf, "Ganondorf", []string{"ganon"}},
})

func (c Character) String() string { return Characters.Name(c) }

// ParseCharacter resolves a character name or alias.
func ParseCharacter(s string) (Character, error) { return Characters.Parse(s) }

// UnmarshalJSON rejects ids outside the character domain so a tampered
// cache never yields an invalid record.
func (c *Character) UnmarshalJSON(b []byte) error {
	id, err := strconv.Atoi(string(b))
	if err != nil {
		return fmt.Errorf("character id %s: %w", b, err)
	}
	v, ok := Characters.FromID(id)
	if !ok {
		return &CorruptedCharDataError{ID: id}
	}
	*c = v
	return nil
}
