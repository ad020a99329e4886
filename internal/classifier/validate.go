package classifier

import "github.com/pable/slp-stats/internal/model"

// ValidateCharacter converts the raw character selection in slot into a
// domain value. Raw data never silently defaults.
func ValidateCharacter(g *model.Game, slot int) (model.Character, error) {
	if slot < 0 || slot >= len(g.Starts) {
		return 0, model.ErrEmptyCharData
	}
	id := g.Starts[slot].CharacterID
	c, ok := model.Characters.FromID(id)
	if !ok {
		return 0, &model.CorruptedCharDataError{ID: id}
	}
	return c, nil
}

// ValidateStage converts a raw stage id into a domain value.
func ValidateStage(id int) (model.Stage, error) {
	if model.IsReservedStageID(id) {
		return 0, &model.CorruptedStageDataError{ID: id}
	}
	s, ok := model.Stages.FromID(id)
	if !ok {
		return 0, &model.CorruptedStageDataError{ID: id}
	}
	return s, nil
}
