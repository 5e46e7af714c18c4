package favorite

import (
	"time"

	"github.com/soraleth/wavedex/internal/domain/character"
)

type Favorite struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	CharacterID string    `json:"characterId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// what the list endpoint returns; just the character reference
type Ref struct {
	CharacterID string `json:"characterId"`
}

// favorite joined with its character row, for the details endpoint
type WithCharacter struct {
	CharacterID string              `json:"characterId"`
	Character   character.Character `json:"character"`
}

type CreateFavoriteRequest struct {
	CharacterID string `json:"characterId" binding:"required,max=100"`
}
