package character

import "time"

type Character struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ImageURL    string    `json:"imageUrl"`
	Rarity      int       `json:"rarity"`
	WeaponType  string    `json:"weaponType"`
	Element     string    `json:"element"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PUT replaces the whole record, so create and update share the payload shape.
type CreateCharacterRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=100"`
	ImageURL    string  `json:"imageUrl" binding:"required,max=500"`
	Rarity      int     `json:"rarity" binding:"required,oneof=4 5"`
	WeaponType  string  `json:"weaponType" binding:"required,oneof=Sword Broadblade Pistols Gauntlets Rectifier"`
	Element     string  `json:"element" binding:"required,oneof=Glacio Fusion Electro Aero Spectro Havoc"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

type UpdateCharacterRequest = CreateCharacterRequest
