package build

import (
	"time"

	"github.com/soraleth/wavedex/internal/patch"
)

type Build struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	CharacterID string    `json:"characterId"`
	BuildName   string    `json:"buildName"`
	Weapon      *string   `json:"weapon,omitempty"`
	EchoSet1    *string   `json:"echoSet1,omitempty"`
	EchoSet2    *string   `json:"echoSet2,omitempty"`
	MainEcho    *string   `json:"mainEcho,omitempty"`
	SubStats    *string   `json:"subStats,omitempty"`
	FinalStats  *string   `json:"finalStats,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateBuildRequest struct {
	CharacterID string  `json:"characterId" binding:"required,max=100"`
	BuildName   string  `json:"buildName" binding:"required,min=1,max=100"`
	Weapon      *string `json:"weapon" binding:"omitempty,max=100"`
	EchoSet1    *string `json:"echoSet1" binding:"omitempty,max=100"`
	EchoSet2    *string `json:"echoSet2" binding:"omitempty,max=100"`
	MainEcho    *string `json:"mainEcho" binding:"omitempty,max=100"`
	SubStats    *string `json:"subStats" binding:"omitempty,max=2000"`
	FinalStats  *string `json:"finalStats" binding:"omitempty,max=2000"`
	Notes       *string `json:"notes" binding:"omitempty,max=2000"`
}

// owner-side partial update; the owning user and character never change
type UpdateBuildRequest struct {
	BuildName  patch.Field[string] `json:"buildName"`
	Weapon     patch.Field[string] `json:"weapon"`
	EchoSet1   patch.Field[string] `json:"echoSet1"`
	EchoSet2   patch.Field[string] `json:"echoSet2"`
	MainEcho   patch.Field[string] `json:"mainEcho"`
	SubStats   patch.Field[string] `json:"subStats"`
	FinalStats patch.Field[string] `json:"finalStats"`
	Notes      patch.Field[string] `json:"notes"`
}
