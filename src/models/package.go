package models

import (
	"uservice/src/types"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Package struct {
	ID                 uuid.UUID                   `gorm:"type:uuid;primarykey" json:"id"`
	Name               string                      `gorm:"size:100;not null" json:"name"`
	Slug               string                      `gorm:"size:120;uniqueIndex;not null" json:"slug"`
	Description        string                      `gorm:"size:500" json:"description"`
	Price              float64                     `gorm:"not null" json:"price"`
	Currency           string                      `gorm:"size:3;not null" json:"currency"`
	Features           datatypes.JSONSlice[string] `json:"features"`
	Category           string                      `gorm:"size:20;index;not null" json:"category"`
	Duration           int                         `gorm:"not null" json:"duration"`
	MaxGuests          int                         `gorm:"not null" json:"max_guests"`
	Status             types.PackageStatus         `gorm:"size:20;index;not null" json:"status"`
	IsPopular          bool                        `gorm:"index;not null" json:"is_popular"`
	Images             datatypes.JSONSlice[string] `json:"images"`
	Tags               datatypes.JSONSlice[string] `json:"tags"`
	Terms              string                      `json:"terms,omitempty"`
	CancellationPolicy string                      `json:"cancellation_policy,omitempty"`
	CreatedBy          uuid.UUID                   `gorm:"type:uuid;index" json:"created_by"`

	types.Timestamps
}

func (p *Package) Bookable() bool {
	return p.Status == types.PACKAGE_ACTIVE
}
