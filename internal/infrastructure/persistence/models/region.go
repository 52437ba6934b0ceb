package models

import "github.com/filterdesk/backend/internal/domain/region"

// RegionModel is the persistence model for the Region domain entity.
type RegionModel struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string `gorm:"type:varchar(500)"`
	Active      bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (RegionModel) TableName() string {
	return "regions"
}

// ToDomain converts the persistence model to a domain Region entity.
func (m *RegionModel) ToDomain() *region.Region {
	return &region.Region{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Description: m.Description,
		Active:      m.Active,
	}
}

// RegionModelFromDomain creates a new persistence model from a domain Region entity.
func RegionModelFromDomain(r *region.Region) *RegionModel {
	m := &RegionModel{
		Name:        r.Name,
		Description: r.Description,
		Active:      r.Active,
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}
