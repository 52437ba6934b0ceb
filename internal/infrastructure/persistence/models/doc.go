// Package models holds the GORM persistence models and their conversions to
// and from domain entities. Optional unique columns (client code and CNPJ)
// are stored as NULL when empty.
package models
