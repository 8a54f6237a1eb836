package specification

import "gorm.io/gorm"

// Specification is a composable query fragment applied to a GORM chain.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
