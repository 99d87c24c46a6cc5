// Package database owns the GORM connection, migrations and seed data.
//
// Entity-specific operations live in the sub-packages (books, diary, notes,
// quotes, users), each exposing a Repository built around the shared *gorm.DB.
// HTTP controllers depend on narrow store interfaces that these repositories
// satisfy, so none of the statistics code touches GORM directly.
package database
