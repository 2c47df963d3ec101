package pokejournal

import (
	"gorm.io/gorm"
)

// Active-record predicates for rows that point at other soft-deletable
// tables. A model's own deleted_at is already handled by gorm's default
// scope; these cover the rows it references.

// inActiveGames keeps rows whose game_id refers to a game that is not
// soft-deleted.
func inActiveGames(db *gorm.DB) *gorm.DB {
	return db.Where("game_id IN (?)", db.Session(&gorm.Session{NewDB: true}).Model(&Game{}).Select("id"))
}

// ofActivePlayers keeps rows whose player_id refers to an active player.
func ofActivePlayers(db *gorm.DB) *gorm.DB {
	return db.Where("player_id IN (?)", db.Session(&gorm.Session{NewDB: true}).Model(&Player{}).Select("id"))
}

// ofActivePokemon keeps rows whose pokemon_id refers to an active species.
func ofActivePokemon(db *gorm.DB) *gorm.DB {
	return db.Where("pokemon_id IN (?)", db.Session(&gorm.Session{NewDB: true}).Model(&Pokemon{}).Select("id"))
}

// findDeleted loads a soft-deleted row by id.
func findDeleted[T any](db *gorm.DB, what string, id int64) (*T, error) {
	var row T
	if err := db.Unscoped().Where("id = ? AND deleted_at IS NOT NULL", id).First(&row).Error; err != nil {
		return nil, notFound(err, "deleted "+what, id)
	}
	return &row, nil
}

// restore clears deleted_at on a soft-deleted row.
func restore[T any](db *gorm.DB, what string, id int64) error {
	var model T
	res := db.Unscoped().Model(&model).Where("id = ? AND deleted_at IS NOT NULL", id).Update("deleted_at", nil)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "deleted "+what, id)
	}
	return nil
}

// first loads an active row by id, mapping a miss to ErrNotFound.
func first[T any](db *gorm.DB, what string, id int64) (*T, error) {
	var row T
	if err := db.First(&row, id).Error; err != nil {
		return nil, notFound(err, what, id)
	}
	return &row, nil
}
