package pokejournal

import (
	"time"

	"gorm.io/gorm"
)

// Event statuses. "Catched" is kept as stored by existing clients.
const (
	StatusCaught   = "Catched"
	StatusRunAway  = "Run Away"
	StatusDefeated = "Defeated"
)

// ValidStatus reports whether s is one of the known event statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusCaught, StatusRunAway, StatusDefeated:
		return true
	}
	return false
}

// User owns games and players.
type User struct {
	ID           int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName    string         `gorm:"type:varchar(128)" json:"firstName"`
	LastName     string         `gorm:"type:varchar(128)" json:"lastName"`
	Username     string         `gorm:"type:varchar(128)" json:"username"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255)" json:"-"`
	Role         string         `gorm:"type:varchar(16);default:'user'" json:"role"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deletedAt"`
}

// Player is a trainer persona. Players owned by different users may share a
// name, in which case they are treated as the same trainer.
type Player struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64          `gorm:"index;not null" json:"userId"`
	Name      string         `gorm:"type:varchar(128);index;not null" json:"name"`
	PokemonID *int64         `gorm:"index" json:"pokemonId"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt"`

	// Associations
	Pokemon *Pokemon `gorm:"foreignKey:PokemonID" json:"pokemon,omitempty"`
}

// Game is a play session owned by one user.
type Game struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64          `gorm:"index;not null" json:"userId"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	PlayerCount int            `gorm:"default:0" json:"playerCount"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deletedAt"`

	// Associations
	PlayerGames []PlayerGame `gorm:"foreignKey:GameID" json:"playerGames,omitempty"`
}

// PlayerGame links a player to a game.
type PlayerGame struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	PlayerID  int64          `gorm:"index;not null" json:"playerId"`
	GameID    int64          `gorm:"index;not null" json:"gameId"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt"`

	// Associations
	Player *Player `gorm:"foreignKey:PlayerID" json:"player,omitempty"`
	Game   *Game   `gorm:"foreignKey:GameID" json:"game,omitempty"`
}

// Pokemon is a species and form catalog entry.
type Pokemon struct {
	ID             int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	NationalDex    int            `gorm:"index" json:"nationalDex"`
	Name           string         `gorm:"type:varchar(128);not null" json:"name"`
	Form           string         `gorm:"type:varchar(128)" json:"form"`
	Type1          string         `gorm:"column:type1;type:varchar(32)" json:"type1"`
	Type2          *string        `gorm:"column:type2;type:varchar(32)" json:"type2"`
	HP             int            `gorm:"column:hp" json:"hp"`
	Attack         int            `json:"attack"`
	Defense        int            `json:"defense"`
	SpecialAttack  int            `json:"specialAttack"`
	SpecialDefense int            `json:"specialDefense"`
	Speed          int            `json:"speed"`
	Total          int            `json:"total"`
	Generation     int            `json:"generation"`
	Image          string         `gorm:"type:varchar(255)" json:"image"`
	ShinyImage     string         `gorm:"type:varchar(255)" json:"shinyImage"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deletedAt"`
}

// TableName keeps the plural table name stable across naming strategies.
func (Pokemon) TableName() string {
	return "pokemons"
}

// Event is one capture attempt by a player in a game.
type Event struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	PlayerID  int64          `gorm:"index;not null" json:"playerId"`
	GameID    int64          `gorm:"index;not null" json:"gameId"`
	PokemonID int64          `gorm:"index;not null" json:"pokemonId"`
	Route     string         `gorm:"type:varchar(255)" json:"route"`
	Nickname  string         `gorm:"type:varchar(255)" json:"nickname"`
	Status    string         `gorm:"type:varchar(16);default:'Catched'" json:"status"`
	IsShiny   int            `gorm:"default:0" json:"isShiny"`
	IsChamp   int            `gorm:"default:0" json:"isChamp"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt"`

	// Associations
	Player  *Player  `gorm:"foreignKey:PlayerID" json:"player,omitempty"`
	Game    *Game    `gorm:"foreignKey:GameID" json:"game,omitempty"`
	Pokemon *Pokemon `gorm:"foreignKey:PokemonID" json:"pokemon,omitempty"`
}

// Showdown is a head-to-head battle between two players of a game. The event
// id columns hold JSON arrays and are weak references: see ParseEventIDs.
type Showdown struct {
	ID              int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	GameID          int64          `gorm:"index;not null" json:"gameId"`
	Player1ID       int64          `gorm:"column:player1_id;not null" json:"player1Id"`
	Player2ID       int64          `gorm:"column:player2_id;not null" json:"player2Id"`
	WinnerID        int64          `gorm:"column:winner_id;not null" json:"winnerId"`
	Player1EventIDs string         `gorm:"column:player1_event_ids;type:text;not null" json:"player1EventIds"`
	Player2EventIDs string         `gorm:"column:player2_event_ids;type:text;not null" json:"player2EventIds"`
	MvpEventID      *int64         `gorm:"column:mvp_event_id;index" json:"mvpEventId"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deletedAt"`

	// Associations
	Player1  *Player `gorm:"foreignKey:Player1ID" json:"player1,omitempty"`
	Player2  *Player `gorm:"foreignKey:Player2ID" json:"player2,omitempty"`
	Winner   *Player `gorm:"foreignKey:WinnerID" json:"winner,omitempty"`
	MvpEvent *Event  `gorm:"foreignKey:MvpEventID" json:"mvpEvent,omitempty"`
}

// AutoMigrate runs the database migrations
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Pokemon{}, &Player{}, &Game{}, &PlayerGame{}, &Event{}, &Showdown{})
}
