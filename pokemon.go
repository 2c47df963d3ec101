package pokejournal

import (
	"context"
	"regexp"
	"strings"
)

// PokemonInput holds the editable fields of a catalog entry.
type PokemonInput struct {
	NationalDex    int
	Name           string
	Form           string
	Type1          string
	Type2          *string
	HP             int
	Attack         int
	Defense        int
	SpecialAttack  int
	SpecialDefense int
	Speed          int
	Generation     int
}

// PokemonMatch is a search hit.
type PokemonMatch struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Form  string `json:"form"`
	Image string `json:"image"`
}

var (
	whitespace = regexp.MustCompile(`\s+`)
	megaForm   = regexp.MustCompile(`(?i)mega`)
)

// ImageKeys derives the regular and shiny image keys for a species: the
// lower-cased name with whitespace runs replaced by dashes, prefixed with
// "mega-" for Mega forms.
func ImageKeys(name, form string) (image, shiny string) {
	key := whitespace.ReplaceAllString(strings.ToLower(name), "-")
	if megaForm.MatchString(form) {
		key = "mega-" + key
	}
	return key, key + "-shiny"
}

func (in PokemonInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalidf("pokemon name is required")
	}
	if strings.TrimSpace(in.Type1) == "" {
		return invalidf("type1 is required")
	}
	return nil
}

func (in PokemonInput) columns() map[string]any {
	image, shiny := ImageKeys(in.Name, in.Form)
	return map[string]any{
		"national_dex":    in.NationalDex,
		"name":            in.Name,
		"form":            in.Form,
		"type1":           in.Type1,
		"type2":           in.Type2,
		"hp":              in.HP,
		"attack":          in.Attack,
		"defense":         in.Defense,
		"special_attack":  in.SpecialAttack,
		"special_defense": in.SpecialDefense,
		"speed":           in.Speed,
		"total":           in.total(),
		"generation":      in.Generation,
		"image":           image,
		"shiny_image":     shiny,
	}
}

func (in PokemonInput) total() int {
	return in.HP + in.Attack + in.Defense + in.SpecialAttack + in.SpecialDefense + in.Speed
}

// ListPokemon returns the active catalog in dex order.
func (s *Store) ListPokemon(ctx context.Context) ([]Pokemon, error) {
	pokemons := []Pokemon{}
	err := s.db.WithContext(ctx).Order("national_dex").Order("id").Find(&pokemons).Error
	return pokemons, err
}

// GetPokemon returns one active catalog entry.
func (s *Store) GetPokemon(ctx context.Context, id int64) (*Pokemon, error) {
	return first[Pokemon](s.db.WithContext(ctx), "pokemon", id)
}

// SearchPokemon finds active species whose name contains term, ignoring case.
func (s *Store) SearchPokemon(ctx context.Context, term string) ([]PokemonMatch, error) {
	matches := []PokemonMatch{}
	err := s.db.WithContext(ctx).Model(&Pokemon{}).
		Select("id", "name", "form", "image").
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(term)+"%").
		Order("national_dex").Order("id").
		Scan(&matches).Error
	return matches, err
}

// CreatePokemon adds a catalog entry. Total and image keys are derived.
func (s *Store) CreatePokemon(ctx context.Context, in PokemonInput) (*Pokemon, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	image, shiny := ImageKeys(in.Name, in.Form)
	p := &Pokemon{
		NationalDex:    in.NationalDex,
		Name:           in.Name,
		Form:           in.Form,
		Type1:          in.Type1,
		Type2:          in.Type2,
		HP:             in.HP,
		Attack:         in.Attack,
		Defense:        in.Defense,
		SpecialAttack:  in.SpecialAttack,
		SpecialDefense: in.SpecialDefense,
		Speed:          in.Speed,
		Total:          in.total(),
		Generation:     in.Generation,
		Image:          image,
		ShinyImage:     shiny,
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePokemon replaces a catalog entry.
func (s *Store) UpdatePokemon(ctx context.Context, id int64, in PokemonInput) (*Pokemon, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	p, err := first[Pokemon](db, "pokemon", id)
	if err != nil {
		return nil, err
	}
	if err := db.Model(p).Updates(in.columns()).Error; err != nil {
		return nil, err
	}
	return first[Pokemon](db, "pokemon", id)
}

// DeletePokemon soft-deletes a catalog entry.
func (s *Store) DeletePokemon(ctx context.Context, id int64) error {
	db := s.db.WithContext(ctx)
	p, err := first[Pokemon](db, "pokemon", id)
	if err != nil {
		return err
	}
	return db.Delete(p).Error
}

// RestorePokemon brings back a soft-deleted catalog entry.
func (s *Store) RestorePokemon(ctx context.Context, id int64) (*Pokemon, error) {
	db := s.db.WithContext(ctx)
	if err := restore[Pokemon](db, "pokemon", id); err != nil {
		return nil, err
	}
	return first[Pokemon](db, "pokemon", id)
}
