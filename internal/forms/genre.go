package forms

import "github.com/locallibrary/catalog/internal/entities"

type GenreForm struct {
	Name string `form:"name" validate:"required,max=100" msg:"Genre name required" msg_max:"Genre name must be at most 100 characters"`
}

func GenreFormFrom(g entities.Genre) GenreForm {
	return GenreForm{Name: g.Name}
}

func (f *GenreForm) Sanitize() {
	f.Name = Sanitize(f.Name)
}

func (f GenreForm) Validate() Errors {
	return Validate(f)
}

// Genre builds an entity without an identifier; callers set ID for updates.
func (f GenreForm) Genre() entities.Genre {
	return entities.Genre{Name: f.Name}
}
