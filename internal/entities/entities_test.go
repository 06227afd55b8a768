package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAuthor_VirtualFields(t *testing.T) {
	born := time.Date(1920, time.January, 2, 0, 0, 0, 0, time.UTC)
	died := time.Date(1992, time.April, 6, 0, 0, 0, 0, time.UTC)

	t.Run("full name is family then first", func(t *testing.T) {
		a := Author{FirstName: "Isaac", FamilyName: "Asimov"}
		assert.Equal(t, "Asimov, Isaac", a.Name())
	})

	t.Run("url uses the identifier", func(t *testing.T) {
		a := Author{ID: "abc"}
		assert.Equal(t, "/catalog/author/abc", a.URL())
	})

	t.Run("dates are ISO formatted", func(t *testing.T) {
		a := Author{DateOfBirth: &born, DateOfDeath: &died}
		assert.Equal(t, "1920-01-02", a.DateOfBirthFormatted())
		assert.Equal(t, "1992-04-06", a.DateOfDeathFormatted())
		assert.Equal(t, "1920-01-02–1992-04-06", a.Lifespan())
	})

	t.Run("missing dates render empty", func(t *testing.T) {
		a := Author{DateOfBirth: &born}
		assert.Equal(t, "", a.DateOfDeathFormatted())
		assert.Equal(t, "1920-01-02–", a.Lifespan())
		assert.Equal(t, "–", Author{}.Lifespan())
	})
}

func TestBookInstance_VirtualFields(t *testing.T) {
	due := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	bi := BookInstance{ID: "xyz", DueBack: due}

	assert.Equal(t, "/catalog/bookinstance/xyz", bi.URL())
	assert.Equal(t, "Monday, 04 March 2024", bi.DueBackPretty())
	assert.Equal(t, "2024-03-04", bi.DueBackFormatted())
	assert.Equal(t, "", BookInstance{}.DueBackPretty())
}

func TestBookInstance_BeforeCreateDefaults(t *testing.T) {
	bi := &BookInstance{}
	before := time.Now()
	assert.NoError(t, bi.BeforeCreate(nil))

	assert.True(t, IsValidID(bi.ID))
	assert.Equal(t, InstanceStatusMaintenance, bi.Status)
	assert.False(t, bi.DueBack.Before(before))
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []string{"Available", "Maintenance", "Loaned", "Reserved"} {
		assert.True(t, IsValidStatus(s), s)
	}
	assert.False(t, IsValidStatus("Lost"))
	assert.False(t, IsValidStatus(""))
}

func TestBook_HasGenre(t *testing.T) {
	b := Book{ID: "b1", Genres: []Genre{{ID: "g1"}, {ID: "g2"}}}

	assert.Equal(t, "/catalog/book/b1", b.URL())
	assert.True(t, b.HasGenre("g2"))
	assert.False(t, b.HasGenre("g3"))
	assert.Equal(t, "/catalog/genre/g1", b.Genres[0].URL())
}

func TestIsValidID(t *testing.T) {
	assert.True(t, IsValidID(NewID()))
	assert.False(t, IsValidID("not-an-id"))
	assert.False(t, IsValidID(""))
}
