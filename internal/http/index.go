package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/locallibrary/catalog/internal/entities"
)

// CatalogCounts summarises the catalog on the home page.
type CatalogCounts struct {
	Books              int64
	BookInstances      int64
	AvailableInstances int64
	Authors            int64
	Genres             int64
}

// countsUnavailable replaces the count error outside development.
const countsUnavailable = "Error getting dynamic content"

type IndexController struct {
	books      BookStore
	instances  InstanceStore
	authors    AuthorStore
	genres     GenreStore
	showDetail bool
}

func NewIndexController(books BookStore, instances InstanceStore, authors AuthorStore, genres GenreStore, showDetail bool) *IndexController {
	return &IndexController{
		books:      books,
		instances:  instances,
		authors:    authors,
		genres:     genres,
		showDetail: showDetail,
	}
}

// Home renders the catalog counts once every count has finished. A failed
// count is reported on the page rather than through the error view.
func (ic *IndexController) Home(c *gin.Context) {
	var counts CatalogCounts
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		counts.Books, err = ic.books.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		counts.BookInstances, err = ic.instances.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		counts.AvailableInstances, err = ic.instances.CountByStatus(ctx, entities.InstanceStatusAvailable)
		return err
	})
	g.Go(func() (err error) {
		counts.Authors, err = ic.authors.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		counts.Genres, err = ic.genres.Count(ctx)
		return err
	})

	err := g.Wait()

	data := gin.H{
		"Title":  "Local Library Home",
		"Counts": counts,
	}
	if err != nil {
		log.Printf("Catalog counts failed: %v", err)
		if ic.showDetail {
			data["Error"] = countsUnavailable + ": " + err.Error()
		} else {
			data["Error"] = countsUnavailable
		}
	}
	render(c, http.StatusOK, "index", data)
}
