package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/locallibrary/catalog/internal/audit"
	"github.com/locallibrary/catalog/internal/database"
	"github.com/locallibrary/catalog/internal/entities"
	"github.com/locallibrary/catalog/internal/forms"
)

type BookInstanceController struct {
	instances InstanceStore
	books     BookStore
	audit     *audit.Service
}

func NewBookInstanceController(instances InstanceStore, books BookStore, auditService *audit.Service) *BookInstanceController {
	return &BookInstanceController{
		instances: instances,
		books:     books,
		audit:     auditService,
	}
}

func (ic *BookInstanceController) RegisterRoutes(r gin.IRouter) {
	r.GET("/bookinstances", ic.List)
	r.GET("/bookinstance/create", ic.CreateForm)
	r.POST("/bookinstance/create", ic.Create)
	r.GET("/bookinstance/:id", ic.Detail)
	r.GET("/bookinstance/:id/update", ic.UpdateForm)
	r.POST("/bookinstance/:id/update", ic.Update)
	r.GET("/bookinstance/:id/delete", ic.DeleteForm)
	r.POST("/bookinstance/:id/delete", ic.Delete)
}

func (ic *BookInstanceController) List(c *gin.Context) {
	instances, err := ic.instances.List(c.Request.Context())
	if err != nil {
		fail(c, fmt.Errorf("list book instances: %w", err))
		return
	}
	render(c, http.StatusOK, "bookinstance_list", gin.H{
		"Title":         "Book Instance List",
		"BookInstances": instances,
	})
}

func (ic *BookInstanceController) Detail(c *gin.Context) {
	id, ok := parseIDParam(c, "Book copy")
	if !ok {
		return
	}
	instance, err := ic.instances.GetByID(c.Request.Context(), id)
	if err != nil {
		failLookup(c, "Book copy", err)
		return
	}
	render(c, http.StatusOK, "bookinstance_detail", gin.H{
		"Title":        "Book: " + instance.Book.Title,
		"BookInstance": instance,
	})
}

func (ic *BookInstanceController) CreateForm(c *gin.Context) {
	ic.renderForm(c, "Create BookInstance", forms.BookInstanceForm{}, nil)
}

func (ic *BookInstanceController) Create(c *gin.Context) {
	form, ok := bindBookInstanceForm(c)
	if !ok {
		return
	}
	if errs := form.Validate(); len(errs) > 0 {
		ic.renderForm(c, "Create BookInstance", form, errs)
		return
	}

	instance := form.Instance()
	if err := ic.instances.Create(c.Request.Context(), &instance); err != nil {
		if errors.Is(err, database.ErrMissingReference) {
			ic.renderForm(c, "Create BookInstance", form, bookNotFound())
			return
		}
		fail(c, fmt.Errorf("create book instance: %w", err))
		return
	}

	ic.audit.LogCreate("bookinstance", instance.ID, instance.Imprint, c.ClientIP())
	setFlash(c, "Book copy created.")
	redirect(c, instance.URL())
}

func (ic *BookInstanceController) UpdateForm(c *gin.Context) {
	id, ok := parseIDParam(c, "Book copy")
	if !ok {
		return
	}
	instance, err := ic.instances.GetByID(c.Request.Context(), id)
	if err != nil {
		failLookup(c, "Book copy", err)
		return
	}
	ic.renderForm(c, "Update BookInstance", forms.BookInstanceFormFrom(*instance), nil)
}

// Update replaces the copy named by the path. The stored identifier never
// changes, whatever the body carries.
func (ic *BookInstanceController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "Book copy")
	if !ok {
		return
	}
	form, ok := bindBookInstanceForm(c)
	if !ok {
		return
	}
	if errs := form.Validate(); len(errs) > 0 {
		ic.renderForm(c, "Update BookInstance", form, errs)
		return
	}

	instance := form.Instance()
	instance.ID = id
	if err := ic.instances.Update(c.Request.Context(), &instance); err != nil {
		if errors.Is(err, database.ErrMissingReference) {
			ic.renderForm(c, "Update BookInstance", form, bookNotFound())
			return
		}
		failLookup(c, "Book copy", err)
		return
	}

	ic.audit.LogUpdate("bookinstance", instance.ID, instance.Imprint, c.ClientIP())
	setFlash(c, "Book copy updated.")
	redirect(c, instance.URL())
}

func (ic *BookInstanceController) DeleteForm(c *gin.Context) {
	id, ok := parseIDParam(c, "Book copy")
	if !ok {
		return
	}
	instance, err := ic.instances.GetByID(c.Request.Context(), id)
	if err != nil {
		failLookup(c, "Book copy", err)
		return
	}
	render(c, http.StatusOK, "bookinstance_delete", gin.H{
		"Title":        "Delete BookInstance",
		"BookInstance": instance,
	})
}

// Delete removes the copy. Nothing references a copy, so there is no guard.
func (ic *BookInstanceController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "Book copy")
	if !ok {
		return
	}
	if err := ic.instances.Delete(c.Request.Context(), id); err != nil {
		failLookup(c, "Book copy", err)
		return
	}

	ic.audit.LogDelete("bookinstance", id, id, c.ClientIP())
	setFlash(c, "Book copy deleted.")
	redirect(c, "/catalog/bookinstances")
}

func bindBookInstanceForm(c *gin.Context) (forms.BookInstanceForm, bool) {
	var form forms.BookInstanceForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, &HTTPError{Status: http.StatusBadRequest, Message: "Invalid form submission", Err: err})
		return form, false
	}
	form.Sanitize()
	return form, true
}

func bookNotFound() forms.Errors {
	var errs forms.Errors
	errs.Add("book", "Book not found")
	return errs
}

// renderForm shows the copy form with the book list and status choices.
func (ic *BookInstanceController) renderForm(c *gin.Context, title string, form forms.BookInstanceForm, errs forms.Errors) {
	books, err := ic.books.List(c.Request.Context())
	if err != nil {
		fail(c, fmt.Errorf("load book list: %w", err))
		return
	}
	render(c, http.StatusOK, "bookinstance_form", gin.H{
		"Title":    title,
		"Form":     form,
		"Errors":   errs,
		"Books":    books,
		"Statuses": entities.InstanceStatuses,
	})
}
