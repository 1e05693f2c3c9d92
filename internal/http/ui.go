package http

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/bookstore"
	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/pagination"
	"github.com/mrlokans/bookshelf/internal/search"
	"github.com/mrlokans/bookshelf/internal/sessions"
)

// bookForm is what the add and edit templates render.
type bookForm struct {
	Heading string
	Action  string
	Submit  string
	Title   string
	Author  string
	Errors  catalog.ValidationErrors
}

type UIController struct {
	store    *bookstore.Store
	sessions *sessions.Manager
	pageSize int
}

func NewUIController(store *bookstore.Store, sm *sessions.Manager, pageSize int) *UIController {
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	return &UIController{
		store:    store,
		sessions: sm,
		pageSize: pageSize,
	}
}

// paginator restores the visitor's page over the filtered catalog.
func (controller *UIController) paginator(r *http.Request, books []entities.Book) *pagination.Paginator[entities.Book] {
	p := pagination.New[entities.Book](controller.pageSize)
	p.SetData(search.Filter(controller.sessions.Query(r), books))
	p.SetPage(controller.sessions.Page(r))
	return p
}

// HomePage renders the searchable, paginated book list.
func (controller *UIController) HomePage(c *gin.Context) {
	r := c.Request

	// A new query keeps the current page
	if query, ok := c.GetQuery("q"); ok {
		controller.sessions.SetQuery(r, query)
	}

	// The request context ends when the visitor leaves, cancelling the fetch
	if _, err := controller.store.Hydrate(r.Context()); err != nil {
		log.Printf("Initial book fetch failed: %v", err)
	}

	state := controller.store.State()
	p := controller.paginator(r, state.Books)

	c.HTML(http.StatusOK, "books", gin.H{
		"Loading":     state.Loading,
		"FetchFailed": state.Error != "" && state.ErrorKind == bookstore.ErrorFetch,
		"Error":       state.Error,
		"Flash":       controller.sessions.PopFlash(r),
		"Query":       controller.sessions.Query(r),
		"Books":       p.Items(),
		"FirstIndex":  (p.CurrentPage()-1)*p.PageSize() + 1,
		"Page":        p.CurrentPage(),
		"TotalPages":  p.DisplayTotalPages(),
		"HasPrevious": p.HasPrevious(),
		"HasNext":     p.HasNext(),
		"CSRFField":   csrfTokenField(c),
	})
}

// PreviousPage moves the visitor one page back.
func (controller *UIController) PreviousPage(c *gin.Context) {
	p := controller.paginator(c.Request, controller.store.State().Books)
	p.Back()
	controller.sessions.SetPage(c.Request, p.CurrentPage())
	redirectHome(c)
}

// NextPage moves the visitor one page forward.
func (controller *UIController) NextPage(c *gin.Context) {
	p := controller.paginator(c.Request, controller.store.State().Books)
	p.Next()
	controller.sessions.SetPage(c.Request, p.CurrentPage())
	redirectHome(c)
}

func (controller *UIController) AddForm(c *gin.Context) {
	controller.renderForm(c, http.StatusOK, newAddForm("", ""))
}

// AddBook validates the form and adds the book optimistically.
func (controller *UIController) AddBook(c *gin.Context) {
	title, author := c.PostForm("title"), c.PostForm("author")

	book, err := catalog.NewBook(title, author)
	if err != nil {
		controller.renderInvalid(c, newAddForm(title, author), err)
		return
	}

	controller.store.Add(book)
	redirectHome(c)
}

func (controller *UIController) EditForm(c *gin.Context) {
	book, ok := controller.store.Find(c.Param("id"))
	if !ok {
		renderNotFound(c, "Book not found")
		return
	}
	controller.renderForm(c, http.StatusOK, newEditForm(book.ID, book.Title, book.Author))
}

// EditBook validates the form and updates the book optimistically.
func (controller *UIController) EditBook(c *gin.Context) {
	id := c.Param("id")
	if _, ok := controller.store.Find(id); !ok {
		renderNotFound(c, "Book not found")
		return
	}

	title, author := c.PostForm("title"), c.PostForm("author")
	book, err := catalog.EditBook(id, title, author)
	if err != nil {
		controller.renderInvalid(c, newEditForm(id, title, author), err)
		return
	}

	controller.store.Update(book)
	redirectHome(c)
}

func (controller *UIController) DeleteConfirm(c *gin.Context) {
	book, ok := controller.store.Find(c.Param("id"))
	if !ok {
		renderNotFound(c, "Book not found")
		return
	}

	c.HTML(http.StatusOK, "delete_confirm", gin.H{
		"Book":      book,
		"Question":  deleteQuestion(book),
		"CSRFField": csrfTokenField(c),
	})
}

// DeleteBook removes the book without waiting for the remote service.
func (controller *UIController) DeleteBook(c *gin.Context) {
	book, ok := controller.store.Find(c.Param("id"))
	if !ok {
		renderNotFound(c, "Book not found")
		return
	}

	controller.store.Delete(book.ID)
	controller.sessions.Flash(c.Request, deletedMessage(book))
	redirectHome(c)
}

func (controller *UIController) DismissError(c *gin.Context) {
	controller.store.ClearError()
	redirectHome(c)
}

func (controller *UIController) renderInvalid(c *gin.Context, form bookForm, err error) {
	var verrs catalog.ValidationErrors
	if !errors.As(err, &verrs) {
		c.String(http.StatusInternalServerError, "Error saving book: %s", err.Error())
		return
	}
	form.Errors = verrs
	controller.renderForm(c, http.StatusBadRequest, form)
}

func (controller *UIController) renderForm(c *gin.Context, status int, form bookForm) {
	c.HTML(status, "book_form", gin.H{
		"Form":      form,
		"CSRFField": csrfTokenField(c),
	})
}

func newAddForm(title, author string) bookForm {
	return bookForm{
		Heading: "Add a new book",
		Action:  "/add",
		Submit:  "Add book",
		Title:   title,
		Author:  author,
	}
}

func newEditForm(id, title, author string) bookForm {
	return bookForm{
		Heading: "Edit book",
		Action:  "/edit/" + id,
		Submit:  "Save changes",
		Title:   title,
		Author:  author,
	}
}

func deleteQuestion(book entities.Book) string {
	return fmt.Sprintf("Are you sure you want to delete the \"%s\" book?", book.Title)
}

func deletedMessage(book entities.Book) string {
	return fmt.Sprintf("Book %s is deleted", book.Title)
}
