package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bookstore-service/cmd/api/book"
)

var RequestTimeout = 30 * time.Second

type BookHandler struct {
	bookService book.ServiceAPI
}

func NewBookHandler(bookService book.ServiceAPI) *BookHandler {
	return &BookHandler{bookService: bookService}
}

/* Addresses a call to "/books/(expected id here)" according to the requested action.  */
func (h *BookHandler) bookById(w http.ResponseWriter, r *http.Request) {
	method := r.Method
	switch method {
	case http.MethodGet:
		h.getBookById(w, r)
		return
	case http.MethodPut, http.MethodPatch:
		h.updateBook(w, r)
		return
	case http.MethodDelete:
		h.deleteBook(w, r)
		return
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
}

/* Addresses a call to "/books" according to the requested action.  */
func (h *BookHandler) books(w http.ResponseWriter, r *http.Request) {
	method := r.Method
	switch method {
	case http.MethodGet:
		h.listBooks(w, r)
		return
	case http.MethodPost:
		h.createBook(w, r)
		return
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
}

type BookEntry struct {
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Year        *int     `json:"year"`
	Price       *float64 `json:"price"`
	InStock     *bool    `json:"in_stock"`
	Description *string  `json:"description"`
}

type BookUpdateEntry struct {
	Title       *string  `json:"title"`
	Author      *string  `json:"author"`
	Year        *int     `json:"year"`
	Price       *float64 `json:"price"`
	InStock     *bool    `json:"in_stock"`
	Description *string  `json:"description"`
}

/* Validates the entry, then stores the entry as a new book. */
func (h *BookHandler) createBook(w http.ResponseWriter, r *http.Request) {
	var bookEntry BookEntry
	err := json.NewDecoder(r.Body).Decode(&bookEntry)
	if err != nil {
		log.Println(err)
		errR := book.ErrResponse{
			Code:    book.ErrResponseBookEntryInvalidJSON.Code,
			Message: book.ErrResponseBookEntryInvalidJSON.Message + err.Error(),
		}
		responseJSON(w, http.StatusBadRequest, errR)
		return
	}

	err = FilledFields(bookEntry)
	if err != nil {
		responseJSON(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), RequestTimeout)
	defer cancel()

	storedBook, err := h.bookService.CreateBook(ctx, bookToCreateReq(bookEntry))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responseJSON(w, http.StatusCreated, bookToResponse(storedBook))
}

/* Decodes the partial payload and updates the asked book. Absent fields stay untouched. */
func (h *BookHandler) updateBook(w http.ResponseWriter, r *http.Request) {
	id, err := isolateId(w, r)
	if err != nil {
		return
	}

	var bookEntry BookUpdateEntry
	err = json.NewDecoder(r.Body).Decode(&bookEntry)
	if err != nil {
		log.Println(err)
		errR := book.ErrResponse{
			Code:    book.ErrResponseBookEntryInvalidJSON.Code,
			Message: book.ErrResponseBookEntryInvalidJSON.Message + err.Error(),
		}
		responseJSON(w, http.StatusBadRequest, errR)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), RequestTimeout)
	defer cancel()

	updatedBook, err := h.bookService.UpdateBook(ctx, bookToUpdateReq(bookEntry, id))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responseJSON(w, http.StatusOK, bookToResponse(updatedBook))
}

/* Returns the book with that specific ID. */
func (h *BookHandler) getBookById(w http.ResponseWriter, r *http.Request) {
	id, err := isolateId(w, r)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), RequestTimeout)
	defer cancel()

	returnedBook, err := h.bookService.GetBook(ctx, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responseJSON(w, http.StatusOK, bookToResponse(returnedBook))
}

/* Returns a page of the stored books, sliced by offset and limit. */
func (h *BookHandler) listBooks(w http.ResponseWriter, r *http.Request) {
	offset, limit, valid := extractPageParams(r.URL.Query())
	if !valid {
		responseJSON(w, http.StatusBadRequest, book.ErrResponseQueryPageInvalid)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), RequestTimeout)
	defer cancel()

	bookslist, err := h.bookService.ListBooks(ctx, offset, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := []BookResponse{}
	for _, b := range bookslist {
		results = append(results, bookToResponse(b))
	}
	responseJSON(w, http.StatusOK, results)
}

/* Removes the book permanently. */
func (h *BookHandler) deleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := isolateId(w, r)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), RequestTimeout)
	defer cancel()

	err = h.bookService.DeleteBook(ctx, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

/* Maps service outcomes to status codes: absence is 404, a timed out context is 408,
anything else is a storage fault. */
func handleServiceError(w http.ResponseWriter, err error) {
	log.Println(err)
	switch {
	case errors.Is(err, book.ErrResponseBookNotFound):
		responseJSON(w, http.StatusNotFound, book.ErrResponseBookNotFound)
	case errors.Is(err, context.DeadlineExceeded):
		responseJSON(w, http.StatusRequestTimeout, book.ErrResponseRequestTimeout)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
}

/* Verifies if all required entry fields are filled and returns a warning message if not. */
func FilledFields(bookEntry BookEntry) error {
	if bookEntry.Title == "" {
		return book.ErrResponseBookEntryBlankFields
	}
	if bookEntry.Author == "" {
		return book.ErrResponseBookEntryBlankFields
	}
	if bookEntry.Year == nil {
		return book.ErrResponseBookEntryBlankFields
	}
	if bookEntry.Price == nil {
		return book.ErrResponseBookEntryBlankFields
	}

	return nil
}

/* Converts from BookEntry type to CreateBookRequest type, with no json tags. */
func bookToCreateReq(b BookEntry) book.CreateBookRequest {
	return book.CreateBookRequest{
		Title:       b.Title,
		Author:      b.Author,
		Year:        b.Year,
		Price:       b.Price,
		InStock:     b.InStock,
		Description: b.Description,
	}
}

/* Converts from BookUpdateEntry type to UpdateBookRequest type, with no json tags. */
func bookToUpdateReq(b BookUpdateEntry, id int64) book.UpdateBookRequest {
	return book.UpdateBookRequest{
		ID:          id,
		Title:       b.Title,
		Author:      b.Author,
		Year:        b.Year,
		Price:       b.Price,
		InStock:     b.InStock,
		Description: b.Description,
	}
}

/* Isolates the ID from the URL. */
func isolateId(w http.ResponseWriter, r *http.Request) (id int64, err error) {
	justId, _ := strings.CutPrefix(r.URL.Path, "/books/")
	id, err = strconv.ParseInt(justId, 10, 64)
	if err != nil {
		log.Println(err)
		responseJSON(w, http.StatusBadRequest, book.ErrResponseIdInvalidFormat)
		return id, err
	}
	return id, nil
}

type BookResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Year        int       `json:"year"`
	Price       float64   `json:"price"`
	InStock     bool      `json:"in_stock"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

/*Copy the fields of a book object to an http layer struct with json tags*/
func bookToResponse(b book.Book) BookResponse {
	return BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Year:        b.Year,
		Price:       b.Price,
		InStock:     b.InStock,
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// SearchResultsResponse is reserved for a search endpoint; no route produces it today.
type SearchResultsResponse struct {
	Results []BookResponse `json:"results"`
	Total   int            `json:"total"`
	Page    int            `json:"page"`
	Size    int            `json:"size"`
}

/*Writes a JSON response into a http.ResponseWriter. */
func responseJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		log.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
}

/*Validates and prepares the offset and limit parameters of the query.*/
func extractPageParams(query url.Values) (offset, limit int, valid bool) {
	var err error
	offsetStr := query.Get("offset")
	if offsetStr == "" {
		offset = 0
	} else {
		offset, err = strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return 0, 0, false
		}
	}

	limitStr := query.Get("limit")
	if limitStr == "" {
		limit = 10
	} else {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			return 0, 0, false
		}
	}

	return offset, limit, true
}
