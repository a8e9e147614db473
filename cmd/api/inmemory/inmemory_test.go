package inmemory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bookstore-service/cmd/api/book"
	"github.com/bookstore-service/cmd/api/inmemory"
	"github.com/matryer/is"
)

var ctx context.Context = context.Background()

func testBook() book.Book {
	now := time.Now().UTC().Round(time.Millisecond)
	return book.Book{
		Title:     "An in-memory book",
		Author:    "An in-memory author",
		Year:      2010,
		Price:     25.0,
		InStock:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateBook(t *testing.T) {
	t.Run("assigns sequential ids starting at 1", func(t *testing.T) {
		is := is.New(t)
		store, err := inmemory.NewInMemoryStore()
		is.NoErr(err)

		first, err := store.CreateBook(ctx, testBook())
		is.NoErr(err)
		is.Equal(first.ID, int64(1))

		second, err := store.CreateBook(ctx, testBook())
		is.NoErr(err)
		is.Equal(second.ID, int64(2))
	})

	t.Run("a created book round-trips through GetBookByID", func(t *testing.T) {
		is := is.New(t)
		store, err := inmemory.NewInMemoryStore()
		is.NoErr(err)

		newBook, err := store.CreateBook(ctx, testBook())
		is.NoErr(err)

		fetchedBook, err := store.GetBookByID(ctx, newBook.ID)
		is.NoErr(err)
		is.Equal(fetchedBook, newBook)
	})
}

func TestGetBookByID(t *testing.T) {
	t.Run("an absent id returns the not found signal", func(t *testing.T) {
		is := is.New(t)
		store, err := inmemory.NewInMemoryStore()
		is.NoErr(err)

		_, err = store.GetBookByID(ctx, 12345)
		is.True(errors.Is(err, book.ErrResponseBookNotFound))
	})
}

func TestListBooks(t *testing.T) {
	t.Run("an empty store returns an empty page", func(t *testing.T) {
		is := is.New(t)
		store, err := inmemory.NewInMemoryStore()
		is.NoErr(err)

		page, err := store.ListBooks(ctx, 0, 10)
		is.NoErr(err)
		is.Equal(len(page), 0)
	})

	t.Run("slices by offset and limit in id order", func(t *testing.T) {
		is := is.New(t)
		store, err := inmemory.NewInMemoryStore()
		is.NoErr(err)

		for i := 0; i < 5; i++ {
			_, err := store.CreateBook(ctx, testBook())
			is.NoErr(err)
		}

		page, err := store.ListBooks(ctx, 2, 2)
		is.NoErr(err)
		is.Equal(len(page), 2)
		is.Equal(page[0].ID, int64(3))
		is.Equal(page[1].ID, int64(4))
	})
}

func TestUpdateBook(t *testing.T) {
	t.Run("replaces the stored row", func(t *testing.T) {
		is := is.New(t)
		store, err := inmemory.NewInMemoryStore()
		is.NoErr(err)

		newBook, err := store.CreateBook(ctx, testBook())
		is.NoErr(err)

		mergedBook := newBook
		mergedBook.Price = 30.0
		mergedBook.UpdatedAt = newBook.UpdatedAt.Add(time.Millisecond)

		updatedBook, err := store.UpdateBook(ctx, mergedBook)
		is.NoErr(err)
		is.Equal(updatedBook, mergedBook)

		fetchedBook, err := store.GetBookByID(ctx, newBook.ID)
		is.NoErr(err)
		is.Equal(fetchedBook, mergedBook)
	})

	t.Run("an absent id returns the not found signal", func(t *testing.T) {
		is := is.New(t)
		store, err := inmemory.NewInMemoryStore()
		is.NoErr(err)

		absentBook := testBook()
		absentBook.ID = 12345
		_, err = store.UpdateBook(ctx, absentBook)
		is.True(errors.Is(err, book.ErrResponseBookNotFound))
	})
}

func TestDeleteBook(t *testing.T) {
	t.Run("a deleted book is gone on the next read", func(t *testing.T) {
		is := is.New(t)
		store, err := inmemory.NewInMemoryStore()
		is.NoErr(err)

		newBook, err := store.CreateBook(ctx, testBook())
		is.NoErr(err)

		err = store.DeleteBook(ctx, newBook.ID)
		is.NoErr(err)

		_, err = store.GetBookByID(ctx, newBook.ID)
		is.True(errors.Is(err, book.ErrResponseBookNotFound))
	})

	t.Run("an absent id returns the not found signal", func(t *testing.T) {
		is := is.New(t)
		store, err := inmemory.NewInMemoryStore()
		is.NoErr(err)

		err = store.DeleteBook(ctx, 12345)
		is.True(errors.Is(err, book.ErrResponseBookNotFound))
	})
}
