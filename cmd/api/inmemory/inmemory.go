package inmemory

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/bookstore-service/cmd/api/book"
	"github.com/hashicorp/go-memdb"
)

type InMemoryStore struct {
	db     *memdb.MemDB
	lastID int64
}

func NewInMemoryStore() (*InMemoryStore, error) {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			"book": {
				Name: "book",
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.IntFieldIndex{Field: "ID"},
					},
				},
			},
		},
	}

	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize in-memory database: %w", err)
	}
	return &InMemoryStore{db: db}, nil
}

/* Assigns the next ID and inserts the book. IDs are assigned exactly once and never reused. */
func (store *InMemoryStore) CreateBook(ctx context.Context, bookEntry book.Book) (book.Book, error) {
	bookEntry.ID = atomic.AddInt64(&store.lastID, 1)

	txn := store.db.Txn(true)
	defer txn.Abort()

	err := txn.Insert("book", bookEntry)
	if err != nil {
		return book.Book{}, fmt.Errorf("storing book on in-memory db: %w", err)
	}
	txn.Commit()

	return bookEntry, nil
}

func (store *InMemoryStore) GetBookByID(ctx context.Context, id int64) (book.Book, error) {
	txn := store.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First("book", "id", id)
	if err != nil {
		return book.Book{}, fmt.Errorf("searching by ID: %w", err)
	}
	if raw == nil {
		return book.Book{}, fmt.Errorf("searching by ID: %w", book.ErrResponseBookNotFound)
	}

	return raw.(book.Book), nil
}

/* Walks the ID index in order, skipping offset entries and collecting up to limit. */
func (store *InMemoryStore) ListBooks(ctx context.Context, offset, limit int) ([]book.Book, error) {
	txn := store.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get("book", "id")
	if err != nil {
		return nil, fmt.Errorf("listing books from in-memory db: %w", err)
	}

	bookslist := []book.Book{}
	skipped := 0
	for raw := it.Next(); raw != nil; raw = it.Next() {
		if skipped < offset {
			skipped++
			continue
		}
		if len(bookslist) == limit {
			break
		}
		bookslist = append(bookslist, raw.(book.Book))
	}

	return bookslist, nil
}

func (store *InMemoryStore) UpdateBook(ctx context.Context, bookEntry book.Book) (book.Book, error) {
	txn := store.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First("book", "id", bookEntry.ID)
	if err != nil {
		return book.Book{}, fmt.Errorf("updating on in-memory db: %w", err)
	}
	if raw == nil {
		return book.Book{}, fmt.Errorf("updating on in-memory db: %w", book.ErrResponseBookNotFound)
	}

	err = txn.Insert("book", bookEntry)
	if err != nil {
		return book.Book{}, fmt.Errorf("updating on in-memory db: %w", err)
	}
	txn.Commit()

	return bookEntry, nil
}

func (store *InMemoryStore) DeleteBook(ctx context.Context, id int64) error {
	txn := store.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First("book", "id", id)
	if err != nil {
		return fmt.Errorf("deleting from in-memory db: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("deleting from in-memory db: %w", book.ErrResponseBookNotFound)
	}

	err = txn.Delete("book", raw)
	if err != nil {
		return fmt.Errorf("deleting from in-memory db: %w", err)
	}
	txn.Commit()

	return nil
}
