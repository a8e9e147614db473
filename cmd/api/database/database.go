package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"embed"
	"fmt"
	"log"
	"strings"

	"github.com/bookstore-service/cmd/api/book"
	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

const DefaultSQLitePath = "books.db"

type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db      *sql.DB
	dialect string
	exc     *Executor
}

type Executor struct {
	DBTX
}

func NewStore(db *sql.DB, dialect string) *Store {
	return &Store{
		db:      db,
		dialect: dialect,
		exc:     NewExc(db),
	}
}

func NewExc(dbtx DBTX) *Executor {
	return &Executor{DBTX: dbtx}
}

/* Starts a unit of work. The returned repository runs every statement inside the
transaction; the caller owns the Commit/Rollback of the returned handle. */
func (store *Store) BeginTx(ctx context.Context, opts *sql.TxOptions) (book.Repository, driver.Tx, error) {
	tx, err := store.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("beginning transaction: %w", err)
	}

	txRepo := NewStore(store.db, store.dialect)
	txRepo.exc = NewExc(tx)
	return txRepo, tx, nil
}

/* Opens the process-wide connection factory. postgres:// URLs go through lib/pq,
anything else is treated as an embedded SQLite file, defaulting to a local one. */
func ConnectDb(connStr string) (*sql.DB, string, error) {
	dialect := "sqlite"
	dsn := connStr
	switch {
	case connStr == "":
		dsn = DefaultSQLitePath
	case strings.HasPrefix(connStr, "postgres://"), strings.HasPrefix(connStr, "postgresql://"):
		dialect = "postgres"
	case strings.HasPrefix(connStr, "sqlite://"):
		dsn = strings.TrimPrefix(connStr, "sqlite://")
	}

	sqlDB, err := sql.Open(dialect, dsn)
	if err != nil {
		return nil, "", fmt.Errorf("connecting to db, opening: %w", err)
	}

	err = sqlDB.Ping()
	if err != nil {
		return nil, "", fmt.Errorf("connecting to db, pinging: %w", err)
	}

	log.Println("Successfully connected!")
	return sqlDB, dialect, nil
}

/* Creates the books table if absent. Running it on an already migrated store
returns migrate.ErrNoChange, which callers are expected to tolerate. */
func MigrationUp(store *Store) error {
	var dbDriver migratedb.Driver
	var err error
	switch store.dialect {
	case "postgres":
		dbDriver, err = migratepostgres.WithInstance(store.db, &migratepostgres.Config{})
	default:
		dbDriver, err = migratesqlite.WithInstance(store.db, &migratesqlite.Config{})
	}
	if err != nil {
		return fmt.Errorf("migrating up: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations/"+store.dialect)
	if err != nil {
		return fmt.Errorf("migrating up: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, store.dialect, dbDriver)
	if err != nil {
		return fmt.Errorf("migrating up: %w", err)
	}

	err = m.Up()
	if err != nil {
		return fmt.Errorf("migrating up: %w", err)
	}
	return nil
}

/* Stores the book, letting the database assign the ID, and returns the stored row. */
func (store *Store) CreateBook(ctx context.Context, bookEntry book.Book) (book.Book, error) {
	sqlStatement := `
	INSERT INTO books (title, author, year, price, in_stock, description, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id, title, author, year, price, in_stock, description, created_at, updated_at`
	createdRow := store.exc.QueryRowContext(ctx, sqlStatement,
		bookEntry.Title, bookEntry.Author, bookEntry.Year, bookEntry.Price,
		bookEntry.InStock, bookEntry.Description, bookEntry.CreatedAt, bookEntry.UpdatedAt)
	var bookToReturn book.Book
	err := scanBook(createdRow, &bookToReturn)
	if err != nil {
		return book.Book{}, fmt.Errorf("storing book on db: %w", err)
	}

	return bookToReturn, nil
}

/* Searches a book in database based on ID and returns it if succeed. */
func (store *Store) GetBookByID(ctx context.Context, id int64) (book.Book, error) {
	sqlStatement := `SELECT id, title, author, year, price, in_stock, description, created_at, updated_at
	FROM books
	WHERE id=$1;`
	foundRow := store.exc.QueryRowContext(ctx, sqlStatement, id)
	var bookToReturn book.Book
	err := scanBook(foundRow, &bookToReturn)
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return book.Book{}, fmt.Errorf("searching by ID: %w", book.ErrResponseBookNotFound)
		default:
			return book.Book{}, fmt.Errorf("searching by ID: %w", err)
		}
	}

	return bookToReturn, nil
}

/* Returns up to limit books starting at offset, ordered by ID for stable repeated reads. */
func (store *Store) ListBooks(ctx context.Context, offset, limit int) ([]book.Book, error) {
	sqlStatement := `SELECT id, title, author, year, price, in_stock, description, created_at, updated_at
	FROM books
	ORDER BY id
	LIMIT $1 OFFSET $2;`

	rows, err := store.exc.QueryContext(ctx, sqlStatement, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing books from db: %w", err)
	}
	defer rows.Close()

	bookslist := []book.Book{}
	for rows.Next() {
		var bookToReturn book.Book
		err = rows.Scan(&bookToReturn.ID, &bookToReturn.Title, &bookToReturn.Author, &bookToReturn.Year,
			&bookToReturn.Price, &bookToReturn.InStock, &bookToReturn.Description,
			&bookToReturn.CreatedAt, &bookToReturn.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("listing books from db: %w", err)
		}

		bookslist = append(bookslist, bookToReturn)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("listing books from db: %w", err)
	}

	return bookslist, nil
}

/* Persists the merged book row and returns it as stored. */
func (store *Store) UpdateBook(ctx context.Context, bookEntry book.Book) (book.Book, error) {
	sqlStatement := `
	UPDATE books
	SET title = $2, author = $3, year = $4, price = $5, in_stock = $6, description = $7, updated_at = $8
	WHERE id = $1
	RETURNING id, title, author, year, price, in_stock, description, created_at, updated_at`
	updatedRow := store.exc.QueryRowContext(ctx, sqlStatement,
		bookEntry.ID, bookEntry.Title, bookEntry.Author, bookEntry.Year, bookEntry.Price,
		bookEntry.InStock, bookEntry.Description, bookEntry.UpdatedAt)
	var bookToReturn book.Book
	err := scanBook(updatedRow, &bookToReturn)
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return book.Book{}, fmt.Errorf("updating on db: %w", book.ErrResponseBookNotFound)
		default:
			return book.Book{}, fmt.Errorf("updating on db: %w", err)
		}
	}

	return bookToReturn, nil
}

/* Removes the book permanently. A missing row surfaces as ErrResponseBookNotFound. */
func (store *Store) DeleteBook(ctx context.Context, id int64) error {
	sqlStatement := `
	DELETE FROM books
	WHERE id = $1
	RETURNING id`
	deletedRow := store.exc.QueryRowContext(ctx, sqlStatement, id)
	var deletedID int64
	err := deletedRow.Scan(&deletedID)
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return fmt.Errorf("deleting from db: %w", book.ErrResponseBookNotFound)
		default:
			return fmt.Errorf("deleting from db: %w", err)
		}
	}

	return nil
}

func scanBook(row *sql.Row, b *book.Book) error {
	return row.Scan(&b.ID, &b.Title, &b.Author, &b.Year, &b.Price, &b.InStock,
		&b.Description, &b.CreatedAt, &b.UpdatedAt)
}
