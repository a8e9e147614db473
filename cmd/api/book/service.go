package book

import (
	"context"
	"log"
	"time"

	"github.com/bookstore-service/cmd/api/notifications"
)

type ServiceAPI interface {
	CreateBook(ctx context.Context, req CreateBookRequest) (Book, error)
	GetBook(ctx context.Context, id int64) (Book, error)
	ListBooks(ctx context.Context, offset, limit int) ([]Book, error)
	UpdateBook(ctx context.Context, req UpdateBookRequest) (Book, error)
	DeleteBook(ctx context.Context, id int64) error
}

type Repository interface {
	CreateBook(ctx context.Context, bookEntry Book) (Book, error)
	GetBookByID(ctx context.Context, id int64) (Book, error)
	ListBooks(ctx context.Context, offset, limit int) ([]Book, error)
	UpdateBook(ctx context.Context, bookEntry Book) (Book, error)
	DeleteBook(ctx context.Context, id int64) error
}

type Service struct {
	repo                 Repository
	ntfy                 *notifications.Ntfy
	notificationsTimeout time.Duration
}

func NewService(repo Repository, ntfy *notifications.Ntfy, notificationsTimeout time.Duration) *Service {
	return &Service{repo: repo, ntfy: ntfy, notificationsTimeout: notificationsTimeout}
}

/* Builds a book from the request, stamps both timestamps with the same instant and stores it.
The store assigns the ID. */
func (s *Service) CreateBook(ctx context.Context, req CreateBookRequest) (Book, error) {
	now := time.Now().UTC().Round(time.Millisecond)
	newBook := NewBook(req, now)

	storedBook, err := s.repo.CreateBook(ctx, newBook)
	if err != nil {
		return Book{}, err
	}

	go func() {
		ntfyCtx, cancel := context.WithTimeout(context.Background(), s.notificationsTimeout)
		defer cancel()
		err := s.ntfy.BookCreated(ntfyCtx, storedBook.Title, storedBook.Author)
		if err != nil {
			log.Println(err)
		}
	}()

	return storedBook, nil
}

func (s *Service) GetBook(ctx context.Context, id int64) (Book, error) {
	return s.repo.GetBookByID(ctx, id)
}

func (s *Service) ListBooks(ctx context.Context, offset, limit int) ([]Book, error) {
	return s.repo.ListBooks(ctx, offset, limit)
}

/* Loads the stored book, overwrites only the fields present in the request and
refreshes updated_at. Absent books surface as ErrResponseBookNotFound from the load. */
func (s *Service) UpdateBook(ctx context.Context, req UpdateBookRequest) (Book, error) {
	storedBook, err := s.repo.GetBookByID(ctx, req.ID)
	if err != nil {
		return Book{}, err
	}

	mergedBook := Merge(storedBook, req)
	mergedBook.UpdatedAt = time.Now().UTC().Round(time.Millisecond)

	return s.repo.UpdateBook(ctx, mergedBook)
}

func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	return s.repo.DeleteBook(ctx, id)
}
