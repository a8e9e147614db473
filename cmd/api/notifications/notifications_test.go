package notifications

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestBookCreated(t *testing.T) {

	t.Run("pushes the creation message to the topic", func(t *testing.T) {
		is := is.New(t)

		var gotPath string
		var gotBody string
		topicServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			body, _ := io.ReadAll(r.Body)
			gotBody = string(body)
			w.WriteHeader(http.StatusOK)
		}))
		defer topicServer.Close()

		ntfy := NewNtfy(true, topicServer.URL, topicServer.Client())

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		err := ntfy.BookCreated(ctx, "Dune", "Herbert")
		is.NoErr(err)
		is.Equal(gotPath, "/New_book_created")
		is.True(strings.Contains(gotBody, "Dune"))
		is.True(strings.Contains(gotBody, "Herbert"))
	})

	t.Run("does nothing when notifications are disabled", func(t *testing.T) {
		is := is.New(t)

		topicServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected request to the topic server")
		}))
		defer topicServer.Close()

		ntfy := NewNtfy(false, topicServer.URL, topicServer.Client())

		err := ntfy.BookCreated(context.Background(), "Dune", "Herbert")
		is.NoErr(err)
	})

	t.Run("a non 200 response surfaces as an error", func(t *testing.T) {
		is := is.New(t)

		topicServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer topicServer.Close()

		ntfy := NewNtfy(true, topicServer.URL, topicServer.Client())

		err := ntfy.BookCreated(context.Background(), "Dune", "Herbert")
		is.True(err != nil)
	})
}
