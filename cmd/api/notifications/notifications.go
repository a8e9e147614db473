package notifications

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

type Ntfy struct {
	baseURL string
	enabled bool
	client  *http.Client
}

func NewNtfy(enableNotifications bool, notificationsBaseURL string, client *http.Client) *Ntfy {
	return &Ntfy{
		baseURL: notificationsBaseURL,
		enabled: enableNotifications,
		client:  client,
	}
}

/* Pushes a plain text message to the new-book topic. Does nothing when notifications are disabled. */
func (ntf *Ntfy) BookCreated(ctx context.Context, title, author string) error {
	if !ntf.enabled {
		return nil
	}

	message := fmt.Sprintf("New book created:\nTitle: %s\nAuthor: %s", title, author)
	topicURL := ntf.baseURL + "/New_book_created"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, topicURL, strings.NewReader(message))
	if err != nil {
		return fmt.Errorf("delivering message to topic (%s): %w", topicURL, err)
	}

	resp, err := ntf.client.Do(req)
	if err != nil {
		return fmt.Errorf("delivering message to topic (%s): %w", topicURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("delivering message to topic (%s): want status 200, got %d", topicURL, resp.StatusCode)
	}
	return nil
}
