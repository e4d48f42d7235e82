package publishers

import (
	"time"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/google/uuid"
)

// Event is the payload relayed downstream for one newly seen article.
type Event struct {
	ID          string         `json:"id"`
	FeedID      string         `json:"feed_id"`
	FeedName    string         `json:"feed_name"`
	ArticleID   string         `json:"article_id"`
	Article     domain.Article `json:"article"`
	CollectedAt time.Time      `json:"collected_at"`
}

// NewEvent stamps an article with a fresh event id and the collection time.
func NewEvent(feedID, feedName string, article domain.Article) Event {
	return Event{
		ID:          uuid.NewString(),
		FeedID:      feedID,
		FeedName:    feedName,
		ArticleID:   article.ID(),
		Article:     article,
		CollectedAt: time.Now().UTC(),
	}
}

// attributes are copied onto broker messages so consumers can filter without
// decoding the body.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"event_id":   e.ID,
		"feed_id":    e.FeedID,
		"article_id": e.ArticleID,
	}
}
