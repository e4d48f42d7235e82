package domain

import (
	"crypto/sha1" //nolint:gosec // non-cryptographic id generation
	"encoding/hex"
)

// Article is a single headline as shown to readers. Every field defaults to
// the empty string when the upstream value is missing.
type Article struct {
	SourceID    string `json:"source_id"`
	SourceName  string `json:"source_name"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	ImageURL    string `json:"image_url"`
	PublishedAt string `json:"published_at"`
	Content     string `json:"content"`
}

// ID returns a stable identifier derived from the article URL.
func (a Article) ID() string {
	sum := sha1.Sum([]byte(a.URL))
	return hex.EncodeToString(sum[:])
}

// Source is a publisher known to the news API.
type Source struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Category    string `json:"category"`
	Language    string `json:"language"`
	Country     string `json:"country"`
}

type Country struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

type Language struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// NewsParams filters top headlines. Empty fields are not sent upstream; the
// API itself rejects invalid combinations.
type NewsParams struct {
	Source   string `json:"source,omitempty"`
	Country  string `json:"country,omitempty"`
	Language string `json:"language,omitempty"`
}

// IsZero reports whether no filter is set.
func (p NewsParams) IsZero() bool {
	return p.Source == "" && p.Country == "" && p.Language == ""
}
