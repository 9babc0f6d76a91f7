// Package googlenews fetches headlines from the Google News RSS search feed.
//
// Each search term is fetched independently: a term whose fetch or parse
// fails is omitted from the digest, it never aborts the other terms.
package googlenews

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/etnz/pulse"
)

const defaultBaseURL = "https://news.google.com/rss/search"

const userAgent = "Mozilla/5.0"

// maxHeadlines is the number of entries kept per search term.
const maxHeadlines = 2

// Client queries the Google News RSS search feed.
type Client struct {
	http   *http.Client
	base   string
	locale string // e.g. "en-IN"
	suffix string // appended to every query, e.g. "India Business"
}

// New returns a Client using the given http.Client, which should carry a
// request timeout. locale selects the feed edition; suffix narrows every
// search query and may be empty.
func New(client *http.Client, locale, suffix string) *Client {
	if locale == "" {
		locale = "en-IN"
	}
	return &Client{http: client, base: defaultBaseURL, locale: locale, suffix: suffix}
}

// News fetches headlines for every term, in order. Failing or empty terms
// are omitted from the digest.
func (c *Client) News(ctx context.Context, terms []string) pulse.NewsDigest {
	var digest pulse.NewsDigest
	for _, term := range terms {
		items, err := c.search(ctx, term)
		if err != nil {
			log.Printf("googlenews: %q: %v", term, err)
			continue
		}
		if len(items) == 0 {
			continue
		}
		digest = append(digest, pulse.TermNews{Term: term, Items: items})
	}
	return digest
}

// rss is the subset of the feed document we read.
type rss struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title string `xml:"title"`
	Link  string `xml:"link"`
}

// search fetches the feed for one term and keeps the first entries.
func (c *Client) search(ctx context.Context, term string) ([]pulse.Headline, error) {
	query := term
	if c.suffix != "" {
		query += " " + c.suffix
	}
	lang, country := splitLocale(c.locale)
	addr := fmt.Sprintf("%s?q=%s&hl=%s&gl=%s&ceid=%s:%s",
		c.base, url.QueryEscape(query), c.locale, country, country, lang)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	log.Printf("%v %v%v %v", req.Method, req.URL.Host, req.URL.Path, resp.Status)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot http GET %v%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var feed rss
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	items := feed.Channel.Items
	if len(items) > maxHeadlines {
		items = items[:maxHeadlines]
	}
	headlines := make([]pulse.Headline, 0, len(items))
	for _, it := range items {
		headlines = append(headlines, pulse.Headline{
			Title: strings.TrimSpace(it.Title),
			Link:  strings.TrimSpace(it.Link),
		})
	}
	return headlines, nil
}

// splitLocale splits "en-IN" into its language and country parts.
func splitLocale(locale string) (lang, country string) {
	lang, country, ok := strings.Cut(locale, "-")
	if !ok {
		return locale, strings.ToUpper(locale)
	}
	return lang, country
}
