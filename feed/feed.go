// Package feed reads the Channable Google-Shopping product feed.
package feed

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/RoundRobinHood/bynder-taxonomy-sync/rest"
	"github.com/RoundRobinHood/bynder-taxonomy-sync/types"
	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"
)

const GoogleNS = "http://base.google.com/ns/1.0"

// Feed holds the unique SKUs of a product feed in first-seen order.
type Feed struct {
	// ItemCount counts every item element, with or without an id.
	ItemCount int
	Items     []types.FeedItem
	index     map[string]int
}

func (f *Feed) add(item types.FeedItem) {
	if i, ok := f.index[item.SKU]; ok {
		f.Items[i].Title = item.Title
		return
	}
	f.index[item.SKU] = len(f.Items)
	f.Items = append(f.Items, item)
}

type child struct {
	XMLName xml.Name
	Text    string `xml:",chardata"`
}

type rawItem struct {
	Children []child `xml:",any"`
}

func (it rawItem) find(space, local string) (string, bool) {
	for _, c := range it.Children {
		if c.XMLName.Space == space && c.XMLName.Local == local {
			return strings.TrimSpace(c.Text), true
		}
	}
	return "", false
}

// Parse reads every un-namespaced item element in the document. Items need a
// g:id child to be kept; a missing title becomes "".
func Parse(r io.Reader, log zerolog.Logger) (*Feed, error) {
	feed := &Feed{index: map[string]int{}}
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse feed XML: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "item" || start.Name.Space != "" {
			continue
		}

		var item rawItem
		if err := dec.DecodeElement(&item, &start); err != nil {
			return nil, fmt.Errorf("failed to parse feed item %d: %w", feed.ItemCount, err)
		}

		if sku, ok := item.find(GoogleNS, "id"); ok && sku != "" {
			title, _ := item.find("", "title")
			feed.add(types.FeedItem{SKU: sku, Title: title})
		}

		if feed.ItemCount > 0 && feed.ItemCount%100 == 0 {
			log.Info().Int("items", feed.ItemCount).Msg("processing feed")
		}
		feed.ItemCount++
	}

	return feed, nil
}

// Fetch downloads the feed at feedURL and parses it.
func Fetch(ctx context.Context, feedURL string, client *http.Client, log zerolog.Logger) (*Feed, error) {
	log.Info().Str("url", feedURL).Msg("downloading feed")
	resp, err := rest.Request(ctx, feedURL, &rest.RequestOptions{Method: http.MethodGet}, nil, client)
	if err != nil {
		return nil, fmt.Errorf("failed to download feed: %w", err)
	}
	if !rest.IsSuccess(resp.StatusCode) {
		return nil, &rest.StatusError{URL: feedURL, StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}

	log.Info().Dur("took", resp.Duration).Int("bytes", len(resp.Body)).Msg("parsing feed XML")
	return Parse(bytes.NewReader(resp.Body), log)
}
