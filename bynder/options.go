package bynder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/RoundRobinHood/bynder-taxonomy-sync/rest"
	"github.com/RoundRobinHood/bynder-taxonomy-sync/types"
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9]`)

// SafeName turns a label into an option name: anything outside [A-Za-z0-9]
// becomes an underscore, then the result is upper-cased.
func SafeName(label string) string {
	return strings.ToUpper(unsafeNameChars.ReplaceAllString(strings.TrimSpace(label), "_"))
}

// NewOptionPayload builds the creation document for label.
func NewOptionPayload(label string) types.OptionPayload {
	label = strings.TrimSpace(label)
	return types.OptionPayload{
		Name:         SafeName(label),
		Label:        label,
		Labels:       map[string]string{"en_US": label},
		IsSelectable: true,
	}
}

// GetAllOptions pages through the options of a metaproperty until a page
// comes back empty. A non-2xx page is logged and ends the collection with
// whatever was gathered so far.
func (c *Client) GetAllOptions(ctx context.Context, metaID string) (types.OptionSet, error) {
	options := types.OptionSet{}
	endpoint := c.optionsURL(metaID)

	for page := 1; ; page++ {
		c.log.Debug().Str("meta", metaID).Int("page", page).Msg("fetching option page")

		resp, err := c.rest.Request(ctx, endpoint, &rest.RequestOptions{
			Method: http.MethodGet,
			Query:  url.Values{"page": {strconv.Itoa(page)}},
		}, nil)
		if err != nil {
			return options, fmt.Errorf("failed to fetch page %d of %s options: %w", page, metaID, err)
		}

		if !rest.IsSuccess(resp.StatusCode) {
			c.log.Error().
				Str("meta", metaID).
				Int("page", page).
				Int("status", resp.StatusCode).
				Str("body", string(resp.Body)).
				Msg("failed to fetch option page")
			break
		}

		var entries []json.RawMessage
		if err := json.Unmarshal(resp.Body, &entries); err != nil {
			return options, fmt.Errorf("%w: page %d of %s options is not a list: %w", rest.ErrResponseFailed, page, metaID, err)
		}

		if len(entries) == 0 {
			c.log.Info().Str("meta", metaID).Int("pages", page-1).Msg("no more options")
			break
		}

		c.log.Info().Str("meta", metaID).Int("page", page).Int("count", len(entries)).Msg("option page received")

		for _, raw := range entries {
			var opt types.Option
			if err := json.Unmarshal(raw, &opt); err != nil {
				c.log.Warn().Str("entry", string(raw)).Msg("unexpected option format")
				continue
			}
			label := opt.Text()
			if label == "" {
				continue
			}
			if opt.ID == "" {
				c.log.Warn().Str("label", label).Msg("option has no id")
			}
			options[label] = string(opt.ID)
		}
	}

	return options, nil
}

// CreateOption creates label in the metaproperty and returns the new id.
// Anything but 201 is returned as a *rest.StatusError.
func (c *Client) CreateOption(ctx context.Context, metaID, label string) (string, error) {
	payload := NewOptionPayload(label)
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode option payload: %w", err)
	}

	c.log.Info().Str("meta", metaID).Str("name", payload.Name).Msg("creating option")
	c.log.Debug().Msg("payload: " + payload.String())

	endpoint := c.optionsURL(metaID)
	resp, err := c.rest.Request(ctx, endpoint, &rest.RequestOptions{
		Method: http.MethodPost,
		Form:   url.Values{"data": {string(data)}},
	}, nil)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusCreated {
		c.log.Error().
			Str("label", payload.Label).
			Str("meta", metaID).
			Int("status", resp.StatusCode).
			Str("body", string(resp.Body)).
			Msg("failed to create option")
		return "", &rest.StatusError{URL: endpoint, StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}

	var created struct {
		ID types.OptionID `json:"id"`
	}
	if err := json.Unmarshal(resp.Body, &created); err != nil || created.ID == "" {
		return "", fmt.Errorf("%w: create response for %q has no id. Body: %s", rest.ErrResponseFailed, payload.Label, string(resp.Body))
	}

	c.log.Info().Str("label", payload.Label).Str("id", string(created.ID)).Msg("created option")
	return string(created.ID), nil
}
