package bynder

import (
	"context"
	"net/http"
	"strings"

	"github.com/RoundRobinHood/bynder-taxonomy-sync/rest"
)

// AlreadyExistsText is what Bynder answers with (status 400) when a
// dependency is already in place.
const AlreadyExistsText = "The automation already exists"

// LinkOption makes parentID a dependency of the child option. existed is true
// when Bynder reported the link as already present.
func (c *Client) LinkOption(ctx context.Context, childMetaID, childID, parentID string) (existed bool, err error) {
	endpoint := c.dependencyURL(childMetaID, childID, parentID)
	resp, err := c.rest.Request(ctx, endpoint, &rest.RequestOptions{Method: http.MethodPost}, nil)
	if err != nil {
		return false, err
	}

	if resp.StatusCode == http.StatusBadRequest && strings.Contains(string(resp.Body), AlreadyExistsText) {
		c.log.Info().Str("child", childID).Str("parent", parentID).Msg("dependency already exists")
		return true, nil
	}

	if !rest.IsSuccess(resp.StatusCode) {
		c.log.Error().
			Str("child", childID).
			Str("parent", parentID).
			Int("status", resp.StatusCode).
			Str("body", string(resp.Body)).
			Msg("link failed")
		return false, &rest.StatusError{URL: endpoint, StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}

	if resp.StatusCode != http.StatusCreated {
		c.log.Warn().Str("child", childID).Str("parent", parentID).Int("status", resp.StatusCode).Msg("link returned unexpected success status")
	}
	return false, nil
}
