// Package bynder talks to the Bynder metaproperty option API.
package bynder

import (
	"fmt"
	"net/http"

	"github.com/RoundRobinHood/bynder-taxonomy-sync/rest"
	"github.com/RoundRobinHood/bynder-taxonomy-sync/types"
	"github.com/rs/zerolog"
)

type Client struct {
	cnf  types.ApiConfig
	rest *rest.RestClient
	log  zerolog.Logger
}

// NewClient wraps an authenticated http.Client, usually the one returned by
// Authenticate.
func NewClient(cnf types.ApiConfig, httpClient *http.Client, log zerolog.Logger) *Client {
	return &Client{
		cnf:  cnf,
		rest: &rest.RestClient{Client: httpClient},
		log:  log,
	}
}

func (c *Client) optionsURL(metaID string) string {
	return fmt.Sprintf("%s/api/v4/metaproperties/%s/options/", c.cnf.BaseUrl(), metaID)
}

func (c *Client) dependencyURL(childMetaID, childID, parentID string) string {
	return fmt.Sprintf("%s/api/v4/metaproperties/%s/options/%s/dependencies/%s/", c.cnf.BaseUrl(), childMetaID, childID, parentID)
}
