package bynder

import (
	"context"
	"fmt"
	"net/http"

	"github.com/RoundRobinHood/bynder-taxonomy-sync/types"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const tokenPath = "/v6/authentication/oauth2/token"

// Authenticate exchanges the client credentials for a bearer token and
// returns an http.Client that sends it on every request. The token is
// requested up front so bad credentials fail here.
func Authenticate(ctx context.Context, cnf types.ApiConfig, clientID, clientSecret string) (*http.Client, error) {
	cc := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     cnf.BaseUrl() + tokenPath,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	source := cc.TokenSource(ctx)
	if _, err := source.Token(); err != nil {
		return nil, fmt.Errorf("failed to obtain access token: %w", err)
	}

	return oauth2.NewClient(ctx, source), nil
}
