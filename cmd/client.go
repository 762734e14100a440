package cmd

import (
	"github.com/sikshasathi/sathi/internal/api"
	"github.com/sikshasathi/sathi/internal/auth"
	"github.com/sikshasathi/sathi/internal/sathi/config"
)

// apiClientBundle groups what most commands need: the HTTP client, the
// credential store, and the loaded configuration.
type apiClientBundle struct {
	Client *api.Client
	Store  *auth.Store
	Config *config.Config
}

func newAPIClient(cfg *config.Config) *api.Client {
	return api.NewClient(cfg.BaseURL, cfg.Timeout())
}
