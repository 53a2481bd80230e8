package airtable

import (
	"github.com/mehanizm/airtable"

	"sentinel/internal/adapters/config"
)

// Client wraps the Airtable API client with the configured base.
// A nil Client means no credentials were supplied and repositories should run
// in mock mode.
type Client struct {
	api *airtable.Client
	cfg config.AirtableConfig
}

// NewClient creates an Airtable client, or nil when credentials are absent.
func NewClient(cfg config.AirtableConfig) *Client {
	if !cfg.Configured() {
		return nil
	}
	return &Client{
		api: airtable.NewClient(cfg.APIKey),
		cfg: cfg,
	}
}

// Vendors returns a handle for the vendors table.
func (c *Client) Vendors() *airtable.Table {
	return c.api.GetTable(c.cfg.BaseID, c.cfg.VendorsTable)
}

// Documents returns a handle for the documents table.
func (c *Client) Documents() *airtable.Table {
	return c.api.GetTable(c.cfg.BaseID, c.cfg.DocumentsTable)
}
