package model

// Portfolio represents a portfolio from the database.
// Portfolios are managed elsewhere; this service only reads them to scope uploads.
type Portfolio struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Description         string `json:"description"`
	IsArchived          bool   `json:"isArchived"`
	ExcludeFromOverview bool   `json:"exclude_from_overview"`
}
