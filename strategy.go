package dossier

import "context"

// Strategy is one extraction algorithm over a parsed document.
type Strategy interface {
	// Name returns the strategy tag recorded on its profiles.
	Name() string

	// Extract returns the accepted candidates found in doc. An empty
	// result and an error are treated alike by the caller: no contribution.
	Extract(ctx context.Context, doc *Document) ([]*Profile, error)
}

// Oracle answers free-text prompts using an external model.
type Oracle interface {
	// Complete returns the model's answer for the given page text.
	Complete(ctx context.Context, text string) (string, error)
}

// BioFetcher dereferences a "read more" link into a short biography.
type BioFetcher interface {
	// FetchBio returns the biography text at url, or "" if none was found.
	FetchBio(ctx context.Context, url string) (string, error)
}

// SiteType is the coarse kind of site a page belongs to.
type SiteType string

// SiteType constants.
const (
	SiteSocialProfile SiteType = "social_profile"
	SiteCompany       SiteType = "company"
	SitePortfolio     SiteType = "portfolio"
	SiteBlog          SiteType = "blog"
	SiteForum         SiteType = "forum"
	SiteNews          SiteType = "news"
	SiteEcommerce     SiteType = "ecommerce"
)
