package scrape

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/fwojciec/dossier"
)

// Ensure BioFetcher implements dossier.BioFetcher at compile time.
var _ dossier.BioFetcher = (*BioFetcher)(nil)

const (
	// MinBioLen is the exclusive lower bound on a biography paragraph.
	MinBioLen = 60

	maxBioBody = 2 << 20
)

var (
	mdLinkRe     = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)
	mdEmphasisRe = regexp.MustCompile(`[*_]{1,3}([^*_]+)[*_]{1,3}`)
)

// BioFetcher reads a biography from a "read more" page: one GET, main
// content extraction, Markdown conversion, then the longest paragraph.
type BioFetcher struct {
	Client    *http.Client
	Extractor dossier.Extractor
	Converter dossier.Converter
	UserAgent string

	// ExtractorFor, when set, builds the extractor for each bio page from
	// its URL and takes precedence over Extractor.
	ExtractorFor func(pageURL string) dossier.Extractor
}

// FetchBio returns the longest paragraph of the page at url that is longer
// than MinBioLen characters, or "" if there is none. It never retries.
func (f *BioFetcher) FetchBio(ctx context.Context, url string) (string, error) {
	body, err := f.get(ctx, url)
	if err != nil {
		return "", err
	}
	extractor := f.Extractor
	if f.ExtractorFor != nil {
		extractor = f.ExtractorFor(url)
	}
	extracted, err := extractor.Extract(body)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(extracted.ContentHTML) == "" {
		return "", nil
	}
	md, err := f.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		return "", err
	}
	return LongestParagraph(md, MinBioLen), nil
}

func (f *BioFetcher) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", dossier.Errorf(dossier.EINVALID, "invalid bio URL %q", url)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", dossier.Errorf(dossier.EFETCH, "fetch bio %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", dossier.Errorf(dossier.EFETCH, "fetch bio %s: status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBioBody))
	if err != nil {
		return "", dossier.Errorf(dossier.EFETCH, "read bio %s: %v", url, err)
	}
	return string(body), nil
}

// LongestParagraph returns the longest blank-line separated paragraph of
// md, stripped of Markdown markup, that is longer than minLen characters.
// Headings and list items are skipped.
func LongestParagraph(md string, minLen int) string {
	var best string
	for para := range strings.SplitSeq(md, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" || strings.HasPrefix(para, "#") || strings.HasPrefix(para, "- ") ||
			strings.HasPrefix(para, "* ") || strings.HasPrefix(para, "|") {
			continue
		}
		text := plain(para)
		if len(text) > minLen && len(text) > len(best) {
			best = text
		}
	}
	return best
}

func plain(md string) string {
	md = mdLinkRe.ReplaceAllString(md, "$1")
	md = mdEmphasisRe.ReplaceAllString(md, "$1")
	md = strings.TrimLeft(md, "> ")
	return strings.Join(strings.Fields(md), " ")
}
