package projections

import (
	"context"
	"sort"

	"clubktm/internal/domain/record"
)

// SiteContentCollectionStore defines the collection store interface for the
// site content projection.
type SiteContentCollectionStore interface {
	Load(ctx context.Context, name string) ([]record.Record, error)
}

// SiteContentDeps holds dependencies for the site content projection.
type SiteContentDeps struct {
	Collections SiteContentCollectionStore
}

// SiteContent is everything the public site renders in one read: upcoming
// fixtures first, then the latest results, news and media, and the squad.
type SiteContent struct {
	Fixtures []record.Record `json:"fixtures"`
	Results  []record.Record `json:"results"`
	Players  []record.Record `json:"players"`
	News     []record.Record `json:"news"`
	Media    []record.Record `json:"media"`
}

// QueryGetSiteContent loads the public collections and orders each for
// display: fixtures soonest-first, results/news/media newest-first, players
// by jersey number.
// POST: Every slice is non-nil; a missing collection appears as empty
func QueryGetSiteContent(ctx context.Context, deps SiteContentDeps) (SiteContent, error) {
	content := SiteContent{}

	load := func(name string) ([]record.Record, error) {
		records, err := deps.Collections.Load(ctx, name)
		if err != nil {
			return nil, err
		}
		if records == nil {
			records = []record.Record{}
		}
		return records, nil
	}

	var err error
	if content.Fixtures, err = load(record.CollectionFixtures); err != nil {
		return SiteContent{}, err
	}
	if content.Results, err = load(record.CollectionResults); err != nil {
		return SiteContent{}, err
	}
	if content.Players, err = load(record.CollectionPlayers); err != nil {
		return SiteContent{}, err
	}
	if content.News, err = load(record.CollectionNews); err != nil {
		return SiteContent{}, err
	}
	if content.Media, err = load(record.CollectionMedia); err != nil {
		return SiteContent{}, err
	}

	sortByDate(content.Fixtures, true)
	sortByDate(content.Results, false)
	sortByDate(content.News, false)
	sortByDate(content.Media, false)
	sort.SliceStable(content.Players, func(i, j int) bool {
		return content.Players[i].Int("jersey") < content.Players[j].Int("jersey")
	})

	return content, nil
}

// sortByDate orders records on their "date" field. ISO dates compare
// correctly as strings; records without a date sort last either way.
func sortByDate(records []record.Record, ascending bool) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].String("date"), records[j].String("date")
		if a == "" || b == "" {
			return b == "" && a != ""
		}
		if ascending {
			return a < b
		}
		return a > b
	})
}
