package projects

import (
	"sort"

	"golang.org/x/text/cases"

	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

// foldTag returns the comparison key for a tag. Stored tags are already
// trimmed; query tags are compared as given. A fresh Caser is used per call
// since cases.Caser is not safe for concurrent use.
func foldTag(tag string) string {
	return cases.Fold().String(tag)
}

// sortRecords orders records newest first. Records without a valid date
// follow all dated ones; ties are broken by slug.
func sortRecords(records []*interfaces.ProjectRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.DateValid != b.DateValid {
			return a.DateValid
		}
		if a.DateValid && !a.PublishedAt.Equal(b.PublishedAt) {
			return a.PublishedAt.After(b.PublishedAt)
		}
		return a.Slug < b.Slug
	})
}

// FilterFeatured returns the featured records of records, order preserved.
func FilterFeatured(records []*interfaces.ProjectRecord) []*interfaces.ProjectRecord {
	out := make([]*interfaces.ProjectRecord, 0, len(records))
	for _, record := range records {
		if record.Featured {
			out = append(out, record)
		}
	}
	return out
}

func filterByTag(records []*interfaces.ProjectRecord, tag string) []*interfaces.ProjectRecord {
	out := make([]*interfaces.ProjectRecord, 0)
	key := foldTag(tag)
	if key == "" {
		return out
	}
	for _, record := range records {
		if hasTag(record, key) {
			out = append(out, record)
		}
	}
	return out
}

func hasTag(record *interfaces.ProjectRecord, key string) bool {
	for _, tag := range record.Tags {
		if foldTag(tag) == key {
			return true
		}
	}
	return false
}

func collectSlugs(records []*interfaces.ProjectRecord) []string {
	out := make([]string, 0, len(records))
	for _, record := range records {
		out = append(out, record.Slug)
	}
	return out
}

// CountTags aggregates tag usage across records, most used first and ties
// ordered by folded tag.
func CountTags(records []*interfaces.ProjectRecord) []interfaces.TagCount {
	index := map[string]int{}
	out := make([]interfaces.TagCount, 0)
	for _, record := range records {
		for _, tag := range record.Tags {
			key := foldTag(tag)
			if pos, ok := index[key]; ok {
				out[pos].Count++
				continue
			}
			index[key] = len(out)
			out = append(out, interfaces.TagCount{Tag: tag, Count: 1})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return foldTag(out[i].Tag) < foldTag(out[j].Tag)
	})
	return out
}
