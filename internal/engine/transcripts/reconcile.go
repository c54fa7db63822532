package transcripts

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// reconcile computes the work queue: every catalog video without a stored
// transcript. Roadmap entries come first and win the origin label when a
// video appears in both catalogs; within each catalog the source order is
// preserved. Duplicate IDs keep their first occurrence only.
func reconcile(roadmap, library []CatalogVideo, existing map[string]bool) []WorkItem {
	seen := make(map[string]bool, len(roadmap)+len(library))
	var items []WorkItem

	for _, v := range roadmap {
		if existing[v.VideoID] || seen[v.VideoID] {
			continue
		}
		seen[v.VideoID] = true
		origin := OriginRoadmap
		if v.Subject != "" {
			origin = fmt.Sprintf("%s (%s)", OriginRoadmap, v.Subject)
		}
		items = append(items, WorkItem{VideoID: v.VideoID, Title: v.Title, Origin: origin})
	}
	for _, v := range library {
		if existing[v.VideoID] || seen[v.VideoID] {
			continue
		}
		seen[v.VideoID] = true
		items = append(items, WorkItem{VideoID: v.VideoID, Title: v.Title, Origin: OriginLibrary})
	}
	return items
}

// MissingTranscripts reads both catalogs and the transcript table and
// returns the videos still waiting for a transcript. The snapshot is not
// transactional: a video persisted while this runs shows up as a duplicate
// work item at worst, and re-processing it is a harmless upsert.
func MissingTranscripts(ctx context.Context) ([]WorkItem, error) {
	s := GetStore()
	if s == nil {
		return nil, errors.New("transcript store is not configured")
	}

	roadmap, err := s.RoadmapVideos(ctx)
	if err != nil {
		return nil, err
	}
	library, err := s.LibraryVideos(ctx)
	if err != nil {
		return nil, err
	}
	existing, err := s.ExistingTranscriptIDs(ctx)
	if err != nil {
		return nil, err
	}
	return reconcile(roadmap, library, existing), nil
}

// FlattenIDs joins work item IDs into the comma-separated form used by
// external tooling.
func FlattenIDs(items []WorkItem) string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.VideoID
	}
	return strings.Join(ids, ",")
}
