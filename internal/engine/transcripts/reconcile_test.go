package transcripts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcile_SetDifference(t *testing.T) {
	roadmap := []CatalogVideo{
		{VideoID: "v1", Title: "Roadmap One", Subject: "english"},
		{VideoID: "v2", Title: "Roadmap Two", Subject: "english"},
	}
	library := []CatalogVideo{
		{VideoID: "v2", Title: "Library Copy"},
		{VideoID: "v3", Title: "Library Three"},
	}
	existing := map[string]bool{"v2": true}

	items := reconcile(roadmap, library, existing)

	assert.Len(t, items, 2)
	assert.Equal(t, "v1", items[0].VideoID)
	assert.Equal(t, "Roadmap (english)", items[0].Origin)
	assert.Equal(t, "v3", items[1].VideoID)
	assert.Equal(t, OriginLibrary, items[1].Origin)
}

func TestReconcile_RoadmapWinsOrigin(t *testing.T) {
	roadmap := []CatalogVideo{{VideoID: "dup", Title: "From Roadmap", Subject: "spanish"}}
	library := []CatalogVideo{{VideoID: "dup", Title: "From Library"}}

	items := reconcile(roadmap, library, nil)

	assert.Len(t, items, 1)
	assert.Equal(t, "From Roadmap", items[0].Title)
	assert.Equal(t, "Roadmap (spanish)", items[0].Origin)
}

func TestReconcile_NoSubject(t *testing.T) {
	items := reconcile([]CatalogVideo{{VideoID: "v1"}}, nil, nil)
	assert.Equal(t, OriginRoadmap, items[0].Origin)
}

func TestReconcile_OrderPreserved(t *testing.T) {
	roadmap := []CatalogVideo{{VideoID: "r1"}, {VideoID: "r2"}}
	library := []CatalogVideo{{VideoID: "l1"}, {VideoID: "l2"}}

	items := reconcile(roadmap, library, nil)

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.VideoID
	}
	assert.Equal(t, []string{"r1", "r2", "l1", "l2"}, ids)
}

func TestReconcile_AllExisting(t *testing.T) {
	roadmap := []CatalogVideo{{VideoID: "v1"}}
	library := []CatalogVideo{{VideoID: "v1"}, {VideoID: "v2"}}
	existing := map[string]bool{"v1": true, "v2": true}

	assert.Empty(t, reconcile(roadmap, library, existing))
}

func TestFlattenIDs(t *testing.T) {
	items := []WorkItem{{VideoID: "a"}, {VideoID: "b"}, {VideoID: "c"}}
	assert.Equal(t, "a,b,c", FlattenIDs(items))
	assert.Equal(t, "", FlattenIDs(nil))
}
