package ingest

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/AazainKhan/luminate-ai-sub001/internal/domain"
)

// dirID derives the corpus id of a folder container from its path relative
// to the ingestion root.
func dirID(relDir string) string {
	relDir = filepath.ToSlash(relDir)
	if relDir == "." || relDir == "" {
		return "dir:root"
	}
	return "dir:" + relDir
}

// buildEdges derives the relationship graph of one run: folder nesting as
// CONTAINS, plus NEXT/PREV between consecutive documents of the same module.
// Documents are ordered by path within a module, which follows the export's
// own sequence numbering. Every referenced id exists in the run: documents
// by construction, folders via the emitted container set.
func buildEdges(docs []document) ([]domain.Edge, []string) {
	var edges []domain.Edge
	containers := map[string]struct{}{}

	// Folder nesting → CONTAINS.
	for _, d := range docs {
		rel := filepath.ToSlash(d.relDir)
		id := dirID(rel)
		containers[id] = struct{}{}
		edges = append(edges, domain.Edge{
			SourceID: id,
			TargetID: d.doc.ID,
			Relation: domain.RelationContains,
			Meta:     map[string]string{"folder": rel},
		})

		// Walk intermediate folders up to the root.
		for rel != "." && rel != "" {
			parent := filepath.ToSlash(filepath.Dir(rel))
			parentID := dirID(parent)
			childID := dirID(rel)
			if _, seen := containers[childID+"←"+parentID]; !seen {
				containers[childID+"←"+parentID] = struct{}{}
				containers[parentID] = struct{}{}
				edges = append(edges, domain.Edge{
					SourceID: parentID,
					TargetID: childID,
					Relation: domain.RelationContains,
				})
			}
			rel = parent
		}
	}

	// Sequential edges within each module.
	byModule := map[string][]document{}
	for _, d := range docs {
		byModule[d.doc.Meta.Module] = append(byModule[d.doc.Meta.Module], d)
	}

	modules := make([]string, 0, len(byModule))
	for m := range byModule {
		modules = append(modules, m)
	}
	sort.Strings(modules)

	for _, m := range modules {
		group := byModule[m]
		sort.Slice(group, func(i, j int) bool { return group[i].doc.Path < group[j].doc.Path })

		for i := 1; i < len(group); i++ {
			prev, next := group[i-1].doc, group[i].doc
			edges = append(edges, domain.Edge{
				SourceID: prev.ID,
				TargetID: next.ID,
				Relation: domain.RelationNextInModule,
				Meta:     map[string]string{"module": m, "target_title": next.Meta.Title},
			})
			edges = append(edges, domain.Edge{
				SourceID: next.ID,
				TargetID: prev.ID,
				Relation: domain.RelationPrevInModule,
				Meta:     map[string]string{"module": m, "target_title": prev.Meta.Title},
			})
		}
	}

	ids := make([]string, 0, len(containers))
	for id := range containers {
		if !strings.Contains(id, "←") {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	return edges, ids
}
