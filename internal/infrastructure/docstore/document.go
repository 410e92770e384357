package docstore

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"cureconnect/internal/domain/repository"
)

// normalize round-trips doc through JSON so every backend stores and returns
// the same value types (string, float64, bool, []any, map[string]any). The
// result shares no memory with doc.
func normalize(doc repository.Document) (repository.Document, error) {
	if doc == nil {
		return repository.Document{}, nil
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	out := repository.Document{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return out, nil
}

func normalizeValue(v any) (any, error) {
	doc, err := normalize(repository.Document{"v": v})
	if err != nil {
		return nil, err
	}
	return doc["v"], nil
}

// deepMerge writes src into dst. Nested maps present on both sides are merged
// key by key, everything else is replaced.
func deepMerge(dst, src repository.Document) repository.Document {
	if dst == nil {
		dst = repository.Document{}
	}
	for key, value := range src {
		srcMap, srcIsMap := value.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = deepMerge(dstMap, srcMap)
			continue
		}
		dst[key] = value
	}
	return dst
}

func matches(doc repository.Document, filters []repository.Filter) bool {
	for _, f := range filters {
		if !reflect.DeepEqual(doc[f.Field], f.Value) {
			return false
		}
	}
	return true
}

func normalizeFilters(filters []repository.Filter) ([]repository.Filter, error) {
	out := make([]repository.Filter, 0, len(filters))
	for _, f := range filters {
		v, err := normalizeValue(f.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, repository.Filter{Field: f.Field, Value: v})
	}
	return out, nil
}

func sortRecords(records []repository.Record) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].ID < records[j].ID
	})
}

func channelName(collection, id string) string {
	return "docstore:" + collection + ":" + id
}
