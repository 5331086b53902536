package app

import (
	"strings"

	"review_analyzer/internal/domain"
)

/********** alias registry (single source of truth) **********/

// Exports from shops and survey tools name the same fields differently.
var draftAliases = map[string][]string{
	"product": {"product_name", "productName", "product", "product.name", "product.title", "item", "name"},
	"text":    {"review_text", "reviewText", "text", "review", "review.text", "comment", "content", "body", "message"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the trimmed string at path or "".
func lookupStr(m map[string]any, path string) string {
	if s, ok := lookupAny(m, path).(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, key string) string {
	for _, p := range draftAliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

/********** draft mapper **********/

// mapDraft builds a Draft from a loosely shaped record. Records without a
// product name or any review text are rejected.
func mapDraft(r map[string]any) (domain.Draft, bool) {
	d := domain.Draft{
		ProductName: firstNonEmptyAlias(r, "product"),
		ReviewText:  firstNonEmptyAlias(r, "text"),
	}
	// Text → fallback compose from pros/cons.
	if d.ReviewText == "" {
		var parts []string
		if p := lookupStr(r, "pros"); p != "" {
			parts = append(parts, "Pros: "+p)
		}
		if c := lookupStr(r, "cons"); c != "" {
			parts = append(parts, "Cons: "+c)
		}
		d.ReviewText = strings.Join(parts, "\n")
	}
	if d.ProductName == "" || d.ReviewText == "" {
		return domain.Draft{}, false
	}
	return d, true
}

// MapDrafts maps every usable record and reports the indexes it skipped.
func MapDrafts(in []map[string]any) ([]domain.Draft, []int) {
	out := make([]domain.Draft, 0, len(in))
	var skipped []int
	for i, r := range in {
		d, ok := mapDraft(r)
		if !ok {
			skipped = append(skipped, i)
			continue
		}
		out = append(out, d)
	}
	return out, skipped
}
