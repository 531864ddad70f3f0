// Package mongodb implements the repository contracts on a MongoDB database.
package mongodb

import (
	"strings"
)

const (
	potionCollection = "potions"
	userCollection   = "users"
)

// sanitizeDocument strips keys that could smuggle query operators into an
// update ($-prefixed or dotted), plus the immutable identifier fields.
// Nested documents are sanitized recursively.
func sanitizeDocument(doc map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		if k == "" || k == "_id" || k == "id" {
			continue
		}
		if strings.HasPrefix(k, "$") || strings.Contains(k, ".") {
			continue
		}
		if nested, ok := v.(map[string]interface{}); ok {
			out[k] = sanitizeDocument(nested)
			continue
		}
		out[k] = v
	}
	return out
}
