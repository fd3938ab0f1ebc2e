// Package editor models the visual-editor document: an unordered map of node
// ids to typed block nodes, serialized as a compressed base64 string. Only
// the four catalog-bound block kinds are interpreted here; every other kind
// (layout, text, future blocks) is carried through untouched.
package editor

import "encoding/json"

const (
	KindCategoryBlock = "CategoryBlock"
	KindHeaderBlock   = "HeaderBlock"
	KindFeaturedBlock = "FeaturedBlock"
	KindItemBlock     = "ItemBlock"
)

// Document maps node id to node.
type Document map[string]Node

type NodeType struct {
	ResolvedName string `json:"resolvedName"`
}

// Node keeps the kind tag and props parsed and preserves every other key of
// the serialized node (parent links, canvas flags, custom fields) verbatim,
// so a decode/encode cycle is lossless even for fields this service never
// interprets.
type Node struct {
	Type  NodeType
	Props map[string]any

	rest map[string]json.RawMessage
}

func (n Node) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(n.rest)+2)
	for key, raw := range n.rest {
		out[key] = raw
	}
	out["type"] = n.Type
	if n.Props != nil {
		out["props"] = n.Props
	}
	return json.Marshal(out)
}

func (n *Node) UnmarshalJSON(data []byte) error {
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if raw, ok := fields["type"]; ok {
		if err := json.Unmarshal(raw, &n.Type); err != nil {
			return err
		}
		delete(fields, "type")
	}
	if raw, ok := fields["props"]; ok {
		if err := json.Unmarshal(raw, &n.Props); err != nil {
			return err
		}
		delete(fields, "props")
	}
	if len(fields) > 0 {
		n.rest = fields
	}
	return nil
}

// CatalogBound reports whether reconciliation may touch this node at all.
func (n Node) CatalogBound() bool {
	switch n.Type.ResolvedName {
	case KindCategoryBlock, KindHeaderBlock, KindFeaturedBlock, KindItemBlock:
		return true
	}
	return false
}
