/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package resources implements the resource-lookup chain content-stream
// operators resolve against: a page's top-level /Resources dictionary,
// and — while interpreting a Form XObject — that XObject's own
// /Resources falling back to its parent's. Kept as its own tiny package
// so both internal/pdffont and internal/interp can depend on it without
// importing each other.
package resources

import "github.com/unidoc/pdflayout/backend"

// Chain is one resources dictionary plus an optional fallback parent.
type Chain struct {
	own    backend.Value
	parent *Chain
}

// New returns a root Chain wrapping a resolved /Resources dictionary.
func New(dict backend.Value) *Chain {
	return &Chain{own: dict}
}

// Child returns a Chain for a Form XObject's own /Resources dictionary
// (dict may be the zero Value if the XObject declares none), falling back
// to c for anything dict doesn't define.
func (c *Chain) Child(dict backend.Value) *Chain {
	return &Chain{own: dict, parent: c}
}

// Lookup resolves category/name (e.g. "Font"/"F1") against own, then the
// parent chain.
func (c *Chain) Lookup(category, name string) (backend.Value, bool) {
	if c == nil {
		return backend.Value{}, false
	}
	if cat, ok := c.own.Dict[category]; ok && cat.Kind == backend.ValDict {
		if v, ok := cat.Dict[name]; ok {
			return v, true
		}
	}
	return c.parent.Lookup(category, name)
}
