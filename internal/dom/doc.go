// Package dom provides the in-memory, DOM-like host collaborator the mixin
// runtime attaches to: element nodes with attributes, a text value,
// children, per-node event listeners, raw child-list mutation records and a
// document-wide element lookup with a small CSS selector subset.
//
// It is deliberately not a markup parser or a renderer. Trees are built
// programmatically (see Document.CreateElement and Node.AppendChild) or by
// the scenario loader.
//
// Event dispatch is synchronous and does not bubble. Listener lists are
// copied before dispatch so listeners may add or remove listeners, or
// dispatch further events, while running.
package dom
