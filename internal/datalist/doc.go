// Package datalist implements the ordered list engine behind the datalist
// and listinput mixins.
//
// A List holds an ordered sequence of values, optionally deduplicated, and
// reports every mutation to its host as a specific event (create, delete,
// remove or modify) followed by an aggregate update event. The typed engine
// is generic over comparable values; the Binding wraps a List[string] with
// the loosely typed call surface mixin users see.
package datalist
