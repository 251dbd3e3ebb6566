// Package core holds the small argument helpers shared by every public
// entry point of the mixin runtime: flattening variadic arguments and
// removing repeated values while keeping first-seen order.
package core
