// Package internal contains the implementation packages of chassis.
//
// # Package Organization
//
//   - core: argument normalization (Splice) and first-occurrence deduplication
//   - dom: the in-memory document, nodes, events and child-list mutation records
//   - events: the event emitter and the list event payloads
//   - watcher: batched child-mutation watching and the scenario file watcher
//   - datalist: the ordered list engine and the datalist mixin
//   - listinput: the text input mixin that splits typed values into its list
//   - binding: per-node host state shared by the mixins
//   - registry: named mixins applied to selectors or nodes
//   - di: the application root wiring configuration, logger and registry
//   - config, logging, errors, version: ambient support
//   - scenario: scripted sessions and their event transcripts
//
// # Inter-Package Communication
//
//   - Mixin installers store their capabilities on a binding.Host, so the
//     listinput mixin reuses the list a datalist installed on the same node
//   - Every list mutation is announced through events.Emitter on the host node
//   - A listinput with a for target observes it through watcher.ChildWatcher
//     and re-announces the changes as domchange on itself
package internal
