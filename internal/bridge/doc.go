// Package bridge keeps a shared language worker's view of open files
// consistent with the editor's, and correlates the worker's asynchronous
// answers with per-document marker state.
//
// The worker is a single process that tracks one notion of "open files,"
// while the host application may show many editors over shared documents
// with only one active tab. The bridge mediates:
//
//   - EditorBinding tracks document swaps per editor widget and emits the
//     correct open/close/updateOpen transition to the worker.
//   - The change forwarder relays edits from the active tab only, in order,
//     and triggers one diagnostics refresh per edit batch.
//   - Aggregator holds three diagnostic buckets per file (suggestion,
//     syntactic, semantic), each replaced wholesale, and re-pushes the
//     merged marker list to the document after every update.
//   - Hover and definition requests go through single-flight resolver
//     slots: a newer request preempts the older one with an empty result.
//   - The router demultiplexes inbound worker messages to the aggregator,
//     the slots, or ad-hoc handlers.
//
// All failures are absorbed locally. Hover and definition resolve with
// empty results rather than errors, and diagnostics for documents that
// closed mid-flight are applied to buckets nothing will render.
//
// # Quick Start
//
//	b := bridge.New(sender, registry, tabs)
//	ed := b.NewEditor("editor-1")
//	ed.SetDocument(doc)              // emits open/close/updateOpen
//	res := <-b.Hover(doc.Path(), 3, 7)
//
// Inbound worker payloads are fed to b.HandleRaw (or b.HandleMessage for
// pre-parsed messages), typically from the worker transport's read pump.
package bridge
