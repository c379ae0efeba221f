// Package ui contains the Bubble Tea program for the queue console.
// The Model type focuses on message orchestration, while dedicated helpers
// own navigation, input, forms, rendering and the remote call plumbing.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages.
//   - Update forwards key presses to the active form or confirmation prompt
//     (create queue, send message, delete/purge). Otherwise the message is
//     routed through a typed handler registry so each tea.Msg is handled by
//     a focused function.
//   - Remote calls are tea.Cmd values built by action.Dispatcher. Their
//     success continuations produce typed messages (queuesListedMsg,
//     messagesReceivedMsg, ...) which the handlers pass to the reconciler.
//
// State ownership:
//   - The queue registry, message feed and error slot live in
//     internal/state and are only written through internal/data/reconcile.
//   - The rendered queue list (filter, cursor, viewport) lives in
//     internal/ui/state. Each row carries its registry index, so selection
//     never depends on layout.
//
// Refresh edges:
//   - A new queue listing or a changed selection produces a feedRefreshMsg.
//     Its handler reads the selection when it runs; with no selected queue
//     it does nothing.
//   - backend.Watcher emits poll ticks and settle events. Poll ticks refresh
//     the selected queue's messages; settle events re-list queues after a
//     create or delete.
package ui
