// Package pubsub implements the PubSub broadcaster (C4): a topic-addressed,
// non-blocking fan-out from publishers to a dynamic set of subscriber sinks.
//
// Grounded on pkg/events/events.go's Broker from the teacher repo — the
// "snapshot the list under a short lock, then send outside it" discipline
// and the non-blocking select/default try-send are carried over directly —
// generalized from that file's single flat subscriber set into a
// map[topic][]*Sink as spec.md §3/§4.4 require, with per-topic drop
// counters and lazy dead-sink reaping added (not present in events.go).
package pubsub
