/*
Package store is the TreeStore adapter (C1) and batch builder (C2).

A Store owns a single bbolt file; each named tree is one bucket inside it,
opened lazily and cached by name so repeated OpenTree calls for the same
name return the same handle. Default is always present from Open onward and
is the only tree Destroy preserves.

Durability discipline: Tree.ApplyBatch commits in one bolt transaction
(atomic with respect to concurrent readers); callers that need the
documented durability guarantee call Tree.FlushAsync then Store.FlushAsync,
in that order.
*/
package store
