// Package nomineelifecycle owns nominations and their conversion into
// contestants inside the contest-engagement context.
//
// Self nominations start pending and third-party nominations start
// pending_approval. Every status change is validated against a fixed
// transition table and written with a compare-and-set, so concurrent requests
// for one nominee cannot both apply. A nominee becomes a contestant at most
// once; the conversion and the contestant row commit together.
package nomineelifecycle
