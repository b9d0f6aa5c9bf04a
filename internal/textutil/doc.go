// Package textutil provides small string helpers: filesystem-safe tokens for
// per-job temp namespaces and tail excerpts of tool diagnostics.
package textutil
