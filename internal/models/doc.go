// Package models holds client-side projections of server truth for the
// cashier terminal. Nothing here is authoritative: every value is replaced
// wholesale from a server response and never patched locally.
package models
