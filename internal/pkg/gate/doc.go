// Package gate authorizes callers against a configured permission credential.
//
// Business code should depend on the AccessGate interface so tests can swap in
// a fake that always allows or denies.
package gate
