// Package flows contains the session state-machine logic for login, logout,
// refresh, and validation, decoupled from the host package through explicit
// dependency structs.
//
// Each flow receives everything it needs (store accessors, codec functions,
// sentinel errors, metric hooks) as function fields, so the flows never
// import the root package and stay trivially testable. Nil hooks default to
// no-ops; nil required dependencies fail closed with the host's
// engine-not-ready sentinel.
package flows
