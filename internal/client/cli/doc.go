// Package cli provides the interactive Messagely command-line client.
//
// It talks to the server's gRPC API, keeps the access token for the
// session in memory and runs a REPL until the user exits. A background
// watcher polls the server's health service and shows online/offline in
// the prompt.
package cli
