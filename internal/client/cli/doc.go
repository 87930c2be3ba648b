// Package cli provides the interactive mailadmin command-line client.
//
// It wires configuration, the local session database, the backend services
// and a REPL in which each resource (users, lists, list items, templates,
// campaigns) is browsed page by page. Protected commands go through the
// route guard; when no session exists the REPL asks for credentials and
// then runs the command that was originally requested.
//
// The same App also backs the one-shot cobra commands (login, logout,
// status, lists delete).
package cli
