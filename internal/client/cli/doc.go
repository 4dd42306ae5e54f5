// Package cli provides the interactive recipebook command-line client.
//
// It wires configuration, the local token database, the API client, the
// session store and the router into a REPL. Navigation commands resolve a
// location through the router and show the matching screen; the store
// subscriber prints error and success messages as the session changes.
//
// Key features:
//   - Register / Login / Logout, profile view and editing
//   - Recipe list with tag and ingredient filters, create and edit forms
//   - Recipe delete and image upload
//   - Tag and ingredient management
//   - Export to a local file or S3
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL and registerViews for details.
package cli
