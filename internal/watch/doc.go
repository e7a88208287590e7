// Package watch runs a cra-watch session. The Orchestrator consumes the
// bundler's lifecycle events one at a time, reconciles the build directory
// and prints a report per compilation. A separate fsnotify watcher turns
// public folder edits into bundler rebuilds.
package watch
