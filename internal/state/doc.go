// Package state records the history of builds in a SQLite database so that
// operators can see when pages were last regenerated and with what result.
package state
