// Package updater drives a catalog update run: it loads the catalog once,
// applies each published release in the order given, and writes the catalog
// back once at the end. A failing release aborts the run without writing,
// unless the updater is configured to skip failures and carry on.
package updater
