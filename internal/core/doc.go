// Package core provides the business logic for inventory CSV import and export.
//
// This package contains all reconciliation logic independent of any
// transport. It is used by the HTTP server, the CLI and tests unchanged.
//
// # Import
//
// An import run moves through four stages and never revisits one:
//
//  1. Parsing: [ParseCSV] tokenizes the file. Malformed CSV aborts with a
//     [*ParseError] and no partial result.
//  2. Validating: [ValidateRows] checks every row against [ItemFieldSpecs].
//     Bad rows are reported and skipped.
//  3. Resolving+Persisting: a [Resolver] maps category and location names to
//     ids, creating missing ones once per run, then the item is created.
//  4. Completed: the [ImportResult] carries stats and every row error.
//
// Use [Service.Import] from callers; it adds size limits, concurrency limits,
// timeouts, logging and metrics around [RunImport].
//
// # Export
//
// [Export] renders items in the canonical column order, so an exported file
// imports back into equivalent rows. [GenerateTemplate] returns the header and
// one example row that validates cleanly.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each message has a code for support reference (CSV, VAL, REF, DB and IMP
// groups, ERR000 as the fallback).
package core
