// Package core implements the catalog import pipeline.
//
// An import turns an externally produced CSV or JSON file into catalog
// articles and suppliers. The stages run strictly in order, each consuming
// the full output of the previous one:
//
//  1. [DetectEncoding] recovers text from bytes of unknown encoding.
//  2. [ParseFile] tokenizes CSV (auto-detected delimiter, quote-aware) or
//     decodes a JSON array of objects into [RawRow] values.
//  3. [DefaultMapping] guesses a canonical [FieldKey] per column header;
//     callers may override it with a partial [FieldMapping].
//  4. [BuildDraft] normalizes cell strings (locale-aware numbers, lists).
//  5. [Reconcile] completes bundlePrice = content * pricePerUnit.
//  6. [Resolve] drops empty and duplicate names and resolves suppliers.
//  7. [Execute] creates new suppliers, then articles.
//
// Stages 3 to 6 are pure and are bundled by [PlanImport], so a parsed file
// can be re-planned with a different mapping without re-reading it.
// [Service] wraps the pipeline with a catalog snapshot, a run limiter and
// logging.
//
// # Errors
//
// Only unreadable files ([IOError]) and unusable JSON ([FormatError]) abort
// a run before it writes. Rows with empty or duplicate names are reported as
// [SkippedRow] values and unparsable numbers become zero. [MapError] turns
// any returned error into a coded [UserMessage].
package core
