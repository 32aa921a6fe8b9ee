// Package ingest reads uploaded billing export workbooks and turns them
// into cleaned domain records.
//
// The package is organized around three steps, executed in order:
//
//  1. ReadWorkbook loads one worksheet into a Table (header row + rows).
//  2. The Resolve* functions locate the semantically required columns and
//     produce an immutable schema value. The export template fixes most
//     columns by ordinal position ("positional contract"); only the date
//     column is found by header name. Resolution is all-or-nothing.
//  3. The Clean* functions coerce cell values, drop rows that fail to
//     parse, and enforce strictly positive amounts, preserving row order.
//
// Row-level parse failures are counted in RowStats but never abort a run;
// schema failures abort the run with a SchemaError.
package ingest
