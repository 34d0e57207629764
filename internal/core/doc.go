// Package core parses GENESIS statistical table exports into typed tables.
//
// A GENESIS "datencsv" export is not a plain CSV file. It carries a free-text
// preamble, one or more header rows that together describe a column
// hierarchy, the data body and a trailing footnote block:
//
//	Statistik der Geburten
//	Lebendgeborene: Deutschland, Jahre, Geschlecht
//	;2020;2020
//	;männlich;weiblich
//	Deutschland;396007;377137
//	__________
//	(C)opyright Statistisches Bundesamt (Destatis), 2021
//
// # Pipeline
//
// [Parse] runs four stages, each consuming the previous one's output:
//
//  1. [ScanRegions] finds the header block (lines starting with ';') and the
//     first data line after it. Everything before the header is discarded.
//  2. [AssembleHeader] forward-fills each header row and joins the rows
//     column by column, giving "2020.männlich". Columns that never receive
//     header content are named "index.0", "index.1", ...
//  3. [BuildTable] splits data lines on ';', converts "1234,5" to a number and
//     the configured placeholder tokens to missing cells.
//  4. The footnote block, starting at the last line whose first field begins
//     with "___", is dropped. [TrimFooter] applies the same rule to a built
//     [Table].
//
// # Cells
//
// Each [Cell] is a tagged variant: string, int, float or missing. The raw
// field text is kept on every cell.
//
// # Errors
//
// Parsing is all-or-nothing. Failures match one of [ErrNoHeaderFound],
// [ErrNoDataFound], [ErrTooManyHeaderRowsSkipped], [ErrEmptyHeaderBlock] or
// [ErrMalformedRow] with errors.Is; [SkipHeaderRowsError] and
// [MalformedRowError] carry the details. [MapError] turns any error into a
// coded [UserMessage].
package core
