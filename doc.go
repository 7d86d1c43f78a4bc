// Package gnucash provides point-in-time valuation over a GnuCash-style
// double-entry ledger. It is designed to be read-only, exact, and
// stateless: every report is recomputed from the ledger snapshot it is
// given, never from cached aggregates.
//
// The core functionalities include:
//   - Ledger Snapshot: An immutable in-memory Book of accounts,
//     commodities, splits and price history, fetched once per request
//     through narrow store interfaces.
//   - Valuation Engine: A streaming fold of dated splits into net worth,
//     asset and liability series over arbitrary date grids, with security
//     prices and currency rates resolved as of each point.
//   - Holdings and Allocation: Per-account and consolidated investment
//     positions with cost basis and gain/loss, category allocation,
//     idle-cash detection and sector exposure.
//   - Income and Expense Flows: Proportional apportionment of income
//     sources across expense categories and savings for Sankey-style
//     reporting.
//   - Data Interchange: Encoding and decoding the ledger to and from a
//     human-readable JSONL book format, plus appending fresh price quotes.
//
// This package serves as the foundational logic for the `gwd` command-line
// tool, ensuring that all reports derive from a single ledger source of
// truth.
package gnucash
