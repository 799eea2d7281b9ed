// Package folio tracks stock portfolios as time-ordered sets of signed share
// transactions and values them against a daily price source.
//
// The core functionalities include:
//   - Price resolution: a Historian answers price queries for arbitrary dates
//     with market calendar semantics, telling apart weekends, holidays, dates
//     before the IPO, after a delisting, or in the future.
//   - Ledger management: named portfolios whose transactions are validated
//     when added, combined per ticker and day, and whose sales must always be
//     covered by the shares held on that day.
//   - Recurring investments: dollar-cost-averaging portfolios whose purchases
//     are derived on demand from a schedule and the price source.
//   - Sampling: price and value time series at a daily, weekly, monthly or
//     yearly cadence.
//   - Persistence: one flat "ticker,quantity,date" transaction log per portfolio.
//
// Prices come from a PriceSource, see the eodhd package for a real one, and
// the pricecache and metrics packages for decorators.
//
// This package serves as the foundational logic for the `stk` command-line tool.
package folio
