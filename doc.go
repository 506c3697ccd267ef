// Package valutatrade provides the core types and services of a console
// currency-trading simulator. It is designed to be local-first and
// transparent: every piece of state lives in plain JSON files that the
// user can read and version.
//
// The core functionalities include:
//   - Accounts: registering users and authenticating them against bcrypt
//     password hashes, with short-lived signed sessions for the CLI.
//   - Portfolios: per-user wallets holding fiat and crypto amounts, with
//     buy, sell, deposit and withdraw operations settled against a base
//     currency.
//   - Rate Cache: exchange rates keyed by ordered currency pair, with a
//     freshness window, inverse-pair resolution and a static fallback
//     table for offline use.
//   - Parser Service: fetching live rates from external providers
//     (CoinGecko, ExchangeRate-API), merging them into the cache and
//     recording every fetch in an append-only history.
//
// This package serves as the foundational logic for the `vtrade`
// command-line tool, ensuring that all operations are consistent and
// based on a single source of truth.
package valutatrade
