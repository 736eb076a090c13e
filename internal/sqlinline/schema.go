package sqlinline

import _ "embed"

// Schema creates the ledger tables. It is idempotent.
//
//go:embed schema.sql
var Schema string
