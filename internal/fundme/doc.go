// Package fundme implements the FundMe crowdfunding ledger: contributions gated
// by an oracle-converted USD minimum, and an owner-only sweep that resets the
// ledger before moving any value out.
//
// Every mutating call runs as one atomic frame under the contract lock. The
// outgoing transfer during a withdrawal may call back into the contract; such
// calls carry the frame in their context and execute inside it. A failed frame
// restores the state captured when it began.
package fundme
