// Package chaincfg carries the per-network constants the dual-chain
// ledger is parameterized by: genesis seeding, validator-era sizing,
// and the handful of knobs that differ between a production network
// and a test harness. Modeled on the teacher's own chaincfg package
// (one exported *Params-returning function per network, built from a
// handful of literal constants, rather than a config file format).
package chaincfg

import "github.com/purplecoin/pcore/transactions"

// Params bundles the constants a dual-chain node needs to seed and
// operate a network. Unlike the teacher's Params (which also carries
// wire-protocol magic numbers, DNS seeds, and PoW limits out of scope
// here), this carries only genesis seeding and a few sizing constants.
type Params struct {
	// Name identifies the network for logging and peer handshakes.
	Name string

	// PrefundedAccounts seeds non-coinbase balances at genesis.
	PrefundedAccounts []transactions.PrefundedAccount

	// ValidatorEraLength is the number of hard-chain blocks a single
	// validator-pool era spans before it must be closed (all allocated
	// events consumed, or declared corrupt) before the hard chain may
	// advance past it.
	ValidatorEraLength uint64

	// MaxEasyBlocksPerHardBlock bounds how long a contiguous easy-chain
	// suffix a single hard block may summarize. The chain package's
	// easy-segment check does not read it.
	MaxEasyBlocksPerHardBlock uint64
}

// MainNetParams returns the production network's parameters: no
// pre-funded accounts (the entire initial supply starts in the
// coinbase entry), a 2048-block validator era, and a 128-block easy
// segment cap per hard block.
func MainNetParams() *Params {
	return &Params{
		Name:                      "mainnet",
		PrefundedAccounts:         nil,
		ValidatorEraLength:        2048,
		MaxEasyBlocksPerHardBlock: 128,
	}
}

// TestNetParams returns parameters sized for fast-moving test
// harnesses: a short validator era and easy segment cap, so tests can
// exercise era-closing and range-overflow behavior without needing
// thousands of blocks.
func TestNetParams() *Params {
	return &Params{
		Name:                      "testnet",
		PrefundedAccounts:         nil,
		ValidatorEraLength:        4,
		MaxEasyBlocksPerHardBlock: 8,
	}
}
