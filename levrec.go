// Package levrec validates Swedish supplier-invoice bookkeeping by
// reconciling the two sides of each liability: the voucher that records an
// invoice against the accounts-payable account and the voucher that clears
// it through the bank account.
//
// The pipeline has three stages, each a package of its own:
//
//	sie      decodes a SIE type-4 export into typed vouchers
//	classify derives receipt, clearing and correction events from vouchers
//	match    pairs receipts with clearings and assembles one case per row
//
// Data flows strictly forward; the matcher is the only stateful stage.
// All thresholds and account numbers live in a single Config value that is
// threaded through every stage, so two runs on the same input always
// produce identical output.
package levrec

import "github.com/shopspring/decimal"

// Default account numbers from the BAS chart of accounts.
const (
	DefaultAPAccount   = "2440" // Leverantörsskulder
	DefaultBankAccount = "1930" // Företagskonto
)

// DefaultMaxDays is the default receipt-to-clearing window.
const DefaultMaxDays = 120

// Config carries every tunable the pipeline consults. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	// APAccount is the accounts-payable account (Leverantörsskulder).
	APAccount string

	// BankAccount is the corporate bank account (Företagskonto).
	BankAccount string

	// MaxDays is the maximum number of days a clearing may follow its
	// receipt and still be considered a match.
	MaxDays int

	// AmountTolerance is the absolute tolerance used for every amount
	// equality check, including the voucher balance check.
	AmountTolerance decimal.Decimal

	// TargetYear selects which vouchers participate in a matching run and
	// which correction pairs are excluded. Required when matching.
	TargetYear int
}

// DefaultConfig returns the configuration used when no overrides are given.
func DefaultConfig() Config {
	return Config{
		APAccount:       DefaultAPAccount,
		BankAccount:     DefaultBankAccount,
		MaxDays:         DefaultMaxDays,
		AmountTolerance: decimal.New(5, -3), // 0.005
	}
}

// SameAmount reports whether two amounts are equal within the configured
// tolerance.
func (c Config) SameAmount(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(c.AmountTolerance)
}

// Negligible reports whether an amount is zero within the configured
// tolerance.
func (c Config) Negligible(a decimal.Decimal) bool {
	return a.Abs().LessThanOrEqual(c.AmountTolerance)
}
