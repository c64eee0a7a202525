package transactions

import (
	"errors"

	"github.com/purplecoin/pcore/account"
	"github.com/purplecoin/pcore/crypto"
	"github.com/purplecoin/pcore/trie"
)

// MainCurrencyName is the seed string the main currency's asset hash is
// derived from.
const MainCurrencyName = "purple"

// CoinSupply is the total initial supply of the main currency, recorded
// unissued under the coinbase key until Mint transactions draw it down.
const CoinSupply = 500000000

// MainCurrencyHash is the main currency's asset hash, hash_slice of
// MainCurrencyName.
var MainCurrencyHash = crypto.HashSlice([]byte(MainCurrencyName))

// ErrGenesisAlreadyApplied signifies an attempt to apply genesis state
// to a trie that already has entries under it.
var ErrGenesisAlreadyApplied = errors.New("transactions: genesis already applied to this trie")

// PrefundedAccount seeds an account with an initial balance of the main
// currency at genesis.
type PrefundedAccount struct {
	Address account.Address
	Balance account.Balance
}

// ApplyGenesis seeds tr with the main currency's coinbase supply and
// any pre-funded accounts. The sum of prefunded balances must not
// exceed CoinSupply. Re-applying genesis to a trie that already has a
// coinbase entry for the main currency is a fatal error: genesis is a
// one-time seed, not an idempotent operation.
func ApplyGenesis(tr *trie.Trie, prefunded []PrefundedAccount) error {
	if _, ok, err := tr.Get(coinbaseKey(MainCurrencyHash)); err != nil {
		return err
	} else if ok {
		return ErrGenesisAlreadyApplied
	}

	remaining := account.NewBalanceFromUint64(CoinSupply)
	for _, p := range prefunded {
		remaining.Sub(p.Balance)
		if remaining.LessThanZero() {
			return errors.New("transactions: prefunded balances exceed coin supply")
		}
		if err := putNonce(tr, p.Address, 0); err != nil {
			return err
		}
		if err := tr.Insert(addressMappingKey(p.Address), p.Address.Bytes()); err != nil {
			return err
		}
		if err := putBalance(tr, p.Address, MainCurrencyHash, p.Balance); err != nil {
			return err
		}
	}

	return tr.Insert(coinbaseKey(MainCurrencyHash), remaining.Bytes())
}
