package ledger

import (
	"fmt"

	"github.com/google/uuid"
)

// AccountScope represents the top-level account namespace
type AccountScope uint8

const (
	AccountScopeUser AccountScope = iota
	AccountScopeSystem
	AccountScopeExternal
)

// CurrencyID maps currency symbols to numeric IDs for performance
type CurrencyID uint16

var (
	currencyToID = map[string]CurrencyID{
		"DNAR":   1, // native protocol token
		"SETUSD": 2, // standard (stable) currency
		"DOT":    3,
		"RENBTC": 4,
	}
	idToCurrency = map[CurrencyID]string{
		1: "DNAR",
		2: "SETUSD",
		3: "DOT",
		4: "RENBTC",
	}
)

// Fixed roles within the currency set.
const (
	NativeCurrency   CurrencyID = 1
	StandardCurrency CurrencyID = 2
)

func GetCurrencyID(symbol string) (CurrencyID, bool) {
	id, ok := currencyToID[symbol]
	return id, ok
}

func GetCurrencySymbol(id CurrencyID) (string, bool) {
	symbol, ok := idToCurrency[id]
	return symbol, ok
}

// ReserveCurrencies returns the currencies accepted as auctionable collateral.
func ReserveCurrencies() []CurrencyID {
	return []CurrencyID{3, 4}
}

// AccountKey is the in-memory key for balance tracking
type AccountKey struct {
	Scope    AccountScope
	EntityID [16]byte // UUID for users, padded name for system accounts
	Currency CurrencyID
}

// NewUserAccountKey creates a key for bidder/recipient accounts
func NewUserAccountKey(accountID uuid.UUID, currency CurrencyID) AccountKey {
	return AccountKey{
		Scope:    AccountScopeUser,
		EntityID: accountID,
		Currency: currency,
	}
}

// NewSystemAccountKey creates a key for protocol-owned pools
func NewSystemAccountKey(name string, currency CurrencyID) AccountKey {
	var entityID [16]byte
	copy(entityID[:], []byte(name))
	return AccountKey{
		Scope:    AccountScopeSystem,
		EntityID: entityID,
		Currency: currency,
	}
}

// IssuanceAccountKey is the external boundary account that mints and burns
// balance against. It is the only account allowed to go negative: its balance
// is minus the circulating issuance of the currency.
func IssuanceAccountKey(currency CurrencyID) AccountKey {
	var entityID [16]byte
	copy(entityID[:], []byte("issuance"))
	return AccountKey{
		Scope:    AccountScopeExternal,
		EntityID: entityID,
		Currency: currency,
	}
}

// AccountPath returns the string representation for storage/logging
func (k AccountKey) AccountPath() string {
	symbol, _ := GetCurrencySymbol(k.Currency)

	switch k.Scope {
	case AccountScopeUser:
		uid := uuid.UUID(k.EntityID)
		return fmt.Sprintf("user:%s:%s", uid.String(), symbol)
	case AccountScopeSystem:
		return fmt.Sprintf("system:%s:%s", entityName(k.EntityID), symbol)
	case AccountScopeExternal:
		return fmt.Sprintf("external:%s:%s", entityName(k.EntityID), symbol)
	}
	return "unknown"
}

func entityName(id [16]byte) string {
	n := 0
	for n < len(id) && id[n] != 0 {
		n++
	}
	return string(id[:n])
}
