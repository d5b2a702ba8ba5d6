package model

// AllModels returns every table-backed model for migration.
// New tables only need to be added here, not in main.go.
func AllModels() []interface{} {
	return []interface{}{
		&Coin{},
		&MemberWallet{},
		&Deposit{},
		&WithdrawRecord{},
		&MemberTransaction{},
	}
}
