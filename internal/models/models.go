// Package models defines the gorm models persisted by the cashbook service.
package models

// All returns every model in dependency order, for schema creation.
func All() []interface{} {
	return []interface{}{
		&Book{},
		&BankAccount{},
		&BankAccountBalance{},
		&Category{},
		&Transaction{},
		&AuditLog{},
	}
}
