package models

// Direction tells whether a transaction or category adds to or subtracts from a book.
type Direction string

const (
	DirectionIncome   Direction = "income"
	DirectionSpending Direction = "spending"
)

// Valid reports whether d is one of the known directions.
func (d Direction) Valid() bool {
	return d == DirectionIncome || d == DirectionSpending
}
