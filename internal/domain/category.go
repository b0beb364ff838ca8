package domain

// Direction classifies a category (and its transactions) as money coming in or
// going out.
type Direction string

const (
	DirectionIncome  Direction = "income"
	DirectionOutcome Direction = "outcome"
)

// DirectionFromIncome maps the wire representation (isIncome bool) to a Direction.
func DirectionFromIncome(isIncome bool) Direction {
	if isIncome {
		return DirectionIncome
	}
	return DirectionOutcome
}

// IsIncome reports the wire representation of the direction.
func (d Direction) IsIncome() bool {
	return d == DirectionIncome
}

// Valid reports whether the direction is one of the two known values.
func (d Direction) Valid() bool {
	return d == DirectionIncome || d == DirectionOutcome
}

// Category represents a transaction category.
type Category struct {
	ID        int64
	Name      string
	Emoji     string // single display character
	Direction Direction
}
