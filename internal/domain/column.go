package domain

// ColumnKind is the declared data type of a table column.
type ColumnKind string

const (
	KindText    ColumnKind = "text"
	KindNumeric ColumnKind = "numeric"
	KindInteger ColumnKind = "integer"
)

// IsNumeric reports whether values of this kind must parse as a number.
func (k ColumnKind) IsNumeric() bool {
	return k == KindNumeric || k == KindInteger
}
