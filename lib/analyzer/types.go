package analyzer

// Type is the coarse value category tracked for variables and function
// results.
type Type int

const (
	Any Type = iota
	Numeric
	String
	Array
)

func (t Type) String() string {
	switch t {
	case Numeric:
		return "Numeric"
	case String:
		return "String"
	case Array:
		return "Array"
	}
	return "Any"
}
