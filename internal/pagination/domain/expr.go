package domain

// Expr es un nodo del árbol de expresiones que construye el motor.
// Cada store lo traduce a su propio lenguaje (SQL, $expr de Mongo, evaluación en memoria).
type Expr interface {
	isExpr()
}

// CompareOp es el operador de una Comparison.
type CompareOp int

const (
	CmpEq CompareOp = iota
	CmpNe
	CmpGt
	CmpGte
	CmpLt
	CmpLte
	// CmpContains es una búsqueda de subcadena sin distinguir mayúsculas.
	CmpContains
)

func (op CompareOp) String() string {
	switch op {
	case CmpEq:
		return "="
	case CmpNe:
		return "<>"
	case CmpGt:
		return ">"
	case CmpGte:
		return ">="
	case CmpLt:
		return "<"
	case CmpLte:
		return "<="
	case CmpContains:
		return "CONTAINS"
	}
	return "?"
}

// LogicalOperator combina varios predicados.
type LogicalOperator string

const (
	OpAnd LogicalOperator = "AND"
	OpOr  LogicalOperator = "OR"
)

// DatePart es la parte de una fecha extraída en el store.
type DatePart string

const (
	PartDay   DatePart = "day"
	PartMonth DatePart = "month"
	PartYear  DatePart = "year"
)

// FieldRef referencia un campo resuelto de la entidad.
type FieldRef struct {
	Field *Field
}

// Literal es un valor constante ya convertido.
type Literal struct {
	Value any
}

// Comparison produce un booleano a partir de dos operandos.
type Comparison struct {
	Op          CompareOp
	Left, Right Expr
}

// Logical combina predicados con AND u OR.
type Logical struct {
	Op    LogicalOperator
	Terms []Expr
}

// BoolConst es un predicado constante.
type BoolConst bool

// DatePartOf extrae día, mes o año como número.
type DatePartOf struct {
	Part DatePart
	Arg  Expr
}

// ToDecimal convierte un valor numérico en decimal.
type ToDecimal struct {
	Arg Expr
}

// StringConvert convierte un número en texto alineado a la derecha con ancho Length,
// redondeado a entero.
type StringConvert struct {
	Arg    Expr
	Length int
}

// Trim elimina los espacios de ambos extremos.
type Trim struct {
	Arg Expr
}

// Concat concatena textos.
type Concat struct {
	Parts []Expr
}

// Right devuelve los últimos Length caracteres.
type Right struct {
	Arg    Expr
	Length int
}

func (FieldRef) isExpr()      {}
func (Literal) isExpr()       {}
func (Comparison) isExpr()    {}
func (Logical) isExpr()       {}
func (BoolConst) isExpr()     {}
func (DatePartOf) isExpr()    {}
func (ToDecimal) isExpr()     {}
func (StringConvert) isExpr() {}
func (Trim) isExpr()          {}
func (Concat) isExpr()        {}
func (Right) isExpr()         {}

// ---------------- Helpers ----------------

// And crea un Logical con operador AND
func And(terms ...Expr) Logical {
	return Logical{Op: OpAnd, Terms: terms}
}

// Or crea un Logical con operador OR
func Or(terms ...Expr) Logical {
	return Logical{Op: OpOr, Terms: terms}
}

// OrderKey es una clave de ordenación ya resuelta.
type OrderKey struct {
	Field      *Field
	Descending bool
}
