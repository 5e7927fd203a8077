package data

// Types describes the runtime type of an evaluation result as a string.
type Types string

// The result types reported by EvaluatorResponse implementations.
const (
	BOOL     Types = "bool"
	ERROR    Types = "error"
	FUNCTION Types = "function"
	INT      Types = "int"
	MAP      Types = "map"
	STRING   Types = "string"
	NONE     Types = "none"
	FLOAT    Types = "float"
	LIST     Types = "list"
	TUPLE    Types = "tuple"
	SET      Types = "set"
	STRUCT   Types = "struct"
)
