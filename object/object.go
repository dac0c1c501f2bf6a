package object

import (
	"strconv"

	"github.com/tim-hardcastle/Minnow/text"
	"github.com/tim-hardcastle/Minnow/token"
)

type ObjectType string

const (
	ERROR_OBJ = "error"

	INTEGER_OBJ = "int"
	FLOAT_OBJ   = "float"
	STRING_OBJ  = "string"
	BOOLEAN_OBJ = "bool"
	VOID_OBJ    = "void"
)

type Object interface {
	Type() ObjectType
	Inspect() string
}

type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }

type Float struct {
	Value float64
}

func (f *Float) Type() ObjectType { return FLOAT_OBJ }
func (f *Float) Inspect() string  { return strconv.FormatFloat(f.Value, 'f', -1, 64) }

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

// Void stands in wherever an expression produced no value: the result of
// calling a void function, or of the whole program when main is void.
type Void struct{}

func (v *Void) Type() ObjectType { return VOID_OBJ }
func (v *Void) Inspect() string  { return "void" }

var (
	VOID  = &Void{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

func MakeBool(b bool) *Boolean {
	if b {
		return TRUE
	}
	return FALSE
}

func EmphValue(o Object) string {
	if o.Type() == STRING_OBJ {
		return text.Emph("\"" + o.Inspect() + "\"")
	}
	return text.Emph(o.Inspect())
}

type Error struct {
	ErrorId string
	Message string
	Info    []any
	Token   token.Token
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string  { return text.ERROR + e.Message }

// HasLocation reports whether the error points at a place in the source.
// Execution errors happen after static checking and are span-less by
// construction.
func (e *Error) HasLocation() bool {
	return len(e.ErrorId) < 5 || e.ErrorId[:5] != "eval/"
}
