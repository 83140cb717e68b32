package ast

import "fmt"

// Val is a fully evaluated source-level value: either a 32-bit signed
// integer or a boolean. It is the value domain of both the interpreter and
// the constants the IR builder folds into immediates.
type Val struct {
	isBool bool
	Num    int32
	Bool   bool
}

// NewNum constructs an integer Val.
func NewNum(n int32) Val { return Val{Num: n} }

// NewBool constructs a boolean Val.
func NewBool(b bool) Val { return Val{isBool: true, Bool: b} }

// IsBool reports whether v holds a boolean rather than an integer.
func (v Val) IsBool() bool { return v.isBool }

func (v Val) String() string {
	if v.isBool {
		return fmt.Sprintf("%t", v.Bool)
	}
	return fmt.Sprintf("%d", v.Num)
}
