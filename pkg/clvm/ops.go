package clvm

import "fmt"

// Operator opcodes understood by the Runner.
const (
	opQ      byte = 0x01 // quote
	opA      byte = 0x02 // apply
	opI      byte = 0x03 // if
	opC      byte = 0x04 // cons
	opF      byte = 0x05 // first
	opR      byte = 0x06 // rest
	opL      byte = 0x07 // listp
	opX      byte = 0x08 // raise
	opEq     byte = 0x09
	opSha256 byte = 0x0b
	opStrlen byte = 0x0d
	opConcat byte = 0x0e
	opAdd    byte = 0x10
	opSub    byte = 0x11
	opGr     byte = 0x15
	opNot    byte = 0x20
	opAny    byte = 0x21
	opAll    byte = 0x22
)

// Costs, in abstract units, charged per operator.
const (
	costQuote       = 20
	costApply       = 90
	costIf          = 33
	costCons        = 50
	costFirst       = 30
	costRest        = 30
	costListp       = 19
	costEqBase      = 117
	costEqPerByte   = 1
	costShaBase     = 87
	costShaPerArg   = 134
	costShaPerByte  = 2
	costStrlenBase  = 173
	costStrlenByte  = 1
	costConcatBase  = 142
	costConcatArg   = 135
	costConcatByte  = 3
	costArithBase   = 99
	costArithPerArg = 320
	costArithByte   = 3
	costGrBase      = 498
	costGrPerByte   = 2
	costBoolBase    = 200
	costBoolPerArg  = 300
	costPathBase    = 40
	costPathPerBit  = 4
	costMallocByte  = 10
)

var opNames = map[byte]string{
	opQ: "q", opA: "a", opI: "i", opC: "c", opF: "f", opR: "r", opL: "l",
	opX: "x", opEq: "=", opSha256: "sha256", opStrlen: "strlen",
	opConcat: "concat", opAdd: "+", opSub: "-", opGr: ">",
	opNot: "not", opAny: "any", opAll: "all",
}

func opName(op []byte) string {
	if len(op) == 1 {
		if name, ok := opNames[op[0]]; ok {
			return name
		}
	}
	return fmt.Sprintf("0x%x", op)
}
