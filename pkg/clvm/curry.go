package clvm

var (
	opQuote = Atom([]byte{opQ})
	opApply = Atom([]byte{opA})
	opCons  = Atom([]byte{opC})
	envAtom = Atom([]byte{1})
)

// Curry binds args to mod, producing
// (a (q . mod) (c (q . arg1) (c (q . arg2) ... 1))).
// Running the result with solution S runs mod with (arg1 arg2 ... . S).
func Curry(mod *Node, args ...*Node) *Node {
	env := envAtom
	for i := len(args) - 1; i >= 0; i-- {
		env = List(opCons, Quote(args[i]), env)
	}
	return List(opApply, Quote(mod), env)
}

// Uncurry splits a curried program into its mod and arguments. It returns
// ok=false when the program does not have the curried shape.
func Uncurry(prog *Node) (mod *Node, args []*Node, ok bool) {
	items, err := prog.Items()
	if err != nil || len(items) != 3 || !isOp(items[0], opA) {
		return nil, nil, false
	}
	mod, ok = unquote(items[1])
	if !ok {
		return nil, nil, false
	}
	env := items[2]
	for {
		if env.IsAtom() {
			if !isOp(env, 1) {
				return nil, nil, false
			}
			return mod, args, true
		}
		parts, err := env.Items()
		if err != nil || len(parts) != 3 || !isOp(parts[0], opC) {
			return nil, nil, false
		}
		arg, ok := unquote(parts[1])
		if !ok {
			return nil, nil, false
		}
		args = append(args, arg)
		env = parts[2]
	}
}

func unquote(n *Node) (*Node, bool) {
	if n.IsPair() && isOp(n.first, opQ) {
		return n.rest, true
	}
	return nil, false
}

func isOp(n *Node, op byte) bool {
	return n.IsAtom() && len(n.atom) == 1 && n.atom[0] == op
}
