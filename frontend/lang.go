package frontend

// reservedItem pairs a keyword spelling with its token type, exactly the
// shape of the teacher's own reservedItem in src/frontend/lang.go.
type reservedItem struct {
	val string
	typ itemType
}

// rw contains the set of all reserved Simply keywords, indexed by word
// length (first dimension) the same way the teacher's table is: indexing
// by length before scanning the (short) slice of same-length words is
// faster than a hash table for a set this small.
var rw = [...][]reservedItem{
	// One-grams
	{},
	// Two-grams
	{
		{val: "in", typ: IN},
		{val: "if", typ: IF},
	},
	// Three-grams
	{
		{val: "def", typ: DEF},
		{val: "let", typ: LET},
		{val: "fix", typ: FIX},
		{val: "Int", typ: KINT},
	},
	// Four-grams
	{
		{val: "then", typ: THEN},
		{val: "else", typ: ELSE},
		{val: "true", typ: TRUE},
		{val: "Bool", typ: KBOOL},
	},
	// Five-grams
	{
		{val: "false", typ: FALSE},
	},
}

// isKeyword reports whether s is a reserved Simply keyword, returning its
// itemType if so.
func isKeyword(s string) (bool, itemType) {
	if len(s) == 0 || len(s) > len(rw) {
		return false, IDENTIFIER
	}
	for _, e := range rw[len(s)-1] {
		if e.val == s {
			return true, e.typ
		}
	}
	return false, IDENTIFIER
}
