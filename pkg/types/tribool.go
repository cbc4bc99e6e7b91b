package types

// TriBool is SQL's three-valued boolean: the result of any comparison or
// boolean combination involving NULL is Unknown rather than true or false.
// Filter boundaries fold Unknown to "row excluded".
type TriBool int

const (
	Unknown TriBool = iota
	True
	False
)

func (b TriBool) String() string {
	switch b {
	case True:
		return "TRUE"
	case False:
		return "FALSE"
	default:
		return "UNKNOWN"
	}
}

// TriBoolOf lifts a native boolean into three-valued logic.
func TriBoolOf(v bool) TriBool {
	if v {
		return True
	}
	return False
}

// Passes folds three-valued logic at a filter boundary:
// only True admits the row, both False and Unknown exclude it.
func (b TriBool) Passes() bool {
	return b == True
}

// And implements Kleene conjunction. False dominates Unknown.
func (b TriBool) And(other TriBool) TriBool {
	switch {
	case b == False || other == False:
		return False
	case b == True && other == True:
		return True
	default:
		return Unknown
	}
}

// Or implements Kleene disjunction. True dominates Unknown.
func (b TriBool) Or(other TriBool) TriBool {
	switch {
	case b == True || other == True:
		return True
	case b == False && other == False:
		return False
	default:
		return Unknown
	}
}

// Not negates, leaving Unknown untouched.
func (b TriBool) Not() TriBool {
	switch b {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}
