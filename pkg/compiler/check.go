package compiler

// CheckDivZero reports the first division, in evaluation order, whose right
// operand is the literal 0. Divisors computed from other operators are not
// evaluated; those still fault at run time.
func CheckDivZero(e Expr) error {
	b, ok := e.(*BinaryExpr)
	if !ok {
		return nil
	}
	if err := CheckDivZero(b.Left); err != nil {
		return err
	}
	if err := CheckDivZero(b.Right); err != nil {
		return err
	}
	if b.Op == SLASH {
		if lit, ok := b.Right.(*Literal); ok && lit.Value == 0 {
			return &DivZeroError{Pos: b.Pos}
		}
	}
	return nil
}
