package stack

// A generic stack with the top at the end of the slice. Minnow uses it for
// the scope stacks of the typechecker and the evaluator, which besides
// pushing and popping need to walk from the innermost scope outwards:
// At(0) is the top of the stack, At(Len()-1) the bottom.
type Stack[T any] struct {
	vals []T
}

func NewStack[T any]() *Stack[T] { return &Stack[T]{vals: []T{}} }

func (s *Stack[T]) Push(val T) {
	s.vals = append(s.vals, val)
}

func (s *Stack[T]) Pop() (T, bool) {
	if len(s.vals) == 0 {
		var zero T
		return zero, false
	}
	top := s.vals[len(s.vals)-1]
	s.vals = s.vals[:len(s.vals)-1]
	return top, true
}

func (s *Stack[T]) HeadValue() (T, bool) {
	if len(s.vals) == 0 {
		var zero T
		return zero, false
	}
	top := s.vals[len(s.vals)-1]
	return top, true
}

func (s *Stack[T]) Len() int {
	return len(s.vals)
}

// At indexes the stack from the top down.
func (s *Stack[T]) At(depth int) (T, bool) {
	if depth < 0 || depth >= len(s.vals) {
		var zero T
		return zero, false
	}
	return s.vals[len(s.vals)-1-depth], true
}
