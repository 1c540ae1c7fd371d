package shapekit

// maxTensorDepth bounds recursion. Reaching it ends the whole walk, so
// self-referencing slices cannot hang a check in either mode.
const maxTensorDepth = 1024

// TensorRule is the numeric tensor shape rule. The zero value accepts any
// rank under the uniform depth policy.
type TensorRule struct {
	Policy TensorPolicy
	// Rank, when positive, fixes the nesting depth: 1 for a vector, 2 for a
	// matrix and so on. Sequences made only of empty sequences match any rank
	// at least as deep as themselves.
	Rank int
}

// Tensor is a value that passed a tensor check. It wraps the original value
// without copying it.
type Tensor struct {
	value any
	rank  int
}

// Value returns the checked value as it was passed in.
func (t Tensor) Value() any { return t.value }

// Rank returns the nesting depth. For tensors that contain no numbers at all
// it is the smallest depth consistent with the value ([] -> 1, [[]] -> 2).
func (t Tensor) Rank() int { return t.rank }

// Len returns the number of top-level elements.
func (t Tensor) Len() int {
	s, _ := asSequence(t.value)
	return s.Len()
}

// Flatten returns every leaf in depth-first order.
func (t Tensor) Flatten() []float64 {
	var out []float64
	var walk func(v any)
	walk = func(v any) {
		if f, ok := numberValue(v); ok {
			out = append(out, f)
			return
		}
		s, _ := asSequence(v)
		for i := 0; i < s.Len(); i++ {
			walk(s.At(i))
		}
	}
	walk(t.value)
	return out
}

// IsNumericTensor reports whether v is a sequence (of any depth) whose leaves
// are all numbers. Empty sequences are valid at every level; a bare number is
// not a tensor. Siblings must share one nesting depth.
func IsNumericTensor(v any) bool {
	return IsTensor(v, TensorRule{})
}

// IsTensor is IsNumericTensor with an explicit rule.
func IsTensor(v any, rule TensorRule) bool {
	_, ok := AsTensor(v, rule)
	return ok
}

// AsTensor narrows v to a Tensor when it satisfies rule.
func AsTensor(v any, rule TensorRule) (Tensor, bool) {
	w := tensorWalker{policy: rule.Policy, failFast: true}
	rank, ok := w.check(v, rule.Rank, PathRef{})
	if !ok {
		return Tensor{}, false
	}
	return Tensor{value: v, rank: rank}, true
}

// CheckTensor reports why v does not satisfy rule. The result is empty exactly
// when IsTensor returns true.
func CheckTensor(v any, rule TensorRule) Issues {
	w := tensorWalker{policy: rule.Policy}
	w.check(v, rule.Rank, PathRef{})
	return w.issues
}

type tensorWalker struct {
	policy   TensorPolicy
	failFast bool
	aborted  bool // too_deep was reported
	issues   Issues
}

func (w *tensorWalker) report(is Issue) {
	w.issues = append(w.issues, is)
}

func (w *tensorWalker) stop() bool {
	return w.aborted || (w.failFast && len(w.issues) > 0)
}

func (w *tensorWalker) check(v any, rank int, root PathRef) (int, bool) {
	if _, ok := asSequence(v); !ok {
		w.report(root.Issue(CodeInvalidType, "expected", "sequence"))
		return 0, false
	}
	depth, exact := w.walk(v, root, 0)
	if len(w.issues) > 0 {
		return 0, false
	}
	if rank > 0 && (depth > rank || (exact && depth != rank)) {
		w.report(root.Issue(CodeRankMismatch, "expected", rank, "got", depth))
		return 0, false
	}
	if rank > 0 && !exact {
		depth = rank
	}
	return depth, true
}

// walk returns the nesting depth of v. exact is false when v holds no numbers,
// in which case depth is the minimum depth v could have.
func (w *tensorWalker) walk(v any, at PathRef, level int) (depth int, exact bool) {
	if isNumber(v) {
		return 0, true
	}
	s, ok := asSequence(v)
	if !ok {
		w.report(at.Issue(CodeInvalidType, "expected", "number"))
		return 0, false
	}
	if level >= maxTensorDepth {
		w.report(at.Issue(CodeTooDeep, "max", maxTensorDepth))
		w.aborted = true
		return 0, false
	}
	known := -1  // exact depth shared by siblings, once one is seen
	floor := 0   // deepest minimum among number-free siblings
	deepest := 0 // loose policy: depth of the deepest sibling
	for i := 0; i < s.Len(); i++ {
		child := at.Index(i)
		d, ex := w.walk(s.At(i), child, level+1)
		if w.stop() {
			return 0, false
		}
		if w.policy == TensorLoose {
			if d > deepest {
				deepest = d
			}
			exact = exact || ex
			continue
		}
		switch {
		case !ex:
			floor = max(floor, d)
		case known < 0:
			known = d
		case d != known:
			w.report(child.Issue(CodeDepthMismatch, "expected", known, "got", d))
			if w.stop() {
				return 0, false
			}
		}
	}
	if w.policy == TensorLoose {
		return deepest + 1, exact
	}
	if known >= 0 {
		if floor > known {
			w.report(at.Issue(CodeDepthMismatch, "expected", known, "got", floor))
		}
		return known + 1, true
	}
	return floor + 1, false
}
