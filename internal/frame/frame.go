// Package frame implements the call frame / call stack (spec component
// J): one Frame per active function invocation, holding the live
// argument-slot storage the Arguments object's parameter map links
// into, plus overflow-checked push/pop tracking for stack depth.
//
// Grounded on the teacher's internal/interp/runtime.CallStack (a
// depth-limited slice of frames with Push/Pop/Current/overflow
// detection); this package keeps that shape but replaces its
// errors.StackFrame (name/file/position, used for DWScript stack
// traces) with the live argument-slot storage ES5's Arguments object
// parameter linking needs, since that's the one thing about a call
// frame the rest of the runtime actually reaches into during execution
// rather than only on error reporting.
package frame

import (
	"fmt"

	"github.com/cwbudde/esrt/internal/env"
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/value"
)

// Frame is one function activation record.
type Frame struct {
	FunctionName string
	This         value.Value
	// Args is the live storage backing this call's positional
	// arguments; the Arguments object links into it by index (spec
	// §4.J) so that in non-strict code, writing `arguments[i]` and
	// reassigning the i'th formal parameter are the same storage.
	Args []value.Value
	Vars *env.Environment
}

// DefaultMaxDepth mirrors the teacher's default call-stack depth; ES5
// doesn't mandate a specific limit, only that implementations throw
// RangeError on stack exhaustion (§15.11.6.2), so reusing the teacher's
// number keeps behavior observable and finite without inventing a new
// constant.
const DefaultMaxDepth = 1024

// Stack is the call stack: one Frame per nested function invocation.
type Stack struct {
	frames   []*Frame
	maxDepth int
}

// NewStack creates a call stack with the given maximum depth (<=0 picks
// DefaultMaxDepth).
func NewStack(maxDepth int) *Stack {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Stack{maxDepth: maxDepth}
}

// Push enters f as the new top frame, failing with an overflow error
// that the evaluator's call dispatch turns into a script-facing
// RangeError.
func (s *Stack) Push(f *Frame) error {
	if len(s.frames) >= s.maxDepth {
		return fmt.Errorf("frame: maximum call stack size (%d) exceeded in %q", s.maxDepth, f.FunctionName)
	}
	s.frames = append(s.frames, f)
	return nil
}

// Pop exits the current frame.
func (s *Stack) Pop() {
	if len(s.frames) > 0 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Current returns the top frame, or nil if the stack is empty (global
// code, outside any function call).
func (s *Stack) Current() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// Depth returns the number of frames currently on the stack.
func (s *Stack) Depth() int { return len(s.frames) }

// WillOverflow reports whether pushing one more frame would exceed the
// configured maximum depth, letting the evaluator check before doing any
// other call setup work.
func (s *Stack) WillOverflow() bool { return len(s.frames) >= s.maxDepth }

// MaterializeArguments builds the Arguments object for a call, linking
// each non-strict positional parameter to f.Args by index. Per the
// spec's §4 supplement (grounded on original_source/runtime/object.cc's
// EsArguments), when two formal parameters share a name only the last
// occurrence is linked — earlier ones are shadowed and therefore
// omitted from links. Strict-mode functions get an unlinked Arguments
// object (ES5 §10.6): links is always nil in that case.
func MaterializeArguments(h *object.Heap, proto value.Value, f *Frame, paramNames []string, strict bool) value.Value {
	var links map[uint32]*value.Value
	if !strict {
		links = make(map[uint32]*value.Value, len(paramNames))
		for i, name := range paramNames {
			if name == "" || i >= len(f.Args) {
				continue
			}
			shadowedLater := false
			for j := i + 1; j < len(paramNames); j++ {
				if paramNames[j] == name {
					shadowedLater = true
					break
				}
			}
			if !shadowedLater {
				links[uint32(i)] = &f.Args[i]
			}
		}
	}
	return h.NewArguments(proto, f.Args, links)
}
