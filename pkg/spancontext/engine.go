package spancontext

import "github.com/buildbarn/bb-event-log/pkg/hosttrace"

// FromExtensions extracts the Fragment a prior on_new_span call attached
// to a span's Extensions, panicking with hosttrace.PanicFragmentMissing
// if none is present. Every callback after on_new_span may assume one is
// there: attaching it is on_new_span's job alone.
func FromExtensions(ext *hosttrace.Extensions) *Fragment {
	f, ok := ext.Fragment.(*Fragment)
	if !ok || f == nil {
		panic(hosttrace.PanicFragmentMissing)
	}
	return f
}

// Current assembles the fragment for the span stack active on whatever
// goroutine is calling in: the concatenation, root to leaf, of every
// ancestor span's own fragment. It returns an empty fragment if there is
// no current span.
func Current(reg hosttrace.Registry) *Fragment {
	current, ok := reg.LookupCurrent()
	if !ok {
		return &Fragment{}
	}

	scope := current.Scope() // root-to-leaf, inclusive of current.
	if len(scope) == 0 {
		return &Fragment{}
	}

	stack := FromExtensions(scope[0].Extensions()).Clone()
	for _, s := range scope[1:] {
		stack.AppendChild(FromExtensions(s.Extensions()))
	}
	return stack
}

// BuildLeaveStack assembles the fragment for an event synthesized about
// innermost itself (SpanExit, SpanClose): every ancestor's fragment, with
// innermost's own fragment appended last. Unlike Current, this does not
// depend on innermost being registered as the "current" span, since
// on_exit/on_close may run after the registry has already moved current
// off of it.
func BuildLeaveStack(reg hosttrace.Registry, innermost hosttrace.SpanRef) *Fragment {
	scope := innermost.Scope() // root-to-leaf, inclusive of innermost.

	var stack *Fragment
	if len(scope) <= 1 {
		stack = &Fragment{}
	} else {
		stack = FromExtensions(scope[0].Extensions()).Clone()
		for _, s := range scope[1 : len(scope)-1] {
			stack.AppendChild(FromExtensions(s.Extensions()))
		}
	}
	stack.AppendChild(FromExtensions(innermost.Extensions()))
	return stack
}
