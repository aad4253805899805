package spancontext_test

import (
	"testing"

	"github.com/buildbarn/bb-event-log/pkg/hosttrace"
	"github.com/buildbarn/bb-event-log/pkg/spancontext"
	"github.com/stretchr/testify/require"
)

// fakeSpan is a minimal hosttrace.SpanRef backed by a slice of ancestors,
// root first, for exercising Current and BuildLeaveStack without a real
// host registry.
type fakeSpan struct {
	id    hosttrace.SpanID
	meta  hosttrace.Metadata
	ext   hosttrace.Extensions
	scope []hosttrace.SpanRef
}

func (s *fakeSpan) ID() hosttrace.SpanID            { return s.id }
func (s *fakeSpan) Metadata() hosttrace.Metadata     { return s.meta }
func (s *fakeSpan) Extensions() *hosttrace.Extensions { return &s.ext }
func (s *fakeSpan) Scope() []hosttrace.SpanRef        { return s.scope }

// fakeRegistry reports a single fixed "current" span.
type fakeRegistry struct {
	current hosttrace.SpanRef
}

func (r *fakeRegistry) Span(id hosttrace.SpanID) (hosttrace.SpanRef, bool) {
	for _, s := range r.current.Scope() {
		if s.ID() == id {
			return s, true
		}
	}
	return nil, false
}

func (r *fakeRegistry) LookupCurrent() (hosttrace.SpanRef, bool) {
	if r.current == nil {
		return nil, false
	}
	return r.current, true
}

func buildChain(names ...string) []hosttrace.SpanRef {
	chain := make([]*fakeSpan, len(names))
	for i, name := range names {
		id := uint64(i + 1)
		frag := spancontext.NewSpanFragment(name, &id)
		chain[i] = &fakeSpan{
			id:   hosttrace.SpanID(id),
			meta: hosttrace.Metadata{Name: name},
			ext:  hosttrace.Extensions{Fragment: frag},
		}
	}
	scope := make([]hosttrace.SpanRef, len(chain))
	for i, s := range chain {
		scope[i] = s
	}
	for _, s := range chain {
		s.scope = scope
	}
	return scope
}

func TestCurrentWithNoSpan(t *testing.T) {
	reg := &fakeRegistry{}
	stack := spancontext.Current(reg)
	require.Empty(t, stack.ToSpans())
}

func TestCurrentConcatenatesAncestors(t *testing.T) {
	scope := buildChain("grandparent", "parent", "child")
	reg := &fakeRegistry{current: scope[len(scope)-1]}

	stack := spancontext.Current(reg)
	spans := stack.ToSpans()
	require.Len(t, spans, 3)
	require.Equal(t, []string{"grandparent", "parent", "child"}, []string{spans[0].Name, spans[1].Name, spans[2].Name})
}

func TestBuildLeaveStackAppendsInnermostLast(t *testing.T) {
	scope := buildChain("parent", "child")
	innermost := scope[len(scope)-1]

	stack := spancontext.BuildLeaveStack(&fakeRegistry{current: innermost}, innermost)
	spans := stack.ToSpans()
	require.Len(t, spans, 2)
	require.Equal(t, "parent", spans[0].Name)
	require.Equal(t, "child", spans[1].Name)
}

func TestBuildLeaveStackSingleSpan(t *testing.T) {
	scope := buildChain("solo")
	innermost := scope[0]

	stack := spancontext.BuildLeaveStack(&fakeRegistry{current: innermost}, innermost)
	spans := stack.ToSpans()
	require.Len(t, spans, 1)
	require.Equal(t, "solo", spans[0].Name)
}

func TestCurrentDoesNotMutateSourceFragments(t *testing.T) {
	scope := buildChain("a", "b")
	reg := &fakeRegistry{current: scope[len(scope)-1]}

	spancontext.Current(reg)
	second := spancontext.Current(reg)
	require.Len(t, second.ToSpans(), 2, "repeated calls must not accumulate duplicate items")
}
