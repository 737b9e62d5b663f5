package bridge

import (
	"errors"
	"testing"
)

func TestRouteHooksMergeCallsBothInOrder(t *testing.T) {
	var order []string
	a := RouteHooks{
		OnRouteStart: func(rc RouteContext) { order = append(order, "a_start") },
		OnRouteDone:  func(rc RouteContext) { order = append(order, "a_done") },
	}
	b := RouteHooks{
		OnRouteStart: func(rc RouteContext) { order = append(order, "b_start") },
		OnRouteDone:  func(rc RouteContext) { order = append(order, "b_done") },
	}

	merged := a.Merge(b)
	merged.OnRouteStart(RouteContext{})
	merged.OnRouteDone(RouteContext{})

	want := []string{"a_start", "b_start", "a_done", "b_done"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %#v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %#v", want, order)
		}
	}
}

func TestRouteHooksMergeHandlesNil(t *testing.T) {
	called := 0
	a := RouteHooks{OnRouteError: func(rc RouteContext, err error) { called++ }}

	merged := a.Merge(RouteHooks{})
	if merged.OnRouteStart != nil {
		t.Fatal("expected nil start hook when both sides are nil")
	}
	merged.OnRouteError(RouteContext{}, errors.New("x"))
	if called != 1 {
		t.Fatalf("expected the surviving hook to fire, got %d", called)
	}
}

func TestMetricsRouteHooks(t *testing.T) {
	var dones, errs []RouteBranch
	h := MetricsRouteHooks(
		func(event string, branch RouteBranch) { dones = append(dones, branch) },
		func(event string, branch RouteBranch) { errs = append(errs, branch) },
	)

	h.OnRouteDone(RouteContext{Branch: BranchContract})
	h.OnRouteError(RouteContext{Branch: BranchCapability}, errors.New("x"))

	if len(dones) != 1 || dones[0] != BranchContract {
		t.Fatalf("expected contract done, got %#v", dones)
	}
	if len(errs) != 1 || errs[0] != BranchCapability {
		t.Fatalf("expected capability error, got %#v", errs)
	}
}
