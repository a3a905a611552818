package analyzer

import (
	"testing"

	"depscope/internal/engine/archive"
	"depscope/internal/engine/deps"
)

func edge(origin string, oa *archive.Archive, target string, ta *archive.Archive) Edge {
	return Edge{
		Dep:           deps.Dependency{Origin: deps.Location(origin), Target: deps.Location(target)},
		OriginArchive: oa,
		TargetArchive: ta,
	}
}

func TestRun_AggregatesPerArchivePair(t *testing.T) {
	x := archive.New("x.jar", nil)
	y := archive.New("y.jar", nil)
	z := archive.New("z.jar", nil)

	a := New(deps.NewBuilder().Build())
	res := a.Run([]Edge{
		edge("a.A", x, "b.B", y),
		edge("a.C", x, "b.D", y),
		edge("a.A", x, "c.E", z),
		edge("c.E", z, "a.A", x),
	})

	if res.Seen != 4 || len(res.Accepted) != 4 {
		t.Fatalf("seen=%d accepted=%d", res.Seen, len(res.Accepted))
	}
	if len(res.Summaries) != 2 {
		t.Fatalf("expected 2 origin summaries, got %d", len(res.Summaries))
	}

	first := res.Summaries[0]
	if first.Archive != x || len(first.Targets) != 2 {
		t.Fatalf("unexpected first summary: %v", first)
	}
	if first.Targets[0].Archive != y || first.Targets[0].Count != 2 {
		t.Fatalf("x->y count = %d", first.Targets[0].Count)
	}
	if first.Targets[1].Archive != z || first.Targets[1].Count != 1 {
		t.Fatalf("x->z count = %d", first.Targets[1].Count)
	}

	second := res.Summaries[1]
	if second.Archive != z || len(second.Targets) != 1 || second.Targets[0].Archive != x {
		t.Fatalf("unexpected second summary: %v", second)
	}
}

func TestRun_AppliesArchiveFilter(t *testing.T) {
	x := archive.New("x.jar", nil)
	y := archive.New("y.jar", nil)

	a := New(deps.NewBuilder().Filter(false, true).Build())
	res := a.Run([]Edge{
		edge("a.A", x, "c.E", x),
		edge("a.A", x, "b.B", y),
	})

	if res.Seen != 2 {
		t.Fatalf("seen = %d", res.Seen)
	}
	if len(res.Accepted) != 1 || res.Accepted[0].TargetArchive != y {
		t.Fatalf("accepted = %v", res.Accepted)
	}
}

func TestRun_InternalsModeCollectsFindings(t *testing.T) {
	system := archive.New("java.base.jmod", nil)
	system.SetModule(archive.NewSystemModule("java.base", "java.util"))
	app := archive.New("app.jar", nil)

	a := New(deps.NewBuilder().FindInternals(true).Build())
	res := a.Run([]Edge{
		edge("a.A", app, "sun.misc.Unsafe", system),
		edge("a.B", app, "sun.misc.Unsafe", system),
		edge("a.A", app, "jdk.internal.misc.VM", system),
		edge("a.A", app, "java.util.List", system),
	})

	if len(res.Accepted) != 3 {
		t.Fatalf("accepted %d edges: %v", len(res.Accepted), res.Accepted)
	}
	if len(res.Findings) != 2 {
		t.Fatalf("findings = %+v", res.Findings)
	}
	first := res.Findings[0]
	if first.Package != "jdk.internal.misc" || len(first.Classes) != 1 || first.Classes[0] != "a.A" {
		t.Fatalf("first finding = %+v", first)
	}
	second := res.Findings[1]
	if second.Package != "sun.misc" || len(second.Classes) != 2 {
		t.Fatalf("second finding = %+v", second)
	}
}

func TestRun_NoFindingsOutsideInternalsMode(t *testing.T) {
	x := archive.New("x.jar", nil)
	y := archive.New("y.jar", nil)

	a := New(deps.NewBuilder().Build())
	res := a.Run([]Edge{edge("a.A", x, "b.B", y)})
	if len(res.Findings) != 0 {
		t.Fatalf("findings outside internals mode: %+v", res.Findings)
	}
}

func TestRun_AcceptedEdgesSorted(t *testing.T) {
	x := archive.New("x.jar", nil)
	y := archive.New("y.jar", nil)

	a := New(deps.NewBuilder().Build())
	res := a.Run([]Edge{
		edge("b.B", x, "c.C", y),
		edge("a.A", x, "d.D", y),
		edge("a.A", x, "b.B", y),
	})

	want := []string{"a.A->b.B", "a.A->d.D", "b.B->c.C"}
	for i, e := range res.Accepted {
		got := string(e.Dep.Origin) + "->" + string(e.Dep.Target)
		if got != want[i] {
			t.Fatalf("edge %d = %s, want %s", i, got, want[i])
		}
	}
}
