package archive

import (
	"sync"
	"testing"
)

func TestEntryToClassName(t *testing.T) {
	cases := []struct {
		entry string
		want  string
		ok    bool
	}{
		{"com/example/Foo.class", "com.example.Foo", true},
		{"Foo.class", "Foo", true},
		{"module-info.class", "", false},
		{"META-INF/MANIFEST.MF", "", false},
		{"com/example/doc.txt", "", false},
	}
	for _, c := range cases {
		got, ok := EntryToClassName(c.entry)
		if ok != c.ok || got != c.want {
			t.Fatalf("EntryToClassName(%q) = %q, %v; want %q, %v", c.entry, got, ok, c.want, c.ok)
		}
	}
}

func TestClassesSortedAndFiltered(t *testing.T) {
	a := New("app.jar", []string{
		"z/Last.class",
		"a/First.class",
		"module-info.class",
		"META-INF/MANIFEST.MF",
	})
	got := a.Classes()
	if len(got) != 2 || got[0] != "a.First" || got[1] != "z.Last" {
		t.Fatalf("Classes() = %v", got)
	}
}

func TestIsSystemModuleName(t *testing.T) {
	for _, name := range []string{"java.base", "jdk.compiler", "javafx.controls"} {
		if !IsSystemModuleName(name) {
			t.Fatalf("%q not recognized as system module", name)
		}
	}
	for _, name := range []string{"javax.inject", "com.acme", "jdk", ""} {
		if IsSystemModuleName(name) {
			t.Fatalf("%q wrongly recognized as system module", name)
		}
	}
}

func TestModuleExports(t *testing.T) {
	named := NewModule("lib", "lib.api")
	if !named.IsExported("lib.api") {
		t.Fatal("exported package not reported")
	}
	if named.IsExported("lib.internal") {
		t.Fatal("unexported package reported as exported")
	}

	auto := NewAutomaticModule("auto.lib")
	if !auto.IsExported("anything.at.all") {
		t.Fatal("automatic module must export everything")
	}

	var nilMod *Module
	if nilMod.IsExported("x") || nilMod.IsSystem() {
		t.Fatal("nil module must export nothing and not be system")
	}
}

func TestDefaultModuleIsAutomatic(t *testing.T) {
	a := New("plain.jar", nil)
	m := a.Module()
	if m == nil || !m.Automatic {
		t.Fatalf("archive without resolved module must get an automatic module, got %+v", m)
	}
}

// Module is resolved in New, so concurrent readers share one value
// and never race on a lazy write. Run with -race to enforce.
func TestModuleConcurrentReads(t *testing.T) {
	a := New("plain.jar", nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m := a.Module(); m == nil || !m.Automatic {
				t.Errorf("unexpected module: %+v", m)
			}
		}()
	}
	wg.Wait()
}

func TestAutomaticModuleName(t *testing.T) {
	cases := map[string]string{
		"commons-lang3-3.12.0.jar": "commons.lang3",
		"guava-31.1-jre.jar":       "guava",
		"app.jar":                  "app",
		"java.base.jmod":           "java.base",
		"my_lib.jar":               "my.lib",
	}
	for in, want := range cases {
		if got := AutomaticModuleName(in); got != want {
			t.Fatalf("AutomaticModuleName(%q) = %q, want %q", in, got, want)
		}
	}
}
