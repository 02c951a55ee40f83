package registry

import (
	"reflect"
	"testing"

	"github.com/nidhogg/crossgate/internal/adapter"
	"github.com/nidhogg/crossgate/internal/engine"
	"github.com/nidhogg/crossgate/internal/ident"
	"github.com/nidhogg/crossgate/internal/model"
	"go.uber.org/zap"
)

func testBuildContext() BuildContext {
	return BuildContext{
		API:      adapter.Unsupported{Platform: "test"},
		IDs:      ident.NewResolver(ident.NewMemoryStore(), zap.NewNop()),
		Platform: "test",
		Self:     model.NumericID(1),
		History:  engine.NewHistory(4),
		Logger:   zap.NewNop(),
	}
}

func TestDefaultProtocols(t *testing.T) {
	r := Default()

	want := []string{"milky", "onebot11", "onebot12", "satori"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}

	versions := map[string]string{
		"onebot11": "v11",
		"onebot12": "v12",
		"milky":    "v1",
		"satori":   "v1",
	}
	for name, version := range versions {
		codec, err := r.Build(name, testBuildContext())
		if err != nil {
			t.Fatalf("build %s: %v", name, err)
		}
		if codec.Version() != version {
			t.Errorf("%s version = %q, want %q", name, codec.Version(), version)
		}
	}
}

func TestBuildUnknownProtocol(t *testing.T) {
	if _, err := Default().Build("xmpp", testBuildContext()); err == nil {
		t.Error("unknown protocol accepted")
	}
}
