package frontend

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skelpo/perryc/internal/diag"
	"github.com/skelpo/perryc/internal/hir"
)

func parse(t *testing.T, src string) (*hir.Module, *diag.Collection) {
	t.Helper()
	cache := diag.NewCache()
	diags := &diag.Collection{}
	mod := hir.NewModule()
	err := Parse(cache, "test.ts", src, mod, diags)
	require.NoError(t, err)
	return mod, diags
}

func TestParseFunctionDecl(t *testing.T) {
	mod, diags := parse(t, `function add(a: number, b: number): number { return a + b; }`)
	require.False(t, diags.HasErrors())
	require.Len(t, mod.Funcs, 1)
	for _, fn := range mod.Funcs {
		require.Equal(t, "add", fn.Name)
		require.Len(t, fn.Params, 2)
	}
}

func TestParseGenericCallSite(t *testing.T) {
	mod, diags := parse(t, `
function identity<T>(x: T): T { return x; }
identity<number>(1);
identity<string>("a");
`)
	require.False(t, diags.HasErrors())
	require.Len(t, mod.Globals, 3)
	_, isDecl := mod.Globals[0].(*hir.FuncDecl)
	require.True(t, isDecl)
	for _, stmt := range mod.Globals[1:] {
		es, ok := stmt.(*hir.ExprStmt)
		require.True(t, ok)
		call, ok := es.X.(*hir.Call)
		require.True(t, ok)
		require.True(t, call.IsDirect)
		require.Len(t, call.TypeArgs, 1)
	}
}

func TestParseRelationalNotConfusedWithGenericCall(t *testing.T) {
	mod, diags := parse(t, `
let a = 1;
let b = 2;
let c = a < b;
`)
	require.False(t, diags.HasErrors())
	var found *hir.VarDecl
	for _, stmt := range mod.Globals {
		if vd, ok := stmt.(*hir.VarDecl); ok && vd.Name == "c" {
			found = vd
		}
	}
	require.NotNil(t, found)
	bin, ok := found.Init.(*hir.Binary)
	require.True(t, ok)
	require.Equal(t, "<", bin.Op)
}

func TestParseClassWithConstructorPromotion(t *testing.T) {
	mod, diags := parse(t, `
class Box<T> {
  readonly value: T;
  constructor(readonly label: string, value: T) {
    this.value = value;
  }
  get(): T {
    return this.value;
  }
}
`)
	require.False(t, diags.HasErrors())
	require.Len(t, mod.Classes, 1)
	for _, cls := range mod.Classes {
		require.Equal(t, "Box", cls.Name)
		names := make(map[string]bool)
		for _, f := range cls.Fields {
			names[f.Name] = true
		}
		require.True(t, names["value"])
		require.True(t, names["label"])
		require.Len(t, cls.Methods, 2) // constructor + get
	}
}

func TestParseTryRequiresCatchOrFinally(t *testing.T) {
	cache := diag.NewCache()
	diags := &diag.Collection{}
	mod := hir.NewModule()
	err := Parse(cache, "test.ts", `function f(): void { try { doThing(); } }`, mod, diags)
	require.Error(t, err)
}

func TestParseTryCatchFinally(t *testing.T) {
	mod, diags := parse(t, `
function run(): void {
  try {
    throw "boom";
  } catch (e) {
  } finally {
  }
}
`)
	require.False(t, diags.HasErrors())
	require.Len(t, mod.Funcs, 1)
}

func TestParseArrowFunctionCapturesCount(t *testing.T) {
	mod, diags := parse(t, `
let c = 0;
const inc = () => {
  c = c + 1;
};
inc();
inc();
`)
	require.False(t, diags.HasErrors())
	require.Len(t, mod.Globals, 4) // let, const, call, call
}

func TestParseInterfaceIsSkipped(t *testing.T) {
	mod, diags := parse(t, `
interface Point {
  x: number;
  y: number;
}
function origin(): number {
  return 0;
}
`)
	require.False(t, diags.HasErrors())
	require.Len(t, mod.Funcs, 1)
}

func TestParseUndefinedNameReportsR001(t *testing.T) {
	_, diags := parse(t, `let x = neverDeclared;`)
	require.True(t, diags.HasErrors())
	found := false
	for _, d := range diags.All() {
		if d.Code == diag.R001 {
			found = true
		}
	}
	require.True(t, found)
}

func TestParseTemplateInterpolationRejected(t *testing.T) {
	cache := diag.NewCache()
	diagsColl := &diag.Collection{}
	mod := hir.NewModule()
	err := Parse(cache, "test.ts", "let x = `hello ${1}`;", mod, diagsColl)
	require.Error(t, err)
}

func TestParseArrayAndObjectLiterals(t *testing.T) {
	mod, diags := parse(t, `
let arr = [1, 2, 3];
let obj = { x: 1, y: 2 };
`)
	require.False(t, diags.HasErrors())
	require.Len(t, mod.Globals, 2)
	vd := mod.Globals[0].(*hir.VarDecl)
	_, ok := vd.Init.(*hir.ArrayLit)
	require.True(t, ok)
	vd2 := mod.Globals[1].(*hir.VarDecl)
	_, ok = vd2.Init.(*hir.ObjectLit)
	require.True(t, ok)
}
