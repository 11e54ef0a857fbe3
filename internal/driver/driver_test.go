package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skelpo/perryc/internal/mono"
)

func testLogger(t *testing.T) *zap.SugaredLogger {
	t.Helper()
	logger, err := zap.NewDevelopment()
	require.NoError(t, err)
	return logger.Sugar()
}

func writeEntry(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "entry.ts")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestCheckReportsNoErrorsForValidProgram(t *testing.T) {
	path := writeEntry(t, `
function add(a: number, b: number): number {
  return a + b;
}
let total = add(1, 2);
`)
	res, err := Check(Options{EntryPaths: []string{path}}, testLogger(t))
	require.NoError(t, err)
	require.False(t, res.Diags.HasErrors())
}

func TestCheckReportsUndefinedName(t *testing.T) {
	path := writeEntry(t, `let x = totallyUndefinedName;`)
	res, err := Check(Options{EntryPaths: []string{path}}, testLogger(t))
	require.NoError(t, err)
	require.True(t, res.Diags.HasErrors())
}

// identity<T>(x: T): T { return x }, called once as identity<number> and
// once as identity<string>, must parse and monomorphize to exactly two
// specializations with no TypeVar left over.
func TestIdentityScenarioProducesTwoSpecializations(t *testing.T) {
	path := writeEntry(t, `
function identity<T>(x: T): T {
  return x;
}
identity<number>(1);
identity<string>("a");
`)
	mod, res, err := frontendStage(Options{EntryPaths: []string{path}})
	require.NoError(t, err)
	require.False(t, res.Diags.HasErrors())

	originalCount := len(mod.Funcs)
	require.NoError(t, mono.Monomorphize(mod))
	require.Equal(t, originalCount+2, len(mod.Funcs), "expected exactly two specializations beyond the generic original")
}

func TestClosureBoxScenarioParses(t *testing.T) {
	path := writeEntry(t, `
let c = 0;
const inc = () => {
  c = c + 1;
};
inc();
inc();
`)
	_, res, err := frontendStage(Options{EntryPaths: []string{path}})
	require.NoError(t, err)
	require.False(t, res.Diags.HasErrors())
}

func TestTryCatchScenarioParses(t *testing.T) {
	path := writeEntry(t, `
function run(): void {
  try {
    try {
      throw "inner";
    } catch (innerErr) {
      throw "outer";
    }
  } catch (outerErr) {
  }
}
`)
	_, res, err := frontendStage(Options{EntryPaths: []string{path}})
	require.NoError(t, err)
	require.False(t, res.Diags.HasErrors())
}

func TestMapKeysScenarioParses(t *testing.T) {
	path := writeEntry(t, `
const m = new Map<string, number>();
m.set("a", 1);
m.set("a", 2);
m.get("a");
`)
	_, res, err := frontendStage(Options{EntryPaths: []string{path}})
	require.NoError(t, err)
	require.False(t, res.Diags.HasErrors())
}

func TestAwaitScenarioParses(t *testing.T) {
	path := writeEntry(t, `
async function delay(ms: number): Promise<void> {
}
async function main(): Promise<void> {
  await delay(10);
}
`)
	_, res, err := frontendStage(Options{EntryPaths: []string{path}})
	require.NoError(t, err)
	require.False(t, res.Diags.HasErrors())
}
