package compile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/c99js/c99js/internal/config"
)

type mapFiles map[string]string

func (m mapFiles) ReadFile(path string) (string, bool) {
	content, ok := m[path]
	return content, ok
}

func TestCompileProducesRunnableJS(t *testing.T) {
	ctx := config.New(config.Options{})
	res := Compile(ctx, mapFiles{}, `
int main(void) {
	return 0;
}
`, "t.c")
	require.Empty(t, res.Diagnostics)
	require.Contains(t, res.JS, "function _main")
	require.Contains(t, res.JS, "const rt = new Runtime()")
}

func TestCompilePreprocessOnlyStopsBeforeParsing(t *testing.T) {
	ctx := config.New(config.Options{PreprocessOnly: true})
	res := Compile(ctx, mapFiles{}, `
#define TWO 2
int x = TWO;
`, "t.c")
	require.Nil(t, res.Program)
	require.Empty(t, res.JS)
	require.Contains(t, res.Preprocessed, "2")
}

func TestCompileCommandLineDefineIsVisibleToSource(t *testing.T) {
	ctx := config.New(config.Options{
		PreprocessOnly: true,
		Defines:        []config.Macro{{Name: "FOO", Value: "42"}},
	})
	res := Compile(ctx, mapFiles{}, "int x = FOO;\n", "t.c")
	require.Contains(t, res.Preprocessed, "42")
}

func TestCompileReportsSemanticErrorsWithoutGeneratingJS(t *testing.T) {
	ctx := config.New(config.Options{})
	res := Compile(ctx, mapFiles{}, `
int f(void) {
	return undeclared_name;
}
`, "t.c")
	require.NotEmpty(t, res.Diagnostics)
	require.Empty(t, res.JS)
}
