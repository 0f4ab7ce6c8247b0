package scaffold

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/juanfont/create-starter-kit/frameworks"
	"github.com/juanfont/create-starter-kit/pkgmanager"
	"github.com/juanfont/create-starter-kit/steps"
	"github.com/juanfont/create-starter-kit/templates"
	"github.com/juanfont/create-starter-kit/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecutor struct {
	calls []steps.Invocation
	err   error
}

func (e *fakeExecutor) Execute(_ context.Context, inv steps.Invocation) error {
	e.calls = append(e.calls, inv)
	return e.err
}

const catalogue = `
frameworks:
  - name: web
    variants:
      - name: web-steps
        display: Web
        steps:
          - command: pnpm create web@latest TARGET_DIR
            description: create
            working_dir: root
          - command: pnpm add left-pad
            description: add
            working_dir: target
        files:
          - { source: prettier.config.json, destination: .prettierrc, json: true }
          - { source: .env, destination: .env.local }
      - name: web-command
        command: npm create web@latest TARGET_DIR
      - name: web-plain
`

func testTemplates() fstest.MapFS {
	return fstest.MapFS{
		"web-steps/prettier.config.json": {Data: []byte(`{"semi":false}`)},
		"web-steps/.env":                 {Data: []byte("A=1\n")},
		"web-plain/package.json":         {Data: []byte(`{"name":"web-plain","private":true,"scripts":{"dev":"vite && echo <ok>"}}`)},
		"web-plain/_gitignore":           {Data: []byte("node_modules\n")},
		"web-plain/src/main.ts":          {Data: []byte("console.log(1)\n")},
		"web-plain/src/_npmrc":           {Data: []byte("x\n")},
	}
}

func newTestGenerator(t *testing.T, executor steps.Executor, pm pkgmanager.Identity) (*Generator, afero.Fs, *frameworks.Registry) {
	t.Helper()
	r, err := frameworks.Load([]byte(catalogue))
	require.NoError(t, err)

	dst := afero.NewMemMapFs()
	runner := steps.NewRunner(executor).WithLogger(zerolog.Nop())
	return NewGenerator(testTemplates(), dst, runner, pm), dst, r
}

func TestGenerateSteps(t *testing.T) {
	executor := &fakeExecutor{}
	pm := pkgmanager.Identity{Name: pkgmanager.NPM, Version: "10.0.0"}
	g, dst, r := newTestGenerator(t, executor, pm)
	v, _ := r.Lookup("web-steps")

	msg, err := g.Generate(context.Background(), Request{Variant: v, TargetDir: "site", PackageName: "site", Cwd: "/work"})
	require.NoError(t, err)

	require.Len(t, executor.calls, 2)
	assert.Equal(t, "npm create web@latest site", executor.calls[0].String())
	assert.Equal(t, "/work", executor.calls[0].Dir)
	assert.Equal(t, "npm install left-pad", executor.calls[1].String())
	assert.Equal(t, filepath.Join("/work", "site"), executor.calls[1].Dir)

	prettier, err := afero.ReadFile(dst, filepath.Join("/work", "site", ".prettierrc"))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"semi\": false\n}", string(prettier))

	assert.Equal(t, "✓ Project created successfully!\n\nNext steps:\n  cd site\n  npm run dev", msg)
}

func TestGenerateStepsFailureSkipsFiles(t *testing.T) {
	executor := &fakeExecutor{err: errors.New("exit status 2")}
	g, dst, r := newTestGenerator(t, executor, pkgmanager.Default)
	v, _ := r.Lookup("web-steps")

	_, err := g.Generate(context.Background(), Request{Variant: v, TargetDir: "site", Cwd: "/work"})

	var serr *types.StepError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 1, serr.Index)
	assert.Len(t, executor.calls, 1)

	exists, _ := afero.Exists(dst, filepath.Join("/work", "site", ".prettierrc"))
	assert.False(t, exists)
}

func TestGenerateCommand(t *testing.T) {
	executor := &fakeExecutor{}
	bun := pkgmanager.Identity{Name: pkgmanager.Bun, Version: "1.1.0"}
	g, _, r := newTestGenerator(t, executor, bun)
	v, _ := r.Lookup("web-command")

	msg, err := g.Generate(context.Background(), Request{Variant: v, TargetDir: "site", Cwd: "/work"})
	require.NoError(t, err)
	assert.Empty(t, msg)

	require.Len(t, executor.calls, 1)
	assert.Equal(t, steps.Invocation{Name: "bun", Args: []string{"x", "create-web@latest", "site"}, Dir: "/work"}, executor.calls[0])
}

func TestGeneratePlainTemplate(t *testing.T) {
	executor := &fakeExecutor{}
	yarn := pkgmanager.Identity{Name: pkgmanager.Yarn, Version: "4.0.0"}
	g, dst, r := newTestGenerator(t, executor, yarn)
	v, _ := r.Lookup("web-plain")

	msg, err := g.Generate(context.Background(), Request{Variant: v, TargetDir: "my site", PackageName: "my-site", Cwd: "/work"})
	require.NoError(t, err)
	assert.Empty(t, executor.calls)

	root := filepath.Join("/work", "my site")
	for _, name := range []string{".gitignore", "src/main.ts", "src/.npmrc", "package.json"} {
		exists, _ := afero.Exists(dst, filepath.Join(root, filepath.FromSlash(name)))
		assert.True(t, exists, name)
	}
	exists, _ := afero.Exists(dst, filepath.Join(root, "_gitignore"))
	assert.False(t, exists)

	pkg, err := afero.ReadFile(dst, filepath.Join(root, "package.json"))
	require.NoError(t, err)
	assert.Equal(t, `{
  "name": "my-site",
  "private": true,
  "scripts": {
    "dev": "vite && echo <ok>"
  }
}
`, string(pkg))

	assert.Equal(t, "Done. Now run:\n\n  cd \"my site\"\n  yarn\n  yarn dev", msg)
}

func TestGeneratePlainTemplateMissing(t *testing.T) {
	r, err := frameworks.Load([]byte("frameworks: [{name: a, variants: [{name: ghost}]}]"))
	require.NoError(t, err)
	v, _ := r.Lookup("ghost")

	g := NewGenerator(testTemplates(), afero.NewMemMapFs(), steps.NewRunner(&fakeExecutor{}), pkgmanager.Default)
	_, err = g.Generate(context.Background(), Request{Variant: v, TargetDir: "x", Cwd: "/work"})
	assert.ErrorIs(t, err, types.ErrMissingTemplateFile)
}

func TestGenerateBundledPlainTemplate(t *testing.T) {
	v, ok := frameworks.Default().Lookup("vanilla-ts")
	require.True(t, ok)

	dst := afero.NewMemMapFs()
	g := NewGenerator(templates.Bundled(), dst, steps.NewRunner(&fakeExecutor{}), pkgmanager.Default)
	_, err := g.Generate(context.Background(), Request{Variant: v, TargetDir: "demo", PackageName: "demo", Cwd: "/w"})
	require.NoError(t, err)

	pkg, err := afero.ReadFile(dst, filepath.Join("/w", "demo", "package.json"))
	require.NoError(t, err)
	assert.Contains(t, string(pkg), `"name": "demo"`)

	exists, _ := afero.Exists(dst, filepath.Join("/w", "demo", ".gitignore"))
	assert.True(t, exists)
}

func TestSetPackageName(t *testing.T) {
	out, err := SetPackageName([]byte(`{"version":"1.0.0"}`), "@scope/app")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"version\": \"1.0.0\",\n  \"name\": \"@scope/app\"\n}\n", string(out))

	_, err = SetPackageName([]byte(`{"name": "x",`), "app")
	assert.Error(t, err)
}

func TestDoneMessageInCurrentDirectory(t *testing.T) {
	msg := DoneMessage("/work", "/work", pkgmanager.Identity{Name: pkgmanager.PNPM})
	assert.Equal(t, "Done. Now run:\n\n  pnpm install\n  pnpm run dev", msg)
}

// unreadableFS fails every read of one path.
type unreadableFS struct {
	fstest.MapFS
	path string
}

func (u unreadableFS) Open(name string) (fs.File, error) {
	if name == u.path {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}
	return u.MapFS.Open(name)
}

func (u unreadableFS) ReadFile(name string) ([]byte, error) {
	if name == u.path {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrPermission}
	}
	return u.MapFS.ReadFile(name)
}

func TestCopyTemplateUnreadableFile(t *testing.T) {
	src := unreadableFS{MapFS: testTemplates(), path: "web-plain/src/main.ts"}

	err := CopyTemplate(src, afero.NewMemMapFs(), "web-plain", "/work/app", "app")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrMissingTemplateFile)
	assert.ErrorIs(t, err, fs.ErrPermission)

	var terr *types.TemplateError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "web-plain", terr.Template)
	assert.Equal(t, "src/main.ts", terr.Source)
}
