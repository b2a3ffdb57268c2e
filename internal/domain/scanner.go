// Package domain contains the static analysis and fixture workflows behind
// the viewspy CLI.
package domain

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path"
	"strconv"
	"strings"

	"gooze.dev/pkg/viewspy/internal/adapter"
	m "gooze.dev/pkg/viewspy/internal/model"
	"gooze.dev/pkg/viewspy/pkg/keys"
)

// ShadowImportPath is the import path whose constructors the scanner recognises.
const ShadowImportPath = "gooze.dev/pkg/viewspy/pkg/shadow"

// argument locates the name of a site: the first type argument for
// type-keyed patterns, otherwise a string literal at a call argument index.
type argument struct {
	pattern keys.Pattern
	index   int
}

var constructors = map[string]argument{
	"NewEnvironment":               {pattern: keys.PatternEnvironment},
	"NewEnvironmentValue":          {pattern: keys.PatternEnvironmentValue},
	"NewEnvironmentObject":         {pattern: keys.PatternEnvironmentObject},
	"NewOptionalEnvironmentObject": {pattern: keys.PatternOptionalEnvironmentObject},
	"NewState":                     {pattern: keys.PatternState, index: -1},
	"NewStateObject":               {pattern: keys.PatternStateObject},
	"NewAppStorage":                {pattern: keys.PatternStorage, index: 1},
	"NewSceneStorage":              {pattern: keys.PatternSceneStorage, index: 1},
	"NewFocusedValue":              {pattern: keys.PatternFocusedValue},
	"NewFocusedObject":             {pattern: keys.PatternFocusedObject},
	"NewFocusedBinding":            {pattern: keys.PatternFocusedBinding},
}

// Scanner finds shadow wrapper declarations in Go sources.
type Scanner interface {
	Scan(ctx context.Context, source m.Source) ([]m.Site, error)
}

type scanner struct {
	adapter.GoFileAdapter
	adapter.SourceFSAdapter
}

// NewScanner creates a Scanner reading and parsing files through the adapters.
func NewScanner(goFileAdapter adapter.GoFileAdapter, sourceFSAdapter adapter.SourceFSAdapter) Scanner {
	return &scanner{
		GoFileAdapter:   goFileAdapter,
		SourceFSAdapter: sourceFSAdapter,
	}
}

func (s *scanner) Scan(ctx context.Context, source m.Source) ([]m.Site, error) {
	if source.Origin == nil || source.Origin.FullPath == "" {
		return nil, fmt.Errorf("missing source origin")
	}

	content, err := s.ReadFile(ctx, source.Origin.FullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source.Origin.FullPath, err)
	}

	fset := token.NewFileSet()

	file, err := s.Parse(ctx, fset, string(source.Origin.FullPath), content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", source.Origin.FullPath, err)
	}

	r := newResolver(file, source.Package)

	alias, ok := r.aliasOf(ShadowImportPath)
	if !ok {
		return nil, nil
	}

	var sites []m.Site

	ast.Inspect(file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}

		name, typeArgs, ok := constructorName(call.Fun, alias)
		if !ok {
			return true
		}

		arg, ok := constructors[name]
		if !ok {
			return true
		}

		pos := fset.Position(call.Pos())
		site := m.Site{
			Pattern: arg.pattern,
			Source:  source,
			Line:    pos.Line,
			Column:  pos.Column,
		}

		site.Name, site.Dynamic = r.siteName(arg, call, typeArgs)
		if !site.Dynamic {
			if key, err := keys.Derive(arg.pattern, site.Name); err == nil {
				site.Key = key
			}
		}

		if len(typeArgs) > 0 {
			if typeName, dynamic := r.typeName(typeArgs[0]); !dynamic {
				site.Type = typeName
			}
		}

		sites = append(sites, site)

		return true
	})

	return sites, nil
}

// constructorName unwraps alias.NewX, alias.NewX[T] and alias.NewX[K, V].
func constructorName(fun ast.Expr, alias string) (string, []ast.Expr, bool) {
	var typeArgs []ast.Expr

	switch f := fun.(type) {
	case *ast.IndexExpr:
		fun, typeArgs = f.X, []ast.Expr{f.Index}
	case *ast.IndexListExpr:
		fun, typeArgs = f.X, f.Indices
	}

	sel, ok := fun.(*ast.SelectorExpr)
	if !ok {
		return "", nil, false
	}

	pkg, ok := sel.X.(*ast.Ident)
	if !ok || pkg.Name != alias {
		return "", nil, false
	}

	return sel.Sel.Name, typeArgs, true
}

// resolver maps type expressions to the names reflection would report at
// run time.
type resolver struct {
	pkgPath string
	imports map[string]string
}

func newResolver(file *ast.File, pkgPath string) *resolver {
	if file.Name.Name == "main" {
		pkgPath = "main"
	}

	r := &resolver{pkgPath: pkgPath, imports: make(map[string]string)}

	for _, spec := range file.Imports {
		importPath, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}

		name := defaultImportName(importPath)
		if spec.Name != nil {
			name = spec.Name.Name
		}

		r.imports[name] = importPath
	}

	return r
}

func (r *resolver) aliasOf(importPath string) (string, bool) {
	for name, p := range r.imports {
		if p == importPath && name != "_" && name != "." {
			return name, true
		}
	}

	return "", false
}

func (r *resolver) siteName(arg argument, call *ast.CallExpr, typeArgs []ast.Expr) (string, bool) {
	if arg.index < 0 {
		return "", false
	}

	if arg.pattern.ByType() {
		if len(typeArgs) == 0 {
			return "", true
		}

		return r.typeName(typeArgs[0])
	}

	if arg.index >= len(call.Args) {
		return "", true
	}

	expr := call.Args[arg.index]

	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return types.ExprString(expr), true
	}

	value, err := strconv.Unquote(lit.Value)
	if err != nil {
		return lit.Value, true
	}

	return value, false
}

// typeName reports false for names it could resolve statically.
func (r *resolver) typeName(expr ast.Expr) (string, bool) {
	switch e := expr.(type) {
	case *ast.ParenExpr:
		return r.typeName(e.X)

	case *ast.StarExpr:
		name, dynamic := r.typeName(e.X)
		return "*" + name, dynamic

	case *ast.Ident:
		if obj := types.Universe.Lookup(e.Name); obj != nil {
			if _, ok := obj.(*types.TypeName); ok {
				return universeName(e.Name), false
			}
		}

		if r.pkgPath == "" {
			return e.Name, true
		}

		return r.pkgPath + "." + e.Name, false

	case *ast.SelectorExpr:
		pkg, ok := e.X.(*ast.Ident)
		if !ok {
			break
		}

		if importPath, ok := r.imports[pkg.Name]; ok {
			return importPath + "." + e.Sel.Name, false
		}
	}

	return types.ExprString(expr), true
}

// universeName maps aliases to the name reflection reports.
func universeName(name string) string {
	switch name {
	case "byte":
		return "uint8"
	case "rune":
		return "int32"
	case "any":
		return "interface {}"
	}

	return name
}

// defaultImportName guesses the package name of importPath from its last
// element, skipping major version suffixes ("/v2" and gopkg.in's ".v3").
func defaultImportName(importPath string) string {
	base := path.Base(importPath)

	if isMajorVersion(base) {
		base = path.Base(path.Dir(importPath))
	}

	if i := strings.LastIndex(base, "."); i > 0 && isMajorVersion(base[i+1:]) {
		base = base[:i]
	}

	return strings.ReplaceAll(strings.TrimPrefix(base, "go-"), "-", "_")
}

func isMajorVersion(s string) bool {
	return len(s) > 1 && s[0] == 'v' && strings.Trim(s[1:], "0123456789") == ""
}
