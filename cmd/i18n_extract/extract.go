// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"path/filepath"

	"golang.org/x/tools/go/packages"
)

// message identifies a template entry. plural is empty for singular entries.
type message struct {
	ctx    string
	id     string
	plural string
}

type location struct {
	file string
	line int
}

// trArgs gives the argument positions of the translation functions.
// A negative index means the function has no such argument.
type trArgs struct {
	ctx, id, plural int
}

var trFuncs = map[string]trArgs{
	"Tr":  {ctx: -1, id: 1, plural: -1},
	"TrC": {ctx: 1, id: 2, plural: -1},
	"TrN": {ctx: -1, id: 1, plural: 2},
}

type collector struct {
	root     string
	fset     *token.FileSet
	info     *types.Info
	i18nPkgs map[string]bool
	found    map[message][]location
}

// collect walks every file of the root packages and returns the messages with the
// places they are used at.
func collect(pkgs []*packages.Package, root string) map[message][]location {
	c := &collector{
		root:     root,
		i18nPkgs: i18nPackages(pkgs),
		found:    make(map[message][]location),
	}

	for _, p := range pkgs {
		if p.TypesInfo == nil {
			continue
		}

		c.fset, c.info = p.Fset, p.TypesInfo

		for _, f := range p.Syntax {
			ast.Inspect(f, func(n ast.Node) bool {
				switch x := n.(type) {
				case *ast.CallExpr:
					c.call(x)
				case *ast.CompositeLit:
					c.literal(x)
				}

				return true
			})
		}
	}

	return c.found
}

// i18nPackages finds the packages named i18n that declare a string-based
// MsgKey type, however they are imported.
func i18nPackages(pkgs []*packages.Package) map[string]bool {
	out := make(map[string]bool)

	packages.Visit(pkgs, nil, func(p *packages.Package) {
		if p.Name != "i18n" || p.Types == nil {
			return
		}

		tn, ok := p.Types.Scope().Lookup("MsgKey").(*types.TypeName)
		if !ok {
			return
		}

		if basic, ok := tn.Type().Underlying().(*types.Basic); ok && basic.Kind() == types.String {
			out[p.PkgPath] = true
		}
	})

	return out
}

func (c *collector) isMsgKey(t types.Type) bool {
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}

	obj := named.Obj()

	return obj != nil && obj.Pkg() != nil && c.i18nPkgs[obj.Pkg().Path()] && obj.Name() == "MsgKey"
}

// constString evaluates expr to a constant string, which covers literals,
// named constants and constant expressions.
func (c *collector) constString(expr ast.Expr) (string, bool) {
	tv, ok := c.info.Types[expr]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.String {
		return "", false
	}

	return constant.StringVal(tv.Value), true
}

// keyArg records expr when it is a constant assigned to a MsgKey.
func (c *collector) keyArg(t types.Type, expr ast.Expr) {
	if !c.isMsgKey(t) {
		return
	}

	if s, ok := c.constString(expr); ok {
		c.add(expr.Pos(), message{id: s})
	}
}

func (c *collector) call(x *ast.CallExpr) {
	// i18n.MsgKey("...")
	if tv, ok := c.info.Types[x.Fun]; ok && tv.IsType() {
		if len(x.Args) == 1 {
			c.keyArg(tv.Type, x.Args[0])
		}

		return
	}

	if c.trCall(x) {
		return
	}

	sig, ok := c.info.TypeOf(x.Fun).(*types.Signature)
	if !ok || sig.Params().Len() == 0 {
		return
	}

	params := sig.Params()
	last := params.Len() - 1

	for i, arg := range x.Args {
		switch {
		case sig.Variadic() && i >= last:
			// f(xs...) is found through the slice literal, if any
			if x.Ellipsis.IsValid() {
				continue
			}

			if s, ok := params.At(last).Type().(*types.Slice); ok {
				c.keyArg(s.Elem(), arg)
			}
		case i <= last:
			c.keyArg(params.At(i).Type(), arg)
		}
	}
}

// trCall handles Tr, TrC and TrN, reporting whether x is one of them.
func (c *collector) trCall(x *ast.CallExpr) bool {
	sel, ok := x.Fun.(*ast.SelectorExpr)
	if !ok {
		return false
	}

	fn, ok := c.info.Uses[sel.Sel].(*types.Func)
	if !ok || fn.Pkg() == nil || !c.i18nPkgs[fn.Pkg().Path()] {
		return false
	}

	args, ok := trFuncs[fn.Name()]
	if !ok {
		return false
	}

	var (
		m     message
		valid = true
	)

	get := func(i int) string {
		if i < 0 {
			return ""
		}

		if i >= len(x.Args) {
			valid = false

			return ""
		}

		s, ok := c.constString(x.Args[i])
		valid = valid && ok

		return s
	}

	m.ctx, m.id, m.plural = get(args.ctx), get(args.id), get(args.plural)

	if valid {
		c.add(x.Args[args.id].Pos(), m)
	}

	return true
}

func (c *collector) literal(x *ast.CompositeLit) {
	tv, ok := c.info.Types[x]
	if !ok || tv.Type == nil {
		return
	}

	t := tv.Type
	if p, ok := t.Underlying().(*types.Pointer); ok {
		t = p.Elem()
	}

	switch u := t.Underlying().(type) {
	case *types.Map:
		for _, elt := range x.Elts {
			if kv, ok := elt.(*ast.KeyValueExpr); ok {
				c.keyArg(u.Key(), kv.Key)
				c.keyArg(u.Elem(), kv.Value)
			}
		}
	case *types.Slice:
		c.elements(u.Elem(), x.Elts)
	case *types.Array:
		c.elements(u.Elem(), x.Elts)
	case *types.Struct:
		for i, elt := range x.Elts {
			kv, ok := elt.(*ast.KeyValueExpr)
			if !ok {
				if i < u.NumFields() {
					c.keyArg(u.Field(i).Type(), elt)
				}

				continue
			}

			id, ok := kv.Key.(*ast.Ident)
			if !ok {
				continue
			}

			for f := range u.Fields() {
				if f.Name() == id.Name {
					c.keyArg(f.Type(), kv.Value)
				}
			}
		}
	}
}

func (c *collector) elements(elem types.Type, elts []ast.Expr) {
	for _, elt := range elts {
		if kv, ok := elt.(*ast.KeyValueExpr); ok {
			elt = kv.Value
		}

		c.keyArg(elem, elt)
	}
}

func (c *collector) add(pos token.Pos, m message) {
	p := c.fset.Position(pos)

	file := p.Filename
	if rel, err := filepath.Rel(c.root, file); err == nil {
		file = rel
	}

	c.found[m] = append(c.found[m], location{file: filepath.ToSlash(file), line: p.Line})
}
