package expr

import (
	"fmt"
	"strings"

	"github.com/vito/redex/pkg/level"
)

// String renders e in a compact Lean-like notation. Bound variables print as
// the name of their binder; loose ones print as #i.
func (e *BVar) String() string   { return Print(e) }
func (e *FVar) String() string   { return Print(e) }
func (e *MVar) String() string   { return Print(e) }
func (e *Sort) String() string   { return Print(e) }
func (e *Const) String() string  { return Print(e) }
func (e *App) String() string    { return Print(e) }
func (e *Lambda) String() string { return Print(e) }
func (e *Pi) String() string     { return Print(e) }
func (e *Let) String() string    { return Print(e) }
func (e *Lit) String() string    { return Print(e) }
func (e *Proj) String() string   { return Print(e) }

// Print renders e.
func Print(e Expr) string {
	p := &printer{}
	p.print(e, false)
	return p.buf.String()
}

type printer struct {
	buf   strings.Builder
	names []Name
}

func (p *printer) push(n Name) {
	if n == Anonymous {
		n = "_"
	}
	p.names = append(p.names, n)
}

func (p *printer) pop() {
	p.names = p.names[:len(p.names)-1]
}

func (p *printer) bvarName(idx uint32) string {
	if int(idx) < len(p.names) {
		return string(p.names[len(p.names)-1-int(idx)])
	}
	return fmt.Sprintf("#%d", idx)
}

func sortString(l level.Level) string {
	switch {
	case l.Eq(level.Zero):
		return "Prop"
	case l.Eq(level.One):
		return "Type"
	}
	if s, ok := l.(level.Succ); ok {
		return fmt.Sprintf("Type %s", parenLevel(s.Of))
	}
	return fmt.Sprintf("Sort %s", parenLevel(l))
}

func parenLevel(l level.Level) string {
	s := l.String()
	if strings.ContainsAny(s, "+") {
		return "(" + s + ")"
	}
	return s
}

func (p *printer) print(e Expr, paren bool) {
	switch e := e.(type) {
	case *BVar:
		p.buf.WriteString(p.bvarName(e.Idx))
	case *FVar:
		p.buf.WriteString(string(e.ID))
	case *MVar:
		p.buf.WriteString("?" + string(e.ID))
	case *Sort:
		s := sortString(e.Level)
		if paren && strings.Contains(s, " ") {
			s = "(" + s + ")"
		}
		p.buf.WriteString(s)
	case *Const:
		p.buf.WriteString(string(e.Name))
		if len(e.Levels) > 0 {
			ls := make([]string, len(e.Levels))
			for i, l := range e.Levels {
				ls[i] = l.String()
			}
			fmt.Fprintf(&p.buf, ".{%s}", strings.Join(ls, ", "))
		}
	case *Lit:
		p.buf.WriteString(e.Value.String())
	case *App:
		fn, args := GetAppFnArgs(e)
		if paren {
			p.buf.WriteByte('(')
		}
		p.print(fn, true)
		for _, a := range args {
			p.buf.WriteByte(' ')
			p.print(a, true)
		}
		if paren {
			p.buf.WriteByte(')')
		}
	case *Lambda:
		if paren {
			p.buf.WriteByte('(')
		}
		p.buf.WriteString("fun")
		var body Expr = e
		for {
			lam, ok := body.(*Lambda)
			if !ok {
				break
			}
			fmt.Fprintf(&p.buf, " (%s : ", binderName(lam.Name))
			p.print(lam.Type, false)
			p.buf.WriteByte(')')
			p.push(lam.Name)
			body = lam.Body
			defer p.pop()
		}
		p.buf.WriteString(" => ")
		p.print(body, false)
		if paren {
			p.buf.WriteByte(')')
		}
	case *Pi:
		if paren {
			p.buf.WriteByte('(')
		}
		if e.Body.LooseBVarRange() == 0 || !dependsOnBVar0(e.Body) {
			p.print(e.Type, true)
			p.buf.WriteString(" → ")
		} else {
			fmt.Fprintf(&p.buf, "(%s : ", binderName(e.Name))
			p.print(e.Type, false)
			p.buf.WriteString(") → ")
		}
		p.push(e.Name)
		p.print(e.Body, false)
		p.pop()
		if paren {
			p.buf.WriteByte(')')
		}
	case *Let:
		if paren {
			p.buf.WriteByte('(')
		}
		fmt.Fprintf(&p.buf, "let %s : ", binderName(e.Name))
		p.print(e.Type, false)
		p.buf.WriteString(" := ")
		p.print(e.Value, false)
		p.buf.WriteString("; ")
		p.push(e.Name)
		p.print(e.Body, false)
		p.pop()
		if paren {
			p.buf.WriteByte(')')
		}
	case *Proj:
		p.print(e.Struct, true)
		fmt.Fprintf(&p.buf, ".%d", e.Idx+1)
	case nil:
		p.buf.WriteString("<nil>")
	}
}

func binderName(n Name) string {
	if n == Anonymous {
		return "_"
	}
	return string(n)
}

// dependsOnBVar0 reports whether BVar 0 occurs loose in e.
func dependsOnBVar0(e Expr) bool {
	found := false
	var visit func(e Expr, offset uint32)
	visit = func(e Expr, offset uint32) {
		if found || e.LooseBVarRange() <= offset {
			return
		}
		switch e := e.(type) {
		case *BVar:
			found = e.Idx == offset
		case *App:
			visit(e.Fn, offset)
			visit(e.Arg, offset)
		case *Lambda:
			visit(e.Type, offset)
			visit(e.Body, offset+1)
		case *Pi:
			visit(e.Type, offset)
			visit(e.Body, offset+1)
		case *Let:
			visit(e.Type, offset)
			visit(e.Value, offset)
			visit(e.Body, offset+1)
		case *Proj:
			visit(e.Struct, offset)
		}
	}
	visit(e, 0)
	return found
}
