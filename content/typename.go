package content

import (
	"fmt"
	"strings"
)

// TypeName is a parsed assembly-qualified type name.
//
// Version, Culture and PublicKeyToken qualifiers are dropped while parsing,
// at every nesting level of generic argument lists.
type TypeName struct {
	// Name is the namespace-qualified name including generic arity,
	// e.g. "System.Collections.Generic.List`1".
	Name string
	Args []TypeName
	// Array holds array rank suffixes such as "[]".
	Array    string
	Assembly string
	// Qualifiers are the assembly qualifiers that were kept.
	Qualifiers []string
}

var strippedQualifiers = []string{"version", "culture", "publickeytoken"}

// ParseTypeName parses s.
func ParseTypeName(s string) (TypeName, error) {
	p := &typeParser{s: s}
	tn, err := p.qualified(false)
	if err != nil {
		return TypeName{}, err
	}
	p.space()
	if p.pos != len(p.s) {
		return TypeName{}, p.errorf("unexpected %q", p.s[p.pos:])
	}
	return tn, nil
}

// StripQualifiers returns s with version, culture and public key token
// qualifiers removed at every nesting level.
func StripQualifiers(s string) (string, error) {
	tn, err := ParseTypeName(s)
	if err != nil {
		return "", err
	}
	return tn.String(), nil
}

// String renders the name with its assembly.
func (t TypeName) String() string {
	var sb strings.Builder
	t.write(&sb, true)
	return sb.String()
}

// Target renders the name without any assembly, which is how readers
// name the types they produce.
func (t TypeName) Target() string {
	var sb strings.Builder
	t.write(&sb, false)
	return sb.String()
}

// Definition returns the generic definition with its assembly and no
// arguments, the form readers are registered under.
func (t TypeName) Definition() string {
	if t.Assembly == "" {
		return t.Name
	}
	return t.Name + ", " + t.Assembly
}

// ArgTargets returns the target form of every generic argument.
func (t TypeName) ArgTargets() []string {
	out := make([]string, len(t.Args))
	for i, a := range t.Args {
		out[i] = a.Target()
	}
	return out
}

func (t TypeName) write(sb *strings.Builder, assembly bool) {
	sb.WriteString(t.Name)
	if len(t.Args) > 0 {
		sb.WriteByte('[')
		for i, a := range t.Args {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteByte('[')
			a.write(sb, assembly)
			sb.WriteByte(']')
		}
		sb.WriteByte(']')
	}
	sb.WriteString(t.Array)
	if assembly && t.Assembly != "" {
		sb.WriteString(", ")
		sb.WriteString(t.Assembly)
		for _, q := range t.Qualifiers {
			sb.WriteString(", ")
			sb.WriteString(q)
		}
	}
}

// typeParser is a recursive-descent parser over the name grammar:
//
//	qualified := type [ "," assembly { "," qualifier } ]
//	type      := name [ "[" arg { "," arg } "]" ] { rank }
//	arg       := "[" qualified "]" | type
//	rank      := "[" { "," } "]"
type typeParser struct {
	s   string
	pos int
}

func (p *typeParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d in %q",
		ErrMalformedTypeName, fmt.Sprintf(format, args...), p.pos, p.s)
}

func (p *typeParser) space() {
	for p.pos < len(p.s) && p.s[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	if p.pos < len(p.s) {
		return p.s[p.pos]
	}
	return 0
}

// token reads up to the next delimiter and trims spaces.
func (p *typeParser) token() string {
	start := p.pos
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case ',', '[', ']':
			return strings.TrimSpace(p.s[start:p.pos])
		}
		p.pos++
	}
	return strings.TrimSpace(p.s[start:])
}

// qualified parses a type and, unless the type is a bare generic
// argument, its assembly part. Inside brackets the assembly part ends at
// the closing bracket.
func (p *typeParser) qualified(bare bool) (TypeName, error) {
	tn, err := p.typ()
	if err != nil {
		return tn, err
	}
	if bare {
		return tn, nil
	}
	p.space()
	if p.peek() != ',' {
		return tn, nil
	}
	p.pos++
	if tn.Assembly = p.token(); tn.Assembly == "" {
		return tn, p.errorf("empty assembly name")
	}
	for p.peek() == ',' {
		p.pos++
		q := p.token()
		if q == "" {
			return tn, p.errorf("empty qualifier")
		}
		if !isStripped(q) {
			tn.Qualifiers = append(tn.Qualifiers, q)
		}
	}
	return tn, nil
}

func isStripped(qualifier string) bool {
	key, _, ok := strings.Cut(qualifier, "=")
	if !ok {
		return false
	}
	key = strings.ToLower(strings.TrimSpace(key))
	for _, s := range strippedQualifiers {
		if key == s {
			return true
		}
	}
	return false
}

func (p *typeParser) typ() (TypeName, error) {
	p.space()
	var tn TypeName
	if tn.Name = p.token(); tn.Name == "" {
		return tn, p.errorf("empty type name")
	}

	if p.peek() == '[' && !p.atRank() {
		p.pos++
		for {
			arg, err := p.arg()
			if err != nil {
				return tn, err
			}
			tn.Args = append(tn.Args, arg)
			p.space()
			switch p.peek() {
			case ',':
				p.pos++
				continue
			case ']':
				p.pos++
			default:
				return tn, p.errorf("unterminated generic argument list")
			}
			break
		}
	}

	for p.atRank() {
		start := p.pos
		p.pos++
		for p.peek() == ',' {
			p.pos++
		}
		p.pos++
		tn.Array += p.s[start:p.pos]
	}
	return tn, nil
}

func (p *typeParser) arg() (TypeName, error) {
	p.space()
	if p.peek() != '[' {
		return p.qualified(true)
	}
	p.pos++
	tn, err := p.qualified(false)
	if err != nil {
		return tn, err
	}
	p.space()
	if p.peek() != ']' {
		return tn, p.errorf("unterminated generic argument")
	}
	p.pos++
	return tn, nil
}

// atRank reports whether an array rank suffix starts at the cursor.
func (p *typeParser) atRank() bool {
	if p.peek() != '[' {
		return false
	}
	i := p.pos + 1
	for i < len(p.s) && p.s[i] == ',' {
		i++
	}
	return i < len(p.s) && p.s[i] == ']'
}
