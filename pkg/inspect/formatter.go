package inspect

import (
	"fmt"
	"strings"

	"github.com/regio-project/regio-go/pkg/model"
	"github.com/regio-project/regio-go/pkg/path"
)

// Radix selects how values are printed.
type Radix uint8

const (
	Hex Radix = iota
	Bin
	Dec
)

// String returns the radix name.
func (r Radix) String() string {
	switch r {
	case Hex:
		return "hex"
	case Bin:
		return "bin"
	case Dec:
		return "dec"
	default:
		return fmt.Sprintf("radix(%d)", r)
	}
}

// ParseRadix parses "hex", "bin" or "dec".
func ParseRadix(s string) (Radix, error) {
	switch strings.ToLower(s) {
	case "hex", "x":
		return Hex, nil
	case "bin", "b":
		return Bin, nil
	case "dec", "d":
		return Dec, nil
	}
	return Hex, fmt.Errorf("unknown radix %q", s)
}

// Formatter formats inspection output.
type Formatter struct {
	// ShowPolicy includes write functions and access in tree dumps.
	ShowPolicy bool

	// Radix for values.
	Radix Radix

	// IndentWidth is the number of spaces per indent level.
	IndentWidth int
}

// NewFormatter creates a new Formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{
		ShowPolicy:  true,
		Radix:       Hex,
		IndentWidth: 2,
	}
}

// Indent returns the content with indentation.
func (f *Formatter) Indent(depth int, content string) string {
	width := f.IndentWidth
	if width == 0 {
		width = 2
	}
	return strings.Repeat(" ", depth*width) + content
}

// FormatValue formats v as a value of the given bit width, zero padded to
// the width for hex and binary.
func (f *Formatter) FormatValue(v uint64, width int) string {
	return FormatValue(v, width, f.Radix)
}

// FormatValue formats v as a value of the given bit width in radix r.
func FormatValue(v uint64, width int, r Radix) string {
	if width <= 0 || width > 64 {
		width = 64
	}
	switch r {
	case Bin:
		return fmt.Sprintf("0b%0*b", width, v)
	case Dec:
		return fmt.Sprintf("%d", v)
	default:
		return fmt.Sprintf("0x%0*x", (width+3)/4, v)
	}
}

// BitRange formats a field range as "[n]" or "[msb:lsb]".
func BitRange(msb, lsb int) string {
	if msb == lsb {
		return fmt.Sprintf("[%d]", msb)
	}
	return fmt.Sprintf("[%d:%d]", msb, lsb)
}

// FormatTree dumps a group with its registers, fields and subfields.
func (f *Formatter) FormatTree(g *model.Group) string {
	var sb strings.Builder
	sb.WriteString(g.Name())
	sb.WriteString("\n")
	for _, r := range g.Registers() {
		line := fmt.Sprintf("%s @0x%08x (%d bits)", r.Name(), r.Address(), r.Width())
		if f.ShowPolicy && !r.Policy().IsDefault() {
			line += " " + r.Policy().String()
		}
		sb.WriteString(f.Indent(1, line))
		sb.WriteString("\n")
		f.formatFields(&sb, r.Fields(), 2)
	}
	return sb.String()
}

func (f *Formatter) formatFields(sb *strings.Builder, fields []*model.Field, depth int) {
	for _, fd := range fields {
		line := fd.Name() + " " + BitRange(fd.Msb(), fd.Lsb())
		if f.ShowPolicy && !fd.Policy().IsDefault() {
			line += " " + fd.Policy().String()
		}
		if names := fd.EnumNames(); len(names) > 0 {
			line += " {" + strings.Join(names, ", ") + "}"
		}
		sb.WriteString(f.Indent(depth, line))
		sb.WriteString("\n")
		f.formatFields(sb, fd.SubFields(), depth+1)
	}
}

// FormatTree dumps a group with the default formatter.
func FormatTree(g *model.Group) string { return NewFormatter().FormatTree(g) }

// FormatField formats a field value, appending the enum name when the
// value has one.
func (f *Formatter) FormatField(fd *model.Field, v uint64) string {
	s := f.FormatValue(v, fd.Width())
	if name, ok := fd.EnumName(v); ok {
		s += " (" + name + ")"
	}
	return s
}

// FormatRegister dumps a register value with a breakdown of its fields.
// Write-only fields read back undefined data and are marked as such.
func (f *Formatter) FormatRegister(r *model.Register, v uint64) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s = %s\n", r.Name(), f.FormatValue(v&r.Mask(), r.Width())))
	f.formatFieldValues(&sb, r.Fields(), v, 1)
	return sb.String()
}

func (f *Formatter) formatFieldValues(sb *strings.Builder, fields []*model.Field, v uint64, depth int) {
	for _, fd := range fields {
		var val string
		if fd.Policy().IsWriteOnly() {
			val = "<write-only>"
		} else {
			val = f.FormatField(fd, fd.Extract(v))
		}
		sb.WriteString(f.Indent(depth, fmt.Sprintf("%s %s = %s", fd.Name(), BitRange(fd.Msb(), fd.Lsb()), val)))
		sb.WriteString("\n")
		f.formatFieldValues(sb, fd.SubFields(), v, depth+1)
	}
}

// FormatAssignments formats read results, one "path = value" per line.
// Paths are resolved against g to size the values.
func (f *Formatter) FormatAssignments(g *model.Group, values []path.Assignment) string {
	var sb strings.Builder
	for _, a := range values {
		o := g.Resolve(a.Path)
		var val string
		switch e := o.Entity.(type) {
		case *model.Field:
			val = f.FormatField(e, a.Value)
		case *model.Register:
			val = f.FormatValue(a.Value, e.Width())
		default:
			val = f.FormatValue(a.Value, 64)
		}
		sb.WriteString(fmt.Sprintf("%s = %s\n", a.Path, val))
	}
	return sb.String()
}
