package main

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/regio-project/regio-go/pkg/model"
)

// initialisms are path segments spelled in upper case in identifiers.
var initialisms = map[string]bool{
	"gpio": true,
	"irq":  true,
	"rx":   true,
	"tx":   true,
	"uart": true,
}

type pathData struct {
	Ident string
	Path  string
}

type mapData struct {
	Name  string
	Paths []pathData
}

type fileData struct {
	Package string
	Maps    []mapData
}

// collect lists every register and field path of g, depth first.
func collect(g *model.Group) (mapData, error) {
	m := mapData{Name: g.Name()}
	seen := make(map[string]string)

	add := func(p string) error {
		id := identifier(g.Name(), p)
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("map %s: %s and %s both map to %s", g.Name(), prev, p, id)
		}
		seen[id] = p
		m.Paths = append(m.Paths, pathData{Ident: id, Path: p})
		return nil
	}

	var walk func(prefix string, fields []*model.Field) error
	walk = func(prefix string, fields []*model.Field) error {
		for _, f := range fields {
			p := prefix + "." + f.Name()
			if err := add(p); err != nil {
				return err
			}
			if err := walk(p, f.SubFields()); err != nil {
				return err
			}
		}
		return nil
	}

	for _, r := range g.Registers() {
		if err := add(r.Name()); err != nil {
			return mapData{}, err
		}
		if err := walk(r.Name(), r.Fields()); err != nil {
			return mapData{}, err
		}
	}
	return m, nil
}

// identifier converts map "uart" and path "ctrl.baud_div" to
// "UARTCtrlBaudDiv".
func identifier(mapName, p string) string {
	var b strings.Builder
	b.WriteString(titleWord(mapName))
	for _, seg := range strings.Split(p, ".") {
		for _, word := range strings.Split(seg, "_") {
			b.WriteString(titleWord(word))
		}
	}
	return b.String()
}

func titleWord(w string) string {
	if w == "" {
		return ""
	}
	if initialisms[strings.ToLower(w)] {
		return strings.ToUpper(w)
	}
	return strings.ToUpper(w[:1]) + w[1:]
}

var fileTmpl = template.Must(template.New("paths").Parse(`// Code generated by regio-pathgen. DO NOT EDIT.

package {{.Package}}
{{range .Maps}}
// Paths of the {{.Name}} map.
const (
{{- range .Paths}}
	{{.Ident}} = {{printf "%q" .Path}}
{{- end}}
)
{{end}}
// Paths returns the generated paths of the named map.
func Paths(name string) []string {
	switch name {
{{- range .Maps}}
	case {{printf "%q" .Name}}:
		return []string{
{{- range .Paths}}
			{{.Ident}},
{{- end}}
		}
{{- end}}
	}
	return nil
}
`))

// Generate renders the path constants file. The output is not formatted.
func Generate(data fileData) (string, error) {
	var b strings.Builder
	if err := fileTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering paths: %w", err)
	}
	return b.String(), nil
}
