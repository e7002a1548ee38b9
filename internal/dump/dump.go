// The dump package writes a readable outline of a zone.
package dump

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"unicode"

	"github.com/clarosa/srzone"
	"github.com/clarosa/srzone/errors"
)

// Dump writes to w a readable representation of f.
func Dump(w io.Writer, f *srzone.File) error {
	if w == nil {
		return errors.New("nil writer")
	}
	if f == nil {
		return errors.New("nil file")
	}

	bw := bufio.NewWriter(w)
	if f.Header != nil {
		bw.WriteString("Header: {")
		dumpHeader(bw, 1, f.Header)
		bw.WriteString("\n}\n")
	}
	if f.Data != nil {
		fmt.Fprintf(bw, "Sections: (count:%d) {", len(f.Data.Sections))
		for i, s := range f.Data.Sections {
			dumpSection(bw, 1, i, s)
		}
		bw.WriteString("\n}\n")
	}
	return bw.Flush()
}

func dumpHeader(w *bufio.Writer, indent int, h *srzone.Header) {
	if t := h.References; t != nil {
		dumpNewline(w, indent)
		fmt.Fprintf(w, "References: (version:%d) (count:%d) {", t.Version, len(t.Names))
		for i, name := range t.Names {
			dumpNewline(w, indent+1)
			fmt.Fprintf(w, "%d: ", i)
			dumpString(w, indent+1, name)
		}
		dumpNewline(w, indent)
		w.WriteByte('}')
	}
	if z := h.WorldZone; z != nil {
		dumpNewline(w, indent)
		w.WriteString("WorldZone: {")
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "Signature: %s", strconv.Quote(z.Signature))
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "Version: %d", z.Version)
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "Offset: %s", z.Offset)
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "ZoneType: %d (%s)", z.ZoneType, z.ZoneType)
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "MeshReferences: (count:%d) {", len(z.MeshReferences))
		for i, m := range z.MeshReferences {
			p, b, h := m.Orientation()
			dumpNewline(w, indent+2)
			fmt.Fprintf(w, "%d: ", i)
			dumpString(w, indent+2, m.File)
			fmt.Fprintf(w, " at %s pbh (%g, %g, %g)", m.Position(), p, b, h)
		}
		dumpNewline(w, indent+1)
		w.WriteByte('}')
		dumpNewline(w, indent)
		w.WriteByte('}')
	}
}

func dumpSection(w *bufio.Writer, indent, i int, s *srzone.Section) {
	dumpNewline(w, indent)
	fmt.Fprintf(w, "#%d: 0x%08X", i, s.ID)
	if desc := s.Description(); desc != "" {
		fmt.Fprintf(w, " (%s)", desc)
	}
	w.WriteString(" {")
	if s.HasGPUData() {
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "GPUSize: %d", s.GPUSize)
	}
	switch p := s.Payload.(type) {
	case nil:
		dumpNewline(w, indent+1)
		w.WriteString("<no CPU data>")
	case srzone.RawBlock:
		dumpNewline(w, indent+1)
		w.WriteString("Bytes: ")
		dumpBytes(w, indent+1, p)
	case *srzone.ObjectTable:
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "Handles: (count:%d)", len(p.Handles))
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "Objects: (count:%d) {", len(p.Objects))
		for j, obj := range p.Objects {
			dumpObject(w, indent+2, j, obj)
		}
		dumpNewline(w, indent+1)
		w.WriteByte('}')
	case *srzone.CrunchedGeometry:
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "FastObjects: (count:%d) {", len(p.FastObjects))
		for j, fo := range p.FastObjects {
			dumpNewline(w, indent+2)
			fmt.Fprintf(w, "#%d: %016X ", j, fo.Handle)
			dumpString(w, indent+2, fo.Name)
			w.WriteString(" in ")
			dumpString(w, indent+2, fo.File)
			fmt.Fprintf(w, " at %s", fo.Position)
		}
		dumpNewline(w, indent+1)
		w.WriteByte('}')
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "MeshVariantData: (len:%d)", len(p.MeshVariantData))
	}
	dumpNewline(w, indent)
	w.WriteByte('}')
}

func dumpObject(w *bufio.Writer, indent, i int, obj *srzone.Object) {
	dumpNewline(w, indent)
	fmt.Fprintf(w, "#%d: ", i)
	if name := obj.Name(); name != "" {
		dumpString(w, indent, name)
		w.WriteByte(' ')
	}
	w.WriteByte('{')
	dumpNewline(w, indent+1)
	fmt.Fprintf(w, "Handle: %016X", obj.Handle)
	dumpNewline(w, indent+1)
	fmt.Fprintf(w, "Parent: %016X", obj.ParentHandle)
	dumpNewline(w, indent+1)
	fmt.Fprintf(w, "Type: %08X", obj.TypeHash)
	if name := obj.TypeName(); name != "" {
		fmt.Fprintf(w, " (%s)", name)
	}
	dumpNewline(w, indent+1)
	fmt.Fprintf(w, "Properties: (count:%d) {", len(obj.Properties))
	for j, p := range obj.Properties {
		dumpNewline(w, indent+2)
		t := p.Value.Type()
		fmt.Fprintf(w, "%d: %08X (type:%d (%s)) ", j, uint32(p.NameHash), t, t)
		switch v := p.Value.(type) {
		case srzone.ValueString:
			dumpString(w, indent+2, string(v))
		case srzone.ValueData:
			dumpBytes(w, indent+2, v.Bytes)
		case srzone.ValueTransform:
			w.WriteString(v.Position.String())
		case srzone.ValueTransformOrientation:
			fmt.Fprintf(w, "%s %s", v.Position, v.Orientation)
		}
	}
	dumpNewline(w, indent+1)
	w.WriteByte('}')
	dumpNewline(w, indent)
	w.WriteByte('}')
}

func dumpNewline(w *bufio.Writer, indent int) {
	w.WriteByte('\n')
	for i := 0; i < indent; i++ {
		w.WriteByte('\t')
	}
}

func dumpString(w *bufio.Writer, indent int, s string) {
	for _, r := range s {
		if !unicode.IsGraphic(r) {
			dumpBytes(w, indent, []byte(s))
			return
		}
	}
	w.WriteString(strconv.Quote(s))
}

func dumpBytes(w *bufio.Writer, indent int, b []byte) {
	fmt.Fprintf(w, "(len:%d)", len(b))
	const width = 16
	for j := 0; j < len(b); j += width {
		dumpNewline(w, indent+1)
		w.WriteString("| ")
		n := len(b)
		if j+width < n {
			n = j + width
		}
		for i := j; i < j+width; i++ {
			if i < n {
				fmt.Fprintf(w, "%02x ", b[i])
			} else {
				w.WriteString("   ")
			}
		}
		w.WriteByte('|')
		for i := j; i < n; i++ {
			if 32 <= b[i] && b[i] <= 126 {
				w.WriteByte(b[i])
			} else {
				w.WriteByte('.')
			}
		}
		w.WriteByte('|')
	}
}
