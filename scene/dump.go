package scene

import (
	"fmt"
	"io"
	"strings"

	"ecss/ecs"
)

// Dump writes the subtree rooted at e with the styled state of every
// component, one entity per line, children indented.
func Dump(out io.Writer, w *ecs.World, e ecs.Entity) {
	dump(out, w, e, 0)
}

func dump(out io.Writer, w *ecs.World, e ecs.Entity, depth int) {
	indent := strings.Repeat("  ", depth)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s- entity %d", indent, e)
	if name := w.Name(e); name != "" {
		fmt.Fprintf(&sb, " #%s", name)
	}
	if classes := w.ClassList(e); classes != "" {
		fmt.Fprintf(&sb, " [%s]", classes)
	}
	fmt.Fprintln(out, sb.String())

	if c, ok := w.Component(e, ecs.TagLayout); ok {
		l := c.(*ecs.Layout)
		fmt.Fprintf(out, "%s    layout: size %s x %s, margin %v, padding %v\n",
			indent, l.Width, l.Height, l.Margin, l.Padding)
	}
	if c, ok := w.Component(e, ecs.TagText); ok {
		t := c.(*ecs.Text)
		fmt.Fprintf(out, "%s    text: %q font %q size %g color %s\n",
			indent, t.Content, t.Font, t.FontSize, t.Color)
	}
	if c, ok := w.Component(e, ecs.TagBackground); ok {
		fmt.Fprintf(out, "%s    background: %s\n", indent, c.(*ecs.Background).Color)
	}
	if c, ok := w.Component(e, ecs.TagImage); ok {
		fmt.Fprintf(out, "%s    image: %q\n", indent, c.(*ecs.Image).Path)
	}

	for _, child := range w.Children(e) {
		dump(out, w, child, depth+1)
	}
}
