package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/qtext/pkg/catalog"
	"github.com/aretw0/qtext/pkg/domain"
	"github.com/muesli/termenv"
)

// swatchPayloadKeys are the payload entries that carry a displayable color.
var swatchPayloadKeys = []string{"color", "background-color"}

// Swatch returns a colored block for a hex color, or "" when the profile
// has no colors or hex is empty.
func Swatch(p termenv.Profile, hex string) string {
	if hex == "" || p == termenv.Ascii {
		return ""
	}
	return termenv.String("■").Foreground(p.Color(hex)).String()
}

// FormatToolbar renders resolved toolbar entries one per line.
func FormatToolbar(p termenv.Profile, c *catalog.Catalog, entries []domain.Resolution) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, formatEntry(p, c, e))
	}
	return strings.Join(lines, "\n")
}

func formatEntry(p termenv.Profile, c *catalog.Catalog, e domain.Resolution) string {
	switch e.Kind {
	case domain.KindGroup, domain.KindBlockGroup:
		line := fmt.Sprintf("%-16s %s", e.Action, e.Value)
		if d, ok := c.Style(e.Value); ok {
			for _, key := range swatchPayloadKeys {
				if s := Swatch(p, d.Payload[key]); s != "" {
					line += " " + s
					break
				}
			}
		}
		return line
	case domain.KindHistory:
		return fmt.Sprintf("%-16s undo %s  redo %s", e.Action, onOff(e.CanUndo), onOff(e.CanRedo))
	case domain.KindMediaInsert:
		return fmt.Sprintf("%-16s insert %s", e.Action, e.Value)
	default:
		box := "[ ]"
		if e.Active {
			box = "[x]"
		}
		return fmt.Sprintf("%-16s %s", e.Action, box)
	}
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

// Options lists the members of a dropdown entry, marking the active one.
func Options(e domain.Resolution) string {
	parts := make([]string, len(e.Options))
	for i, opt := range e.Options {
		if opt == e.Value {
			parts[i] = "*" + opt
		} else {
			parts[i] = opt
		}
	}
	return strings.Join(parts, " ")
}
