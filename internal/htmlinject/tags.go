// Package htmlinject decides which tags a root application's HTML page
// receives: the import map script, the import-map-overrides runtime, and the
// overrides UI element. It produces an ordered tag sequence; serializing tags
// into markup belongs to htmlpage.
package htmlinject

import (
	"fmt"

	"git.home.luguber.info/inful/spaforge/internal/config"
	"git.home.luguber.info/inful/spaforge/internal/importmap"
)

// Tag is a single element to inject. Ordering of a produced sequence is part
// of the contract: import map first, then the overrides runtime, then the UI
// element, since later tags depend on earlier ones having executed.
type Tag struct {
	Name     string            `json:"tag"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children string            `json:"children,omitempty"`
}

const imoCDNPattern = "https://cdn.jsdelivr.net/npm/import-map-overrides@%s/dist/import-map-overrides.js"

// MapTag produces the import map script tag. The source content is the exact
// file bytes; no reparsing or reformatting happens on the way in.
func MapTag(src *importmap.Source) Tag {
	return Tag{
		Name:     "script",
		Attrs:    map[string]string{"type": string(src.Type)},
		Children: string(src.Content),
	}
}

// ImoTags produces the overrides runtime script and UI element tags, in that
// order. Without a found import map there is nothing to override, so both are
// suppressed even when explicitly requested.
func ImoTags(opts *config.RootOptions, mapFound bool) []Tag {
	if opts == nil || !mapFound {
		return nil
	}

	var tags []Tag

	if !opts.Imo.Disabled() {
		src, ok := opts.Imo.CustomURL()
		if !ok {
			src = fmt.Sprintf(imoCDNPattern, opts.Imo.Version())
		}
		tags = append(tags, Tag{
			Name: "script",
			Attrs: map[string]string{
				"type": "text/javascript",
				"src":  src,
			},
		})
	}

	if !opts.ImoUi.Disabled {
		tags = append(tags, imoUiTag(opts.ImoUi))
	}

	return tags
}

func imoUiTag(ui config.ImoUiSetting) Tag {
	variant := ui.EffectiveVariant()
	tag := Tag{Name: "import-map-overrides-" + string(variant)}

	// Only the full variant has a configurable surface; list and popup carry
	// zero attributes.
	if variant == config.ImoUiFull {
		pos := ui.ButtonPos
		if pos == "" {
			pos = config.ButtonPosBottomRight
		}
		key := ui.LocalStorageKey
		if key == "" {
			key = "imo-ui"
		}
		tag.Attrs = map[string]string{
			"trigger-position":        pos,
			"show-when-local-storage": key,
		}
	}

	return tag
}
