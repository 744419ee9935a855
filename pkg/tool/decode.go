package tool

import "github.com/mitchellh/mapstructure"

// DecodeArgs decodes a generic args map (as carried by an
// event.ActionPayload.Input) into a typed Go struct, matching how the
// teacher decodes loosely-typed config/tool maps throughout its config
// loader. Concrete tool implementations use this at the top of Call
// instead of hand-walking the map.
func DecodeArgs(args map[string]any, out any) error {
	return mapstructure.Decode(args, out)
}
