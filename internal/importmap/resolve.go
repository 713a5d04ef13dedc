package importmap

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/spaforge/internal/config"
	serrors "git.home.luguber.info/inful/spaforge/internal/errors"
)

// Default candidate locations probed when no explicit path is configured.
const (
	defaultMapPattern = "src/importMap.%s.json"
	defaultMapPath    = "src/importMap.json"
)

// Source is a located import map: the exact file bytes (passed through
// verbatim into the injected script body) plus the declared map type.
type Source struct {
	// Content is the raw file text, byte-for-byte.
	Content []byte

	// Type is the script type attribute for the injected tag. Declared by
	// configuration, independent of which candidate file matched.
	Type config.MapType

	// Path is the candidate that matched, for logging and watching.
	Path string
}

// Candidates returns the ordered lookup chain for the given options and
// environment: explicit path for the active command, then the mode-specific
// default, then the generic default. Precedence is positional; evaluation is
// lazy, short-circuiting on the first existing candidate.
func Candidates(opts *config.ImportMapsOptions, env config.Environment) []string {
	var paths []string

	if opts != nil {
		explicit := opts.Dev
		if env.Command == config.CommandBuild {
			explicit = opts.Build
		}
		if explicit != "" {
			paths = append(paths, explicit)
		}
	}

	if env.Mode != "" {
		paths = append(paths, fmt.Sprintf(defaultMapPattern, env.Mode))
	}
	paths = append(paths, defaultMapPath)

	return paths
}

// ResolveSource walks the candidate chain and loads the first existing file.
// A miss on every candidate is not an error: it yields (nil, nil) and no tag
// gets injected. A read failure after a positive existence check is fatal and
// propagates unmasked; existence and read are assumed consistent, so there is
// no retry and no fallback to later candidates.
func ResolveSource(ctx context.Context, opts *config.ImportMapsOptions, env config.Environment, fr FileResolver) (*Source, error) {
	mapType := config.MapTypeOverridable
	if opts != nil && opts.Type != "" {
		mapType = opts.Type
	}

	for _, path := range Candidates(opts, env) {
		ok, err := fr.Exists(ctx, path)
		if err != nil {
			return nil, serrors.FileExistsError(path, err)
		}
		if !ok {
			continue
		}

		content, err := fr.ReadFile(ctx, path)
		if err != nil {
			return nil, serrors.ImportMapReadError(path, err)
		}

		return &Source{Content: content, Type: mapType, Path: path}, nil
	}

	return nil, nil
}
