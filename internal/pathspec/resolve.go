package pathspec

import (
	"errors"
)

// Resolve finds the concrete path under root matching pattern.
//
// Literal and Wildcard segments commit to their single candidate. An
// Alternatives segment tries each existing candidate in order and abandons it
// when the rest of the pattern fails beneath it. When nothing matches the
// error is a *NotFoundError naming root joined with the whole pattern.
func Resolve(root string, pattern Pattern) (string, error) {
	path, err := resolve(root, pattern)
	if err != nil {
		if errors.Is(err, errNoMatch) {
			return "", &NotFoundError{Kind: ErrDirectoryNotFound, Path: pattern.Join(root)}
		}
		return "", err
	}
	return path, nil
}

func resolve(root string, pattern Pattern) (string, error) {
	if len(pattern) == 0 {
		return root, nil
	}
	seg, rest := pattern[0], pattern[1:]

	candidates, err := Match(root, seg, len(rest) == 0)
	if err != nil {
		return "", err
	}

	if seg.kind != KindAlternatives {
		if len(candidates) == 0 {
			return "", errNoMatch
		}
		return resolve(candidates[0], rest)
	}

	for _, candidate := range candidates {
		path, err := resolve(candidate, rest)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, errNoMatch) {
			return "", err
		}
	}
	return "", errNoMatch
}
