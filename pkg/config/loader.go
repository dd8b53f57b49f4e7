package config

import (
	"os"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/pkg/errors"
)

var ErrValueNotFound = errors.New("value not found")

// Loader reads CUE files lazily and validates each one against a closed
// schema. Files are searched in order; the first one defining a path wins.
type Loader struct {
	getRoots func() ([]rootInfo, error)
}

type rootInfo struct {
	value cue.Value
	path  string
}

func NewLoader(filePaths []string, schemaSrc string) Loader {
	return Loader{
		getRoots: sync.OnceValues(func() (ret []rootInfo, err error) {
			ctx := cuecontext.New()

			var schema cue.Value
			if schemaSrc != "" {
				schema = ctx.CompileString("close({" + schemaSrc + "})")
				if err := schema.Err(); err != nil {
					return nil, errors.Wrap(err, "compile schema")
				}
			}

			for _, filePath := range filePaths {
				content, err := os.ReadFile(filePath)
				if err != nil {
					return nil, errors.Wrap(err, "read config")
				}

				value := ctx.CompileBytes(content, cue.Filename(filePath))
				if err := value.Err(); err != nil {
					return nil, errors.Wrapf(err, "compile %s", filePath)
				}

				// lookups go to the file value so absent optional
				// fields stay absent
				if schema.Exists() {
					if err := schema.Unify(value).Validate(); err != nil {
						return nil, errors.Wrapf(err, "validate %s", filePath)
					}
				}

				ret = append(ret, rootInfo{
					value: value,
					path:  filePath,
				})
			}

			return
		}),
	}
}

// AssignFirst decodes the value at path from the first file that defines it.
// It returns ErrValueNotFound when no file does.
func (l Loader) AssignFirst(path string, target any) error {
	roots, err := l.getRoots()
	if err != nil {
		return err
	}

	cuePath := cue.ParsePath(path)
	for _, info := range roots {
		value := info.value.LookupPath(cuePath)
		if !value.Exists() {
			continue
		}
		if err := value.Decode(target); err != nil {
			return errors.Wrapf(err, "decode %s in %s", path, info.path)
		}
		return nil
	}

	return ErrValueNotFound
}

// Files returns the paths the loader reads, in search order.
func (l Loader) Files() ([]string, error) {
	roots, err := l.getRoots()
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(roots))
	for _, info := range roots {
		paths = append(paths, info.path)
	}
	return paths, nil
}
