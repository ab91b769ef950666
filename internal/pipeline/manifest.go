package pipeline

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/conn-castle/ladder/internal/change"
	"github.com/conn-castle/ladder/internal/manifest"
	"github.com/conn-castle/ladder/internal/messages"
	"github.com/conn-castle/ladder/internal/upgrade"
)

// EditJSONManifest reads the JSON manifest at path through uc, applies edit,
// and returns a result when edit recorded changes. A missing manifest yields nil.
func EditJSONManifest(uc *upgrade.Context, path string, edit func(doc *manifest.Document) []change.Change) (*change.StepResult, error) {
	content, err := uc.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf(messages.PipelineManifestReadFmt, path, err)
	}
	doc, err := manifest.Parse([]byte(content))
	if err != nil {
		return nil, fmt.Errorf(messages.PipelineManifestParseFmt, path, err)
	}
	changes := edit(doc)
	if len(changes) == 0 {
		return nil, nil
	}
	out, err := doc.Bytes()
	if err != nil {
		return nil, err
	}
	return &change.StepResult{
		Path:               path,
		OriginalContent:    content,
		TransformedContent: string(out),
		Changes:            changes,
	}, nil
}
