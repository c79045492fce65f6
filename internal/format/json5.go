package format

import (
	"fmt"
	"strings"

	"github.com/dkw-au/mra/internal/json5"
)

// JSON5 loads and serializes the narrow JSON5 dialect used by renovate
// and similar tool configurations. The tree model keeps comments attached
// to the nodes they describe and reprints untouched values byte for byte.
type JSON5 struct{}

func (JSON5) Load(text string) (*json5.Object, error) {
	if strings.TrimSpace(text) == "" {
		return json5.NewObject(), nil
	}
	node, err := json5.Parse(text)
	if err != nil {
		return nil, err
	}
	obj, ok := node.(*json5.Object)
	if !ok {
		return nil, fmt.Errorf("%w: document root is not an object", json5.ErrDialect)
	}
	return obj, nil
}

func (JSON5) Dump(obj *json5.Object) (string, error) {
	if obj == nil || obj.Len() == 0 {
		return "", nil
	}
	return json5.Print(obj), nil
}

func (JSON5) Empty() *json5.Object {
	return json5.NewObject()
}
