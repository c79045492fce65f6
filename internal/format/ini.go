package format

import (
	"bytes"
	"fmt"
	"strings"

	ini "gopkg.in/ini.v1"
)

// INI loads and serializes INI files, keeping section and key comments
// through the ini library's own file model.
type INI struct{}

func (INI) Load(text string) (*ini.File, error) {
	f, err := ini.Load([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("parse ini: %w", err)
	}
	return f, nil
}

func (INI) Dump(f *ini.File) (string, error) {
	if f == nil || iniEmpty(f) {
		return "", nil
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("serialize ini: %w", err)
	}
	return ensureTrailingNewline(buf.String()), nil
}

func (INI) Empty() *ini.File {
	return ini.Empty()
}

// iniEmpty reports whether the file holds no keys in any section. A file
// with only the implicit default section and no keys serializes to "".
func iniEmpty(f *ini.File) bool {
	for _, sec := range f.Sections() {
		if sec.Name() != ini.DefaultSection {
			return false
		}
		if len(sec.Keys()) > 0 {
			return false
		}
	}
	return true
}

// SplitSectionKey splits a dotted "section.key" reference as used by the
// CLI get/set commands. A bare key addresses the default section.
func SplitSectionKey(ref string) (section, key string) {
	if i := strings.LastIndex(ref, "."); i >= 0 {
		return ref[:i], ref[i+1:]
	}
	return ini.DefaultSection, ref
}
