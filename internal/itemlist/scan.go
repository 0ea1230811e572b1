package itemlist

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// imageExts lists the extensions picked up by a directory scan.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".tga":  true,
}

// ScanDir lists the images directly inside dir, sorted by name. Alt text
// is the file stem; title is the file name.
func ScanDir(dir string) ([]ItemDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("itemlist: scan %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, fmt.Errorf("itemlist: %s: %w", dir, ErrNoImages)
	}

	items := make([]ItemDef, len(names))
	for i, name := range names {
		items[i] = ItemDef{
			Index: i,
			Src:   filepath.Join(dir, name),
			Alt:   strings.TrimSuffix(name, filepath.Ext(name)),
			Title: name,
		}
	}
	return items, nil
}
