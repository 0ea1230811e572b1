package itemlist

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// xmlCarousel matches the carousel XML schema:
//
//	<Carousel>
//	  <Image Src="a.png" Alt="..." Title="..."/>
//	</Carousel>
type xmlCarousel struct {
	Images []xmlImage `xml:"Image"`
}

type xmlImage struct {
	Src   string `xml:"Src,attr"`
	Alt   string `xml:"Alt,attr"`
	Title string `xml:"Title,attr"`
}

// yamlCarousel matches the YAML list schema:
//
//	images:
//	  - src: a.png
//	    alt: ...
//	    title: ...
type yamlCarousel struct {
	Images []yamlImage `yaml:"images"`
}

type yamlImage struct {
	Src   string `yaml:"src"`
	Alt   string `yaml:"alt"`
	Title string `yaml:"title"`
}

// Parse reads an image list. path may be an XML or YAML list file or a
// directory of images. Relative sources resolve against the list's
// directory. Entries without a source are skipped.
func Parse(path string) ([]ItemDef, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("itemlist: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return ScanDir(path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("itemlist: read %s: %w", path, err)
	}

	var entries [][3]string
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xml":
		var list xmlCarousel
		if err := xml.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("itemlist: parse %s: %w", path, err)
		}
		for _, im := range list.Images {
			entries = append(entries, [3]string{im.Src, im.Alt, im.Title})
		}
	case ".yaml", ".yml":
		var list yamlCarousel
		if err := yaml.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("itemlist: parse %s: %w", path, err)
		}
		for _, im := range list.Images {
			entries = append(entries, [3]string{im.Src, im.Alt, im.Title})
		}
	default:
		return nil, fmt.Errorf("itemlist: unknown list format: %s", ext)
	}

	base := filepath.Dir(path)
	var items []ItemDef
	for _, e := range entries {
		src := strings.TrimSpace(e[0])
		if src == "" {
			continue
		}
		if !filepath.IsAbs(src) {
			src = filepath.Join(base, src)
		}
		items = append(items, ItemDef{
			Index: len(items),
			Src:   src,
			Alt:   e[1],
			Title: e[2],
		})
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("itemlist: %s: %w", path, ErrNoImages)
	}
	return items, nil
}
