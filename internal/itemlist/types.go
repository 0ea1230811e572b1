package itemlist

import "errors"

// ErrNoImages is returned when a list resolves to zero images.
var ErrNoImages = errors.New("itemlist: no images")

// ItemDef holds one carousel image from a list file or directory scan.
type ItemDef struct {
	Index int
	Src   string // absolute or list-relative path, resolved by Parse
	Alt   string
	Title string
}
