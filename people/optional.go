package people

import "github.com/zoobzio/lensz"

// Fallbacks returned when a lookup chain finds nothing.
const (
	UnknownArtiste = "unknown"
	DefaultChief   = "Eric"
)

// FirstArtisteName returns the name of the first artiste p follows, or
// UnknownArtiste when p is nil or follows nobody.
func FirstArtisteName(p *Person) string {
	following := lensz.FromPtr(p).Filter(func(p Person) bool {
		return len(p.Artistes) > 0
	})
	return lensz.MapOption(following, func(p Person) string {
		return p.Artistes[0].Name
	}).OrElse(UnknownArtiste)
}

// ChiefName returns the name of p's chief, or DefaultChief when p is nil or
// has no chief.
func ChiefName(p *Person) string {
	chief := lensz.FlatMapOption(lensz.FromPtr(p), func(p Person) lensz.Option[Person] {
		return lensz.FromPtr(p.Chief)
	})
	return lensz.MapOption(chief, nameOf).OrElse(DefaultChief)
}
