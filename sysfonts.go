package seal

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/adrg/sysfont"
)

// FontFile is a font on disk for one weight of a family.
type FontFile struct {
	Path string
	Bold bool
}

// FontLocator finds font files for a logical family.
type FontLocator interface {
	Locate(family string) []FontFile
}

type fileNames struct {
	regular []string
	bold    []string
}

// knownFontFiles lists the file names the catalog families ship under on
// Windows and macOS, keyed by normalised family.
var knownFontFiles = map[string]fileNames{
	"dfkai-sb":           {regular: []string{"kaiu.ttf"}},
	"microsoft jhenghei": {regular: []string{"msjh.ttc", "msjh.ttf"}, bold: []string{"msjhbd.ttc", "msjhbd.ttf"}},
	"simhei":             {regular: []string{"simhei.ttf"}},
	"simsun":             {regular: []string{"simsun.ttc", "simsun.ttf"}},
	"times new roman": {
		regular: []string{"times.ttf", "times new roman.ttf"},
		bold:    []string{"timesbd.ttf", "times new roman bold.ttf"},
	},
}

// SystemFonts locates fonts installed on the machine. The font directories
// are scanned once, on first use.
type SystemFonts struct {
	once  sync.Once
	fonts []*sysfont.Font
}

// NewSystemFonts returns a locator over the system font directories.
func NewSystemFonts() *SystemFonts {
	return &SystemFonts{}
}

// Locate returns at most one regular and one bold file for family.
func (s *SystemFonts) Locate(family string) []FontFile {
	s.once.Do(func() {
		finder := sysfont.NewFinder(&sysfont.FinderOpts{
			Extensions: []string{".ttf", ".ttc", ".otf"},
		})
		s.fonts = finder.List()
		Logger().Debug("system fonts scanned", "count", len(s.fonts))
	})
	return matchFontFiles(family, s.fonts)
}

// matchFontFiles picks files for family by well-known file name first, then
// by the family name recorded in the font. Italic faces are ignored.
func matchFontFiles(family string, fonts []*sysfont.Font) []FontFile {
	name := normalizeFamily(family)
	if name == "" {
		return nil
	}

	sorted := make([]*sysfont.Font, 0, len(fonts))
	for _, f := range fonts {
		if f != nil && f.Filename != "" {
			sorted = append(sorted, f)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Filename < sorted[j].Filename })

	var regular, bold string
	known := knownFontFiles[name]
	for _, f := range sorted {
		base := strings.ToLower(filepath.Base(f.Filename))
		if regular == "" && contains(known.regular, base) {
			regular = f.Filename
		}
		if bold == "" && contains(known.bold, base) {
			bold = f.Filename
		}
	}

	for _, f := range sorted {
		if normalizeFamily(f.Family) != name {
			continue
		}
		style := strings.ToLower(f.Name)
		if strings.Contains(style, "italic") || strings.Contains(style, "oblique") {
			continue
		}
		if strings.Contains(style, "bold") {
			if bold == "" {
				bold = f.Filename
			}
		} else if regular == "" {
			regular = f.Filename
		}
	}

	var out []FontFile
	if regular != "" {
		out = append(out, FontFile{Path: regular})
	}
	if bold != "" {
		out = append(out, FontFile{Path: bold, Bold: true})
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
