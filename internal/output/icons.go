package output

import "strings"

// Nerd Font glyphs.
const (
	defaultDirectoryIcon = '\uf115'
	defaultFileIcon      = '\uf016'
)

var directoryIcons = map[string]rune{
	"src":          '\U000f08de',
	".git":         '\ue5fb',
	".github":      '\ue5fd',
	"node_modules": '\ue5fa',
}

var fileNameIcons = map[string]rune{
	"README.md":  '\U000f00ba',
	"go.mod":     '\ue627',
	"go.sum":     '\ue627',
	"Makefile":   '\ue779',
	"Dockerfile": '\uf308',
}

var fileExtensionIcons = map[string]rune{
	"rs":   '\ue7a8',
	"go":   '\ue627',
	"py":   '\ue606',
	"js":   '\ue74e',
	"ts":   '\ue628',
	"md":   '\uf48a',
	"json": '\ue60b',
	"yaml": '\ue6a8',
	"yml":  '\ue6a8',
	"toml": '\ue6b2',
	"txt":  '\uf15c',
	"png":  '\uf1c5',
	"jpg":  '\uf1c5',
	"jpeg": '\uf1c5',
	"gif":  '\uf1c5',
	"svg":  '\uf1c5',
	"pdf":  '\uf1c1',
	"sh":   '\uf489',
}

func directoryIcon(name string) rune {
	if icon, found := directoryIcons[name]; found {
		return icon
	}
	return defaultDirectoryIcon
}

func fileIcon(name string) rune {
	if icon, found := fileNameIcons[name]; found {
		return icon
	}
	separatorIndex := strings.LastIndex(name, extensionSplitter)
	if separatorIndex >= 0 {
		if icon, found := fileExtensionIcons[strings.ToLower(name[separatorIndex+1:])]; found {
			return icon
		}
	}
	return defaultFileIcon
}

func iconFor(name string, isDirectory bool) rune {
	if isDirectory {
		return directoryIcon(name)
	}
	return fileIcon(name)
}
