// Package utils contains general helper functions used across arbor.
package utils

import (
	"path/filepath"
	"strings"
)

// Filesystem naming constants used across the project.
const (
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// HiddenEntryPrefix marks hidden files and directories.
	HiddenEntryPrefix = "."
	// CurrentDirectoryName is the display name used when a root has no base name.
	CurrentDirectoryName = "."
	// CurrentDirectoryPrefix is the root-relative marker stripped from lookup keys.
	CurrentDirectoryPrefix = "./"
)

const pathSegmentSeparator = "/"

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept. Blank patterns are dropped.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		if _, exists := encounteredPatterns[trimmedPattern]; !exists {
			encounteredPatterns[trimmedPattern] = struct{}{}
			result = append(result, trimmedPattern)
		}
	}
	return result
}

// RelativePathOrSelf calculates the slash-separated relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return CurrentDirectoryName
	}

	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// IsHiddenName reports whether a base name denotes a hidden entry.
func IsHiddenName(name string) bool {
	return strings.HasPrefix(name, HiddenEntryPrefix) && name != CurrentDirectoryName && name != ".."
}

// RootDisplayName returns the name shown for a walk root: its base name,
// or "." when the path has none (".", "..", or the filesystem root).
func RootDisplayName(rootPath string) string {
	baseName := filepath.Base(filepath.Clean(rootPath))
	switch baseName {
	case CurrentDirectoryName, "..", pathSegmentSeparator:
		return CurrentDirectoryName
	}
	if filepath.VolumeName(rootPath) != "" && baseName == filepath.VolumeName(rootPath)+string(filepath.Separator) {
		return CurrentDirectoryName
	}
	return baseName
}

// StripCurrentDirectoryPrefix removes a leading "./" marker; a lone "." becomes empty.
func StripCurrentDirectoryPrefix(relativePath string) string {
	if relativePath == CurrentDirectoryName {
		return EmptyString
	}
	return strings.TrimPrefix(relativePath, CurrentDirectoryPrefix)
}

// ShouldIgnoreByPath reports whether a path relative to the processing root
// matches one of the explicit exclusion patterns. The candidate path and every
// pattern are converted to forward-slash form before evaluation. Patterns
// are split into hierarchical segments, allowing nested directory prefixes such
// as "subdir/node_modules/" and "subdir/.clasp.json" to match. A pattern ending
// with a trailing slash matches the specified directory and all descendant paths.
// Single-segment patterns match the last path segment anywhere in the tree.
// Other patterns match an exact path where each segment is evaluated with
// filepath.Match semantics.
func ShouldIgnoreByPath(relativePath string, ignorePatterns []string) bool {
	normalizedPath := strings.ReplaceAll(relativePath, "\\", pathSegmentSeparator)
	pathSegments := strings.Split(normalizedPath, pathSegmentSeparator)
	lastSegment := pathSegments[len(pathSegments)-1]

	for _, patternValue := range ignorePatterns {
		normalizedPattern := strings.ReplaceAll(patternValue, "\\", pathSegmentSeparator)
		isDirectoryPattern := strings.HasSuffix(normalizedPattern, pathSegmentSeparator)
		trimmedPattern := strings.TrimSuffix(normalizedPattern, pathSegmentSeparator)
		if trimmedPattern == "" {
			continue
		}
		patternSegments := strings.Split(trimmedPattern, pathSegmentSeparator)

		if isDirectoryPattern {
			if len(patternSegments) == 1 {
				if anySegmentMatches(pathSegments, patternSegments[0]) {
					return true
				}
				continue
			}
			if len(pathSegments) >= len(patternSegments) && segmentsMatch(pathSegments[:len(patternSegments)], patternSegments) {
				return true
			}
			continue
		}

		if len(patternSegments) == 1 {
			isMatched, matchError := filepath.Match(patternSegments[0], lastSegment)
			if matchError == nil && isMatched {
				return true
			}
			continue
		}

		if len(pathSegments) == len(patternSegments) && segmentsMatch(pathSegments, patternSegments) {
			return true
		}
	}

	return false
}

// segmentsMatch reports whether each pattern segment matches the corresponding
// path segment using filepath.Match semantics.
func segmentsMatch(pathSegments, patternSegments []string) bool {
	for segmentIndex, patternSegment := range patternSegments {
		isMatched, matchError := filepath.Match(patternSegment, pathSegments[segmentIndex])
		if matchError != nil || !isMatched {
			return false
		}
	}
	return true
}

func anySegmentMatches(pathSegments []string, patternSegment string) bool {
	for _, pathSegment := range pathSegments {
		isMatched, matchError := filepath.Match(patternSegment, pathSegment)
		if matchError == nil && isMatched {
			return true
		}
	}
	return false
}
