// Package utils provides helper functions, including version retrieval.
package utils

import (
	"runtime/debug"
)

const (
	unknownVersion        = "unknown"
	developmentVersion    = "(devel)"
	revisionSettingKey    = "vcs.revision"
	modifiedSettingKey    = "vcs.modified"
	shortRevisionLength   = 7
	dirtyRevisionSuffix   = "-dirty"
	revisionVersionPrefix = "dev-"
)

// GetApplicationVersion determines the application version from Go build info.
// Module versions win; development builds fall back to the embedded VCS revision.
func GetApplicationVersion() string {
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if !buildInfoAvailable {
		return unknownVersion
	}
	return versionFromBuildInfo(buildInfo)
}

func versionFromBuildInfo(buildInfo *debug.BuildInfo) string {
	if buildInfo == nil {
		return unknownVersion
	}
	if buildInfo.Main.Version != "" && buildInfo.Main.Version != developmentVersion {
		return buildInfo.Main.Version
	}
	var revision string
	var modified bool
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case revisionSettingKey:
			revision = setting.Value
		case modifiedSettingKey:
			modified = setting.Value == "true"
		}
	}
	if revision == "" {
		return unknownVersion
	}
	if len(revision) > shortRevisionLength {
		revision = revision[:shortRevisionLength]
	}
	if modified {
		revision += dirtyRevisionSuffix
	}
	return revisionVersionPrefix + revision
}
