package scraper

import (
	"strings"

	"vkleads/pkg/errors"
)

// Stage names a pipeline step
type Stage string

const (
	StageSearch        Stage = "search"
	StageRemoveOld     Stage = "remove_old"
	StageInspectWall   Stage = "inspect_wall"
	StageInspectPhotos Stage = "inspect_photos"
	StageReport        Stage = "report"
)

// Stages lists every stage in pipeline order
var Stages = []Stage{
	StageSearch,
	StageRemoveOld,
	StageInspectWall,
	StageInspectPhotos,
	StageReport,
}

// ParseStage resolves a command name to a Stage
func ParseStage(name string) (Stage, error) {
	for _, s := range Stages {
		if string(s) == name {
			return s, nil
		}
	}

	names := make([]string, len(Stages))
	for i, s := range Stages {
		names[i] = string(s)
	}
	return "", errors.Config("unknown command %q, expected one of: %s", name, strings.Join(names, ", "))
}

// Remote reports whether the stage calls the API
func (s Stage) Remote() bool {
	return s != StageReport
}

func (s Stage) String() string {
	return string(s)
}
