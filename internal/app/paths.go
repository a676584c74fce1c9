package app

import (
	"fmt"
	"path/filepath"
	"time"
)

// periodPaths locates everything one reporting period owns on disk. The
// layout buckets runs by calendar year and ISO week, with the period's
// assets (documents, previews, figures, run cache) in a sibling directory
// the markdown references relatively:
//
//	<root>/<year>/week_<WW>/<prefix>_<Y_M_D>.md
//	<root>/<year>/week_<WW>/assets/<prefix>_<Y_M_D>/papers_data.json
type periodPaths struct {
	ReportFile string
	AssetsDir  string
	DataFile   string
	// RelAssets prefixes asset references inside the markdown, relative to
	// the report's own directory.
	RelAssets string
}

func pathsFor(root, prefix string, date time.Time) periodPaths {
	year := date.Format("2006")
	_, week := date.ISOWeek()
	dateStr := date.Format("2006_01_02")

	weekDir := filepath.Join(root, year, fmt.Sprintf("week_%02d", week))
	folder := prefix + "_" + dateStr
	assetsDir := filepath.Join(weekDir, "assets", folder)

	return periodPaths{
		ReportFile: filepath.Join(weekDir, prefix+"_"+dateStr+".md"),
		AssetsDir:  assetsDir,
		DataFile:   filepath.Join(assetsDir, "papers_data.json"),
		RelAssets:  "./assets/" + folder,
	}
}
