// Package report folds the engagement snapshots into the activity report
// and the list of unique leads.
package report

import (
	"fmt"
	"sort"
	"strings"

	"vkleads/pkg/logger"
	"vkleads/pkg/models"
	"vkleads/pkg/storage"
)

// Inputs holds the engagement records the report is built from
type Inputs struct {
	PhotoLikes    []models.PhotoLikes
	PhotoComments []models.PhotoComments
	WallLikes     []models.WallLike
	WallComments  []models.WallComment
}

// Report is the sorted, deduplicated outcome of Build
type Report struct {
	Lines []string
	Leads []string
}

// Paths names the snapshot files Generate reads and writes
type Paths struct {
	PhotoLikes    string
	PhotoComments string
	WallLikes     string
	WallComments  string
	Report        string
	Leads         string
}

// Build produces one line per engagement and the profile link of every
// engaged user. Both lists are deduplicated and sorted, so Build is
// idempotent over the same inputs.
func Build(in Inputs) Report {
	var lines, leads []string

	for _, p := range in.PhotoLikes {
		for _, like := range p.Likes {
			lines = append(lines, fmt.Sprintf("%s liked photo %s", like.UserLink, p.PhotoURL))
			leads = append(leads, like.UserLink)
		}
	}
	for _, p := range in.PhotoComments {
		for _, c := range p.Comments {
			lines = append(lines, fmt.Sprintf("%s commented '%s' on photo %s", c.AuthorLink, singleLine(c.Text), p.PhotoURL))
			leads = append(leads, c.AuthorLink)
		}
	}
	for _, like := range in.WallLikes {
		lines = append(lines, fmt.Sprintf("%s liked post %s", like.LikerURL, like.PostURL))
		leads = append(leads, like.LikerURL)
	}
	for _, c := range in.WallComments {
		lines = append(lines, fmt.Sprintf("%s commented on wall post %s", c.AuthorURL, c.PostURL))
		leads = append(leads, c.AuthorURL)
	}

	return Report{
		Lines: uniqueSorted(lines),
		Leads: uniqueSorted(leads),
	}
}

func uniqueSorted(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, s := range items {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Generate reads the four engagement snapshots, builds the report and
// writes both text files. A missing snapshot counts as empty; a malformed
// one aborts with a configuration error.
func Generate(store *storage.Manager, paths Paths, log logger.Logger) (Report, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	var in Inputs
	sources := []struct {
		name   string
		target interface{}
	}{
		{paths.PhotoLikes, &in.PhotoLikes},
		{paths.PhotoComments, &in.PhotoComments},
		{paths.WallLikes, &in.WallLikes},
		{paths.WallComments, &in.WallComments},
	}
	for _, src := range sources {
		if err := store.ReadJSON(src.name, src.target); err != nil {
			if storage.IsNotFound(err) {
				log.WarnWithFields("Snapshot missing, treating as empty", map[string]interface{}{
					"file": store.Path(src.name),
				})
				continue
			}
			return Report{}, err
		}
	}

	rep := Build(in)

	if err := store.WriteLines(paths.Report, rep.Lines); err != nil {
		return rep, fmt.Errorf("failed to write report: %w", err)
	}
	if err := store.WriteLines(paths.Leads, rep.Leads); err != nil {
		return rep, fmt.Errorf("failed to write leads: %w", err)
	}

	log.InfoWithFields("Report generated", map[string]interface{}{
		"lines":  len(rep.Lines),
		"leads":  len(rep.Leads),
		"report": store.Path(paths.Report),
		"unique": store.Path(paths.Leads),
	})
	return rep, nil
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// singleLine keeps a comment on its report line
func singleLine(text string) string {
	return lineBreaks.Replace(text)
}
