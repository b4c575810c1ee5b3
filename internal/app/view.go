package app

import (
	"fmt"
	"strings"

	"dnarelationships/relationships"
)

const (
	unitLabelCM      = "cM"
	unitLabelPercent = "%"
)

var unitByLabel = map[string]relationships.Unit{
	unitLabelCM:      relationships.UnitCM,
	unitLabelPercent: relationships.UnitPercent,
}

func unitForLabel(label string) relationships.Unit {
	if u, ok := unitByLabel[label]; ok {
		return u
	}
	return relationships.UnitCM
}

// entryNotices returns the substitutions made in the unit the user typed. A cM
// clamp that follows a percentage entry is reported by the bottom bar instead.
func entryNotices(res relationships.Result) []relationships.ClampNotice {
	var out []relationships.ClampNotice
	for _, n := range res.Notices {
		if n.Unit == res.Unit {
			out = append(out, n)
		}
	}
	return out
}

// clampedEntryText is the value written back into the entry after a substitution.
// It returns false when nothing the user typed was clamped.
func clampedEntryText(nf *relationships.NumberFormat, res relationships.Result) (string, bool) {
	notices := entryNotices(res)
	if len(notices) == 0 {
		return "", false
	}
	return nf.Format(notices[len(notices)-1].Substituted), true
}

func clampMessage(res relationships.Result) string {
	notices := entryNotices(res)
	msgs := make([]string, len(notices))
	for i, n := range notices {
		msgs[i] = n.Message()
	}
	return strings.Join(msgs, "\n")
}

func percentText(nf *relationships.NumberFormat, res relationships.Result) string {
	return fmt.Sprintf("%s %% shared cM", nf.Format(res.Percent))
}

func centimorgansText(nf *relationships.NumberFormat, res relationships.Result) string {
	return fmt.Sprintf("Centimorgans: %s", nf.Format(res.CM))
}

func bucketTitle(nf *relationships.NumberFormat, b relationships.Bucket) string {
	return nf.Format(b.Probability) + "%"
}

const helpText = `Enter the amount of DNA you share with a match, either in centimorgans (cM)
or as a percentage of the genome, then press Calculate.

Relationships that share the same probability are grouped together. Values
below 1 cM or above 3720 cM are replaced with the nearest supported value.`

func aboutText(cfg relationships.Config, tables *relationships.Tables) string {
	source := "bundled"
	if cfg.DataDir != "" {
		source = cfg.DataDir
	}
	return fmt.Sprintf("DNA Relationships\n\nReference tables: %s\n%d relationships, %d likelihood anchors\nLocale: %s",
		source, len(tables.Groupings), len(tables.Likelihoods), cfg.Locale)
}
