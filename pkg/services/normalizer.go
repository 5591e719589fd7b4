package services

import (
	"encoding/json"

	"github.com/ekaya-inc/artifact-collector/pkg/jsonutil"
	"github.com/ekaya-inc/artifact-collector/pkg/models"
)

// NormalizedRecords is the three-table projection of a set of raw records.
type NormalizedRecords struct {
	Metadata []models.ArtifactMetadata
	Media    []models.ArtifactMedia
	Colors   []models.ArtifactColor
	Skipped  int // records that were not objects or had no usable id
}

// NormalizeRecords projects raw API records into metadata, media and color
// rows tagged with classification. Each table is deduplicated on its key with
// the first occurrence winning, and colors without a hue are dropped.
func NormalizeRecords(classification string, records []json.RawMessage) NormalizedRecords {
	var out NormalizedRecords
	seenMeta := make(map[int64]bool, len(records))
	seenMedia := make(map[int64]bool, len(records))
	seenColor := make(map[models.ColorKey]bool)

	for _, raw := range records {
		var rec models.RawRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			out.Skipped++
			continue
		}
		id := jsonutil.FlexibleInt(rec.ID)
		if id == nil {
			out.Skipped++
			continue
		}

		if !seenMeta[*id] {
			seenMeta[*id] = true
			out.Metadata = append(out.Metadata, projectMetadata(*id, classification, &rec))
		}
		if !seenMedia[*id] {
			seenMedia[*id] = true
			out.Media = append(out.Media, projectMedia(*id, &rec))
		}
		for _, c := range projectColors(*id, rec.Colors) {
			if seenColor[c.Key()] {
				continue
			}
			seenColor[c.Key()] = true
			out.Colors = append(out.Colors, c)
		}
	}

	return out
}

func projectMetadata(id int64, classification string, rec *models.RawRecord) models.ArtifactMetadata {
	return models.ArtifactMetadata{
		ID:             id,
		Title:          jsonutil.FlexibleString(rec.Title),
		Culture:        jsonutil.FlexibleString(rec.Culture),
		Dated:          jsonutil.FlexibleString(rec.Dated),
		Period:         jsonutil.FlexibleString(rec.Period),
		Division:       jsonutil.FlexibleString(rec.Division),
		Medium:         jsonutil.FlexibleString(rec.Medium),
		Dimensions:     jsonutil.FlexibleString(rec.Dimensions),
		Weight:         jsonutil.FlexibleString(rec.Weight),
		Department:     jsonutil.FlexibleString(rec.Department),
		AccessionYear:  jsonutil.FlexibleInt(rec.AccessionYear),
		Classification: classification,
	}
}

func projectMedia(id int64, rec *models.RawRecord) models.ArtifactMedia {
	return models.ArtifactMedia{
		ObjectID:   id,
		ImageCount: jsonutil.FlexibleInt(rec.ImageCount),
		MediaCount: jsonutil.FlexibleInt(rec.MediaCount),
		ColorCount: jsonutil.FlexibleInt(rec.ColorCount),
		Rank:       jsonutil.FlexibleFloat(rec.Rank),
		DatedBegin: jsonutil.FlexibleInt(rec.DatedBegin),
		DatedEnd:   jsonutil.FlexibleInt(rec.DatedEnd),
	}
}

// projectColors expands a record's colors list. A missing, null or
// non-array list yields no rows, as do entries without a hue.
func projectColors(id int64, raw json.RawMessage) []models.ArtifactColor {
	if jsonutil.IsNull(raw) {
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}

	colors := make([]models.ArtifactColor, 0, len(entries))
	for _, entry := range entries {
		var c models.RawColor
		if err := json.Unmarshal(entry, &c); err != nil {
			continue
		}
		hue := jsonutil.FlexibleString(c.Hue)
		if hue == nil {
			continue
		}
		colors = append(colors, models.ArtifactColor{
			ObjectID:   id,
			Hue:        *hue,
			Percentage: jsonutil.FlexibleFloat(c.Percent),
		})
	}
	return colors
}
