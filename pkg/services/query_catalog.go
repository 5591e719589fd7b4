package services

import (
	"github.com/ekaya-inc/artifact-collector/pkg/models"
)

// ArtifactColorsQuery is the catalog number of the query parameterized by
// artifact id.
const ArtifactColorsQuery = 14

// queryCatalog is the fixed set of analytical queries over the three artifact
// tables. Statements are written for SQLite and PostgreSQL; SQLServer holds the
// T-SQL spelling where the two differ.
var queryCatalog = []models.CannedQuery{
	{
		Number:   1,
		Question: "List all artifacts from the 11th century belonging to Byzantine culture",
		SQL:      "SELECT * FROM artifact_metadata WHERE culture = 'Byzantine' AND dated LIKE '%11th century%'",
	},
	{
		Number:   2,
		Question: "What are the unique cultures represented in the artifacts?",
		SQL:      "SELECT DISTINCT culture FROM artifact_metadata WHERE culture IS NOT NULL",
	},
	{
		Number:   3,
		Question: "List all artifacts from the Archaic Period",
		SQL:      "SELECT * FROM artifact_metadata WHERE period LIKE '%Archaic%'",
	},
	{
		Number:   4,
		Question: "List artifact titles ordered by accession year in descending order",
		SQL:      "SELECT title, accessionyear FROM artifact_metadata WHERE accessionyear IS NOT NULL ORDER BY accessionyear DESC",
	},
	{
		Number:   5,
		Question: "How many artifacts are there per department?",
		SQL:      "SELECT department, COUNT(*) AS total FROM artifact_metadata GROUP BY department ORDER BY total DESC",
	},
	{
		Number:   6,
		Question: "Which artifacts have more than 1 image?",
		SQL:      "SELECT m.title, a.imagecount FROM artifact_media a JOIN artifact_metadata m ON m.id = a.object_id WHERE a.imagecount > 1",
	},
	{
		Number:   7,
		Question: "What is the average rank of all artifacts?",
		SQL:      "SELECT AVG(rank) AS avg_rank FROM artifact_media WHERE rank IS NOT NULL",
	},
	{
		Number:   8,
		Question: "Which artifacts have a higher colorcount than mediacount?",
		SQL:      "SELECT m.title, a.colorcount, a.mediacount FROM artifact_media a JOIN artifact_metadata m ON m.id = a.object_id WHERE COALESCE(a.colorcount, 0) > COALESCE(a.mediacount, 0)",
	},
	{
		Number:   9,
		Question: "List all artifacts created between 1500 and 1600",
		// datedbegin/datedend live on artifact_media.
		SQL: "SELECT m.title, a.datedbegin, a.datedend FROM artifact_metadata m JOIN artifact_media a ON m.id = a.object_id WHERE a.datedbegin >= 1500 AND a.datedend <= 1600",
	},
	{
		Number:   10,
		Question: "How many artifacts have no media files?",
		SQL:      "SELECT COUNT(*) AS no_media FROM artifact_media WHERE COALESCE(mediacount, 0) = 0",
	},
	{
		Number:   11,
		Question: "What are all the distinct hues used in the dataset?",
		SQL:      "SELECT DISTINCT hue FROM artifact_colors WHERE hue IS NOT NULL",
	},
	{
		Number:    12,
		Question:  "What are the top 5 most used colors by frequency?",
		SQL:       "SELECT hue, COUNT(*) AS freq FROM artifact_colors WHERE hue IS NOT NULL GROUP BY hue ORDER BY freq DESC LIMIT 5",
		SQLServer: "SELECT TOP 5 hue, COUNT(*) AS freq FROM artifact_colors WHERE hue IS NOT NULL GROUP BY hue ORDER BY freq DESC",
	},
	{
		Number:   13,
		Question: "What is the average coverage percentage for each hue?",
		SQL:      "SELECT hue, AVG(percentage) AS avg_percentage FROM artifact_colors WHERE percentage IS NOT NULL GROUP BY hue ORDER BY avg_percentage DESC",
	},
	{
		Number:        ArtifactColorsQuery,
		Question:      "List all colors used for a given artifact ID",
		SQL:           "SELECT hue, percentage FROM artifact_colors WHERE object_id = ?",
		Parameterized: true,
	},
	{
		Number:   15,
		Question: "What is the total number of color entries in the dataset?",
		SQL:      "SELECT COUNT(*) AS total_colors FROM artifact_colors",
	},
	{
		Number:   16,
		Question: "List artifact titles and hues for all artifacts belonging to the Byzantine culture",
		SQL:      "SELECT m.title, c.hue FROM artifact_metadata m JOIN artifact_colors c ON m.id = c.object_id WHERE m.culture = 'Byzantine'",
	},
	{
		Number:   17,
		Question: "List each artifact title with its associated hues",
		SQL:      "SELECT m.title, c.hue FROM artifact_metadata m JOIN artifact_colors c ON m.id = c.object_id",
	},
	{
		Number:   18,
		Question: "Get artifact titles, cultures, and media ranks where the period is not null",
		SQL:      "SELECT m.title, m.culture, a.rank FROM artifact_metadata m JOIN artifact_media a ON m.id = a.object_id WHERE m.period IS NOT NULL",
	},
	{
		Number:    19,
		Question:  "Find artifact titles ranked in the top 10 that include the color hue 'Grey'",
		SQL:       "SELECT m.title, a.rank FROM artifact_metadata m JOIN artifact_media a ON m.id = a.object_id JOIN artifact_colors c ON m.id = c.object_id WHERE c.hue = 'Grey' ORDER BY a.rank ASC LIMIT 10",
		SQLServer: "SELECT TOP 10 m.title, a.rank FROM artifact_metadata m JOIN artifact_media a ON m.id = a.object_id JOIN artifact_colors c ON m.id = c.object_id WHERE c.hue = 'Grey' ORDER BY a.rank ASC",
	},
	{
		Number:   20,
		Question: "How many artifacts exist per classification, and what is the average media count for each?",
		SQL:      "SELECT m.classification, COUNT(*) AS total, AVG(a.mediacount) AS avg_media FROM artifact_metadata m JOIN artifact_media a ON m.id = a.object_id GROUP BY m.classification ORDER BY total DESC",
		// T-SQL AVG over an INT column truncates to an integer.
		SQLServer: "SELECT m.classification, COUNT(*) AS total, AVG(CAST(a.mediacount AS FLOAT)) AS avg_media FROM artifact_metadata m JOIN artifact_media a ON m.id = a.object_id GROUP BY m.classification ORDER BY total DESC",
	},
	{
		Number:    21,
		Question:  "Which culture has created the most artifacts?",
		SQL:       "SELECT culture, COUNT(*) AS total FROM artifact_metadata GROUP BY culture ORDER BY total DESC LIMIT 1",
		SQLServer: "SELECT TOP 1 culture, COUNT(*) AS total FROM artifact_metadata GROUP BY culture ORDER BY total DESC",
	},
	{
		Number:    22,
		Question:  "During which period were most of the artifacts created?",
		SQL:       "SELECT period, COUNT(*) AS total FROM artifact_metadata WHERE period IS NOT NULL GROUP BY period ORDER BY total DESC LIMIT 1",
		SQLServer: "SELECT TOP 1 period, COUNT(*) AS total FROM artifact_metadata WHERE period IS NOT NULL GROUP BY period ORDER BY total DESC",
	},
	{
		Number:   23,
		Question: "What is the most common artifact in every period?",
		SQL: `WITH counts AS (
    SELECT period, title, COUNT(*) AS cnt
    FROM artifact_metadata
    WHERE period IS NOT NULL
    GROUP BY period, title
), maxes AS (
    SELECT period, MAX(cnt) AS max_cnt FROM counts GROUP BY period
)
SELECT c.period, c.title, c.cnt FROM counts c JOIN maxes m ON c.period = m.period AND c.cnt = m.max_cnt ORDER BY c.period`,
	},
	{
		Number:   24,
		Question: "How many distinct colors are used across the artifacts?",
		SQL:      "SELECT COUNT(DISTINCT hue) AS total_unique_colors FROM artifact_colors WHERE hue IS NOT NULL",
	},
	{
		Number:   25,
		Question: "What is the most common artifact in every culture?",
		SQL: `WITH counts AS (
    SELECT culture, title, COUNT(*) AS cnt
    FROM artifact_metadata
    WHERE culture IS NOT NULL
    GROUP BY culture, title
), maxes AS (
    SELECT culture, MAX(cnt) AS max_cnt FROM counts GROUP BY culture
)
SELECT c.culture, c.title, c.cnt FROM counts c JOIN maxes m ON c.culture = m.culture AND c.cnt = m.max_cnt ORDER BY c.culture`,
	},
}

// QueryCatalog returns a copy of the canned queries ordered by number.
func QueryCatalog() []models.CannedQuery {
	out := make([]models.CannedQuery, len(queryCatalog))
	copy(out, queryCatalog)
	return out
}

// lookupQuery returns the catalog entry with the given number.
func lookupQuery(number int) (models.CannedQuery, bool) {
	if number < 1 || number > len(queryCatalog) {
		return models.CannedQuery{}, false
	}
	return queryCatalog[number-1], true
}

// statementFor picks the statement text for a dialect type.
func statementFor(q models.CannedQuery, dialectType string) string {
	if dialectType == "sqlserver" && q.SQLServer != "" {
		return q.SQLServer
	}
	return q.SQL
}
