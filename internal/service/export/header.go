package export

import "time"

// Institutional header block stamped onto every export. These are
// presentation constants; the dashboard expects the same block across all
// formats so the downloaded reports look consistent.
const (
	orgName    = "OvoTrace Poultry Systems"
	orgAddress = "Unit 4, Agritech Park, 2031 BV Haarlem, Netherlands"
)

// headerLines renders the shared header block with the generation timestamp.
func headerLines(generatedAt time.Time) []string {
	return []string{
		orgName,
		orgAddress,
		"Generated: " + generatedAt.UTC().Format("2006-01-02 15:04:05 UTC"),
	}
}
