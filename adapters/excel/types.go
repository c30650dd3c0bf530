package excel

// Column headers used by the workbook and CSV layouts
const (
	ControlColumn   = "Control"
	TreatmentColumn = "Treatment"

	SampleSheet = "Sample"
	ReportSheet = "Report"
)

// Groups holds the two numeric columns read from a file
type Groups struct {
	Control   []float64
	Treatment []float64
}
