package printing

// Engine selects how an order document becomes a PDF
type Engine string

const (
	EngineChromedp Engine = "chromedp" // HTML print view rendered by headless Chrome
	EngineGofpdf   Engine = "gofpdf"   // native PDF drawing, no browser needed
)

// IsValid checks if the Engine is a valid value
func (e Engine) IsValid() bool {
	return e == EngineChromedp || e == EngineGofpdf
}

// String returns the string representation of Engine
func (e Engine) String() string {
	return string(e)
}

// PaperSize represents the paper size for printing
type PaperSize string

const (
	PaperSizeA4 PaperSize = "A4" // 210mm x 297mm
	PaperSizeA5 PaperSize = "A5" // 148mm x 210mm
)

// IsValid checks if the PaperSize is a valid value
func (p PaperSize) IsValid() bool {
	return p == PaperSizeA4 || p == PaperSizeA5
}

// Dimensions returns the paper dimensions in millimeters (width, height)
func (p PaperSize) Dimensions() (width, height int) {
	switch p {
	case PaperSizeA5:
		return 148, 210
	default:
		return 210, 297
	}
}

// Orientation represents the page orientation for printing
type Orientation string

const (
	OrientationPortrait  Orientation = "PORTRAIT"
	OrientationLandscape Orientation = "LANDSCAPE"
)

// IsValid checks if the Orientation is a valid value
func (o Orientation) IsValid() bool {
	return o == OrientationPortrait || o == OrientationLandscape
}
