package transfer

// Google Workspace documents have no native byte stream; Drive exports
// them to an Office format instead.
const (
	mimeGoogleDocument     = "application/vnd.google-apps.document"
	mimeGoogleSpreadsheet  = "application/vnd.google-apps.spreadsheet"
	mimeGooglePresentation = "application/vnd.google-apps.presentation"
)

// ExportFormat is the conversion target for a Google Workspace type:
// the MIME type requested from the export endpoint and the extension
// appended to the local file name.
type ExportFormat struct {
	MimeType  string
	Extension string
}

var exportFormats = map[string]ExportFormat{
	mimeGoogleDocument: {
		MimeType:  "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Extension: ".docx",
	},
	mimeGoogleSpreadsheet: {
		MimeType:  "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Extension: ".xlsx",
	},
	mimeGooglePresentation: {
		MimeType:  "application/vnd.openxmlformats-officedocument.presentationml.presentation",
		Extension: ".pptx",
	},
}

// ExportFormatFor returns the export conversion for a MIME type. Types
// without a conversion download as raw bytes.
func ExportFormatFor(mimeType string) (ExportFormat, bool) {
	format, ok := exportFormats[mimeType]
	return format, ok
}
