package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeUnknown           = "UNKNOWN"
	CodeStorageFailure    = "STORAGE_FAILURE"
	CodeNotFound          = "NOT_FOUND"
	CodeFontDecodeFailure = "FONT_DECODE_FAILURE"
	CodeFontRepairFailure = "FONT_REPAIR_FAILURE"
	CodeDanglingReference = "DANGLING_REFERENCE"
	CodeInvalidArgument   = "INVALID_ARGUMENT"
	CodeNotReady          = "NOT_READY"
)

var enUSMessages = map[Code]string{
	CodeUnknown:           "Something went wrong. Please try again.",
	CodeStorageFailure:    "Could not save your changes locally. Check free disk space and try again.",
	CodeNotFound:          "The requested item no longer exists.",
	CodeFontDecodeFailure: "The font {{.Name}} could not be loaded. The file may be damaged or in an unsupported format; try the font repair tool.",
	CodeFontRepairFailure: "The font could not be repaired: {{.Reason}}",
	CodeDanglingReference: "The selected font is no longer available.",
	CodeInvalidArgument:   "Invalid value for {{.Field}}.",
	CodeNotReady:          "The worksheet is still loading. Please wait a moment.",
}
