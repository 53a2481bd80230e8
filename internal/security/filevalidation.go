package security

import (
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"sentinel/pkg/errors"
)

// MaxFilenameLength caps uploaded file names.
const MaxFilenameLength = 255

// allowedTypes maps accepted extensions to the MIME type the content must
// actually carry. Extension alone is not trusted.
var allowedTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
}

// ValidateUpload checks an uploaded file before it is stored: filename sanity,
// extension allow-list, size bounds, and agreement between the sniffed content
// type and the extension. Returns the validated lowercase extension.
func ValidateUpload(filename string, content []byte, maxSize int64) (string, error) {
	if filename == "" || len(filename) > MaxFilenameLength {
		return "", errors.Wrapf(errors.ErrInvalidInput, "invalid filename or filename too long (max %d chars)", MaxFilenameLength)
	}

	if strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		return "", errors.Wrap(errors.ErrInvalidInput, "filename contains invalid characters")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	wantMIME, ok := allowedTypes[ext]
	if !ok {
		return "", errors.Wrapf(errors.ErrUnsupportedFormat, "unsupported file type %q, allowed: .pdf, .docx, .txt", ext)
	}

	if len(content) == 0 {
		return "", errors.Wrap(errors.ErrInvalidInput, "file is empty")
	}

	if int64(len(content)) > maxSize {
		return "", errors.Wrapf(errors.ErrFileTooLarge, "maximum size is %s", humanize.IBytes(uint64(maxSize)))
	}

	detected := mimetype.Detect(content)
	if !detected.Is(wantMIME) {
		return "", errors.Wrapf(errors.ErrInvalidInput,
			"file extension %q does not match detected content type %q", ext, detected.String())
	}

	return ext, nil
}

// SanitizeFilename strips path components and shell-unfriendly characters from
// a user-supplied filename, preserving the extension when truncating.
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)

	replacer := strings.NewReplacer(
		"..", "_", "/", "_", `\`, "_",
		"<", "_", ">", "_", ":", "_",
		`"`, "_", "|", "_", "?", "_", "*", "_",
	)
	filename = replacer.Replace(filename)

	if len(filename) > MaxFilenameLength {
		ext := filepath.Ext(filename)
		name := strings.TrimSuffix(filename, ext)
		filename = name[:MaxFilenameLength-len(ext)] + ext
	}

	return filename
}
