package media

import "errors"

var (
	ErrNoFile             = errors.New("no file provided")
	ErrEmptyFilename      = errors.New("no file selected")
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrEmptyFile          = errors.New("file is empty")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrMediaNotFound      = errors.New("media not found")
	ErrUnsafeFilename     = errors.New("stored filename escapes the upload directory")
)
