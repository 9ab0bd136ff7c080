package casestudy

import "errors"

var (
	ErrCaseStudyNotFound = errors.New("case study not found")
	ErrSlugConflict      = errors.New("slug already in use")
)
